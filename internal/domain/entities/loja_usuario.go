package entities

import "time"

// Funcao é o rótulo da função de um usuário dentro de uma loja
type Funcao string

const (
	FuncaoGerente    Funcao = "gerente"
	FuncaoEntregador Funcao = "entregador"
)

// StatusAtivo é o único status de vínculo considerado na resolução de papel
const StatusAtivo = "ativo"

// LojaUsuario associa um usuário a uma loja (tabela loja_usuarios).
// Um entregador pode atender várias lojas.
type LojaUsuario struct {
	ID        string
	UsuarioID string
	LojaID    string
	Funcao    Funcao
	Status    string
	CreatedAt time.Time
}

// IsActive indica se o vínculo está ativo
func (l *LojaUsuario) IsActive() bool {
	return l.Status == StatusAtivo
}
