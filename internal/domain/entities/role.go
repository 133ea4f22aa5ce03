package entities

import "strings"

// Role representa o papel efetivo de um usuário no painel de entregas
type Role string

const (
	RoleVisitante  Role = "visitante"
	RoleEntregador Role = "entregador"
	RoleGerente    Role = "gerente"
	RoleAdmin      Role = "admin"
)

// roleLevels define a ordem total dos papéis (maior = mais acesso)
var roleLevels = map[Role]int{
	RoleVisitante:  0,
	RoleEntregador: 1,
	RoleGerente:    2,
	RoleAdmin:      3,
}

// Roles retorna todos os papéis conhecidos em ordem crescente de acesso
func Roles() []Role {
	return []Role{RoleVisitante, RoleEntregador, RoleGerente, RoleAdmin}
}

// ParseRole converte um rótulo em Role. Rótulos desconhecidos viram visitante.
func ParseRole(label string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := roleLevels[role]; !ok {
		return RoleVisitante
	}
	return role
}

// Level retorna o nível de acesso do papel; papéis desconhecidos valem 0
func (r Role) Level() int {
	return roleLevels[r]
}

// IsValid indica se o papel é um dos quatro rótulos conhecidos
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast verifica se o papel alcança o nível exigido (limite inclusivo)
func (r Role) AtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

func (r Role) String() string {
	return string(r)
}
