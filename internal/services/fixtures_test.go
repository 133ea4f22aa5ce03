package services

import (
	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/infrastructure/logging"
)

const (
	subjectA = "5f0c1c9e-0b7e-4d59-9a41-2f1d1d0a0001"
	subjectB = "5f0c1c9e-0b7e-4d59-9a41-2f1d1d0a0002"
)

var testLogger = logging.NewNopLogger()

func newSession(subject string) *entities.Session {
	return &entities.Session{Subject: subject}
}

func newUser(id string, admin bool) *entities.User {
	return &entities.User{ID: id, Nome: "Usuário " + id[len(id)-4:], Admin: admin}
}

func membership(usuarioID, lojaID string, funcao entities.Funcao, status string) *entities.LojaUsuario {
	return &entities.LojaUsuario{
		ID:        usuarioID + "-" + lojaID,
		UsuarioID: usuarioID,
		LojaID:    lojaID,
		Funcao:    funcao,
		Status:    status,
	}
}

func ativo(usuarioID, lojaID string, funcao entities.Funcao) *entities.LojaUsuario {
	return membership(usuarioID, lojaID, funcao, entities.StatusAtivo)
}

func pedidos(lojaIDs ...string) []*entities.Pedido {
	out := make([]*entities.Pedido, len(lojaIDs))
	for i, lojaID := range lojaIDs {
		out[i] = &entities.Pedido{ID: "pedido-" + string(rune('a'+i)), LojaID: lojaID}
	}
	return out
}
