package repositories

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// LojaUsuarioRepository define a interface para consulta de vínculos usuário-loja
type LojaUsuarioRepository interface {
	// ListByUsuario retorna os vínculos do usuário com o status informado,
	// em ordem de criação
	ListByUsuario(ctx context.Context, usuarioID, status string) ([]*entities.LojaUsuario, error)
}
