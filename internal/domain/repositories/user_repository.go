package repositories

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// UserRepository define a interface para persistência de perfis de usuário
type UserRepository interface {
	// FindByID busca o perfil pelo subject id. Retorna (nil, nil) se não existir.
	FindByID(ctx context.Context, id string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Admin    *bool
	Page     int // Página (começa em 1)
	PageSize int // Itens por página (default: 20, max: 100)
}
