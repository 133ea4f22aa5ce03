package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var model UsuarioModel

	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toUser(&model), nil
}

// Update grava apenas os campos editáveis do perfil; a flag admin não é tocada
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	result := dbFrom(ctx, r.db).
		Model(&UsuarioModel{ID: user.ID}).
		Select("nome", "username", "telefone", "avatar_url", "updated_at").
		Updates(&UsuarioModel{
			Nome:      user.Nome,
			Username:  user.Username,
			Telefone:  user.Telefone,
			AvatarURL: user.AvatarURL,
			UpdatedAt: time.Now().Unix(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UsuarioModel

	query := dbFrom(ctx, r.db).Model(&UsuarioModel{})

	if filters.Admin != nil {
		query = query.Where("admin = ?", *filters.Admin)
	}

	// Paginação
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query = query.Order("nome ASC").Limit(pageSize).Offset((page - 1) * pageSize)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUser(m))
	}
	return users, nil
}

func toUser(model *UsuarioModel) *entities.User {
	return &entities.User{
		ID:        model.ID,
		Nome:      model.Nome,
		Username:  model.Username,
		Telefone:  model.Telefone,
		AvatarURL: model.AvatarURL,
		Admin:     model.Admin,
		CreatedAt: time.Unix(model.CreatedAt, 0),
		UpdatedAt: time.Unix(model.UpdatedAt, 0),
	}
}
