package services

import (
	"context"
	errs "errors"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// UserService contém a lógica de negócio para perfis de usuário
type UserService struct {
	userRepo repositories.UserRepository
	uow      ports.UnitOfWork
	logger   ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		uow:      uow,
		logger:   logger,
	}
}

// UpdateProfile aplica a edição de perfil do próprio usuário
func (s *UserService) UpdateProfile(ctx context.Context, id string, changes entities.ProfileChanges) (*entities.User, error) {
	var updated *entities.User

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.ErrProfileNotFound
		}

		user.Apply(changes)
		if err := user.Validate(); err != nil {
			return &errors.DomainError{
				Type:    errors.ProblemTypeValidation,
				Message: err.Error(),
				Err:     entities.ErrInvalidUserData,
			}
		}

		if err := s.userRepo.Update(txCtx, user); err != nil {
			if errs.Is(err, errors.ErrUserNotFound) {
				return errors.ErrProfileNotFound
			}
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated", "user_id", id)
	return updated, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers lista usuários com filtros
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	return s.userRepo.List(ctx, filters)
}
