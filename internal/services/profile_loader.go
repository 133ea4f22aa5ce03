package services

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// ProfileLoader executa as consultas da resolução de papel sem guardar estado.
// É compartilhado entre requisições HTTP e resolvers reativos.
type ProfileLoader struct {
	userRepo repositories.UserRepository
	lojaRepo repositories.LojaUsuarioRepository
	logger   ports.Logger
}

// NewProfileLoader cria um novo ProfileLoader
func NewProfileLoader(
	userRepo repositories.UserRepository,
	lojaRepo repositories.LojaUsuarioRepository,
	logger ports.Logger,
) *ProfileLoader {
	return &ProfileLoader{
		userRepo: userRepo,
		lojaRepo: lojaRepo,
		logger:   logger,
	}
}

// Load resolve o perfil completo de uma sessão (nil = sem sessão)
func (l *ProfileLoader) Load(ctx context.Context, session *entities.Session) ResolvedProfile {
	return transition(initialProfile(), l.lookup(ctx, session))
}

// lookup executa as consultas em sequência e retorna o evento terminal
func (l *ProfileLoader) lookup(ctx context.Context, session *entities.Session) profileEvent {
	if session == nil {
		return sessionAbsent{}
	}

	user, err := l.userRepo.FindByID(ctx, session.Subject)
	if err != nil {
		l.logger.Warn("failed to fetch user profile", "subject", session.Subject, "error", err)
		return profileLookupFailed{session: session, err: err}
	}
	if user == nil {
		l.logger.Info("user profile not found", "subject", session.Subject)
		return profileLookupFailed{session: session}
	}

	if user.IsAdmin() {
		return adminConfirmed{session: session, user: user}
	}

	lojas, err := l.lojaRepo.ListByUsuario(ctx, session.Subject, entities.StatusAtivo)
	if err != nil {
		l.logger.Warn("failed to fetch store memberships",
			"subject", session.Subject,
			"error", errors.Wrap(errors.ErrMembershipLookupFailure, err),
		)
		return membershipsFailed{session: session, user: user}
	}

	return membershipsLoaded{session: session, user: user, lojas: lojas}
}
