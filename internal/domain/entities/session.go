package entities

import (
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/valueobjects"
)

// Session é a sessão autenticada emitida pelo provedor externo de auth.
// O backend apenas observa a sessão; quem cria e destrói é o provedor.
type Session struct {
	Subject     string
	Email       valueobjects.Email
	AccessToken string
	ExpiresAt   time.Time
}

// Expired verifica se a sessão já expirou no instante informado
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
