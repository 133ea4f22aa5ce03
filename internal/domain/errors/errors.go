package errors

import (
	"errors"
	"fmt"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções ficam em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound = errors.New("error.user_not_found")
	ErrUnauthorized = errors.New("error.unauthorized")
	ErrForbidden    = errors.New("error.forbidden")
)

// Erros da resolução de perfil. Nunca atravessam a fronteira do resolver:
// são registrados no campo Err do perfil resolvido.
var (
	ErrAuthLookupFailure       = errors.New("error.auth_lookup_failure")
	ErrProfileNotFound         = errors.New("error.profile_not_found")
	ErrMembershipLookupFailure = errors.New("error.membership_lookup_failure")
)

// Auth errors
var (
	ErrInvalidToken   = errors.New("error.invalid_token")
	ErrSessionExpired = errors.New("error.session_expired")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base vem de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeTooMany      = "/problems/too-many-requests"
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Wrap associa uma causa a um erro sentinela preservando errors.Is para ambos
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Code retorna o message ID do primeiro erro sentinela conhecido na cadeia
func Code(err error) string {
	for _, sentinel := range []error{
		ErrAuthLookupFailure,
		ErrProfileNotFound,
		ErrMembershipLookupFailure,
		ErrInvalidToken,
		ErrSessionExpired,
		ErrUserNotFound,
		ErrUnauthorized,
		ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ""
}
