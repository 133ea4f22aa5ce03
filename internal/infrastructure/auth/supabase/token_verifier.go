package supabase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/valueobjects"
)

// Claims são as claims de um access token emitido pelo Supabase Auth
type Claims struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"` // papel do Postgres ("authenticated"), não o papel do painel
	jwt.RegisteredClaims
}

// TokenVerifier valida access tokens HS256 assinados com o JWT secret do projeto
type TokenVerifier struct {
	secret   []byte
	audience string
	issuer   string
	now      func() time.Time
}

// NewTokenVerifier cria um verificador. issuer vazio desativa a checagem de emissor.
func NewTokenVerifier(secret, audience, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		audience: audience,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Verify valida o token e devolve a sessão correspondente
func (v *TokenVerifier) Verify(token string) (*entities.Session, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.Wrap(domainerrors.ErrSessionExpired, err)
		}
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domainerrors.ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidToken, fmt.Errorf("invalid subject: %w", err))
	}

	email, err := valueobjects.NewOptionalEmail(claims.Email)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidToken, err)
	}

	return &entities.Session{
		Subject:     subject.String(),
		Email:       email,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
