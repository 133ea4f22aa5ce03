package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/infrastructure/auth/supabase"
	"github.com/rafabene/entregas-backend/internal/services"
)

const (
	// SessionContextKey guarda a *entities.Session da requisição (ausente sem login)
	SessionContextKey = "session"
	// ProfileContextKey guarda o services.ResolvedProfile da requisição
	ProfileContextKey = "resolved_profile"
)

// TokenVerifier valida um access token e devolve a sessão correspondente
type TokenVerifier interface {
	Verify(token string) (*entities.Session, error)
}

// ProfileLoader resolve o perfil de uma sessão
type ProfileLoader interface {
	Load(ctx context.Context, session *entities.Session) services.ResolvedProfile
}

// ResolveProfile valida o bearer token e resolve o perfil da requisição.
// Token ausente ou inválido resolve como visitante; quem exige login é RequireRole.
func ResolveProfile(verifier TokenVerifier, loader ProfileLoader, logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *entities.Session

		if token := BearerToken(c); token != "" {
			s, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("ignoring invalid access token",
					"token", supabase.Fingerprint(token),
					"error", err,
				)
			} else {
				session = s
				c.Set(SessionContextKey, s)
			}
		}

		c.Set(ProfileContextKey, loader.Load(c.Request.Context(), session))
		c.Next()
	}
}

// BearerToken extrai o token do header Authorization
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetSession retorna a sessão da requisição, se houver
func GetSession(c *gin.Context) (*entities.Session, bool) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*entities.Session)
	return session, ok && session != nil
}

// GetProfile retorna o perfil resolvido da requisição
func GetProfile(c *gin.Context) (services.ResolvedProfile, bool) {
	value, exists := c.Get(ProfileContextKey)
	if !exists {
		return services.ResolvedProfile{}, false
	}
	profile, ok := value.(services.ResolvedProfile)
	return profile, ok
}
