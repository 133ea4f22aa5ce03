package middleware

import (
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/services"
)

// RequireRole bloqueia a rota para perfis abaixo do papel exigido. Sem sessão a
// resposta é 401; com sessão e papel insuficiente, 403. As duas indicam a rota
// segura e o atraso do redirecionamento, também via header Refresh.
//
// Depende de ResolveProfile; sem perfil no contexto a requisição vale visitante.
func RequireRole(required entities.Role, redirectPath string, delay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, _ := GetProfile(c)

		role := profile.UserRole
		if role == "" {
			role = entities.RoleVisitante
		}

		if services.Authorize(role, required) {
			c.Next()
			return
		}

		var response dto.ErrorResponse
		if _, ok := GetSession(c); ok {
			response = dto.ForbiddenErrorResponseI18n(c, required.String(), redirectPath)
		} else {
			response = dto.UnauthorizedErrorResponseI18n(c)
		}
		response.Meta = map[string]interface{}{
			"required_role":     required.String(),
			"user_role":         role.String(),
			"redirect_to":       redirectPath,
			"redirect_after_ms": delay.Milliseconds(),
		}

		c.Header("Refresh", fmt.Sprintf("%d; url=%s", int(math.Ceil(delay.Seconds())), redirectPath))
		dto.Abort(c, response)
	}
}
