package http

import (
	errs "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
	"github.com/rafabene/entregas-backend/internal/services"
)

// ProfileHandler expõe o perfil resolvido do próprio usuário
type ProfileHandler struct {
	userService *services.UserService
}

// NewProfileHandler cria um novo ProfileHandler
func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
	}
}

// GetMe retorna o perfil resolvido para o token da requisição
//
//	@Summary		Perfil resolvido
//	@Description	Papel efetivo, perfil e lojas ativas. Sem token responde como visitante.
//	@Tags			perfil
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ProfileResponse
//	@Router			/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, _ := middleware.GetProfile(c)
	c.JSON(http.StatusOK, dto.ToProfileResponse(profile, func(key string) string {
		return dto.T(c, key)
	}))
}

// UpdateMe edita os dados do próprio perfil
//
//	@Summary		Edita o próprio perfil
//	@Tags			perfil
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.UpdateProfileRequest	true	"Campos a alterar"
//	@Success		200		{object}	dto.UserResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Router			/me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, dto.ValidationErrorsFrom(err)))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), session.Subject, req.ToChanges())
	if err != nil {
		var domainErr *errors.DomainError
		switch {
		case errs.Is(err, errors.ErrProfileNotFound):
			dto.Abort(c, dto.NotFoundErrorResponseI18n(c, dto.T(c, "resource.profile")))
		case errs.As(err, &domainErr) && domainErr.Type == errors.ProblemTypeValidation:
			dto.Abort(c, dto.ValidationErrorResponseI18n(c, []dto.ValidationError{
				{Field: "body", Message: domainErr.Message},
			}))
		default:
			dto.Abort(c, dto.InternalErrorResponseI18n(c))
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
