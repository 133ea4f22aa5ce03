package http

import (
	errs "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/services"
)

// UserHandler lida com a consulta administrativa de usuários
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetUser busca um usuário por ID
//
//	@Summary		Busca usuário
//	@Tags			usuarios
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"ID do usuário (UUID)"
//	@Success		200	{object}	dto.UserResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Failure		403	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/usuarios/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, []dto.ValidationError{
			{Field: "id", Message: "uuid", Tag: "uuid"},
		}))
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errs.Is(err, errors.ErrUserNotFound) {
			dto.Abort(c, dto.NotFoundErrorResponseI18n(c, dto.T(c, "resource.user")))
			return
		}
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListUsers lista usuários com paginação
//
//	@Summary		Lista usuários
//	@Tags			usuarios
//	@Produce		json
//	@Security		BearerAuth
//	@Param			admin		query		bool	false	"Filtra administradores"
//	@Param			page		query		int		false	"Página (começa em 1)"
//	@Param			page_size	query		int		false	"Itens por página (máx. 100)"
//	@Success		200			{object}	dto.UserListResponse
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		401			{object}	dto.ErrorResponse
//	@Failure		403			{object}	dto.ErrorResponse
//	@Router			/usuarios [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, dto.ValidationErrorsFrom(err)))
		return
	}

	filters := repositories.UserFilters{
		Admin:    query.Admin,
		Page:     max(query.Page, 1),
		PageSize: query.PageSize,
	}
	if filters.PageSize == 0 {
		filters.PageSize = 20
	}

	users, err := h.userService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Items:    dto.ToUserResponses(users),
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}
