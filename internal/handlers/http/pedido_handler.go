package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
	"github.com/rafabene/entregas-backend/internal/services"
)

// PedidoHandler lista os pedidos visíveis ao perfil da requisição
type PedidoHandler struct {
	pedidoService *services.PedidoService
}

// NewPedidoHandler cria um novo PedidoHandler
func NewPedidoHandler(pedidoService *services.PedidoService) *PedidoHandler {
	return &PedidoHandler{
		pedidoService: pedidoService,
	}
}

// ListPedidos lista os pedidos das lojas do usuário
//
//	@Summary		Lista pedidos
//	@Description	admin vê todos; gerente vê a loja do seu vínculo; entregador vê as lojas dos seus vínculos.
//	@Tags			pedidos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"Status do pedido"	Enums(pendente, aceito, em_rota, entregue, cancelado)
//	@Param			limit	query		int		false	"Máximo de pedidos recentes consultados"
//	@Success		200		{object}	dto.PedidoListResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		403		{object}	dto.ErrorResponse
//	@Router			/pedidos [get]
func (h *PedidoHandler) ListPedidos(c *gin.Context) {
	var query dto.ListPedidosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, dto.ValidationErrorsFrom(err)))
		return
	}

	filters := repositories.PedidoFilters{Limit: query.Limit}
	if query.Status != "" {
		status := entities.StatusPedido(query.Status)
		filters.Status = &status
	}

	profile, _ := middleware.GetProfile(c)
	pedidos, err := h.pedidoService.ListVisible(c.Request.Context(), profile, filters)
	if err != nil {
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
		return
	}

	c.JSON(http.StatusOK, dto.PedidoListResponse{
		Items:    dto.ToPedidoResponses(pedidos),
		Total:    len(pedidos),
		UserRole: profile.UserRole.String(),
	})
}
