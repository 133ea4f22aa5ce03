package dto

import (
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// ListPedidosQuery são os filtros aceitos na listagem de pedidos
type ListPedidosQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pendente aceito em_rota entregue cancelado"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=2000"`
}

// PedidoResponse representa a resposta de um pedido
type PedidoResponse struct {
	ID           string    `json:"id"`
	LojaID       string    `json:"loja_id"`
	EntregadorID *string   `json:"entregador_id,omitempty"`
	Cliente      string    `json:"cliente"`
	Endereco     string    `json:"endereco"`
	Status       string    `json:"status"`
	Valor        float64   `json:"valor"`
	CreatedAt    time.Time `json:"created_at"`
}

// PedidoListResponse é a listagem de pedidos visíveis ao usuário
type PedidoListResponse struct {
	Items    []PedidoResponse `json:"items"`
	Total    int              `json:"total"`
	UserRole string           `json:"user_role"`
}

// ToPedidoResponses converte os pedidos preservando a ordem
func ToPedidoResponses(pedidos []*entities.Pedido) []PedidoResponse {
	responses := make([]PedidoResponse, len(pedidos))
	for i, p := range pedidos {
		responses[i] = PedidoResponse{
			ID:           p.ID,
			LojaID:       p.LojaID,
			EntregadorID: p.EntregadorID,
			Cliente:      p.Cliente,
			Endereco:     p.Endereco,
			Status:       string(p.Status),
			Valor:        p.Valor,
			CreatedAt:    p.CreatedAt,
		}
	}
	return responses
}
