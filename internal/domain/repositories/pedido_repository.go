package repositories

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// PedidoRepository define a interface para consulta de pedidos
type PedidoRepository interface {
	List(ctx context.Context, filters PedidoFilters) ([]*entities.Pedido, error)
}

// PedidoFilters contém filtros para listagem de pedidos
type PedidoFilters struct {
	Status *entities.StatusPedido
	// LojaIDs restringe às lojas informadas; nil não restringe
	LojaIDs []string
	Limit   int // Máximo de pedidos mais recentes (default: 500, max: 2000)
}
