package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// PedidoRepository implementa repositories.PedidoRepository
type PedidoRepository struct {
	db *gorm.DB
}

// NewPedidoRepository cria um novo PedidoRepository
func NewPedidoRepository(db *gorm.DB) repositories.PedidoRepository {
	return &PedidoRepository{db: db}
}

func (r *PedidoRepository) List(ctx context.Context, filters repositories.PedidoFilters) ([]*entities.Pedido, error) {
	var models []*PedidoModel

	query := dbFrom(ctx, r.db).Model(&PedidoModel{})

	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.LojaIDs != nil {
		query = query.Where("loja_id IN ?", filters.LojaIDs)
	}

	limit := filters.Limit
	if limit < 1 {
		limit = 500
	}
	if limit > 2000 {
		limit = 2000
	}

	// Mais recentes primeiro, como no painel
	query = query.Order("created_at DESC, id ASC").Limit(limit)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	pedidos := make([]*entities.Pedido, 0, len(models))
	for _, m := range models {
		pedidos = append(pedidos, &entities.Pedido{
			ID:           m.ID,
			LojaID:       m.LojaID,
			EntregadorID: m.EntregadorID,
			Cliente:      m.Cliente,
			Endereco:     m.Endereco,
			Status:       entities.StatusPedido(m.Status),
			Valor:        m.Valor,
			CreatedAt:    time.Unix(m.CreatedAt, 0),
			UpdatedAt:    time.Unix(m.UpdatedAt, 0),
		})
	}
	return pedidos, nil
}
