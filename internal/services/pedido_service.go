package services

import (
	"context"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// PedidoService lista pedidos respeitando o que o perfil pode ver
type PedidoService struct {
	pedidoRepo repositories.PedidoRepository
	logger     ports.Logger
}

// NewPedidoService cria um novo PedidoService
func NewPedidoService(pedidoRepo repositories.PedidoRepository, logger ports.Logger) *PedidoService {
	return &PedidoService{
		pedidoRepo: pedidoRepo,
		logger:     logger,
	}
}

// ListVisible busca os pedidos e aplica o filtro por papel e lojas do perfil.
// Fora do admin a consulta é restrita às lojas do perfil antes do limite de
// pedidos recentes.
func (s *PedidoService) ListVisible(
	ctx context.Context,
	profile ResolvedProfile,
	filters repositories.PedidoFilters,
) ([]*entities.Pedido, error) {
	filters.LojaIDs = nil
	if profile.UserRole != entities.RoleAdmin {
		filters.LojaIDs = profile.LojaIDs()
		if len(filters.LojaIDs) == 0 {
			return []*entities.Pedido{}, nil
		}
	}

	pedidos, err := s.pedidoRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	visible := FiltrarPedidosPorUsuario(pedidos, profile.UserRole, profile.UserLojas)

	s.logger.Debug("pedidos filtered",
		"role", profile.UserRole,
		"lojas", len(profile.UserLojas),
		"total", len(pedidos),
		"visible", len(visible),
	)

	return visible, nil
}
