package services

import "github.com/rafabene/entregas-backend/internal/domain/entities"

// FiltrarPedidosPorUsuario reduz a lista de pedidos ao que o papel e os
// vínculos ativos podem ver, preservando a ordem de entrada.
//
// admin vê tudo (a própria slice é devolvida); gerente vê a loja do seu único
// vínculo; entregador vê as lojas de todos os seus vínculos; o resto não vê nada.
func FiltrarPedidosPorUsuario(
	pedidos []*entities.Pedido,
	role entities.Role,
	lojas []*entities.LojaUsuario,
) []*entities.Pedido {
	lojas = compactLojas(lojas)

	switch {
	case role == entities.RoleAdmin:
		return pedidos

	// TODO: gerente com mais de uma loja não vê nenhum pedido; aguardando
	// confirmação do produto antes de tratar como o entregador
	case role == entities.RoleGerente && len(lojas) == 1:
		lojaID := lojas[0].LojaID
		return filterPedidos(pedidos, func(p *entities.Pedido) bool {
			return p.LojaID == lojaID
		})

	case role == entities.RoleEntregador && len(lojas) >= 1:
		ids := make(map[string]struct{}, len(lojas))
		for _, l := range lojas {
			ids[l.LojaID] = struct{}{}
		}
		return filterPedidos(pedidos, func(p *entities.Pedido) bool {
			_, ok := ids[p.LojaID]
			return ok
		})
	}

	return []*entities.Pedido{}
}

func filterPedidos(pedidos []*entities.Pedido, keep func(*entities.Pedido) bool) []*entities.Pedido {
	out := make([]*entities.Pedido, 0, len(pedidos))
	for _, p := range pedidos {
		if p != nil && keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// compactLojas descarta entradas nil sem alterar a slice recebida
func compactLojas(lojas []*entities.LojaUsuario) []*entities.LojaUsuario {
	for _, l := range lojas {
		if l == nil {
			out := make([]*entities.LojaUsuario, 0, len(lojas))
			for _, l := range lojas {
				if l != nil {
					out = append(out, l)
				}
			}
			return out
		}
	}
	return lojas
}
