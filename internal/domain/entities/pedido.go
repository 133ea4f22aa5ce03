package entities

import "time"

// StatusPedido representa a etapa do pedido no fluxo de entrega
type StatusPedido string

const (
	StatusPedidoPendente  StatusPedido = "pendente"
	StatusPedidoAceito    StatusPedido = "aceito"
	StatusPedidoEmRota    StatusPedido = "em_rota"
	StatusPedidoEntregue  StatusPedido = "entregue"
	StatusPedidoCancelado StatusPedido = "cancelado"
)

// Pedido é um pedido de entrega pertencente a uma loja
type Pedido struct {
	ID           string
	LojaID       string
	EntregadorID *string
	Cliente      string
	Endereco     string
	Status       StatusPedido
	Valor        float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
