package order

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la lectura de disponibilidad
// (con bloqueo de filas de stock) y el commit de las líneas ocurran en el
// mismo límite transaccional.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// Tipos de evento publicados tras cada commit de pedido.
const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

// EventPublisher publica eventos de pedido tras el commit. Best-effort: un
// fallo de publicación nunca revierte ni falla la operación.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, order *entity.Order)
}
