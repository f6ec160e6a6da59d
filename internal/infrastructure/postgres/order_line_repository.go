package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderLineRepository = (*OrderLineRepo)(nil)

// OrderLineRepo consulta de líneas reservadas sobre PostgreSQL (usable con pool o tx).
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

// ListReserved líneas de los pedidos de la bodega en el estado dado,
// excluyendo excludeOrderID si no es vacío. Soporta el cálculo de cantidad
// reservada: el pedido en edición no debe descontarse a sí mismo.
func (r *OrderLineRepo) ListReserved(warehouseID string, status entity.OrderStatus, excludeOrderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT l.order_id, l.product_id, p.name, l.quantity
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN products p ON p.id = l.product_id
		WHERE o.warehouse_id = $1 AND o.status = $2 AND ($3 = '' OR o.id <> $3)`
	rows, err := r.q.Query(context.Background(), query, warehouseID, status, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("list reserved lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan reserved line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
