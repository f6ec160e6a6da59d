package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `
	o.id, o.warehouse_id, w.name, o.address_lat, o.address_lng, o.status,
	o.created_at, o.created_by, o.updated_at, o.updated_by`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas se cargan siempre junto con el pedido.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene un pedido con sus líneas. Retorna (nil, nil) si no existe;
// un id malformado (cast 22P02) cuenta como no encontrado, no como error.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN warehouses w ON w.id = o.warehouse_id
		WHERE o.id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.WarehouseID, &o.WarehouseName, &o.Address.Lat, &o.Address.Lng, &o.Status,
		&o.Audit.CreatedAt, &o.Audit.CreatedBy, &o.Audit.UpdatedAt, &o.Audit.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	lines, err := r.loadLines([]string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

// GetByIDs obtiene los pedidos existentes del lote. Los ids desconocidos o
// malformados simplemente no aparecen en el resultado.
func (r *OrderRepo) GetByIDs(ids []string) ([]*entity.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN warehouses w ON w.id = o.warehouse_id
		WHERE o.id = ANY($1)
		ORDER BY o.id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(orders)
}

// Save upsert del pedido y reemplazo total de su conjunto de líneas (borrar e
// insertar, nunca merge). Pensado para ejecutarse dentro de una transacción.
func (r *OrderRepo) Save(order *entity.Order, actingUser string) error {
	stampAudit(&order.Audit, actingUser)
	ctx := context.Background()

	query := `
		INSERT INTO orders (id, warehouse_id, address_lat, address_lng, status,
			created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			warehouse_id = EXCLUDED.warehouse_id,
			address_lat = EXCLUDED.address_lat,
			address_lng = EXCLUDED.address_lng,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.WarehouseID, order.Address.Lat, order.Address.Lng, order.Status,
		order.Audit.CreatedAt, order.Audit.CreatedBy, order.Audit.UpdatedAt, order.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	for _, line := range order.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity)
			VALUES ($1, $2, $3)`,
			order.ID, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// FindPage listado paginado con filtros opcionales por estado y nombre de
// bodega, siempre en orden id descendente. Retorna la página y el total.
func (r *OrderRepo) FindPage(filter repository.OrderFilter) ([]*entity.Order, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	if filter.WarehouseName != "" {
		args = append(args, filter.WarehouseName)
		where += fmt.Sprintf(" AND w.name = $%d", len(args))
	}

	var total int
	countQuery := `
		SELECT count(*)
		FROM orders o
		JOIN warehouses w ON w.id = o.warehouse_id` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN warehouses w ON w.id = o.warehouse_id` + where +
		fmt.Sprintf(" ORDER BY o.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	orders, err = r.attachLines(orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// loadLines carga las líneas de un lote de pedidos, agrupadas por pedido.
func (r *OrderRepo) loadLines(orderIDs []string) (map[string][]*entity.OrderLine, error) {
	query := `
		SELECT l.order_id, l.product_id, p.name, l.quantity
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1)
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	out := map[string][]*entity.OrderLine{}
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out[l.OrderID] = append(out[l.OrderID], &l)
	}
	return out, rows.Err()
}

func (r *OrderRepo) attachLines(orders []*entity.Order) ([]*entity.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := r.loadLines(ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}
	return orders, nil
}

func scanOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.WarehouseID, &o.WarehouseName, &o.Address.Lat, &o.Address.Lng, &o.Status,
			&o.Audit.CreatedAt, &o.Audit.CreatedBy, &o.Audit.UpdatedAt, &o.Audit.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
