package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListByProductNames existencias de la bodega para los nombres pedidos (match
// exacto). Los nombres sin fila no aparecen en el resultado.
func (r *StockRepo) ListByProductNames(warehouseID string, names []string) ([]*entity.StockEntry, error) {
	query := `
		SELECT s.warehouse_id, s.product_id, p.name, s.quantity
		FROM stock_entries s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1 AND p.name = ANY($2)`
	return r.list(query, warehouseID, names)
}

// ListByProductNamesForUpdate igual que ListByProductNames pero bloquea las
// filas de stock (SELECT FOR UPDATE) para serializar reservas concurrentes.
// Solo tiene sentido dentro de una transacción.
func (r *StockRepo) ListByProductNamesForUpdate(warehouseID string, names []string) ([]*entity.StockEntry, error) {
	query := `
		SELECT s.warehouse_id, s.product_id, p.name, s.quantity
		FROM stock_entries s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1 AND p.name = ANY($2)
		FOR UPDATE OF s`
	return r.list(query, warehouseID, names)
}

// ListByWarehouse catálogo completo de existencias de la bodega.
func (r *StockRepo) ListByWarehouse(warehouseID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT s.warehouse_id, s.product_id, p.name, s.quantity
		FROM stock_entries s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1
		ORDER BY p.name`
	return r.list(query, warehouseID)
}

// Upsert inserta o actualiza la cantidad en stock (por bodega y producto).
func (r *StockRepo) Upsert(stock *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (warehouse_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`
	_, err := r.q.Exec(context.Background(), query, stock.WarehouseID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) list(query string, args ...any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	return scanStockEntries(rows)
}

func scanStockEntries(rows pgx.Rows) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.ProductName, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
