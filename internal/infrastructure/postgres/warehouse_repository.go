package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega con su sello de auditoría.
func (r *WarehouseRepo) Create(wh *entity.Warehouse, actingUser string) error {
	stampAudit(&wh.Audit, actingUser)
	query := `
		INSERT INTO warehouses (id, name, lat, lng, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		wh.ID, wh.Name, wh.Location.Lat, wh.Location.Lng,
		wh.Audit.CreatedAt, wh.Audit.CreatedBy, wh.Audit.UpdatedAt, wh.Audit.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID. Retorna (nil, nil) si no existe; un id
// malformado cuenta como no encontrado.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, lat, lng, created_at, created_by, updated_at, updated_by
		FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.Name, &w.Location.Lat, &w.Location.Lng,
		&w.Audit.CreatedAt, &w.Audit.CreatedBy, &w.Audit.UpdatedAt, &w.Audit.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// FindAll lista todas las bodegas en orden de creación.
func (r *WarehouseRepo) FindAll() ([]*entity.Warehouse, error) {
	query := `
		SELECT id, name, lat, lng, created_at, created_by, updated_at, updated_by
		FROM warehouses ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(
			&w.ID, &w.Name, &w.Location.Lat, &w.Location.Lng,
			&w.Audit.CreatedAt, &w.Audit.CreatedBy, &w.Audit.UpdatedAt, &w.Audit.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
