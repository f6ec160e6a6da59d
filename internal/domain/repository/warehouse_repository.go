package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	// Create persiste una bodega nueva; actingUser alimenta el sello de auditoría.
	Create(wh *entity.Warehouse, actingUser string) error
	GetByID(id string) (*entity.Warehouse, error)
	FindAll() ([]*entity.Warehouse, error)
}
