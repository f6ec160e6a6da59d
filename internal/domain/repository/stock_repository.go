package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// StockRepository define el puerto para consultar existencias por bodega.
// La actualización de existencias es gestión de stock aparte; el motor de
// reservas solo lee.
type StockRepository interface {
	// ListByProductNames existencias de la bodega para los nombres pedidos
	// (match exacto). Los nombres sin fila simplemente no aparecen.
	ListByProductNames(warehouseID string, names []string) ([]*entity.StockEntry, error)
	// ListByProductNamesForUpdate igual que ListByProductNames pero bloquea las
	// filas (SELECT FOR UPDATE) para serializar la secuencia check-then-commit
	// de la reserva. Solo tiene sentido dentro de una transacción.
	ListByProductNamesForUpdate(warehouseID string, names []string) ([]*entity.StockEntry, error)
	// ListByWarehouse catálogo completo de existencias de la bodega.
	ListByWarehouse(warehouseID string) ([]*entity.StockEntry, error)
	Upsert(stock *entity.StockEntry) error
}
