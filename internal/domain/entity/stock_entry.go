package entity

import "github.com/shopspring/decimal"

// StockEntry existencia física de un producto en una bodega.
// Invariante: Quantity >= 0. Solo la mutan las operaciones de gestión de stock;
// el motor de reservas la trata como entrada de solo lectura.
// ProductName viene del join con products al cargar (carga siempre eager).
type StockEntry struct {
	WarehouseID string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}
