package dto

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name  string        `json:"name" validate:"required,min=1,max=200"`
	Point *entity.Point `json:"point" validate:"required"`
}

// WarehouseResponse salida de una bodega con su catálogo de existencias
// físicas (cantidad en mano, sin descontar reservas).
type WarehouseResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Point    entity.Point      `json:"point"`
	Products []ProductQuantity `json:"products"`
}

// AvailabilityResponse disponibilidad neta por producto en una bodega.
type AvailabilityResponse struct {
	WarehouseID string            `json:"warehouse_id"`
	Products    []ProductQuantity `json:"products"`
}
