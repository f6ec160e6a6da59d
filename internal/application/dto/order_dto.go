package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductQuantity par producto/cantidad usado en pedidos y disponibilidad.
// El campo de cantidad viaja como "qta" en el JSON del API.
type ProductQuantity struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qta"`
}

// CreateOrderRequest entrada para crear un pedido.
type CreateOrderRequest struct {
	Address  *entity.Point     `json:"address" validate:"required"`
	Products []ProductQuantity `json:"products" validate:"required,min=1,dive"`
}

// UpdateOrderRequest entrada para actualizar un pedido. Los campos ausentes no
// se tocan; Products presente reemplaza el conjunto completo de líneas.
type UpdateOrderRequest struct {
	Address  *entity.Point     `json:"address"`
	Products []ProductQuantity `json:"products"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID                  string            `json:"id"`
	Address             entity.Point      `json:"address"`
	Products            []ProductQuantity `json:"products"`
	AssociatedWarehouse string            `json:"associated_warehouse"`
	Status              string            `json:"status"`
	CreatedAt           time.Time         `json:"created_date"`
	UpdatedAt           time.Time         `json:"last_update_date"`
}

// OrderPage página de pedidos ordenada por id descendente.
type OrderPage struct {
	Content       []OrderResponse `json:"content"`
	TotalElements int             `json:"totalElements"`
	PageNum       int             `json:"pageNum"`
	PageSize      int             `json:"pageSize"`
}

// OrderListFilter filtros del listado paginado.
type OrderListFilter struct {
	Status        string `query:"status"`
	WarehouseName string `query:"warehouseName"`
	Page          int    `query:"page"`
	PageSize      int    `query:"pageSize"`
}

// DefaultPage aplica valores por defecto si Page/PageSize vienen vacíos.
func (f *OrderListFilter) DefaultPage() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

// DeliveryRequest lote de ids de pedido para el cálculo de entrega.
type DeliveryRequest struct {
	Orders []string `json:"orders" validate:"required,min=1"`
}
