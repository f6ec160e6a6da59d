package entity

import "github.com/shopspring/decimal"

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	// OrderStatusCreated único estado editable; es el único que cuenta como reserva de stock.
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusShipped terminal. Ninguna operación de este núcleo lo produce.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDeleted terminal (borrado lógico; las líneas se conservan).
	OrderStatusDeleted OrderStatus = "DELETED"
)

// Order pedido asignado a una bodega, con su dirección de entrega y el
// conjunto completo de líneas reservadas.
// WarehouseName viene del join con warehouses al cargar.
type Order struct {
	ID            string
	WarehouseID   string
	WarehouseName string
	Address       Point
	Status        OrderStatus
	Lines         []*OrderLine
	Audit         AuditInfo
}

// Editable indica si el pedido admite cambios de líneas, dirección o estado.
func (o *Order) Editable() bool {
	return o.Status == OrderStatusCreated
}

// OrderLine línea de pedido: cantidad reservada de un producto.
// Clave compuesta (OrderID, ProductID): exactamente una línea por producto.
// Invariante: Quantity > 0 (validado aguas arriba).
type OrderLine struct {
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}
