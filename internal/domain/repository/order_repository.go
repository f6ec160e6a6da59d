package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// OrderFilter criterios de listado paginado de pedidos.
// Page arranca en 1; el orden es siempre id descendente.
type OrderFilter struct {
	Status        entity.OrderStatus
	WarehouseName string
	Page          int
	PageSize      int
}

// OrderRepository define el puerto de persistencia para Order.
// Las líneas se cargan siempre eager junto con el pedido.
type OrderRepository interface {
	// GetByID retorna (nil, nil) si no existe; un id malformado cuenta como
	// no encontrado, no como error.
	GetByID(id string) (*entity.Order, error)
	GetByIDs(ids []string) ([]*entity.Order, error)
	// Save upsert del pedido junto con su conjunto completo de líneas
	// (reemplazo total, nunca merge); actingUser alimenta el sello de auditoría.
	Save(order *entity.Order, actingUser string) error
	// FindPage listado con filtro por estado y nombre de bodega; retorna la
	// página y el total de elementos.
	FindPage(filter OrderFilter) ([]*entity.Order, int, error)
}

// OrderLineRepository consulta de líneas para el cálculo de cantidades reservadas.
type OrderLineRepository interface {
	// ListReserved líneas de los pedidos de la bodega en el estado dado,
	// excluyendo excludeOrderID si no es vacío (el pedido en edición no debe
	// descontarse a sí mismo).
	ListReserved(warehouseID string, status entity.OrderStatus, excludeOrderID string) ([]*entity.OrderLine, error)
}
