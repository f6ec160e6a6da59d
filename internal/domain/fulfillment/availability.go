package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductAvailability disponibilidad neta de un producto en una bodega:
// existencia física menos lo reservado por otros pedidos activos.
type ProductAvailability struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}

// Availability descuenta de cada existencia las cantidades reservadas por las
// líneas de pedido recibidas. Los productos pedidos sin StockEntry quedan fuera
// del resultado (no se manejan en esa bodega; distinto de "en stock con cero").
// El resultado puede ser negativo si un ajuste externo dejó el stock por debajo
// de lo ya reservado: se retorna sin recortar y el caller decide cómo tratarlo.
//
// Función pura: el caller obtiene stocks (filtrados por nombre de producto) y
// reserved (líneas de pedidos CREATED en la bodega, excluyendo el pedido en
// edición) de los repositorios, dentro del límite transaccional que corresponda.
func Availability(stocks []*entity.StockEntry, reserved []*entity.OrderLine) []ProductAvailability {
	out := make([]ProductAvailability, 0, len(stocks))
	index := make(map[string]int, len(stocks))
	for i, s := range stocks {
		out = append(out, ProductAvailability{
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
		})
		index[s.ProductID] = i
	}

	for _, line := range reserved {
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity = out[i].Quantity.Sub(line.Quantity)
		}
	}
	return out
}
