// Package fulfillment contiene los servicios de dominio puros del motor de
// pedidos: asignación de bodega más cercana y cálculo de disponibilidad neta.
package fulfillment

import (
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// MaxWarehouseDistance distancia máxima de asignación punto-bodega, en metros.
const MaxWarehouseDistance = 150_000

// Nearest selecciona la bodega más cercana al punto dado por distancia
// ortodrómica. En empate exacto gana la primera según el orden de entrada
// (selección determinista). Se evalúa en cada alta o cambio de dirección,
// nunca se cachea: tanto el punto como el conjunto de bodegas varían por llamada.
//
// Retorna ErrNoWarehouseAvailable si la lista está vacía y
// *WarehouseTooFarError (con la candidata y su distancia) si la más cercana
// supera MaxWarehouseDistance.
func Nearest(point entity.Point, warehouses []*entity.Warehouse) (*entity.Warehouse, error) {
	if len(warehouses) == 0 {
		return nil, domain.ErrNoWarehouseAvailable
	}

	nearest := warehouses[0]
	nearestDistance := point.Distance(nearest.Location)
	for _, wh := range warehouses[1:] {
		if d := point.Distance(wh.Location); d < nearestDistance {
			nearest = wh
			nearestDistance = d
		}
	}

	if nearestDistance > MaxWarehouseDistance {
		return nil, &domain.WarehouseTooFarError{Nearest: nearest, Distance: nearestDistance}
	}
	return nearest, nil
}
