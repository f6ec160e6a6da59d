package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Errores de dominio (sin dependencias de framework). Los que necesitan
// contexto adicional tienen un tipo propio más abajo; todos responden a
// errors.Is contra su centinela.
var (
	ErrNoWarehouseAvailable = errors.New("no hay bodegas definidas")
	ErrWarehouseTooFar      = errors.New("la bodega más cercana está demasiado lejos")
	ErrProductNotFound      = errors.New("producto no encontrado en la bodega")
	ErrProductNotAvailable  = errors.New("producto sin disponibilidad suficiente")
	ErrOrderNotFound        = errors.New("pedido no encontrado")
	ErrOrderNotEditable     = errors.New("el pedido no admite modificaciones en su estado actual")
	ErrMixedDelivery        = errors.New("no todos los pedidos comparten bodega y estado CREATED")
	ErrUsernameTaken        = errors.New("el nombre de usuario ya está registrado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrInvalidInput         = errors.New("entrada inválida")
)

// WarehouseTooFarError la bodega más cercana supera la distancia máxima de
// asignación. Conserva la candidata y su distancia como contexto para el caller.
type WarehouseTooFarError struct {
	Nearest  *entity.Warehouse
	Distance float64 // metros
}

func (e *WarehouseTooFarError) Error() string {
	return fmt.Sprintf("bodega más cercana %q demasiado lejos (%.0f m)", e.Nearest.Name, e.Distance)
}

func (e *WarehouseTooFarError) Is(target error) bool { return target == ErrWarehouseTooFar }

// ProductNotFoundError el producto pedido no existe en el catálogo de la bodega asignada.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("el producto %q no existe", e.Name)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// ProductNotAvailableError la cantidad pedida supera la disponibilidad neta.
type ProductNotAvailableError struct {
	Name      string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ProductNotAvailableError) Error() string {
	return fmt.Sprintf("el producto %q no está disponible en la cantidad pedida (%s/%s)",
		e.Name, e.Requested.String(), e.Available.String())
}

func (e *ProductNotAvailableError) Is(target error) bool { return target == ErrProductNotAvailable }
