package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// OrderUseCase orquesta el ciclo de vida del pedido: asignación de bodega,
// reserva de líneas contra disponibilidad neta y transiciones de estado.
// Crear y actualizar corren dentro de TxRunner para que la secuencia
// check-then-commit de la reserva sea atómica (ver DESIGN.md).
type OrderUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.OrderRepository
	warehouseRepo repository.WarehouseRepository
	events        EventPublisher
	log           *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	warehouseRepo repository.WarehouseRepository,
	events EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		warehouseRepo: warehouseRepo,
		events:        events,
		log:           log,
	}
}

// Get obtiene un pedido por id. Un id malformado cuenta como no encontrado.
func (uc *OrderUseCase) Get(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", id).Msg("consulta de pedido")
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return toOrderResponse(order), nil
}

// List listado paginado con filtro por estado y nombre de bodega, id descendente.
func (uc *OrderUseCase) List(filter dto.OrderListFilter) (*dto.OrderPage, error) {
	filter.DefaultPage()
	orders, total, err := uc.orderRepo.FindPage(repository.OrderFilter{
		Status:        entity.OrderStatus(filter.Status),
		WarehouseName: filter.WarehouseName,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	})
	if err != nil {
		return nil, err
	}
	content := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		content = append(content, *toOrderResponse(o))
	}
	return &dto.OrderPage{
		Content:       content,
		TotalElements: total,
		PageNum:       filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}

// Create crea un pedido: resuelve la bodega más cercana al punto de entrega,
// reserva las líneas y persiste todo en una transacción. La dirección guardada
// es la ubicación de la bodega asignada, no el punto crudo del caller.
// Ningún estado parcial sobrevive a un fallo de validación.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest, actingUser string) (*dto.OrderResponse, error) {
	wh, err := uc.nearestWarehouse(*in.Address)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:            uuid.New().String(),
		WarehouseID:   wh.ID,
		WarehouseName: wh.Name,
		Address:       wh.Location,
		Status:        entity.OrderStatusCreated,
	}

	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		stockRepo repository.StockRepository,
	) error {
		lines, err := uc.reserveLines(lineRepo, stockRepo, wh, order.ID, in.Products)
		if err != nil {
			return err
		}
		order.Lines = lines
		return orderRepo.Save(order, actingUser)
	})
	if err != nil {
		return nil, err
	}

	uc.events.PublishOrderEvent(ctx, EventOrderCreated, order)
	return toOrderResponse(order), nil
}

// Update actualiza dirección y/o líneas de un pedido CREATED. Los campos
// ausentes del request no se tocan. Con dirección nueva se re-resuelve la
// bodega y se guarda el punto pedido por el caller tal cual; con líneas nuevas
// se recalcula la reserva excluyendo la propia reserva previa del pedido y se
// reemplaza el conjunto completo.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest, actingUser string) (*dto.OrderResponse, error) {
	var updated *entity.Order

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		stockRepo repository.StockRepository,
	) error {
		order, err := orderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			uc.log.Error().Str("order_id", id).Msg("pedido no encontrado")
			return domain.ErrOrderNotFound
		}
		if !order.Editable() {
			uc.log.Error().Str("order_id", id).Str("status", string(order.Status)).
				Msg("el pedido no admite modificaciones")
			return domain.ErrOrderNotEditable
		}

		var wh *entity.Warehouse
		if in.Address != nil {
			wh, err = uc.nearestWarehouse(*in.Address)
			if err != nil {
				return err
			}
			order.Address = *in.Address
			order.WarehouseID = wh.ID
			order.WarehouseName = wh.Name
		}

		if in.Products != nil {
			if wh == nil {
				wh, err = uc.warehouseRepo.GetByID(order.WarehouseID)
				if err != nil {
					return err
				}
				if wh == nil {
					return domain.ErrNoWarehouseAvailable
				}
			}
			lines, err := uc.reserveLines(lineRepo, stockRepo, wh, order.ID, in.Products)
			if err != nil {
				return err
			}
			order.Lines = lines
		}

		if err := orderRepo.Save(order, actingUser); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.PublishOrderEvent(ctx, EventOrderUpdated, updated)
	return toOrderResponse(updated), nil
}

// Delete borrado lógico: CREATED -> DELETED. Las líneas se conservan para
// auditoría; el pedido deja de contar como reserva. Corre dentro de la
// transacción porque Save reescribe el conjunto de líneas en varios statements
// y un fallo a medias no debe dejar el pedido sin ellas.
func (uc *OrderUseCase) Delete(ctx context.Context, id string, actingUser string) error {
	var deleted *entity.Order

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderLineRepository,
		_ repository.StockRepository,
	) error {
		order, err := orderRepo.GetByID(id)
		if err != nil {
			return err
		}
		if order == nil {
			uc.log.Error().Str("order_id", id).Msg("pedido no encontrado")
			return domain.ErrOrderNotFound
		}
		if !order.Editable() {
			uc.log.Error().Str("order_id", id).Str("status", string(order.Status)).
				Msg("el pedido no admite modificaciones")
			return domain.ErrOrderNotEditable
		}
		order.Status = entity.OrderStatusDeleted
		if err := orderRepo.Save(order, actingUser); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return err
	}

	uc.events.PublishOrderEvent(ctx, EventOrderDeleted, deleted)
	return nil
}

// CalculateDelivery verifica que un lote de pedidos comparta bodega y esté
// completo en estado CREATED.
//
// TODO: revisar la condición del retorno temprano: hoy corta con lista vacía
// en cuanto encuentra pedidos, y las verificaciones de uniformidad de abajo
// quedan sin efecto. Se mantiene así a propósito hasta aclarar la intención
// (ver DESIGN.md).
func (uc *OrderUseCase) CalculateDelivery(ids []string) ([]dto.OrderResponse, error) {
	orders, err := uc.orderRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(orders) > 0 {
		return []dto.OrderResponse{}, nil
	}

	for _, o := range orders {
		if o.WarehouseID != orders[0].WarehouseID {
			uc.log.Error().Msg("no todos los pedidos comparten bodega")
			return nil, domain.ErrMixedDelivery
		}
		if o.Status != entity.OrderStatusCreated {
			uc.log.Error().Str("order_id", o.ID).Str("status", string(o.Status)).
				Msg("pedido fuera del estado CREATED en el lote de entrega")
			return nil, domain.ErrMixedDelivery
		}
	}
	return []dto.OrderResponse{}, nil
}

// nearestWarehouse resuelve la bodega más cercana al punto; se invoca en cada
// alta y en cada cambio de dirección, nunca se cachea.
func (uc *OrderUseCase) nearestWarehouse(point entity.Point) (*entity.Warehouse, error) {
	warehouses, err := uc.warehouseRepo.FindAll()
	if err != nil {
		return nil, err
	}
	wh, err := fulfillment.Nearest(point, warehouses)
	if err != nil {
		uc.log.Error().Err(err).Float64("lat", point.Lat).Float64("lng", point.Lng).
			Msg("asignación de bodega")
		return nil, err
	}
	return wh, nil
}

// reserveLines valida cada línea pedida contra la disponibilidad neta de la
// bodega (existencias bloqueadas FOR UPDATE menos reservas de otros pedidos
// CREATED) y construye el conjunto nuevo de líneas. Falla completa en la
// primera línea inválida: o se reserva todo o no se reserva nada.
func (uc *OrderUseCase) reserveLines(
	lineRepo repository.OrderLineRepository,
	stockRepo repository.StockRepository,
	wh *entity.Warehouse,
	orderID string,
	requested []dto.ProductQuantity,
) ([]*entity.OrderLine, error) {
	names := make([]string, 0, len(requested))
	for _, p := range requested {
		names = append(names, p.Name)
	}

	stocks, err := stockRepo.ListByProductNamesForUpdate(wh.ID, names)
	if err != nil {
		return nil, err
	}
	reserved, err := lineRepo.ListReserved(wh.ID, entity.OrderStatusCreated, orderID)
	if err != nil {
		return nil, err
	}

	availability := fulfillment.Availability(stocks, reserved)
	byName := make(map[string]fulfillment.ProductAvailability, len(availability))
	for _, pa := range availability {
		byName[pa.ProductName] = pa
	}

	lines := make([]*entity.OrderLine, 0, len(requested))
	for _, p := range requested {
		pa, ok := byName[p.Name]
		if !ok {
			uc.log.Error().Str("product", p.Name).Str("warehouse", wh.Name).
				Msg("producto no encontrado en la bodega")
			return nil, &domain.ProductNotFoundError{Name: p.Name}
		}
		if pa.Quantity.LessThan(p.Qty) {
			uc.log.Error().Str("product", p.Name).Str("warehouse", wh.Name).
				Str("requested", p.Qty.String()).Str("available", pa.Quantity.String()).
				Msg("producto sin disponibilidad suficiente")
			return nil, &domain.ProductNotAvailableError{Name: p.Name, Requested: p.Qty, Available: pa.Quantity}
		}
		lines = append(lines, &entity.OrderLine{
			OrderID:     orderID,
			ProductID:   pa.ProductID,
			ProductName: pa.ProductName,
			Quantity:    p.Qty,
		})
	}
	return lines, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	products := make([]dto.ProductQuantity, 0, len(o.Lines))
	for _, l := range o.Lines {
		products = append(products, dto.ProductQuantity{Name: l.ProductName, Qty: l.Quantity})
	}
	return &dto.OrderResponse{
		ID:                  o.ID,
		Address:             o.Address,
		Products:            products,
		AssociatedWarehouse: o.WarehouseName,
		Status:              string(o.Status),
		CreatedAt:           o.Audit.CreatedAt,
		UpdatedAt:           o.Audit.UpdatedAt,
	}
}
