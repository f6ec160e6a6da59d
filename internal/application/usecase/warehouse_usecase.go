package usecase

import (
	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// WarehouseUseCase casos de uso de bodegas: listado con catálogo, alta y
// consulta de disponibilidad neta.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	lineRepo      repository.OrderLineRepository
	log           *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	lineRepo repository.OrderLineRepository,
	log *logger.Logger,
) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, stockRepo: stockRepo, lineRepo: lineRepo, log: log}
}

// List lista todas las bodegas con su catálogo de existencias físicas.
func (uc *WarehouseUseCase) List() ([]dto.WarehouseResponse, error) {
	warehouses, err := uc.warehouseRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, wh := range warehouses {
		stocks, err := uc.stockRepo.ListByWarehouse(wh.ID)
		if err != nil {
			return nil, err
		}
		products := make([]dto.ProductQuantity, 0, len(stocks))
		for _, s := range stocks {
			products = append(products, dto.ProductQuantity{Name: s.ProductName, Qty: s.Quantity})
		}
		out = append(out, dto.WarehouseResponse{ID: wh.ID, Name: wh.Name, Point: wh.Location, Products: products})
	}
	return out, nil
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest, actingUser string) (*dto.WarehouseResponse, error) {
	wh := &entity.Warehouse{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Location: *in.Point,
	}
	if err := uc.warehouseRepo.Create(wh, actingUser); err != nil {
		uc.log.Error().Err(err).Str("warehouse", in.Name).Msg("alta de bodega")
		return nil, err
	}
	return &dto.WarehouseResponse{ID: wh.ID, Name: wh.Name, Point: wh.Location, Products: []dto.ProductQuantity{}}, nil
}

// Availability disponibilidad neta de los productos pedidos en la bodega:
// existencias menos reservas de pedidos CREATED (lectura fuera de transacción;
// la validación de reservas usa su propia lectura bloqueante).
func (uc *WarehouseUseCase) Availability(warehouseID string, productNames []string) (*dto.AvailabilityResponse, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNoWarehouseAvailable
	}
	stocks, err := uc.stockRepo.ListByProductNames(wh.ID, productNames)
	if err != nil {
		return nil, err
	}
	reserved, err := uc.lineRepo.ListReserved(wh.ID, entity.OrderStatusCreated, "")
	if err != nil {
		return nil, err
	}
	availability := fulfillment.Availability(stocks, reserved)
	products := make([]dto.ProductQuantity, 0, len(availability))
	for _, pa := range availability {
		products = append(products, dto.ProductQuantity{Name: pa.ProductName, Qty: pa.Quantity})
	}
	return &dto.AvailabilityResponse{WarehouseID: wh.ID, Products: products}, nil
}
