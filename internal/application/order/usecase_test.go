package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	apporder "github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test en memoria. store emula la BD; GetByID devuelve copias para
// que un fallo dentro de la "transacción" no deje mutaciones a medias, igual
// que un rollback real.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	warehouses []*entity.Warehouse
	stocks     []*entity.StockEntry
	orders     map[string]*entity.Order
	orderIDs   []string // orden de inserción
}

func newStore() *store {
	return &store{orders: map[string]*entity.Order{}}
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = make([]*entity.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lc := *l
		cp.Lines[i] = &lc
	}
	return &cp
}

type fakeWarehouseRepo struct{ s *store }

func (r *fakeWarehouseRepo) Create(wh *entity.Warehouse, _ string) error {
	r.s.warehouses = append(r.s.warehouses, wh)
	return nil
}

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	for _, wh := range r.s.warehouses {
		if wh.ID == id {
			return wh, nil
		}
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) FindAll() ([]*entity.Warehouse, error) {
	return r.s.warehouses, nil
}

type fakeStockRepo struct{ s *store }

func (r *fakeStockRepo) ListByProductNames(warehouseID string, names []string) ([]*entity.StockEntry, error) {
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	var out []*entity.StockEntry
	for _, st := range r.s.stocks {
		if st.WarehouseID == warehouseID && wanted[st.ProductName] {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListByProductNamesForUpdate(warehouseID string, names []string) ([]*entity.StockEntry, error) {
	return r.ListByProductNames(warehouseID, names)
}

func (r *fakeStockRepo) ListByWarehouse(warehouseID string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, st := range r.s.stocks {
		if st.WarehouseID == warehouseID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) Upsert(stock *entity.StockEntry) error {
	r.s.stocks = append(r.s.stocks, stock)
	return nil
}

type fakeOrderRepo struct{ s *store }

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *fakeOrderRepo) GetByIDs(ids []string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, id := range ids {
		if o, ok := r.s.orders[id]; ok {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(order *entity.Order, actingUser string) error {
	if _, ok := r.s.orders[order.ID]; !ok {
		r.s.orderIDs = append(r.s.orderIDs, order.ID)
		order.Audit.CreatedBy = actingUser
	}
	order.Audit.UpdatedBy = actingUser
	r.s.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *fakeOrderRepo) FindPage(filter repository.OrderFilter) ([]*entity.Order, int, error) {
	var matched []*entity.Order
	for i := len(r.s.orderIDs) - 1; i >= 0; i-- { // id descendente ~ inserción inversa
		o := r.s.orders[r.s.orderIDs[i]]
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.WarehouseName != "" && o.WarehouseName != filter.WarehouseName {
			continue
		}
		matched = append(matched, copyOrder(o))
	}
	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type fakeLineRepo struct{ s *store }

func (r *fakeLineRepo) ListReserved(warehouseID string, status entity.OrderStatus, excludeOrderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	for _, o := range r.s.orders {
		if o.WarehouseID != warehouseID || o.Status != status || o.ID == excludeOrderID {
			continue
		}
		out = append(out, o.Lines...)
	}
	return out, nil
}

// brokenTxRunner simula una transacción que no llega a abrirse: Run falla sin
// ejecutar el callback, como lo haría un Begin contra una BD caída.
type brokenTxRunner struct{ err error }

func (r *brokenTxRunner) Run(_ context.Context, _ func(
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.err
}

type fakeTxRunner struct{ s *store }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	stockRepo repository.StockRepository,
) error) error {
	return fn(&fakeOrderRepo{r.s}, &fakeLineRepo{r.s}, &fakeStockRepo{r.s})
}

type recordedEvent struct {
	eventType string
	orderID   string
}

type fakeEvents struct{ published []recordedEvent }

func (p *fakeEvents) PublishOrderEvent(_ context.Context, eventType string, o *entity.Order) {
	p.published = append(p.published, recordedEvent{eventType, o.ID})
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: bodega Pioltello con Passata x10 y Olio x6.
// ──────────────────────────────────────────────────────────────────────────────

var (
	pioltelloPoint = entity.Point{Lat: 45.511591, Lng: 9.32181}
	milanoPoint    = entity.Point{Lat: 45.4642, Lng: 9.19}
)

func newFixture(t *testing.T) (*apporder.OrderUseCase, *store, *fakeEvents) {
	t.Helper()
	s := newStore()
	s.warehouses = []*entity.Warehouse{
		{ID: "wh-pioltello", Name: "Pioltello", Location: pioltelloPoint},
	}
	s.stocks = []*entity.StockEntry{
		{WarehouseID: "wh-pioltello", ProductID: "p-passata", ProductName: "Passata", Quantity: decimal.NewFromInt(10)},
		{WarehouseID: "wh-pioltello", ProductID: "p-olio", ProductName: "Olio", Quantity: decimal.NewFromInt(6)},
	}
	events := &fakeEvents{}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := apporder.NewOrderUseCase(&fakeTxRunner{s}, &fakeOrderRepo{s}, &fakeWarehouseRepo{s}, events, log)
	return uc, s, events
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func createReq(point entity.Point, products ...dto.ProductQuantity) dto.CreateOrderRequest {
	p := point
	return dto.CreateOrderRequest{Address: &p, Products: products}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// TestCreate_AsignaBodegaYGuardaSuUbicacion el pedido queda en la bodega más
// cercana y la dirección guardada es la ubicación de la bodega, no el punto pedido.
func TestCreate_AsignaBodegaYGuardaSuUbicacion(t *testing.T) {
	uc, s, events := newFixture(t)

	got, err := uc.Create(context.Background(), createReq(milanoPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(3)}), "mario")

	require.NoError(t, err)
	assert.Equal(t, "Pioltello", got.AssociatedWarehouse)
	assert.Equal(t, pioltelloPoint, got.Address, "la dirección debe ser la ubicación de la bodega asignada")
	assert.Equal(t, string(entity.OrderStatusCreated), got.Status)
	require.Len(t, got.Products, 1)

	require.Len(t, s.orders, 1)
	persisted := s.orders[got.ID]
	assert.Equal(t, "mario", persisted.Audit.CreatedBy)
	require.Len(t, events.published, 1)
	assert.Equal(t, apporder.EventOrderCreated, events.published[0].eventType)
}

// TestCreate_ProductoInexistente falla con ProductNotFound y no persiste nada.
func TestCreate_ProductoInexistente(t *testing.T) {
	uc, s, _ := newFixture(t)

	_, err := uc.Create(context.Background(), createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Tartufo", Qty: qty(1)}), "mario")

	require.ErrorIs(t, err, domain.ErrProductNotFound)
	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Tartufo", notFound.Name)
	assert.Empty(t, s.orders, "un fallo de validación no debe dejar pedido persistido")
}

// TestCreate_SinDisponibilidad una línea por encima del neto rechaza el pedido
// completo, incluso si las demás líneas eran válidas.
func TestCreate_SinDisponibilidad(t *testing.T) {
	uc, s, _ := newFixture(t)

	_, err := uc.Create(context.Background(), createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(2)},
		dto.ProductQuantity{Name: "Olio", Qty: qty(7)}), "mario")

	require.ErrorIs(t, err, domain.ErrProductNotAvailable)
	var notAvailable *domain.ProductNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, "Olio", notAvailable.Name)
	assert.Empty(t, s.orders, "el rechazo debe ser atómico: ninguna línea queda persistida")
}

// TestCreate_BodegaDemasiadoLejos punto (0,0) con solo Pioltello: WarehouseTooFar
// con la candidata y su distancia como contexto.
func TestCreate_BodegaDemasiadoLejos(t *testing.T) {
	uc, s, _ := newFixture(t)

	_, err := uc.Create(context.Background(), createReq(entity.Point{},
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")

	require.ErrorIs(t, err, domain.ErrWarehouseTooFar)
	var tooFar *domain.WarehouseTooFarError
	require.ErrorAs(t, err, &tooFar)
	assert.Equal(t, "Pioltello", tooFar.Nearest.Name)
	assert.Empty(t, s.orders)
}

// TestCreate_SinBodegas sin bodegas definidas: NoWarehouseAvailable.
func TestCreate_SinBodegas(t *testing.T) {
	uc, s, _ := newFixture(t)
	s.warehouses = nil

	_, err := uc.Create(context.Background(), createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")

	assert.ErrorIs(t, err, domain.ErrNoWarehouseAvailable)
}

// TestCreate_AgotaElStock el escenario Pioltello: un pedido de Passata x10
// agota el neto; el siguiente pedido de 1 unidad se rechaza.
func TestCreate_AgotaElStock(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(10)}), "mario")
	require.NoError(t, err)

	_, err = uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")
	assert.ErrorIs(t, err, domain.ErrProductNotAvailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// TestUpdate_ReducirLineasLiberaDisponibilidad bajar de 10 a 5 unidades libera
// 5 para el resto: un pedido nuevo de 5 vuelve a entrar.
func TestUpdate_ReducirLineasLiberaDisponibilidad(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(10)}), "mario")
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Products: []dto.ProductQuantity{{Name: "Passata", Qty: qty(5)}},
	}, "mario")
	require.NoError(t, err, "la propia reserva previa no debe contar contra el update")

	_, err = uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(5)}), "luigi")
	assert.NoError(t, err, "tras reducir deben quedar 5 unidades libres")
}

// TestUpdate_MismaCantidadNoSeBloqueaASiMismo revalidar el pedido con su misma
// cantidad no debe fallar: la reserva propia se excluye del cálculo.
func TestUpdate_MismaCantidadNoSeBloqueaASiMismo(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(10)}), "mario")
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Products: []dto.ProductQuantity{{Name: "Passata", Qty: qty(10)}},
	}, "mario")
	assert.NoError(t, err)
}

// TestUpdate_SoloDireccion con dirección nueva se guarda el punto literal del
// caller (a diferencia del alta) y las líneas quedan intactas.
func TestUpdate_SoloDireccion(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Olio", Qty: qty(2)}), "mario")
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateOrderRequest{Address: &milanoPoint}, "mario")

	require.NoError(t, err)
	assert.Equal(t, milanoPoint, updated.Address, "el update guarda el punto pedido tal cual")
	assert.Equal(t, "Pioltello", updated.AssociatedWarehouse)
	require.Len(t, updated.Products, 1, "las líneas no deben tocarse en un update solo de dirección")
	assert.True(t, updated.Products[0].Qty.Equal(qty(2)))
}

// TestUpdate_ReemplazaElConjuntoCompleto las líneas nuevas sustituyen a las
// anteriores, nunca se fusionan.
func TestUpdate_ReemplazaElConjuntoCompleto(t *testing.T) {
	uc, s, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(4)},
		dto.ProductQuantity{Name: "Olio", Qty: qty(2)}), "mario")
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Products: []dto.ProductQuantity{{Name: "Passata", Qty: qty(1)}},
	}, "mario")

	require.NoError(t, err)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, "Passata", updated.Products[0].Name)
	require.Len(t, s.orders[created.ID].Lines, 1)
}

// TestUpdate_PedidoInexistente ids desconocidos (y malformados) son not-found.
func TestUpdate_PedidoInexistente(t *testing.T) {
	uc, _, _ := newFixture(t)

	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateOrderRequest{Address: &milanoPoint}, "mario")

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// TestUpdate_PedidoBorradoNoEditable un pedido DELETED rechaza cualquier update,
// aunque el payload sea válido.
func TestUpdate_PedidoBorradoNoEditable(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, created.ID, "mario"))

	_, err = uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Products: []dto.ProductQuantity{{Name: "Passata", Qty: qty(1)}},
	}, "mario")

	assert.ErrorIs(t, err, domain.ErrOrderNotEditable)
}

// TestUpdate_FalloNoDejaMutacionesParciales si la reserva nueva falla, el
// pedido conserva dirección y líneas previas (rollback).
func TestUpdate_FalloNoDejaMutacionesParciales(t *testing.T) {
	uc, s, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(4)}), "mario")
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Address:  &milanoPoint,
		Products: []dto.ProductQuantity{{Name: "Passata", Qty: qty(99)}},
	}, "mario")

	require.ErrorIs(t, err, domain.ErrProductNotAvailable)
	persisted := s.orders[created.ID]
	assert.Equal(t, pioltelloPoint, persisted.Address, "la dirección no debe cambiar si la reserva falló")
	require.Len(t, persisted.Lines, 1)
	assert.True(t, persisted.Lines[0].Quantity.Equal(qty(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete / Get / List / Delivery
// ──────────────────────────────────────────────────────────────────────────────

// TestDelete_BorradoLogico el pedido pasa a DELETED, conserva sus líneas y deja
// de contar como reserva.
func TestDelete_BorradoLogico(t *testing.T) {
	uc, s, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(10)}), "mario")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID, "mario"))

	persisted := s.orders[created.ID]
	assert.Equal(t, entity.OrderStatusDeleted, persisted.Status)
	assert.Len(t, persisted.Lines, 1, "el borrado es lógico: las líneas se conservan")

	// La reserva quedó liberada: vuelve a caber un pedido de 10.
	_, err = uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(10)}), "luigi")
	assert.NoError(t, err)

	// Y un segundo delete es rechazado: DELETED es terminal.
	assert.ErrorIs(t, uc.Delete(ctx, created.ID, "mario"), domain.ErrOrderNotEditable)
}

// TestDelete_FalloDeTransaccionNoDejaEstadoParcial el borrado corre completo
// dentro de la transacción: si esta falla, el pedido conserva estado y líneas
// y no se publica ningún evento.
func TestDelete_FalloDeTransaccionNoDejaEstadoParcial(t *testing.T) {
	uc, s, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(2)}), "mario")
	require.NoError(t, err)

	txErr := errors.New("begin transaction: conexión perdida")
	brokenEvents := &fakeEvents{}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	broken := apporder.NewOrderUseCase(&brokenTxRunner{err: txErr}, &fakeOrderRepo{s}, &fakeWarehouseRepo{s}, brokenEvents, log)

	err = broken.Delete(ctx, created.ID, "mario")
	require.ErrorIs(t, err, txErr)

	persisted := s.orders[created.ID]
	assert.Equal(t, entity.OrderStatusCreated, persisted.Status, "el estado no debe cambiar si la transacción falló")
	require.Len(t, persisted.Lines, 1, "las líneas deben conservarse intactas")
	assert.Empty(t, brokenEvents.published, "sin commit no debe publicarse evento")
}

// TestGet_Idempotente dos lecturas sin mutación intermedia devuelven lo mismo.
func TestGet_Idempotente(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Olio", Qty: qty(3)}), "mario")
	require.NoError(t, err)

	first, err := uc.Get(created.ID)
	require.NoError(t, err)
	second, err := uc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestGet_NoEncontrado ids desconocidos son ErrOrderNotFound.
func TestGet_NoEncontrado(t *testing.T) {
	uc, _, _ := newFixture(t)
	_, err := uc.Get("tampoco-existe")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// TestList_FiltraPorEstado el filtro por estado excluye los borrados.
func TestList_FiltraPorEstado(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")
	require.NoError(t, err)
	_, err = uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Olio", Qty: qty(1)}), "mario")
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, first.ID, "mario"))

	page, err := uc.List(dto.OrderListFilter{Status: "CREATED"})

	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.NotEqual(t, first.ID, page.Content[0].ID)
}

// TestCalculateDelivery_ConPedidosRetornaVacio comportamiento vigente: en
// cuanto el lote encuentra pedidos, responde lista vacía sin error.
func TestCalculateDelivery_ConPedidosRetornaVacio(t *testing.T) {
	uc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq(pioltelloPoint,
		dto.ProductQuantity{Name: "Passata", Qty: qty(1)}), "mario")
	require.NoError(t, err)

	got, err := uc.CalculateDelivery([]string{created.ID})

	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestCalculateDelivery_SinPedidos con ids desconocidos tampoco hay error.
func TestCalculateDelivery_SinPedidos(t *testing.T) {
	uc, _, _ := newFixture(t)

	got, err := uc.CalculateDelivery([]string{"nada"})

	require.NoError(t, err)
	assert.Empty(t, got)
}
