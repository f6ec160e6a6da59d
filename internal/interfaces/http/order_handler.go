package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// OrderHandler maneja las peticiones HTTP para pedidos (protegido).
type OrderHandler struct {
	uc *order.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// orderErrorResponse mapea los errores de dominio del motor de pedidos a HTTP.
func orderErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ORDER_NOT_FOUND", Message: "pedido no encontrado"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNoWarehouseAvailable):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrWarehouseTooFar):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WAREHOUSE_TOO_FAR", Message: err.Error()})
	case errors.Is(err, domain.ErrProductNotAvailable):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrMixedDelivery):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MIXED_DELIVERY", Message: err.Error()})
	case errors.Is(err, domain.ErrOrderNotEditable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ORDER_NOT_EDITABLE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// validProducts valida el payload de líneas: cantidades estrictamente positivas.
func validProducts(products []dto.ProductQuantity) bool {
	for _, p := range products {
		if p.Name == "" || !p.Qty.IsPositive() {
			return false
		}
	}
	return true
}

// Get godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.Get(id)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos paginados
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "Estado del pedido"
// @Param        warehouseName  query  string  false  "Nombre de la bodega"
// @Param        page           query  int     false  "Página (desde 1)"  default(1)
// @Param        pageSize       query  int     false  "Tamaño de página"  default(20)
// @Success      200  {object}  dto.OrderPage
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var filter dto.OrderListFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(filter)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Description  Asigna la bodega más cercana al punto de entrega y reserva las líneas de forma atómica.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Punto de entrega y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Address == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "address es requerido"})
	}
	if len(in.Products) == 0 || !validProducts(in.Products) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "products requiere al menos una línea con cantidad positiva"})
	}
	out, err := h.uc.Create(c.UserContext(), in, GetUsername(c))
	if err != nil {
		countReservation("create", "rejected")
		return orderErrorResponse(c, err)
	}
	countReservation("create", "accepted")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar pedido
// @Description  Campos ausentes no se tocan; products presente reemplaza el conjunto completo de líneas.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Products != nil && !validProducts(in.Products) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "products requiere líneas con cantidad positiva"})
	}
	out, err := h.uc.Update(c.UserContext(), id, in, GetUsername(c))
	if err != nil {
		countReservation("update", "rejected")
		return orderErrorResponse(c, err)
	}
	countReservation("update", "accepted")
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar pedido (lógico)
// @Description  Marca el pedido como DELETED; sus líneas dejan de contar como reserva.
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.UserContext(), id, GetUsername(c)); err != nil {
		countReservation("delete", "rejected")
		return orderErrorResponse(c, err)
	}
	countReservation("delete", "accepted")
	return c.SendStatus(fiber.StatusNoContent)
}

// CalculateDelivery godoc
// @Summary      Calcular entrega de un lote de pedidos
// @Tags         delivery
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliveryRequest  true  "Ids de pedidos"
// @Success      200   {array}   dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/delivery [post]
func (h *OrderHandler) CalculateDelivery(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Orders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "orders requiere al menos un id"})
	}
	out, err := h.uc.CalculateDelivery(in.Orders)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(out)
}
