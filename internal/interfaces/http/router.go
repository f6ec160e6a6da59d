package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC     *order.OrderUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1", MetricsMiddleware())

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Orders (ADMIN y USER)
	orders := protected.Group("/orders", RequireRole(entity.RoleAdmin, entity.RoleUser))
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)

	// Delivery (solo ADMIN)
	delivery := protected.Group("/delivery", RequireRole(entity.RoleAdmin))
	delivery.Post("/", orderHandler.CalculateDelivery)

	// Warehouses (solo ADMIN)
	warehouses := protected.Group("/warehouses", RequireRole(entity.RoleAdmin))
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/:id/availability", warehouseHandler.Availability)

	// Products (ADMIN y USER)
	products := protected.Group("/products", RequireRole(entity.RoleAdmin, entity.RoleUser))
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
}
