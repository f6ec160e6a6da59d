// seed puebla la base con datos de arranque: la bodega de Pioltello con su
// catálogo de existencias y un usuario administrador.
//
// Uso: go run ./cmd/seed
// Es idempotente: si la bodega o el usuario ya existen, los deja como están.
package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

const seedUser = "seed"

// Catálogo y existencias iniciales de la bodega de Pioltello.
var seedStock = []struct {
	name string
	qty  int64
}{
	{"Passata", 10},
	{"Olio", 6},
	{"Tonno", 15},
	{"Fagioli", 3},
	{"Piselli", 4},
	{"Cereali", 5},
	{"Pasta", 0},
	{"Caffe", 0},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Bodega de Pioltello
	var pioltello *entity.Warehouse
	existing, err := warehouseRepo.FindAll()
	if err != nil {
		log.Fatal().Err(err).Msg("listar bodegas")
	}
	for _, wh := range existing {
		if wh.Name == "Pioltello" {
			pioltello = wh
			break
		}
	}
	if pioltello == nil {
		pioltello = &entity.Warehouse{
			ID:       uuid.New().String(),
			Name:     "Pioltello",
			Location: entity.Point{Lat: 45.511591, Lng: 9.32181},
		}
		if err := warehouseRepo.Create(pioltello, seedUser); err != nil {
			log.Fatal().Err(err).Msg("crear bodega Pioltello")
		}
		log.Info().Str("warehouse_id", pioltello.ID).Msg("bodega Pioltello creada")
	}

	// Catálogo de productos y existencias
	products, err := productRepo.FindAll()
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	byName := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}
	for _, s := range seedStock {
		product := byName[s.name]
		if product == nil {
			product = &entity.Product{ID: uuid.New().String(), Name: s.name}
			if err := productRepo.Create(product); err != nil {
				log.Fatal().Err(err).Str("product", s.name).Msg("crear producto")
			}
		}
		err := stockRepo.Upsert(&entity.StockEntry{
			WarehouseID: pioltello.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    decimal.NewFromInt(s.qty),
		})
		if err != nil {
			log.Fatal().Err(err).Str("product", s.name).Msg("sembrar stock")
		}
	}
	log.Info().Int("products", len(seedStock)).Msg("existencias sembradas")

	// Usuario administrador
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}
	err = userRepo.Create(&entity.User{
		ID:           uuid.New().String(),
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
	})
	if err != nil && err != domain.ErrUsernameTaken {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}

	log.Info().Msg("seed completado")
}
