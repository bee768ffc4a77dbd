package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appinv "github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/orders"
	"github.com/jhoicas/inventory-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-core/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/inventory-core/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventory-core/internal/interfaces/http"
	"github.com/jhoicas/inventory-core/pkg/config"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Publicación de eventos y cache son opcionales: sin broker/redis el
	// núcleo opera igual, solo con lecturas directas y sin eventos.
	var publisher appinv.MovementPublisher
	if cfg.AMQP.Host != "" {
		p, err := rabbitmq.NewPublisher(cfg.AMQP)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer p.Close()
		publisher = p
	}
	var cache appinv.AvailabilityCache
	if cfg.Redis.Addr != "" {
		c, err := infraredis.NewCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer c.Close()
		cache = c
	}

	registerMovementUC := appinv.NewRegisterMovementUseCase(txRunner, productRepo, warehouseRepo, publisher, cache, log)
	queryUC := appinv.NewQueryUseCase(recordRepo, cache, log)
	reconcileUC := appinv.NewReconcileUseCase(ledgerRepo, recordRepo, log)
	coordinatorUC := orders.NewCoordinatorUseCase(txRunner, orderRepo, productRepo, warehouseRepo, publisher, cache, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		InventoryQuery:   queryUC,
		Reconcile:        reconcileUC,
		Coordinator:      coordinatorUC,
		LedgerRepo:       ledgerRepo,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
