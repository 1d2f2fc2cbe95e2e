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
	"github.com/jhoicas/Bodega-api/internal/application/adjustment"
	"github.com/jhoicas/Bodega-api/internal/application/alerts"
	"github.com/jhoicas/Bodega-api/internal/application/catalog"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/application/reconcile"
	"github.com/jhoicas/Bodega-api/internal/application/reference"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Bodega-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Bodega-api/internal/interfaces/http"
	"github.com/jhoicas/Bodega-api/pkg/config"
	"github.com/jhoicas/Bodega-api/pkg/logger"
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

	itemRepo := postgres.NewItemRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	posRepo := postgres.NewStockPositionRepository(pool)
	adjRepo := postgres.NewAdjustmentRepository(pool)
	aggRepo := postgres.NewAggregateRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	aggregator := ledger.NewAggregator(txRunner, itemRepo, warehouseRepo, movRepo, posRepo)

	// Caché de lectura opcional (REDIS_ADDR vacío = deshabilitado).
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		aggregator.AttachCache(infraredis.NewPositionCache(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de posiciones habilitado")
	}

	reconciler := reconcile.NewEngine(itemRepo, posRepo, aggRepo, log.Component("reconcile"))
	aggregator.AttachReconciler(reconciler)

	workflow := adjustment.NewWorkflow(txRunner, aggregator, adjRepo)
	coordinator := reference.NewCoordinator(txRunner, aggregator)
	evaluator := alerts.NewEvaluator(itemRepo, posRepo, poRepo)
	catalogUC := catalog.NewUseCase(itemRepo, warehouseRepo, categoryRepo, supplierRepo, reconciler)

	// Reintento periódico de reconciliaciones fallidas (acotado por intento).
	retryCtx, stopRetry := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-retryCtx.Done():
				return
			case <-ticker.C:
				reconciler.RetryPending(retryCtx)
			}
		}
	}()
	defer stopRetry()

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
		Title:    "Bodega API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Aggregator:  aggregator,
		Workflow:    workflow,
		Coordinator: coordinator,
		Evaluator:   evaluator,
		Reconciler:  reconciler,
		CatalogUC:   catalogUC,
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
