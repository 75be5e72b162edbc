package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gestion-fournitures/internal/application/inventory"
	"github.com/jhoicas/gestion-fournitures/internal/application/numbering"
	"github.com/jhoicas/gestion-fournitures/internal/application/ordering"
	"github.com/jhoicas/gestion-fournitures/internal/application/usecase"
	"github.com/jhoicas/gestion-fournitures/internal/domain/entity"
	"github.com/jhoicas/gestion-fournitures/internal/domain/repository"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-fournitures/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/gestion-fournitures/internal/interfaces/http"
	"github.com/jhoicas/gestion-fournitures/pkg/config"
	"github.com/jhoicas/gestion-fournitures/pkg/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar telemetría")
	}

	var txRunner repository.TxRunner
	switch cfg.App.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	journal := inventory.NewMovementJournal(txRunner)
	ledger := inventory.NewStockLedger(txRunner, journal, log)
	numbers := numbering.NewGenerator(txRunner, cfg.Inventory.SequenceRetries, log)
	orderUC := ordering.NewOrderUseCase(txRunner, ledger, numbers, ordering.Options{
		RejectDuplicateOpenOrders: cfg.Inventory.RejectDuplicateOpenOrders,
		Overdue: entity.OverduePolicy{
			Validated: cfg.Inventory.ValidatedOverdue,
			InTransit: cfg.Inventory.InTransitOverdue,
		},
	}, log)
	supplyTypeUC := usecase.NewSupplyTypeUseCase(txRunner, log)
	supplyUC := usecase.NewSupplyUseCase(txRunner, ledger, numbers, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SupplyTypeUC:  supplyTypeUC,
		SupplyUC:      supplyUC,
		Ledger:        ledger,
		Journal:       journal,
		Replenishment: replenishmentUC,
		OrderUC:       orderUC,
		Numbers:       numbers,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		DocsPath:      cfg.HTTP.DocsPath,
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
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de telemetría")
	}

	log.Info().Msg("aplicación detenida")
}
