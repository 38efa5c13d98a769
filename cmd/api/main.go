package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/metrics"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/notify"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/vjmurenko/Warehouse-sub001/internal/interfaces/http"
	"github.com/vjmurenko/Warehouse-sub001/pkg/config"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(registry, cfg.App.Name, cfg.App.Env)

	// Notificaciones: Redis pub/sub si hay REDIS_ADDR, si no solo log.
	var notifier inventory.Notifier = notify.NewLogNotifier(log.Component("notify"))
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		redisNotifier := notify.NewRedisNotifier(client, cfg.Redis.Channel, cfg.Redis.Buffer, log.Component("notify"))
		redisNotifier.Start()
		defer redisNotifier.Close()
		notifier = redisNotifier
	}

	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout)
	balanceRepo := postgres.NewBalanceRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	referenceRepo := postgres.NewReferenceRepository(pool)

	balanceSvc := inventory.NewBalanceService(balanceRepo, inventory.NewAvailabilityValidator(), ledgerMetrics, log.Component("ledger"))
	refValidator := inventory.NewReferenceValidator(referenceRepo)
	retry := inventory.DefaultRetryPolicy()
	retry.MaxRetries = cfg.Ledger.MaxRetries
	retry.InitialInterval = cfg.Ledger.RetryInitial
	opts := inventory.Options{
		Notifier: notifier,
		Metrics:  ledgerMetrics,
		Retry:    retry,
		Logger:   log.Component("documents"),
	}
	receiptUC := inventory.NewReceiptUseCase(txRunner, receiptRepo, balanceSvc, refValidator, opts)
	shipmentUC := inventory.NewShipmentUseCase(txRunner, shipmentRepo, balanceSvc, refValidator, opts)
	referenceUC := usecase.NewReferenceUseCase(referenceRepo, log.Component("references"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Balances:   balanceSvc,
		Receipts:   receiptUC,
		Shipments:  shipmentUC,
		References: referenceUC,
		Metrics:    adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		Health:     pool.Ping,
		Service:    cfg.App.Name,
		Logger:     log.Component("http"),
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
