package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/codefactory-g12/petmanager-api/internal/application/payment"
	"github.com/codefactory-g12/petmanager-api/internal/infrastructure/metrics"
	infrapdf "github.com/codefactory-g12/petmanager-api/internal/infrastructure/pdf"
	"github.com/codefactory-g12/petmanager-api/internal/infrastructure/postgres"
	httpRouter "github.com/codefactory-g12/petmanager-api/internal/interfaces/http"
	"github.com/codefactory-g12/petmanager-api/pkg/config"
	"github.com/codefactory-g12/petmanager-api/pkg/logger"
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

	loc, err := time.LoadLocation(cfg.Payments.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Payments.Timezone).Msg("zona horaria de pagos inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		version, err := postgres.Migrate(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}

	m := metrics.New("petmanager")

	supplierRepo := postgres.NewSupplierRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	lineRepo := postgres.NewPaymentLineItemRepository(pool)
	conditionRepo := postgres.NewPaymentConditionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	paymentSvc := payment.NewService(
		txRunner, supplierRepo, paymentRepo, lineRepo, conditionRepo,
		payment.WithLocation(loc),
		payment.WithLogger(log.WithComponent("payments")),
		payment.WithRecorder(m),
	)
	receiptUC := payment.NewReceiptUseCase(paymentSvc, supplierRepo, infrapdf.NewReceiptGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware(m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PetManager API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Payments:       paymentSvc,
		Receipts:       receiptUC,
		JWTSecret:      cfg.JWT.Secret,
		MetricsHandler: m.Handler(),
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
