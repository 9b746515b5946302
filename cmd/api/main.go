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
	"github.com/tiendafacil/tienda-api/internal/application/auth"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/application/restock"
	infrapdf "github.com/tiendafacil/tienda-api/internal/infrastructure/pdf"
	"github.com/tiendafacil/tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/tiendafacil/tienda-api/internal/interfaces/http"
	"github.com/tiendafacil/tienda-api/pkg/config"
	"github.com/tiendafacil/tienda-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewRestockOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewStockLedger(txRunner, movementRepo)
	adjustment := inventory.NewManualAdjustmentProcessor(ledger)
	restockUC := restock.NewRestockOrderUseCase(orderRepo, productRepo, supplierRepo, txRunner)
	receiving := restock.NewReceivingProcessor(txRunner, ledger)

	// PDF: documento de orden de compra para el proveedor
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := restock.NewPDFUseCase(orderRepo, storeRepo, supplierRepo, productRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Tienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Ledger:     ledger,
		Adjustment: adjustment,
		RestockUC:  restockUC,
		Receiving:  receiving,
		PDFUC:      pdfUC,
		JWTSecret:  cfg.JWT.Secret,
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
