// reconcile verifica que el stock materializado de cada producto coincida con
// el libro de movimientos, y opcionalmente lo repara re-derivándolo del libro.
//
// Uso:
//
//	go run ./cmd/reconcile -store <uuid>            # solo reporta
//	go run ./cmd/reconcile -store <uuid> -fix       # reporta y repara
//	go run ./cmd/reconcile -store <uuid> -product <uuid> -fix
package main

import (
	"context"
	"flag"
	"os"

	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/infrastructure/postgres"
	"github.com/tiendafacil/tienda-api/pkg/config"
	"github.com/tiendafacil/tienda-api/pkg/logger"
)

func main() {
	storeID := flag.String("store", "", "ID de la tienda (requerido)")
	productID := flag.String("product", "", "limitar a un producto")
	fix := flag.Bool("fix", false, "reparar los contadores divergentes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"}).Component("reconcile")

	if *storeID == "" {
		log.Error().Msg("-store es requerido")
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	reconciler := inventory.NewReconciler(txRunner, productRepo, movementRepo)

	divergences, err := reconciler.Check(ctx, *storeID)
	if err != nil {
		log.Fatal().Err(err).Msg("verificación del libro")
	}

	found := 0
	for _, d := range divergences {
		if *productID != "" && d.ProductID != *productID {
			continue
		}
		found++
		log.Warn().
			Str("product_id", d.ProductID).
			Str("sku", d.SKU).
			Int("stock", d.Stock).
			Int("ledger_stock", d.LedgerStock).
			Msg("contador divergente del libro")
		if *fix {
			if err := reconciler.Fix(ctx, *storeID, d.ProductID); err != nil {
				log.Error().Err(err).Str("product_id", d.ProductID).Msg("reparación fallida")
				continue
			}
			log.Info().Str("product_id", d.ProductID).Int("stock", d.LedgerStock).Msg("contador reparado")
		}
	}

	if found == 0 {
		log.Info().Str("store_id", *storeID).Msg("sin divergencias: contadores consistentes con el libro")
		return
	}
	log.Info().Int("divergencias", found).Bool("fix", *fix).Msg("reconciliación terminada")
	if !*fix {
		os.Exit(1)
	}
}
