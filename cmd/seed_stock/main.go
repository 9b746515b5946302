// seed_stock carga el inventario inicial desde el CSV exportado por el sistema
// anterior (codificado en ISO-8859-1, separado por punto y coma):
//
//	sku;cantidad;costo
//	ABC-001;12;3500.00
//
// Cada fila registra un movimiento INITIAL_MIGRATION en el libro, con actor
// SYSTEM_MIGRATION_SCRIPT. Reprocesar el archivo duplica el stock: el script es
// de un solo uso por tienda.
//
// Uso: go run ./cmd/seed_stock -store <uuid> -file inventario.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/infrastructure/postgres"
	"github.com/tiendafacil/tienda-api/pkg/config"
	"github.com/tiendafacil/tienda-api/pkg/logger"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	storeID := flag.String("store", "", "ID de la tienda (requerido)")
	file := flag.String("file", "inventario.csv", "CSV sku;cantidad;costo en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"}).Component("seed_stock")

	if *storeID == "" {
		log.Error().Msg("-store es requerido")
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	// El sistema anterior exporta en latin-1; se decodifica al vuelo.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 3

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledger := inventory.NewStockLedger(txRunner, movementRepo)
	actor := entity.NewSystemActor(entity.SystemMigration)

	var loaded, skipped int
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Int("line", line).Msg("leer CSV")
		}
		sku := strings.TrimSpace(record[0])
		if line == 1 && strings.EqualFold(sku, "sku") {
			continue // cabecera
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || qty <= 0 {
			log.Warn().Int("line", line).Str("sku", sku).Str("cantidad", record[1]).Msg("cantidad inválida, fila omitida")
			skipped++
			continue
		}
		cost, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil || cost.IsNegative() {
			log.Warn().Int("line", line).Str("sku", sku).Str("costo", record[2]).Msg("costo inválido, fila omitida")
			skipped++
			continue
		}

		product, err := productRepo.GetByStoreAndSKU(ctx, *storeID, sku)
		if err != nil {
			log.Fatal().Err(err).Str("sku", sku).Msg("buscar producto")
		}
		if product == nil {
			log.Warn().Int("line", line).Str("sku", sku).Msg("SKU no existe en la tienda, fila omitida")
			skipped++
			continue
		}

		mov, err := ledger.Record(ctx, inventory.RecordInput{
			StoreID:   *storeID,
			ProductID: product.ID,
			Type:      entity.MovementInitialMigration,
			Quantity:  qty,
			Reason:    "Carga inicial desde sistema anterior",
			Cost:      &cost,
			Actor:     actor,
		})
		if err != nil {
			log.Fatal().Err(err).Str("sku", sku).Msg("registrar movimiento")
		}
		loaded++
		log.Info().
			Str("sku", sku).
			Int("cantidad", qty).
			Int("stock", mov.NewStock).
			Msg("stock inicial cargado")
	}

	log.Info().Int("cargadas", loaded).Int("omitidas", skipped).Msg("carga inicial terminada")
}
