package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/application/restock"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and restock.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ restock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// La atomicidad movimiento+stock (y recepción completa) depende de esta
// frontera: Commit solo si el callback retorna nil, Rollback en cualquier otro
// caso, incluido un timeout del contexto a mitad de camino.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return translateError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunRestock igual que Run pero añade el repositorio de órdenes de compra:
// recepciones y escrituras del agregado orden+líneas (crear, editar, borrar)
// corren cada una como una sola transacción.
func (r *TxRunner) RunRestock(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.RestockOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMovementRepository(tx), NewProductRepository(tx), NewRestockOrderRepository(tx)); err != nil {
		return translateError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
