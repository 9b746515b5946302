package repository

import (
	"context"
	"time"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// MovementCursor posición de keyset para paginar el libro (más reciente primero).
type MovementCursor struct {
	CreatedAt time.Time
	ID        string
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct devuelve movimientos del producto, más reciente primero,
	// a partir del cursor (exclusivo) si no es nil.
	ListByProduct(ctx context.Context, storeID, productID string, cursor *MovementCursor, limit int) ([]*entity.Movement, error)
	// ListByStore igual que ListByProduct pero para toda la tienda.
	ListByStore(ctx context.Context, storeID string, cursor *MovementCursor, limit int) ([]*entity.Movement, error)
	// LastByProduct devuelve el movimiento más reciente del producto; nil si no hay.
	LastByProduct(ctx context.Context, storeID, productID string) (*entity.Movement, error)
	// SumByProduct suma los deltas de todos los movimientos del producto.
	SumByProduct(ctx context.Context, storeID, productID string) (int, error)
}
