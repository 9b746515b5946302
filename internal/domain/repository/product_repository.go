package repository

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
// Stock solo se escribe vía UpdateStock, y siempre dentro de la misma
// transacción que registra el movimiento correspondiente.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// leer-y-escribir stock sin carreras de actualización perdida.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error)
	UpdateStock(ctx context.Context, productID string, stock int) error
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error)
}
