package repository

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Supplier, error)
}
