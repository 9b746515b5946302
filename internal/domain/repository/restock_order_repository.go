package repository

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// RestockOrderRepository define el puerto de persistencia para órdenes de
// compra y sus líneas. Las líneas viven dentro del agregado: se leen y
// escriben siempre junto con la cabecera.
type RestockOrderRepository interface {
	Create(ctx context.Context, order *entity.RestockOrder) error
	GetByID(ctx context.Context, id string) (*entity.RestockOrder, error)
	// GetByIDForUpdate bloquea la fila de la cabecera (SELECT FOR UPDATE) y
	// carga las líneas. Serializa recepciones concurrentes sobre la misma orden.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.RestockOrder, error)
	ListByStore(ctx context.Context, storeID string, status entity.RestockOrderStatus, limit, offset int) ([]*entity.RestockOrder, error)
	UpdateHeader(ctx context.Context, order *entity.RestockOrder) error
	// ReplaceItems reemplaza el set de líneas (solo órdenes en DRAFT).
	ReplaceItems(ctx context.Context, orderID string, items []*entity.RestockOrderItem) error
	UpdateStatus(ctx context.Context, orderID string, status entity.RestockOrderStatus) error
	UpdateItemReceived(ctx context.Context, itemID string, quantityReceived int) error
	// Delete borra orden y líneas (solo DRAFT; el caller valida el estado).
	Delete(ctx context.Context, id string) error
	// NextOrderNumber devuelve el siguiente consecutivo de orden para la tienda.
	NextOrderNumber(ctx context.Context, storeID string) (string, error)
}
