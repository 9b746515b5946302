package inventory

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// Reconciler verifica que el stock materializado de cada producto coincida con
// el libro de movimientos, y lo repara cuando diverge. El libro es la fuente de
// verdad: reparar significa re-derivar el contador, nunca tocar la historia.
type Reconciler struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
}

// NewReconciler construye el reconciliador.
func NewReconciler(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.MovementRepository) *Reconciler {
	return &Reconciler{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// Divergence producto cuyo contador no coincide con el libro.
type Divergence struct {
	ProductID   string
	SKU         string
	Stock       int // contador materializado en products
	LedgerStock int // NewStock del último movimiento (0 sin movimientos)
}

// Check recorre los productos de la tienda y reporta divergencias entre el
// contador y el último movimiento del libro.
func (r *Reconciler) Check(ctx context.Context, storeID string) ([]Divergence, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	const pageSize = 200
	var divergences []Divergence
	for offset := 0; ; offset += pageSize {
		products, err := r.productRepo.ListByStore(ctx, storeID, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			last, err := r.movRepo.LastByProduct(ctx, storeID, p.ID)
			if err != nil {
				return nil, err
			}
			ledgerStock := 0
			if last != nil {
				ledgerStock = last.NewStock
			}
			if p.Stock != ledgerStock {
				divergences = append(divergences, Divergence{
					ProductID:   p.ID,
					SKU:         p.SKU,
					Stock:       p.Stock,
					LedgerStock: ledgerStock,
				})
			}
		}
		if len(products) < pageSize {
			break
		}
	}
	return divergences, nil
}

// Fix re-deriva el stock de un producto desde el libro, bajo bloqueo de fila
// para no pisar un movimiento concurrente.
func (r *Reconciler) Fix(ctx context.Context, storeID, productID string) error {
	if storeID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	return r.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
		last, err := movRepo.LastByProduct(ctx, storeID, productID)
		if err != nil {
			return err
		}
		ledgerStock := 0
		if last != nil {
			ledgerStock = last.NewStock
		}
		if product.Stock == ledgerStock {
			return nil
		}
		return productRepo.UpdateStock(ctx, productID, ledgerStock)
	})
}
