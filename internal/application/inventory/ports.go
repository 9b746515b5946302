package inventory

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El movimiento del libro y la actualización de
// stock del producto quedan en la misma transacción: ambos commitean o ambos
// se revierten. Un "torn write" (movimiento sin stock actualizado o viceversa)
// es el peor modo de falla del motor y esta frontera lo impide.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
