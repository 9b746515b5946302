package restock

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita una recepción: libro, productos y órdenes.
// Una recepción de varias líneas es todo-o-nada: si una sola escritura del
// libro falla, el lote completo se revierte.
type TxRunner interface {
	RunRestock(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error) error
}

// OrderPDFGenerator genera el documento de orden de compra para el proveedor.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.RestockOrder, store *entity.Store, supplier *entity.Supplier, lines []OrderPDFLine) ([]byte, error)
}

// OrderPDFLine línea resuelta (con datos de producto) para el PDF.
type OrderPDFLine struct {
	SKU         string
	ProductName string
	Quantity    int
	Cost        string // formateado
	Subtotal    string // formateado
}
