package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una tienda.
// Stock es una proyección materializada del libro de movimientos: solo el
// motor de inventario lo escribe, y siempre debe coincidir con el NewStock
// del último movimiento del producto.
type Product struct {
	ID          string
	StoreID     string
	SKU         string // único por tienda
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de referencia
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
