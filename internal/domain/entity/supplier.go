package entity

import "time"

// Supplier proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID        string
	StoreID   string
	Name      string
	NIT       string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
