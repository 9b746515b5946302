package entity

import "time"

// Store tienda (tenant). Todo recurso del inventario pertenece a una tienda.
type Store struct {
	ID        string
	Name      string
	NIT       string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
