package entity

import "time"

// Roles de usuario dentro de una tienda.
const (
	RoleAdmin      = "admin"
	RoleInventario = "inventario"
	RoleVendedor   = "vendedor"
)

// User usuario del panel de administración.
type User struct {
	ID           string
	StoreID      string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
