package repository

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios del panel.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// StoreRepository define el puerto de persistencia para tiendas.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
}
