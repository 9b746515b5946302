package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, store_id, sku, name, description, price, cost, stock, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Stock inicia en 0; los ingresos van por el libro.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, store_id, sku, name, description, price, cost, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.StoreID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.Stock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Todo movimiento de stock pasa por aquí dentro de una transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByStoreAndSKU obtiene un producto por tienda y SKU.
func (r *ProductRepo) GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, storeID, sku))
}

// UpdateStock escribe la proyección de stock. Solo el motor de inventario
// llama este método, siempre en la misma transacción que el movimiento.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int) error {
	query := `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStore lista productos de una tienda.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanProduct(row pgx.Row, p *entity.Product) error {
	err := row.Scan(
		&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan product: %w", err)
	}
	return nil
}
