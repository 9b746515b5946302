package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, store_id, product_id, type, quantity, previous_stock, new_stock,
	reason, description, reference_id, cost, price, created_by, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: este repo no expone
// UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements
			(id, store_id, product_id, type, quantity, previous_stock, new_stock,
			 reason, description, reference_id, cost, price, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	description := nullable(m.Description)
	referenceID := nullable(m.ReferenceID)
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StoreID, m.ProductID, string(m.Type), m.Quantity, m.PreviousStock, m.NewStock,
		m.Reason, description, referenceID, m.Cost, m.Price, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos del producto, más reciente primero, con
// paginación keyset (created_at, id) reanudable.
func (r *MovementRepo) ListByProduct(ctx context.Context, storeID, productID string, cursor *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE store_id = $1 AND product_id = $2`
	args := []any{storeID, productID}
	if cursor != nil {
		query += ` AND (created_at, id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return r.list(ctx, query, args...)
}

// ListByStore lista movimientos de toda la tienda, más reciente primero.
func (r *MovementRepo) ListByStore(ctx context.Context, storeID string, cursor *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE store_id = $1`
	args := []any{storeID}
	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return r.list(ctx, query, args...)
}

// LastByProduct devuelve el movimiento más reciente del producto; nil si no hay.
func (r *MovementRepo) LastByProduct(ctx context.Context, storeID, productID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE store_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id DESC LIMIT 1`
	var m entity.Movement
	if err := scanMovement(r.q.QueryRow(ctx, query, storeID, productID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// SumByProduct suma los deltas de todos los movimientos del producto.
func (r *MovementRepo) SumByProduct(ctx context.Context, storeID, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements
		WHERE store_id = $1 AND product_id = $2`
	var sum int
	if err := r.q.QueryRow(ctx, query, storeID, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := scanMovement(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row, m *entity.Movement) error {
	var typ string
	var description, referenceID *string
	err := row.Scan(
		&m.ID, &m.StoreID, &m.ProductID, &typ, &m.Quantity, &m.PreviousStock, &m.NewStock,
		&m.Reason, &description, &referenceID, &m.Cost, &m.Price, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan movement: %w", err)
	}
	m.Type = entity.MovementType(typ)
	if description != nil {
		m.Description = *description
	}
	if referenceID != nil {
		m.ReferenceID = *referenceID
	}
	return nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
