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

var _ repository.RestockOrderRepository = (*RestockOrderRepo)(nil)

const orderColumns = `id, store_id, order_number, supplier_id, status, notes, shipping_cost, created_at, updated_at`
const itemColumns = `id, restock_order_id, product_id, quantity, cost, quantity_received, created_at, updated_at`

// RestockOrderRepo implementación del puerto RestockOrderRepository sobre
// PostgreSQL (usable con pool o tx). Cabecera y líneas se leen/escriben como
// un solo agregado.
type RestockOrderRepo struct {
	q Querier
}

// NewRestockOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockOrderRepository(q Querier) *RestockOrderRepo {
	return &RestockOrderRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *RestockOrderRepo) Create(ctx context.Context, order *entity.RestockOrder) error {
	query := `
		INSERT INTO restock_orders (id, store_id, order_number, supplier_id, status, notes, shipping_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.StoreID, order.OrderNumber, nullable(order.SupplierID),
		string(order.Status), order.Notes, order.ShippingCost, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert restock order: %w", err)
	}
	return r.insertItems(ctx, order.Items)
}

func (r *RestockOrderRepo) insertItems(ctx context.Context, items []*entity.RestockOrderItem) error {
	query := `
		INSERT INTO restock_order_items (id, restock_order_id, product_id, quantity, cost, quantity_received, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, it.RestockOrderID, it.ProductID, it.Quantity, it.Cost,
			it.QuantityReceived, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			// Índice único (restock_order_id, product_id)
			if isUniqueViolation(err) {
				return domain.ErrDuplicateProduct
			}
			return fmt.Errorf("insert restock order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *RestockOrderRepo) GetByID(ctx context.Context, id string) (*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate obtiene la orden bloqueando la cabecera (SELECT FOR UPDATE)
// y carga las líneas. Dos recepciones concurrentes sobre la misma orden se
// serializan en este bloqueo.
func (r *RestockOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *RestockOrderRepo) getOne(ctx context.Context, query, id string) (*entity.RestockOrder, error) {
	var o entity.RestockOrder
	if err := scanOrder(r.q.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *RestockOrderRepo) loadItems(ctx context.Context, orderID string) ([]*entity.RestockOrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM restock_order_items WHERE restock_order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list restock order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.RestockOrderItem
	for rows.Next() {
		var it entity.RestockOrderItem
		if err := rows.Scan(&it.ID, &it.RestockOrderID, &it.ProductID, &it.Quantity,
			&it.Cost, &it.QuantityReceived, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan restock order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByStore lista órdenes de la tienda con sus líneas, más reciente primero.
// status vacío lista todas.
func (r *RestockOrderRepo) ListByStore(ctx context.Context, storeID string, status entity.RestockOrderStatus, limit, offset int) ([]*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE store_id = $1`
	args := []any{storeID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restock orders: %w", err)
	}
	defer rows.Close()
	var orders []*entity.RestockOrder
	for rows.Next() {
		var o entity.RestockOrder
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

// UpdateHeader actualiza proveedor, notas y costo de envío.
func (r *RestockOrderRepo) UpdateHeader(ctx context.Context, order *entity.RestockOrder) error {
	query := `
		UPDATE restock_orders
		SET supplier_id = $2, notes = $3, shipping_cost = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, order.ID, nullable(order.SupplierID), order.Notes, order.ShippingCost)
	if err != nil {
		return fmt.Errorf("update restock order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra y reinserta el set de líneas (solo órdenes en DRAFT).
func (r *RestockOrderRepo) ReplaceItems(ctx context.Context, orderID string, items []*entity.RestockOrderItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM restock_order_items WHERE restock_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete restock order items: %w", err)
	}
	return r.insertItems(ctx, items)
}

// UpdateStatus persiste el estado de la orden.
func (r *RestockOrderRepo) UpdateStatus(ctx context.Context, orderID string, status entity.RestockOrderStatus) error {
	query := `UPDATE restock_orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, orderID, string(status))
	if err != nil {
		return fmt.Errorf("update restock order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemReceived persiste el acumulado recibido de una línea.
func (r *RestockOrderRepo) UpdateItemReceived(ctx context.Context, itemID string, quantityReceived int) error {
	query := `UPDATE restock_order_items SET quantity_received = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, itemID, quantityReceived)
	if err != nil {
		return fmt.Errorf("update item received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra orden y líneas. El caso de uso garantiza que solo llega aquí en DRAFT.
func (r *RestockOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM restock_order_items WHERE restock_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete restock order items: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM restock_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restock order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextOrderNumber consecutivo por tienda vía secuencia en store_order_seq.
func (r *RestockOrderRepo) NextOrderNumber(ctx context.Context, storeID string) (string, error) {
	query := `
		INSERT INTO store_order_seq (store_id, last_value) VALUES ($1, 1)
		ON CONFLICT (store_id) DO UPDATE SET last_value = store_order_seq.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, storeID).Scan(&n); err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("OC-%06d", n), nil
}

func scanOrder(row pgx.Row, o *entity.RestockOrder) error {
	var status string
	var supplierID *string
	err := row.Scan(
		&o.ID, &o.StoreID, &o.OrderNumber, &supplierID, &status,
		&o.Notes, &o.ShippingCost, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan restock order: %w", err)
	}
	o.Status = entity.RestockOrderStatus(status)
	if supplierID != nil {
		o.SupplierID = *supplierID
	}
	return nil
}
