package inventory

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// StockLedger es el único escritor del stock de productos. Cada cambio de
// stock queda registrado como un movimiento append-only con la foto
// antes/después, en la misma transacción que la actualización del contador.
type StockLedger struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
}

// NewStockLedger construye el libro de inventario.
func NewStockLedger(txRunner TxRunner, movRepo repository.MovementRepository) *StockLedger {
	return &StockLedger{txRunner: txRunner, movRepo: movRepo}
}

// RecordInput entrada para registrar un movimiento.
// Quantity es el delta con signo; su signo debe coincidir con el del tipo
// (tabla fija por tipo) y nunca puede ser cero.
type RecordInput struct {
	StoreID     string
	ProductID   string
	Type        entity.MovementType
	Quantity    int
	Reason      string
	Description string
	ReferenceID string
	Cost        *decimal.Decimal
	Price       *decimal.Decimal
	Actor       entity.Actor
	// AllowNegative permite que el stock quede negativo (solo para corregir
	// datos históricos malos). Por defecto un movimiento que dejaría stock
	// negativo se rechaza sin efecto alguno.
	AllowNegative bool
}

func (in *RecordInput) validate() error {
	if in.StoreID == "" || in.ProductID == "" || in.Reason == "" {
		return domain.ErrInvalidInput
	}
	if !in.Type.Valid() {
		return domain.ErrInvalidInput
	}
	if in.Quantity == 0 {
		return domain.ErrInvalidInput
	}
	if sign(in.Quantity) != in.Type.Sign() {
		return domain.ErrInvalidInput
	}
	if !in.Actor.Valid() {
		return domain.ErrInvalidInput
	}
	return nil
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return +1
}

// Record abre una transacción, bloquea la fila del producto, valida que el
// stock resultante no quede negativo y persiste movimiento + stock de forma
// atómica. Devuelve el movimiento persistido.
func (l *StockLedger) Record(ctx context.Context, in RecordInput) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mov, err = l.RecordInTx(ctx, movRepo, productRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordInTx registra el movimiento usando repositorios ya atados a la
// transacción del caller. Lo usa ReceivingProcessor para que toda una recepción
// (varias líneas) sea una sola unidad atómica.
func (l *StockLedger) RecordInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in RecordInput,
) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	// Bloquea la fila del producto (SELECT FOR UPDATE): dos movimientos
	// concurrentes sobre el mismo producto no pueden leer el mismo stock previo.
	product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != in.StoreID {
		return nil, domain.ErrNotFound
	}

	newStock := product.Stock + in.Quantity
	if newStock < 0 && !in.AllowNegative {
		return nil, domain.ErrInsufficientStock
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		StoreID:       in.StoreID,
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		PreviousStock: product.Stock,
		NewStock:      newStock,
		Reason:        in.Reason,
		Description:   in.Description,
		ReferenceID:   in.ReferenceID,
		Cost:          in.Cost,
		Price:         in.Price,
		CreatedBy:     in.Actor.Tag(),
		CreatedAt:     time.Now(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(ctx, in.ProductID, newStock); err != nil {
		return nil, err
	}
	return mov, nil
}

// History devuelve los movimientos de un producto (o de toda la tienda si
// productID es vacío), más reciente primero, con cursor keyset reanudable.
func (l *StockLedger) History(ctx context.Context, storeID, productID string, limit int, cursor string) ([]*entity.Movement, string, error) {
	if storeID == "" {
		return nil, "", domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	cur, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", domain.ErrInvalidInput
	}

	var movs []*entity.Movement
	if productID != "" {
		movs, err = l.movRepo.ListByProduct(ctx, storeID, productID, cur, limit)
	} else {
		movs, err = l.movRepo.ListByStore(ctx, storeID, cur, limit)
	}
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(movs) == limit {
		last := movs[len(movs)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return movs, next, nil
}

// encodeCursor serializa la posición keyset como base64("createdAt|id").
func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (*repository.MovementCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("cursor inválido: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("cursor inválido")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("cursor inválido: %w", err)
	}
	return &repository.MovementCursor{CreatedAt: ts, ID: parts[1]}, nil
}
