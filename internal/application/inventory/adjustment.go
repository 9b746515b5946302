package inventory

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// ManualAdjustmentProcessor registra ajustes manuales de stock (daño, pérdida,
// uso interno, corrección, devolución...). Envoltura delgada sobre StockLedger:
// el signo del delta lo fija la tabla por tipo, nunca el caller.
type ManualAdjustmentProcessor struct {
	ledger *StockLedger
}

// NewManualAdjustmentProcessor construye el procesador.
func NewManualAdjustmentProcessor(ledger *StockLedger) *ManualAdjustmentProcessor {
	return &ManualAdjustmentProcessor{ledger: ledger}
}

// AdjustInput entrada para un ajuste manual. Quantity es la magnitud (> 0).
type AdjustInput struct {
	StoreID       string
	ProductID     string
	Type          entity.MovementType
	Quantity      int
	Reason        string
	Description   string
	Actor         entity.Actor
	AllowNegative bool
}

// Adjust valida que el tipo sea una causa manual permitida y delega en el
// libro con el delta firmado según la tabla del tipo.
func (p *ManualAdjustmentProcessor) Adjust(ctx context.Context, in AdjustInput) (*entity.Movement, error) {
	if !in.Type.Valid() || !in.Type.ManualCause() {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return p.ledger.Record(ctx, RecordInput{
		StoreID:       in.StoreID,
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity * in.Type.Sign(),
		Reason:        in.Reason,
		Description:   in.Description,
		Actor:         in.Actor,
		AllowNegative: in.AllowNegative,
	})
}
