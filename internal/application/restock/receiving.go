package restock

import (
	"context"

	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// ReceivingProcessor reconcilia mercancía recibida contra una orden de compra:
// registra los movimientos RESTOCK_RECEIVED en el libro, incrementa el
// acumulado recibido de cada línea y re-deriva el estado de la orden, todo en
// una sola transacción.
//
// No hay clave de idempotencia: reprocesar el mismo recibo físico duplica
// cantidades. Es aceptable porque la recepción es una acción atestiguada por
// una persona, no un POST reintentado por la red; el caller es responsable de
// no repetirla.
type ReceivingProcessor struct {
	txRunner TxRunner
	ledger   *inventory.StockLedger
}

// NewReceivingProcessor construye el procesador.
func NewReceivingProcessor(txRunner TxRunner, ledger *inventory.StockLedger) *ReceivingProcessor {
	return &ReceivingProcessor{txRunner: txRunner, ledger: ledger}
}

// ReceiveItem cantidad recibida ahora contra una línea de la orden.
type ReceiveItem struct {
	ItemID   string
	Quantity int
}

// ReceiveInput entrada de una recepción.
type ReceiveInput struct {
	OrderID string
	StoreID string
	Items   []ReceiveItem
	Actor   entity.Actor
	// AllowOverReceipt permite recibir más de lo pedido en una línea (el
	// proveedor a veces despacha de más). Política explícita: activada por
	// defecto en la capa HTTP; desactivada, el exceso se rechaza.
	AllowOverReceipt bool
}

// OverReceipt línea que quedó con más unidades recibidas que pedidas.
// Es un aviso para el caller, no un error.
type OverReceipt struct {
	ItemID    string
	ProductID string
	Ordered   int
	Received  int
}

// Receive aplica un lote de recepción contra la orden. Las entradas con
// cantidad cero se filtran (no son error); cantidades negativas son entrada
// inválida. La orden debe estar en ORDERED o PARTIALLY_RECEIVED.
//
// La cabecera se bloquea (SELECT FOR UPDATE) al inicio: dos recepciones
// concurrentes sobre la misma orden se serializan y ninguna lee un
// quantityReceived desactualizado. Cada llamada suma el delta entregado, nunca
// reemplaza acumulados; la orden puede recibirse en varios despachos.
func (p *ReceivingProcessor) Receive(ctx context.Context, in ReceiveInput) (*entity.RestockOrder, []OverReceipt, error) {
	if in.OrderID == "" || in.StoreID == "" || !in.Actor.Valid() {
		return nil, nil, domain.ErrInvalidInput
	}
	// Filtrar ceros; negativos son inválidos.
	items := make([]ReceiveItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		if it.Quantity == 0 {
			continue
		}
		if it.ItemID == "" {
			return nil, nil, domain.ErrInvalidInput
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, nil, domain.ErrNoQuantities
	}

	var (
		order    *entity.RestockOrder
		warnings []OverReceipt
	)
	err := p.txRunner.RunRestock(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error {
		var err error
		order, err = orderRepo.GetByIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil || order.StoreID != in.StoreID {
			return domain.ErrNotFound
		}
		if !order.Status.CanReceive() {
			return domain.ErrInvalidOrderState
		}

		for _, it := range items {
			line := order.Item(it.ItemID)
			if line == nil {
				return domain.ErrNotFound
			}
			newReceived := line.QuantityReceived + it.Quantity
			if !in.AllowOverReceipt && newReceived > line.Quantity {
				return domain.ErrInvalidInput
			}

			// Movimiento en el libro + stock del producto, misma transacción.
			cost := line.Cost
			if _, err := p.ledger.RecordInTx(ctx, movRepo, productRepo, inventory.RecordInput{
				StoreID:     in.StoreID,
				ProductID:   line.ProductID,
				Type:        entity.MovementRestockReceived,
				Quantity:    it.Quantity,
				Reason:      order.OrderNumber,
				ReferenceID: order.ID,
				Cost:        &cost,
				Actor:       in.Actor,
			}); err != nil {
				return err
			}

			line.QuantityReceived = newReceived
			if err := orderRepo.UpdateItemReceived(ctx, line.ID, line.QuantityReceived); err != nil {
				return err
			}
			if line.OverReceived() {
				warnings = append(warnings, OverReceipt{
					ItemID:    line.ID,
					ProductID: line.ProductID,
					Ordered:   line.Quantity,
					Received:  line.QuantityReceived,
				})
			}
		}

		// Estado como función pura de las líneas, recalculado tras aplicar todo.
		newStatus := entity.DeriveStatus(order.Items)
		if newStatus != order.Status {
			if !order.Status.CanTransitionTo(newStatus) {
				return domain.ErrIllegalTransition
			}
			if err := orderRepo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
				return err
			}
			order.Status = newStatus
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, warnings, nil
}
