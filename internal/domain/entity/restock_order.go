package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockOrderStatus estado de una orden de compra a proveedor.
type RestockOrderStatus string

const (
	RestockDraft             RestockOrderStatus = "DRAFT"
	RestockOrdered           RestockOrderStatus = "ORDERED"
	RestockPartiallyReceived RestockOrderStatus = "PARTIALLY_RECEIVED"
	RestockCompleted         RestockOrderStatus = "COMPLETED"
	RestockCancelled         RestockOrderStatus = "CANCELLED"
)

// Valid indica si el estado pertenece al enum.
func (s RestockOrderStatus) Valid() bool {
	switch s {
	case RestockDraft, RestockOrdered, RestockPartiallyReceived, RestockCompleted, RestockCancelled:
		return true
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func (s RestockOrderStatus) Terminal() bool {
	return s == RestockCompleted || s == RestockCancelled
}

// CanReceive indica si la orden admite recepciones de mercancía.
func (s RestockOrderStatus) CanReceive() bool {
	return s == RestockOrdered || s == RestockPartiallyReceived
}

// CanTransitionTo tabla de transiciones legales del ciclo de vida.
// PARTIALLY_RECEIVED y COMPLETED solo se alcanzan vía DeriveStatus tras una
// recepción; CANCELLED es acción explícita y no revierte movimientos ya
// registrados.
func (s RestockOrderStatus) CanTransitionTo(target RestockOrderStatus) bool {
	switch s {
	case RestockDraft:
		return target == RestockOrdered || target == RestockCancelled
	case RestockOrdered:
		return target == RestockPartiallyReceived || target == RestockCompleted || target == RestockCancelled
	case RestockPartiallyReceived:
		return target == RestockPartiallyReceived || target == RestockCompleted || target == RestockCancelled
	case RestockCompleted, RestockCancelled:
		return false
	}
	return false
}

// RestockOrderItem línea de una orden de compra. Quantity y Cost son inmutables
// una vez la orden sale de DRAFT; QuantityReceived solo crece y solo lo escribe
// el proceso de recepción.
type RestockOrderItem struct {
	ID               string
	RestockOrderID   string
	ProductID        string
	Quantity         int // cantidad pedida
	Cost             decimal.Decimal
	QuantityReceived int // acumulado recibido, inicia en 0
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Satisfied indica si la línea ya recibió al menos lo pedido.
func (i *RestockOrderItem) Satisfied() bool {
	return i.QuantityReceived >= i.Quantity
}

// OverReceived indica si la línea recibió más de lo pedido.
func (i *RestockOrderItem) OverReceived() bool {
	return i.QuantityReceived > i.Quantity
}

// RestockOrder orden de compra a proveedor (cabecera + líneas).
// Las líneas solo se editan en DRAFT. Nunca se borra físicamente una orden que
// salió de DRAFT: dejaría huérfana la historia del libro de inventario.
type RestockOrder struct {
	ID           string
	StoreID      string
	OrderNumber  string
	SupplierID   string
	Status       RestockOrderStatus
	Notes        string
	ShippingCost decimal.Decimal
	Items        []*RestockOrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Editable indica si cabecera y líneas admiten edición.
func (o *RestockOrder) Editable() bool {
	return o.Status == RestockDraft
}

// Item busca una línea por ID; nil si no pertenece a la orden.
func (o *RestockOrder) Item(itemID string) *RestockOrderItem {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// DeriveStatus calcula el estado de una orden activa como función pura de sus
// líneas (quantity, quantityReceived). Se reevalúa después de cada recepción;
// el estado nunca es una bandera independiente que pueda divergir de las líneas.
//
//	todas satisfechas            -> COMPLETED (sobre-recepción cuenta como satisfecha)
//	alguna con recepción parcial -> PARTIALLY_RECEIVED
//	ninguna recibida             -> ORDERED
func DeriveStatus(items []*RestockOrderItem) RestockOrderStatus {
	if len(items) == 0 {
		return RestockOrdered
	}
	allSatisfied := true
	anyReceived := false
	for _, it := range items {
		if !it.Satisfied() {
			allSatisfied = false
		}
		if it.QuantityReceived > 0 {
			anyReceived = true
		}
	}
	if allSatisfied {
		return RestockCompleted
	}
	if anyReceived {
		return RestockPartiallyReceived
	}
	return RestockOrdered
}
