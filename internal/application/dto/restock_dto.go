package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockItemRequest línea de una orden de compra en creación/edición.
type RestockItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

// CreateRestockOrderRequest body para POST /api/restock-orders.
type CreateRestockOrderRequest struct {
	SupplierID   string               `json:"supplier_id"`
	Notes        string               `json:"notes,omitempty"`
	ShippingCost decimal.Decimal      `json:"shipping_cost,omitempty"`
	Items        []RestockItemRequest `json:"items"`
}

// UpdateRestockOrderRequest body para PATCH /api/restock-orders/:id.
// Action "place" avanza DRAFT -> ORDERED; vacío edita cabecera/líneas (DRAFT).
type UpdateRestockOrderRequest struct {
	Action       string               `json:"action,omitempty"` // "" | "place"
	SupplierID   *string              `json:"supplier_id,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	ShippingCost *decimal.Decimal     `json:"shipping_cost,omitempty"`
	Items        []RestockItemRequest `json:"items,omitempty"`
}

// ReceivedItemRequest cantidad recibida ahora contra una línea.
type ReceivedItemRequest struct {
	RestockOrderItemID string `json:"restock_order_item_id"`
	QuantityReceived   int    `json:"quantity_received"`
}

// ReceiveRequest body para POST /api/restock-orders/:id/receive.
type ReceiveRequest struct {
	ReceivedItems []ReceivedItemRequest `json:"received_items"`
}

// RestockItemResponse línea de orden en respuestas, con indicador de
// sobre-recepción derivado (nunca almacenado).
type RestockItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	Cost             decimal.Decimal `json:"cost"`
	QuantityReceived int             `json:"quantity_received"`
	Satisfied        bool            `json:"satisfied"`
	OverReceived     bool            `json:"over_received"`
}

// RestockOrderResponse orden de compra en respuestas.
type RestockOrderResponse struct {
	ID           string                `json:"id"`
	OrderNumber  string                `json:"order_number"`
	SupplierID   string                `json:"supplier_id"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	ShippingCost decimal.Decimal       `json:"shipping_cost"`
	Items        []RestockItemResponse `json:"items"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// OverReceiptWarning aviso de línea con recepción mayor a lo pedido.
type OverReceiptWarning struct {
	RestockOrderItemID string `json:"restock_order_item_id"`
	ProductID          string `json:"product_id"`
	Ordered            int    `json:"ordered"`
	Received           int    `json:"received"`
}

// ReceiveResponse resultado de una recepción.
type ReceiveResponse struct {
	Order    RestockOrderResponse `json:"order"`
	Warnings []OverReceiptWarning `json:"warnings,omitempty"`
}
