package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity es la magnitud (> 0); el signo del delta lo fija el tipo.
type AdjustmentRequest struct {
	ProductID     string `json:"product_id"`
	Type          string `json:"type"` // DAMAGE, LOST, STORE_USE, MANUAL_ADJUSTMENT, INITIAL_INTAKE, RETURN, PROMOTION
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"`
	Description   string `json:"description,omitempty"`
	AllowNegative bool   `json:"allow_negative,omitempty"` // solo para corregir datos históricos malos
}

// MovementResponse movimiento del libro de inventario en respuestas.
type MovementResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Type          string           `json:"type"`
	Quantity      int              `json:"quantity"`
	PreviousStock int              `json:"previous_stock"`
	NewStock      int              `json:"new_stock"`
	Reason        string           `json:"reason"`
	Description   string           `json:"description,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MovementListResponse página de movimientos, más reciente primero.
type MovementListResponse struct {
	Movements  []MovementResponse `json:"movements"`
	NextCursor string             `json:"next_cursor,omitempty"`
}
