package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType clasifica la causa de un movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario (enum cerrado).
const (
	MovementOrderPlaced      MovementType = "ORDER_PLACED"      // venta confirmada, descuenta stock
	MovementOrderCancelled   MovementType = "ORDER_CANCELLED"   // cancelación de venta, devuelve stock
	MovementManualAdjustment MovementType = "MANUAL_ADJUSTMENT" // corrección manual
	MovementInitialIntake    MovementType = "INITIAL_INTAKE"    // ingreso inicial de producto
	MovementPurchase         MovementType = "PURCHASE"          // compra en mostrador
	MovementReturn           MovementType = "RETURN"            // devolución de cliente
	MovementDamage           MovementType = "DAMAGE"            // producto dañado
	MovementLost             MovementType = "LOST"              // pérdida
	MovementRestockReceived  MovementType = "RESTOCK_RECEIVED"  // recepción de orden de compra
	MovementInitialMigration MovementType = "INITIAL_MIGRATION" // carga desde el sistema anterior
	MovementPromotion        MovementType = "PROMOTION"         // reingreso por promoción
	MovementStoreUse         MovementType = "STORE_USE"         // uso interno de la tienda
)

// movementSigns define el signo del delta por tipo. Tabla única en lugar de
// condicionales dispersos: un tipo de pérdida nunca puede registrarse como
// aumento de stock por error del caller.
var movementSigns = map[MovementType]int{
	MovementOrderPlaced:      -1,
	MovementOrderCancelled:   +1,
	MovementManualAdjustment: +1,
	MovementInitialIntake:    +1,
	MovementPurchase:         -1,
	MovementReturn:           +1,
	MovementDamage:           -1,
	MovementLost:             -1,
	MovementRestockReceived:  +1,
	MovementInitialMigration: +1,
	MovementPromotion:        +1,
	MovementStoreUse:         -1,
}

// manualCauses son los tipos permitidos para ajustes manuales desde el panel.
// Los tipos de ciclo de venta (ORDER_*, PURCHASE) y de recepción los registran
// exclusivamente sus propios procesos.
var manualCauses = map[MovementType]bool{
	MovementManualAdjustment: true,
	MovementInitialIntake:    true,
	MovementReturn:           true,
	MovementPromotion:        true,
	MovementDamage:           true,
	MovementLost:             true,
	MovementStoreUse:         true,
}

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	_, ok := movementSigns[t]
	return ok
}

// Sign devuelve +1 o -1 según el tipo; 0 si el tipo es inválido.
func (t MovementType) Sign() int {
	return movementSigns[t]
}

// ManualCause indica si el tipo puede usarse en un ajuste manual.
func (t MovementType) ManualCause() bool {
	return manualCauses[t]
}

// Movement es una entrada del libro de inventario: registra el delta con signo
// y la foto de stock antes/después. Append-only: nunca se actualiza ni borra.
// Invariante: NewStock = PreviousStock + Quantity.
type Movement struct {
	ID            string
	StoreID       string
	ProductID     string
	Type          MovementType
	Quantity      int // delta con signo: positivo suma stock, negativo resta
	PreviousStock int
	NewStock      int
	Reason        string
	Description   string
	ReferenceID   string // orden de venta o de compra que originó el movimiento
	Cost          *decimal.Decimal
	Price         *decimal.Decimal
	CreatedBy     string // tag de Actor
	CreatedAt     time.Time
}

// Actor devuelve el actor que originó el movimiento.
func (m *Movement) Actor() Actor {
	return ParseActor(m.CreatedBy)
}
