package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de la orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestRestockOrderStatus_TransicionesLegales(t *testing.T) {
	casos := []struct {
		desde, hacia entity.RestockOrderStatus
		legal        bool
	}{
		{entity.RestockDraft, entity.RestockOrdered, true},
		{entity.RestockDraft, entity.RestockCancelled, true},
		{entity.RestockDraft, entity.RestockPartiallyReceived, false},
		{entity.RestockDraft, entity.RestockCompleted, false},

		{entity.RestockOrdered, entity.RestockPartiallyReceived, true},
		{entity.RestockOrdered, entity.RestockCompleted, true},
		{entity.RestockOrdered, entity.RestockCancelled, true},
		{entity.RestockOrdered, entity.RestockDraft, false},

		// nuevas recepciones parciales mantienen el mismo estado
		{entity.RestockPartiallyReceived, entity.RestockPartiallyReceived, true},
		{entity.RestockPartiallyReceived, entity.RestockCompleted, true},
		{entity.RestockPartiallyReceived, entity.RestockCancelled, true},
		{entity.RestockPartiallyReceived, entity.RestockOrdered, false},

		// terminales: nada sale de COMPLETED ni CANCELLED
		{entity.RestockCompleted, entity.RestockCancelled, false},
		{entity.RestockCompleted, entity.RestockOrdered, false},
		{entity.RestockCancelled, entity.RestockOrdered, false},
		{entity.RestockCancelled, entity.RestockDraft, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.legal, c.desde.CanTransitionTo(c.hacia),
			"transición %s -> %s", c.desde, c.hacia)
	}
}

func TestRestockOrderStatus_Terminal(t *testing.T) {
	assert.True(t, entity.RestockCompleted.Terminal())
	assert.True(t, entity.RestockCancelled.Terminal())
	assert.False(t, entity.RestockDraft.Terminal())
	assert.False(t, entity.RestockOrdered.Terminal())
	assert.False(t, entity.RestockPartiallyReceived.Terminal())
}

func TestRestockOrderStatus_CanReceive(t *testing.T) {
	assert.True(t, entity.RestockOrdered.CanReceive())
	assert.True(t, entity.RestockPartiallyReceived.CanReceive())
	assert.False(t, entity.RestockDraft.CanReceive(), "un borrador no recibe mercancía")
	assert.False(t, entity.RestockCompleted.CanReceive())
	assert.False(t, entity.RestockCancelled.CanReceive())
}

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus: el estado es función pura de las líneas
// ──────────────────────────────────────────────────────────────────────────────

func item(ordered, received int) *entity.RestockOrderItem {
	return &entity.RestockOrderItem{Quantity: ordered, QuantityReceived: received}
}

func TestDeriveStatus_SinRecepciones(t *testing.T) {
	items := []*entity.RestockOrderItem{item(10, 0), item(5, 0)}
	assert.Equal(t, entity.RestockOrdered, entity.DeriveStatus(items))
}

func TestDeriveStatus_RecepcionParcial(t *testing.T) {
	items := []*entity.RestockOrderItem{item(10, 4), item(5, 0)}
	assert.Equal(t, entity.RestockPartiallyReceived, entity.DeriveStatus(items))
}

func TestDeriveStatus_UnaLineaCompletaOtraNo(t *testing.T) {
	items := []*entity.RestockOrderItem{item(10, 10), item(5, 0)}
	assert.Equal(t, entity.RestockPartiallyReceived, entity.DeriveStatus(items),
		"con una línea pendiente la orden sigue parcial")
}

func TestDeriveStatus_TodasSatisfechas(t *testing.T) {
	items := []*entity.RestockOrderItem{item(10, 10), item(5, 5)}
	assert.Equal(t, entity.RestockCompleted, entity.DeriveStatus(items))
}

// La sobre-recepción cuenta como satisfecha: 12 de 10 completa la línea.
func TestDeriveStatus_SobreRecepcionCompleta(t *testing.T) {
	items := []*entity.RestockOrderItem{item(10, 12), item(5, 5)}
	assert.Equal(t, entity.RestockCompleted, entity.DeriveStatus(items))
}

func TestDeriveStatus_SinLineas(t *testing.T) {
	assert.Equal(t, entity.RestockOrdered, entity.DeriveStatus(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestRestockOrderItem_SatisfiedYOverReceived(t *testing.T) {
	parcial := item(10, 4)
	assert.False(t, parcial.Satisfied())
	assert.False(t, parcial.OverReceived())

	exacto := item(10, 10)
	assert.True(t, exacto.Satisfied())
	assert.False(t, exacto.OverReceived())

	exceso := item(10, 12)
	assert.True(t, exceso.Satisfied())
	assert.True(t, exceso.OverReceived())
}

func TestRestockOrder_Item(t *testing.T) {
	order := &entity.RestockOrder{
		Items: []*entity.RestockOrderItem{
			{ID: "item-1", ProductID: "p1"},
			{ID: "item-2", ProductID: "p2"},
		},
	}
	assert.Equal(t, "p2", order.Item("item-2").ProductID)
	assert.Nil(t, order.Item("item-otro"), "una línea ajena a la orden devuelve nil")
}

func TestRestockOrder_Editable(t *testing.T) {
	assert.True(t, (&entity.RestockOrder{Status: entity.RestockDraft}).Editable())
	assert.False(t, (&entity.RestockOrder{Status: entity.RestockOrdered}).Editable())
	assert.False(t, (&entity.RestockOrder{Status: entity.RestockCancelled}).Editable())
}
