package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de signos por tipo de movimiento
//
// La tabla es el contrato del libro: si alguien cambia el signo de un tipo,
// todo el stock histórico queda mal interpretado. Estos tests la fijan.
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementType_SignosNegativos(t *testing.T) {
	negativos := []entity.MovementType{
		entity.MovementOrderPlaced,
		entity.MovementPurchase,
		entity.MovementDamage,
		entity.MovementLost,
		entity.MovementStoreUse,
	}
	for _, mt := range negativos {
		assert.Equal(t, -1, mt.Sign(), "%s debe restar stock", mt)
	}
}

func TestMovementType_SignosPositivos(t *testing.T) {
	positivos := []entity.MovementType{
		entity.MovementOrderCancelled,
		entity.MovementManualAdjustment,
		entity.MovementInitialIntake,
		entity.MovementReturn,
		entity.MovementRestockReceived,
		entity.MovementInitialMigration,
		entity.MovementPromotion,
	}
	for _, mt := range positivos {
		assert.Equal(t, +1, mt.Sign(), "%s debe sumar stock", mt)
	}
}

func TestMovementType_TipoDesconocido(t *testing.T) {
	mt := entity.MovementType("TELEPORT")
	assert.False(t, mt.Valid(), "un tipo fuera del enum no es válido")
	assert.Equal(t, 0, mt.Sign(), "un tipo inválido no tiene signo")
}

// ManualCause delimita qué tipos puede usar el panel: los del ciclo de venta y
// la recepción de órdenes los registran solo sus propios procesos.
func TestMovementType_CausasManuales(t *testing.T) {
	manuales := []entity.MovementType{
		entity.MovementManualAdjustment,
		entity.MovementInitialIntake,
		entity.MovementReturn,
		entity.MovementPromotion,
		entity.MovementDamage,
		entity.MovementLost,
		entity.MovementStoreUse,
	}
	for _, mt := range manuales {
		assert.True(t, mt.ManualCause(), "%s debe ser causa manual", mt)
	}

	reservados := []entity.MovementType{
		entity.MovementOrderPlaced,
		entity.MovementOrderCancelled,
		entity.MovementPurchase,
		entity.MovementRestockReceived,
		entity.MovementInitialMigration,
	}
	for _, mt := range reservados {
		assert.False(t, mt.ManualCause(), "%s no debe aceptarse como ajuste manual", mt)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Actor
// ──────────────────────────────────────────────────────────────────────────────

func TestActor_UsuarioYSistema(t *testing.T) {
	user := entity.UserActor("user-123")
	assert.True(t, user.Valid())
	assert.False(t, user.IsSystem())
	assert.Equal(t, "user-123", user.Tag())

	sys := entity.NewSystemActor(entity.SystemMigration)
	assert.True(t, sys.Valid())
	assert.True(t, sys.IsSystem())
	assert.Equal(t, "SYSTEM_MIGRATION_SCRIPT", sys.Tag())
}

func TestActor_VacioEsInvalido(t *testing.T) {
	assert.False(t, entity.Actor{}.Valid(), "un actor sin identidad no es válido")
	dos := entity.Actor{UserID: "u1", System: entity.SystemGeneric}
	assert.False(t, dos.Valid(), "un actor con dos identidades no es válido")
}

func TestParseActor_RoundTrip(t *testing.T) {
	casos := []entity.Actor{
		entity.UserActor("8c5e0f52-0000-0000-0000-000000000001"),
		entity.NewSystemActor(entity.SystemGeneric),
		entity.NewSystemActor(entity.SystemPayU),
		entity.NewSystemActor(entity.SystemMigration),
	}
	for _, a := range casos {
		assert.Equal(t, a, entity.ParseActor(a.Tag()), "Tag/ParseActor debe ser ida y vuelta para %q", a.Tag())
	}
}

// Tags legados de scripts puntuales con prefijo SYSTEM se tratan como sistema,
// no como UserID fantasma.
func TestParseActor_TagLegadoDeSistema(t *testing.T) {
	a := entity.ParseActor("SYSTEM_FIX_2019")
	assert.True(t, a.IsSystem())
	assert.Empty(t, a.UserID)
}
