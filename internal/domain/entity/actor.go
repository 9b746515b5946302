package entity

import "strings"

// SystemActor identifica procesos automáticos que mueven inventario.
type SystemActor string

const (
	SystemGeneric   SystemActor = "SYSTEM"                  // procesos internos (reconciliación, hooks)
	SystemPayU      SystemActor = "SYSTEM_PAYU"             // confirmación/cancelación de pagos PayU
	SystemMigration SystemActor = "SYSTEM_MIGRATION_SCRIPT" // carga inicial desde el sistema anterior
)

// Actor identifica quién originó un movimiento de inventario: un usuario de la
// tienda o un proceso del sistema. Variante etiquetada en lugar de un string con
// prefijos, para que la resolución de nombres no dependa de parsear el tag.
type Actor struct {
	UserID string      // vacío si es un actor de sistema
	System SystemActor // vacío si es un usuario
}

// UserActor construye el actor para un usuario autenticado.
func UserActor(userID string) Actor {
	return Actor{UserID: userID}
}

// NewSystemActor construye el actor para un proceso automático.
func NewSystemActor(kind SystemActor) Actor {
	return Actor{System: kind}
}

// IsSystem indica si el actor es un proceso automático.
func (a Actor) IsSystem() bool {
	return a.System != ""
}

// Valid indica si el actor tiene exactamente una identidad.
func (a Actor) Valid() bool {
	return (a.UserID != "") != (a.System != "")
}

// Tag devuelve el valor que se persiste en la columna created_by.
func (a Actor) Tag() string {
	if a.IsSystem() {
		return string(a.System)
	}
	return a.UserID
}

// ParseActor reconstruye el actor desde el tag persistido. Los tags de sistema
// son el conjunto cerrado de constantes SystemActor; todo lo demás es un UserID.
func ParseActor(tag string) Actor {
	switch SystemActor(tag) {
	case SystemGeneric, SystemPayU, SystemMigration:
		return Actor{System: SystemActor(tag)}
	}
	// Tags legados con prefijo SYSTEM_ de scripts puntuales
	if strings.HasPrefix(tag, "SYSTEM") {
		return Actor{System: SystemActor(tag)}
	}
	return Actor{UserID: tag}
}
