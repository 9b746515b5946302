package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidOrderState      = errors.New("la orden no permite esta acción en su estado actual")
	ErrIllegalTransition      = errors.New("transición de estado no permitida")
	ErrNoQuantities           = errors.New("no hay cantidades para recibir")
	ErrDuplicateProduct       = errors.New("producto repetido en la orden")
	ErrConcurrentModification = errors.New("conflicto de concurrencia, reintente la operación")
)
