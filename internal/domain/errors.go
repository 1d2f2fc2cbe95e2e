package domain

import "errors"

// Errores de dominio (sin dependencias externas). Ninguno se traga en
// silencio: los handlers HTTP los traducen a códigos de estado y los
// callers deciden si reintentan (solo ErrConcurrencyConflict es
// reintentable, con reintentos acotados).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrValidation          = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidState        = errors.New("estado inválido para la operación")
	ErrOverReturn          = errors.New("la devolución excede lo entregado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar con estado fresco")
)
