package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrVersionConflict    = errors.New("conflicto de versión: el registro fue modificado por otro usuario")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrInvalidMovement    = errors.New("movimiento inválido: dejaría el disponible fuera de rango")
	ErrAlreadyPosted      = errors.New("el documento ya fue contabilizado y no puede modificarse")
)
