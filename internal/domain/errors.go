package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSubmitInFlight    = errors.New("ya hay un envío en curso")
	ErrDraftLocked       = errors.New("el borrador está bloqueado durante el envío")
	ErrLineNotFound      = errors.New("renglón no encontrado en el borrador")
)
