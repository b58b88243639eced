package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores específicos del agregado de pagos. Envuelven ErrNotFound para que la
// capa HTTP pueda discriminar con errors.Is sin conocer cada caso.
var (
	ErrSupplierNotFound = fmt.Errorf("proveedor no encontrado: %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrPaymentNotFound  = fmt.Errorf("pago no encontrado: %w", ErrNotFound)
)
