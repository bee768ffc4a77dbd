package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas más allá de decimal).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvariantViolation = errors.New("violación de invariante de inventario")
	ErrInactiveWarehouse  = errors.New("bodega inactiva")
)

// DriftError indica que la proyección de inventario no coincide con el
// replay del ledger para una llave (producto, bodega). Se reporta con ambos
// valores; nunca se corrige en silencio porque podría ocultar un bug más profundo.
type DriftError struct {
	ProductID   string
	WarehouseID string
	Expected    decimal.Decimal // suma con signo del replay del ledger
	Actual      decimal.Decimal // cantidad viva en la proyección
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("drift de inventario producto=%s bodega=%s: ledger=%s proyeccion=%s",
		e.ProductID, e.WarehouseID, e.Expected.String(), e.Actual.String())
}
