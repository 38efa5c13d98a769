package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrInvalidDocumentState = errors.New("operación no permitida en el estado actual del documento")
	ErrConcurrencyConflict  = errors.New("conflicto de concurrencia, reintentar")
	ErrInsufficientBalance  = errors.New("saldo insuficiente")
)

// InsufficientBalanceError detalle de un saldo que quedaría negativo.
// errors.Is(err, ErrInsufficientBalance) es verdadero para este tipo.
type InsufficientBalanceError struct {
	ResourceID string
	UnitID     string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("saldo insuficiente para recurso %s, unidad %s: solicitado %s, disponible %s",
		e.ResourceID, e.UnitID, e.Requested.String(), e.Available.String())
}

// Is permite comparar contra el sentinel ErrInsufficientBalance.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// IsRetryable indica si la operación completa puede reintentarse desde cero.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
