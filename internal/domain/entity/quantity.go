package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// Quantity cantidad no negativa (value object). El cero es un valor válido.
type Quantity struct {
	value decimal.Decimal
}

// ZeroQuantity cantidad cero, estado inicial de todo saldo.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// NewQuantity construye una cantidad; rechaza valores negativos.
func NewQuantity(d decimal.Decimal) (Quantity, error) {
	if d.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: cantidad negativa %s", domain.ErrInvalidInput, d.String())
	}
	return Quantity{value: d}, nil
}

// Decimal devuelve el valor subyacente.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

// IsZero indica si la cantidad es cero.
func (q Quantity) IsZero() bool { return q.value.IsZero() }

// Covers indica si la cantidad alcanza para cubrir required.
func (q Quantity) Covers(required decimal.Decimal) bool {
	return q.value.GreaterThanOrEqual(required)
}

// Add suma un ajuste con signo y exige que el resultado sea >= 0.
func (q Quantity) Add(delta decimal.Decimal) (Quantity, error) {
	return NewQuantity(q.value.Add(delta))
}

// Equal compara por valor decimal (1 == 1.00).
func (q Quantity) Equal(o Quantity) bool { return q.value.Equal(o.value) }

func (q Quantity) String() string { return q.value.String() }
