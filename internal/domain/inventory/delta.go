package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
)

// Delta ajuste con signo sobre un saldo (servicio de dominio, no se persiste).
type Delta struct {
	Key    entity.BalanceKey
	Amount decimal.Decimal
}

// Required cantidad que debe estar disponible para aplicar el ajuste (0 si es un aumento).
func (d Delta) Required() decimal.Decimal {
	if d.Amount.IsNegative() {
		return d.Amount.Neg()
	}
	return decimal.Zero
}

// Deltas un único neto por (recurso, unidad). Las líneas repetidas de un documento
// se colapsan en una sola entrada.
type Deltas map[entity.BalanceKey]decimal.Decimal

// FromLines suma las cantidades de las líneas agrupadas por (recurso, unidad).
func FromLines(lines []entity.DocumentLine) Deltas {
	d := make(Deltas, len(lines))
	for _, l := range lines {
		k := l.Key()
		d[k] = d[k].Add(l.Quantity)
	}
	return d
}

// Increase efecto de documento que suma stock (recepción creada, despacho revocado).
func Increase(lines []entity.DocumentLine) Deltas {
	return FromLines(lines)
}

// Decrease efecto de documento que descuenta stock (despacho firmado, recepción eliminada).
func Decrease(lines []entity.DocumentLine) Deltas {
	return FromLines(lines).Negate()
}

// Diff neto por clave entre dos versiones de un documento: sum(after) - sum(before).
// Equivale a revertir before y aplicar after, pero en un solo paso por clave.
func Diff(before, after []entity.DocumentLine) Deltas {
	d := FromLines(after)
	for k, q := range FromLines(before) {
		d[k] = d[k].Sub(q)
	}
	return d
}

// Negate invierte el signo de cada ajuste.
func (d Deltas) Negate() Deltas {
	out := make(Deltas, len(d))
	for k, q := range d {
		out[k] = q.Neg()
	}
	return out
}

// Merge suma otro conjunto de ajustes.
func (d Deltas) Merge(o Deltas) Deltas {
	out := make(Deltas, len(d)+len(o))
	for k, q := range d {
		out[k] = q
	}
	for k, q := range o {
		out[k] = out[k].Add(q)
	}
	return out
}

// Sorted ajustes distintos de cero ordenados por clave: el orden determinista en que
// se adquieren los bloqueos.
func (d Deltas) Sorted() []Delta {
	out := make([]Delta, 0, len(d))
	for k, q := range d {
		if q.IsZero() {
			continue
		}
		out = append(out, Delta{Key: k, Amount: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// IsEmpty sin ajustes efectivos.
func (d Deltas) IsEmpty() bool {
	for _, q := range d {
		if !q.IsZero() {
			return false
		}
	}
	return true
}
