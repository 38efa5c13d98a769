package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// BalanceKey identidad lógica de un saldo: par (recurso, unidad).
type BalanceKey struct {
	ResourceID string
	UnitID     string
}

// Less orden total por (ResourceID, UnitID). Es el orden de adquisición de bloqueos.
func (k BalanceKey) Less(o BalanceKey) bool {
	if k.ResourceID != o.ResourceID {
		return k.ResourceID < o.ResourceID
	}
	return k.UnitID < o.UnitID
}

func (k BalanceKey) String() string {
	return k.ResourceID + "/" + k.UnitID
}

// Balance saldo materializado de un recurso en una unidad de medida.
// Se crea con cantidad cero en el primer ajuste y nunca se elimina.
type Balance struct {
	ResourceID string
	UnitID     string
	Quantity   Quantity
	UpdatedAt  time.Time
}

// NewBalance saldo vacío para la clave indicada.
func NewBalance(key BalanceKey) *Balance {
	return &Balance{ResourceID: key.ResourceID, UnitID: key.UnitID, Quantity: ZeroQuantity()}
}

// Key devuelve la identidad del saldo.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{ResourceID: b.ResourceID, UnitID: b.UnitID}
}

// Adjust aplica un ajuste con signo. Si el resultado fuese negativo el saldo no cambia.
func (b *Balance) Adjust(delta decimal.Decimal, now time.Time) error {
	next, err := b.Quantity.Add(delta)
	if err != nil {
		return &domain.InsufficientBalanceError{
			ResourceID: b.ResourceID,
			UnitID:     b.UnitID,
			Requested:  delta.Neg(),
			Available:  b.Quantity.Decimal(),
		}
	}
	b.Quantity = next
	b.UpdatedAt = now
	return nil
}

// Clone copia independiente (los decimales son inmutables).
func (b *Balance) Clone() *Balance {
	c := *b
	return &c
}

func (b *Balance) String() string {
	return fmt.Sprintf("%s=%s", b.Key(), b.Quantity)
}
