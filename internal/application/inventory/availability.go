package inventory

import (
	"fmt"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	domaininv "github.com/vjmurenko/Warehouse-sub001/internal/domain/inventory"
)

// AvailabilityValidator verifica que los descuentos estén cubiertos por el saldo actual.
// Solo opera sobre saldos ya bloqueados por la transacción en curso: validar y aplicar
// comparten la misma adquisición de bloqueos, sin ventana entre verificación y escritura.
type AvailabilityValidator struct{}

// NewAvailabilityValidator construye el validador.
func NewAvailabilityValidator() *AvailabilityValidator {
	return &AvailabilityValidator{}
}

// Validate recorre los requerimientos en orden de clave y falla con el primero que no
// esté cubierto, indicando recurso, unidad, cantidad solicitada y disponible.
func (v *AvailabilityValidator) Validate(locked map[entity.BalanceKey]*entity.Balance, batch []domaininv.Delta) error {
	for _, d := range batch {
		required := d.Required()
		if !required.IsPositive() {
			continue
		}
		balance, ok := locked[d.Key]
		if !ok {
			return fmt.Errorf("saldo %s no bloqueado antes de validar", d.Key)
		}
		if !balance.Quantity.Covers(required) {
			return &domain.InsufficientBalanceError{
				ResourceID: d.Key.ResourceID,
				UnitID:     d.Key.UnitID,
				Requested:  required,
				Available:  balance.Quantity.Decimal(),
			}
		}
	}
	return nil
}
