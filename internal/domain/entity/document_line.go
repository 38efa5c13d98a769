package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// Precisión de las columnas NUMERIC(18,4): 14 dígitos enteros y 4 decimales.
const QuantityScale = 4

var maxQuantity = decimal.New(1, 14)

// DocumentLine línea de un documento (recepción o despacho).
// Pertenece exclusivamente a su documento; en una actualización se reemplaza el conjunto completo.
type DocumentLine struct {
	ID         string
	DocumentID string
	ResourceID string
	UnitID     string
	Quantity   decimal.Decimal // siempre > 0
}

// Key clave de saldo afectada por la línea.
func (l DocumentLine) Key() BalanceKey {
	return BalanceKey{ResourceID: l.ResourceID, UnitID: l.UnitID}
}

// Validate exige recurso, unidad y cantidad estrictamente positiva que quepa en NUMERIC(18,4)
// sin redondeo; una cantidad redondeada al guardarse descuadraría saldo y líneas.
func (l DocumentLine) Validate() error {
	if strings.TrimSpace(l.ResourceID) == "" || strings.TrimSpace(l.UnitID) == "" {
		return fmt.Errorf("%w: línea sin recurso o unidad", domain.ErrInvalidInput)
	}
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad de la línea %s debe ser mayor que cero", domain.ErrInvalidInput, l.Key())
	}
	if !l.Quantity.Equal(l.Quantity.Truncate(QuantityScale)) {
		return fmt.Errorf("%w: la cantidad de la línea %s admite hasta %d decimales", domain.ErrInvalidInput, l.Key(), QuantityScale)
	}
	if l.Quantity.GreaterThanOrEqual(maxQuantity) {
		return fmt.Errorf("%w: la cantidad de la línea %s excede el máximo permitido", domain.ErrInvalidInput, l.Key())
	}
	return nil
}

// CloneLines copia el conjunto de líneas.
func CloneLines(lines []DocumentLine) []DocumentLine {
	if lines == nil {
		return nil
	}
	out := make([]DocumentLine, len(lines))
	copy(out, lines)
	return out
}
