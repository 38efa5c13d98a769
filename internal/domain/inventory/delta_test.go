package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/inventory"
)

func line(resource, unit string, qty int64) entity.DocumentLine {
	return entity.DocumentLine{ResourceID: resource, UnitID: unit, Quantity: decimal.NewFromInt(qty)}
}

func key(resource, unit string) entity.BalanceKey {
	return entity.BalanceKey{ResourceID: resource, UnitID: unit}
}

// asStrings representación estable para comparar ajustes (1 == 1.0).
func asStrings(ds []inventory.Delta) map[string]string {
	out := make(map[string]string, len(ds))
	for _, d := range ds {
		out[d.Key.String()] = d.Amount.String()
	}
	return out
}

func TestFromLines_ColapsaLineasRepetidas(t *testing.T) {
	d := inventory.FromLines([]entity.DocumentLine{
		line("x", "kg", 10),
		line("x", "kg", 5),
		line("y", "kg", 1),
	})

	require.Len(t, d, 2)
	assert.True(t, d[key("x", "kg")].Equal(decimal.NewFromInt(15)))
	assert.True(t, d[key("y", "kg")].Equal(decimal.NewFromInt(1)))
}

func TestDiff_NetoPorClave(t *testing.T) {
	before := []entity.DocumentLine{line("x", "u", 100), line("y", "u", 20)}
	after := []entity.DocumentLine{line("x", "u", 30), line("z", "u", 5)}

	d := inventory.Diff(before, after)

	assert.True(t, d[key("x", "u")].Equal(decimal.NewFromInt(-70)))
	assert.True(t, d[key("y", "u")].Equal(decimal.NewFromInt(-20)))
	assert.True(t, d[key("z", "u")].Equal(decimal.NewFromInt(5)))
}

// El neto debe coincidir exactamente con revertir before y aplicar after.
func TestDiff_EquivaleARevertirYReaplicar(t *testing.T) {
	before := []entity.DocumentLine{line("a", "u", 7), line("b", "u", 3), line("a", "u", 1)}
	after := []entity.DocumentLine{line("b", "u", 9), line("a", "u", 8)}

	net := inventory.Diff(before, after)
	twoPass := inventory.Decrease(before).Merge(inventory.Increase(after))

	assert.Equal(t, asStrings(twoPass.Sorted()), asStrings(net.Sorted()))
	assert.False(t, net.IsEmpty())
	assert.Equal(t, map[string]string{"b/u": "6"}, asStrings(net.Sorted()),
		"a queda en 8 antes y después: sin ajuste")
}

func TestSorted_FiltraCerosYOrdena(t *testing.T) {
	d := inventory.Deltas{
		key("b", "u"):  decimal.NewFromInt(1),
		key("a", "z"):  decimal.NewFromInt(-2),
		key("a", "b"):  decimal.Zero,
		key("a", "kg"): decimal.NewFromInt(3),
	}

	sorted := d.Sorted()

	require.Len(t, sorted, 3)
	assert.Equal(t, key("a", "kg"), sorted[0].Key)
	assert.Equal(t, key("a", "z"), sorted[1].Key)
	assert.Equal(t, key("b", "u"), sorted[2].Key)
}

func TestDeltas_VacioSiTodoEsCero(t *testing.T) {
	same := []entity.DocumentLine{line("x", "u", 4)}
	assert.True(t, inventory.Diff(same, same).IsEmpty())
	assert.Empty(t, inventory.Diff(same, same).Sorted())
	assert.True(t, inventory.FromLines(nil).IsEmpty())
}

func TestDelta_Required(t *testing.T) {
	dec := inventory.Delta{Key: key("x", "u"), Amount: decimal.NewFromInt(-40)}
	inc := inventory.Delta{Key: key("x", "u"), Amount: decimal.NewFromInt(40)}

	assert.True(t, dec.Required().Equal(decimal.NewFromInt(40)))
	assert.True(t, inc.Required().IsZero())
}

func TestDecrease_NegacionDeIncrease(t *testing.T) {
	lines := []entity.DocumentLine{line("x", "u", 40)}
	assert.Equal(t, asStrings(inventory.Increase(lines).Negate().Sorted()), asStrings(inventory.Decrease(lines).Sorted()))
}
