package memstore

import (
	"context"
	"sort"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// BalanceRepo saldos en memoria. Dentro de Run el bloqueo es implícito (transacciones serializadas).
type BalanceRepo struct {
	sc scope
}

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

func (r *BalanceRepo) LockForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.sc.store.lockCalls.Add(1)
	st, unlock := r.sc.write()
	defer unlock()
	b, ok := st.balances[key]
	if !ok {
		b = entity.NewBalance(key)
		st.balances[key] = b
	}
	return b.Clone(), nil
}

func (r *BalanceRepo) Save(_ context.Context, balance *entity.Balance) error {
	st, unlock := r.sc.write()
	defer unlock()
	st.balances[balance.Key()] = balance.Clone()
	return nil
}

func (r *BalanceRepo) List(_ context.Context, filter repository.BalanceFilter) ([]*entity.Balance, error) {
	st, unlock := r.sc.read()
	defer unlock()
	resources := toSet(filter.ResourceIDs)
	units := toSet(filter.UnitIDs)
	out := make([]*entity.Balance, 0, len(st.balances))
	for _, b := range st.balances {
		if len(resources) > 0 && !resources[b.ResourceID] {
			continue
		}
		if len(units) > 0 && !units[b.UnitID] {
			continue
		}
		if filter.NonZeroOnly && b.Quantity.IsZero() {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
