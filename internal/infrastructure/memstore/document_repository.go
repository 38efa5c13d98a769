package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// ReceiptRepo recepciones en memoria.
type ReceiptRepo struct {
	sc scope
}

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

func (r *ReceiptRepo) Create(_ context.Context, receipt *entity.Receipt) error {
	st, unlock := r.sc.write()
	defer unlock()
	for _, existing := range st.receipts {
		if existing.Number == receipt.Number {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, receipt.Number)
		}
	}
	if receipt.Version == 0 {
		receipt.Version = 1
	}
	st.receipts[receipt.ID] = receipt.Clone()
	return nil
}

func (r *ReceiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	st, unlock := r.sc.read()
	defer unlock()
	rec, ok := st.receipts[id]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (r *ReceiptRepo) ExistsNumber(_ context.Context, number, excludeID string) (bool, error) {
	st, unlock := r.sc.read()
	defer unlock()
	for id, rec := range st.receipts {
		if id != excludeID && rec.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReceiptRepo) Update(_ context.Context, receipt *entity.Receipt, expectedVersion int64) error {
	st, unlock := r.sc.write()
	defer unlock()
	stored, ok := st.receipts[receipt.ID]
	if !ok || stored.Version != expectedVersion {
		return fmt.Errorf("%w: recepción %s", domain.ErrConcurrencyConflict, receipt.ID)
	}
	receipt.Version = expectedVersion + 1
	st.receipts[receipt.ID] = receipt.Clone()
	return nil
}

func (r *ReceiptRepo) Delete(_ context.Context, id string, expectedVersion int64) error {
	st, unlock := r.sc.write()
	defer unlock()
	stored, ok := st.receipts[id]
	if !ok || stored.Version != expectedVersion {
		return fmt.Errorf("%w: recepción %s", domain.ErrConcurrencyConflict, id)
	}
	delete(st.receipts, id)
	return nil
}

func (r *ReceiptRepo) List(_ context.Context, filter repository.DocumentFilter) ([]*entity.Receipt, error) {
	st, unlock := r.sc.read()
	defer unlock()
	out := make([]*entity.Receipt, 0, len(st.receipts))
	for _, rec := range st.receipts {
		if matchDocument(filter, rec.Number, "", rec.Date, rec.Lines) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return documentLess(out[i].Date, out[i].Number, out[j].Date, out[j].Number)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

// ShipmentRepo despachos en memoria.
type ShipmentRepo struct {
	sc scope
}

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

func (r *ShipmentRepo) Create(_ context.Context, shipment *entity.Shipment) error {
	st, unlock := r.sc.write()
	defer unlock()
	for _, existing := range st.shipments {
		if existing.Number == shipment.Number {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, shipment.Number)
		}
	}
	if shipment.Version == 0 {
		shipment.Version = 1
	}
	st.shipments[shipment.ID] = shipment.Clone()
	return nil
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	st, unlock := r.sc.read()
	defer unlock()
	sh, ok := st.shipments[id]
	if !ok {
		return nil, nil
	}
	return sh.Clone(), nil
}

func (r *ShipmentRepo) ExistsNumber(_ context.Context, number, excludeID string) (bool, error) {
	st, unlock := r.sc.read()
	defer unlock()
	for id, sh := range st.shipments {
		if id != excludeID && sh.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *ShipmentRepo) Update(_ context.Context, shipment *entity.Shipment, expectedVersion int64) error {
	st, unlock := r.sc.write()
	defer unlock()
	stored, ok := st.shipments[shipment.ID]
	if !ok || stored.Version != expectedVersion {
		return fmt.Errorf("%w: despacho %s", domain.ErrConcurrencyConflict, shipment.ID)
	}
	shipment.Version = expectedVersion + 1
	st.shipments[shipment.ID] = shipment.Clone()
	return nil
}

func (r *ShipmentRepo) Delete(_ context.Context, id string, expectedVersion int64) error {
	st, unlock := r.sc.write()
	defer unlock()
	stored, ok := st.shipments[id]
	if !ok || stored.Version != expectedVersion {
		return fmt.Errorf("%w: despacho %s", domain.ErrConcurrencyConflict, id)
	}
	delete(st.shipments, id)
	return nil
}

func (r *ShipmentRepo) List(_ context.Context, filter repository.DocumentFilter) ([]*entity.Shipment, error) {
	st, unlock := r.sc.read()
	defer unlock()
	out := make([]*entity.Shipment, 0, len(st.shipments))
	for _, sh := range st.shipments {
		if matchDocument(filter, sh.Number, sh.ClientID, sh.Date, sh.Lines) {
			out = append(out, sh.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return documentLess(out[i].Date, out[i].Number, out[j].Date, out[j].Number)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func matchDocument(f repository.DocumentFilter, number, clientID string, date time.Time, lines []entity.DocumentLine) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	if len(f.Numbers) > 0 && !toSet(f.Numbers)[number] {
		return false
	}
	if len(f.ClientIDs) > 0 && !toSet(f.ClientIDs)[clientID] {
		return false
	}
	if len(f.ResourceIDs) == 0 && len(f.UnitIDs) == 0 {
		return true
	}
	resources, units := toSet(f.ResourceIDs), toSet(f.UnitIDs)
	for _, l := range lines {
		if (resources == nil || resources[l.ResourceID]) && (units == nil || units[l.UnitID]) {
			return true
		}
	}
	return false
}

// documentLess fecha descendente, luego número.
func documentLess(di time.Time, ni string, dj time.Time, nj string) bool {
	if !di.Equal(dj) {
		return di.After(dj)
	}
	return ni < nj
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
