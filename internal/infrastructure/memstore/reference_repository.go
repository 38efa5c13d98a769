package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// ReferenceRepo datos maestros en memoria.
type ReferenceRepo struct {
	store *Store
}

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

func (r *ReferenceRepo) Create(_ context.Context, ref *entity.Reference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byID := r.store.refs[ref.Kind]
	if byID == nil {
		byID = map[string]*entity.Reference{}
		r.store.refs[ref.Kind] = byID
	}
	for _, existing := range byID {
		if strings.EqualFold(existing.Name, ref.Name) {
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, ref.Kind, ref.Name)
		}
	}
	c := *ref
	byID[ref.ID] = &c
	return nil
}

func (r *ReferenceRepo) GetByID(_ context.Context, kind entity.ReferenceKind, id string) (*entity.Reference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ref, ok := r.store.refs[kind][id]
	if !ok {
		return nil, nil
	}
	c := *ref
	return &c, nil
}

func (r *ReferenceRepo) GetByIDs(_ context.Context, kind entity.ReferenceKind, ids []string) ([]*entity.Reference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Reference, 0, len(ids))
	for _, id := range ids {
		if ref, ok := r.store.refs[kind][id]; ok {
			c := *ref
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ReferenceRepo) ExistsName(_ context.Context, kind entity.ReferenceKind, name, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for id, ref := range r.store.refs[kind] {
		if id != excludeID && strings.EqualFold(ref.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReferenceRepo) Update(_ context.Context, ref *entity.Reference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.refs[ref.Kind][ref.ID]; !ok {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, ref.Kind, ref.ID)
	}
	c := *ref
	r.store.refs[ref.Kind][ref.ID] = &c
	return nil
}

func (r *ReferenceRepo) List(_ context.Context, kind entity.ReferenceKind, state string, limit, offset int) ([]*entity.Reference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Reference, 0, len(r.store.refs[kind]))
	for _, ref := range r.store.refs[kind] {
		if state != "" && ref.State != state {
			continue
		}
		c := *ref
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}
