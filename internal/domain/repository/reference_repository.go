package repository

import (
	"context"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
)

// ReferenceRepository puerto de persistencia para datos maestros (recursos, unidades, clientes).
type ReferenceRepository interface {
	Create(ctx context.Context, ref *entity.Reference) error
	GetByID(ctx context.Context, kind entity.ReferenceKind, id string) (*entity.Reference, error)
	GetByIDs(ctx context.Context, kind entity.ReferenceKind, ids []string) ([]*entity.Reference, error)
	ExistsName(ctx context.Context, kind entity.ReferenceKind, name, excludeID string) (bool, error)
	Update(ctx context.Context, ref *entity.Reference) error
	List(ctx context.Context, kind entity.ReferenceKind, state string, limit, offset int) ([]*entity.Reference, error)
}
