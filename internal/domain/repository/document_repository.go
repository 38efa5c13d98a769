package repository

import (
	"context"
	"time"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
)

// DocumentFilter criterios de listado para recepciones y despachos.
type DocumentFilter struct {
	From        *time.Time
	To          *time.Time
	Numbers     []string
	ResourceIDs []string
	UnitIDs     []string
	ClientIDs   []string // solo despachos
	Limit       int
	Offset      int
}

// ReceiptRepository puerto de persistencia para documentos de recepción.
// Update y Delete verifican el token de versión: si no coincide devuelven domain.ErrConcurrencyConflict.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	ExistsNumber(ctx context.Context, number, excludeID string) (bool, error)
	Update(ctx context.Context, receipt *entity.Receipt, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Receipt, error)
}

// ShipmentRepository puerto de persistencia para documentos de despacho.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	ExistsNumber(ctx context.Context, number, excludeID string) (bool, error)
	Update(ctx context.Context, shipment *entity.Shipment, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Shipment, error)
}
