package entity

import (
	"fmt"
	"time"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// ReferenceKind tipo de dato maestro.
type ReferenceKind string

const (
	ReferenceResource ReferenceKind = "resource"
	ReferenceUnit     ReferenceKind = "unit"
	ReferenceClient   ReferenceKind = "client"
)

// Valid indica si el tipo es conocido.
func (k ReferenceKind) Valid() bool {
	switch k {
	case ReferenceResource, ReferenceUnit, ReferenceClient:
		return true
	}
	return false
}

// Estados de un dato maestro.
const (
	ReferenceStateActive   = "ACTIVE"
	ReferenceStateArchived = "ARCHIVED"
)

// Reference dato maestro: recurso, unidad de medida o cliente.
// Address solo aplica a clientes.
type Reference struct {
	ID        string
	Kind      ReferenceKind
	Name      string
	Address   string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive un dato archivado no puede usarse en líneas nuevas.
func (r *Reference) IsActive() bool {
	return r.State == ReferenceStateActive
}

// Archive marca el dato como archivado.
func (r *Reference) Archive(now time.Time) error {
	if !r.IsActive() {
		return fmt.Errorf("%w: %s %s ya está archivado", domain.ErrInvalidDocumentState, r.Kind, r.Name)
	}
	r.State = ReferenceStateArchived
	r.UpdatedAt = now
	return nil
}

// Restore vuelve a activar un dato archivado.
func (r *Reference) Restore(now time.Time) error {
	if r.IsActive() {
		return fmt.Errorf("%w: %s %s ya está activo", domain.ErrInvalidDocumentState, r.Kind, r.Name)
	}
	r.State = ReferenceStateActive
	r.UpdatedAt = now
	return nil
}
