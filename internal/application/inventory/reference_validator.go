package inventory

import (
	"context"
	"fmt"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// ReferenceValidator verifica que recursos, unidades y clientes existan y estén activos.
// Un dato archivado solo se acepta si el documento ya lo usaba.
// Si refs es nil no se valida nada (los datos maestros se gestionan fuera del motor).
type ReferenceValidator struct {
	refs repository.ReferenceRepository
}

// NewReferenceValidator construye el validador.
func NewReferenceValidator(refs repository.ReferenceRepository) *ReferenceValidator {
	return &ReferenceValidator{refs: refs}
}

// ValidateLines valida recursos y unidades de las líneas nuevas contra las previas del documento.
func (v *ReferenceValidator) ValidateLines(ctx context.Context, lines, previous []entity.DocumentLine) error {
	if v == nil || v.refs == nil {
		return nil
	}
	prevResources := make(map[string]bool, len(previous))
	prevUnits := make(map[string]bool, len(previous))
	for _, l := range previous {
		prevResources[l.ResourceID] = true
		prevUnits[l.UnitID] = true
	}

	resources := make([]string, 0, len(lines))
	units := make([]string, 0, len(lines))
	seenR, seenU := map[string]bool{}, map[string]bool{}
	for _, l := range lines {
		if !seenR[l.ResourceID] {
			seenR[l.ResourceID] = true
			resources = append(resources, l.ResourceID)
		}
		if !seenU[l.UnitID] {
			seenU[l.UnitID] = true
			units = append(units, l.UnitID)
		}
	}

	if err := v.check(ctx, entity.ReferenceResource, resources, prevResources); err != nil {
		return err
	}
	return v.check(ctx, entity.ReferenceUnit, units, prevUnits)
}

// ValidateClient valida el cliente de un despacho.
func (v *ReferenceValidator) ValidateClient(ctx context.Context, clientID, previousClientID string) error {
	if v == nil || v.refs == nil {
		return nil
	}
	return v.check(ctx, entity.ReferenceClient, []string{clientID}, map[string]bool{previousClientID: previousClientID != ""})
}

func (v *ReferenceValidator) check(ctx context.Context, kind entity.ReferenceKind, ids []string, alreadyUsed map[string]bool) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := v.refs.GetByIDs(ctx, kind, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*entity.Reference, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, id := range ids {
		ref, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
		}
		if !ref.IsActive() && !alreadyUsed[id] {
			return fmt.Errorf("%w: %s %s está archivado", domain.ErrInvalidInput, kind, ref.Name)
		}
	}
	return nil
}
