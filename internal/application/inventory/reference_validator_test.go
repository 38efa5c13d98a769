package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/memstore"
)

func seedRef(t *testing.T, repo *memstore.ReferenceRepo, kind entity.ReferenceKind, id, state string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.Reference{
		ID: id, Kind: kind, Name: id, State: state, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
}

func TestReferenceValidator_ArchivadosSoloSiYaSeUsaban(t *testing.T) {
	ctx := context.Background()
	refs := memstore.New().References()
	seedRef(t, refs, entity.ReferenceResource, resX, entity.ReferenceStateActive)
	seedRef(t, refs, entity.ReferenceResource, resZ, entity.ReferenceStateArchived)
	seedRef(t, refs, entity.ReferenceUnit, unitY, entity.ReferenceStateActive)
	v := inventory.NewReferenceValidator(refs)

	active := []entity.DocumentLine{{ResourceID: resX, UnitID: unitY}}
	archived := []entity.DocumentLine{{ResourceID: resZ, UnitID: unitY}}

	assert.NoError(t, v.ValidateLines(ctx, active, nil))
	assert.ErrorIs(t, v.ValidateLines(ctx, archived, nil), domain.ErrInvalidInput)
	assert.NoError(t, v.ValidateLines(ctx, archived, archived), "el documento ya usaba el recurso archivado")

	missing := []entity.DocumentLine{{ResourceID: "nope", UnitID: unitY}}
	assert.ErrorIs(t, v.ValidateLines(ctx, missing, nil), domain.ErrNotFound)
	assert.ErrorIs(t, v.ValidateLines(ctx, []entity.DocumentLine{{ResourceID: resX, UnitID: "kg"}}, nil), domain.ErrNotFound)
}

func TestReferenceValidator_Cliente(t *testing.T) {
	ctx := context.Background()
	refs := memstore.New().References()
	seedRef(t, refs, entity.ReferenceClient, "c1", entity.ReferenceStateActive)
	seedRef(t, refs, entity.ReferenceClient, "c2", entity.ReferenceStateArchived)
	v := inventory.NewReferenceValidator(refs)

	assert.NoError(t, v.ValidateClient(ctx, "c1", ""))
	assert.ErrorIs(t, v.ValidateClient(ctx, "c2", ""), domain.ErrInvalidInput)
	assert.NoError(t, v.ValidateClient(ctx, "c2", "c2"))
	assert.ErrorIs(t, v.ValidateClient(ctx, "c3", ""), domain.ErrNotFound)
}

func TestShipment_ClienteArchivadoRechazado(t *testing.T) {
	store := memstore.New()
	seedRef(t, store.References(), entity.ReferenceClient, "c-old", entity.ReferenceStateArchived)
	seedRef(t, store.References(), entity.ReferenceResource, resX, entity.ReferenceStateActive)
	seedRef(t, store.References(), entity.ReferenceUnit, unitY, entity.ReferenceStateActive)
	h := newHarnessWithRefs(t, inventory.NewReferenceValidator(store.References()))

	_, err := h.shipments.Create(context.Background(), dto.CreateShipmentRequest{
		Number: "S1", ClientID: "c-old", Date: date, Lines: lines(line(resX, unitY, "1")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
