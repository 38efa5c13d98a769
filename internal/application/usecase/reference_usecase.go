package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ReferenceUseCase casos de uso CRUD para recursos, unidades y clientes.
// Los datos maestros no se eliminan: se archivan.
type ReferenceUseCase struct {
	repo repository.ReferenceRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewReferenceUseCase construye el caso de uso.
func NewReferenceUseCase(repo repository.ReferenceRepository, log *logger.Logger) *ReferenceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReferenceUseCase{repo: repo, log: log.Component("references"), now: time.Now}
}

// Create crea un dato maestro activo con nombre único dentro de su tipo.
func (uc *ReferenceUseCase) Create(ctx context.Context, kind entity.ReferenceKind, in dto.CreateReferenceRequest) (*dto.ReferenceResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureUniqueName(ctx, kind, name, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	ref := &entity.Reference{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		State:     entity.ReferenceStateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if kind == entity.ReferenceClient {
		ref.Address = strings.TrimSpace(in.Address)
	}
	if err := uc.repo.Create(ctx, ref); err != nil {
		return nil, err
	}
	uc.log.Info().Str("kind", string(kind)).Str("id", ref.ID).Str("name", ref.Name).Msg("dato maestro creado")
	return toReferenceResponse(ref), nil
}

// GetByID obtiene un dato maestro.
func (uc *ReferenceUseCase) GetByID(ctx context.Context, kind entity.ReferenceKind, id string) (*dto.ReferenceResponse, error) {
	ref, err := uc.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return toReferenceResponse(ref), nil
}

// Update renombra (y en clientes cambia la dirección).
func (uc *ReferenceUseCase) Update(ctx context.Context, kind entity.ReferenceKind, id string, in dto.UpdateReferenceRequest) (*dto.ReferenceResponse, error) {
	ref, err := uc.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		if !strings.EqualFold(name, ref.Name) {
			if err := uc.ensureUniqueName(ctx, kind, name, ref.ID); err != nil {
				return nil, err
			}
		}
		ref.Name = name
	}
	if in.Address != nil && kind == entity.ReferenceClient {
		ref.Address = strings.TrimSpace(*in.Address)
	}
	ref.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, ref); err != nil {
		return nil, err
	}
	return toReferenceResponse(ref), nil
}

// Archive impide usar el dato en líneas o despachos nuevos; los documentos existentes lo conservan.
func (uc *ReferenceUseCase) Archive(ctx context.Context, kind entity.ReferenceKind, id string) (*dto.ReferenceResponse, error) {
	return uc.changeState(ctx, kind, id, (*entity.Reference).Archive)
}

// Restore reactiva un dato archivado.
func (uc *ReferenceUseCase) Restore(ctx context.Context, kind entity.ReferenceKind, id string) (*dto.ReferenceResponse, error) {
	return uc.changeState(ctx, kind, id, (*entity.Reference).Restore)
}

func (uc *ReferenceUseCase) changeState(ctx context.Context, kind entity.ReferenceKind, id string, transition func(*entity.Reference, time.Time) error) (*dto.ReferenceResponse, error) {
	ref, err := uc.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := transition(ref, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, ref); err != nil {
		return nil, err
	}
	uc.log.Info().Str("kind", string(kind)).Str("id", ref.ID).Str("state", ref.State).Msg("estado de dato maestro cambiado")
	return toReferenceResponse(ref), nil
}

// List lista datos maestros por tipo; state vacío devuelve todos.
func (uc *ReferenceUseCase) List(ctx context.Context, kind entity.ReferenceKind, state string, page dto.PageRequest) (*dto.ReferenceListResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != "" && state != entity.ReferenceStateActive && state != entity.ReferenceStateArchived {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, state)
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, kind, state, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReferenceResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReferenceResponse(r))
	}
	return &dto.ReferenceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *ReferenceUseCase) load(ctx context.Context, kind entity.ReferenceKind, id string) (*entity.Reference, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	ref, err := uc.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
	}
	return ref, nil
}

func (uc *ReferenceUseCase) ensureUniqueName(ctx context.Context, kind entity.ReferenceKind, name, excludeID string) error {
	exists, err := uc.repo.ExistsName(ctx, kind, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: ya existe %s con nombre %s", domain.ErrDuplicate, kind, name)
	}
	return nil
}

func toReferenceResponse(r *entity.Reference) *dto.ReferenceResponse {
	return &dto.ReferenceResponse{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Name:      r.Name,
		Address:   r.Address,
		State:     r.State,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
