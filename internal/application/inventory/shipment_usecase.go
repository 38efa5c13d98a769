package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	domaininv "github.com/vjmurenko/Warehouse-sub001/internal/domain/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ShipmentUseCase ciclo de vida de despachos. Solo la firma descuenta saldo y solo la revocación
// lo devuelve; el borrador no tiene efecto.
type ShipmentUseCase struct {
	txRunner  TxRunner
	shipments repository.ShipmentRepository
	balances  *BalanceService
	refs      *ReferenceValidator
	notifier  Notifier
	metrics   Metrics
	retry     *retrier
	log       *logger.Logger
	now       func() time.Time
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(
	txRunner TxRunner,
	shipments repository.ShipmentRepository,
	balances *BalanceService,
	refs *ReferenceValidator,
	opts Options,
) *ShipmentUseCase {
	opts = opts.withDefaults()
	log := opts.Logger.Component("shipments")
	return &ShipmentUseCase{
		txRunner:  txRunner,
		shipments: shipments,
		balances:  balances,
		refs:      refs,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		retry:     newRetrier(opts.Retry, opts.Metrics, log),
		log:       log,
		now:       time.Now,
	}
}

type shipmentContent struct {
	number   string
	clientID string
	date     time.Time
	lines    []entity.DocumentLine
}

func parseShipmentContent(number, clientID, date string, in []dto.DocumentLineRequest) (shipmentContent, error) {
	var c shipmentContent
	var err error
	if c.number, err = requireNumber(number); err != nil {
		return c, err
	}
	c.clientID = strings.TrimSpace(clientID)
	if c.clientID == "" {
		return c, fmt.Errorf("%w: el cliente es obligatorio", domain.ErrInvalidInput)
	}
	if c.date, err = parseDate("date", date); err != nil {
		return c, err
	}
	if c.lines, err = toLines(in); err != nil {
		return c, err
	}
	return c, nil
}

// Create registra el despacho como borrador. Con Sign=true lo firma en la misma transacción.
func (uc *ShipmentUseCase) Create(ctx context.Context, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	content, err := parseShipmentContent(in.Number, in.ClientID, in.Date, in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.refs.ValidateClient(ctx, content.clientID, ""); err != nil {
		return nil, err
	}
	if err := uc.refs.ValidateLines(ctx, content.lines, nil); err != nil {
		return nil, err
	}

	var created *entity.Shipment
	err = uc.retry.do(ctx, "shipment.create", func() error {
		now := uc.now()
		shipment := &entity.Shipment{
			ID:        uuid.New().String(),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := shipment.ReplaceContent(content.number, content.clientID, content.date, content.lines); err != nil {
			return err
		}
		if in.Sign {
			if err := shipment.Sign(now); err != nil {
				return err
			}
		}

		err := uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			_ repository.ReceiptRepository,
			shipmentRepo repository.ShipmentRepository,
		) error {
			if err := ensureUniqueNumber(ctx, shipmentRepo.ExistsNumber, content.number, ""); err != nil {
				return err
			}
			if err := shipmentRepo.Create(ctx, shipment); err != nil {
				return err
			}
			if !shipment.Signed {
				return nil
			}
			return uc.balances.Apply(ctx, balanceRepo, domaininv.Decrease(shipment.Lines))
		})
		if err != nil {
			return err
		}
		created = shipment
		return nil
	})
	if err != nil {
		return nil, uc.rejected(err)
	}

	uc.log.Info().Str("shipment_id", created.ID).Str("number", created.Number).Bool("signed", created.Signed).Msg("despacho creado")
	uc.publish(ctx, EventCreated, created)
	if created.Signed {
		uc.publish(ctx, EventSigned, created)
	}
	return toShipmentResponse(created), nil
}

// Update reemplaza el contenido de un despacho no firmado. Con Sign=true lo firma a continuación.
func (uc *ShipmentUseCase) Update(ctx context.Context, id string, in dto.UpdateShipmentRequest) (*dto.ShipmentResponse, error) {
	content, err := parseShipmentContent(in.Number, in.ClientID, in.Date, in.Lines)
	if err != nil {
		return nil, err
	}

	var updated *entity.Shipment
	err = uc.retry.do(ctx, "shipment.update", func() error {
		current, err := uc.load(ctx, uc.shipments, id)
		if err != nil {
			return err
		}
		if err := uc.refs.ValidateClient(ctx, content.clientID, current.ClientID); err != nil {
			return err
		}
		if err := uc.refs.ValidateLines(ctx, content.lines, current.Lines); err != nil {
			return err
		}

		return uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			_ repository.ReceiptRepository,
			shipmentRepo repository.ShipmentRepository,
		) error {
			shipment, err := uc.load(ctx, shipmentRepo, id)
			if err != nil {
				return err
			}
			version, err := expectedVersion(in.Version, shipment.Version)
			if err != nil {
				return err
			}
			if content.number != shipment.Number {
				if err := ensureUniqueNumber(ctx, shipmentRepo.ExistsNumber, content.number, shipment.ID); err != nil {
					return err
				}
			}
			now := uc.now()
			if err := shipment.ReplaceContent(content.number, content.clientID, content.date, content.lines); err != nil {
				return err
			}
			shipment.UpdatedAt = now
			if in.Sign {
				if err := shipment.Sign(now); err != nil {
					return err
				}
			}
			if err := shipmentRepo.Update(ctx, shipment, version); err != nil {
				return err
			}
			shipment.Version = version + 1
			if shipment.Signed {
				if err := uc.balances.Apply(ctx, balanceRepo, domaininv.Decrease(shipment.Lines)); err != nil {
					return err
				}
			}
			updated = shipment
			return nil
		})
	})
	if err != nil {
		return nil, uc.rejected(err)
	}

	uc.log.Info().Str("shipment_id", updated.ID).Int64("version", updated.Version).Bool("signed", updated.Signed).Msg("despacho actualizado")
	uc.publish(ctx, EventUpdated, updated)
	if updated.Signed {
		uc.publish(ctx, EventSigned, updated)
	}
	return toShipmentResponse(updated), nil
}

// Sign Draft -> Signed: valida disponibilidad y descuenta las líneas, atómico con el cambio de estado.
func (uc *ShipmentUseCase) Sign(ctx context.Context, id string, in dto.ShipmentTransitionRequest) (*dto.ShipmentResponse, error) {
	shipment, err := uc.transition(ctx, "shipment.sign", id, in.Version, func(s *entity.Shipment, now time.Time) (domaininv.Deltas, error) {
		if err := s.Sign(now); err != nil {
			return nil, err
		}
		return domaininv.Decrease(s.Lines), nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipment_id", shipment.ID).Str("number", shipment.Number).Msg("despacho firmado")
	uc.publish(ctx, EventSigned, shipment)
	return toShipmentResponse(shipment), nil
}

// Revoke Signed -> Draft: devuelve las líneas al saldo y conserva la marca de revocado.
func (uc *ShipmentUseCase) Revoke(ctx context.Context, id string, in dto.ShipmentTransitionRequest) (*dto.ShipmentResponse, error) {
	shipment, err := uc.transition(ctx, "shipment.revoke", id, in.Version, func(s *entity.Shipment, now time.Time) (domaininv.Deltas, error) {
		if err := s.Revoke(now); err != nil {
			return nil, err
		}
		return domaininv.Increase(s.Lines), nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipment_id", shipment.ID).Str("number", shipment.Number).Msg("despacho revocado")
	uc.publish(ctx, EventRevoked, shipment)
	return toShipmentResponse(shipment), nil
}

func (uc *ShipmentUseCase) transition(
	ctx context.Context,
	operation, id string,
	requestedVersion int64,
	apply func(s *entity.Shipment, now time.Time) (domaininv.Deltas, error),
) (*entity.Shipment, error) {
	var result *entity.Shipment
	err := uc.retry.do(ctx, operation, func() error {
		return uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			_ repository.ReceiptRepository,
			shipmentRepo repository.ShipmentRepository,
		) error {
			shipment, err := uc.load(ctx, shipmentRepo, id)
			if err != nil {
				return err
			}
			version, err := expectedVersion(requestedVersion, shipment.Version)
			if err != nil {
				return err
			}
			deltas, err := apply(shipment, uc.now())
			if err != nil {
				return err
			}
			if err := shipmentRepo.Update(ctx, shipment, version); err != nil {
				return err
			}
			shipment.Version = version + 1
			if err := uc.balances.Apply(ctx, balanceRepo, deltas); err != nil {
				return err
			}
			result = shipment
			return nil
		})
	})
	if err != nil {
		return nil, uc.rejected(err)
	}
	return result, nil
}

// Delete elimina un despacho no firmado (sin efecto en saldos).
func (uc *ShipmentUseCase) Delete(ctx context.Context, id string) error {
	var deleted *entity.Shipment
	err := uc.retry.do(ctx, "shipment.delete", func() error {
		return uc.txRunner.Run(ctx, func(
			_ repository.BalanceRepository,
			_ repository.ReceiptRepository,
			shipmentRepo repository.ShipmentRepository,
		) error {
			shipment, err := uc.load(ctx, shipmentRepo, id)
			if err != nil {
				return err
			}
			if err := shipment.CanDelete(); err != nil {
				return err
			}
			if err := shipmentRepo.Delete(ctx, shipment.ID, shipment.Version); err != nil {
				return err
			}
			deleted = shipment
			return nil
		})
	})
	if err != nil {
		return uc.rejected(err)
	}

	uc.log.Info().Str("shipment_id", deleted.ID).Str("number", deleted.Number).Msg("despacho eliminado")
	uc.publish(ctx, EventDeleted, deleted)
	return nil
}

// GetByID obtiene un despacho con sus líneas.
func (uc *ShipmentUseCase) GetByID(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.load(ctx, uc.shipments, id)
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(shipment), nil
}

// List lista despachos según los filtros.
func (uc *ShipmentUseCase) List(ctx context.Context, q dto.DocumentListQuery) (*dto.ShipmentListResponse, error) {
	filter, err := toDocumentFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.shipments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toShipmentResponse(s))
	}
	return &dto.ShipmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func (uc *ShipmentUseCase) load(ctx context.Context, repo repository.ShipmentRepository, id string) (*entity.Shipment, error) {
	shipment, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: despacho %s", domain.ErrNotFound, id)
	}
	return shipment, nil
}

// rejected registra los rechazos por estado inválido. Los de saldo ya los cuenta BalanceService.
func (uc *ShipmentUseCase) rejected(err error) error {
	if errors.Is(err, domain.ErrInvalidDocumentState) {
		uc.metrics.Rejected(RejectInvalidState)
		uc.log.Warn().Err(err).Msg("transición de despacho rechazada")
	}
	return err
}

func (uc *ShipmentUseCase) publish(ctx context.Context, eventType string, s *entity.Shipment) {
	uc.notifier.Notify(ctx, DocumentEvent{
		Type:         eventType,
		DocumentKind: DocumentShipment,
		DocumentID:   s.ID,
		Number:       s.Number,
		Version:      s.Version,
		OccurredAt:   uc.now(),
	})
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:        s.ID,
		Number:    s.Number,
		ClientID:  s.ClientID,
		Date:      s.Date.Format(dto.DateLayout),
		State:     s.State(),
		Signed:    s.Signed,
		SignedAt:  s.SignedAt,
		Lines:     toLineResponses(s.Lines),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
