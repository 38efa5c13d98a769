package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	domaininv "github.com/vjmurenko/Warehouse-sub001/internal/domain/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// ReceiptUseCase ciclo de vida de recepciones: cada cambio del documento y su ajuste de saldo
// confirman en la misma transacción.
type ReceiptUseCase struct {
	txRunner TxRunner
	receipts repository.ReceiptRepository
	balances *BalanceService
	refs     *ReferenceValidator
	notifier Notifier
	retry    *retrier
	log      *logger.Logger
	now      func() time.Time
}

// NewReceiptUseCase construye el caso de uso. receipts es el repositorio de lectura (fuera de tx).
func NewReceiptUseCase(
	txRunner TxRunner,
	receipts repository.ReceiptRepository,
	balances *BalanceService,
	refs *ReferenceValidator,
	opts Options,
) *ReceiptUseCase {
	opts = opts.withDefaults()
	log := opts.Logger.Component("receipts")
	return &ReceiptUseCase{
		txRunner: txRunner,
		receipts: receipts,
		balances: balances,
		refs:     refs,
		notifier: opts.Notifier,
		retry:    newRetrier(opts.Retry, opts.Metrics, log),
		log:      log,
		now:      time.Now,
	}
}

// Create registra la recepción y suma sus líneas al saldo.
func (uc *ReceiptUseCase) Create(ctx context.Context, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	number, err := requireNumber(in.Number)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	lines, err := toLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.refs.ValidateLines(ctx, lines, nil); err != nil {
		return nil, err
	}

	var created *entity.Receipt
	err = uc.retry.do(ctx, "receipt.create", func() error {
		now := uc.now()
		receipt := &entity.Receipt{
			ID:        uuid.New().String(),
			Number:    number,
			Date:      date,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		receipt.ReplaceLines(lines)

		err := uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			receiptRepo repository.ReceiptRepository,
			_ repository.ShipmentRepository,
		) error {
			if err := ensureUniqueNumber(ctx, receiptRepo.ExistsNumber, number, ""); err != nil {
				return err
			}
			if err := receiptRepo.Create(ctx, receipt); err != nil {
				return err
			}
			return uc.balances.Apply(ctx, balanceRepo, domaininv.Increase(receipt.Lines))
		})
		if err != nil {
			return err
		}
		created = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("receipt_id", created.ID).Str("number", created.Number).Int("lines", len(created.Lines)).Msg("recepción creada")
	uc.publish(ctx, EventCreated, created)
	return toReceiptResponse(created), nil
}

// Update reemplaza cabecera y líneas y aplica el neto sum(nuevas) - sum(anteriores) por clave.
func (uc *ReceiptUseCase) Update(ctx context.Context, id string, in dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error) {
	number, err := requireNumber(in.Number)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	lines, err := toLines(in.Lines)
	if err != nil {
		return nil, err
	}

	var updated *entity.Receipt
	err = uc.retry.do(ctx, "receipt.update", func() error {
		current, err := uc.load(ctx, uc.receipts, id)
		if err != nil {
			return err
		}
		if err := uc.refs.ValidateLines(ctx, lines, current.Lines); err != nil {
			return err
		}

		err = uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			receiptRepo repository.ReceiptRepository,
			_ repository.ShipmentRepository,
		) error {
			receipt, err := uc.load(ctx, receiptRepo, id)
			if err != nil {
				return err
			}
			version, err := expectedVersion(in.Version, receipt.Version)
			if err != nil {
				return err
			}
			if number != receipt.Number {
				if err := ensureUniqueNumber(ctx, receiptRepo.ExistsNumber, number, receipt.ID); err != nil {
					return err
				}
			}

			before := entity.CloneLines(receipt.Lines)
			receipt.Number = number
			receipt.Date = date
			receipt.ReplaceLines(lines)
			receipt.UpdatedAt = uc.now()
			if err := receiptRepo.Update(ctx, receipt, version); err != nil {
				return err
			}
			receipt.Version = version + 1

			if err := uc.balances.Apply(ctx, balanceRepo, domaininv.Diff(before, receipt.Lines)); err != nil {
				return err
			}
			updated = receipt
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("receipt_id", updated.ID).Int64("version", updated.Version).Msg("recepción actualizada")
	uc.publish(ctx, EventUpdated, updated)
	return toReceiptResponse(updated), nil
}

// Delete elimina la recepción y descuenta sus líneas. Falla si el saldo ya fue consumido.
func (uc *ReceiptUseCase) Delete(ctx context.Context, id string) error {
	var deleted *entity.Receipt
	err := uc.retry.do(ctx, "receipt.delete", func() error {
		return uc.txRunner.Run(ctx, func(
			balanceRepo repository.BalanceRepository,
			receiptRepo repository.ReceiptRepository,
			_ repository.ShipmentRepository,
		) error {
			receipt, err := uc.load(ctx, receiptRepo, id)
			if err != nil {
				return err
			}
			if err := receiptRepo.Delete(ctx, receipt.ID, receipt.Version); err != nil {
				return err
			}
			if err := uc.balances.Apply(ctx, balanceRepo, domaininv.Decrease(receipt.Lines)); err != nil {
				return err
			}
			deleted = receipt
			return nil
		})
	})
	if err != nil {
		return err
	}

	uc.log.Info().Str("receipt_id", deleted.ID).Str("number", deleted.Number).Msg("recepción eliminada")
	uc.publish(ctx, EventDeleted, deleted)
	return nil
}

// GetByID obtiene una recepción con sus líneas.
func (uc *ReceiptUseCase) GetByID(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.load(ctx, uc.receipts, id)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// List lista recepciones según los filtros.
func (uc *ReceiptUseCase) List(ctx context.Context, q dto.DocumentListQuery) (*dto.ReceiptListResponse, error) {
	filter, err := toDocumentFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.receipts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReceiptResponse(r))
	}
	return &dto.ReceiptListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func (uc *ReceiptUseCase) load(ctx context.Context, repo repository.ReceiptRepository, id string) (*entity.Receipt, error) {
	receipt, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("%w: recepción %s", domain.ErrNotFound, id)
	}
	return receipt, nil
}

func (uc *ReceiptUseCase) publish(ctx context.Context, eventType string, r *entity.Receipt) {
	uc.notifier.Notify(ctx, DocumentEvent{
		Type:         eventType,
		DocumentKind: DocumentReceipt,
		DocumentID:   r.ID,
		Number:       r.Number,
		Version:      r.Version,
		OccurredAt:   uc.now(),
	})
}

func toReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	return &dto.ReceiptResponse{
		ID:        r.ID,
		Number:    r.Number,
		Date:      r.Date.Format(dto.DateLayout),
		Lines:     toLineResponses(r.Lines),
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ensureUniqueNumber consulta dentro de la transacción; el índice único cubre la carrera restante.
func ensureUniqueNumber(ctx context.Context, exists func(context.Context, string, string) (bool, error), number, excludeID string) error {
	taken, err := exists(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: ya existe un documento con número %s", domain.ErrDuplicate, number)
	}
	return nil
}
