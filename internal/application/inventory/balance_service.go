package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	domaininv "github.com/vjmurenko/Warehouse-sub001/internal/domain/inventory"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// BalanceService único punto de escritura del libro de saldos.
// Apply corre dentro de la transacción del caller (repositorio atado a la tx).
type BalanceService struct {
	reader    repository.BalanceRepository
	validator *AvailabilityValidator
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewBalanceService construye el servicio. reader es el repositorio sin transacción para consultas.
func NewBalanceService(reader repository.BalanceRepository, validator *AvailabilityValidator, metrics Metrics, log *logger.Logger) *BalanceService {
	if validator == nil {
		validator = NewAvailabilityValidator()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BalanceService{
		reader:    reader,
		validator: validator,
		metrics:   metrics,
		log:       log.Component("balance"),
		now:       time.Now,
	}
}

// Apply aplica un lote de ajustes de forma atómica:
//  1. descarta ajustes en cero (un lote vacío no bloquea ni escribe),
//  2. bloquea cada saldo en orden (recurso, unidad), creándolo en 0 si no existe,
//  3. valida disponibilidad con los saldos bloqueados,
//  4. escribe todos los saldos.
//
// Si cualquier resultado quedara negativo se rechaza el lote completo; el rollback
// lo hace el TxRunner del caller.
func (s *BalanceService) Apply(ctx context.Context, balanceRepo repository.BalanceRepository, deltas domaininv.Deltas) error {
	batch := deltas.Sorted()
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	locked := make(map[entity.BalanceKey]*entity.Balance, len(batch))
	for _, d := range batch {
		balance, err := balanceRepo.LockForUpdate(ctx, d.Key)
		if err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				s.metrics.Rejected(RejectConflict)
			}
			return err
		}
		locked[d.Key] = balance
	}

	// Con los bloqueos tomados la operación termina (commit o rollback) aunque se cancele ctx.
	ctx = context.WithoutCancel(ctx)

	if err := s.validator.Validate(locked, batch); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			s.metrics.Rejected(RejectInsufficientBalance)
			s.log.Warn().Err(err).Msg("ajuste rechazado por saldo insuficiente")
		}
		return err
	}

	now := s.now()
	increases, decreases := 0, 0
	for _, d := range batch {
		balance := locked[d.Key]
		if err := balance.Adjust(d.Amount, now); err != nil {
			return err
		}
		if err := balanceRepo.Save(ctx, balance); err != nil {
			return err
		}
		if d.Amount.IsPositive() {
			increases++
		} else {
			decreases++
		}
	}
	s.metrics.AdjustmentsApplied(increases, decreases)
	s.log.Debug().Int("keys", len(batch)).Int("increases", increases).Int("decreases", decreases).Msg("ajustes aplicados")
	return nil
}

// GetBalances proyección de solo lectura, sin bloqueos.
func (s *BalanceService) GetBalances(ctx context.Context, q dto.BalanceQuery) ([]dto.BalanceResponse, error) {
	list, err := s.reader.List(ctx, repository.BalanceFilter{
		ResourceIDs: q.ResourceIDs,
		UnitIDs:     q.UnitIDs,
		NonZeroOnly: q.NonZeroOnly,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BalanceResponse{
			ResourceID: b.ResourceID,
			UnitID:     b.UnitID,
			Quantity:   b.Quantity.Decimal(),
			UpdatedAt:  b.UpdatedAt,
		})
	}
	return out, nil
}
