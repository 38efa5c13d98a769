package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// Options colaboradores opcionales de los casos de uso de documentos.
type Options struct {
	Notifier Notifier
	Metrics  Metrics
	Retry    RetryPolicy
	Logger   *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Notifier == nil {
		o.Notifier = NopNotifier{}
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}

func requireNumber(number string) (string, error) {
	n := strings.TrimSpace(number)
	if n == "" {
		return "", fmt.Errorf("%w: el número del documento es obligatorio", domain.ErrInvalidInput)
	}
	return n, nil
}

// toLines convierte y valida las líneas de entrada. Las repetidas por (recurso, unidad) se permiten.
func toLines(in []dto.DocumentLineRequest) ([]entity.DocumentLine, error) {
	lines := make([]entity.DocumentLine, 0, len(in))
	for _, l := range in {
		line := entity.DocumentLine{
			ResourceID: strings.TrimSpace(l.ResourceID),
			UnitID:     strings.TrimSpace(l.UnitID),
			Quantity:   l.Quantity,
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func toLineResponses(lines []entity.DocumentLine) []dto.DocumentLineResponse {
	out := make([]dto.DocumentLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.DocumentLineResponse{
			ID:         l.ID,
			ResourceID: l.ResourceID,
			UnitID:     l.UnitID,
			Quantity:   l.Quantity,
		})
	}
	return out
}

func toDocumentFilter(q dto.DocumentListQuery) (repository.DocumentFilter, error) {
	q.Page.DefaultPage()
	f := repository.DocumentFilter{
		Numbers:     q.Numbers,
		ResourceIDs: q.ResourceIDs,
		UnitIDs:     q.UnitIDs,
		ClientIDs:   q.ClientIDs,
		Limit:       q.Page.Limit,
		Offset:      q.Page.Offset,
	}
	if q.From != "" {
		from, err := parseDate("from", q.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := parseDate("to", q.To)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, fmt.Errorf("%w: el rango de fechas es inválido", domain.ErrInvalidInput)
	}
	return f, nil
}

// expectedVersion 0 en la petición significa "la versión leída en esta transacción".
// Una versión explícita desactualizada no se reintenta: el cliente debe releer el documento.
func expectedVersion(requested, current int64) (int64, error) {
	if requested == 0 {
		return current, nil
	}
	if requested != current {
		return 0, backoff.Permanent(fmt.Errorf("%w: versión %d, actual %d", domain.ErrConcurrencyConflict, requested, current))
	}
	return requested, nil
}
