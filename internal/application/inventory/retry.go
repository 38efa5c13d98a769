package inventory

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

// RetryPolicy reintentos de una operación completa ante conflicto de concurrencia.
// Cada intento vuelve a leer el documento y recalcula los ajustes desde cero.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy 3 reintentos, 50ms inicial.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}
}

// retrier ejecuta operaciones con la política configurada.
type retrier struct {
	policy  RetryPolicy
	metrics Metrics
	log     *logger.Logger
}

func newRetrier(policy RetryPolicy, metrics Metrics, log *logger.Logger) *retrier {
	return &retrier{policy: policy, metrics: metrics, log: log}
}

// do ejecuta fn; solo domain.ErrConcurrencyConflict se reintenta, el resto es definitivo.
func (r *retrier) do(ctx context.Context, operation string, fn func() error) error {
	if r.policy.MaxRetries <= 0 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		b.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		b.MaxInterval = r.policy.MaxInterval
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if !domain.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.policy.MaxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			r.metrics.Retried(operation)
			r.log.Warn().Err(err).Str("operation", operation).Dur("wait", wait).Msg("conflicto de concurrencia, reintentando")
		}),
	)
	return err
}
