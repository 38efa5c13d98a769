package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

func TestTranslateError_CodigosPostgres(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeNumericOutOfRange, domain.ErrInvalidInput},
		{codeLockNotAvailable, domain.ErrConcurrencyConflict},
		{codeDeadlockDetected, domain.ErrConcurrencyConflict},
		{codeSerializationFailure, domain.ErrConcurrencyConflict},
	}
	for _, tc := range cases {
		pgErr := &pgconn.PgError{Code: tc.code, Message: "boom"}
		err := translateError("op", pgErr)
		assert.ErrorIs(t, err, tc.want, tc.code)
		var target *pgconn.PgError
		assert.True(t, errors.As(err, &target), "conserva el error original")
	}
}

func TestTranslateError_OtrosErrores(t *testing.T) {
	assert.NoError(t, translateError("op", nil))

	err := translateError("get balance", errors.New("conn reset"))
	assert.EqualError(t, err, "get balance: conn reset")
	assert.False(t, domain.IsRetryable(err))

	err = translateError("insert", &pgconn.PgError{Code: "23514"})
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.False(t, isUniqueViolation(err))
}
