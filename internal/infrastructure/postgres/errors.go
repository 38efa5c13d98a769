package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeNumericOutOfRange    = "22003" // saldo fuera de NUMERIC(18,4)
	codeLockNotAvailable     = "55P03" // lock_timeout
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// translateError envuelve el error del driver con el sentinel de dominio que corresponde.
// Bloqueo no disponible, deadlock y fallo de serialización son reintentables.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	case codeNumericOutOfRange:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrencyConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
