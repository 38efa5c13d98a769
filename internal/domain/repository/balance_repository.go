package repository

import (
	"context"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
)

// BalanceFilter criterios de la consulta de saldos (solo lectura).
type BalanceFilter struct {
	ResourceIDs []string
	UnitIDs     []string
	NonZeroOnly bool
}

// BalanceRepository puerto del libro de saldos por (recurso, unidad).
// Las escrituras solo ocurren dentro de una transacción y a través del servicio de ajustes.
type BalanceRepository interface {
	// LockForUpdate bloquea la fila del saldo (SELECT FOR UPDATE), creándola con cantidad 0 si no existe.
	LockForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error)
	// Save persiste la cantidad de un saldo previamente bloqueado.
	Save(ctx context.Context, balance *entity.Balance) error
	// List lectura sin bloqueo, ordenada por (recurso, unidad).
	List(ctx context.Context, filter BalanceFilter) ([]*entity.Balance, error)
}
