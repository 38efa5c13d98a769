package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// LockForUpdate crea la fila en 0 si no existe y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *BalanceRepo) LockForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	insert := `
		INSERT INTO balances (resource_id, unit_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (resource_id, unit_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, key.ResourceID, key.UnitID); err != nil {
		return nil, translateError("ensure balance", err)
	}

	query := `
		SELECT resource_id, unit_id, quantity, updated_at
		FROM balances WHERE resource_id = $1 AND unit_id = $2
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.ResourceID, key.UnitID))
	if err != nil {
		return nil, translateError("lock balance", err)
	}
	return b, nil
}

// Save actualiza la cantidad de una fila ya bloqueada.
func (r *BalanceRepo) Save(ctx context.Context, balance *entity.Balance) error {
	query := `
		UPDATE balances SET quantity = $3, updated_at = $4
		WHERE resource_id = $1 AND unit_id = $2`
	cmd, err := r.q.Exec(ctx, query, balance.ResourceID, balance.UnitID, balance.Quantity.Decimal(), balance.UpdatedAt)
	if err != nil {
		return translateError("save balance", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("save balance %s: fila inexistente", balance.Key())
	}
	return nil
}

// List lectura sin bloqueo.
func (r *BalanceRepo) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.Balance, error) {
	var where []string
	var args []any
	if len(filter.ResourceIDs) > 0 {
		args = append(args, filter.ResourceIDs)
		where = append(where, fmt.Sprintf("resource_id = ANY($%d)", len(args)))
	}
	if len(filter.UnitIDs) > 0 {
		args = append(args, filter.UnitIDs)
		where = append(where, fmt.Sprintf("unit_id = ANY($%d)", len(args)))
	}
	if filter.NonZeroOnly {
		where = append(where, "quantity <> 0")
	}
	query := `SELECT resource_id, unit_id, quantity, updated_at FROM balances`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY resource_id, unit_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list balances", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, translateError("scan balance", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (*entity.Balance, error) {
	var (
		b   entity.Balance
		qty decimal.Decimal
	)
	if err := row.Scan(&b.ResourceID, &b.UnitID, &qty, &b.UpdatedAt); err != nil {
		return nil, err
	}
	q, err := entity.NewQuantity(qty)
	if err != nil {
		return nil, err
	}
	b.Quantity = q
	return &b, nil
}
