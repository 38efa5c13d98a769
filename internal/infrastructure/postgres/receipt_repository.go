package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo documentos de recepción sobre PostgreSQL (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `d.id, d.number, d.date, d.version, d.created_at, d.updated_at`

func (r *ReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if receipt.Version == 0 {
		receipt.Version = 1
	}
	query := `
		INSERT INTO receipts (id, number, date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		receipt.ID, receipt.Number, receipt.Date, receipt.Version, receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		return translateError("insert receipt", err)
	}
	return receiptLines.insert(ctx, r.q, receipt.Lines)
}

// GetByID devuelve nil, nil si no existe.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts d WHERE d.id = $1`
	receipt, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("get receipt", err)
	}
	lines, err := receiptLines.load(ctx, r.q, []string{id})
	if err != nil {
		return nil, err
	}
	receipt.Lines = lines[id]
	return receipt, nil
}

func (r *ReceiptRepo) ExistsNumber(ctx context.Context, number, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM receipts WHERE number = $1 AND id <> $2)`, number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, translateError("exists receipt number", err)
	}
	return exists, nil
}

// Update persiste cabecera y líneas si la versión coincide; incrementa la versión.
func (r *ReceiptRepo) Update(ctx context.Context, receipt *entity.Receipt, expectedVersion int64) error {
	query := `
		UPDATE receipts SET number = $2, date = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5`
	cmd, err := r.q.Exec(ctx, query, receipt.ID, receipt.Number, receipt.Date, receipt.UpdatedAt, expectedVersion)
	if err != nil {
		return translateError("update receipt", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: recepción %s modificada por otra operación", domain.ErrConcurrencyConflict, receipt.ID)
	}
	receipt.Version = expectedVersion + 1
	return receiptLines.replace(ctx, r.q, receipt.ID, receipt.Lines)
}

// Delete elimina cabecera y líneas (ON DELETE CASCADE) si la versión coincide.
func (r *ReceiptRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM receipts WHERE id = $1 AND version = $2`, id, expectedVersion)
	if err != nil {
		return translateError("delete receipt", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: recepción %s modificada por otra operación", domain.ErrConcurrencyConflict, id)
	}
	return nil
}

func (r *ReceiptRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Receipt, error) {
	clause, args := documentWhere(filter, receiptLines, false)
	rows, err := r.q.Query(ctx, `SELECT `+receiptColumns+` FROM receipts d`+clause, args...)
	if err != nil {
		return nil, translateError("list receipts", err)
	}
	defer rows.Close()

	var (
		list []*entity.Receipt
		ids  []string
	)
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, translateError("scan receipt", err)
		}
		list = append(list, receipt)
		ids = append(ids, receipt.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list receipts", err)
	}
	rows.Close()

	lines, err := receiptLines.load(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, receipt := range list {
		receipt.Lines = lines[receipt.ID]
	}
	return list, nil
}

func scanReceipt(row rowScanner) (*entity.Receipt, error) {
	var rec entity.Receipt
	if err := row.Scan(&rec.ID, &rec.Number, &rec.Date, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
