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

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo datos maestros sobre PostgreSQL. Cada tipo vive en su tabla
// (resources, units, clients); solo clients tiene dirección.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func referenceTable(kind entity.ReferenceKind) (table, address string, err error) {
	switch kind {
	case entity.ReferenceResource:
		return "resources", "''", nil
	case entity.ReferenceUnit:
		return "units", "''", nil
	case entity.ReferenceClient:
		return "clients", "address", nil
	}
	return "", "", fmt.Errorf("%w: tipo de dato maestro %q", domain.ErrInvalidInput, kind)
}

func (r *ReferenceRepo) Create(ctx context.Context, ref *entity.Reference) error {
	table, _, err := referenceTable(ref.Kind)
	if err != nil {
		return err
	}
	var query string
	args := []any{ref.ID, ref.Name, ref.State, ref.CreatedAt, ref.UpdatedAt}
	if ref.Kind == entity.ReferenceClient {
		query = `INSERT INTO clients (id, name, state, created_at, updated_at, address) VALUES ($1, $2, $3, $4, $5, $6)`
		args = append(args, ref.Address)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (id, name, state, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`, table)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return translateError("insert "+string(ref.Kind), err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ReferenceRepo) GetByID(ctx context.Context, kind entity.ReferenceKind, id string) (*entity.Reference, error) {
	table, address, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, %s, state, created_at, updated_at FROM %s WHERE id = $1`, address, table)
	ref, err := scanReference(r.q.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("get "+string(kind), err)
	}
	return ref, nil
}

func (r *ReferenceRepo) GetByIDs(ctx context.Context, kind entity.ReferenceKind, ids []string) ([]*entity.Reference, error) {
	table, address, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, %s, state, created_at, updated_at FROM %s WHERE id = ANY($1)`, address, table)
	return r.list(ctx, kind, query, ids)
}

func (r *ReferenceRepo) ExistsName(ctx context.Context, kind entity.ReferenceKind, name, excludeID string) (bool, error) {
	table, _, err := referenceTable(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE lower(name) = lower($1) AND id <> $2)`, table)
	if err := r.q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, translateError("exists "+string(kind)+" name", err)
	}
	return exists, nil
}

func (r *ReferenceRepo) Update(ctx context.Context, ref *entity.Reference) error {
	table, _, err := referenceTable(ref.Kind)
	if err != nil {
		return err
	}
	var query string
	args := []any{ref.ID, ref.Name, ref.State, ref.UpdatedAt}
	if ref.Kind == entity.ReferenceClient {
		query = `UPDATE clients SET name = $2, state = $3, updated_at = $4, address = $5 WHERE id = $1`
		args = append(args, ref.Address)
	} else {
		query = fmt.Sprintf(`UPDATE %s SET name = $2, state = $3, updated_at = $4 WHERE id = $1`, table)
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return translateError("update "+string(ref.Kind), err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, ref.Kind, ref.ID)
	}
	return nil
}

func (r *ReferenceRepo) List(ctx context.Context, kind entity.ReferenceKind, state string, limit, offset int) ([]*entity.Reference, error) {
	table, address, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, name, %s, state, created_at, updated_at FROM %s
		WHERE ($1 = '' OR state = $1)
		ORDER BY name LIMIT $2 OFFSET $3`, address, table)
	return r.list(ctx, kind, query, state, limit, offset)
}

func (r *ReferenceRepo) list(ctx context.Context, kind entity.ReferenceKind, query string, args ...any) ([]*entity.Reference, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list "+string(kind), err)
	}
	defer rows.Close()
	var list []*entity.Reference
	for rows.Next() {
		ref, err := scanReference(rows, kind)
		if err != nil {
			return nil, translateError("scan "+string(kind), err)
		}
		list = append(list, ref)
	}
	return list, rows.Err()
}

func scanReference(row rowScanner, kind entity.ReferenceKind) (*entity.Reference, error) {
	ref := entity.Reference{Kind: kind}
	if err := row.Scan(&ref.ID, &ref.Name, &ref.Address, &ref.State, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
		return nil, err
	}
	return &ref, nil
}
