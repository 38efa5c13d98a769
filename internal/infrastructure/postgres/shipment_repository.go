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

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo documentos de despacho sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `d.id, d.number, d.client_id, d.date, d.signed, d.revoked, d.signed_at, d.version, d.created_at, d.updated_at`

func (r *ShipmentRepo) Create(ctx context.Context, shipment *entity.Shipment) error {
	if shipment.Version == 0 {
		shipment.Version = 1
	}
	query := `
		INSERT INTO shipments (id, number, client_id, date, signed, revoked, signed_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		shipment.ID, shipment.Number, shipment.ClientID, shipment.Date,
		shipment.Signed, shipment.Revoked, shipment.SignedAt, shipment.Version,
		shipment.CreatedAt, shipment.UpdatedAt,
	)
	if err != nil {
		return translateError("insert shipment", err)
	}
	return shipmentLines.insert(ctx, r.q, shipment.Lines)
}

// GetByID devuelve nil, nil si no existe.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments d WHERE d.id = $1`
	shipment, err := scanShipment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("get shipment", err)
	}
	lines, err := shipmentLines.load(ctx, r.q, []string{id})
	if err != nil {
		return nil, err
	}
	shipment.Lines = lines[id]
	return shipment, nil
}

func (r *ShipmentRepo) ExistsNumber(ctx context.Context, number, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shipments WHERE number = $1 AND id <> $2)`, number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, translateError("exists shipment number", err)
	}
	return exists, nil
}

// Update persiste estado, cabecera y líneas si la versión coincide.
func (r *ShipmentRepo) Update(ctx context.Context, shipment *entity.Shipment, expectedVersion int64) error {
	query := `
		UPDATE shipments
		SET number = $2, client_id = $3, date = $4, signed = $5, revoked = $6, signed_at = $7,
		    updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $9`
	cmd, err := r.q.Exec(ctx, query,
		shipment.ID, shipment.Number, shipment.ClientID, shipment.Date,
		shipment.Signed, shipment.Revoked, shipment.SignedAt, shipment.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return translateError("update shipment", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: despacho %s modificado por otra operación", domain.ErrConcurrencyConflict, shipment.ID)
	}
	shipment.Version = expectedVersion + 1
	return shipmentLines.replace(ctx, r.q, shipment.ID, shipment.Lines)
}

func (r *ShipmentRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shipments WHERE id = $1 AND version = $2 AND NOT signed`, id, expectedVersion)
	if err != nil {
		return translateError("delete shipment", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: despacho %s modificado por otra operación", domain.ErrConcurrencyConflict, id)
	}
	return nil
}

func (r *ShipmentRepo) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Shipment, error) {
	clause, args := documentWhere(filter, shipmentLines, true)
	rows, err := r.q.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments d`+clause, args...)
	if err != nil {
		return nil, translateError("list shipments", err)
	}
	defer rows.Close()

	var (
		list []*entity.Shipment
		ids  []string
	)
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, translateError("scan shipment", err)
		}
		list = append(list, shipment)
		ids = append(ids, shipment.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list shipments", err)
	}
	rows.Close()

	lines, err := shipmentLines.load(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, shipment := range list {
		shipment.Lines = lines[shipment.ID]
	}
	return list, nil
}

func scanShipment(row rowScanner) (*entity.Shipment, error) {
	var s entity.Shipment
	err := row.Scan(&s.ID, &s.Number, &s.ClientID, &s.Date, &s.Signed, &s.Revoked, &s.SignedAt,
		&s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
