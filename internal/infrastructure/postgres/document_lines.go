package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/vjmurenko/Warehouse-sub001/internal/domain/entity"
	"github.com/vjmurenko/Warehouse-sub001/internal/domain/repository"
)

// lineTable describe la tabla de líneas de un tipo de documento.
type lineTable struct {
	name string // receipt_lines | shipment_lines
	fk   string // receipt_id | shipment_id
}

var (
	receiptLines  = lineTable{name: "receipt_lines", fk: "receipt_id"}
	shipmentLines = lineTable{name: "shipment_lines", fk: "shipment_id"}
)

func (t lineTable) insert(ctx context.Context, q Querier, lines []entity.DocumentLine) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, resource_id, unit_id, quantity)
		VALUES ($1, $2, $3, $4, $5)`, t.name, t.fk)
	for _, l := range lines {
		if _, err := q.Exec(ctx, query, l.ID, l.DocumentID, l.ResourceID, l.UnitID, l.Quantity); err != nil {
			return translateError("insert "+t.name, err)
		}
	}
	return nil
}

func (t lineTable) replace(ctx context.Context, q Querier, documentID string, lines []entity.DocumentLine) error {
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.fk), documentID); err != nil {
		return translateError("delete "+t.name, err)
	}
	return t.insert(ctx, q, lines)
}

// load devuelve las líneas agrupadas por documento.
func (t lineTable) load(ctx context.Context, q Querier, documentIDs []string) (map[string][]entity.DocumentLine, error) {
	out := make(map[string][]entity.DocumentLine, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`
		SELECT id, %s, resource_id, unit_id, quantity
		FROM %s WHERE %s = ANY($1)
		ORDER BY resource_id, unit_id, id`, t.fk, t.name, t.fk)
	rows, err := q.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, translateError("list "+t.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ResourceID, &l.UnitID, &l.Quantity); err != nil {
			return nil, translateError("scan "+t.name, err)
		}
		out[l.DocumentID] = append(out[l.DocumentID], l)
	}
	return out, rows.Err()
}

// documentWhere arma el WHERE común de los listados de documentos (alias d).
func documentWhere(f repository.DocumentFilter, lines lineTable, withClient bool) (string, []any) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("d.date >= $%d", *f.From)
	}
	if f.To != nil {
		add("d.date <= $%d", *f.To)
	}
	if len(f.Numbers) > 0 {
		add("d.number = ANY($%d)", f.Numbers)
	}
	if withClient && len(f.ClientIDs) > 0 {
		add("d.client_id = ANY($%d)", f.ClientIDs)
	}
	if len(f.ResourceIDs) > 0 || len(f.UnitIDs) > 0 {
		var sub []string
		if len(f.ResourceIDs) > 0 {
			args = append(args, f.ResourceIDs)
			sub = append(sub, fmt.Sprintf("l.resource_id = ANY($%d)", len(args)))
		}
		if len(f.UnitIDs) > 0 {
			args = append(args, f.UnitIDs)
			sub = append(sub, fmt.Sprintf("l.unit_id = ANY($%d)", len(args)))
		}
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM %s l WHERE l.%s = d.id AND %s)",
			lines.name, lines.fk, strings.Join(sub, " AND ")))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	clause += " ORDER BY d.date DESC, d.number"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return clause, args
}
