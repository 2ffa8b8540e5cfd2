package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/fridaygt/fridaygt/common/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Table describes an orderable table. Every orderable table has id, sort_order,
// updated_at and updated_by columns; only the table and parent column vary.
type Table struct {
	Name         string
	ParentColumn string
}

var (
	RaceMembers = Table{Name: "race_member", ParentColumn: "race_id"}
	Races       = Table{Name: "race", ParentColumn: "run_list_id"}
)

// PGStore is a Store backed by Postgres
type PGStore struct {
	db    *db.DB
	table Table
}

// NewPGStore creates a store for table
func NewPGStore(database *db.DB, table Table) *PGStore {
	return &PGStore{db: database, table: table}
}

func (s *PGStore) Get(ctx context.Context, ids []uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, sort_order, updated_at, updated_by
		FROM %s
		WHERE id = ANY($1::uuid[])
	`, s.table.ParentColumn, s.table.Name)

	rows, err := s.db.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table.Name, err)
	}
	return collectItems(rows)
}

func (s *PGStore) Children(ctx context.Context, parentID uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf(`
		SELECT id, %[1]s, sort_order, updated_at, updated_by
		FROM %[2]s
		WHERE %[1]s = $1
		ORDER BY sort_order, id
	`, s.table.ParentColumn, s.table.Name)

	rows, err := s.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("query %s children: %w", s.table.Name, err)
	}
	return collectItems(rows)
}

// ApplyOrder locks every row of the parent in id order, re-checks that ids is
// exactly that set, then rewrites all orders with one UPDATE. The unique
// (parent, sort_order) constraint is deferred, so intermediate duplicates inside
// the statement are fine.
func (s *PGStore) ApplyOrder(ctx context.Context, parentID uuid.UUID, ids []uuid.UUID, orders []int, actor uuid.UUID) error {
	if len(ids) != len(orders) {
		return TransactionFailed(fmt.Errorf("%d ids but %d orders", len(ids), len(orders)))
	}

	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		locked, err := s.lockSiblings(ctx, tx, parentID)
		if err != nil {
			return err
		}
		if len(locked) != len(ids) {
			return fmt.Errorf("parent %s has %d rows, request names %d", parentID, len(locked), len(ids))
		}
		for _, id := range ids {
			if _, ok := locked[id]; !ok {
				return fmt.Errorf("row %s missing under parent %s", id, parentID)
			}
		}

		update := fmt.Sprintf(`
			UPDATE %[1]s AS t
			SET sort_order = v.ord, updated_at = $3, updated_by = $4
			FROM unnest($1::uuid[], $2::int[]) AS v(id, ord)
			WHERE t.id = v.id AND t.%[2]s = $5
		`, s.table.Name, s.table.ParentColumn)

		tag, err := tx.Exec(ctx, update, uuidStrings(ids), orders, time.Now().UTC(), actor, parentID)
		if err != nil {
			return fmt.Errorf("update %s: %w", s.table.Name, err)
		}
		if tag.RowsAffected() != int64(len(ids)) {
			return fmt.Errorf("updated %d rows, expected %d", tag.RowsAffected(), len(ids))
		}
		return nil
	})
	if err != nil {
		return TransactionFailed(err)
	}
	return nil
}

func (s *PGStore) lockSiblings(ctx context.Context, tx pgx.Tx, parentID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 ORDER BY id FOR UPDATE`,
		s.table.Name, s.table.ParentColumn)

	rows, err := tx.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("lock %s rows: %w", s.table.Name, err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan locked id: %w", err)
		}
		locked[id] = struct{}{}
	}
	return locked, rows.Err()
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ParentID, &it.Order, &it.UpdatedAt, &it.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
