package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	errx "github.com/logis-assistant/server/internal/core/error"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// SQLiteStore persists inventory items in the productos table, keeping the
// schema of the original migration (material is the canonical key).
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate productos: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS productos (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		material TEXT    NOT NULL UNIQUE,
		cantidad INTEGER NOT NULL DEFAULT 0,
		precio   REAL    NOT NULL DEFAULT 0.0,
		minimo   INTEGER NOT NULL DEFAULT 10
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT material, cantidad, precio, minimo FROM productos WHERE material = ?`,
		Normalize(name),
	)
	var it Item
	if err := row.Scan(&it.Name, &it.Quantity, &it.Price, &it.Threshold); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errx.WrapStore(err)
	}
	return &it, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT material, cantidad, precio, minimo FROM productos ORDER BY material`)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Price, &it.Threshold); err != nil {
			return nil, errx.WrapStore(err)
		}
		items = append(items, it)
	}
	return items, errx.WrapStore(rows.Err())
}

func (s *SQLiteStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT material FROM productos ORDER BY material`)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, errx.WrapStore(err)
		}
		names = append(names, n)
	}
	return names, errx.WrapStore(rows.Err())
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM productos`).Scan(&n); err != nil {
		return 0, errx.WrapStore(err)
	}
	return n, nil
}

func (s *SQLiteStore) SetQuantity(ctx context.Context, name string, quantity int) (*Change, error) {
	return s.mutate(ctx, name, func(current int) (int, error) {
		if quantity < 0 {
			return 0, &NegativeQuantityError{Name: Normalize(name), Current: current, Delta: quantity}
		}
		return quantity, nil
	})
}

func (s *SQLiteStore) AdjustQuantity(ctx context.Context, name string, delta int) (*Change, error) {
	return s.mutate(ctx, name, func(current int) (int, error) {
		next := current + delta
		if next < 0 {
			return 0, &NegativeQuantityError{Name: Normalize(name), Current: current, Delta: delta}
		}
		return next, nil
	})
}

// mutate runs the read-check-write sequence inside one transaction so the
// non-negative invariant holds under concurrent writers of the same item.
func (s *SQLiteStore) mutate(ctx context.Context, name string, next func(current int) (int, error)) (*Change, error) {
	key := Normalize(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT cantidad FROM productos WHERE material = ?`, key).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errx.WrapStore(err)
	}

	target, err := next(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE productos SET cantidad = ? WHERE material = ?`, target, key); err != nil {
		return nil, errx.WrapStore(err)
	}
	if err := tx.Commit(); err != nil {
		logx.Error().Err(err).Str("material", key).Msg("failed to commit stock mutation")
		return nil, errx.WrapStore(err)
	}
	return &Change{Name: key, From: current, To: target}, nil
}
