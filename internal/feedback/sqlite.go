package feedback

import (
	"context"
	"database/sql"
	"fmt"

	errx "github.com/logis-assistant/server/internal/core/error"
)

// SQLiteStore persists feedback records in the feedback table of the shared
// database, keeping the original migration's schema.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate feedback: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pregunta  TEXT NOT NULL,
		respuesta TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, question, answer string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (pregunta, respuesta) VALUES (?, ?)`, question, answer)
	return errx.WrapStore(err)
}

func (s *SQLiteStore) RecentN(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pregunta, respuesta FROM feedback ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, errx.WrapStore(err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Question, &rec.Answer); err != nil {
			return nil, errx.WrapStore(err)
		}
		records = append(records, rec)
	}
	return records, errx.WrapStore(rows.Err())
}
