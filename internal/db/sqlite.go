// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/lorastack/internal/slot"
)

// ErrStackNotFound is returned when no stack with the requested name exists.
var ErrStackNotFound = slot.ErrStackNotFound

// SQLite implements slot.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ slot.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SaveStack inserts the stack or replaces the one with the same name.
// UpdatedAt is set to the current time when zero.
func (s *SQLite) SaveStack(ctx context.Context, st *slot.StoredStack) error {
	name := strings.TrimSpace(st.Name)
	if name == "" {
		return errors.New("stack name must not be empty")
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO stacks (name, mode, slot_count, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			mode = excluded.mode,
			slot_count = excluded.slot_count,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		name,
		st.Mode.String(),
		st.SlotCount,
		string(st.Payload),
		st.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving stack %q: %w", name, err)
	}
	st.Name = name

	return nil
}

// GetStack retrieves a stack by name.
func (s *SQLite) GetStack(ctx context.Context, name string) (*slot.StoredStack, error) {
	query := `
		SELECT name, mode, slot_count, payload, updated_at
		FROM stacks
		WHERE name = ?
	`

	st, err := scanStack(s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stack %q: %w", name, ErrStackNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying stack: %w", err)
	}

	return st, nil
}

// ListStacks returns all stacks ordered by name.
func (s *SQLite) ListStacks(ctx context.Context) ([]*slot.StoredStack, error) {
	query := `
		SELECT name, mode, slot_count, payload, updated_at
		FROM stacks
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying stacks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stacks []*slot.StoredStack
	for rows.Next() {
		st, err := scanStack(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning stack: %w", err)
		}
		stacks = append(stacks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stacks: %w", err)
	}

	return stacks, nil
}

// DeleteStack removes a stack by name.
func (s *SQLite) DeleteStack(ctx context.Context, name string) error {
	query := `DELETE FROM stacks WHERE name = ?`

	result, err := s.db.ExecContext(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting stack: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("stack %q: %w", name, ErrStackNotFound)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStack(row scanner) (*slot.StoredStack, error) {
	var (
		st        slot.StoredStack
		mode      string
		payload   string
		updatedAt string
	)
	if err := row.Scan(&st.Name, &mode, &st.SlotCount, &payload, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	st.Mode, err = slot.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("parsing mode: %w", err)
	}
	st.Payload = []byte(payload)
	st.UpdatedAt, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &st, nil
}

// parseTimestamp accepts RFC 3339 and the SQLite CURRENT_TIMESTAMP layout.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
