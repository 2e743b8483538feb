package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS stacks (
			name        TEXT PRIMARY KEY,
			mode        TEXT NOT NULL DEFAULT 'single' CHECK(mode IN ('single', 'dual')),
			slot_count  INTEGER NOT NULL DEFAULT 0,
			payload     TEXT NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_stacks_updated ON stacks(updated_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating stacks table: %w", err)
	}

	return nil
}
