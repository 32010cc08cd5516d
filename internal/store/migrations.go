package store

import (
	"fmt"
	"strings"
)

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			reset_token VARCHAR(64) NULL,
			reset_token_expiry TIMESTAMP NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS game_results (
			id VARCHAR(36) PRIMARY KEY,
			date VARCHAR(16) NOT NULL,
			time VARCHAR(32) NOT NULL,
			number VARCHAR(8) NOT NULL,
			bottom_number VARCHAR(8) NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(128) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			email VARCHAR(128) NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX idx_admins_reset_token ON admins(reset_token)`,
		`CREATE INDEX idx_game_results_date ON game_results(date)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// MySQL lacks CREATE INDEX IF NOT EXISTS; treat re-creating an
			// existing index as a no-op so migrations stay idempotent.
			lower := strings.ToLower(err.Error())
			if strings.Contains(lower, "already exists") ||
				strings.Contains(lower, "duplicate key name") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
