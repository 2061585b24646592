package storage

import "database/sql"

// migrateV001 creates the initial hourblocks schema: persisted blocks,
// sub-blocks, domain suggestions and the per-calendar enablement map.
// Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS blocks (
			id          TEXT PRIMARY KEY,
			day         TEXT NOT NULL,
			hour        INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
			subdivision INTEGER NOT NULL DEFAULT 0 CHECK (subdivision BETWEEN 0 AND 3),
			title       TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS sub_blocks (
			id         TEXT PRIMARY KEY,
			day        TEXT NOT NULL,
			hour       INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS suggestions (
			domain_key TEXT PRIMARY KEY,
			hour       INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS calendars (
			calendar_id TEXT PRIMARY KEY,
			enabled     BOOLEAN NOT NULL DEFAULT 1,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_blocks_day          ON blocks(day)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_day_hour     ON blocks(day, hour)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_blocks_day_hour ON sub_blocks(day, hour)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
