package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dayFormat is the canonical day-identity encoding used in the database.
const dayFormat = "2006-01-02"

// Store defines the interface for hourblocks data operations.
type Store interface {
	ListBlocks(ctx context.Context) ([]BlockRecord, error)
	SaveBlock(ctx context.Context, record *BlockRecord) error
	DeleteBlock(ctx context.Context, id string) error

	ListSubBlocks(ctx context.Context, day time.Time, hour int) ([]SubBlockRecord, error)
	AddSubBlock(ctx context.Context, record *SubBlockRecord) error
	DeleteSubBlock(ctx context.Context, id string) error

	EnabledCalendars(ctx context.Context) (map[string]bool, error)
	SaveEnabledCalendars(ctx context.Context, enabled map[string]bool) error

	SaveSuggestion(ctx context.Context, domainKey string, hour int) error
	Suggestions(ctx context.Context) (map[string]int, error)

	GetStats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertBlock    *sql.Stmt
	deleteBlock    *sql.Stmt
	listBlocks     *sql.Stmt
	insertSubBlock *sql.Stmt
	deleteSubBlock *sql.Stmt
	listSubBlocks  *sql.Stmt
	upsertSugg     *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertBlock, err = s.db.Prepare(`
		INSERT INTO blocks (id, day, hour, subdivision, title)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			day = excluded.day,
			hour = excluded.hour,
			subdivision = excluded.subdivision,
			title = excluded.title,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.deleteBlock, err = s.db.Prepare(`DELETE FROM blocks WHERE id = ?`)
	if err != nil {
		return err
	}

	s.listBlocks, err = s.db.Prepare(`
		SELECT id, day, hour, subdivision, title FROM blocks
	`)
	if err != nil {
		return err
	}

	s.insertSubBlock, err = s.db.Prepare(`
		INSERT INTO sub_blocks (id, day, hour, content) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.deleteSubBlock, err = s.db.Prepare(`DELETE FROM sub_blocks WHERE id = ?`)
	if err != nil {
		return err
	}

	s.listSubBlocks, err = s.db.Prepare(`
		SELECT id, day, hour, content, created_at FROM sub_blocks
		WHERE day = ? AND hour = ?
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return err
	}

	s.upsertSugg, err = s.db.Prepare(`
		INSERT INTO suggestions (domain_key, hour) VALUES (?, ?)
		ON CONFLICT(domain_key) DO UPDATE SET
			hour = excluded.hour,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	return nil
}

// formatDay encodes a day identity, discarding any time-of-day component.
func formatDay(day time.Time) string {
	return day.Format(dayFormat)
}

// parseDay decodes a stored day identity into a local-midnight time.Time.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse day: %s", s)
	}
	return t, nil
}

// parseTimestamp tries the common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// ListBlocks returns every persisted block record, across all days.
func (s *SQLiteStore) ListBlocks(ctx context.Context) ([]BlockRecord, error) {
	rows, err := s.listBlocks.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	records := []BlockRecord{}
	for rows.Next() {
		var r BlockRecord
		var dayStr string
		if err := rows.Scan(&r.ID, &dayStr, &r.Hour, &r.Subdivision, &r.Title); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		if r.Day, err = parseDay(dayStr); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// SaveBlock inserts or updates a block record. A missing ID is populated
// with a fresh UUID.
func (s *SQLiteStore) SaveBlock(ctx context.Context, record *BlockRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := s.insertBlock.ExecContext(ctx,
		record.ID, formatDay(record.Day), record.Hour, record.Subdivision, record.Title,
	)
	if err != nil {
		return fmt.Errorf("save block: %w", err)
	}
	return nil
}

// DeleteBlock removes a block record by ID. Deleting an unknown ID is not
// an error; reload cleanup may race a prior delete.
func (s *SQLiteStore) DeleteBlock(ctx context.Context, id string) error {
	if _, err := s.deleteBlock.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

// ListSubBlocks returns the sub-blocks for one (day, hour) pair in
// insertion order.
func (s *SQLiteStore) ListSubBlocks(ctx context.Context, day time.Time, hour int) ([]SubBlockRecord, error) {
	rows, err := s.listSubBlocks.QueryContext(ctx, formatDay(day), hour)
	if err != nil {
		return nil, fmt.Errorf("query sub-blocks: %w", err)
	}
	defer rows.Close()

	records := []SubBlockRecord{}
	for rows.Next() {
		var r SubBlockRecord
		var dayStr, createdStr string
		if err := rows.Scan(&r.ID, &dayStr, &r.Hour, &r.Content, &createdStr); err != nil {
			return nil, fmt.Errorf("scan sub-block: %w", err)
		}
		if r.Day, err = parseDay(dayStr); err != nil {
			return nil, err
		}
		r.Created, _ = parseTimestamp(createdStr)
		records = append(records, r)
	}

	return records, rows.Err()
}

// AddSubBlock inserts a sub-block record. A missing ID is populated with
// a fresh UUID.
func (s *SQLiteStore) AddSubBlock(ctx context.Context, record *SubBlockRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := s.insertSubBlock.ExecContext(ctx,
		record.ID, formatDay(record.Day), record.Hour, record.Content,
	)
	if err != nil {
		return fmt.Errorf("add sub-block: %w", err)
	}
	return nil
}

// DeleteSubBlock removes a sub-block record by ID.
func (s *SQLiteStore) DeleteSubBlock(ctx context.Context, id string) error {
	if _, err := s.deleteSubBlock.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("delete sub-block: %w", err)
	}
	return nil
}

// EnabledCalendars returns the calendarID -> enabled map. Calendars absent
// from the map are treated as enabled by callers.
func (s *SQLiteStore) EnabledCalendars(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT calendar_id, enabled FROM calendars")
	if err != nil {
		return nil, fmt.Errorf("query calendars: %w", err)
	}
	defer rows.Close()

	enabled := make(map[string]bool)
	for rows.Next() {
		var id string
		var on bool
		if err := rows.Scan(&id, &on); err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		enabled[id] = on
	}

	return enabled, rows.Err()
}

// SaveEnabledCalendars replaces the stored calendar enablement map in a
// single transaction.
func (s *SQLiteStore) SaveEnabledCalendars(ctx context.Context, enabled map[string]bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM calendars"); err != nil {
		return fmt.Errorf("clear calendars: %w", err)
	}

	for id, on := range enabled {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO calendars (calendar_id, enabled) VALUES (?, ?)", id, on,
		); err != nil {
			return fmt.Errorf("insert calendar %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// SaveSuggestion upserts the suggested hour for a domain.
func (s *SQLiteStore) SaveSuggestion(ctx context.Context, domainKey string, hour int) error {
	if _, err := s.upsertSugg.ExecContext(ctx, domainKey, hour); err != nil {
		return fmt.Errorf("save suggestion: %w", err)
	}
	return nil
}

// Suggestions returns the full domainKey -> hour map.
func (s *SQLiteStore) Suggestions(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT domain_key, hour FROM suggestions")
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make(map[string]int)
	for rows.Next() {
		var key string
		var hour int
		if err := rows.Scan(&key, &hour); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions[key] = hour
	}

	return suggestions, rows.Err()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blocks").Scan(&stats.TotalBlocks); err != nil {
		return nil, fmt.Errorf("count blocks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sub_blocks").Scan(&stats.TotalSubBlocks); err != nil {
		return nil, fmt.Errorf("count sub-blocks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendars").Scan(&stats.TrackedCalendars); err != nil {
		return nil, fmt.Errorf("count calendars: %w", err)
	}

	suggestions, err := s.Suggestions(ctx)
	if err != nil {
		return nil, err
	}
	stats.Suggestions = suggestions

	return stats, nil
}

// PurgeAll deletes all hourblocks data.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM blocks",
		"DELETE FROM sub_blocks",
		"DELETE FROM suggestions",
		"DELETE FROM calendars",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed — that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertBlock, s.deleteBlock, s.listBlocks,
		s.insertSubBlock, s.deleteSubBlock, s.listSubBlocks,
		s.upsertSugg,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
