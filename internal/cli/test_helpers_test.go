package cli

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/hourblocks/internal/schedule"
	"github.com/runnerr0/hourblocks/internal/storage"
)

// cliTestNow is the fixed wall clock used by CLI tests: a Saturday at 10:30.
var cliTestNow = time.Date(2026, time.August, 29, 10, 30, 0, 0, time.Local)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestStore opens an in-memory SQLite store with migrations applied.
func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// openTestEngine builds an engine on an in-memory store with a fixed clock
// and no calendar source.
func openTestEngine(t *testing.T) (*schedule.Engine, *storage.SQLiteStore) {
	t.Helper()

	store := openTestStore(t)
	engine := schedule.New(store, nil, schedule.WithClock(func() time.Time { return cliTestNow }))
	t.Cleanup(engine.Flush)
	return engine, store
}
