package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/runnerr0/hourblocks/internal/calendar"
	"github.com/runnerr0/hourblocks/internal/config"
	"github.com/runnerr0/hourblocks/internal/grid"
	"github.com/runnerr0/hourblocks/internal/schedule"
	"github.com/runnerr0/hourblocks/internal/storage"
)

// loadConfig resolves the config file: the --config override if given,
// otherwise the default path (created with defaults on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// setupLogging configures the global zerolog logger from config and the
// --verbose flag.
func setupLogging(cfg *config.Config, globals *GlobalFlags) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		level = parsed
	}
	if globals.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// openStore opens the configured SQLite database, runs migrations, and
// returns a ready-to-use store and the underlying *sql.DB.
func openStore(cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// scheduleLocation resolves the configured timezone, defaulting to local.
func scheduleLocation(cfg *config.Config) *time.Location {
	if cfg.Schedule.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Schedule.Timezone).Msg("invalid timezone, using local")
		return time.Local
	}
	return loc
}

// newEngine wires the schedule engine: the SQLite store plus an ICS
// calendar source built from the configured feeds.
func newEngine(cfg *config.Config, store *storage.SQLiteStore) *schedule.Engine {
	feeds := make([]calendar.Feed, 0, len(cfg.Calendars))
	for _, f := range cfg.Calendars {
		feeds = append(feeds, calendar.Feed{ID: f.ID, Name: f.Name, URL: f.URL})
	}

	source := calendar.NewICSSource(feeds, store, scheduleLocation(cfg))
	return schedule.New(store, source, schedule.WithFutureHorizon(cfg.Schedule.FutureHorizonDays))
}

// openEngine is the common setup path of most commands: config, logging,
// store, engine. The returned cleanup closes the store and database.
func openEngine(globals *GlobalFlags) (*schedule.Engine, *storage.SQLiteStore, func(), error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg, globals)

	store, db, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	engine := newEngine(cfg, store)
	cleanup := func() {
		engine.Flush()
		store.Close()
		db.Close()
	}
	return engine, store, cleanup, nil
}

// parseSubdivision validates a --minute flag value.
func parseSubdivision(minute int) (grid.Subdivision, error) {
	sub, ok := grid.FromMinute(minute)
	if !ok {
		return grid.OClock, fmt.Errorf("invalid minute %d (use 0, 15, 30 or 45)", minute)
	}
	return sub, nil
}

// validateHour validates an --hour flag value.
func validateHour(hour int) error {
	if hour < 0 || hour >= grid.HoursPerDay {
		return fmt.Errorf("invalid hour %d (use 0-23)", hour)
	}
	return nil
}

// parseDay parses a --day flag value.
func parseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (use YYYY-MM-DD)", s)
	}
	return day, nil
}
