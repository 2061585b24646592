package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/hourblocks/internal/config"
	"github.com/runnerr0/hourblocks/internal/storage"
)

// Execute implements the go-flags Commander interface for CalendarsCommand.
func (c *CalendarsCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg, c.globals)

	store, db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(cfg.Calendars, store)
}

type calendarRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (c *CalendarsCommand) executeWithStore(feeds []config.ICSFeed, store storage.Store) error {
	ctx := context.Background()

	if c.Enable != "" || c.Disable != "" {
		return c.toggle(ctx, feeds, store)
	}

	enabled, err := store.EnabledCalendars(ctx)
	if err != nil {
		return fmt.Errorf("loading calendar preferences: %w", err)
	}

	rows := make([]calendarRow, 0, len(feeds))
	for _, feed := range feeds {
		on, known := enabled[feed.ID]
		rows = append(rows, calendarRow{ID: feed.ID, Name: feed.Name, Enabled: !known || on})
	}

	if c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No calendars configured")
		return nil
	}
	for _, row := range rows {
		state := "enabled"
		if !row.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-20s%-10s(%s)\n", row.Name, state, row.ID)
	}
	return nil
}

func (c *CalendarsCommand) toggle(ctx context.Context, feeds []config.ICSFeed, store storage.Store) error {
	id, target := c.Enable, true
	if c.Disable != "" {
		id, target = c.Disable, false
	}

	found := false
	for _, feed := range feeds {
		if feed.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no calendar with id %q", id)
	}

	enabled, err := store.EnabledCalendars(ctx)
	if err != nil {
		return fmt.Errorf("loading calendar preferences: %w", err)
	}

	// Write out an explicit entry for every configured feed so toggles
	// survive unaffected by later default changes.
	next := make(map[string]bool, len(feeds))
	for _, feed := range feeds {
		on, known := enabled[feed.ID]
		next[feed.ID] = !known || on
	}
	next[id] = target

	if err := store.SaveEnabledCalendars(ctx, next); err != nil {
		return fmt.Errorf("saving calendar preferences: %w", err)
	}

	state := "Enabled"
	if !target {
		state = "Disabled"
	}
	fmt.Printf("%s calendar %s\n", state, id)
	return nil
}
