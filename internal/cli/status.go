package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/runnerr0/hourblocks/internal/config"
	"github.com/runnerr0/hourblocks/internal/storage"
)

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
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

	return c.executeWithStore(cfg, store)
}

func (c *StatusCommand) executeWithStore(cfg *config.Config, store storage.Store) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("reading statistics: %w", err)
	}

	if c.globals.JSON {
		out := map[string]interface{}{
			"version":           c.version,
			"blocks":            stats.TotalBlocks,
			"sub_blocks":        stats.TotalSubBlocks,
			"tracked_calendars": stats.TrackedCalendars,
			"suggestions":       stats.Suggestions,
			"calendars":         len(cfg.Calendars),
			"future_horizon":    cfg.Schedule.FutureHorizonDays,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("hourblocks %s\n\n", c.version)
	fmt.Printf("Blocks:             %d\n", stats.TotalBlocks)
	fmt.Printf("Sub-blocks:         %d\n", stats.TotalSubBlocks)
	fmt.Printf("Tracked calendars:  %d\n", stats.TrackedCalendars)
	fmt.Printf("Configured feeds:   %d\n", len(cfg.Calendars))
	fmt.Printf("Future horizon:     %d days\n", cfg.Schedule.FutureHorizonDays)

	if len(stats.Suggestions) > 0 {
		fmt.Println("\nSuggested hours:")
		keys := make([]string, 0, len(stats.Suggestions))
		for key := range stats.Suggestions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %-16s%d\n", key, stats.Suggestions[key])
		}
	}
	return nil
}
