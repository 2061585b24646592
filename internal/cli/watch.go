package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Execute implements the go-flags Commander interface for WatchCommand.
// It renders today's schedule, then re-imports and re-renders on the
// configured cron cadence until interrupted.
func (c *WatchCommand) Execute(args []string) error {
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

	engine := newEngine(cfg, store)
	defer engine.Flush()

	spec := cfg.Schedule.WatchCron
	if c.Cron != "" {
		spec = c.Cron
	}

	refresh := func() {
		ctx := context.Background()
		engine.ReloadToday(ctx)
		engine.ReloadFuture(ctx)
		if err := renderToday(engine, false, c.globals.JSON); err != nil {
			log.Warn().Err(err).Msg("failed to render schedule")
		}
	}
	refresh()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info().Str("cron", spec).Msg("watching schedule")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return nil
}
