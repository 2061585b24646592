package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/hourblocks/internal/grid"
	"github.com/runnerr0/hourblocks/internal/schedule"
)

// Execute implements the go-flags Commander interface for RmCommand.
func (c *RmCommand) Execute(args []string) error {
	engine, _, cleanup, err := openEngine(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithEngine(engine)
}

func (c *RmCommand) executeWithEngine(engine *schedule.Engine) error {
	if err := validateHour(c.Hour); err != nil {
		return err
	}
	sub, err := parseSubdivision(c.Minute)
	if err != nil {
		return err
	}

	engine.ReloadToday(context.Background())

	current := engine.Today()[grid.SlotIndex(c.Hour, sub)]
	if current.Empty() {
		fmt.Printf("Nothing scheduled at %s\n", current.FormattedTime())
		return nil
	}

	engine.RemoveTodaySlot(context.Background(), c.Hour, sub)
	fmt.Printf("Cleared %s: %s\n", current.FormattedTime(), current.Title)
	return nil
}
