package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/hourblocks/internal/schedule"
)

// Execute implements the go-flags Commander interface for SubCommand.
func (c *SubCommand) Execute(args []string) error {
	engine, _, cleanup, err := openEngine(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithEngine(engine)
}

func (c *SubCommand) executeWithEngine(engine *schedule.Engine) error {
	if err := validateHour(c.Hour); err != nil {
		return err
	}
	ctx := context.Background()

	if content := strings.TrimSpace(c.Add); content != "" {
		record := engine.AddSubBlock(ctx, c.Hour, content)
		fmt.Printf("Added sub-block %s: %s\n", record.ID, record.Content)
		return nil
	}

	if c.Remove != "" {
		for _, record := range engine.SubBlocksForHour(ctx, c.Hour) {
			if record.ID == c.Remove {
				engine.RemoveSubBlock(ctx, record)
				fmt.Printf("Removed sub-block: %s\n", record.Content)
				return nil
			}
		}
		return fmt.Errorf("no sub-block with id %q at hour %d", c.Remove, c.Hour)
	}

	records := engine.SubBlocksForHour(ctx, c.Hour)
	if len(records) == 0 {
		fmt.Printf("No sub-blocks at hour %d\n", c.Hour)
		return nil
	}
	for _, record := range records {
		fmt.Printf("- %s  (%s)\n", record.Content, record.ID)
	}
	return nil
}
