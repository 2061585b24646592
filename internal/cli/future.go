package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/hourblocks/internal/schedule"
)

// Execute implements the go-flags Commander interface for FutureCommand.
func (c *FutureCommand) Execute(args []string) error {
	engine, _, cleanup, err := openEngine(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithEngine(engine, args)
}

func (c *FutureCommand) executeWithEngine(engine *schedule.Engine, args []string) error {
	switch {
	case c.Add:
		return c.addBlock(engine, args)
	case c.Remove != "":
		return c.removeBlock(engine)
	default:
		return c.listBlocks(engine)
	}
}

func (c *FutureCommand) addBlock(engine *schedule.Engine, args []string) error {
	title := strings.TrimSpace(strings.Join(append([]string{c.Title}, args...), " "))
	if title == "" {
		return fmt.Errorf("a block title is required")
	}
	if c.Day == "" {
		return fmt.Errorf("--day is required when adding a future block")
	}
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}
	if err := validateHour(c.Hour); err != nil {
		return err
	}
	sub, err := parseSubdivision(c.Minute)
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine.ReloadFuture(ctx)
	engine.Flush()

	block := engine.AddFutureSlot(ctx, day, c.Hour, sub, title)
	fmt.Printf("Added %s %s: %s\n", block.Day.Format("2006-01-02"), block.FormattedTime(), block.Title)
	return nil
}

func (c *FutureCommand) removeBlock(engine *schedule.Engine) error {
	ctx := context.Background()
	engine.ReloadFuture(ctx)
	engine.Flush()

	for _, block := range engine.Future() {
		if block.ID == c.Remove {
			engine.RemoveFutureSlot(ctx, block)
			fmt.Printf("Removed %s %s: %s\n", block.Day.Format("2006-01-02"), block.FormattedTime(), block.Title)
			return nil
		}
	}
	return fmt.Errorf("no future block with id %q", c.Remove)
}

func (c *FutureCommand) listBlocks(engine *schedule.Engine) error {
	engine.ReloadFuture(context.Background())
	engine.Flush()

	future := engine.Future()

	if c.globals.JSON {
		rows := []blockRow{}
		for _, block := range future {
			row := rowFor(block)
			row.Time = block.Day.Format("2006-01-02") + " " + row.Time
			rows = append(rows, row)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(future) == 0 {
		fmt.Println("No upcoming blocks")
		return nil
	}
	for _, block := range future {
		label := ""
		if block.Domain != nil {
			label = " [" + block.Domain.Key + "]"
		}
		fmt.Printf("%s  %-8s%s%s  (%s)\n",
			block.Day.Format("2006-01-02"), block.FormattedTime(), block.Title, label, block.ID)
	}
	return nil
}
