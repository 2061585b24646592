package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/hourblocks/internal/schedule"
	"github.com/runnerr0/hourblocks/internal/taxonomy"
)

// Execute implements the go-flags Commander interface for SetCommand.
func (c *SetCommand) Execute(args []string) error {
	engine, _, cleanup, err := openEngine(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithEngine(engine, args)
}

func (c *SetCommand) executeWithEngine(engine *schedule.Engine, args []string) error {
	title := strings.TrimSpace(strings.Join(append([]string{c.Title}, args...), " "))
	if title == "" {
		return fmt.Errorf("a block title is required")
	}

	engine.ReloadToday(context.Background())

	hour := c.Hour
	if hour < 0 {
		suggested, ok := suggestedHourFor(engine, title)
		if !ok {
			return fmt.Errorf("no --hour given and no suggestion available for %q", title)
		}
		hour = suggested
	}
	if err := validateHour(hour); err != nil {
		return err
	}
	sub, err := parseSubdivision(c.Minute)
	if err != nil {
		return err
	}

	block := engine.SetTodaySlot(context.Background(), hour, sub, title)

	fmt.Printf("Set %s: %s\n", block.FormattedTime(), block.Title)
	return nil
}

// suggestedHourFor resolves the habit-based hour suggestion for a title's
// classified domain.
func suggestedHourFor(engine *schedule.Engine, title string) (int, bool) {
	domain := taxonomy.Classify(title)
	if domain == nil {
		return 0, false
	}
	return engine.SuggestedHour(domain.Key)
}
