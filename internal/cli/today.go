package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/hourblocks/internal/schedule"
)

// Execute implements the go-flags Commander interface for TodayCommand.
func (c *TodayCommand) Execute(args []string) error {
	engine, _, cleanup, err := openEngine(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithEngine(engine)
}

// executeWithEngine runs the today logic against a provided engine (used by tests).
func (c *TodayCommand) executeWithEngine(engine *schedule.Engine) error {
	engine.ReloadToday(context.Background())

	if c.Next {
		return renderUpcoming(engine, c.globals.JSON)
	}
	return renderToday(engine, c.All, c.globals.JSON)
}

// blockRow is the JSON shape of one rendered block.
type blockRow struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Title    string `json:"title"`
	Domain   string `json:"domain,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Reminder bool   `json:"reminder,omitempty"`
}

func rowFor(block schedule.Block) blockRow {
	row := blockRow{
		ID:       block.ID,
		Time:     block.FormattedTime(),
		Hour:     block.Hour,
		Minute:   block.Subdivision.Minute(),
		Title:    block.Title,
		Reminder: block.HasReminder,
	}
	if block.Domain != nil {
		row.Domain = block.Domain.Key
		row.Icon = block.Domain.Icon
	}
	return row
}

// renderToday prints the 96-slot grid; empty slots are skipped unless all
// is set. Shared with the watch command.
func renderToday(engine *schedule.Engine, all, jsonOut bool) error {
	today := engine.Today()
	allDay := engine.AllDayEvent()

	if jsonOut {
		rows := []blockRow{}
		for _, block := range today {
			if block.Empty() && !all {
				continue
			}
			rows = append(rows, rowFor(block))
		}
		out := map[string]interface{}{
			"all_day": allDay,
			"blocks":  rows,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if allDay != "" {
		fmt.Printf("All day: %s\n\n", allDay)
	}

	shown := 0
	for _, block := range today {
		if block.Empty() && !all {
			continue
		}
		label := ""
		if block.Domain != nil {
			label = " [" + block.Domain.Key + "]"
		}
		fmt.Printf("%-8s%s%s\n", block.FormattedTime(), block.Title, label)
		shown++
	}

	if shown == 0 {
		fmt.Println("Nothing scheduled today")
	}
	return nil
}

// renderUpcoming prints the next non-empty block at or after the current hour.
func renderUpcoming(engine *schedule.Engine, jsonOut bool) error {
	upcoming := engine.Upcoming()

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if upcoming == nil {
			return enc.Encode(nil)
		}
		return enc.Encode(rowFor(*upcoming))
	}

	if upcoming == nil {
		fmt.Println("Nothing scheduled today")
		return nil
	}
	fmt.Printf("%s  %s\n", upcoming.FormattedTime(), upcoming.Title)
	return nil
}
