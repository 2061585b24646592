package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/hourblocks/internal/grid"
)

func TestTodayRendersScheduledBlocks(t *testing.T) {
	engine, _ := openTestEngine(t)
	engine.ReloadToday(context.Background())
	engine.SetTodaySlot(context.Background(), 19, grid.OClock, "Dinner with friends")

	cmd := &TodayCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	assert.Contains(t, output, "7PM")
	assert.Contains(t, output, "Dinner with friends")
	assert.Contains(t, output, "[food]")
}

func TestTodayEmptySchedule(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &TodayCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	assert.Contains(t, output, "Nothing scheduled today")
}

func TestTodayAllShowsEverySlot(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &TodayCommand{All: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	assert.Len(t, lines, grid.SlotsPerDay)
	assert.Contains(t, output, "12AM")
	assert.Contains(t, output, "11:45PM")
}

func TestTodayNext(t *testing.T) {
	engine, _ := openTestEngine(t)
	engine.ReloadToday(context.Background())
	// 8AM is in the past at the fixed 10:30 clock; 2:30PM is upcoming.
	engine.SetTodaySlot(context.Background(), 8, grid.OClock, "Breakfast")
	engine.SetTodaySlot(context.Background(), 14, grid.Half, "Workout")

	cmd := &TodayCommand{Next: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	assert.Contains(t, output, "2:30PM")
	assert.Contains(t, output, "Workout")
	assert.NotContains(t, output, "Breakfast")
}

func TestTodayJSONOutput(t *testing.T) {
	engine, _ := openTestEngine(t)
	engine.ReloadToday(context.Background())
	engine.SetTodaySlot(context.Background(), 9, grid.Quarter, "Team meeting")

	cmd := &TodayCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	var decoded struct {
		AllDay string     `json:"all_day"`
		Blocks []blockRow `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	require.Len(t, decoded.Blocks, 1)
	assert.Equal(t, "Team meeting", decoded.Blocks[0].Title)
	assert.Equal(t, 9, decoded.Blocks[0].Hour)
	assert.Equal(t, 15, decoded.Blocks[0].Minute)
	assert.Equal(t, "work", decoded.Blocks[0].Domain)
}
