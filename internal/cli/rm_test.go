package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/hourblocks/internal/grid"
)

func TestRmClearsScheduledSlot(t *testing.T) {
	engine, store := openTestEngine(t)
	engine.ReloadToday(context.Background())
	engine.SetTodaySlot(context.Background(), 19, grid.OClock, "Dinner")

	cmd := &RmCommand{Hour: 19, Minute: 0, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	assert.Contains(t, output, "Cleared 7PM: Dinner")

	records, err := store.ListBlocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRmEmptySlot(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &RmCommand{Hour: 8, Minute: 15, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine))
	})

	assert.Contains(t, output, "Nothing scheduled at 8:15AM")
}

func TestRmRejectsInvalidHour(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &RmCommand{Hour: -1, globals: &GlobalFlags{}}
	err := cmd.executeWithEngine(engine)
	assert.ErrorContains(t, err, "invalid hour")
}

func TestRmLeavesOtherSubdivisionsAlone(t *testing.T) {
	engine, store := openTestEngine(t)
	engine.ReloadToday(context.Background())
	engine.SetTodaySlot(context.Background(), 19, grid.OClock, "Dinner")
	engine.SetTodaySlot(context.Background(), 19, grid.Half, "Dessert")

	cmd := &RmCommand{Hour: 19, Minute: 0, globals: &GlobalFlags{}}
	require.NoError(t, cmd.executeWithEngine(engine))

	records, err := store.ListBlocks(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dessert", records[0].Title)
}
