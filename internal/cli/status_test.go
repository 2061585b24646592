package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/hourblocks/internal/config"
	"github.com/runnerr0/hourblocks/internal/grid"
)

func TestStatusShowsCounts(t *testing.T) {
	engine, store := openTestEngine(t)
	engine.ReloadToday(context.Background())
	engine.SetTodaySlot(context.Background(), 19, grid.OClock, "Dinner")
	engine.AddSubBlock(context.Background(), 19, "Book a table")
	engine.Flush()

	cfg := config.DefaultConfig()
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "test"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(cfg, store))
	})

	assert.Contains(t, output, "hourblocks test")
	assert.Contains(t, output, "Blocks:             1")
	assert.Contains(t, output, "Sub-blocks:         1")
	assert.Contains(t, output, "food")
}

func TestStatusJSON(t *testing.T) {
	_, store := openTestEngine(t)

	cfg := config.DefaultConfig()
	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(cfg, store))
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "1.0.0", decoded["version"])
	assert.Equal(t, float64(0), decoded["blocks"])
	assert.Equal(t, float64(7), decoded["future_horizon"])
}
