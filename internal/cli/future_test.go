package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureAddAndList(t *testing.T) {
	engine, _ := openTestEngine(t)

	add := &FutureCommand{Add: true, Day: "2026-09-02", Hour: 15, Title: "Dentist appointment", globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, add.executeWithEngine(engine, nil))
	})
	assert.Contains(t, output, "Added 2026-09-02 3PM: Dentist appointment")

	list := &FutureCommand{globals: &GlobalFlags{}}
	output = captureOutput(t, func() {
		require.NoError(t, list.executeWithEngine(engine, nil))
	})
	assert.Contains(t, output, "2026-09-02")
	assert.Contains(t, output, "Dentist appointment")
	assert.Contains(t, output, "[health]")
}

func TestFutureListEmpty(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &FutureCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEngine(engine, nil))
	})
	assert.Contains(t, output, "No upcoming blocks")
}

func TestFutureAddRequiresDayAndTitle(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &FutureCommand{Add: true, Hour: 15, Title: "Dentist", globals: &GlobalFlags{}}
	err := cmd.executeWithEngine(engine, nil)
	assert.ErrorContains(t, err, "--day")

	cmd = &FutureCommand{Add: true, Day: "2026-09-02", Hour: 15, globals: &GlobalFlags{}}
	err = cmd.executeWithEngine(engine, nil)
	assert.ErrorContains(t, err, "title")
}

func TestFutureAddRejectsBadDay(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &FutureCommand{Add: true, Day: "tomorrow", Hour: 15, Title: "Dentist", globals: &GlobalFlags{}}
	err := cmd.executeWithEngine(engine, nil)
	assert.ErrorContains(t, err, "invalid day")
}

func TestFutureRemoveByID(t *testing.T) {
	engine, store := openTestEngine(t)

	add := &FutureCommand{Add: true, Day: "2026-09-02", Hour: 15, Title: "Dentist", globals: &GlobalFlags{}}
	require.NoError(t, add.executeWithEngine(engine, nil))
	engine.Flush()

	records, err := store.ListBlocks(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rm := &FutureCommand{Remove: records[0].ID, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, rm.executeWithEngine(engine, nil))
	})
	assert.Contains(t, output, "Removed 2026-09-02")

	records, err = store.ListBlocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFutureRemoveUnknownID(t *testing.T) {
	engine, _ := openTestEngine(t)

	cmd := &FutureCommand{Remove: "nope", globals: &GlobalFlags{}}
	err := cmd.executeWithEngine(engine, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no future block"))
}
