package schedule

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/runnerr0/hourblocks/internal/storage"
)

// Sub-blocks are short free-text tasks attached to an hour of today,
// independent of the hour's block title. They persist on their own and do
// not take part in the grid rebuild or in domain classification.

// SubBlocksForHour lists today's sub-blocks for an hour in insertion
// order. A read failure degrades to an empty list.
func (e *Engine) SubBlocksForHour(ctx context.Context, hour int) []storage.SubBlockRecord {
	records, err := e.store.ListSubBlocks(ctx, e.now(), hour)
	if err != nil {
		log.Warn().Err(err).Int("hour", hour).Msg("failed to load sub-blocks")
		return []storage.SubBlockRecord{}
	}
	return records
}

// AddSubBlock attaches a new sub-block to an hour of today.
func (e *Engine) AddSubBlock(ctx context.Context, hour int, content string) storage.SubBlockRecord {
	record := storage.SubBlockRecord{
		Day:     e.now(),
		Hour:    hour,
		Content: content,
	}
	if err := e.store.AddSubBlock(ctx, &record); err != nil {
		log.Warn().Err(err).Int("hour", hour).Msg("failed to persist sub-block")
	}
	return record
}

// RemoveSubBlock deletes a sub-block by identity.
func (e *Engine) RemoveSubBlock(ctx context.Context, record storage.SubBlockRecord) {
	if err := e.store.DeleteSubBlock(ctx, record.ID); err != nil {
		log.Warn().Err(err).Str("id", record.ID).Msg("failed to delete sub-block")
	}
}
