package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/hourblocks/internal/grid"
	"github.com/runnerr0/hourblocks/internal/storage"
	"github.com/runnerr0/hourblocks/internal/taxonomy"
)

// Block is one addressable slot of the schedule. An empty title means an
// empty slot. Domain is derived from the title on construction and never
// persisted; HasReminder is transient and resets on every reload.
type Block struct {
	ID          string
	Day         time.Time
	Hour        int
	Subdivision grid.Subdivision
	Title       string
	Domain      *taxonomy.Domain
	HasReminder bool
}

// NewBlock constructs a block with a fresh identifier and a domain
// classified from the title.
func NewBlock(day time.Time, hour int, sub grid.Subdivision, title string) Block {
	return Block{
		ID:          uuid.NewString(),
		Day:         day,
		Hour:        hour,
		Subdivision: sub,
		Title:       title,
		Domain:      taxonomy.Classify(title),
	}
}

// blockFromRecord rebuilds a block from its persisted record, recomputing
// the domain from the stored title.
func blockFromRecord(rec storage.BlockRecord) Block {
	return Block{
		ID:          rec.ID,
		Day:         rec.Day,
		Hour:        rec.Hour,
		Subdivision: grid.Subdivision(rec.Subdivision),
		Title:       rec.Title,
		Domain:      taxonomy.Classify(rec.Title),
	}
}

// Record converts the block into its persistable form.
func (b Block) Record() storage.BlockRecord {
	return storage.BlockRecord{
		ID:          b.ID,
		Day:         b.Day,
		Hour:        b.Hour,
		Subdivision: int(b.Subdivision),
		Title:       b.Title,
	}
}

// Empty reports whether the slot carries no title.
func (b Block) Empty() bool {
	return b.Title == ""
}

// FormattedTime renders the block's position on the 12-hour clock.
func (b Block) FormattedTime() string {
	return grid.FormattedTime(b.Hour, b.Subdivision)
}
