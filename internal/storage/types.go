package storage

import "time"

// BlockRecord is a persisted hour-block entry. Only non-empty blocks are
// stored; the dense today grid is rebuilt in memory on every reload.
type BlockRecord struct {
	ID          string
	Day         time.Time // day identity only; time-of-day is ignored
	Hour        int
	Subdivision int
	Title       string
}

// SubBlockRecord is a short free-text task attached to an hour,
// independent of the hour's block title.
type SubBlockRecord struct {
	ID      string
	Day     time.Time
	Hour    int
	Content string
	Created time.Time
}

// Stats holds aggregate statistics about the hourblocks database.
type Stats struct {
	TotalBlocks      int64
	TotalSubBlocks   int64
	TrackedCalendars int64
	Suggestions      map[string]int
}
