package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/runnerr0/hourblocks/internal/calendar"
	"github.com/runnerr0/hourblocks/internal/grid"
	"github.com/runnerr0/hourblocks/internal/storage"
	"github.com/runnerr0/hourblocks/internal/taxonomy"
)

// defaultFutureHorizonDays bounds how far ahead future calendar events are
// imported.
const defaultFutureHorizonDays = 7

// Engine reconciles three sources of truth for the day grid — imported
// calendar events, persisted user blocks and the empty 96-slot grid — into
// one in-memory schedule, and maintains a sparse list of future blocks.
//
// The reconciliation is a rebuild, never a patch: every ReloadToday
// produces a complete grid even when every backend fails. Precedence at a
// slot is user record over calendar event over empty.
type Engine struct {
	store    storage.Store
	source   calendar.Source
	recorder *taxonomy.Recorder
	now      func() time.Time
	horizon  int

	mu        sync.Mutex
	today     []Block
	future    []Block
	allDay    string
	futureGen uint64

	reloads sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of "now". Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFutureHorizon sets how many days ahead future events are imported.
func WithFutureHorizon(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.horizon = days
		}
	}
}

// New creates an Engine over the given store and calendar source. The
// source may be nil, in which case the schedule runs purely from
// persisted blocks.
func New(store storage.Store, source calendar.Source, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		source:   source,
		recorder: taxonomy.NewRecorder(store),
		now:      time.Now,
		horizon:  defaultFutureHorizonDays,
		today:    make([]Block, grid.SlotsPerDay),
		future:   []Block{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReloadToday rebuilds the dense today grid from scratch in three passes:
// empty slots, calendar-derived slots, then persisted records. Persisted
// records for past days are deleted as a cleanup side effect. No backend
// failure is propagated; each source that fails contributes nothing.
func (e *Engine) ReloadToday(ctx context.Context) {
	now := e.now()

	today := make([]Block, grid.SlotsPerDay)
	for hour := 0; hour < grid.HoursPerDay; hour++ {
		for sub := grid.OClock; sub <= grid.QuarterTo; sub++ {
			today[grid.SlotIndex(hour, sub)] = NewBlock(now, hour, sub, "")
		}
	}

	allDay := ""
	for _, ev := range e.importDay(ctx, now) {
		if ev.AllDay {
			if allDay == "" {
				allDay = ev.Title
			}
			continue
		}
		for hour := ev.StartingHour; hour <= ev.EndingHour && hour < grid.HoursPerDay; hour++ {
			for sub := grid.OClock; sub <= grid.QuarterTo; sub++ {
				block := NewBlock(now, hour, sub, ev.Title)
				block.Domain = taxonomy.Calendar()
				today[grid.SlotIndex(hour, sub)] = block
			}
		}
	}

	for _, rec := range e.listRecords(ctx) {
		switch {
		case sameDay(rec.Day, now):
			sub := grid.Subdivision(rec.Subdivision)
			if rec.Hour < 0 || rec.Hour >= grid.HoursPerDay || !sub.Valid() {
				continue
			}
			today[grid.SlotIndex(rec.Hour, sub)] = blockFromRecord(rec)
		case rec.Day.Before(startOfDay(now)):
			// Stale record from a past day; clean it up.
			if err := e.store.DeleteBlock(ctx, rec.ID); err != nil {
				log.Warn().Err(err).Str("id", rec.ID).Msg("failed to delete stale block")
			}
		}
	}

	e.mu.Lock()
	e.today = today
	e.allDay = allDay
	e.mu.Unlock()
}

// ReloadFuture rebuilds the sparse future list on a background goroutine
// and publishes the result atomically. A reload superseded by a newer one
// discards its result instead of publishing.
func (e *Engine) ReloadFuture(ctx context.Context) {
	e.mu.Lock()
	e.futureGen++
	gen := e.futureGen
	e.mu.Unlock()

	e.reloads.Add(1)
	go func() {
		defer e.reloads.Done()
		future := e.buildFuture(ctx)

		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.futureGen {
			return
		}
		e.future = future
	}()
}

// buildFuture assembles the future list: one calendar-derived block per
// future event, anchored at hour 0, followed by persisted blocks for days
// other than today.
func (e *Engine) buildFuture(ctx context.Context) []Block {
	now := e.now()

	future := []Block{}
	for offset := 1; offset <= e.horizon; offset++ {
		day := startOfDay(now).AddDate(0, 0, offset)
		for _, ev := range e.importDay(ctx, day) {
			block := NewBlock(ev.Day, 0, grid.OClock, ev.Title)
			block.Domain = taxonomy.Calendar()
			future = append(future, block)
		}
	}

	for _, rec := range e.listRecords(ctx) {
		if !sameDay(rec.Day, now) || rec.Day.After(now) {
			future = append(future, blockFromRecord(rec))
		}
	}

	return future
}

// importDay pulls and normalizes the calendar events for one day. Missing
// permission or an import failure degrades to zero events.
func (e *Engine) importDay(ctx context.Context, day time.Time) []calendar.Event {
	if e.source == nil || !e.source.HasPermission() {
		return nil
	}

	raws, err := e.source.ImportEvents(ctx, day)
	if err != nil {
		log.Warn().Err(err).Msg("calendar import failed")
		return nil
	}

	events := make([]calendar.Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, calendar.Normalize(raw))
	}
	return events
}

// listRecords reads all persisted blocks; a read failure degrades to
// "no persisted data".
func (e *Engine) listRecords(ctx context.Context) []storage.BlockRecord {
	records, err := e.store.ListBlocks(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted blocks")
		return nil
	}
	return records
}

// SetTodaySlot writes a new block at (hour, sub) in today's grid and
// persists it. When the title classifies into a domain, the domain's
// suggested hour is recorded fire-and-forget. Persistence failures are
// logged; the in-memory grid always reflects the edit.
func (e *Engine) SetTodaySlot(ctx context.Context, hour int, sub grid.Subdivision, title string) Block {
	block := NewBlock(e.now(), hour, sub, title)

	e.mu.Lock()
	e.today[grid.SlotIndex(hour, sub)] = block
	e.mu.Unlock()

	rec := block.Record()
	if err := e.store.SaveBlock(ctx, &rec); err != nil {
		log.Warn().Err(err).Int("hour", hour).Msg("failed to persist block")
	}

	if block.Domain != nil {
		e.recorder.Record(block.Domain.Key, hour)
	}

	return block
}

// RemoveTodaySlot clears the single slot at (hour, sub): the persisted
// record backing it is deleted and the slot reverts to empty. Other
// subdivisions of the hour are untouched.
func (e *Engine) RemoveTodaySlot(ctx context.Context, hour int, sub grid.Subdivision) {
	idx := grid.SlotIndex(hour, sub)

	e.mu.Lock()
	current := e.today[idx]
	e.today[idx] = NewBlock(e.now(), hour, sub, "")
	e.mu.Unlock()

	if err := e.store.DeleteBlock(ctx, current.ID); err != nil {
		log.Warn().Err(err).Str("id", current.ID).Msg("failed to delete block")
	}
}

// AddFutureSlot appends a persisted block to the future list. It never
// touches today's grid, even when day is today — today edits go through
// SetTodaySlot.
func (e *Engine) AddFutureSlot(ctx context.Context, day time.Time, hour int, sub grid.Subdivision, title string) Block {
	block := NewBlock(day, hour, sub, title)

	e.mu.Lock()
	e.future = append(e.future, block)
	e.mu.Unlock()

	rec := block.Record()
	if err := e.store.SaveBlock(ctx, &rec); err != nil {
		log.Warn().Err(err).Msg("failed to persist future block")
	}

	return block
}

// RemoveFutureSlot removes a block from the future list by identity and
// deletes its persisted record.
func (e *Engine) RemoveFutureSlot(ctx context.Context, block Block) {
	e.mu.Lock()
	kept := e.future[:0]
	for _, b := range e.future {
		if b.ID != block.ID {
			kept = append(kept, b)
		}
	}
	e.future = kept
	e.mu.Unlock()

	if err := e.store.DeleteBlock(ctx, block.ID); err != nil {
		log.Warn().Err(err).Str("id", block.ID).Msg("failed to delete future block")
	}
}

// SetReminder flips the transient reminder flag on the today block whose
// identity matches. The flag is never persisted.
func (e *Engine) SetReminder(status bool, block Block) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.today {
		if e.today[i].ID == block.ID {
			e.today[i].HasReminder = status
		}
	}
}

// Today returns a copy of the dense 96-slot today grid.
func (e *Engine) Today() []Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Block, len(e.today))
	copy(out, e.today)
	return out
}

// Future returns a copy of the sparse future list.
func (e *Engine) Future() []Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Block, len(e.future))
	copy(out, e.future)
	return out
}

// AllDayEvent returns the title of today's all-day event, or "".
func (e *Engine) AllDayEvent() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.allDay
}

// Upcoming returns the next non-empty today block at or after the current
// hour, or nil when nothing further is scheduled.
func (e *Engine) Upcoming() *Block {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	for idx := grid.SlotIndex(now.Hour(), grid.OClock); idx < len(e.today); idx++ {
		if !e.today[idx].Empty() {
			block := e.today[idx]
			return &block
		}
	}
	return nil
}

// SuggestedHour returns the recorded suggested hour for a domain, if any.
func (e *Engine) SuggestedHour(domainKey string) (int, bool) {
	return e.recorder.SuggestedHour(domainKey)
}

// Flush blocks until in-flight future reloads and suggestion writes have
// settled. Intended for shutdown and tests.
func (e *Engine) Flush() {
	e.reloads.Wait()
	e.recorder.Flush()
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
