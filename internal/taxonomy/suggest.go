package taxonomy

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// SuggestionStore is the persistence surface the recorder needs: a running
// "last used hour" statistic per domain.
type SuggestionStore interface {
	SaveSuggestion(ctx context.Context, domainKey string, hour int) error
	Suggestions(ctx context.Context) (map[string]int, error)
}

// Recorder persists per-domain suggested hours without ever failing the
// caller. Recording is fire-and-forget; persistence errors are logged and
// dropped.
type Recorder struct {
	store SuggestionStore
	wg    sync.WaitGroup
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(store SuggestionStore) *Recorder {
	return &Recorder{store: store}
}

// Record asynchronously saves hour as the suggested hour for domainKey.
// It returns immediately; callers never observe a failure.
func (r *Recorder) Record(domainKey string, hour int) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.store.SaveSuggestion(context.Background(), domainKey, hour); err != nil {
			log.Warn().Err(err).Str("domain", domainKey).Int("hour", hour).
				Msg("failed to save domain suggestion")
		}
	}()
}

// SuggestedHour returns the recorded hour for a domain, if any. Read
// failures degrade to "no suggestion".
func (r *Recorder) SuggestedHour(domainKey string) (int, bool) {
	suggestions, err := r.store.Suggestions(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load domain suggestions")
		return 0, false
	}
	hour, ok := suggestions[domainKey]
	return hour, ok
}

// Flush blocks until all in-flight recordings have completed. Intended for
// shutdown and tests.
func (r *Recorder) Flush() {
	r.wg.Wait()
}
