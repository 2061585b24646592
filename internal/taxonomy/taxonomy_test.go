package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Matches(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Dinner with Bonnie", "food"},
		{"Team meeting", "work"},
		{"morning GYM session", "exercise"},
		{"Flight to Berlin", "travel"},
		{"Dentist appointment", "health"},
		{"Do the laundry", "chores"},
		{"Drinks with friends", "social"},
		{"Movie night", "entertainment"},
		{"Weekly shopping", "shopping"},
		{"Afternoon nap", "sleep"},
	}

	for _, tc := range tests {
		domain := Classify(tc.title)
		require.NotNil(t, domain, "title %q should classify", tc.title)
		assert.Equal(t, tc.expected, domain.Key, "title %q", tc.title)
	}
}

func TestClassify_NoMatch(t *testing.T) {
	assert.Nil(t, Classify(""))
	assert.Nil(t, Classify("zzzzz"))
	assert.Nil(t, Classify("Pick up dry martian rocks"))
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// "work" precedes "food" in the registry, so a title containing
	// keywords of both resolves to work.
	domain := Classify("work lunch")
	require.NotNil(t, domain)
	assert.Equal(t, "work", domain.Key)
}

func TestClassify_NeverYieldsCalendar(t *testing.T) {
	domain := Classify("calendar review of the calendar")
	// "review" belongs to work; the calendar domain has no keywords.
	require.NotNil(t, domain)
	assert.NotEqual(t, CalendarKey, domain.Key)
}

func TestByKey(t *testing.T) {
	require.NotNil(t, ByKey("food"))
	assert.Equal(t, "food", ByKey("food").Key)
	assert.Nil(t, ByKey("nope"))

	cal := Calendar()
	require.NotNil(t, cal)
	assert.Equal(t, CalendarKey, cal.Key)
	assert.Empty(t, cal.Keywords)
}

// --- Recorder ---

type fakeSuggestionStore struct {
	saved   map[string]int
	saveErr error
	loadErr error
}

func (f *fakeSuggestionStore) SaveSuggestion(_ context.Context, key string, hour int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string]int)
	}
	f.saved[key] = hour
	return nil
}

func (f *fakeSuggestionStore) Suggestions(_ context.Context) (map[string]int, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.saved, nil
}

func TestRecorder_RecordAndReadBack(t *testing.T) {
	store := &fakeSuggestionStore{}
	recorder := NewRecorder(store)

	recorder.Record("food", 19)
	recorder.Flush()

	hour, ok := recorder.SuggestedHour("food")
	require.True(t, ok)
	assert.Equal(t, 19, hour)

	_, ok = recorder.SuggestedHour("work")
	assert.False(t, ok)
}

func TestRecorder_SwallowsFailures(t *testing.T) {
	store := &fakeSuggestionStore{
		saveErr: errors.New("disk full"),
		loadErr: errors.New("disk full"),
	}
	recorder := NewRecorder(store)

	// Neither call may panic or surface the error.
	recorder.Record("food", 19)
	recorder.Flush()

	_, ok := recorder.SuggestedHour("food")
	assert.False(t, ok)
}
