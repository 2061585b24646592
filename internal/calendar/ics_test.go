package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrefs struct {
	enabled map[string]bool
	err     error
}

func (f *fakePrefs) EnabledCalendars(_ context.Context) (map[string]bool, error) {
	return f.enabled, f.err
}

// icsPayload builds a minimal single-calendar ICS body from event stanzas.
// Timestamps are written in UTC (Z suffix) so parsing is unambiguous.
func icsPayload(events ...string) string {
	body := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//hourblocks//test//EN\r\n"
	for _, ev := range events {
		body += ev
	}
	return body + "END:VCALENDAR\r\n"
}

func vevent(uid, summary, dtstart, dtend string, extra ...string) string {
	ev := fmt.Sprintf("BEGIN:VEVENT\r\nUID:%s\r\nSUMMARY:%s\r\nDTSTART:%s\r\nDTEND:%s\r\n", uid, summary, dtstart, dtend)
	for _, line := range extra {
		ev += line + "\r\n"
	}
	return ev + "END:VEVENT\r\n"
}

func serveICS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func utcStamp(day time.Time, hour, minute int) string {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC).Format("20060102T150405Z")
}

func TestICSSource_ImportEvents_SingleDay(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	nextWeek := day.AddDate(0, 0, 7)

	srv := serveICS(t, icsPayload(
		vevent("e1", "Team meeting", utcStamp(day, 9, 0), utcStamp(day, 10, 30)),
		vevent("e2", "Next week", utcStamp(nextWeek, 9, 0), utcStamp(nextWeek, 10, 0)),
	))

	source := NewICSSource([]Feed{{ID: "work", Name: "Work", URL: srv.URL}}, &fakePrefs{}, time.UTC)
	require.True(t, source.HasPermission())

	events, err := source.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, events, 1, "only the event on the queried day should import")
	assert.Equal(t, "Team meeting", events[0].Title)
	assert.Equal(t, "work", events[0].CalendarID)
	assert.Equal(t, 9, events[0].Start.In(time.UTC).Hour())
	assert.False(t, events[0].AllDay)
}

func TestICSSource_AllDayDetection(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	srv := serveICS(t, icsPayload(
		"BEGIN:VEVENT\r\nUID:ad\r\nSUMMARY:Conference\r\nDTSTART;VALUE=DATE:"+day.Format("20060102")+"\r\nDTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format("20060102")+"\r\nEND:VEVENT\r\n",
	))

	source := NewICSSource([]Feed{{ID: "personal", Name: "Personal", URL: srv.URL}}, &fakePrefs{}, time.UTC)

	events, err := source.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, "Conference", events[0].Title)
}

func TestICSSource_DisabledCalendarFiltered(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	srv := serveICS(t, icsPayload(vevent("e1", "Standup", utcStamp(day, 9, 0), utcStamp(day, 9, 15))))

	feeds := []Feed{{ID: "work", Name: "Work", URL: srv.URL}}

	disabled := NewICSSource(feeds, &fakePrefs{enabled: map[string]bool{"work": false}}, time.UTC)
	events, err := disabled.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	assert.Empty(t, events)

	// Calendars missing from the map default to enabled, and a prefs read
	// failure degrades to importing everything.
	unknown := NewICSSource(feeds, &fakePrefs{enabled: map[string]bool{"other": false}}, time.UTC)
	events, err = unknown.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	failing := NewICSSource(feeds, &fakePrefs{err: fmt.Errorf("boom")}, time.UTC)
	events, err = failing.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestICSSource_RecurringWithinDayOnly(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // a Monday
	first := day.AddDate(0, 0, -14)

	srv := serveICS(t, icsPayload(
		vevent("rec", "Weekly sync",
			utcStamp(first, 10, 0),
			utcStamp(first, 11, 0),
			"RRULE:FREQ=WEEKLY;BYDAY=MO"),
	))

	source := NewICSSource([]Feed{{ID: "work", Name: "Work", URL: srv.URL}}, &fakePrefs{}, time.UTC)

	events, err := source.ImportEvents(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, events, 1, "exactly one occurrence inside the day window")
	assert.Equal(t, "Weekly sync", events[0].Title)
	assert.Equal(t, day.Day(), events[0].Start.In(time.UTC).Day())
	assert.Equal(t, 10, events[0].Start.In(time.UTC).Hour())

	// The day before holds no occurrence.
	events, err = source.ImportEvents(context.Background(), day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestICSSource_BrokenFeedDegradesToZeroEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	source := NewICSSource([]Feed{{ID: "bad", Name: "Bad", URL: srv.URL}}, &fakePrefs{}, time.UTC)

	events, err := source.ImportEvents(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestICSSource_NoFeeds(t *testing.T) {
	source := NewICSSource(nil, &fakePrefs{}, time.UTC)
	assert.False(t, source.HasPermission())
	assert.Empty(t, source.Calendars())

	events, err := source.ImportEvents(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, events)
}
