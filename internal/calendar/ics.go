package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
	"github.com/teambition/rrule-go"
)

// Feed describes one subscribed ICS calendar.
type Feed struct {
	ID   string
	Name string
	URL  string
}

// Prefs supplies the persisted per-calendar enablement map. Calendars
// absent from the map default to enabled.
type Prefs interface {
	EnabledCalendars(ctx context.Context) (map[string]bool, error)
}

// cacheEntry holds the conditional-request state for a single feed URL.
type cacheEntry struct {
	etag         string
	lastModified string
	body         []byte
}

// ICSSource implements Source on top of subscribed ICS feeds. Feeds are
// fetched over HTTP with ETag/Last-Modified revalidation; the last good
// body is kept so a 304 (or a transient failure) still yields events.
type ICSSource struct {
	feeds  []Feed
	prefs  Prefs
	client *http.Client
	loc    *time.Location

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// NewICSSource creates a Source backed by the given feeds. loc is the
// timezone events are evaluated in; nil means time.Local.
func NewICSSource(feeds []Feed, prefs Prefs, loc *time.Location) *ICSSource {
	if loc == nil {
		loc = time.Local
	}
	return &ICSSource{
		feeds:  feeds,
		prefs:  prefs,
		client: &http.Client{Timeout: 15 * time.Second},
		loc:    loc,
		cache:  make(map[string]*cacheEntry),
	}
}

// HasPermission reports whether any feed is configured. With zero feeds
// the source degrades to zero events.
func (s *ICSSource) HasPermission() bool {
	return len(s.feeds) > 0
}

// Calendars lists the configured feeds.
func (s *ICSSource) Calendars() []Info {
	infos := make([]Info, 0, len(s.feeds))
	for _, f := range s.feeds {
		infos = append(infos, Info{ID: f.ID, Name: f.Name})
	}
	return infos
}

// ImportEvents returns the raw events of all enabled feeds that overlap
// the given day. Per-feed failures are logged and skipped so one broken
// subscription cannot take out the import.
func (s *ICSSource) ImportEvents(ctx context.Context, day time.Time) ([]RawEvent, error) {
	enabled := s.enabledMap(ctx)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	events := []RawEvent{}
	for _, feed := range s.feeds {
		if on, known := enabled[feed.ID]; known && !on {
			continue
		}

		body, err := s.fetch(ctx, feed)
		if err != nil {
			log.Warn().Err(err).Str("calendar", feed.ID).Msg("ics fetch failed")
			continue
		}

		parsed, err := parseICS(body)
		if err != nil {
			log.Warn().Err(err).Str("calendar", feed.ID).Msg("ics parse failed")
			continue
		}

		for _, ev := range parsed {
			events = append(events, s.occurrencesInWindow(ev, feed.ID, dayStart, dayEnd)...)
		}
	}

	return events, nil
}

// enabledMap loads the persisted enablement map; a read failure degrades
// to "everything enabled".
func (s *ICSSource) enabledMap(ctx context.Context) map[string]bool {
	if s.prefs == nil {
		return nil
	}
	enabled, err := s.prefs.EnabledCalendars(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load enabled calendars, importing all")
		return nil
	}
	return enabled
}

// fetch retrieves a feed body, honoring ETag and Last-Modified. On a 304
// the cached body is reused.
func (s *ICSSource) fetch(ctx context.Context, feed Feed) ([]byte, error) {
	s.mu.Lock()
	cached := s.cache[feed.URL]
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if cached != nil {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		return cached.body, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", feed.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feed.ID, err)
	}

	s.mu.Lock()
	s.cache[feed.URL] = &cacheEntry{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		body:         body,
	}
	s.mu.Unlock()

	return body, nil
}

// parsedEvent is a single VEVENT before day-window evaluation.
type parsedEvent struct {
	summary  string
	start    time.Time
	end      time.Time
	allDay   bool
	rawRRule string
	exDates  []time.Time
}

// parseICS parses an ICS payload. Individual malformed VEVENTs are logged
// and skipped; the rest of the payload is kept.
func parseICS(body []byte) ([]parsedEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]parsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			log.Debug().Err(err).Msg("skipping malformed vevent")
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("missing DTSTART: %w", err)
	}
	out.start = start

	end, err := ve.GetEndAt()
	if err != nil {
		// No DTEND: treat as an instantaneous event.
		end = start
	}
	out.end = end

	// All-day detection: VALUE=DATE or a date-only DTSTART value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if params := p.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.allDay = true
			}
		}
		if !strings.Contains(p.Value, "T") {
			out.allDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses the basic ICS date/date-time forms used by EXDATE.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}

// occurrencesInWindow projects a parsed event onto the [dayStart, dayEnd)
// window, expanding recurrence rules inside that single day only.
func (s *ICSSource) occurrencesInWindow(ev parsedEvent, calendarID string, dayStart, dayEnd time.Time) []RawEvent {
	if ev.rawRRule == "" {
		start, end := ev.start, ev.end
		if ev.allDay {
			start, end = allDaySpan(start, s.loc)
		}
		if !overlaps(start, end, dayStart, dayEnd) {
			return nil
		}
		return []RawEvent{{
			Title:      ev.summary,
			Start:      start,
			End:        end,
			AllDay:     ev.allDay,
			CalendarID: calendarID,
		}}
	}

	r, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		log.Debug().Err(err).Str("rrule", ev.rawRRule).Msg("skipping unparsable RRULE")
		return nil
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	// Query in the event's own location; occurrences are re-anchored below.
	windowStart := dayStart.In(ev.start.Location())
	windowEnd := dayEnd.In(ev.start.Location())

	duration := ev.end.Sub(ev.start)
	out := []RawEvent{}
	for _, occStart := range set.Between(windowStart, windowEnd, true) {
		start, end := occStart, occStart.Add(duration)
		if ev.allDay {
			start, end = allDaySpan(start, s.loc)
		}
		out = append(out, RawEvent{
			Title:      ev.summary,
			Start:      start,
			End:        end,
			AllDay:     ev.allDay,
			CalendarID: calendarID,
		})
	}

	return out
}

// allDaySpan normalizes an all-day occurrence to [midnight, midnight+24h)
// in the display location.
func allDaySpan(start time.Time, loc *time.Location) (time.Time, time.Time) {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	return day, day.Add(24 * time.Hour)
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
