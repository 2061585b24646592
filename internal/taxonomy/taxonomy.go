package taxonomy

import "strings"

// Domain is a semantic category assigned to a block from its title. The
// registry below is ordered: classification returns the first domain with
// a keyword contained in the lower-cased title, so earlier entries win
// ties.
type Domain struct {
	Key      string
	Icon     string
	Keywords []string
}

// CalendarKey is the domain forced onto blocks imported from a calendar.
// It owns no keywords and is never produced by classification.
const CalendarKey = "calendar"

var registry = []Domain{
	{
		Key:      "work",
		Icon:     "briefcase",
		Keywords: []string{"work", "meeting", "project", "email", "standup", "deadline", "review", "interview", "presentation"},
	},
	{
		Key:      "food",
		Icon:     "fork.knife",
		Keywords: []string{"breakfast", "brunch", "lunch", "dinner", "food", "meal", "eat", "cook", "snack", "coffee"},
	},
	{
		Key:      "exercise",
		Icon:     "figure.run",
		Keywords: []string{"gym", "workout", "exercise", "run", "yoga", "swim", "walk", "cycle", "football", "climb"},
	},
	{
		Key:      "travel",
		Icon:     "airplane",
		Keywords: []string{"travel", "flight", "drive", "commute", "train", "airport", "bus"},
	},
	{
		Key:      "study",
		Icon:     "book",
		Keywords: []string{"study", "read", "class", "lecture", "homework", "revision", "course", "exam"},
	},
	{
		Key:      "health",
		Icon:     "cross.case",
		Keywords: []string{"doctor", "dentist", "appointment", "therapy", "checkup", "medication"},
	},
	{
		Key:      "chores",
		Icon:     "house",
		Keywords: []string{"clean", "laundry", "chores", "groceries", "tidy", "dishes", "ironing"},
	},
	{
		Key:      "social",
		Icon:     "person.2",
		Keywords: []string{"party", "drinks", "date", "friends", "visit", "hangout", "bbq"},
	},
	{
		Key:      "entertainment",
		Icon:     "tv",
		Keywords: []string{"movie", "film", "netflix", "game", "show", "concert", "gig"},
	},
	{
		Key:      "shopping",
		Icon:     "cart",
		Keywords: []string{"shop", "shopping", "buy", "errands"},
	},
	{
		Key:      "sleep",
		Icon:     "moon.zzz",
		Keywords: []string{"sleep", "nap", "bed", "rest"},
	},
	{
		Key:      CalendarKey,
		Icon:     "calendar",
		Keywords: nil,
	},
}

// Domains returns the full ordered registry.
func Domains() []Domain {
	return registry
}

// ByKey looks up a registered domain. Returns nil for unknown keys.
func ByKey(key string) *Domain {
	for i := range registry {
		if registry[i].Key == key {
			return &registry[i]
		}
	}
	return nil
}

// Calendar returns the forced calendar domain.
func Calendar() *Domain {
	return ByKey(CalendarKey)
}

// Classify maps a free-text title to a domain by keyword containment.
// The match is case-insensitive and first-match-wins in registry order.
// An empty title, or one containing no registered keyword, yields nil.
func Classify(title string) *Domain {
	if title == "" {
		return nil
	}

	lowered := strings.ToLower(title)
	for i := range registry {
		for _, keyword := range registry[i].Keywords {
			if strings.Contains(lowered, keyword) {
				return &registry[i]
			}
		}
	}

	return nil
}
