package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// TodayCommand — render today's hour-block schedule.
type TodayCommand struct {
	All  bool `long:"all" description:"Show empty slots as well"`
	Next bool `long:"next" description:"Show only the next upcoming block"`

	globals *GlobalFlags
	version string
}

// SetCommand — set the title of a today slot.
type SetCommand struct {
	Hour   int    `long:"hour" description:"Hour of the slot (0-23); omit to use the domain's suggested hour" default:"-1"`
	Minute int    `long:"minute" description:"Subdivision minute: 0, 15, 30 or 45" default:"0"`
	Title  string `long:"title" description:"Block title (required)"`

	globals *GlobalFlags
	version string
}

// RmCommand — clear a single today slot.
type RmCommand struct {
	Hour   int `long:"hour" description:"Hour of the slot (0-23)" default:"-1"`
	Minute int `long:"minute" description:"Subdivision minute: 0, 15, 30 or 45" default:"0"`

	globals *GlobalFlags
	version string
}

// FutureCommand — list, add to, or remove from the future schedule.
type FutureCommand struct {
	Add    bool   `long:"add" description:"Add a future block"`
	Remove string `long:"remove" description:"ID of the future block to remove"`
	Day    string `long:"day" description:"Day of the block (YYYY-MM-DD)"`
	Hour   int    `long:"hour" description:"Hour of the block (0-23)" default:"0"`
	Minute int    `long:"minute" description:"Subdivision minute: 0, 15, 30 or 45" default:"0"`
	Title  string `long:"title" description:"Block title"`

	globals *GlobalFlags
	version string
}

// SubCommand — manage the sub-blocks of a today hour.
type SubCommand struct {
	Hour   int    `long:"hour" description:"Hour the sub-blocks belong to (0-23)" default:"-1"`
	Add    string `long:"add" description:"Content of a sub-block to add"`
	Remove string `long:"remove" description:"ID of a sub-block to remove"`

	globals *GlobalFlags
	version string
}

// CalendarsCommand — list subscribed calendars and toggle imports.
type CalendarsCommand struct {
	Enable  string `long:"enable" description:"Calendar ID to enable"`
	Disable string `long:"disable" description:"Calendar ID to disable"`

	globals *GlobalFlags
	version string
}

// WatchCommand — keep re-rendering the schedule on a cron cadence.
type WatchCommand struct {
	Cron string `long:"cron" description:"Override the refresh cron expression"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show database statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL hourblocks data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
