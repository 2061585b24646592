package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Today     *TodayCommand
	Set       *SetCommand
	Rm        *RmCommand
	Future    *FutureCommand
	Sub       *SubCommand
	Calendars *CalendarsCommand
	Watch     *WatchCommand
	Status    *StatusCommand
	Purge     *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "hourblocks"
	parser.LongDescription = "Personal time-blocking for your day: hour slots, calendar import, and domain-aware titles."

	cmds := &commands{
		Today:     &TodayCommand{globals: &globals, version: version},
		Set:       &SetCommand{globals: &globals, version: version},
		Rm:        &RmCommand{globals: &globals, version: version},
		Future:    &FutureCommand{globals: &globals, version: version},
		Sub:       &SubCommand{globals: &globals, version: version},
		Calendars: &CalendarsCommand{globals: &globals, version: version},
		Watch:     &WatchCommand{globals: &globals, version: version},
		Status:    &StatusCommand{globals: &globals, version: version},
		Purge:     &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("today", "Show today's schedule", "Render today's 96-slot schedule with imported calendar events and saved blocks.", cmds.Today)
	parser.AddCommand("set", "Set a today slot", "Set the title of a today slot; the slot's domain is classified from the title.", cmds.Set)
	parser.AddCommand("rm", "Clear a today slot", "Clear a single today slot and delete its saved record.", cmds.Rm)
	parser.AddCommand("future", "Manage the future schedule", "List, add to, or remove from the future schedule.", cmds.Future)
	parser.AddCommand("sub", "Manage sub-blocks", "List, add, or remove the sub-blocks attached to a today hour.", cmds.Sub)
	parser.AddCommand("calendars", "Manage calendar imports", "List subscribed calendars and enable or disable their import.", cmds.Calendars)
	parser.AddCommand("watch", "Watch the schedule", "Keep re-rendering the schedule on a cron cadence.", cmds.Watch)
	parser.AddCommand("status", "Show statistics", "Show database statistics and configuration summary.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL hourblocks data", "Delete ALL hourblocks data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the hourblocks CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("hourblocks %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
