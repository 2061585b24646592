package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/hourblocks",
			SQLiteFile: "hourblocks.db",
		},
		Calendars: []ICSFeed{},
		Schedule: ScheduleConfig{
			Timezone:          "",
			FutureHorizonDays: 7,
			WatchCron:         "*/15 * * * *",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
