package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/hourblocks/config.yaml"

// Config holds all hourblocks configuration.
type Config struct {
	Storage   StorageConfig  `yaml:"storage"`
	Calendars []ICSFeed      `yaml:"calendars"`
	Schedule  ScheduleConfig `yaml:"schedule"`
	Logging   LoggingConfig  `yaml:"logging"`
}

type StorageConfig struct {
	Path       string `yaml:"path"`
	SQLiteFile string `yaml:"sqlite_file"`
}

// ICSFeed describes one subscribed ICS calendar feed.
type ICSFeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type ScheduleConfig struct {
	// Timezone is the IANA timezone the day grid is evaluated in.
	// Empty means the system's local timezone.
	Timezone string `yaml:"timezone"`

	// FutureHorizonDays is how many days ahead future calendar events
	// are imported.
	FutureHorizonDays int `yaml:"future_horizon_days"`

	// WatchCron is the cron expression the watch command refreshes on.
	WatchCron string `yaml:"watch_cron"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize fills in zero values so partially-filled configs still behave.
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Storage.Path == "" {
		c.Storage.Path = defaults.Storage.Path
	}
	if c.Storage.SQLiteFile == "" {
		c.Storage.SQLiteFile = defaults.Storage.SQLiteFile
	}
	if c.Schedule.FutureHorizonDays <= 0 {
		c.Schedule.FutureHorizonDays = defaults.Schedule.FutureHorizonDays
	}
	if c.Schedule.WatchCron == "" {
		c.Schedule.WatchCron = defaults.Schedule.WatchCron
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// DatabasePath returns the resolved path of the SQLite database file.
func (c *Config) DatabasePath() (string, error) {
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
