// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath          string
	ActivitiesPath        string
	LogLevel              string
	LogFile               string
	WeekStart             time.Weekday
	GoalMinutes           int
	TickInterval          time.Duration
	ReminderCheckInterval time.Duration
	StatsCacheSize        int
}

// Default values
const (
	defaultTickInterval          = time.Second
	defaultReminderCheckInterval = 30 * time.Second
	defaultStatsCacheSize        = 64
	defaultLogLevel              = "info"

	// MaxGoalMinutes is one full day.
	MaxGoalMinutes = 24 * 60
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:          getEnvString("DATABASE_PATH", defaultPath("practice.db")),
		ActivitiesPath:        getEnvString("ACTIVITIES_PATH", defaultPath("activities.json")),
		LogLevel:              strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		LogFile:               getEnvString("LOG_FILE", defaultPath("pianolog.log")),
		GoalMinutes:           getEnvInt("GOAL_MINUTES", 0),
		TickInterval:          getEnvDuration("TICK_INTERVAL", defaultTickInterval),
		ReminderCheckInterval: getEnvDuration("REMINDER_CHECK_INTERVAL", defaultReminderCheckInterval),
		StatsCacheSize:        getEnvInt("STATS_CACHE_SIZE", defaultStatsCacheSize),
	}

	weekStart, ok := parseWeekStart(os.Getenv("WEEK_START_DAY"))
	if !ok {
		weekStart = WeekStartForLocale(localeFromEnv())
	}
	cfg.WeekStart = weekStart

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure activities directory exists
	if err := ensureDir(filepath.Dir(cfg.ActivitiesPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the rest of the application cannot work with.
func (c *Config) Validate() error {
	if c.GoalMinutes < 0 || c.GoalMinutes > MaxGoalMinutes {
		return fmt.Errorf("GOAL_MINUTES must be between 0 and %d, got %d", MaxGoalMinutes, c.GoalMinutes)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %v", c.TickInterval)
	}
	if c.ReminderCheckInterval <= 0 {
		return fmt.Errorf("REMINDER_CHECK_INTERVAL must be positive, got %v", c.ReminderCheckInterval)
	}
	if c.StatsCacheSize <= 0 {
		return fmt.Errorf("STATS_CACHE_SIZE must be positive, got %d", c.StatsCacheSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

// configDir returns ~/.config/pianolog, or "" when the home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pianolog")
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if dir := configDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	return paths
}

// defaultPath places name in the config directory, falling back to the
// working directory.
func defaultPath(name string) string {
	dir := configDir()
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
// Unparseable values are kept out of range so that Validate reports them.
func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
