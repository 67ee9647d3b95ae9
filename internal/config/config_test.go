package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at an empty temp dir so no
// real .env file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	for _, key := range []string{
		"DATABASE_PATH", "ACTIVITIES_PATH", "WEEK_START_DAY", "GOAL_MINUTES",
		"TICK_INTERVAL", "REMINDER_CHECK_INTERVAL", "STATS_CACHE_SIZE",
		"LOG_LEVEL", "LOG_FILE", "LC_ALL", "LC_TIME", "LANG",
	} {
		t.Setenv(key, "")
	}

	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	t.Setenv(key, val)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{"Valid", "42", 42},
		{"Spaces", " 7 ", 7},
		{"Invalid", "abc", -1},
		{"Empty", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvInt(key, 5); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestDefaultPath(t *testing.T) {
	home := isolate(t)

	got := defaultPath("practice.db")
	want := filepath.Join(home, ".config", "pianolog", "practice.db")
	if got != want {
		t.Errorf("defaultPath() = %q, want %q", got, want)
	}
}

func TestGetEnvPaths(t *testing.T) {
	home := isolate(t)
	paths := getEnvPaths()

	cwd, _ := os.Getwd()
	want := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(home, ".config", "pianolog", ".env"),
	}
	if len(paths) != len(want) {
		t.Fatalf("getEnvPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("getEnvPaths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if want := filepath.Join(home, ".config", "pianolog", "practice.db"); cfg.DatabasePath != want {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, want)
	}
	if cfg.GoalMinutes != 0 {
		t.Errorf("GoalMinutes = %d, want 0", cfg.GoalMinutes)
	}
	if cfg.WeekStart != time.Monday {
		t.Errorf("WeekStart = %v, want Monday", cfg.WeekStart)
	}
	if cfg.TickInterval != defaultTickInterval {
		t.Errorf("TickInterval = %v, want %v", cfg.TickInterval, defaultTickInterval)
	}
	if cfg.ReminderCheckInterval != defaultReminderCheckInterval {
		t.Errorf("ReminderCheckInterval = %v, want %v", cfg.ReminderCheckInterval, defaultReminderCheckInterval)
	}
	if cfg.StatsCacheSize != defaultStatsCacheSize {
		t.Errorf("StatsCacheSize = %d, want %d", cfg.StatsCacheSize, defaultStatsCacheSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if _, err := os.Stat(filepath.Dir(cfg.DatabasePath)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db", "p.db"))
	t.Setenv("GOAL_MINUTES", "45")
	t.Setenv("WEEK_START_DAY", "7")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GoalMinutes != 45 {
		t.Errorf("GoalMinutes = %d, want 45", cfg.GoalMinutes)
	}
	if cfg.WeekStart != time.Sunday {
		t.Errorf("WeekStart = %v, want Sunday", cfg.WeekStart)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_WeekStartFromLocale(t *testing.T) {
	isolate(t)
	t.Setenv("LANG", "en_US.UTF-8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.WeekStart != time.Sunday {
		t.Errorf("WeekStart = %v, want Sunday", cfg.WeekStart)
	}
}

func TestLoad_InvalidGoal(t *testing.T) {
	tests := []string{"-5", "1441", "lots"}

	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			isolate(t)
			t.Setenv("GOAL_MINUTES", v)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with GOAL_MINUTES=%q should fail", v)
			}
		})
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)
	content := "GOAL_MINUTES=30\nWEEK_START_DAY=sat"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// godotenv does not override variables that are already set.
	_ = os.Unsetenv("GOAL_MINUTES")
	_ = os.Unsetenv("WEEK_START_DAY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GoalMinutes != 30 {
		t.Errorf("GoalMinutes = %d, want 30", cfg.GoalMinutes)
	}
	if cfg.WeekStart != time.Saturday {
		t.Errorf("WeekStart = %v, want Saturday", cfg.WeekStart)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		GoalMinutes:           60,
		TickInterval:          time.Second,
		ReminderCheckInterval: time.Second,
		StatsCacheSize:        1,
		LogLevel:              "warn",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeGoal", func(c *Config) { c.GoalMinutes = -1 }},
		{"GoalOverDay", func(c *Config) { c.GoalMinutes = MaxGoalMinutes + 1 }},
		{"ZeroTick", func(c *Config) { c.TickInterval = 0 }},
		{"ZeroReminderInterval", func(c *Config) { c.ReminderCheckInterval = 0 }},
		{"ZeroCache", func(c *Config) { c.StatsCacheSize = 0 }},
		{"BadLevel", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
