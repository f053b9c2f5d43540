// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ClaudeDir             string
	WorkspaceRoot         string
	StatusFormat          string
	LogPath               string
	QuotaRefreshInterval  time.Duration
	SessionWindow         time.Duration
	SessionMessageLimit   int
	WeeklyMessageLimit    int
	NotificationThreshold int
	LogLevel              slog.Level
	NotificationsEnabled  bool
}

// Default values
const (
	defaultQuotaRefreshInterval  = 30 * time.Second
	defaultSessionWindow         = 4 * time.Hour
	defaultSessionMessageLimit   = 55
	defaultWeeklyMessageLimit    = 4000
	defaultNotificationThreshold = 30
	defaultStatusFormat          = "percentage-with-progress"

	minQuotaRefreshInterval = time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// The first .env found wins; variables already set in the environment
	// are never overridden.
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		ClaudeDir:             getEnvString("CLAUDE_DIR", getDefaultClaudeDir()),
		WorkspaceRoot:         getEnvString("WORKSPACE_ROOT", getDefaultWorkspaceRoot()),
		StatusFormat:          strings.ToLower(getEnvString("STATUS_FORMAT", defaultStatusFormat)),
		LogPath:               getEnvString("LOG_PATH", getDefaultLogPath()),
		QuotaRefreshInterval:  getEnvDuration("QUOTA_REFRESH_INTERVAL", defaultQuotaRefreshInterval),
		SessionWindow:         getEnvDuration("SESSION_WINDOW", defaultSessionWindow),
		SessionMessageLimit:   getEnvInt("SESSION_MESSAGE_LIMIT", defaultSessionMessageLimit),
		WeeklyMessageLimit:    getEnvInt("WEEKLY_MESSAGE_LIMIT", defaultWeeklyMessageLimit),
		NotificationThreshold: getEnvInt("NOTIFICATION_THRESHOLD", defaultNotificationThreshold),
		NotificationsEnabled:  getEnvBool("NOTIFICATIONS_ENABLED", true),
		LogLevel:              getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}

	cfg.normalize()

	if cfg.LogPath != "" {
		if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return cfg, nil
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() {
	c.ClaudeDir = expandHome(c.ClaudeDir)
	c.LogPath = expandHome(c.LogPath)

	if c.QuotaRefreshInterval < minQuotaRefreshInterval {
		c.QuotaRefreshInterval = defaultQuotaRefreshInterval
	}
	if c.SessionWindow <= 0 {
		c.SessionWindow = defaultSessionWindow
	}
	if c.SessionMessageLimit <= 0 {
		c.SessionMessageLimit = defaultSessionMessageLimit
	}
	if c.WeeklyMessageLimit <= 0 {
		c.WeeklyMessageLimit = defaultWeeklyMessageLimit
	}
	if c.NotificationThreshold < 0 || c.NotificationThreshold > 100 {
		c.NotificationThreshold = defaultNotificationThreshold
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "claude-quota-tui", ".env"),
			filepath.Join(home, ".claude", "quota-tui.env"),
		)
	}

	return paths
}

// getDefaultClaudeDir returns the directory the Claude Code CLI writes to.
func getDefaultClaudeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude"
	}
	return filepath.Join(home, ".claude")
}

// getDefaultWorkspaceRoot returns the current directory, used when the
// history does not name an active project.
func getDefaultWorkspaceRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cqt.log"
	}
	return filepath.Join(home, ".config", "claude-quota-tui", "cqt.log")
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvLevel retrieves a slog level ("debug", "info", "warn", "error").
func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err == nil {
			return level
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
