// Package quota estimates the Claude Code session quota from the local logs
// written by the Claude Code CLI.
package quota

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/logger"
	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// Paths locates the files owned by the Claude Code CLI.
type Paths struct {
	Base     string
	Stats    string
	History  string
	Projects string
}

// PathsFor returns the standard layout beneath base.
func PathsFor(base string) Paths {
	return Paths{
		Base:     base,
		Stats:    filepath.Join(base, "stats-cache.json"),
		History:  filepath.Join(base, "history.jsonl"),
		Projects: filepath.Join(base, "projects"),
	}
}

// DefaultPaths returns the layout beneath ~/.claude.
func DefaultPaths() Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return PathsFor(filepath.Join(home, ".claude"))
}

// Config holds configuration for the quota service.
type Config struct {
	Now           func() time.Time
	Paths         Paths
	WorkspaceRoot string
	Limits        Limits
	ChunkSize     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Paths:     DefaultPaths(),
		Limits:    DefaultLimits(),
		ChunkSize: HistoryChunkBytes,
		Now:       time.Now,
	}
}

// Service computes quota estimates. It keeps no state between calls: every
// query rereads the files it needs, so it is safe for concurrent use.
type Service struct {
	now           func() time.Time
	paths         Paths
	workspaceRoot string
	limits        Limits
	chunkSize     int
}

// New creates a new quota service.
func New(config Config) *Service {
	if config.Paths.Base == "" {
		config.Paths = DefaultPaths()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = HistoryChunkBytes
	}

	return &Service{
		now:           config.Now,
		paths:         config.Paths,
		workspaceRoot: config.WorkspaceRoot,
		limits:        config.Limits.withDefaults(),
		chunkSize:     config.ChunkSize,
	}
}

// Paths returns the file layout the service reads.
func (s *Service) Paths() Paths {
	return s.paths
}

// Limits returns the capacity assumptions in effect.
func (s *Service) Limits() Limits {
	return s.limits
}

// GetLocalStats reads stats-cache.json. A missing or malformed file yields nil.
func (s *Service) GetLocalStats() *models.QuotaStats {
	data, err := os.ReadFile(s.paths.Stats)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Stats cache not found", "path", s.paths.Stats)
		} else {
			logger.Error("Failed to read stats cache", "path", s.paths.Stats, "error", err)
		}
		return nil
	}

	var stats models.QuotaStats
	if err := json.Unmarshal(data, &stats); err != nil {
		logger.Error("Failed to parse stats cache", "path", s.paths.Stats, "error", err)
		return nil
	}
	return &stats
}

// GetRealtimeQuota computes the current quota groups. It never fails: any
// subsystem that cannot read its input contributes its empty result.
func (s *Service) GetRealtimeQuota() []models.QuotaGroup {
	return s.realtime(s.GetLocalStats(), s.now())
}

// Snapshot returns the cached stats together with the derived quota groups.
func (s *Service) Snapshot() models.QuotaSnapshot {
	now := s.now()
	stats := s.GetLocalStats()
	return models.QuotaSnapshot{
		ComputedAt: now,
		Stats:      stats,
		Realtime:   s.realtime(stats, now),
	}
}

func (s *Service) realtime(stats *models.QuotaStats, now time.Time) []models.QuotaGroup {
	active, found := s.ResolveActiveModel()
	included := IncludedModels(stats, active)
	if !found {
		active = FallbackActiveModel
	}

	win, err := AggregateWindow(s.paths.History, now, s.limits.Window, s.chunkSize)
	if err != nil {
		logger.Error("Failed to scan history", "path", s.paths.History, "error", err)
	}
	session := ProjectSession(win, s.limits, now)
	weekly := WeeklyUsage(stats, now, s.limits.WeeklyMessages)

	logger.Debug("Computed session quota",
		"count", win.MessageCount,
		"remaining", session.Remaining,
		"active_model", active,
	)

	return []models.QuotaGroup{
		{
			Name:           ProductName,
			Percentage:     session.Remaining,
			ResetAt:        session.ResetAt,
			ResetTime:      session.ResetTime,
			ResetCountdown: session.ResetCountdown,
			Status:         session.Status,
			IncludedModels: included,
			ActiveModel:    active,
			UsedCount:      win.MessageCount,
			LimitCount:     s.limits.SessionMessages,
			Details:        &weekly,
		},
	}
}
