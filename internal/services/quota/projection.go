package quota

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// Capacity assumptions. These are heuristics about the vendor's quota policy,
// not published limits, so they stay overridable through Limits.
const (
	DefaultSessionWindow       = 4 * time.Hour
	DefaultSessionMessageLimit = 55
	DefaultWeeklyMessageLimit  = 4000
)

const (
	// ProductName names the single quota group the engine reports.
	ProductName = "Claude Code"
	// FallbackActiveModel is shown when no model marker is found.
	FallbackActiveModel = "Sonnet 4.5"
	// WeeklyDetailsLabel labels the weekly rollup.
	WeeklyDetailsLabel = "Weekly Activity (Local)"

	// ResetNow and FullyCharged replace the reset time and countdown when
	// no message is in the window.
	ResetNow     = "Now"
	FullyCharged = "Fully Charged"

	criticalBelow = 10
	warningBelow  = 30
)

// DefaultModels are always listed as included, in this order.
var DefaultModels = []string{"Sonnet 4.5", "Opus 4.5", "Haiku 4.5"}

// Limits holds the capacity assumptions used for projection.
type Limits struct {
	Window          time.Duration
	SessionMessages int
	WeeklyMessages  int
}

// DefaultLimits returns the built-in capacity assumptions.
func DefaultLimits() Limits {
	return Limits{
		Window:          DefaultSessionWindow,
		SessionMessages: DefaultSessionMessageLimit,
		WeeklyMessages:  DefaultWeeklyMessageLimit,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.Window <= 0 {
		l.Window = d.Window
	}
	if l.SessionMessages <= 0 {
		l.SessionMessages = d.SessionMessages
	}
	if l.WeeklyMessages <= 0 {
		l.WeeklyMessages = d.WeeklyMessages
	}
	return l
}

// SessionProjection is the session quota derived from a SessionWindow.
type SessionProjection struct {
	ResetAt        time.Time
	ResetTime      string
	ResetCountdown string
	Status         models.QuotaStatus
	UsedPercent    int
	Remaining      int
}

// ProjectSession turns a window count into remaining percentage, status and
// reset time. With no message in the window the quota is fully charged and
// resets now.
func ProjectSession(win models.SessionWindow, limits Limits, now time.Time) SessionProjection {
	used := UsedPercent(win.MessageCount, limits.SessionMessages)
	p := SessionProjection{
		UsedPercent: used,
		Remaining:   100 - used,
		Status:      StatusFor(100 - used),
	}

	if !win.Found() {
		p.ResetAt = now
		p.ResetTime = ResetNow
		p.ResetCountdown = FullyCharged
		return p
	}

	p.ResetAt = win.OldestTimestamp.Add(limits.Window)
	p.ResetTime = p.ResetAt.Local().Format("15:04")
	p.ResetCountdown = FormatCountdown(p.ResetAt.Sub(now))
	return p
}

// UsedPercent returns count/limit as a rounded percentage capped at 100.
func UsedPercent(count, limit int) int {
	if limit <= 0 {
		if count > 0 {
			return 100
		}
		return 0
	}
	pct := int(math.Round(float64(count) / float64(limit) * 100))
	return min(100, max(0, pct))
}

// StatusFor classifies the remaining percentage. Critical takes priority
// over Warning.
func StatusFor(remaining int) models.QuotaStatus {
	switch {
	case remaining < criticalBelow:
		return models.StatusCritical
	case remaining < warningBelow:
		return models.StatusWarning
	default:
		return models.StatusHealthy
	}
}

// FormatCountdown renders d as whole hours and minutes, truncated.
// Negative durations render as "0h 0m".
func FormatCountdown(d time.Duration) string {
	d = max(0, d)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// WeeklyUsage sums the daily activity of the last seven days against the
// weekly capacity estimate. Dates are ISO days and compare lexicographically.
func WeeklyUsage(stats *models.QuotaStats, now time.Time, limit int) models.QuotaDetails {
	var total int
	if stats != nil {
		cutoff := now.AddDate(0, 0, -7).UTC().Format(time.DateOnly)
		recent := lo.Filter(stats.DailyActivity, func(day models.DailyActivity, _ int) bool {
			return day.Date >= cutoff
		})
		total = lo.SumBy(recent, func(day models.DailyActivity) int {
			return day.MessageCount
		})
	}

	used := UsedPercent(total, limit)
	return models.QuotaDetails{
		Label:      WeeklyDetailsLabel,
		Percentage: used,
		ValueStr:   fmt.Sprintf("%d%% Used", used),
	}
}

// IncludedModels lists the default models, then every model seen in the
// stats cache, then the active model, without duplicates.
func IncludedModels(stats *models.QuotaStats, active string) []string {
	names := slices.Clone(DefaultModels)

	if stats != nil {
		ids := lo.Keys(stats.ModelUsage)
		slices.Sort(ids)
		names = append(names, lo.Map(ids, func(id string, _ int) string {
			return NormalizeModelName(id)
		})...)
	}

	if active != "" {
		names = append(names, active)
	}
	return lo.Uniq(names)
}
