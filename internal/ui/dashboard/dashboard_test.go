package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func sampleSnapshot() models.QuotaSnapshot {
	return models.QuotaSnapshot{
		ComputedAt: testNow,
		Stats: &models.QuotaStats{
			DailyActivity: []models.DailyActivity{
				{Date: "2025-10-14", MessageCount: 120, SessionCount: 3},
				{Date: "2025-10-15", MessageCount: 80, SessionCount: 2},
			},
			TotalMessages: 200,
			TotalSessions: 5,
		},
		Realtime: []models.QuotaGroup{{
			Name:           "Claude Code",
			Percentage:     45,
			ResetTime:      "14:30",
			ResetCountdown: "2h 30m",
			Status:         models.StatusHealthy,
			ActiveModel:    "Opus 4.1",
			IncludedModels: []string{"Sonnet 4.5", "Opus 4.5", "Haiku 4.5", "Opus 4.1"},
			UsedCount:      30,
			LimitCount:     55,
			Details: &models.QuotaDetails{
				Label:      "Weekly Activity (Local)",
				Percentage: 5,
				ValueStr:   "5% Used",
			},
		}},
	}
}

func assertMaxWidth(t *testing.T, out string, width int) {
	t.Helper()
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > width {
			t.Errorf("line %d width = %d, want <= %d: %q", i, w, width, ansi.Strip(line))
		}
	}
}

func TestRender_Full(t *testing.T) {
	out := Render(sampleSnapshot(), Options{Width: 70, Theme: styles.Dark})
	plain := ansi.Strip(out)

	for _, want := range []string{
		"CLAUDE CODE QUOTA",
		"Current Session",
		"Healthy",
		"45%",
		"Gets Reset In (Est.)",
		"2h 30m",
		"Reset Time (Est.)",
		"14:30",
		"30 msgs",
		"Opus 4.1 ✓",
		"Sonnet 4.5",
		"Weekly Activity (Local)",
		"5% of Limit",
		"Total: 200 messages in 5 sessions",
		"* Usage data is estimated",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("full layout missing %q:\n%s", want, plain)
		}
	}
	if strings.Count(plain, "✓") != 1 {
		t.Error("exactly one model should be marked active")
	}
	assertMaxWidth(t, out, 70)
}

func TestRender_Compact(t *testing.T) {
	out := Render(sampleSnapshot(), Options{Width: 40, Compact: true, Theme: styles.Light})
	plain := ansi.Strip(out)

	for _, want := range []string{
		"CLAUDE QUOTA",
		"Claude Code",
		"45%",
		"Reset Countdown",
		"Target Time",
		"Status",
		"Active Models",
		"Last 7 days",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("compact layout missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Usage data is estimated") {
		t.Error("compact layout should omit the footnote")
	}
	assertMaxWidth(t, out, 40)
}

func TestRender_CompactTruncatesModels(t *testing.T) {
	snap := sampleSnapshot()
	snap.Realtime[0].IncludedModels = append(snap.Realtime[0].IncludedModels,
		"Sonnet 3.7", "Haiku 3.5", "Opus 4", "Sonnet 4")

	out := Render(snap, Options{Width: MinWidth, Compact: true})
	if !strings.Contains(ansi.Strip(out), ellipsis) {
		t.Error("long model list should be truncated with an ellipsis")
	}
	assertMaxWidth(t, out, MinWidth)
}

func TestRender_NarrowWidthClamped(t *testing.T) {
	out := Render(sampleSnapshot(), Options{Width: 10})
	assertMaxWidth(t, out, MinWidth)
}

func TestRender_NoData(t *testing.T) {
	out := Render(models.QuotaSnapshot{}, Options{Width: 60})
	if !strings.Contains(out, "No quota data") {
		t.Errorf("Render(empty) = %q", out)
	}
}

func TestRender_FullyChargedWithoutStats(t *testing.T) {
	snap := models.QuotaSnapshot{Realtime: []models.QuotaGroup{{
		Name:           "Claude Code",
		Percentage:     100,
		ResetTime:      "Now",
		ResetCountdown: "Fully Charged",
		Status:         models.StatusHealthy,
	}}}

	plain := ansi.Strip(Render(snap, Options{Width: 60, Now: testNow}))
	if !strings.Contains(plain, "Fully Charged") || !strings.Contains(plain, "100%") {
		t.Errorf("fully charged layout:\n%s", plain)
	}
	if strings.Contains(plain, "Weekly") {
		t.Error("weekly card should be omitted without details")
	}
}

func TestPills_Wrap(t *testing.T) {
	lines := pills([]string{"Sonnet 4.5", "Opus 4.5", "Haiku 4.5"}, "Opus 4.5", styles.Dark, 20)
	if len(lines) < 2 {
		t.Fatalf("pills should wrap at width 20, got %d line(s)", len(lines))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 20 {
			t.Errorf("pill line width = %d", w)
		}
	}
}

func TestRow(t *testing.T) {
	if got := row("a", "b", 5); got != "a   b" {
		t.Errorf("row() = %q", got)
	}
	if got := lipgloss.Width(row("label", "value", 8)); got > 8 {
		t.Errorf("overflowing row width = %d", got)
	}
}
