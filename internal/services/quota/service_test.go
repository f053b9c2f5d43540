package quota

import (
	"encoding/json"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

const statsFixture = `{
  "totalMessages": 1234,
  "totalSessions": 56,
  "modelUsage": {
    "claude-opus-4-1-20250805": {"inputTokens": 10},
    "claude-sonnet-4-5-20250929": {"inputTokens": 20}
  },
  "dailyActivity": [
    {"date": "2025-10-01", "messageCount": 900, "sessionCount": 3},
    {"date": "2025-10-13", "messageCount": 300, "sessionCount": 2},
    {"date": "2025-10-15", "messageCount": 100, "sessionCount": 1}
  ]
}`

func (f *fixture) fixedService(workspace string) *Service {
	return New(Config{
		Paths:         f.paths,
		WorkspaceRoot: workspace,
		Now:           func() time.Time { return testNow },
	})
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{Paths: PathsFor(t.TempDir())})
	if s.Limits() != DefaultLimits() {
		t.Errorf("Limits() = %+v, want defaults", s.Limits())
	}
	if s.chunkSize != HistoryChunkBytes {
		t.Errorf("chunkSize = %d", s.chunkSize)
	}
	if s.now == nil {
		t.Error("now should default to time.Now")
	}

	partial := New(Config{Paths: PathsFor(t.TempDir()), Limits: Limits{SessionMessages: 40}})
	if got := partial.Limits(); got.SessionMessages != 40 || got.Window != DefaultSessionWindow || got.WeeklyMessages != DefaultWeeklyMessageLimit {
		t.Errorf("Limits() = %+v", got)
	}
}

func TestService_GetLocalStats(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		f := newFixture(t)
		if got := f.service("").GetLocalStats(); got != nil {
			t.Errorf("GetLocalStats() = %+v, want nil", got)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		f := newFixture(t)
		if err := os.WriteFile(f.paths.Stats, []byte(`{"totalMessages":`), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := f.service("").GetLocalStats(); got != nil {
			t.Errorf("GetLocalStats() = %+v, want nil", got)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		f := newFixture(t)
		if err := os.WriteFile(f.paths.Stats, []byte(statsFixture), 0o600); err != nil {
			t.Fatal(err)
		}
		got := f.service("").GetLocalStats()
		if got == nil {
			t.Fatal("GetLocalStats() = nil")
		}
		if got.TotalMessages != 1234 || got.TotalSessions != 56 {
			t.Errorf("totals = %d/%d", got.TotalMessages, got.TotalSessions)
		}
		if len(got.ModelUsage) != 2 || len(got.DailyActivity) != 3 {
			t.Errorf("ModelUsage = %d keys, DailyActivity = %d days", len(got.ModelUsage), len(got.DailyActivity))
		}
	})
}

func TestService_GetRealtimeQuota_Empty(t *testing.T) {
	f := newFixture(t)
	groups := f.fixedService("").GetRealtimeQuota()
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}

	g := groups[0]
	if g.Name != ProductName {
		t.Errorf("Name = %q", g.Name)
	}
	if g.Percentage != 100 || g.Status != models.StatusHealthy || g.UsedCount != 0 || g.LimitCount != 55 {
		t.Errorf("group = %+v", g)
	}
	if g.ResetTime != ResetNow || g.ResetCountdown != FullyCharged || !g.IsFullyCharged() {
		t.Errorf("sentinels = %q / %q", g.ResetTime, g.ResetCountdown)
	}
	if g.ActiveModel != FallbackActiveModel {
		t.Errorf("ActiveModel = %q, want fallback", g.ActiveModel)
	}
	if !slices.Equal(g.IncludedModels, DefaultModels) {
		t.Errorf("IncludedModels = %v", g.IncludedModels)
	}
	if g.Details == nil || g.Details.ValueStr != "0% Used" {
		t.Errorf("Details = %+v", g.Details)
	}
}

func TestService_GetRealtimeQuota(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.paths.Stats, []byte(statsFixture), 0o600); err != nil {
		t.Fatal(err)
	}

	var lines []string
	for i := range 30 {
		lines = append(lines, displayLine(t, testNow.Add(-2*time.Hour+time.Duration(i)*time.Minute), "prompt"))
	}
	lines = append(lines, displayLine(t, testNow.Add(-time.Minute), "/clear"))
	f.writeLines(f.paths.History, lines...)

	f.writeSessionLog("/work/app", "session.jsonl", time.Now(),
		markerLine(t, "<local-command-stdout>Set model to haiku (claude-haiku-3-5-20241022)</local-command-stdout>"),
	)

	groups := f.fixedService("").GetRealtimeQuota()
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	g := groups[0]

	// 30/55 = 54.5% -> 55% used, 45% remaining
	if g.UsedCount != 30 || g.Percentage != 45 || g.Status != models.StatusHealthy {
		t.Errorf("UsedCount = %d, Percentage = %d, Status = %s", g.UsedCount, g.Percentage, g.Status)
	}
	if g.ResetCountdown != "2h 0m" {
		t.Errorf("ResetCountdown = %q, want 2h 0m", g.ResetCountdown)
	}
	if g.ActiveModel != "Haiku 3.5" {
		t.Errorf("ActiveModel = %q, want Haiku 3.5", g.ActiveModel)
	}
	wantModels := []string{"Sonnet 4.5", "Opus 4.5", "Haiku 4.5", "Opus 4.1", "Haiku 3.5"}
	if !slices.Equal(g.IncludedModels, wantModels) {
		t.Errorf("IncludedModels = %v, want %v", g.IncludedModels, wantModels)
	}
	// 300 + 100 of 4000 in the last week
	if g.Details == nil || g.Details.Percentage != 10 || g.Details.Label != WeeklyDetailsLabel {
		t.Errorf("Details = %+v", g.Details)
	}
}

func TestService_Snapshot(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.paths.Stats, []byte(statsFixture), 0o600); err != nil {
		t.Fatal(err)
	}

	snap := f.fixedService("").Snapshot()
	if !snap.ComputedAt.Equal(testNow) {
		t.Errorf("ComputedAt = %v", snap.ComputedAt)
	}
	if snap.Stats == nil || snap.Stats.TotalMessages != 1234 {
		t.Errorf("Stats = %+v", snap.Stats)
	}
	if snap.Primary() == nil {
		t.Fatal("Primary() = nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"stats", "realtime"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload missing %q: %s", key, data)
		}
	}
}
