package quota

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func displayLine(t *testing.T, ts time.Time, text string) string {
	return jsonLine(t, map[string]any{
		"display":   text,
		"project":   "/work/app",
		"timestamp": ts.UnixMilli(),
	})
}

func TestClassifyEntry(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantContent string
		wantOK      bool
	}{
		{"Display", `{"display":"fix the tests"}`, "fix the tests", true},
		{"DisplaySlashCommand", `{"display":"  /compact  "}`, "  /compact  ", false},
		{"UserDirect", `{"role":"user","content":"hello"}`, "hello", true},
		{"UserMessageType", `{"type":"user_message","message":{"content":"nested"}}`, "nested", true},
		{"UserArray", `{"role":"user","content":[{"type":"text","text":"array text"}]}`, "array text", true},
		{"UserSlashCommand", `{"role":"user","content":"/compact"}`, "/compact", false},
		{"UserNoContent", `{"role":"user","content":[{"type":"image"}]}`, "", true},
		{"Assistant", `{"role":"assistant","content":"hi"}`, "", false},
		{"NumericDisplay", `{"display":7}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := models.ParseRawLogEntry([]byte(tt.line))
			if err != nil {
				t.Fatalf("ParseRawLogEntry() error = %v", err)
			}
			content, ok := ClassifyEntry(entry)
			if content != tt.wantContent || ok != tt.wantOK {
				t.Errorf("ClassifyEntry() = %q, %v; want %q, %v", content, ok, tt.wantContent, tt.wantOK)
			}
		})
	}
}

func TestAggregateWindow_Missing(t *testing.T) {
	win, err := AggregateWindow(filepath.Join(t.TempDir(), "history.jsonl"), testNow, DefaultSessionWindow, HistoryChunkBytes)
	if err != nil {
		t.Fatalf("AggregateWindow() error = %v", err)
	}
	if win.Found() || win.MessageCount != 0 {
		t.Errorf("AggregateWindow() = %+v, want empty window", win)
	}
	if !win.WindowStart.Equal(testNow.Add(-DefaultSessionWindow)) {
		t.Errorf("WindowStart = %v", win.WindowStart)
	}
}

func TestAggregateWindow_SixtyMessages(t *testing.T) {
	f := newFixture(t)

	var lines []string
	for i := range 60 {
		lines = append(lines, displayLine(t, testNow.Add(-3*time.Hour+time.Duration(i)*time.Minute), fmt.Sprintf("prompt %d", i)))
	}
	f.writeLines(f.paths.History, lines...)

	win, err := AggregateWindow(f.paths.History, testNow, DefaultSessionWindow, HistoryChunkBytes)
	if err != nil {
		t.Fatalf("AggregateWindow() error = %v", err)
	}
	if win.MessageCount != 60 {
		t.Fatalf("MessageCount = %d, want 60", win.MessageCount)
	}
	if want := testNow.Add(-3 * time.Hour); !win.OldestTimestamp.Equal(want) {
		t.Errorf("OldestTimestamp = %v, want %v", win.OldestTimestamp, want)
	}

	p := ProjectSession(win, DefaultLimits(), testNow)
	if p.UsedPercent != 100 || p.Remaining != 0 || p.Status != models.StatusCritical {
		t.Errorf("ProjectSession() = %+v, want 100%% used, 0 remaining, Critical", p)
	}
}

func TestAggregateWindow_SlashCommandsNotCounted(t *testing.T) {
	f := newFixture(t)
	f.writeLines(f.paths.History,
		displayLine(t, testNow.Add(-time.Hour), "real prompt"),
		displayLine(t, testNow.Add(-50*time.Minute), "/compact"),
		jsonLine(t, map[string]any{"role": "user", "content": " /compact", "timestamp": testNow.Add(-40 * time.Minute).Format(time.RFC3339)}),
		jsonLine(t, map[string]any{"type": "user_message", "message": map[string]any{"content": "/model opus"}, "timestamp": testNow.Add(-30 * time.Minute).UnixMilli()}),
	)

	win, err := AggregateWindow(f.paths.History, testNow, DefaultSessionWindow, HistoryChunkBytes)
	if err != nil {
		t.Fatalf("AggregateWindow() error = %v", err)
	}
	if win.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", win.MessageCount)
	}
}

func TestAggregateWindow_Boundary(t *testing.T) {
	windowStart := testNow.Add(-DefaultSessionWindow)

	tests := []struct {
		name       string
		lines      func(t *testing.T) []string
		wantCount  int
		wantOldest time.Time
	}{
		{
			name: "OneMillisecondEitherSide",
			lines: func(t *testing.T) []string {
				return []string{
					// Out of order and in the window, but behind the stop line.
					displayLine(t, testNow.Add(-10*time.Minute), "hidden"),
					displayLine(t, windowStart.Add(-time.Millisecond), "just outside"),
					displayLine(t, windowStart.Add(time.Millisecond), "just inside"),
					displayLine(t, testNow.Add(-time.Minute), "recent"),
				}
			},
			wantCount:  2,
			wantOldest: windowStart.Add(time.Millisecond),
		},
		{
			name: "ExactlyAtWindowStart",
			lines: func(t *testing.T) []string {
				return []string{
					displayLine(t, windowStart, "at start"),
					displayLine(t, testNow.Add(-time.Minute), "recent"),
				}
			},
			wantCount:  1,
			wantOldest: testNow.Add(-time.Minute),
		},
		{
			name: "UntimedLinesDoNotStop",
			lines: func(t *testing.T) []string {
				return []string{
					displayLine(t, testNow.Add(-2*time.Hour), "older"),
					`{"display":"no timestamp"}`,
					`{"display":"zero","timestamp":0}`,
					`{"display":"garbage","timestamp":"last tuesday"}`,
					`{"display":"broken json`,
					`{"role":"assistant","content":"reply","timestamp":` + fmt.Sprint(testNow.Add(-90*time.Minute).UnixMilli()) + `}`,
					displayLine(t, testNow.Add(-time.Hour), "newer"),
				}
			},
			wantCount:  2,
			wantOldest: testNow.Add(-2 * time.Hour),
		},
		{
			name: "AllOutside",
			lines: func(t *testing.T) []string {
				return []string{
					displayLine(t, testNow.Add(-48*time.Hour), "old"),
					displayLine(t, testNow.Add(-5*time.Hour), "old"),
				}
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		for _, chunk := range []int{5, 64, HistoryChunkBytes} {
			t.Run(fmt.Sprintf("%s/chunk=%d", tt.name, chunk), func(t *testing.T) {
				f := newFixture(t)
				f.writeLines(f.paths.History, tt.lines(t)...)

				win, err := AggregateWindow(f.paths.History, testNow, DefaultSessionWindow, chunk)
				if err != nil {
					t.Fatalf("AggregateWindow() error = %v", err)
				}
				if win.MessageCount != tt.wantCount {
					t.Errorf("MessageCount = %d, want %d", win.MessageCount, tt.wantCount)
				}
				if tt.wantCount > 0 && !win.OldestTimestamp.Equal(tt.wantOldest) {
					t.Errorf("OldestTimestamp = %v, want %v", win.OldestTimestamp, tt.wantOldest)
				}
			})
		}
	}
}

func TestAggregateWindow_SpansChunks(t *testing.T) {
	f := newFixture(t)

	// Roughly 200 KiB of history, all inside the window, so the scan must
	// walk back across several 64 KiB chunks.
	var lines []string
	padding := fmt.Sprintf("%0900d", 0)
	for i := range 220 {
		lines = append(lines, displayLine(t, testNow.Add(-3*time.Hour+time.Duration(i)*time.Second), padding))
	}
	f.writeLines(f.paths.History, lines...)

	win, err := AggregateWindow(f.paths.History, testNow, DefaultSessionWindow, HistoryChunkBytes)
	if err != nil {
		t.Fatalf("AggregateWindow() error = %v", err)
	}
	if win.MessageCount != 220 {
		t.Errorf("MessageCount = %d, want 220", win.MessageCount)
	}
	if want := testNow.Add(-3 * time.Hour); !win.OldestTimestamp.Equal(want) {
		t.Errorf("OldestTimestamp = %v, want %v", win.OldestTimestamp, want)
	}
}
