package quota

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// ClassifyEntry decides whether a log entry counts against the session
// quota and returns the text it was judged on. Slash-commands never count.
func ClassifyEntry(entry models.RawLogEntry) (string, bool) {
	var (
		content   string
		consuming bool
	)

	if display, ok := entry.DisplayText(); ok {
		content, consuming = display, true
	} else if entry.IsUserMessage() {
		content, consuming = entry.UserContent(), true
	}

	if strings.HasPrefix(strings.TrimSpace(content), "/") {
		consuming = false
	}
	return content, consuming
}

// AggregateWindow counts quota-consuming entries of the history file at path
// whose timestamp falls in (now-window, now]. The file is read backward in
// chunkSize pieces and the scan stops at the first timestamped line at or
// before the window start. A missing file yields an empty window.
//
// On a read error the window counted so far is returned with the error.
func AggregateWindow(path string, now time.Time, window time.Duration, chunkSize int) (models.SessionWindow, error) {
	result := models.SessionWindow{
		WindowStart: now.Add(-window),
		Duration:    window,
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return result, fmt.Errorf("stat %s: %w", path, err)
	}

	scanner := NewReverseScanner(f, info.Size(), chunkSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := models.ParseRawLogEntry([]byte(line))
		if err != nil {
			continue
		}

		ts := entry.Time()
		if ts.IsZero() {
			continue
		}
		if !ts.After(result.WindowStart) {
			break
		}

		if _, ok := ClassifyEntry(entry); !ok {
			continue
		}
		result.MessageCount++
		if result.OldestTimestamp.IsZero() || ts.Before(result.OldestTimestamp) {
			result.OldestTimestamp = ts
		}
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("scan %s: %w", path, err)
	}
	return result, nil
}
