package quota

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/claude-quota-tui/internal/logger"
	"github.com/j-veylop/claude-quota-tui/internal/models"
)

const (
	modelMarker      = "Set model to"
	projectLogSuffix = ".jsonl"
)

// modelMarkerRe matches "Set model to opus (claude-opus-4-5-20251101)".
// Group 1 is the loose name, group 2 the optional precise identifier.
var modelMarkerRe = regexp.MustCompile(`(?i)Set model to\s+([^()<]+)(?:\(([^)]+)\))?`)

// NormalizeProjectPath converts a project root into the directory name the
// Claude Code CLI uses under projects/: every slash or backslash becomes a
// dash and the result always starts with a dash.
func NormalizeProjectPath(root string) string {
	safe := strings.NewReplacer("/", "-", `\`, "-").Replace(root)
	if !strings.HasPrefix(safe, "-") {
		safe = "-" + safe
	}
	return safe
}

// LastActiveProject returns the project path recorded by the newest
// well-formed line of the global history, falling back to the configured
// workspace root. It returns "" when neither is available.
func (s *Service) LastActiveProject() string {
	tail, err := ReadTail(s.paths.History, ProjectPointerTailBytes)
	if err != nil {
		logger.Warn("Failed to read history tail", "path", s.paths.History, "error", err)
	}

	lines := strings.Split(strings.TrimSpace(tail), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		entry, err := models.ParseRawLogEntry([]byte(line))
		if err != nil {
			// The first line of a tail is usually cut mid-record.
			continue
		}
		if entry.Project != "" {
			return entry.Project
		}
		break
	}

	return s.workspaceRoot
}

// ResolveActiveModel finds the newest model-switch marker in the active
// project's most recent session log and returns its display name.
func (s *Service) ResolveActiveModel() (string, bool) {
	project := s.LastActiveProject()
	if project == "" {
		return "", false
	}

	dir := filepath.Join(s.paths.Projects, NormalizeProjectPath(project))
	logPath, err := latestSessionLog(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to list project logs", "dir", dir, "error", err)
		}
		return "", false
	}
	if logPath == "" {
		return "", false
	}

	tail, err := ReadTail(logPath, ModelMarkerTailBytes)
	if err != nil {
		logger.Warn("Failed to read project log", "path", logPath, "error", err)
		return "", false
	}

	lines := strings.Split(tail, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if name, ok := modelFromLine(lines[i]); ok {
			return name, true
		}
	}
	return "", false
}

// ExtractModelMarker parses the model named by a "Set model to" marker in
// text. The parenthesized identifier wins over the bare name.
func ExtractModelMarker(text string) (string, bool) {
	clean := ansi.Strip(text)
	if !strings.Contains(strings.ToLower(clean), strings.ToLower(modelMarker)) {
		return "", false
	}

	m := modelMarkerRe.FindStringSubmatch(clean)
	if m == nil {
		return "", false
	}

	target := strings.TrimSpace(m[2])
	if target == "" {
		target = strings.TrimSpace(m[1])
	}
	if target == "" {
		return "", false
	}
	return NormalizeModelName(target), true
}

func modelFromLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	entry, err := models.ParseRawLogEntry([]byte(line))
	if err != nil {
		return "", false
	}
	content, ok := entry.MessageText()
	if !ok || content == "" {
		return "", false
	}
	return ExtractModelMarker(content)
}

// latestSessionLog returns the .jsonl file in dir with the newest
// modification time, or "" when there is none.
func latestSessionLog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), projectLogSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(dir, e.Name())
			latestTime = info.ModTime()
		}
	}
	return latest, nil
}
