// Package statusline formats a quota group as a one-line status string
// suitable for shell prompts and status bars.
package statusline

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// Format selects the status-line layout.
type Format string

// Supported formats.
const (
	FormatPercentage             Format = "percentage"
	FormatPercentageWithIcon     Format = "percentage-with-icon"
	FormatPercentageWithProgress Format = "percentage-with-progress"
	FormatCountdown              Format = "countdown"
	FormatFull                   Format = "full"
)

// DefaultFormat is used for empty or unknown format names.
const DefaultFormat = FormatPercentageWithProgress

// Icon prefixes every format except FormatPercentage.
const Icon = "●"

// ProgressWidth is the cell count of the tooltip bar.
const ProgressWidth = 10

// Formats lists every supported format.
func Formats() []Format {
	return []Format{
		FormatPercentage,
		FormatPercentageWithIcon,
		FormatPercentageWithProgress,
		FormatCountdown,
		FormatFull,
	}
}

// ParseFormat maps a name to a Format, falling back to DefaultFormat.
func ParseFormat(name string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if lo.Contains(Formats(), f) {
		return f
	}
	return DefaultFormat
}

// Text renders the status line for group. A nil group renders an empty string.
func Text(group *models.QuotaGroup, format Format) string {
	if group == nil {
		return ""
	}

	switch format {
	case FormatPercentage:
		return fmt.Sprintf("%d%%", group.Percentage)
	case FormatPercentageWithIcon:
		return fmt.Sprintf("%s %d%%", Icon, group.Percentage)
	case FormatCountdown:
		return fmt.Sprintf("%s %s", Icon, group.ResetCountdown)
	case FormatFull:
		return fmt.Sprintf("%s %d%% → %s", Icon, group.Percentage, group.ResetCountdown)
	default:
		return fmt.Sprintf("%s %s: %d%%", Icon, group.Name, group.Percentage)
	}
}

// ProgressBar renders percentage as width cells of █ and ░.
func ProgressBar(percentage, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(float64(percentage) / 100 * float64(width)))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Tooltip renders the multi-line hover text for group.
func Tooltip(group *models.QuotaGroup) string {
	if group == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Quota\n", group.Name)
	fmt.Fprintf(&b, "%s %d%% → %s (%s)\n",
		ProgressBar(group.Percentage, ProgressWidth),
		group.Percentage, group.ResetCountdown, group.ResetTime)
	fmt.Fprintf(&b, "Used: %d msgs", group.UsedCount)
	return b.String()
}
