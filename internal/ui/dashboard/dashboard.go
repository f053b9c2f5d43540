// Package dashboard renders quota snapshots for the terminal. The full panel
// and the compact sidebar share one renderer parameterised by Options.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/ui/components"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

const (
	// MinWidth is the narrowest layout the renderer produces.
	MinWidth = 32
	// ChartDays is the span of the daily activity chart.
	ChartDays = 14

	activeMark = "✓"
	ellipsis   = "…"

	// Footnote is printed under the full panel.
	Footnote = "* Usage data is estimated from local logs. Actual quota may vary from server-side status."
)

// Options controls a render.
type Options struct {
	Now     time.Time
	Theme   styles.Theme
	Width   int
	Compact bool
}

// Render draws snap. The output never exceeds opts.Width columns once the
// width is at least MinWidth.
func Render(snap models.QuotaSnapshot, opts Options) string {
	if opts.Theme.Name == "" {
		opts.Theme = styles.Dark
	}
	opts.Width = max(opts.Width, MinWidth)
	if opts.Now.IsZero() {
		opts.Now = snap.ComputedAt
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if len(snap.Realtime) == 0 {
		return opts.Theme.Label().Render("No quota data available yet.")
	}

	if opts.Compact {
		return renderCompact(snap, opts)
	}
	return renderFull(snap, opts)
}

func renderFull(snap models.QuotaSnapshot, opts Options) string {
	theme := opts.Theme
	inner := innerWidth(opts.Width)

	sections := []string{theme.Title().Render(strings.ToUpper(snap.Realtime[0].Name + " Quota"))}
	for i := range snap.Realtime {
		group := &snap.Realtime[i]
		sections = append(sections, theme.Card().Width(opts.Width-2).Render(sessionCard(group, theme, inner)))
		if group.Details != nil {
			sections = append(sections, theme.Card().Width(opts.Width-2).Render(weeklyCard(group.Details, snap.Stats, opts, inner)))
		}
	}
	sections = append(sections, theme.Footnote().Width(opts.Width).Render(Footnote))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func sessionCard(group *models.QuotaGroup, theme styles.Theme, width int) string {
	header := row(
		theme.Section().Render("Current Session"),
		theme.Badge(group.Status).Render(string(group.Status)),
		width,
	)

	percent := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.PercentColor(group.Percentage)).
		Render(fmt.Sprintf("%d%%", group.Percentage))

	lines := []string{
		header,
		"",
		row(theme.Label().Render("Remaining"), percent, width),
		components.SessionGradientBar(group.Percentage, width),
		"",
		row(theme.Label().Render("Gets Reset In (Est.)"), theme.Value().Render(orDash(group.ResetCountdown)), width),
		row(theme.Label().Render("Reset Time (Est.)"), theme.Value().Render(orDash(group.ResetTime)), width),
		row(theme.Label().Render("Used"), theme.Value().Render(fmt.Sprintf("%d msgs", group.UsedCount)), width),
	}

	if len(group.IncludedModels) > 0 {
		lines = append(lines, "", theme.Section().Render("Models"))
		lines = append(lines, pills(group.IncludedModels, group.ActiveModel, theme, width)...)
	}
	return strings.Join(lines, "\n")
}

func weeklyCard(details *models.QuotaDetails, stats *models.QuotaStats, opts Options, width int) string {
	theme := opts.Theme
	lines := []string{
		theme.Section().Render(details.Label),
		"",
		row(
			theme.Label().Render("Local Usage Est."),
			theme.Value().Render(fmt.Sprintf("%d%% of Limit", details.Percentage)),
			width,
		),
		components.RenderGradientBar(details.Percentage, width, string(styles.Weekly), string(styles.Weekly)),
	}

	if stats != nil {
		chart := components.RenderActivityChart(stats.DailyActivity, opts.Now, ChartDays, width-8, 5)
		lines = append(lines, "", clip(chart, width))
		lines = append(lines, "", theme.Label().Render(
			fmt.Sprintf("Total: %d messages in %d sessions", stats.TotalMessages, stats.TotalSessions)))
	}
	return strings.Join(lines, "\n")
}

func renderCompact(snap models.QuotaSnapshot, opts Options) string {
	theme := opts.Theme
	width := opts.Width

	lines := []string{theme.Title().Render("CLAUDE QUOTA"), ""}
	for i := range snap.Realtime {
		group := &snap.Realtime[i]
		color := styles.StatusColor(group.Status)
		percent := lipgloss.NewStyle().Bold(true).Foreground(color).
			Render(fmt.Sprintf("%d%%", group.Percentage))

		lines = append(lines,
			row(theme.Section().Render(group.Name), percent, width),
			components.SessionGradientBar(group.Percentage, width),
			row(theme.Label().Render("Reset Countdown"), theme.Value().Render(orDash(group.ResetCountdown)), width),
			row(theme.Label().Render("Target Time"), theme.Value().Render(orDash(group.ResetTime)), width),
			row(theme.Label().Render("Status"), lipgloss.NewStyle().Foreground(color).Render(string(group.Status)), width),
		)

		if len(group.IncludedModels) > 0 {
			included := ansi.Truncate(strings.Join(group.IncludedModels, ", "), width, ellipsis)
			lines = append(lines, "", theme.Label().Render("Active Models"), theme.Value().Render(included))
		}
		lines = append(lines, "")
	}

	if snap.Stats != nil {
		series := components.DailySeries(snap.Stats.DailyActivity, opts.Now, 7)
		lines = append(lines, row(
			theme.Label().Render("Last 7 days"),
			lipgloss.NewStyle().Foreground(styles.Weekly).Render(components.RenderSparkline(series, 7)),
			width,
		))
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// pills lays out model tags, wrapping to width. The active model is marked.
func pills(names []string, active string, theme styles.Theme, width int) []string {
	var (
		lines   []string
		current []string
		used    int
	)
	for _, name := range names {
		isActive := name == active
		if isActive {
			name += " " + activeMark
		}
		// Padding and margin add three cells around the name.
		name = ansi.Truncate(name, width-3, ellipsis)
		pill := theme.Pill(isActive).Render(name)
		w := lipgloss.Width(pill)

		if used > 0 && used+w > width {
			lines = append(lines, strings.Join(current, ""))
			current, used = nil, 0
		}
		current = append(current, pill)
		used += w
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, ""))
	}
	return lines
}

// row places label on the left and value on the right of a width-wide line.
func row(label, value string, width int) string {
	gap := width - lipgloss.Width(label) - lipgloss.Width(value)
	if gap < 1 {
		return ansi.Truncate(label+" "+value, width, ellipsis)
	}
	return label + strings.Repeat(" ", gap) + value
}

// clip truncates every line of block to width.
func clip(block string, width int) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}

// innerWidth is the content width of a card rendered at width.
func innerWidth(width int) int {
	// Two border cells plus two cells of padding on each side.
	return width - 6
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
