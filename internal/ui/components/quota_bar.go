// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/claude-quota-tui/internal/logger"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

// Gradient endpoints for the session bar, from empty to full.
const (
	gradientLow  = "#d95e59"
	gradientHigh = "#2d9d78"
)

// QuotaBar renders a remaining-quota progress bar with label and percentage.
type QuotaBar struct {
	progress progress.Model
	label    string
}

// NewQuotaBar creates a new quota bar with gradient colors.
func NewQuotaBar(label string) QuotaBar {
	return NewQuotaBarWithWidth(label, 30)
}

// NewQuotaBarWithWidth creates a quota bar with a specific width.
func NewQuotaBarWithWidth(label string, width int) QuotaBar {
	p := progress.New(
		progress.WithScaledGradient(gradientLow, gradientHigh),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return QuotaBar{progress: p, label: label}
}

// NewSolidBar creates a bar filled with a single color.
func NewSolidBar(label string, color lipgloss.Color) QuotaBar {
	p := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return QuotaBar{progress: p, label: label}
}

// SetLabel sets the bar label.
func (q *QuotaBar) SetLabel(label string) {
	q.label = label
}

// Label returns the bar label.
func (q QuotaBar) Label() string {
	return q.label
}

// View renders the bar filling width cells in total, followed by the
// percentage.
func (q QuotaBar) View(percent int, width int) string {
	labelWidth := 0
	if q.label != "" {
		labelWidth = lipgloss.Width(q.label) + 1
	}
	q.progress.Width = max(width-labelWidth-6, 5)

	bar := q.progress.ViewAs(float64(clampPercent(percent)) / 100)
	percentStr := lipgloss.NewStyle().
		Foreground(styles.PercentColor(percent)).
		Width(5).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%d%%", percent))

	parts := []string{bar, " ", percentStr}
	if q.label != "" {
		parts = append([]string{q.label, " "}, parts...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// RenderGradientBar renders just the bar part with gradient colors. Equal
// endpoints give a solid bar.
func RenderGradientBar(percent int, width int, fromHex, toHex string) string {
	if width < 1 {
		return ""
	}

	filled := width * clampPercent(percent) / 100

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(fromHex, toHex, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

// SessionGradientBar is RenderGradientBar with the session colors.
func SessionGradientBar(percent int, width int) string {
	return RenderGradientBar(percent, width, gradientLow, gradientHigh)
}

func clampPercent(percent int) int {
	return min(max(percent, 0), 100)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
