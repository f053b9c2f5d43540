// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// Palette shared by both themes.
var (
	Accent  = lipgloss.Color("#da7756") // Claude orange
	Success = lipgloss.Color("#2d9d78")
	Warning = lipgloss.Color("#e5a44e")
	Danger  = lipgloss.Color("#d95e59")
	Weekly  = lipgloss.Color("#3b82f6")

	Subtle    = lipgloss.Color("240")
	TextMuted = lipgloss.Color("245")
)

// Theme holds the foreground colors that differ between dark and light
// terminals.
type Theme struct {
	Name          string
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Border        lipgloss.Color
	PillActiveFg  lipgloss.Color
}

// Dark is the default theme.
var Dark = Theme{
	Name:          "dark",
	Text:          lipgloss.Color("#ededed"),
	TextSecondary: lipgloss.Color("#a1a1a1"),
	Border:        lipgloss.Color("#333333"),
	PillActiveFg:  lipgloss.Color("#1e1e1e"),
}

// Light is tuned for light terminal backgrounds.
var Light = Theme{
	Name:          "light",
	Text:          lipgloss.Color("#37352f"),
	TextSecondary: lipgloss.Color("#74726e"),
	Border:        lipgloss.Color("#ece8e3"),
	PillActiveFg:  lipgloss.Color("#ffffff"),
}

// ThemeByName returns the named theme, falling back to Dark.
func ThemeByName(name string) Theme {
	if name == Light.Name {
		return Light
	}
	return Dark
}

// Next returns the other theme.
func (t Theme) Next() Theme {
	if t.Name == Light.Name {
		return Dark
	}
	return Light
}

// PercentColor colors a remaining percentage: danger below 10, warning
// below 30, accent otherwise.
func PercentColor(percentage int) lipgloss.Color {
	switch {
	case percentage < 10:
		return Danger
	case percentage < 30:
		return Warning
	default:
		return Accent
	}
}

// StatusColor colors a status badge.
func StatusColor(status models.QuotaStatus) lipgloss.Color {
	switch status {
	case models.StatusCritical:
		return Danger
	case models.StatusWarning:
		return Warning
	default:
		return Success
	}
}

// Title styles the panel heading.
func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(Accent)
}

// Section styles section headings inside a card.
func (t Theme) Section() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text)
}

// Label styles secondary labels.
func (t Theme) Label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextSecondary)
}

// Value styles emphasised values.
func (t Theme) Value() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text)
}

// Card creates a bordered card container.
func (t Theme) Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		MarginBottom(1)
}

// Badge renders a status badge.
func (t Theme) Badge(status models.QuotaStatus) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(StatusColor(status)).
		Padding(0, 1)
}

// Pill styles a model tag; the active model is filled with the accent.
func (t Theme) Pill(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1).MarginRight(1)
	if active {
		return s.Bold(true).Foreground(t.PillActiveFg).Background(Accent)
	}
	return s.Foreground(t.TextSecondary).Background(t.Border)
}

// Footnote styles the disclaimer under the panel.
func (t Theme) Footnote() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true).Foreground(t.TextSecondary)
}

// ToastStyle for floating notifications.
var ToastStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Accent).
	Padding(0, 1).
	MarginBottom(1)

// NotificationBaseStyle is the base for all notification types.
var NotificationBaseStyle = lipgloss.NewStyle()

// NotificationSuccessStyle for success notifications.
var NotificationSuccessStyle = NotificationBaseStyle.Foreground(Success)

// NotificationErrorStyle for error notifications.
var NotificationErrorStyle = NotificationBaseStyle.Foreground(Danger)

// NotificationWarningStyle for warning notifications.
var NotificationWarningStyle = NotificationBaseStyle.Foreground(Warning)

// NotificationInfoStyle for info notifications.
var NotificationInfoStyle = NotificationBaseStyle.Foreground(Weekly)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Accent).
	Padding(1, 3)

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
