package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/claude-quota-tui/internal/services"
	"github.com/j-veylop/claude-quota-tui/internal/ui/components"
	"github.com/j-veylop/claude-quota-tui/internal/ui/dashboard"
	"github.com/j-veylop/claude-quota-tui/internal/ui/statusline"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	Refresh key.Binding
	Compact key.Binding
	Theme   key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Compact: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact/full")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Compact, k.Theme, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Compact, k.Theme},
		{k.Help, k.Escape, k.Quit},
	}
}

// Styles contains the chrome styles around the dashboard.
type Styles struct {
	Header    lipgloss.Style
	Content   lipgloss.Style
	Footer    lipgloss.Style
	Toast     lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#74726e", Dark: "#a1a1a1"}
	border := lipgloss.AdaptiveColor{Light: "#ece8e3", Dark: "#333333"}

	return Styles{
		Header: lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).BorderForeground(border),
		Content:   lipgloss.NewStyle().Padding(1, 2),
		Footer:    lipgloss.NewStyle().Padding(0, 1),
		Toast:     styles.ToastStyle,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(styles.Accent),
		Subtle:    lipgloss.NewStyle().Foreground(subtle),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(styles.Accent),

		NotificationSuccess: styles.NotificationSuccessStyle.Padding(0, 1),
		NotificationError:   styles.NotificationErrorStyle.Bold(true).Padding(0, 1),
		NotificationWarning: styles.NotificationWarningStyle.Padding(0, 1),
		NotificationInfo:    styles.NotificationInfoStyle.Padding(0, 1),
	}
}

// Options configures the initial presentation.
type Options struct {
	Theme        styles.Theme
	StatusFormat statusline.Format
	Compact      bool
}

// Model is the main Bubble Tea model for the application.
type Model struct {
	source   Source
	state    *State
	commands *Commands
	keymap   KeyMap
	styles   Styles
	help     help.Model
	spinner  components.LoadingSpinner

	theme   styles.Theme
	format  statusline.Format
	compact bool

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel creates a model reading from src. A nil src renders an empty
// dashboard.
func NewModel(src Source, opts Options) *Model {
	if opts.Theme.Name == "" {
		opts.Theme = styles.Dark
	}
	if opts.StatusFormat == "" {
		opts.StatusFormat = statusline.DefaultFormat
	}

	return &Model{
		source:   src,
		state:    NewState(),
		commands: NewCommands(src),
		keymap:   DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     help.New(),
		spinner:  components.NewSpinner("Reading Claude Code logs..."),
		theme:    opts.Theme,
		format:   opts.StatusFormat,
		compact:  opts.Compact,
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// Theme returns the active theme.
func (m *Model) Theme() styles.Theme {
	return m.theme
}

// Compact reports whether the compact layout is active.
func (m *Model) Compact() bool {
	return m.compact
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading...")

	cmds := []tea.Cmd{
		m.spinner.Tick(),
		defaultTickCmd(),
	}
	if m.source != nil {
		cmds = append(cmds,
			m.commands.SubscribeToServices(),
			m.commands.LoadSnapshot(),
		)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())

	case SnapshotMsg:
		m.state.SetSnapshot(msg.Snapshot)
		m.state.ClearLoadingNotification()

	case RefreshMsg:
		cmds = append(cmds, m.startRefresh())

	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))

	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}

	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}

	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)

	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()

	case ToggleHelpMsg:
		m.showHelp = !m.showHelp

	case ToggleCompactMsg:
		m.compact = !m.compact

	case ToggleThemeMsg:
		m.theme = m.theme.Next()
		cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Theme: %s", m.theme.Name)))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) startRefresh() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.state.SetLoading(true)
	m.state.SetLoadingNotification("Refreshing...")
	return m.commands.Refresh()
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keymap.Escape):
		m.showHelp = false

	case key.Matches(msg, m.keymap.Refresh):
		return m.startRefresh()

	case key.Matches(msg, m.keymap.Compact):
		m.compact = !m.compact

	case key.Matches(msg, m.keymap.Theme):
		m.theme = m.theme.Next()
		return notifyInfoCmd(fmt.Sprintf("Theme: %s", m.theme.Name))
	}
	return nil
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.QuotaUpdatedEvent:
		m.state.SetSnapshot(e.Snapshot)
		m.state.ClearLoadingNotification()

	case services.LowQuotaEvent:
		return notifyWarningCmd(fmt.Sprintf("%s quota is low (%d%%).", e.Group.Name, e.Group.Percentage))

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render(m.spinner.View() + " Loading...")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.View(m.keymap)))

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}
	return mainView
}

func (m *Model) renderHeader() string {
	left := m.styles.Title.Render("claude-quota")

	var right string
	if snap, ok := m.state.Snapshot(); ok {
		right = statusline.Text(snap.Primary(), m.format)
		if updated := m.state.GetLastUpdated(); !updated.IsZero() {
			right += m.styles.Subtle.Render("  updated " + updated.Local().Format("15:04:05"))
		}
	}

	inner := max(m.width-2, 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	line := left
	if gap > 0 {
		line += strings.Repeat(" ", gap) + right
	}
	return m.styles.Header.Width(m.width).Render(line)
}

func (m *Model) renderBody() string {
	snap, ok := m.state.Snapshot()
	if !ok {
		return components.RenderSpinnerCentered(m.spinner, m.width, max(m.height-6, 3))
	}

	contentWidth := max(m.width-4, 0)
	if m.compact {
		contentWidth = min(contentWidth, 40)
	}
	return m.styles.Content.Render(dashboard.Render(snap, dashboard.Options{
		Theme:   m.theme,
		Compact: m.compact,
		Width:   contentWidth,
	}))
}

func (m *Model) renderHelp() string {
	h := m.help
	h.ShowAll = true

	lines := []string{
		m.styles.Title.Render("Keyboard Shortcuts"),
		"",
		h.View(m.keymap),
		"",
		m.styles.Subtle.Render("Press ? or Esc to close"),
	}
	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}
	return toasts
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)
	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		for mainY >= len(mainLines) {
			mainLines = append(mainLines, "")
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")
		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}
