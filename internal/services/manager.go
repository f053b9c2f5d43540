// Package services provides service orchestration for the TUI.
package services

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/claude-quota-tui/internal/config"
	"github.com/j-veylop/claude-quota-tui/internal/logger"
	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/services/quota"
)

type (
	// QuotaUpdatedEvent is emitted after every quota computation.
	QuotaUpdatedEvent struct {
		Snapshot models.QuotaSnapshot
	}

	// LowQuotaEvent is emitted once when the remaining quota drops below
	// the notification threshold.
	LowQuotaEvent struct {
		Group     models.QuotaGroup
		Threshold int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (QuotaUpdatedEvent) isServiceEvent() {}
func (LowQuotaEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()        {}

// Options controls polling and notifications.
type Options struct {
	Notifier              Notifier
	PollInterval          time.Duration
	NotificationThreshold int
	NotificationsEnabled  bool
}

// Manager polls the quota service, reacts to log changes and fans results
// out to subscribers. It owns the low-quota warned flag.
type Manager struct {
	mu          sync.RWMutex
	quota       *quota.Service
	watcher     *Watcher
	options     Options
	last        *models.QuotaSnapshot
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	wg          sync.WaitGroup
	warned      bool
	closed      bool
}

// NewManager creates a new service manager from the application config and
// starts polling.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := newManager(NewQuotaService(cfg), Options{
		Notifier:              BeeepNotifier{},
		PollInterval:          cfg.QuotaRefreshInterval,
		NotificationThreshold: cfg.NotificationThreshold,
		NotificationsEnabled:  cfg.NotificationsEnabled,
	})

	paths := m.quota.Paths()
	watcher, err := NewWatcher(paths.Base, []string{
		filepath.Base(paths.History),
		filepath.Base(paths.Stats),
	}, defaultDebounce)
	if err != nil {
		// Polling still works without change notifications.
		logger.Warn("File watching disabled", "dir", paths.Base, "error", err)
	} else {
		m.watcher = watcher
	}

	m.start()
	return m, nil
}

// NewQuotaService builds the quota engine described by cfg.
func NewQuotaService(cfg *config.Config) *quota.Service {
	quotaConfig := quota.DefaultConfig()
	quotaConfig.Paths = quota.PathsFor(cfg.ClaudeDir)
	quotaConfig.WorkspaceRoot = cfg.WorkspaceRoot
	quotaConfig.Limits = quota.Limits{
		Window:          cfg.SessionWindow,
		SessionMessages: cfg.SessionMessageLimit,
		WeeklyMessages:  cfg.WeeklyMessageLimit,
	}
	return quota.New(quotaConfig)
}

func newManager(svc *quota.Service, opts Options) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	return &Manager{
		quota:    svc,
		options:  opts,
		stopChan: make(chan struct{}),
	}
}

func (m *Manager) start() {
	m.wg.Add(1)
	go m.pollLoop()
}

// pollLoop recomputes on every tick and on every debounced file change.
func (m *Manager) pollLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.options.PollInterval)
	defer ticker.Stop()

	var (
		changes <-chan struct{}
		errs    <-chan error
	)
	if m.watcher != nil {
		changes = m.watcher.Changes()
		errs = m.watcher.Errors()
	}

	m.Refresh()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-changes:
			logger.Debug("History changed, refreshing quota")
			m.Refresh()
		case err := <-errs:
			logger.Warn("File watcher error", "error", err)
			m.broadcast(ErrorEvent{Service: "watcher", Error: err})
		case <-m.stopChan:
			return
		}
	}
}

// Refresh recomputes the quota, broadcasts it and fires the low-quota
// notification when due. It is safe to call from any goroutine.
func (m *Manager) Refresh() models.QuotaSnapshot {
	snap := m.quota.Snapshot()

	var (
		notify  bool
		primary models.QuotaGroup
	)
	m.mu.Lock()
	m.last = &snap
	if p := snap.Primary(); p != nil {
		primary = *p
		notify, m.warned = EvaluateLowQuota(m.warned, p.Percentage,
			m.options.NotificationThreshold, m.options.NotificationsEnabled)
	}
	m.mu.Unlock()

	m.broadcast(QuotaUpdatedEvent{Snapshot: snap})

	if notify {
		m.broadcast(LowQuotaEvent{Group: primary, Threshold: m.options.NotificationThreshold})
		if m.options.Notifier != nil {
			title, body := lowQuotaMessage(primary)
			if err := m.options.Notifier.Notify(title, body); err != nil {
				logger.Warn("Failed to send notification", "error", err)
				m.broadcast(ErrorEvent{Service: "notifier", Error: err})
			}
		}
	}

	return snap
}

// Snapshot returns the most recent computation, computing one if none exists.
func (m *Manager) Snapshot() models.QuotaSnapshot {
	m.mu.RLock()
	last := m.last
	m.mu.RUnlock()

	if last != nil {
		return *last
	}
	return m.quota.Snapshot()
}

// Warned reports whether the low-quota warning is currently latched.
func (m *Manager) Warned() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.warned
}

// Quota returns the quota service.
func (m *Manager) Quota() *quota.Service {
	return m.quota
}

// Watching reports whether file change notifications are active.
func (m *Manager) Watching() bool {
	return m.watcher != nil
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	if m.closed {
		close(ch)
	} else {
		m.subscribers = append(m.subscribers, ch)
	}
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel. A closed
// channel yields a nil message.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops polling and watching and closes all subscriber channels.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.stopChan)

	var err error
	if m.watcher != nil {
		err = m.watcher.Close()
	}
	m.wg.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return err
}
