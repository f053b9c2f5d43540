package app

import (
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// SnapshotMsg carries a freshly loaded or recomputed quota snapshot.
type SnapshotMsg struct {
	Snapshot models.QuotaSnapshot
}

// RefreshMsg requests an immediate recomputation.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// ToggleCompactMsg switches between the full and compact layouts.
type ToggleCompactMsg struct{}

// ToggleThemeMsg switches between the dark and light themes.
type ToggleThemeMsg struct{}
