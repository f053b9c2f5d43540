package services

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

// EvaluateLowQuota decides whether a low-quota warning should fire. A warning
// fires once when the remaining percentage drops below threshold and re-arms
// only after it climbs back to threshold or above, or notifications are
// switched off.
func EvaluateLowQuota(prevWarned bool, percentage, threshold int, enabled bool) (notify, warned bool) {
	if !enabled || percentage >= threshold {
		return false, false
	}
	return !prevWarned, true
}

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// BeeepNotifier sends notifications through the OS notification center.
type BeeepNotifier struct {
	Icon string
}

// Notify implements Notifier.
func (n BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, n.Icon)
}

// lowQuotaMessage formats the warning shown for a quota group.
func lowQuotaMessage(group models.QuotaGroup) (title, body string) {
	title = fmt.Sprintf("%s quota is low", group.Name)
	body = fmt.Sprintf("%s quota is low (%d%%). Resets in %s.", group.Name, group.Percentage, group.ResetCountdown)
	return title, body
}
