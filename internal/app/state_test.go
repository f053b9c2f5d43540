package app

import (
	"testing"
	"time"

	"github.com/j-veylop/claude-quota-tui/internal/models"
)

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		n    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("NotificationType(%d).String() = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNotification_IsExpired(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-time.Minute), Duration: time.Second}
	if !n.IsExpired() {
		t.Error("notification past its duration should be expired")
	}

	n.Duration = 0
	if n.IsExpired() {
		t.Error("zero duration never expires")
	}
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()
	if !s.IsLoading() {
		t.Error("new state should be loading")
	}
	if _, ok := s.Snapshot(); ok {
		t.Error("new state should have no snapshot")
	}

	computed := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	s.SetSnapshot(models.QuotaSnapshot{
		ComputedAt: computed,
		Realtime:   []models.QuotaGroup{{Name: "Claude Code", Percentage: 80}},
	})

	snap, ok := s.Snapshot()
	if !ok || snap.Primary().Percentage != 80 {
		t.Errorf("Snapshot() = %+v, %v", snap, ok)
	}
	if s.IsLoading() {
		t.Error("SetSnapshot should end loading")
	}
	if !s.GetLastUpdated().Equal(computed) {
		t.Errorf("GetLastUpdated() = %v, want %v", s.GetLastUpdated(), computed)
	}

	s.SetLoading(true)
	if !s.IsLoading() {
		t.Error("SetLoading(true) not applied")
	}
}

func TestState_SetSnapshotWithoutTimestamp(t *testing.T) {
	s := NewState()
	s.SetSnapshot(models.QuotaSnapshot{})
	if s.GetLastUpdated().IsZero() {
		t.Error("last updated should fall back to now")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "hello", 0)
	s.AddNotification(NotificationError, "expired", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if got := s.GetNotifications(); len(got) != 1 || got[0].ID != id {
		t.Fatalf("GetNotifications() = %+v", got)
	}

	s.ClearExpiredNotifications()
	s.RemoveNotification(id)
	if got := s.GetNotifications(); len(got) != 0 {
		t.Errorf("notifications after removal = %+v", got)
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("notifications = %d, want %d", got, maxNotifications)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()
	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Refreshing...")

	got := s.GetNotifications()
	if len(got) != 1 || got[0].Message != "Refreshing..." || got[0].Type != NotificationLoading {
		t.Fatalf("loading notification = %+v", got)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}
