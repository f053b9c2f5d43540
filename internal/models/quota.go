// Package models defines data structures and domain types.
package models

import "time"

// QuotaStatus is the health classification of the remaining session quota.
type QuotaStatus string

const (
	// StatusHealthy means at least 30% of the session estimate remains.
	StatusHealthy QuotaStatus = "Healthy"
	// StatusWarning means less than 30% remains.
	StatusWarning QuotaStatus = "Warning"
	// StatusCritical means less than 10% remains.
	StatusCritical QuotaStatus = "Critical"
)

// QuotaDetails is the secondary weekly rollup attached to a quota group.
type QuotaDetails struct {
	Label      string `json:"label"`
	Percentage int    `json:"percentage"`
	ValueStr   string `json:"valueStr"`
}

// QuotaGroup is the estimated quota for one product, as handed to renderers.
// Percentage is the remaining capacity, not the usage.
type QuotaGroup struct {
	ResetAt        time.Time     `json:"resetAt"`
	Details        *QuotaDetails `json:"details,omitempty"`
	Name           string        `json:"name"`
	ResetTime      string        `json:"resetTime"`
	ResetCountdown string        `json:"resetCountdown"`
	Status         QuotaStatus   `json:"status"`
	ActiveModel    string        `json:"activeModel"`
	IncludedModels []string      `json:"includedModels"`
	Percentage     int           `json:"percentage"`
	UsedCount      int           `json:"usedCount"`
	LimitCount     int           `json:"limitCount"`
}

// IsFullyCharged reports whether no quota-consuming message is in the window.
func (g *QuotaGroup) IsFullyCharged() bool {
	return g.UsedCount == 0
}

// SessionWindow is the usage reconstructed from the history tail.
// OldestTimestamp is only meaningful when MessageCount > 0.
type SessionWindow struct {
	WindowStart     time.Time
	OldestTimestamp time.Time
	Duration        time.Duration
	MessageCount    int
}

// Found reports whether any quota-consuming entry was seen.
func (w SessionWindow) Found() bool {
	return w.MessageCount > 0
}

// QuotaSnapshot pairs the raw cached stats with the derived quota groups.
type QuotaSnapshot struct {
	ComputedAt time.Time    `json:"-"`
	Stats      *QuotaStats  `json:"stats"`
	Realtime   []QuotaGroup `json:"realtime"`
}

// Primary returns the first quota group, or nil when there is none.
func (s *QuotaSnapshot) Primary() *QuotaGroup {
	if s == nil || len(s.Realtime) == 0 {
		return nil
	}
	return &s.Realtime[0]
}
