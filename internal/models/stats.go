// Package models defines data structures and domain types.
package models

import "encoding/json"

// DailyActivity is one calendar day of the cached activity summary.
type DailyActivity struct {
	Date         string `json:"date"`
	MessageCount int    `json:"messageCount"`
	SessionCount int    `json:"sessionCount"`
}

// QuotaStats mirrors stats-cache.json, which is written by the Claude Code CLI.
// Only the key set of ModelUsage is consumed.
type QuotaStats struct {
	ModelUsage    map[string]json.RawMessage `json:"modelUsage"`
	DailyActivity []DailyActivity            `json:"dailyActivity"`
	TotalMessages int                        `json:"totalMessages"`
	TotalSessions int                        `json:"totalSessions"`
}
