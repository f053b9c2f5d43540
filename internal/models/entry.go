// Package models defines data structures and domain types.
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawLogEntry is one line of history.jsonl or a per-project session log.
// The shape varies between Claude Code versions, so the loosely typed
// fields are kept raw and decoded on demand.
type RawLogEntry struct {
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Display   json.RawMessage `json:"display,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	Project   string          `json:"project,omitempty"`
	Type      string          `json:"type,omitempty"`
	Role      string          `json:"role,omitempty"`
}

// RawMessage is the nested message object of a session log entry.
type RawMessage struct {
	Content json.RawMessage `json:"content,omitempty"`
	Role    string          `json:"role,omitempty"`
}

// ContentItem is one element of an array-valued content field.
type ContentItem struct {
	Content json.RawMessage `json:"content,omitempty"`
	Type    string          `json:"type"`
	Text    string          `json:"text"`
}

// ParseRawLogEntry decodes a single JSONL line.
func ParseRawLogEntry(line []byte) (RawLogEntry, error) {
	var entry RawLogEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return RawLogEntry{}, err
	}
	return entry, nil
}

// Time returns the entry timestamp. ISO-8601 strings and epoch milliseconds
// are accepted; anything else, including 0, yields the zero time.
func (e *RawLogEntry) Time() time.Time {
	return parseTimestamp(e.Timestamp)
}

// DisplayText returns the free-text display field if it is a string.
func (e *RawLogEntry) DisplayText() (string, bool) {
	return rawString(e.Display)
}

// IsUserMessage reports whether the entry is tagged as a user message.
func (e *RawLogEntry) IsUserMessage() bool {
	return e.Type == "user_message" || e.Role == "user"
}

// MessageText returns message.content when it is a plain string.
func (e *RawLogEntry) MessageText() (string, bool) {
	if len(e.Message) == 0 {
		return "", false
	}
	var msg RawMessage
	if err := json.Unmarshal(e.Message, &msg); err != nil {
		return "", false
	}
	return rawString(msg.Content)
}

// UserContent extracts the message text of a user entry, preferring a
// direct string content, then message.content, then the first text-like
// item of an array-valued content.
func (e *RawLogEntry) UserContent() string {
	if s, ok := rawString(e.Content); ok {
		return s
	}
	if s, ok := e.MessageText(); ok {
		return s
	}

	var items []ContentItem
	if len(e.Content) == 0 || json.Unmarshal(e.Content, &items) != nil {
		return ""
	}
	for _, item := range items {
		if item.Type == "text" || item.Text != "" {
			if item.Text != "" {
				return item.Text
			}
			s, _ := rawString(item.Content)
			return s
		}
	}
	return ""
}

func rawString(data json.RawMessage) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

// parseTimestamp attempts to parse a JSON time value as either ISO string or
// Unix epoch milliseconds.
func parseTimestamp(data json.RawMessage) time.Time {
	if strVal, ok := rawString(data); ok {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
			if t, err := time.Parse(layout, strVal); err == nil {
				return t
			}
		}
		// ISO strings without a zone are local time.
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", strVal, time.Local); err == nil {
			return t
		}
		return time.Time{}
	}

	var numVal float64
	if err := json.Unmarshal(data, &numVal); err == nil && numVal != 0 {
		return time.UnixMilli(int64(numVal))
	}

	return time.Time{}
}
