/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package logbuffer keeps recent log lines in a ring buffer so the admin
// console can show them without shipping logs anywhere.
package logbuffer

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is one captured log line.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Buffer is a thread-safe ring buffer of log entries.
type Buffer struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	head     int
	count    int
}

// New creates a buffer holding up to capacity entries.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Buffer{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Add appends an entry, evicting the oldest when full.
func (b *Buffer) Add(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count < b.capacity {
		b.entries[(b.head+b.count)%b.capacity] = entry
		b.count++
		return
	}
	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.capacity
}

// All returns entries in insertion order, oldest first.
func (b *Buffer) All() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, b.count)
	for i := 0; i < b.count; i++ {
		out = append(out, b.entries[(b.head+i)%b.capacity])
	}
	return out
}

// QueryParams filters buffered entries.
type QueryParams struct {
	Level      string    // debug, info, warn, error
	Component  string    // exact component match
	Search     string    // substring match on message and fields
	Since      time.Time // only entries after this time
	Limit      int       // max entries (0 = all)
	Descending bool      // newest first
}

// Query returns entries matching the filter.
func (b *Buffer) Query(params QueryParams) []Entry {
	var filtered []Entry
	for _, entry := range b.All() {
		if params.Level != "" && entry.Level != params.Level {
			continue
		}
		if params.Component != "" && entry.Component != params.Component {
			continue
		}
		if !params.Since.IsZero() && entry.Timestamp.Before(params.Since) {
			continue
		}
		if params.Search != "" && !matches(entry, params.Search) {
			continue
		}
		filtered = append(filtered, entry)
	}

	if params.Descending {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}
	if params.Limit > 0 && len(filtered) > params.Limit {
		filtered = filtered[:params.Limit]
	}
	return filtered
}

func matches(entry Entry, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(entry.Message), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(entry.Component), needle) {
		return true
	}
	for _, v := range entry.Fields {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// Components returns the distinct component names seen in the buffer.
func (b *Buffer) Components() []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range b.All() {
		if entry.Component != "" && !seen[entry.Component] {
			seen[entry.Component] = true
			out = append(out, entry.Component)
		}
	}
	return out
}

// Stats summarizes buffer contents by level.
type Stats struct {
	Capacity   int            `json:"capacity"`
	Count      int            `json:"count"`
	LevelCount map[string]int `json:"levelCount"`
}

// Stats returns buffer statistics.
func (b *Buffer) Stats() Stats {
	stats := Stats{LevelCount: make(map[string]int)}
	b.mu.RLock()
	stats.Capacity = b.capacity
	b.mu.RUnlock()
	for _, entry := range b.All() {
		stats.Count++
		stats.LevelCount[entry.Level]++
	}
	return stats
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}

// Writer tees zerolog output into the buffer.
type Writer struct {
	buffer   *Buffer
	fallback io.Writer
}

// NewWriter creates a writer capturing JSON log lines into buffer while
// passing them through to fallback.
func NewWriter(buffer *Buffer, fallback io.Writer) *Writer {
	return &Writer{buffer: buffer, fallback: fallback}
}

// Write implements io.Writer. Lines that do not parse as JSON are passed
// through without capture.
func (w *Writer) Write(p []byte) (int, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err == nil {
		entry := Entry{
			Timestamp: time.Now(),
			Fields:    make(map[string]any),
		}
		if lvl, ok := raw["level"].(string); ok {
			entry.Level = lvl
			delete(raw, "level")
		}
		if msg, ok := raw["message"].(string); ok {
			entry.Message = msg
			delete(raw, "message")
		}
		if comp, ok := raw["component"].(string); ok {
			entry.Component = comp
			delete(raw, "component")
		}
		if ts, ok := raw["time"].(string); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				entry.Timestamp = t
			}
			delete(raw, "time")
		}
		for k, v := range raw {
			entry.Fields[k] = v
		}
		w.buffer.Add(entry)
	}

	if w.fallback != nil {
		return w.fallback.Write(p)
	}
	return len(p), nil
}
