// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, relative time formatting and line collapsing

package commands

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"very short maxLen", "hello", 2, "he"},
		{"multibyte runes", "cardiología clínica", 8, "cardi..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTimeSince(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
		{"older", now.Add(-30 * 24 * time.Hour), "2026-02-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimeSince(tt.t, now); got != tt.want {
				t.Errorf("formatTimeSince() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("book\n  cardiology\tnext week "); got != "book cardiology next week" {
		t.Errorf("singleLine() = %q", got)
	}
}
