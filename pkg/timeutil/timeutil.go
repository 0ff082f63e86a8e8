// Package timeutil parses the timestamp shapes calendar and transcript
// providers send and renders them for humans.
package timeutil

import (
	"strings"
	"time"
)

// BotLayout is the wire format the transcription bot expects.
const BotLayout = "2006-01-02T15:04:05+00:00"

// DisplayLayout is used in chat messages and prompts.
const DisplayLayout = "Monday, January 02 at 03:04 PM MST"

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse reads value as a timestamp. Values without an offset are interpreted
// in loc. The result is always UTC.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatBot renders t for the bot scheduling API.
func FormatBot(t time.Time) string {
	return t.UTC().Format(BotLayout)
}

// FormatDisplay renders t in loc for humans.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}

// WithinTolerance reports whether |a-b| <= tol.
func WithinTolerance(a, b time.Time, tol time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}
