package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL limits.
const (
	DefaultTTLSeconds = 86400   // 1 day
	MinTTLSeconds     = 60      // 1 minute
	MaxTTLSeconds     = 2592000 // 30 days

	DefaultMaxEntries = 500
)

// ErrInvalidTTL is returned by ParseTTL for out-of-range values.
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ParseTTL accepts integer seconds ("3600") or a Go duration ("12h", "90m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format %q: %w", s, durErr)
		}
		seconds = int(d.Seconds())
	}
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}

// FormatDuration renders d compactly: "30s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		h, m := int(d.Hours()), int(d.Minutes())%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	default:
		days, h := int(d.Hours())/hoursPerDay, int(d.Hours())%hoursPerDay
		if h == 0 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%dh", days, h)
	}
}
