package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTrackTime parses "90", "1:30" or "1:02:30" into milliseconds.
func ParseTrackTime(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	var total int64
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		total = total*60 + int64(n)
	}
	return total * 1000, nil
}

// FormatTrackTime renders a track position or length in milliseconds as
// "m:ss", or "h:mm:ss" once it crosses the hour.
func FormatTrackTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := ms / 1000
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ProgressBar renders a fixed-width textual progress bar for the given
// position within a length. Zero length (live streams) fills nothing.
func ProgressBar(positionMs, lengthMs int64, width int) string {
	if width <= 0 {
		width = 16
	}
	filled := 0
	if lengthMs > 0 {
		if positionMs > lengthMs {
			positionMs = lengthMs
		}
		filled = int(positionMs * int64(width) / lengthMs)
	}
	bar := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		if i < filled {
			bar = append(bar, '▬')
		} else {
			bar = append(bar, '·')
		}
	}
	return string(bar)
}
