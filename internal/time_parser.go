// internal/time_parser.go
// ------------------------
// Helpers for converting the timing formats DDI sources put in response
// headers into a uniform representation (unix milliseconds / durations).
//
// Functions:
// - ParseResetStr: Convert values like "120", "30s", "6m0s" into milliseconds.
// - UnixToMs: Convert a UNIX timestamp in seconds to milliseconds.
// - IsInFuture: Check if a given timestamp (ms) is in the future.
package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseResetStr converts reset/retry values like "120" (plain seconds),
// "30s", or "6m0s" into milliseconds. Unparseable input yields 0.
func ParseResetStr(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Plain integer means seconds (the common retry-after form).
	if sec, err := strconv.Atoi(s); err == nil && sec >= 0 {
		return int64(sec) * 1000
	}

	if strings.HasSuffix(s, "s") && !strings.Contains(s, "m") {
		val := strings.TrimSuffix(s, "s")
		if sec, err := strconv.Atoi(val); err == nil {
			return int64(sec) * 1000
		}
	}

	var minutes, seconds int
	n, err := fmt.Sscanf(s, "%dm%ds", &minutes, &seconds)
	if n == 2 && err == nil {
		return int64(minutes)*60_000 + int64(seconds)*1_000
	}

	return 0
}

// UnixToMs converts a UNIX timestamp in seconds to milliseconds.
func UnixToMs(timestamp int64) int64 {
	return timestamp * 1000
}

// IsInFuture checks if a timestamp (in ms) is in the future relative to the current time.
func IsInFuture(ms int64) bool {
	return ms > time.Now().UnixMilli()
}
