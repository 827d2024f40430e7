package stats

import (
	"strconv"
	"strings"
)

// ParseMinutes converts an upstream minutes-played string into fractional
// minutes. Supported forms are "MM:SS" and a bare number; empty, "0" or
// unparsable input yields 0.
func ParseMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0
	}

	if idx := strings.Index(raw, ":"); idx >= 0 {
		mins, err := strconv.ParseFloat(raw[:idx], 64)
		if err != nil {
			return 0
		}
		secs, err := strconv.ParseFloat(raw[idx+1:], 64)
		if err != nil {
			return 0
		}
		return mins + secs/60
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
