// Package timefmt parses user-entered durations into decimal hours.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHours accepts either decimal hours ("1.5") or clock notation
// ("1:30") and returns decimal hours. Values must be in (0, 24] and the
// minute component, when present, below 60.
func ParseHours(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var hours float64
	if h, m, ok := strings.Cut(s, ":"); ok {
		hh, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("invalid hours in %q", input)
		}
		mm, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in %q", input)
		}
		if hh < 0 || mm < 0 {
			return 0, fmt.Errorf("negative duration %q", input)
		}
		if mm >= 60 {
			return 0, fmt.Errorf("minutes must be below 60 in %q", input)
		}
		hours = float64(hh) + float64(mm)/60
	} else {
		var err error
		hours, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
	}

	if hours <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", input)
	}
	if hours > 24 {
		return 0, fmt.Errorf("duration exceeds 24 hours: %q", input)
	}
	return hours, nil
}
