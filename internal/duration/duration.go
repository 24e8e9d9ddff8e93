// Package duration converts between human-entered duration strings and
// whole seconds, and back to a compact display form.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError indicates the input matched none of the accepted forms.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse duration: %q", e.Input)
}

var tokenPattern = regexp.MustCompile(`(\d+\.?\d*)\s*([hms])`)

// Parse converts a duration string to total seconds.
//
// Accepted forms, tried in order:
//   - "1:20" (H:MM)
//   - "1h 20m", "2h", "30m", "45s" (unit tokens, fractions allowed)
//   - "80" (bare number of minutes)
func Parse(text string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(text))

	// H:MM form. Non-integer parts fall through to the token forms.
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) == 2 {
			hours, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
			minutes, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errH == nil && errM == nil {
				return int64(hours)*3600 + int64(minutes)*60, nil
			}
		}
	}

	// Unit tokens. Each contribution truncates toward zero after conversion.
	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) > 0 {
		var total int64
		for _, m := range matches {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return 0, &ParseError{Input: text}
			}
			switch m[2] {
			case "h":
				total += int64(value * 3600)
			case "m":
				total += int64(value * 60)
			case "s":
				total += int64(value)
			}
		}
		return total, nil
	}

	// Bare number of minutes.
	if minutes, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(minutes * 60), nil
	}

	return 0, &ParseError{Input: text}
}

// Format renders seconds as a compact human-readable duration.
// Seconds are shown only below the one hour mark; negative and zero
// inputs both render as "0m".
func Format(seconds int64) string {
	if seconds < 0 {
		return "0m"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}

	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}
