// Package availability normalizes the provider's free-text stock signal
// into a small set of actionable states.
//
// The upstream vocabulary is an informally-specified grab-bag: "unavailable",
// "72H", "240H-low", "high", "available", and new variants appear without
// notice. Resolve is therefore total: it never fails on an unrecognized
// format. Unknown-but-non-negative text is reported as available rather
// than hidden, because a false negative costs the user a real purchase
// window while a false positive only costs a wasted check.
package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Status is the normalized classification of a raw stock signal.
type Status int

const (
	// StatusUnknown means no usable signal: either no check ever ran for
	// the plan, or the provider itself answered "unknown".
	StatusUnknown Status = iota

	// StatusAvailable means the plan can be ordered now or near-term.
	StatusAvailable

	// StatusSoonAvailable means restock is expected but not imminent.
	StatusSoonAvailable

	// StatusUnavailable means the provider reported no stock.
	StatusUnavailable
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusSoonAvailable:
		return "soon"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result pairs a normalized status with a human-readable label.
type Result struct {
	Status Status
	Label  string
}

// hourPattern matches a restock horizon: digits immediately followed by
// an 'h' or 'H', e.g. "72H" or "240H-low".
var hourPattern = regexp.MustCompile(`(\d+)[hH]`)

// negativeMarkers are substrings that mark a signal as out of stock,
// matched case-insensitively anywhere in the raw string.
var negativeMarkers = []string{"unavailable", "out", "none"}

// Resolve maps a raw provider status string to a normalized result.
// An empty raw string means no check was ever attempted for the plan;
// that is reported distinctly from the provider answering "unknown".
func Resolve(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Status: StatusUnknown, Label: "not checked"}
	}

	lower := strings.ToLower(trimmed)
	if lower == "unknown" {
		return Result{Status: StatusUnknown, Label: "unknown"}
	}

	for _, marker := range negativeMarkers {
		if strings.Contains(lower, marker) {
			return Result{Status: StatusUnavailable, Label: "unavailable"}
		}
	}

	// Everything from here on is a positive signal; classify urgency.
	if m := hourPattern.FindStringSubmatch(trimmed); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil {
			label := fmt.Sprintf("available within %d hours", hours)
			if hours <= 24 {
				if strings.Contains(lower, "low") {
					label += ", limited stock"
				}
				return Result{Status: StatusAvailable, Label: label}
			}
			return Result{Status: StatusSoonAvailable, Label: label}
		}
		// Hour count too large for an int: still a positive signal,
		// fall through to the keyword branches.
	}

	if strings.Contains(lower, "high") {
		return Result{Status: StatusAvailable, Label: "ample stock"}
	}
	if strings.Contains(lower, "low") {
		return Result{Status: StatusSoonAvailable, Label: "limited stock"}
	}
	if lower == "available" {
		return Result{Status: StatusAvailable, Label: "in stock"}
	}

	// Unrecognized positive format: fail open with the raw text so the
	// user sees what the provider actually said.
	return Result{Status: StatusAvailable, Label: trimmed}
}
