package util

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// maxTaskNameLen matches the backend's task name column.
const maxTaskNameLen = 128

// ValidateTaskName checks a purchase-task display name. Names are shown
// in task lists and notifications, so they may contain spaces and
// punctuation (e.g. "KS-A | Intel i7-6700k (gra)") but must be printable,
// non-empty, and bounded.
func ValidateTaskName(name string) error {
	if name == "" {
		return fmt.Errorf("task name must not be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("task name is not valid UTF-8")
	}
	if utf8.RuneCountInString(name) > maxTaskNameLen {
		return fmt.Errorf("task name exceeds %d characters", maxTaskNameLen)
	}
	for _, r := range name {
		if r != ' ' && !unicode.IsPrint(r) {
			return fmt.Errorf("task name contains non-printable character %q", r)
		}
	}
	return nil
}
