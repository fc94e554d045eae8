// Package notification implements the scheduling core: time windows,
// candidate resolution, event relevance and the per-tick delivery gate.
package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"calendario.app/errors"
)

// parseClockTime converts an "HH:MM" string to minutes since midnight
func parseClockTime(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid time %q: expected HH:MM", value))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid hour in %q", value))
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid minute in %q", value))
	}

	return hours*60 + minutes, nil
}

func minuteOfDay(now time.Time) int {
	return now.Hour()*60 + now.Minute()
}

// IsWithinQuietHours reports whether now falls inside the [start, end] quiet
// window. A window with start > end spans midnight (e.g. 22:00-08:00). A
// window with start == end is treated as no window at all: never quiet.
func IsWithinQuietHours(start, end string, now time.Time) (bool, error) {
	startMin, err := parseClockTime(start)
	if err != nil {
		return false, err
	}
	endMin, err := parseClockTime(end)
	if err != nil {
		return false, err
	}

	if startMin == endMin {
		return false, nil
	}

	nowMin := minuteOfDay(now)
	if startMin > endMin {
		return nowMin >= startMin || nowMin <= endMin, nil
	}
	return nowMin >= startMin && nowMin <= endMin, nil
}

// IsWithinSendWindow reports whether now falls inside
// [preferred, preferred+windowMinutes). The window does not wrap past
// midnight: a preferred time later than 24:00-window can miss its day
// entirely, which matches the shipped behavior.
func IsWithinSendWindow(preferred string, now time.Time, windowMinutes int) (bool, error) {
	preferredMin, err := parseClockTime(preferred)
	if err != nil {
		return false, err
	}

	delta := minuteOfDay(now) - preferredMin
	return delta >= 0 && delta < windowMinutes, nil
}
