package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 1440

// MinuteOfDay converts an "HH:MM" clock string to its minute offset from midnight.
func MinuteOfDay(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return h*60 + m, nil
}

// FormatMinute renders a minute offset as "HH:MM", wrapping values past
// midnight back onto the clock.
func FormatMinute(m int) string {
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NormalizeWindow maps a day window onto one monotonic timeline:
// close <= open means the window crosses midnight, so the close is pushed a
// full day forward. All interval math happens on this timeline; results are
// wrapped back to clock values only when formatted.
func NormalizeWindow(open, close int) (int, int) {
	if close <= open {
		close += MinutesPerDay
	}
	return open, close
}

// NormalizePoint shifts a clock minute onto the timeline of a
// midnight-crossing window: anything before the open belongs to the next
// calendar day.
func NormalizePoint(m, open int) int {
	if m < open {
		m += MinutesPerDay
	}
	return m
}
