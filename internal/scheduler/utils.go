package scheduler

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// parseClock converts a zero-padded "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf renders the wall-clock part of t the same way slots are rendered.
func ClockOf(t time.Time) string {
	return t.Format(clockLayout)
}
