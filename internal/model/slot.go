package model

import (
	"fmt"
	"time"
)

// ConflictWindow is the minimum spacing between two valid appointments on
// the same date.
const ConflictWindow = 2 * time.Hour

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// NormalizeDate validates a YYYY-MM-DD date string and returns it in
// canonical form.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return t.Format(dateLayout), nil
}

// NormalizeTime canonicalizes HH:MM or HH:MM:SS input to HH:MM:SS. Any
// other format is rejected rather than guessed at.
func NormalizeTime(s string) (string, error) {
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

// CombineDateTime merges a canonical date and time into a single instant
// for interval math.
func CombineDateTime(date, tm string) (time.Time, error) {
	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+tm)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine %q %q: %w", date, tm, err)
	}
	return t, nil
}

// StartsAt is the booking's appointment instant.
func (b *Booking) StartsAt() (time.Time, error) {
	return CombineDateTime(b.Date, b.Time)
}

// InConflictWindow reports whether two appointment instants are strictly
// closer than ConflictWindow. Exactly two hours apart is allowed.
func InConflictWindow(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < ConflictWindow
}
