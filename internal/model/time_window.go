package model

import (
	"fmt"
	"time"
)

// MinutesPerDay is the upper bound for minute-of-day fields.
const MinutesPerDay = 24 * 60

// TimeWindow represents a declared availability interval of a student or
// teacher. Recurring windows apply to every future occurrence of Weekday;
// one-off windows apply only to SpecificDate. Windows are immutable: an edit
// is a remove followed by a new add.
type TimeWindow struct {
	ID           int64        `json:"id"`
	OwnerID      int64        `json:"owner_id"`
	Weekday      time.Weekday `json:"weekday"`       // valid when IsRecurring
	SpecificDate time.Time    `json:"specific_date"` // midnight UTC, zero when IsRecurring
	StartMinute  int          `json:"start_minute"`  // minutes from midnight, inclusive
	EndMinute    int          `json:"end_minute"`    // minutes from midnight, exclusive
	IsRecurring  bool         `json:"is_recurring"`
	CreatedAt    time.Time    `json:"created_at"`
}

// WindowOccurrence is a TimeWindow pinned to a concrete calendar date.
type WindowOccurrence struct {
	WindowID    int64     `json:"window_id"`
	OwnerID     int64     `json:"owner_id"`
	Date        time.Time `json:"date"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
}

// TimeRange is a half-open [StartMinute, EndMinute) interval within one day.
type TimeRange struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// DayAvailability is the matcher output for a single date: the bookable
// ranges shared by a teacher and a student, ordered by start time.
type DayAvailability struct {
	Date  time.Time   `json:"date"`
	Slots []TimeRange `json:"slots"`
}

// Duration returns the range length.
func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.EndMinute-r.StartMinute) * time.Minute
}

// Contains reports whether other lies fully inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return r.StartMinute <= other.StartMinute && other.EndMinute <= r.EndMinute
}

// Overlaps reports whether the half-open intervals intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.StartMinute < other.EndMinute && other.StartMinute < r.EndMinute
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", FormatMinute(r.StartMinute), FormatMinute(r.EndMinute))
}

// Range returns the window's time-of-day interval.
func (w *TimeWindow) Range() TimeRange {
	return TimeRange{StartMinute: w.StartMinute, EndMinute: w.EndMinute}
}

// AppliesTo reports whether the window produces an occurrence on the given
// calendar date.
func (w *TimeWindow) AppliesTo(date time.Time) bool {
	if w.IsRecurring {
		return date.Weekday() == w.Weekday
	}
	return SameDate(w.SpecificDate, date)
}

// OccurrenceOn pins the window to a concrete date. The caller is expected to
// have checked AppliesTo first.
func (w *TimeWindow) OccurrenceOn(date time.Time) WindowOccurrence {
	return WindowOccurrence{
		WindowID:    w.ID,
		OwnerID:     w.OwnerID,
		Date:        DateOf(date),
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
	}
}

// FormatMinute renders a minute-of-day as HH:MM.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseMinute parses HH:MM into a minute-of-day.
func ParseMinute(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DateOf truncates a timestamp to midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same UTC calendar day.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// MinuteOf returns the minute-of-day of a timestamp in UTC.
func MinuteOf(t time.Time) int {
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}
