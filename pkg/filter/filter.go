// Package filter computes the visible date window for list rendering:
// a single focus day, or a range derived from a week or month anchor.
package filter

import (
	"fmt"
	"time"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

// Mode selects how the filter interprets its fields.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeRange Mode = "range"
)

// Unit is the step size used when shifting the window.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// ISO is the fixed date layout used throughout the manifest. Zero-padded
// and fixed-width, so lexicographic comparison matches chronological order.
const ISO = "2006-01-02"

// Filter is the active view window. In day mode only Date is set; an empty
// Date means no filter (show all). In range mode Start and End bound the
// window inclusively.
type Filter struct {
	Mode  Mode
	Date  string
	Start string
	End   string
}

// ParseDate validates and parses an ISO date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Day returns a single-day filter.
func Day(date string) Filter {
	return Filter{Mode: ModeDay, Date: date}
}

// Week returns a range filter covering the Monday-Sunday week containing
// the anchor.
func Week(anchor time.Time) Filter {
	start, end := ComputeWeek(anchor)
	return Filter{Mode: ModeRange, Start: start.Format(ISO), End: end.Format(ISO)}
}

// Month returns a range filter covering the calendar month containing the
// anchor.
func Month(anchor time.Time) Filter {
	start, end := ComputeMonth(anchor)
	return Filter{Mode: ModeRange, Start: start.Format(ISO), End: end.Format(ISO)}
}

// ComputeWeek returns the Monday and Sunday of the week containing the
// anchor. Weeks start on Monday: monday = anchor - ((weekday+6) mod 7).
func ComputeWeek(anchor time.Time) (time.Time, time.Time) {
	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// ComputeMonth returns the first and last day of the month containing the
// anchor.
func ComputeMonth(anchor time.Time) (time.Time, time.Time) {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// Anchor resolves the date the next shift pivots around: the active range's
// start, else the single-day filter date, else the form's current date,
// else today, in that priority order.
func (f Filter) Anchor(formDate string, today time.Time) time.Time {
	if f.Mode == ModeRange && f.Start != "" {
		if t, err := ParseDate(f.Start); err == nil {
			return t
		}
	}
	if f.Mode == ModeDay && f.Date != "" {
		if t, err := ParseDate(f.Date); err == nil {
			return t
		}
	}
	if formDate != "" {
		if t, err := ParseDate(formDate); err == nil {
			return t
		}
	}
	return today
}

// Shift moves the anchor by offset units and re-derives the window. Day
// shifts produce a day filter, week and month shifts a range filter.
func (f Filter) Shift(unit Unit, offset int, formDate string, today time.Time) (Filter, error) {
	anchor := f.Anchor(formDate, today)
	switch unit {
	case UnitDay:
		return Day(anchor.AddDate(0, 0, offset).Format(ISO)), nil
	case UnitWeek:
		return Week(anchor.AddDate(0, 0, offset*7)), nil
	case UnitMonth:
		return Month(anchor.AddDate(0, offset, 0)), nil
	default:
		return Filter{}, fmt.Errorf("unknown shift unit %q", unit)
	}
}

// InView reports whether a date falls inside the window. Day mode matches
// exactly, with an unset date meaning show-all. Range bounds are inclusive;
// string comparison is valid for the fixed-width ISO layout.
func (f Filter) InView(date string) bool {
	switch f.Mode {
	case ModeDay:
		return f.Date == "" || date == f.Date
	case ModeRange:
		return date >= f.Start && date <= f.End
	default:
		return true
	}
}

// String describes the window for display badges.
func (f Filter) String() string {
	switch f.Mode {
	case ModeDay:
		if f.Date == "" {
			return "all"
		}
		return f.Date
	case ModeRange:
		return f.Start + " ~ " + f.End
	default:
		return ""
	}
}

// DefaultFocus picks the initial focus date for a freshly loaded manifest:
// today, unless entries exist on a later date, in which case the latest
// such date wins (sticky to most recent activity).
func DefaultFocus(m *manifest.Manifest, today time.Time) string {
	now := today.Format(ISO)
	latest, ok := m.LatestDate()
	if !ok || latest < now {
		return now
	}
	return latest
}
