package models

import (
	"fmt"
	"strconv"
)

// DayMonth is a recurring calendar position without a year, stored as "DD-MM".
// Comparisons are month-major so "05-03" (March 5) sorts after "28-02".
type DayMonth struct {
	Day   int
	Month int
}

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// ParseDayMonth parses the fixed-width "DD-MM" format used in storage.
func ParseDayMonth(s string) (DayMonth, error) {
	if len(s) != 5 || s[2] != '-' {
		return DayMonth{}, fmt.Errorf("invalid day-month %q: expected DD-MM", s)
	}

	day, err := strconv.Atoi(s[0:2])
	if err != nil {
		return DayMonth{}, fmt.Errorf("invalid day in %q", s)
	}
	month, err := strconv.Atoi(s[3:5])
	if err != nil {
		return DayMonth{}, fmt.Errorf("invalid month in %q", s)
	}

	dm := DayMonth{Day: day, Month: month}
	if !dm.Valid() {
		return DayMonth{}, fmt.Errorf("day-month %q out of range", s)
	}
	return dm, nil
}

func (dm DayMonth) Valid() bool {
	if dm.Month < 1 || dm.Month > 12 {
		return false
	}
	return dm.Day >= 1 && dm.Day <= daysInMonth[dm.Month]
}

func (dm DayMonth) String() string {
	return fmt.Sprintf("%02d-%02d", dm.Day, dm.Month)
}

// Compare returns -1, 0 or 1 ordering month first, then day.
func (dm DayMonth) Compare(other DayMonth) int {
	a := dm.Month*100 + dm.Day
	b := other.Month*100 + other.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (dm DayMonth) Before(other DayMonth) bool { return dm.Compare(other) < 0 }
func (dm DayMonth) After(other DayMonth) bool  { return dm.Compare(other) > 0 }

// RangeWraps reports whether a [start, end] day-month range crosses year-end,
// e.g. 22-12 .. 06-01.
func RangeWraps(start, end DayMonth) bool {
	return start.After(end)
}

// InRange reports whether dm falls inside the recurring range [start, end],
// both bounds inclusive. A wrapping range matches the tail of the year from
// start plus the head of the year up to end.
func (dm DayMonth) InRange(start, end DayMonth) bool {
	if RangeWraps(start, end) {
		return dm.Compare(start) >= 0 || dm.Compare(end) <= 0
	}
	return dm.Compare(start) >= 0 && dm.Compare(end) <= 0
}

// RangesOverlap reports whether two recurring ranges share at least one
// day-month. Ranges are circular intervals, so they overlap exactly when one
// range's start lies inside the other.
func RangesOverlap(aStart, aEnd, bStart, bEnd DayMonth) bool {
	return bStart.InRange(aStart, aEnd) || aStart.InRange(bStart, bEnd)
}
