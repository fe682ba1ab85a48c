package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayMonth(t *testing.T) {
	dm, err := ParseDayMonth("22-12")
	require.NoError(t, err)
	assert.Equal(t, 22, dm.Day)
	assert.Equal(t, 12, dm.Month)
	assert.Equal(t, "22-12", dm.String())

	dm, err = ParseDayMonth("01-01")
	require.NoError(t, err)
	assert.Equal(t, "01-01", dm.String())

	// Feb 29 is a valid recurring position even though not every year has it
	_, err = ParseDayMonth("29-02")
	assert.NoError(t, err)

	for _, bad := range []string{"", "1-1", "2212", "32-01", "00-05", "15-13", "15-00", "aa-bb", "15/06"} {
		_, err := ParseDayMonth(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestDayMonthCompare(t *testing.T) {
	mar5 := DayMonth{Day: 5, Month: 3}
	feb28 := DayMonth{Day: 28, Month: 2}

	assert.Equal(t, 1, mar5.Compare(feb28), "month is the primary key")
	assert.Equal(t, -1, feb28.Compare(mar5))
	assert.Equal(t, 0, mar5.Compare(DayMonth{Day: 5, Month: 3}))
	assert.True(t, feb28.Before(mar5))
	assert.True(t, mar5.After(feb28))
}

func TestInRangeNonWrapping(t *testing.T) {
	start := DayMonth{Day: 10, Month: 6}
	end := DayMonth{Day: 20, Month: 8}

	assert.False(t, RangeWraps(start, end))

	assert.True(t, DayMonth{Day: 10, Month: 6}.InRange(start, end), "start bound inclusive")
	assert.True(t, DayMonth{Day: 20, Month: 8}.InRange(start, end), "end bound inclusive")
	assert.True(t, DayMonth{Day: 1, Month: 7}.InRange(start, end))
	assert.False(t, DayMonth{Day: 9, Month: 6}.InRange(start, end))
	assert.False(t, DayMonth{Day: 21, Month: 8}.InRange(start, end))
	assert.False(t, DayMonth{Day: 25, Month: 12}.InRange(start, end))
}

func TestInRangeWrapping(t *testing.T) {
	// "22-12".."06-01" crosses year-end
	start := DayMonth{Day: 22, Month: 12}
	end := DayMonth{Day: 6, Month: 1}

	assert.True(t, RangeWraps(start, end))

	assert.True(t, DayMonth{Day: 25, Month: 12}.InRange(start, end), "tail of year")
	assert.True(t, DayMonth{Day: 3, Month: 1}.InRange(start, end), "head of year")
	assert.True(t, DayMonth{Day: 22, Month: 12}.InRange(start, end))
	assert.True(t, DayMonth{Day: 6, Month: 1}.InRange(start, end))
	assert.False(t, DayMonth{Day: 15, Month: 6}.InRange(start, end))
	assert.False(t, DayMonth{Day: 7, Month: 1}.InRange(start, end))
	assert.False(t, DayMonth{Day: 21, Month: 12}.InRange(start, end))
}

func TestRangesOverlap(t *testing.T) {
	// plain overlap
	assert.True(t, RangesOverlap(
		DayMonth{Day: 1, Month: 6}, DayMonth{Day: 30, Month: 6},
		DayMonth{Day: 15, Month: 6}, DayMonth{Day: 15, Month: 7}))

	// disjoint
	assert.False(t, RangesOverlap(
		DayMonth{Day: 1, Month: 6}, DayMonth{Day: 30, Month: 6},
		DayMonth{Day: 1, Month: 8}, DayMonth{Day: 31, Month: 8}))

	// wrapping range vs head-of-year range
	assert.True(t, RangesOverlap(
		DayMonth{Day: 22, Month: 12}, DayMonth{Day: 6, Month: 1},
		DayMonth{Day: 1, Month: 1}, DayMonth{Day: 31, Month: 1}))

	// wrapping range vs mid-year range
	assert.False(t, RangesOverlap(
		DayMonth{Day: 22, Month: 12}, DayMonth{Day: 6, Month: 1},
		DayMonth{Day: 1, Month: 5}, DayMonth{Day: 30, Month: 6}))

	// containment
	assert.True(t, RangesOverlap(
		DayMonth{Day: 1, Month: 1}, DayMonth{Day: 31, Month: 12},
		DayMonth{Day: 10, Month: 4}, DayMonth{Day: 20, Month: 4}))
}

func TestSeasonPeriodCovers(t *testing.T) {
	period := SeasonPeriod{
		SeasonType:    SeasonPeak,
		StartDayMonth: "22-12",
		EndDayMonth:   "06-01",
		PricePerNight: 2500,
		MinimumNights: 3,
	}

	assert.True(t, period.Covers(DayMonth{Day: 31, Month: 12}))
	assert.True(t, period.Covers(DayMonth{Day: 2, Month: 1}))
	assert.False(t, period.Covers(DayMonth{Day: 15, Month: 8}))

	broken := SeasonPeriod{StartDayMonth: "bad", EndDayMonth: "06-01"}
	assert.False(t, broken.Covers(DayMonth{Day: 1, Month: 1}))
}
