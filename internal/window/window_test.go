package window

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sullendaAPI/internal/drink"
)

func entries(dates ...string) []drink.Entry {
	out := make([]drink.Entry, len(dates))
	for i, d := range dates {
		out[i] = drink.Entry{ID: d + "#" + string(rune('a'+i)), Date: d, Category: drink.CategoryBeer, Servings: 1, VolumeMilliliters: 500}
	}
	return out
}

func TestCalendarMonth_FebruaryNonLeap(t *testing.T) {
	w, err := CalendarMonth(2026, 2)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-01", w.StartDate)
	assert.Equal(t, "2026-02-28", w.EndDate)
	assert.True(t, w.Contains("2026-02-01"))
	assert.True(t, w.Contains("2026-02-28"))
	assert.False(t, w.Contains("2026-03-01"))
	assert.False(t, w.Contains("2026-01-31"))
	assert.Equal(t, 28, w.Days())
}

func TestCalendarMonth_LeapYear(t *testing.T) {
	w, err := CalendarMonth(2028, 2)
	require.NoError(t, err)
	assert.Equal(t, "2028-02-29", w.EndDate)
}

func TestCalendarMonth_InvalidMonth(t *testing.T) {
	_, err := CalendarMonth(2026, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = CalendarMonth(2026, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestISOWeek(t *testing.T) {
	// 2026-01-10 is a Saturday.
	w, err := ISOWeek("2026-01-10", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Window{StartDate: "2026-01-05", EndDate: "2026-01-10"}, w)

	w, err = ISOWeek("2026-01-10", time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, Window{StartDate: "2026-01-04", EndDate: "2026-01-10"}, w)

	// A Monday reference is the first day of its own week.
	w, err = ISOWeek("2026-01-12", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Window{StartDate: "2026-01-12", EndDate: "2026-01-12"}, w)

	// Sunday belongs to the week that started the previous Monday.
	w, err = ISOWeek("2026-01-11", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", w.StartDate)

	_, err = ISOWeek("2026-01-10", time.Wednesday)
	assert.ErrorIs(t, err, ErrUnsupportedWeekDay)
}

func TestFullWeek(t *testing.T) {
	w, err := FullWeek("2026-01-07", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Window{StartDate: "2026-01-05", EndDate: "2026-01-11"}, w)
	assert.Equal(t, 7, w.Days())
}

func TestRange(t *testing.T) {
	w, err := Range("2026-01-01", "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, w.Days())

	_, err = Range("2026-02-01", "2026-01-01")
	var rangeErr *InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "2026-02-01", rangeErr.StartDate)

	_, err = Range("yesterday", "2026-01-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTrailing(t *testing.T) {
	w, err := Trailing("2026-03-02", 7)
	require.NoError(t, err)
	assert.Equal(t, Window{StartDate: "2026-02-24", EndDate: "2026-03-02"}, w)
	assert.Equal(t, 7, w.Days())

	w, err = Trailing("2026-01-15", 30)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-17", w.StartDate)

	_, err = Trailing("2026-01-15", 0)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestDay(t *testing.T) {
	w, err := Day("2026-01-10")
	require.NoError(t, err)
	assert.True(t, w.Contains("2026-01-10"))
	assert.False(t, w.Contains("2026-01-11"))
}

func TestFilter_SubsetOrderedIdempotent(t *testing.T) {
	all := entries("2026-01-31", "2026-02-03", "2026-03-01", "2026-02-01", "2026-02-28", "2026-02-03")
	w, err := CalendarMonth(2026, 2)
	require.NoError(t, err)

	got := Filter(all, w)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"2026-02-03", "2026-02-01", "2026-02-28", "2026-02-03"},
		[]string{got[0].Date, got[1].Date, got[2].Date, got[3].Date})
	for _, e := range got {
		assert.Contains(t, all, e)
	}
	assert.Equal(t, got, Filter(got, w))
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	all := entries("2026-01-01", "2026-05-01")
	before := append([]drink.Entry(nil), all...)
	w, _ := Day("2026-05-01")

	_ = Filter(all, w)
	assert.Equal(t, before, all)
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	d, err := AddDays("2026-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d)

	a, _ := ParseDate("2025-12-30")
	b, _ := ParseDate("2026-01-02")
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
}
