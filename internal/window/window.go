package window

import (
	"errors"
	"fmt"
	"time"

	"sullendaAPI/internal/drink"
)

var (
	ErrInvalidDate        = drink.ErrInvalidDate
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidLength      = errors.New("window length must be at least one day")
	ErrUnsupportedWeekDay = errors.New("weeks start on monday or sunday")
)

// Window is an inclusive range of calendar dates. Both bounds are YYYY-MM-DD
// strings, so lexicographic order is chronological order.
type Window struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// InvalidRangeError reports a range whose start is after its end.
type InvalidRangeError struct {
	StartDate string
	EndDate   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.StartDate, e.EndDate)
}

func Day(date string) (Window, error) {
	if err := drink.ValidateDate(date); err != nil {
		return Window{}, err
	}
	return Window{StartDate: date, EndDate: date}, nil
}

// ISOWeek returns the window from the most recent weekStartsOn up to and
// including referenceDate.
func ISOWeek(referenceDate string, weekStartsOn time.Weekday) (Window, error) {
	if weekStartsOn != time.Monday && weekStartsOn != time.Sunday {
		return Window{}, ErrUnsupportedWeekDay
	}
	ref, err := parse(referenceDate)
	if err != nil {
		return Window{}, err
	}
	start := ref.AddDate(0, 0, -DaysSinceWeekStart(ref.Weekday(), weekStartsOn))
	return Window{StartDate: format(start), EndDate: referenceDate}, nil
}

// CalendarMonth covers the first through the last day of the month.
func CalendarMonth(year, month int) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{StartDate: format(first), EndDate: format(last)}, nil
}

func Range(startDate, endDate string) (Window, error) {
	if err := drink.ValidateDate(startDate); err != nil {
		return Window{}, err
	}
	if err := drink.ValidateDate(endDate); err != nil {
		return Window{}, err
	}
	if startDate > endDate {
		return Window{}, &InvalidRangeError{StartDate: startDate, EndDate: endDate}
	}
	return Window{StartDate: startDate, EndDate: endDate}, nil
}

// Trailing covers the last days calendar days ending on referenceDate.
func Trailing(referenceDate string, days int) (Window, error) {
	if days < 1 {
		return Window{}, ErrInvalidLength
	}
	ref, err := parse(referenceDate)
	if err != nil {
		return Window{}, err
	}
	return Window{StartDate: format(ref.AddDate(0, 0, -(days - 1))), EndDate: referenceDate}, nil
}

func (w Window) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// Days is the number of calendar days in the window.
func (w Window) Days() int {
	start, err := parse(w.StartDate)
	if err != nil {
		return 0
	}
	end, err := parse(w.EndDate)
	if err != nil {
		return 0
	}
	return DaysBetween(start, end) + 1
}

// Filter returns the entries dated inside w, in their original order. The input
// slice is not modified.
func Filter(entries []drink.Entry, w Window) []drink.Entry {
	out := make([]drink.Entry, 0, len(entries))
	for _, e := range entries {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// DaysSinceWeekStart is how far d is from the start of its week.
func DaysSinceWeekStart(d, weekStartsOn time.Weekday) int {
	return (int(d) - int(weekStartsOn) + 7) % 7
}

// DaysBetween counts whole calendar days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(date string) (time.Time, error) {
	return parse(date)
}

func parse(date string) (time.Time, error) {
	if err := drink.ValidateDate(date); err != nil {
		return time.Time{}, err
	}
	return time.Parse(drink.DateLayout, date)
}

func format(t time.Time) string {
	return t.Format(drink.DateLayout)
}

// Today is the current calendar date in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format(drink.DateLayout)
}

// FullWeek returns all seven days of the week containing referenceDate.
func FullWeek(referenceDate string, weekStartsOn time.Weekday) (Window, error) {
	w, err := ISOWeek(referenceDate, weekStartsOn)
	if err != nil {
		return Window{}, err
	}
	end, err := AddDays(w.StartDate, 6)
	if err != nil {
		return Window{}, err
	}
	w.EndDate = end
	return w, nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := parse(date)
	if err != nil {
		return "", err
	}
	return format(t.AddDate(0, 0, n)), nil
}
