package stats

import (
	"errors"
	"fmt"
	"time"

	"sullendaAPI/internal/window"
)

var ErrUnknownPeriod = errors.New("unknown stats period")

// Query selects the window of a stats request. Zero fields default to the
// period that contains today.
type Query struct {
	Period Period
	Date   string
	Year   int
	Month  int
	Start  string
	End    string
}

func ResolveWindow(q Query, today string, weekStartsOn time.Weekday) (window.Window, error) {
	ref := q.Date
	if ref == "" {
		ref = today
	}

	switch q.Period {
	case PeriodDay:
		return window.Day(ref)
	case "", PeriodWeek:
		return window.ISOWeek(ref, weekStartsOn)
	case PeriodMonth:
		year, month := q.Year, q.Month
		if year == 0 || month == 0 {
			t, err := window.ParseDate(ref)
			if err != nil {
				return window.Window{}, err
			}
			if year == 0 {
				year = t.Year()
			}
			if month == 0 {
				month = int(t.Month())
			}
		}
		return window.CalendarMonth(year, month)
	case PeriodLast7:
		return window.Trailing(ref, 7)
	case PeriodLast30:
		return window.Trailing(ref, 30)
	case PeriodRange:
		return window.Range(q.Start, q.End)
	}
	return window.Window{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, q.Period)
}
