package calendar

import (
	"time"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/window"
)

type CalendarDay struct {
	Date          string  `json:"date"`
	Day           int     `json:"day"`
	DrankToday    bool    `json:"drankToday"`
	IsToday       bool    `json:"isToday"`
	VolumeMl      float64 `json:"volumeMl"`
	PureAlcoholMl float64 `json:"pureAlcoholMl"`
	Entries       int     `json:"entries"`
}

type CalendarResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	// LeadingBlanks is how many empty cells precede the 1st in a grid whose
	// first column is WeekStartsOn.
	LeadingBlanks int            `json:"leadingBlanks"`
	WeekStartsOn  string         `json:"weekStartsOn"`
	Days          []*CalendarDay `json:"days"`
}

// Build lays out every day of the month with that day's totals. Entries outside
// the month are ignored.
func Build(year, month int, entries []drink.Entry, today string, weekStartsOn time.Weekday) (*CalendarResponse, error) {
	w, err := window.CalendarMonth(year, month)
	if err != nil {
		return nil, err
	}
	totals, err := aggregate.DailyTotals(window.Filter(entries, w))
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]aggregate.DayTotal, len(totals))
	for _, t := range totals {
		byDate[t.Date] = t
	}

	first, _ := window.ParseDate(w.StartDate)
	last, _ := window.ParseDate(w.EndDate)

	resp := &CalendarResponse{
		Year:          year,
		Month:         month,
		LeadingBlanks: window.DaysSinceWeekStart(first.Weekday(), weekStartsOn),
		WeekStartsOn:  weekStartsOn.String(),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(drink.DateLayout)
		t := byDate[date]
		resp.Days = append(resp.Days, &CalendarDay{
			Date:          date,
			Day:           d.Day(),
			DrankToday:    t.Entries > 0,
			IsToday:       date == today,
			VolumeMl:      t.VolumeMl,
			PureAlcoholMl: t.PureAlcoholMl,
			Entries:       t.Entries,
		})
	}
	return resp, nil
}
