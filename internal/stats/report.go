package stats

import (
	"math"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/window"
)

// BuildReport filters entries to w and derives everything the stats screen
// renders. It is recomputed on every call.
func BuildReport(period Period, w window.Window, entries []drink.Entry) (*Report, error) {
	inWindow := window.Filter(entries, w)
	agg, err := aggregate.Aggregate(inWindow)
	if err != nil {
		return nil, err
	}
	daily, err := aggregate.DailyTotals(inWindow)
	if err != nil {
		return nil, err
	}

	totalDays := w.Days()
	report := &Report{
		Period:             period,
		Window:             w,
		TotalDays:          totalDays,
		SoberDays:          max(0, totalDays-agg.DistinctDrinkingDays),
		Aggregate:          agg,
		TotalVolumeLiters:  aggregate.Liters(agg.TotalVolumeMl),
		TotalPureAlcoholMl: int(math.Round(agg.TotalPureAlcoholMl)),
		Categories:         aggregate.CategoryBreakdown(agg),
		Weekdays:           aggregate.WeekdayBreakdown(agg),
		Daily:              daily,
		Tip:                aggregate.TipFor(agg),
	}

	if c, _, ok := aggregate.TopCategory(agg); ok {
		for _, share := range report.Categories {
			if share.Category == c {
				report.TopCategory = &share
				break
			}
		}
	}
	if idx, _, ok := aggregate.TopWeekday(agg); ok {
		bar := report.Weekdays[idx]
		report.TopWeekday = &bar
	}

	return report, nil
}
