package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/window"
)

// Weekday indexes follow ISO 8601: 0 is Monday, 6 is Sunday.
var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Tolerance used when comparing sums of float volumes.
const Tolerance = 1e-9

type WeeklyAggregate struct {
	TotalVolumeMl        float64                    `json:"totalVolumeMl"`
	DistinctDrinkingDays int                        `json:"distinctDrinkingDays"`
	TotalPureAlcoholMl   float64                    `json:"totalPureAlcoholMl"`
	PerWeekdayVolumeMl   [7]float64                 `json:"perWeekdayVolumeMl"`
	PerCategoryVolumeMl  map[drink.Category]float64 `json:"perCategoryVolumeMl"`
	TotalServings        float64                    `json:"totalServings"`
	EntryCount           int                        `json:"entryCount"`
}

// Aggregate reduces entries into totals. Volume sums use the stored
// VolumeMilliliters of each entry; pure alcohol is recomputed from servings and
// category because it depends on strength, not volume.
func Aggregate(entries []drink.Entry) (WeeklyAggregate, error) {
	agg := WeeklyAggregate{PerCategoryVolumeMl: make(map[drink.Category]float64)}
	days := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		alcohol, err := drink.ToAlcoholMl(e.Category, e.Servings)
		if err != nil {
			return WeeklyAggregate{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		weekday, err := WeekdayIndex(e.Date)
		if err != nil {
			return WeeklyAggregate{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}

		agg.TotalVolumeMl += e.VolumeMilliliters
		agg.TotalPureAlcoholMl += alcohol
		agg.TotalServings += e.Servings
		agg.PerWeekdayVolumeMl[weekday] += e.VolumeMilliliters
		if e.VolumeMilliliters > 0 {
			agg.PerCategoryVolumeMl[e.Category] += e.VolumeMilliliters
		}
		days[e.Date] = struct{}{}
		agg.EntryCount++
	}
	agg.DistinctDrinkingDays = len(days)

	return agg, nil
}

// WeekdayIndex maps a YYYY-MM-DD date to 0 (Monday) .. 6 (Sunday).
func WeekdayIndex(date string) (int, error) {
	t, err := window.ParseDate(date)
	if err != nil {
		return 0, err
	}
	return IndexOf(t.Weekday()), nil
}

func IndexOf(d time.Weekday) int {
	return window.DaysSinceWeekStart(d, time.Monday)
}

type CategoryShare struct {
	Category drink.Category `json:"category"`
	Label    string         `json:"label"`
	VolumeMl float64        `json:"volumeMl"`
	Percent  int            `json:"percent"`
}

// CategoryBreakdown lists consumed categories by volume, largest first. Equal
// volumes are ordered by category identifier. Empty when nothing was consumed.
func CategoryBreakdown(agg WeeklyAggregate) []CategoryShare {
	out := make([]CategoryShare, 0, len(agg.PerCategoryVolumeMl))
	if agg.TotalVolumeMl <= 0 {
		return out
	}
	for _, c := range sortedCategories(agg.PerCategoryVolumeMl) {
		ml := agg.PerCategoryVolumeMl[c]
		label := string(c)
		if spec, err := drink.Lookup(c); err == nil {
			label = spec.Label
		}
		out = append(out, CategoryShare{
			Category: c,
			Label:    label,
			VolumeMl: ml,
			Percent:  int(math.Round(100 * ml / agg.TotalVolumeMl)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VolumeMl > out[j].VolumeMl
	})
	return out
}

// HeavyDayMl marks a weekday bar as heavy.
const HeavyDayMl = 500

type WeekdayBar struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	VolumeMl float64 `json:"volumeMl"`
	Heavy    bool    `json:"heavy"`
}

func WeekdayBreakdown(agg WeeklyAggregate) []WeekdayBar {
	bars := make([]WeekdayBar, 7)
	for i, ml := range agg.PerWeekdayVolumeMl {
		bars[i] = WeekdayBar{
			Index:    i,
			Label:    WeekdayLabels[i],
			VolumeMl: ml,
			Heavy:    ml > HeavyDayMl,
		}
	}
	return bars
}

// TopCategory returns the category with the largest volume. Ties go to the
// smaller identifier.
func TopCategory(agg WeeklyAggregate) (drink.Category, float64, bool) {
	var (
		top  drink.Category
		best float64
		ok   bool
	)
	for _, c := range sortedCategories(agg.PerCategoryVolumeMl) {
		if ml := agg.PerCategoryVolumeMl[c]; ml > best {
			top, best, ok = c, ml, true
		}
	}
	return top, best, ok
}

// TopWeekday returns the busiest weekday index. Ties go to the smaller index.
func TopWeekday(agg WeeklyAggregate) (int, float64, bool) {
	top, best, ok := 0, 0.0, false
	for i, ml := range agg.PerWeekdayVolumeMl {
		if ml > best {
			top, best, ok = i, ml, true
		}
	}
	return top, best, ok
}

type DayTotal struct {
	Date          string  `json:"date"`
	VolumeMl      float64 `json:"volumeMl"`
	PureAlcoholMl float64 `json:"pureAlcoholMl"`
	Entries       int     `json:"entries"`
}

// DailyTotals groups entries by date, oldest first.
func DailyTotals(entries []drink.Entry) ([]DayTotal, error) {
	byDate := make(map[string]*DayTotal)
	for _, e := range entries {
		if err := drink.ValidateDate(e.Date); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		alcohol, err := drink.ToAlcoholMl(e.Category, e.Servings)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		day, ok := byDate[e.Date]
		if !ok {
			day = &DayTotal{Date: e.Date}
			byDate[e.Date] = day
		}
		day.VolumeMl += e.VolumeMilliliters
		day.PureAlcoholMl += alcohol
		day.Entries++
	}

	out := make([]DayTotal, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Liters converts milliliters for display, rounded to one decimal place.
func Liters(ml float64) float64 {
	return math.Round(ml/100) / 10
}

func sortedCategories(m map[drink.Category]float64) []drink.Category {
	keys := make([]drink.Category, 0, len(m))
	for c := range m {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
