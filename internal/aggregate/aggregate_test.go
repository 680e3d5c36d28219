package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sullendaAPI/internal/drink"
)

func entry(date string, c drink.Category, servings, volume float64) drink.Entry {
	return drink.Entry{ID: date + string(c), Date: date, Category: c, Servings: servings, VolumeMilliliters: volume}
}

func logged(t *testing.T, date string, c drink.Category, servings float64) drink.Entry {
	t.Helper()
	e, err := drink.NewEntry(drink.NewEntryParams{OwnerID: "user_1", Date: date, Category: c, Servings: servings})
	require.NoError(t, err)
	return *e
}

func TestAggregate_Empty(t *testing.T) {
	agg, err := Aggregate(nil)
	require.NoError(t, err)

	assert.Zero(t, agg.TotalVolumeMl)
	assert.Zero(t, agg.DistinctDrinkingDays)
	assert.Zero(t, agg.TotalPureAlcoholMl)
	assert.Empty(t, agg.PerCategoryVolumeMl)
	assert.Equal(t, [7]float64{}, agg.PerWeekdayVolumeMl)
	assert.Empty(t, CategoryBreakdown(agg))
	_, _, ok := TopCategory(agg)
	assert.False(t, ok)
	_, _, ok = TopWeekday(agg)
	assert.False(t, ok)
}

func TestAggregate_SingleBeerEntry(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{logged(t, "2026-01-10", drink.CategoryBeer, 2)})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, agg.TotalVolumeMl)
	assert.InDelta(t, 50.0, agg.TotalPureAlcoholMl, Tolerance)
	assert.Equal(t, 1, agg.DistinctDrinkingDays)
	assert.Equal(t, 2.0, agg.TotalServings)
	// Saturday
	assert.Equal(t, 1000.0, agg.PerWeekdayVolumeMl[5])
}

func TestAggregate_SameDateCountsOnce(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{
		logged(t, "2026-01-10", drink.CategoryBeer, 1),
		logged(t, "2026-01-10", drink.CategoryWine, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, agg.DistinctDrinkingDays)
	assert.Equal(t, 2, agg.EntryCount)
}

func TestAggregate_CategorySplitEvenly(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{
		entry("2026-01-05", drink.CategoryBeer, 1.5, 600),
		entry("2026-01-06", drink.CategoryBeer, 1, 400),
		entry("2026-01-07", drink.CategoryWine, 1.5, 1000),
	})
	require.NoError(t, err)

	assert.Equal(t, map[drink.Category]float64{drink.CategoryBeer: 1000, drink.CategoryWine: 1000}, agg.PerCategoryVolumeMl)

	shares := CategoryBreakdown(agg)
	require.Len(t, shares, 2)
	percents := map[drink.Category]int{}
	for _, s := range shares {
		percents[s.Category] = s.Percent
	}
	assert.Equal(t, map[drink.Category]int{drink.CategoryBeer: 50, drink.CategoryWine: 50}, percents)

	// Equal volumes: the smaller identifier wins.
	top, ml, ok := TopCategory(agg)
	require.True(t, ok)
	assert.Equal(t, drink.CategoryBeer, top)
	assert.Equal(t, 1000.0, ml)
	assert.Equal(t, drink.CategoryBeer, shares[0].Category)
}

func TestAggregate_CategorySumEqualsTotal(t *testing.T) {
	var all []drink.Entry
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-08", "2026-01-11"}
	for i, c := range drink.Categories {
		all = append(all, logged(t, dates[i%len(dates)], c, 0.5*float64(i+1)))
	}
	agg, err := Aggregate(all)
	require.NoError(t, err)

	var sum float64
	for _, ml := range agg.PerCategoryVolumeMl {
		sum += ml
	}
	assert.InDelta(t, agg.TotalVolumeMl, sum, Tolerance)

	var weekdays float64
	for _, ml := range agg.PerWeekdayVolumeMl {
		weekdays += ml
	}
	assert.InDelta(t, agg.TotalVolumeMl, weekdays, Tolerance)
	assert.Equal(t, len(dates), agg.DistinctDrinkingDays)
}

func TestAggregate_UnknownCategoryFails(t *testing.T) {
	_, err := Aggregate([]drink.Entry{entry("2026-01-05", "cider", 1, 300)})

	var cfgErr *drink.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAggregate_BadDateFails(t *testing.T) {
	_, err := Aggregate([]drink.Entry{entry("05/01/2026", drink.CategoryBeer, 1, 500)})
	assert.ErrorIs(t, err, drink.ErrInvalidDate)
}

func TestWeekdayIndex_MondayIsZero(t *testing.T) {
	tests := map[string]int{
		"2026-01-05": 0,
		"2026-01-06": 1,
		"2026-01-10": 5,
		"2026-01-11": 6,
	}
	for date, want := range tests {
		got, err := WeekdayIndex(date)
		require.NoError(t, err)
		assert.Equal(t, want, got, date)
	}
}

func TestCategoryBreakdown_SortedByVolume(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{
		logged(t, "2026-01-05", drink.CategorySpiritsClear, 1),
		logged(t, "2026-01-05", drink.CategoryWhiskey, 1),
		logged(t, "2026-01-06", drink.CategoryBeer, 1),
	})
	require.NoError(t, err)

	shares := CategoryBreakdown(agg)
	require.Len(t, shares, 3)
	assert.Equal(t, drink.CategoryWhiskey, shares[0].Category)
	assert.Equal(t, "Whiskey", shares[0].Label)
	assert.Equal(t, drink.CategoryBeer, shares[1].Category)
	assert.Equal(t, drink.CategorySpiritsClear, shares[2].Category)
	// 700/1560, 500/1560, 360/1560
	assert.Equal(t, []int{45, 32, 23}, []int{shares[0].Percent, shares[1].Percent, shares[2].Percent})
}

func TestWeekdayBreakdown_HeavyDays(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{
		logged(t, "2026-01-09", drink.CategoryBeer, 1),
		logged(t, "2026-01-10", drink.CategoryWine, 1),
	})
	require.NoError(t, err)

	bars := WeekdayBreakdown(agg)
	require.Len(t, bars, 7)
	assert.Equal(t, "Fri", bars[4].Label)
	assert.False(t, bars[4].Heavy, "exactly 500ml is not heavy")
	assert.Equal(t, "Sat", bars[5].Label)
	assert.True(t, bars[5].Heavy)

	idx, ml, ok := TopWeekday(agg)
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.Equal(t, 750.0, ml)
}

func TestTopWeekday_TieGoesToEarlierDay(t *testing.T) {
	agg, err := Aggregate([]drink.Entry{
		logged(t, "2026-01-08", drink.CategoryBeer, 1),
		logged(t, "2026-01-06", drink.CategoryBeer, 1),
	})
	require.NoError(t, err)

	idx, _, ok := TopWeekday(agg)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestDailyTotals(t *testing.T) {
	totals, err := DailyTotals([]drink.Entry{
		logged(t, "2026-01-07", drink.CategoryBeer, 1),
		logged(t, "2026-01-05", drink.CategoryWine, 1),
		logged(t, "2026-01-07", drink.CategoryBeer, 2),
	})
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, "2026-01-05", totals[0].Date)
	assert.Equal(t, "2026-01-07", totals[1].Date)
	assert.Equal(t, 1500.0, totals[1].VolumeMl)
	assert.InDelta(t, 75.0, totals[1].PureAlcoholMl, Tolerance)
	assert.Equal(t, 2, totals[1].Entries)
}

func TestLiters(t *testing.T) {
	assert.Equal(t, 1.6, Liters(1560))
	assert.Equal(t, 0.0, Liters(0))
	assert.Equal(t, 2.0, Liters(2000))
}

func TestTipFor(t *testing.T) {
	assert.Equal(t, TipKeepGoing, TipFor(WeeklyAggregate{}))
	assert.Equal(t, TipKeepGoing, TipFor(WeeklyAggregate{DistinctDrinkingDays: 3, TotalVolumeMl: 2000}))
	assert.Equal(t, TipCutDown, TipFor(WeeklyAggregate{DistinctDrinkingDays: 2, TotalVolumeMl: 2100}))
	assert.Equal(t, TipRestLiver, TipFor(WeeklyAggregate{DistinctDrinkingDays: 4, TotalVolumeMl: 100}))
}
