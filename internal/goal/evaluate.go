package goal

import (
	"math"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/window"
)

type WeeklyLimitProgress struct {
	UsedServings    float64 `json:"usedServings"`
	TargetServings  float64 `json:"targetServings"`
	ProgressPercent float64 `json:"progressPercent"`
	OverageServings float64 `json:"overageServings"`
	Exceeded        bool    `json:"exceeded"`
}

type SoberStreakProgress struct {
	DaysElapsed     int     `json:"daysElapsed"`
	TargetDays      int     `json:"targetDays"`
	ProgressPercent float64 `json:"progressPercent"`
	DaysRemaining   int     `json:"daysRemaining"`
	Completed       bool    `json:"completed"`
}

// EvaluateWeeklyLimit compares the servings in agg against a weekly limit.
// ProgressPercent never exceeds 100; usage past the limit is reported as
// OverageServings.
func EvaluateWeeklyLimit(agg aggregate.WeeklyAggregate, g Goal) (WeeklyLimitProgress, error) {
	if g.Type != TypeWeeklyVolumeLimit {
		return WeeklyLimitProgress{}, &InvalidGoalStateError{Reason: "not a weekly limit goal"}
	}
	if g.TargetValue <= 0 {
		return WeeklyLimitProgress{}, &InvalidGoalStateError{Reason: "target value must be positive"}
	}

	used := agg.TotalServings
	return WeeklyLimitProgress{
		UsedServings:    used,
		TargetServings:  g.TargetValue,
		ProgressPercent: clampPercent(100 * used / g.TargetValue),
		OverageServings: math.Max(0, used-g.TargetValue),
		Exceeded:        used > g.TargetValue,
	}, nil
}

// EvaluateSoberStreak counts whole days from the goal's start date to today.
// A goal started today has 0 elapsed days.
func EvaluateSoberStreak(g Goal, today string) (SoberStreakProgress, error) {
	if g.Type != TypeConsecutiveSoberDays {
		return SoberStreakProgress{}, &InvalidGoalStateError{Reason: "not a sober streak goal"}
	}
	if g.TargetValue <= 0 {
		return SoberStreakProgress{}, &InvalidGoalStateError{Reason: "target value must be positive"}
	}
	if g.StartDate == "" {
		return SoberStreakProgress{}, &InvalidGoalStateError{Reason: "sober streak has no start date"}
	}
	start, err := window.ParseDate(g.StartDate)
	if err != nil {
		return SoberStreakProgress{}, err
	}
	now, err := window.ParseDate(today)
	if err != nil {
		return SoberStreakProgress{}, err
	}

	elapsed := window.DaysBetween(start, now)
	if elapsed < 0 {
		elapsed = 0
	}
	target := int(g.TargetValue)

	return SoberStreakProgress{
		DaysElapsed:     elapsed,
		TargetDays:      target,
		ProgressPercent: clampPercent(100 * float64(elapsed) / g.TargetValue),
		DaysRemaining:   max(0, target-elapsed),
		Completed:       elapsed >= target,
	}, nil
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
