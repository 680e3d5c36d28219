package stats

import (
	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/window"
)

type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodLast7  Period = "last7"
	PeriodLast30 Period = "last30"
	PeriodRange  Period = "range"
)

type Report struct {
	Period             Period                    `json:"period"`
	Window             window.Window             `json:"window"`
	TotalDays          int                       `json:"totalDays"`
	SoberDays          int                       `json:"soberDays"`
	Aggregate          aggregate.WeeklyAggregate `json:"aggregate"`
	TotalVolumeLiters  float64                   `json:"totalVolumeLiters"`
	TotalPureAlcoholMl int                       `json:"totalPureAlcoholMl"`
	Categories         []aggregate.CategoryShare `json:"categories"`
	Weekdays           []aggregate.WeekdayBar    `json:"weekdays"`
	TopCategory        *aggregate.CategoryShare  `json:"topCategory,omitempty"`
	TopWeekday         *aggregate.WeekdayBar     `json:"topWeekday,omitempty"`
	Daily              []aggregate.DayTotal      `json:"daily"`
	Tip                aggregate.Tip             `json:"tip"`
}

type GoalStatus struct {
	Goal        goal.Goal                 `json:"goal"`
	WeeklyLimit *goal.WeeklyLimitProgress `json:"weeklyLimit,omitempty"`
	SoberStreak *goal.SoberStreakProgress `json:"soberStreak,omitempty"`
}

// Home is the summary shown on the landing screen: today's entries, the
// current week and any active goals.
type Home struct {
	Today       string       `json:"today"`
	TodayTotal  float64      `json:"todayTotalMl"`
	TodayStatus bool         `json:"todayStatus"`
	Week        *Report      `json:"week"`
	Goals       []GoalStatus `json:"goals"`
}
