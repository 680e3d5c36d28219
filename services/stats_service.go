package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/calendar"
	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/notification"
	"sullendaAPI/internal/stats"
	"sullendaAPI/internal/window"
)

type EntrySource interface {
	GetByRange(ctx context.Context, ownerID string, w window.Window) ([]drink.Entry, error)
}

type GoalSource interface {
	ListActive(ctx context.Context, ownerID string) ([]goal.Goal, error)
}

type Notifier interface {
	Notify(ctx context.Context, p notification.Push) error
}

// StatsService fetches an owner's entries and runs them through the
// aggregation engine. Nothing is cached: every call reads the current rows.
type StatsService struct {
	entries  EntrySource
	goals    GoalSource
	notifier Notifier
	log      *zap.Logger

	weekStartsOn time.Weekday
	loc          *time.Location
	now          func() time.Time
}

func NewStatsService(entries EntrySource, goals GoalSource, notifier Notifier, log *zap.Logger, weekStartsOn time.Weekday, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		entries:      entries,
		goals:        goals,
		notifier:     notifier,
		log:          log,
		weekStartsOn: weekStartsOn,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *StatsService) Today() string {
	return s.now().In(s.loc).Format(drink.DateLayout)
}

func (s *StatsService) WeekStartsOn() time.Weekday {
	return s.weekStartsOn
}

func (s *StatsService) Report(ctx context.Context, ownerID string, q stats.Query) (*stats.Report, error) {
	w, err := stats.ResolveWindow(q, s.Today(), s.weekStartsOn)
	if err != nil {
		return nil, err
	}
	period := q.Period
	if period == "" {
		period = stats.PeriodWeek
	}
	return s.reportFor(ctx, ownerID, period, w)
}

func (s *StatsService) reportFor(ctx context.Context, ownerID string, period stats.Period, w window.Window) (*stats.Report, error) {
	entries, err := s.entries.GetByRange(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	report, err := stats.BuildReport(period, w, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s stats: %w", period, err)
	}
	return report, nil
}

func (s *StatsService) Calendar(ctx context.Context, ownerID string, year, month int) (*calendar.CalendarResponse, error) {
	w, err := window.CalendarMonth(year, month)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.GetByRange(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	return calendar.Build(year, month, entries, s.Today(), s.weekStartsOn)
}

// Goals evaluates the owner's active goals against the current week.
func (s *StatsService) Goals(ctx context.Context, ownerID string) ([]stats.GoalStatus, error) {
	today := s.Today()
	week, err := s.currentWeek(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	return s.evaluateGoals(ctx, ownerID, week.Aggregate, today)
}

func (s *StatsService) evaluateGoals(ctx context.Context, ownerID string, week aggregate.WeeklyAggregate, today string) ([]stats.GoalStatus, error) {
	goals, err := s.goals.ListActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return stats.EvaluateGoals(goals, week, today)
}

func (s *StatsService) Home(ctx context.Context, ownerID string) (*stats.Home, error) {
	today := s.Today()
	week, err := s.currentWeek(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	goals, err := s.evaluateGoals(ctx, ownerID, week.Aggregate, today)
	if err != nil {
		return nil, err
	}

	home := &stats.Home{Today: today, Week: week, Goals: goals}
	for _, d := range week.Daily {
		if d.Date == today {
			home.TodayTotal = d.VolumeMl
			home.TodayStatus = d.Entries > 0
		}
	}
	return home, nil
}

func (s *StatsService) currentWeek(ctx context.Context, ownerID, today string) (*stats.Report, error) {
	w, err := window.ISOWeek(today, s.weekStartsOn)
	if err != nil {
		return nil, err
	}
	return s.reportFor(ctx, ownerID, stats.PeriodWeek, w)
}

// PreviousWeek reports the full week before the one containing today.
func (s *StatsService) PreviousWeek(ctx context.Context, ownerID string) (*stats.Report, error) {
	ref, err := window.AddDays(s.Today(), -7)
	if err != nil {
		return nil, err
	}
	w, err := window.FullWeek(ref, s.weekStartsOn)
	if err != nil {
		return nil, err
	}
	return s.reportFor(ctx, ownerID, stats.PeriodWeek, w)
}

// CheckWeeklyLimit sends a push when added is the entry that brought the
// current week up to the owner's weekly limit.
func (s *StatsService) CheckWeeklyLimit(ctx context.Context, added drink.Entry) error {
	today := s.Today()
	w, err := window.ISOWeek(today, s.weekStartsOn)
	if err != nil {
		return err
	}
	if !w.Contains(added.Date) {
		return nil
	}

	goals, err := s.goals.ListActive(ctx, added.OwnerID)
	if err != nil {
		return err
	}
	var limit *goal.Goal
	for i := range goals {
		if goals[i].Type == goal.TypeWeeklyVolumeLimit {
			limit = &goals[i]
			break
		}
	}
	if limit == nil {
		return nil
	}

	entries, err := s.entries.GetByRange(ctx, added.OwnerID, w)
	if err != nil {
		return err
	}
	agg, err := aggregate.Aggregate(entries)
	if err != nil {
		return err
	}
	progress, err := goal.EvaluateWeeklyLimit(agg, *limit)
	if err != nil {
		return err
	}

	before := progress.UsedServings - added.Servings
	if before >= progress.TargetServings || progress.UsedServings < progress.TargetServings {
		return nil
	}

	s.log.Info("Weekly limit reached",
		zap.String("owner_id", added.OwnerID),
		zap.Float64("used", progress.UsedServings),
		zap.Float64("target", progress.TargetServings),
	)
	return s.notifier.Notify(ctx, notification.Push{
		OwnerID: added.OwnerID,
		Kind:    notification.KindWeeklyLimitReached,
		Title:   "Weekly limit reached",
		Body:    fmt.Sprintf("%g of %g servings this week. Time to slow down.", progress.UsedServings, progress.TargetServings),
		Data: map[string]any{
			"usedServings":   progress.UsedServings,
			"targetServings": progress.TargetServings,
			"weekStart":      w.StartDate,
		},
	})
}
