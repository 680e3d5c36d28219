package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/notification"
	"sullendaAPI/internal/stats"
)

type OwnerLister interface {
	OwnersWithDevices(ctx context.Context) ([]string, error)
}

type WeeklyReporter interface {
	PreviousWeek(ctx context.Context, ownerID string) (*stats.Report, error)
	Today() string
}

type GoalLister interface {
	ListActiveByType(ctx context.Context, t goal.Type) ([]goal.Goal, error)
}

type Notifier interface {
	Notify(ctx context.Context, p notification.Push) error
}

type Jobs struct {
	owners   OwnerLister
	reports  WeeklyReporter
	goals    GoalLister
	notifier Notifier
	log      *zap.Logger
}

func NewJobs(owners OwnerLister, reports WeeklyReporter, goals GoalLister, notifier Notifier, log *zap.Logger) *Jobs {
	return &Jobs{owners: owners, reports: reports, goals: goals, notifier: notifier, log: log}
}

// Start schedules the weekly summary and the daily sober-goal check and
// returns the running scheduler. Stop it on shutdown.
func Start(jobs *Jobs, weeklySpec, soberSpec string, loc *time.Location) (*cron.Cron, error) {
	clog := cronLogger(jobs.log)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog)),
	)

	if _, err := c.AddFunc(weeklySpec, func() { jobs.run("weekly_summary", jobs.SendWeeklySummaries) }); err != nil {
		return nil, fmt.Errorf("invalid weekly report schedule %q: %w", weeklySpec, err)
	}
	if _, err := c.AddFunc(soberSpec, func() { jobs.run("sober_check", jobs.CheckSoberGoals) }); err != nil {
		return nil, fmt.Errorf("invalid sober check schedule %q: %w", soberSpec, err)
	}

	c.Start()
	jobs.log.Info("Cron workers started",
		zap.String("weekly_summary", weeklySpec),
		zap.String("sober_check", soberSpec),
	)
	return c, nil
}

// cronLogger routes scheduler messages and recovered job panics into zap.
func cronLogger(log *zap.Logger) cron.Logger {
	return cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
}

func (j *Jobs) run(name string, fn func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	sent, err := fn(ctx)
	if err != nil {
		j.log.Error("Cron job failed", zap.String("job", name), zap.Error(err))
		return
	}
	j.log.Info("Cron job finished",
		zap.String("job", name),
		zap.Int("pushes", sent),
		zap.Duration("took", time.Since(start)),
	)
}

// SendWeeklySummaries pushes last week's totals to every owner with a device.
// Owners who logged nothing still get the summary with zero drinking days.
func (j *Jobs) SendWeeklySummaries(ctx context.Context) (int, error) {
	owners, err := j.owners.OwnersWithDevices(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, owner := range owners {
		report, err := j.reports.PreviousWeek(ctx, owner)
		if err != nil {
			j.log.Warn("Weekly report failed", zap.String("owner_id", owner), zap.Error(err))
			continue
		}
		if err := j.notifier.Notify(ctx, WeeklySummaryPush(owner, report)); err != nil {
			j.log.Warn("Weekly summary push failed", zap.String("owner_id", owner), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func WeeklySummaryPush(ownerID string, r *stats.Report) notification.Push {
	body := fmt.Sprintf("%d drinking days, %.1fL in total, %d sober days.",
		r.Aggregate.DistinctDrinkingDays, r.TotalVolumeLiters, r.SoberDays)
	if r.Aggregate.DistinctDrinkingDays == 0 {
		body = "No drinks logged last week. Nice work!"
	}
	return notification.Push{
		OwnerID: ownerID,
		Kind:    notification.KindWeeklySummary,
		Title:   "Your week in review",
		Body:    body,
		Data: map[string]any{
			"weekStart":    r.Window.StartDate,
			"weekEnd":      r.Window.EndDate,
			"drinkingDays": r.Aggregate.DistinctDrinkingDays,
			"totalVolumeL": aggregate.Liters(r.Aggregate.TotalVolumeMl),
			"tip":          string(r.Tip),
		},
	}
}

// CheckSoberGoals congratulates owners whose sober streak reaches its target
// today. Each streak is announced once, on the day it completes.
func (j *Jobs) CheckSoberGoals(ctx context.Context) (int, error) {
	goals, err := j.goals.ListActiveByType(ctx, goal.TypeConsecutiveSoberDays)
	if err != nil {
		return 0, err
	}

	today := j.reports.Today()
	sent := 0
	for _, g := range goals {
		p, err := goal.EvaluateSoberStreak(g, today)
		if err != nil {
			j.log.Warn("Skipping sober goal", zap.String("goal_id", g.ID), zap.Error(err))
			continue
		}
		if p.DaysElapsed != p.TargetDays {
			continue
		}
		err = j.notifier.Notify(ctx, notification.Push{
			OwnerID: g.OwnerID,
			Kind:    notification.KindSoberGoalCompleted,
			Title:   "Sober challenge complete",
			Body:    fmt.Sprintf("%d days without a drink. Goal reached!", p.TargetDays),
			Data: map[string]any{
				"goalId":     g.ID,
				"targetDays": p.TargetDays,
			},
		})
		if err != nil {
			j.log.Warn("Sober goal push failed", zap.String("owner_id", g.OwnerID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
