package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/notification"
	"sullendaAPI/internal/stats"
	"sullendaAPI/internal/window"
)

type fakeOwners []string

func (f fakeOwners) OwnersWithDevices(context.Context) ([]string, error) { return f, nil }

type fakeReports struct {
	today  string
	failOn string
}

func (f fakeReports) Today() string { return f.today }

func (f fakeReports) PreviousWeek(_ context.Context, ownerID string) (*stats.Report, error) {
	if ownerID == f.failOn {
		return nil, errors.New("query timeout")
	}
	w, _ := window.FullWeek("2026-01-05", time.Monday)
	return stats.BuildReport(stats.PeriodWeek, w, nil)
}

type fakeGoals []goal.Goal

func (f fakeGoals) ListActiveByType(_ context.Context, t goal.Type) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, g := range f {
		if g.Type == t {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	pushes []notification.Push
}

func (f *fakeNotifier) Notify(_ context.Context, p notification.Push) error {
	f.pushes = append(f.pushes, p)
	return nil
}

func TestSendWeeklySummaries(t *testing.T) {
	notifier := &fakeNotifier{}
	jobs := NewJobs(fakeOwners{"user_1", "user_2", "user_3"}, fakeReports{today: "2026-01-12", failOn: "user_2"}, fakeGoals{}, notifier, zap.NewNop())

	sent, err := jobs.SendWeeklySummaries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	require.Len(t, notifier.pushes, 2)
	assert.Equal(t, "user_1", notifier.pushes[0].OwnerID)
	assert.Equal(t, "user_3", notifier.pushes[1].OwnerID)
	assert.Equal(t, notification.KindWeeklySummary, notifier.pushes[0].Kind)
	assert.Equal(t, "No drinks logged last week. Nice work!", notifier.pushes[0].Body)
	assert.Equal(t, "2026-01-05", notifier.pushes[0].Data["weekStart"])
}

func TestWeeklySummaryPush_WithDrinks(t *testing.T) {
	r := &stats.Report{SoberDays: 4, TotalVolumeLiters: 2.3}
	r.Aggregate.DistinctDrinkingDays = 3

	p := WeeklySummaryPush("user_1", r)
	assert.Equal(t, "3 drinking days, 2.3L in total, 4 sober days.", p.Body)
}

func TestCheckSoberGoals(t *testing.T) {
	goals := fakeGoals{
		{ID: "done-today", OwnerID: "user_1", Type: goal.TypeConsecutiveSoberDays, TargetValue: 7, StartDate: "2026-01-05", IsActive: true},
		{ID: "in-progress", OwnerID: "user_2", Type: goal.TypeConsecutiveSoberDays, TargetValue: 30, StartDate: "2026-01-05", IsActive: true},
		{ID: "done-earlier", OwnerID: "user_3", Type: goal.TypeConsecutiveSoberDays, TargetValue: 3, StartDate: "2026-01-01", IsActive: true},
		{ID: "limit", OwnerID: "user_4", Type: goal.TypeWeeklyVolumeLimit, TargetValue: 7, StartDate: "2026-01-05", IsActive: true},
	}
	notifier := &fakeNotifier{}
	jobs := NewJobs(fakeOwners{}, fakeReports{today: "2026-01-12"}, goals, notifier, zap.NewNop())

	sent, err := jobs.CheckSoberGoals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	require.Len(t, notifier.pushes, 1)
	assert.Equal(t, "user_1", notifier.pushes[0].OwnerID)
	assert.Equal(t, notification.KindSoberGoalCompleted, notifier.pushes[0].Kind)
}

func TestStart_InvalidSchedule(t *testing.T) {
	jobs := NewJobs(fakeOwners{}, fakeReports{}, fakeGoals{}, &fakeNotifier{}, zap.NewNop())

	_, err := Start(jobs, "every monday", "0 10 * * *", time.UTC)
	assert.Error(t, err)
}

func TestStart_ValidSchedule(t *testing.T) {
	jobs := NewJobs(fakeOwners{}, fakeReports{}, fakeGoals{}, &fakeNotifier{}, zap.NewNop())

	c, err := Start(jobs, "0 9 * * MON", "0 10 * * *", time.UTC)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	<-c.Stop().Done()
}

func TestCronLogger_RecoveredPanicGoesToZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	job := cron.NewChain(cron.Recover(cronLogger(zap.New(core)))).
		Then(cron.FuncJob(func() { panic("summary exploded") }))

	assert.NotPanics(t, job.Run)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cron", entry.LoggerName)
	assert.Contains(t, entry.Message, "summary exploded")
}
