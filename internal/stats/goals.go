package stats

import (
	"fmt"

	"sullendaAPI/internal/aggregate"
	"sullendaAPI/internal/goal"
)

// EvaluateGoals attaches progress to each active goal. Weekly limits are
// measured against week, the aggregate of the current week.
func EvaluateGoals(goals []goal.Goal, week aggregate.WeeklyAggregate, today string) ([]GoalStatus, error) {
	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		if !g.IsActive {
			continue
		}
		status := GoalStatus{Goal: g}
		switch g.Type {
		case goal.TypeWeeklyVolumeLimit:
			p, err := goal.EvaluateWeeklyLimit(week, g)
			if err != nil {
				return nil, fmt.Errorf("goal %s: %w", g.ID, err)
			}
			status.WeeklyLimit = &p
		case goal.TypeConsecutiveSoberDays:
			p, err := goal.EvaluateSoberStreak(g, today)
			if err != nil {
				return nil, fmt.Errorf("goal %s: %w", g.ID, err)
			}
			status.SoberStreak = &p
		default:
			return nil, &goal.InvalidGoalStateError{Reason: fmt.Sprintf("unknown goal type %q", g.Type)}
		}
		out = append(out, status)
	}
	return out, nil
}
