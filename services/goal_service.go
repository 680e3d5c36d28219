package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sullendaAPI/internal/goal"
)

type GoalService struct {
	db  *pgxpool.Pool
	log *zap.Logger

	resetStreakOnEnable bool
}

func NewGoalService(db *pgxpool.Pool, log *zap.Logger, resetStreakOnEnable bool) *GoalService {
	return &GoalService{db: db, log: log, resetStreakOnEnable: resetStreakOnEnable}
}

const goalColumns = `id::text, owner_id, type, target_value, COALESCE(start_date::text, ''), end_date::text, is_active, created_at, updated_at`

func scanGoal(row pgx.Row) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(
		&g.ID,
		&g.OwnerID,
		&g.Type,
		&g.TargetValue,
		&g.StartDate,
		&g.EndDate,
		&g.IsActive,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListActive returns the owner's active goals, at most one per type.
func (s *GoalService) ListActive(ctx context.Context, ownerID string) ([]goal.Goal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT DISTINCT ON (type) `+goalColumns+`
	FROM goals
	WHERE owner_id = $1 AND is_active = true
	ORDER BY type, updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

// ListActiveByType returns every owner's active goal of type t.
func (s *GoalService) ListActiveByType(ctx context.Context, t goal.Type) ([]goal.Goal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT `+goalColumns+`
	FROM goals
	WHERE type = $1 AND is_active = true
	ORDER BY owner_id
	`, t)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s goals: %w", t, err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Get returns the most recent goal record of type t, active or not.
func (s *GoalService) Get(ctx context.Context, ownerID string, t goal.Type) (*goal.Goal, error) {
	g, err := scanGoal(s.db.QueryRow(ctx, `
	SELECT `+goalColumns+`
	FROM goals
	WHERE owner_id = $1 AND type = $2
	ORDER BY updated_at DESC
	LIMIT 1
	`, ownerID, t))
	if err != nil {
		return nil, notFound(err, "goal")
	}
	return g, nil
}

// lockGoalType serialises writers for one (owner, type) until tx ends. Row
// locks are not enough on the create path, where there is no row yet.
func lockGoalType(ctx context.Context, tx pgx.Tx, ownerID string, t goal.Type) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, ownerID, string(t)); err != nil {
		return fmt.Errorf("failed to lock %s goal: %w", t, err)
	}
	return nil
}

// Enable switches a goal on, creating it the first time. An existing record is
// reactivated in place so its history and start date survive; target replaces
// the stored target when set. Any other active record for the same type is
// deactivated in the same transaction, which holds the (owner, type) lock.
func (s *GoalService) Enable(ctx context.Context, ownerID string, t goal.Type, target *float64, today string) (*goal.Goal, error) {
	if target != nil {
		if err := goal.ValidateTarget(t, *target); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockGoalType(ctx, tx, ownerID, t); err != nil {
		return nil, err
	}

	existing, err := scanGoal(tx.QueryRow(ctx, `
	SELECT `+goalColumns+`
	FROM goals
	WHERE owner_id = $1 AND type = $2
	ORDER BY updated_at DESC
	LIMIT 1
	FOR UPDATE
	`, ownerID, t))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	// Strays are cleared before the write so goals_one_active_idx holds.
	keepID := ""
	if existing != nil {
		keepID = existing.ID
	}
	if _, err := tx.Exec(ctx, `
	UPDATE goals SET is_active = false, end_date = $4::date, updated_at = NOW()
	WHERE owner_id = $1 AND type = $2 AND id::text <> $3 AND is_active = true
	`, ownerID, t, keepID, today); err != nil {
		return nil, fmt.Errorf("failed to deactivate duplicate goals: %w", err)
	}

	var saved *goal.Goal
	transition := "enable"
	if existing == nil {
		if target == nil {
			return nil, &goal.InvalidGoalStateError{Reason: "target value is required for a new goal"}
		}
		g, err := goal.New(ownerID, t, *target, today)
		if err != nil {
			return nil, err
		}
		saved, err = scanGoal(tx.QueryRow(ctx, `
		INSERT INTO goals (owner_id, type, target_value, start_date, is_active)
		VALUES ($1, $2, $3, $4::date, true)
		RETURNING `+goalColumns,
			g.OwnerID, g.Type, g.TargetValue, g.StartDate,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create goal: %w", err)
		}
		transition = "create"
	} else {
		if existing.IsActive {
			transition = "update"
		}
		if err := existing.Enable(today, s.resetStreakOnEnable && !existing.IsActive); err != nil {
			return nil, err
		}
		if target != nil {
			if err := existing.SetTarget(*target); err != nil {
				return nil, err
			}
		}
		saved, err = s.save(ctx, tx, existing)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goal: %w", err)
	}

	goalTransitions.WithLabelValues(string(t), transition).Inc()
	s.log.Info("Goal enabled",
		zap.String("owner_id", ownerID),
		zap.String("type", string(t)),
		zap.String("transition", transition),
		zap.Float64("target", saved.TargetValue),
		zap.String("start_date", saved.StartDate),
	)
	return saved, nil
}

// Disable deactivates the goal in place, keeping the record.
func (s *GoalService) Disable(ctx context.Context, ownerID string, t goal.Type, today string) (*goal.Goal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockGoalType(ctx, tx, ownerID, t); err != nil {
		return nil, err
	}

	existing, err := scanGoal(tx.QueryRow(ctx, `
	SELECT `+goalColumns+`
	FROM goals
	WHERE owner_id = $1 AND type = $2 AND is_active = true
	ORDER BY updated_at DESC
	LIMIT 1
	FOR UPDATE
	`, ownerID, t))
	if err != nil {
		return nil, notFound(err, "active goal")
	}

	if err := existing.Disable(today); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, tx, existing)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goal: %w", err)
	}

	goalTransitions.WithLabelValues(string(t), "disable").Inc()
	return saved, nil
}

func (s *GoalService) save(ctx context.Context, tx pgx.Tx, g *goal.Goal) (*goal.Goal, error) {
	var startDate *string
	if g.StartDate != "" {
		startDate = &g.StartDate
	}
	saved, err := scanGoal(tx.QueryRow(ctx, `
	UPDATE goals
	SET target_value = $2, start_date = $3::date, end_date = $4::date, is_active = $5, updated_at = NOW()
	WHERE id::text = $1
	RETURNING `+goalColumns,
		g.ID, g.TargetValue, startDate, g.EndDate, g.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return saved, nil
}

func (s *GoalService) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM goals WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete goals: %w", err)
	}
	return result.RowsAffected(), nil
}
