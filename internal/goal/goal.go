package goal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"sullendaAPI/internal/drink"
)

type Type string

const (
	TypeWeeklyVolumeLimit    Type = "weekly-volume-limit"
	TypeConsecutiveSoberDays Type = "consecutive-sober-days"
)

var Types = []Type{TypeWeeklyVolumeLimit, TypeConsecutiveSoberDays}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeWeeklyVolumeLimit, TypeConsecutiveSoberDays:
		return t, nil
	}
	return "", &InvalidGoalStateError{Reason: fmt.Sprintf("unknown goal type %q", s)}
}

// Goal is a user's self-imposed target. TargetValue is in servings for a weekly
// limit and in days for a sober streak. A goal is never deleted; disabling it
// keeps the record for history.
type Goal struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Type        Type      `json:"type" db:"type"`
	TargetValue float64   `json:"targetValue" db:"target_value"`
	StartDate   string    `json:"startDate,omitempty" db:"start_date"`
	EndDate     *string   `json:"endDate,omitempty" db:"end_date"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// InvalidGoalStateError reports a goal that cannot be stored or evaluated.
type InvalidGoalStateError struct {
	Reason string
}

func (e *InvalidGoalStateError) Error() string {
	return "invalid goal: " + e.Reason
}

// ValidateTarget is applied whenever a goal is created or its target changes,
// so evaluation can rely on TargetValue > 0.
func ValidateTarget(t Type, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidGoalStateError{Reason: "target value must be positive"}
	}
	switch t {
	case TypeWeeklyVolumeLimit:
		if err := drink.ValidateServings(v); err != nil {
			return &InvalidGoalStateError{Reason: "weekly limit must be a multiple of 0.5 servings"}
		}
	case TypeConsecutiveSoberDays:
		if v != math.Trunc(v) {
			return &InvalidGoalStateError{Reason: "sober streak target must be a whole number of days"}
		}
	default:
		return &InvalidGoalStateError{Reason: fmt.Sprintf("unknown goal type %q", t)}
	}
	return nil
}

// New returns an active goal starting today.
func New(ownerID string, t Type, target float64, today string) (*Goal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errors.New("owner id is required")
	}
	if err := ValidateTarget(t, target); err != nil {
		return nil, err
	}
	if err := drink.ValidateDate(today); err != nil {
		return nil, err
	}
	return &Goal{
		OwnerID:     ownerID,
		Type:        t,
		TargetValue: target,
		StartDate:   today,
		IsActive:    true,
	}, nil
}

// Enable activates g. The start date is kept when one exists, so re-enabling a
// paused streak resumes it; resetStart restarts it from today instead.
func (g *Goal) Enable(today string, resetStart bool) error {
	if err := drink.ValidateDate(today); err != nil {
		return err
	}
	if g.StartDate == "" || resetStart {
		g.StartDate = today
	}
	g.IsActive = true
	g.EndDate = nil
	return nil
}

// Disable deactivates g in place.
func (g *Goal) Disable(today string) error {
	if err := drink.ValidateDate(today); err != nil {
		return err
	}
	if !g.IsActive {
		return nil
	}
	g.IsActive = false
	end := today
	g.EndDate = &end
	return nil
}

func (g *Goal) SetTarget(v float64) error {
	if err := ValidateTarget(g.Type, v); err != nil {
		return err
	}
	g.TargetValue = v
	return nil
}
