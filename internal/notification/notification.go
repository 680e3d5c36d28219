package notification

import "time"

type Kind string

const (
	KindWeeklyLimitReached Kind = "weekly_limit_reached"
	KindWeeklySummary      Kind = "weekly_summary"
	KindSoberGoalCompleted Kind = "sober_goal_completed"
	KindTest               Kind = "test"
)

type DeviceToken struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Push is one message addressed to every device of an owner.
type Push struct {
	OwnerID string         `json:"ownerId"`
	Kind    Kind           `json:"kind"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Data    map[string]any `json:"data,omitempty"`
}
