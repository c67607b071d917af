package models

import "time"

// Goal periods
const (
	GoalPeriodWeekly  = "weekly"
	GoalPeriodMonthly = "monthly"
	GoalPeriodYearly  = "yearly"
)

// Goal is a long-term goal with a progress percentage. Only active
// (incomplete) goals are considered by the goal-reminder trigger.
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Period    string    `json:"period"` // weekly, monthly, yearly
	Progress  int       `json:"progress"` // 0-100
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateGoalRequest is the request body for creating a goal
type CreateGoalRequest struct {
	Title  string `json:"title"`
	Period string `json:"period"`
}

// UpdateGoalRequest is the request body for updating a goal
type UpdateGoalRequest struct {
	Title     *string `json:"title,omitempty"`
	Progress  *int    `json:"progress,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
