package models

import "time"

// Schedule represents one timed activity on the user's day plan.
// StartTime/EndTime are wall-clock "HH:MM" strings in the configured
// timezone. EndTime may be empty (defaults to start + 60 minutes) or
// earlier than StartTime (the activity crosses midnight).
type Schedule struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time,omitempty"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	Skipped   bool      `json:"skipped"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateScheduleRequest is the request body for creating a schedule
type CreateScheduleRequest struct {
	Text      string `json:"text"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Date      string `json:"date,omitempty"` // defaults to today
}

// UpdateScheduleRequest is the request body for updating a schedule.
// Pointer fields distinguish "not provided" from zero values.
type UpdateScheduleRequest struct {
	Text      *string `json:"text,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Skipped   *bool   `json:"skipped,omitempty"`
}

// ScheduleRule is a recurring schedule template. The cron expression
// (standard 5-field) decides on which days the rule materializes into a
// concrete Schedule row for that day.
type ScheduleRule struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time,omitempty"`
	CronExpression string    `json:"cron_expression"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateScheduleRuleRequest is the request body for creating a recurring rule
type CreateScheduleRuleRequest struct {
	Text           string `json:"text"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time,omitempty"`
	CronExpression string `json:"cron_expression"`
}
