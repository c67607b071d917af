package trigger

import "fmt"

// Trigger family names. They are embedded in trigger keys, so renaming
// one re-arms that family for the day.
const (
	FamilyPreReminder   = "pre_reminder"
	FamilyStart         = "start"
	FamilyCheckIn       = "check_in"
	FamilyFeedback      = "feedback"
	FamilyGapFiller     = "gap_filler"
	FamilyIdle          = "idle"
	FamilyDaySummary    = "day_summary"
	FamilyNews          = "news"
	FamilyTrendBriefing = "trend_briefing"
	FamilyGoalReminder  = "goal_reminder"
)

const dateLayout = "2006-01-02"

// ActivityKey scopes a family to one activity on one day.
// A new day naturally produces a fresh key, so marks never need expiry.
func ActivityKey(family, activityID, day string) string {
	return fmt.Sprintf("%s_%s_%s", family, activityID, day)
}

// DayKey scopes a family to one day
func DayKey(family, day string) string {
	return fmt.Sprintf("%s_%s", family, day)
}

// HourKey scopes a family to one hour of one day
func HourKey(family, day string, hour int) string {
	return fmt.Sprintf("%s_%s_%02d", family, day, hour)
}
