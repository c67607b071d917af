package trigger

import (
	"fmt"
	"strconv"
	"strings"

	"daymate/internal/models"
)

const (
	minutesPerDay      = 1440
	defaultDurationMin = 60
)

// span is an activity's time range in minutes since local midnight.
// end may exceed 1440 when the activity crosses midnight.
type span struct {
	start int
	end   int
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// activitySpan normalizes a schedule's times: a missing end defaults to
// start+60, and an end numerically before the start means the activity
// crosses midnight, so 1440 is added.
func activitySpan(s models.Schedule) (span, error) {
	start, err := parseClock(s.StartTime)
	if err != nil {
		return span{}, err
	}

	if s.EndTime == "" {
		return span{start: start, end: start + defaultDurationMin}, nil
	}

	end, err := parseClock(s.EndTime)
	if err != nil {
		return span{}, err
	}
	if end < start {
		end += minutesPerDay
	}
	return span{start: start, end: end}, nil
}

// crossesMidnight reports whether the span runs past 24:00
func (sp span) crossesMidnight() bool {
	return sp.end >= minutesPerDay
}

// nowCandidates returns the evaluation minutes to test against this
// span's windows. For an overnight span, a clock reading early the next
// morning is also tested shifted by 1440 so "01:00" still counts as
// inside a 23:00-02:00 activity.
func (sp span) nowCandidates(nowMin int) []int {
	if sp.crossesMidnight() && nowMin < sp.end-minutesPerDay+feedbackWindowMin {
		return []int{nowMin, nowMin + minutesPerDay}
	}
	return []int{nowMin}
}

// inWindow reports whether any candidate minute falls in the half-open
// window [lo, hi)
func (sp span) inWindow(nowMin, lo, hi int) bool {
	for _, n := range sp.nowCandidates(nowMin) {
		if n >= lo && n < hi {
			return true
		}
	}
	return false
}

// inProgress reports whether any candidate minute falls inside the span
func (sp span) inProgress(nowMin int) bool {
	return sp.inWindow(nowMin, sp.start, sp.end)
}
