package trigger

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"daymate/internal/logging"
	"daymate/internal/metrics"
	"daymate/internal/models"
)

// Window geometry in minutes. Windows are half-open [lo, hi) except the
// gap-filler's inclusive range, which the source product documented as
// closed on both ends.
const (
	preWindowMin      = 10
	startWindowMin    = 5
	checkInOffsetMin  = 30
	checkInWindowMin  = 5
	feedbackWindowMin = 10
	gapLeadMaxMin     = 30
	gapLeadMinMin     = 20
	summaryDelayMin   = 10
	summaryWindowMin  = 20
	hourlyWindowMin   = 5

	idleStartHour = 9
	idleEndHour   = 22
)

// trendDelay is how long the unread trend set must stay non-empty
// before the briefing reminder fires.
const trendDelay = 60 * time.Second

// dispatchTimeout bounds one detached content fetch + append
const dispatchTimeout = 30 * time.Second

var (
	newsHours = map[int]bool{9: true, 13: true, 17: true, 21: true}
	goalHours = map[int]bool{10: true, 15: true}
)

// Resolver produces personalized message text, substituting the
// family's fixed fallback on any failure. It never returns an error.
type Resolver interface {
	ActivityMessage(ctx context.Context, family, activityName string) string
	NewsMessage(ctx context.Context) (string, bool) // false suppresses the message
	VideoMessage(ctx context.Context, idle bool) string
}

// Sink receives emitted messages. Append is fire-and-forget.
type Sink interface {
	Append(ctx context.Context, content, triggerKey string)
}

// GoalSource supplies active (incomplete) long-term goals
type GoalSource interface {
	ActiveGoals(ctx context.Context) ([]models.Goal, error)
}

// TrendSource supplies unread trend-briefing items
type TrendSource interface {
	UnreadTrends(ctx context.Context) ([]models.TrendItem, error)
}

// Evaluator decides, each tick, which triggers fire. Window checks and
// idempotency marks are synchronous within a tick; only content
// resolution runs on goroutines, and every mark is written before the
// matching content call is dispatched so racing ticks cannot double-fire.
type Evaluator struct {
	clock      Clock
	rand       Rand
	store      Store
	classifier *Classifier
	resolver   Resolver
	sink       Sink
	goals      GoalSource
	trends     TrendSource

	mu                sync.Mutex
	trendPendingSince time.Time
	tickCount         int64

	wg sync.WaitGroup
}

// NewEvaluator wires the evaluator's ports
func NewEvaluator(clock Clock, rnd Rand, store Store, classifier *Classifier,
	resolver Resolver, sink Sink, goals GoalSource, trends TrendSource) *Evaluator {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Evaluator{
		clock:      clock,
		rand:       rnd,
		store:      store,
		classifier: classifier,
		resolver:   resolver,
		sink:       sink,
		goals:      goals,
		trends:     trends,
	}
}

// SetClassifier swaps the classifier (assistant config hot reload)
func (e *Evaluator) SetClassifier(c *Classifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c != nil {
		e.classifier = c
	}
}

func (e *Evaluator) currentClassifier() *Classifier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classifier
}

// Wait blocks until all dispatched content fetches have finished.
// Used by tests and graceful shutdown.
func (e *Evaluator) Wait() {
	e.wg.Wait()
}

// Tick runs one full evaluation pass over today's activity snapshot.
// Families are evaluated activity-by-activity then family-by-family in
// a fixed order; the snapshot is treated as read-only.
func (e *Evaluator) Tick(ctx context.Context, activities []models.Schedule) {
	started := time.Now()
	metrics.Ticks.Inc()

	now := e.clock.Now()
	day := now.Format(dateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	e.mu.Lock()
	e.tickCount++
	tick := e.tickCount
	e.mu.Unlock()

	logger := logging.WithTick(slog.Default(), tick, len(activities))
	logger.Debug("trigger tick", "day", day, "minute", nowMin)

	sorted := make([]models.Schedule, len(activities))
	copy(sorted, activities)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTime == sorted[j].StartTime {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	for _, act := range sorted {
		e.evalActivity(ctx, act, day, nowMin)
	}
	e.evalGapFiller(ctx, sorted, day, nowMin)
	e.evalIdle(ctx, sorted, day, now, nowMin)
	e.evalDaySummary(ctx, sorted, day, nowMin)
	e.evalNews(ctx, day, now)
	e.evalTrendBriefing(ctx, day, now)
	e.evalGoalReminder(ctx, day, now)

	metrics.TickDuration.Set(time.Since(started).Seconds())
}

// tryMark claims a key. The mark write itself is the claim: Mark
// reports whether this caller created the mark, so two ticks racing
// past Has still resolve to a single winner. It returns true exactly
// once per key, and the mark lands before any asynchronous work begins,
// so a slow content call can never let a second tick through either.
func (e *Evaluator) tryMark(ctx context.Context, family, key string) bool {
	if e.store.Has(ctx, key) {
		return false
	}
	won, err := e.store.Mark(ctx, key)
	if err != nil {
		// Write failure is fatal for this key only; other triggers continue
		return false
	}
	if !won {
		return false
	}
	metrics.TriggersFired.WithLabelValues(family).Inc()
	logging.WithTrigger(family, key).Info("trigger fired")
	return true
}

// dispatch runs a content fetch + append off the tick goroutine. The
// work is detached from the tick's cancellation: the key is already
// consumed, so the message must land even when the tick that queued it
// is cancelled or the poller shuts down. A timeout of our own keeps
// the goroutine bounded.
func (e *Evaluator) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(detached, dispatchTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (e *Evaluator) evalActivity(ctx context.Context, act models.Schedule, day string, nowMin int) {
	sp, err := activitySpan(act)
	if err != nil {
		slog.Warn("skipping activity with unparsable time", "id", act.ID, "error", err)
		return
	}

	active := !act.Completed && !act.Skipped

	// Pre-start reminder: [start-10, start)
	if active && sp.inWindow(nowMin, sp.start-preWindowMin, sp.start) {
		key := ActivityKey(FamilyPreReminder, act.ID, day)
		if e.tryMark(ctx, FamilyPreReminder, key) {
			name := act.Text
			e.dispatch(ctx, func(ctx context.Context) {
				e.sink.Append(ctx, e.resolver.ActivityMessage(ctx, FamilyPreReminder, name), key)
			})
		}
	}

	// Start: [start, start+5)
	if active && sp.inWindow(nowMin, sp.start, sp.start+startWindowMin) {
		key := ActivityKey(FamilyStart, act.ID, day)
		if e.tryMark(ctx, FamilyStart, key) {
			category := e.currentClassifier().Classify(act.Text)
			if category == CategoryWork {
				name := act.Text
				e.dispatch(ctx, func(ctx context.Context) {
					e.sink.Append(ctx, e.resolver.ActivityMessage(ctx, FamilyStart, name), key)
				})
			} else {
				text, ok := startMessages[category]
				if !ok {
					text = startMessages[CategoryGeneric]
				}
				e.sink.Append(ctx, text, key)
			}
		}
	}

	// Mid-progress check-in: [start+30, start+35) while still running,
	// work-categorized activities only
	if active &&
		sp.inWindow(nowMin, sp.start+checkInOffsetMin, min(sp.start+checkInOffsetMin+checkInWindowMin, sp.end)) &&
		e.currentClassifier().Classify(act.Text) == CategoryWork {
		key := ActivityKey(FamilyCheckIn, act.ID, day)
		if e.tryMark(ctx, FamilyCheckIn, key) {
			name := act.Text
			e.dispatch(ctx, func(ctx context.Context) {
				e.sink.Append(ctx, e.resolver.ActivityMessage(ctx, FamilyCheckIn, name), key)
			})
		}
	}

	// Post-end feedback: [end, end+10). Fires for completed and merely
	// elapsed activities, not for skipped ones.
	if !act.Skipped && sp.inWindow(nowMin, sp.end, sp.end+feedbackWindowMin) {
		key := ActivityKey(FamilyFeedback, act.ID, day)
		if e.tryMark(ctx, FamilyFeedback, key) {
			name := act.Text
			e.dispatch(ctx, func(ctx context.Context) {
				e.sink.Append(ctx, e.resolver.ActivityMessage(ctx, FamilyFeedback, name), key)
			})
		}
	}
}

// anyInProgress reports whether any activity's span contains now.
// Judged on time alone: an activity marked completed early still
// occupies its slot.
func anyInProgress(activities []models.Schedule, nowMin int) bool {
	for _, act := range activities {
		sp, err := activitySpan(act)
		if err != nil {
			continue
		}
		if sp.inProgress(nowMin) {
			return true
		}
	}
	return false
}

// nextUpcoming returns the not-yet-started activity with the smallest
// start minute after now
func nextUpcoming(activities []models.Schedule, nowMin int) (models.Schedule, span, bool) {
	var best models.Schedule
	var bestSpan span
	found := false
	for _, act := range activities {
		sp, err := activitySpan(act)
		if err != nil {
			continue
		}
		if sp.start > nowMin && (!found || sp.start < bestSpan.start) {
			best, bestSpan, found = act, sp, true
		}
	}
	return best, bestSpan, found
}

// Gap-filler: inclusive [nextStart-30, nextStart-20] while nothing is
// in progress, keyed per next activity
func (e *Evaluator) evalGapFiller(ctx context.Context, activities []models.Schedule, day string, nowMin int) {
	if anyInProgress(activities, nowMin) {
		return
	}
	next, sp, ok := nextUpcoming(activities, nowMin)
	if !ok {
		return
	}
	if nowMin < sp.start-gapLeadMaxMin || nowMin > sp.start-gapLeadMinMin {
		return
	}
	key := ActivityKey(FamilyGapFiller, next.ID, day)
	if e.tryMark(ctx, FamilyGapFiller, key) {
		e.dispatch(ctx, func(ctx context.Context) {
			e.sink.Append(ctx, e.resolver.VideoMessage(ctx, false), key)
		})
	}
}

// Idle: nothing upcoming, nothing in progress, hour within [9, 22]
func (e *Evaluator) evalIdle(ctx context.Context, activities []models.Schedule, day string, now time.Time, nowMin int) {
	if now.Hour() < idleStartHour || now.Hour() > idleEndHour {
		return
	}
	if anyInProgress(activities, nowMin) {
		return
	}
	if _, _, upcoming := nextUpcoming(activities, nowMin); upcoming {
		return
	}
	key := HourKey(FamilyIdle, day, now.Hour())
	if e.tryMark(ctx, FamilyIdle, key) {
		e.dispatch(ctx, func(ctx context.Context) {
			e.sink.Append(ctx, e.resolver.VideoMessage(ctx, true), key)
		})
	}
}

// Day-end summary: [lastEnd+10, lastEnd+30) where lastEnd is the
// latest end among activities with an explicit end time
func (e *Evaluator) evalDaySummary(ctx context.Context, activities []models.Schedule, day string, nowMin int) {
	lastEnd := -1
	for _, act := range activities {
		if act.EndTime == "" {
			continue
		}
		sp, err := activitySpan(act)
		if err != nil {
			continue
		}
		if sp.end > lastEnd {
			lastEnd = sp.end
		}
	}
	if lastEnd < 0 {
		return
	}
	// Route through span so an overnight lastEnd (>= 1440) still matches
	// an early-morning clock reading
	window := span{start: lastEnd + summaryDelayMin, end: lastEnd + summaryDelayMin + summaryWindowMin}
	if !window.inProgress(nowMin) {
		return
	}
	key := DayKey(FamilyDaySummary, day)
	if !e.tryMark(ctx, FamilyDaySummary, key) {
		return
	}

	total := len(activities)
	completed, skipped := 0, 0
	for _, act := range activities {
		if act.Completed {
			completed++
		}
		if act.Skipped {
			skipped++
		}
	}
	e.sink.Append(ctx, daySummaryMessage(total, completed, skipped), key)
}

// Periodic news: top five minutes of the 9, 13, 17, 21 hours. A
// no-news response suppresses the message but the hour stays consumed.
func (e *Evaluator) evalNews(ctx context.Context, day string, now time.Time) {
	if !newsHours[now.Hour()] || now.Minute() >= hourlyWindowMin {
		return
	}
	key := HourKey(FamilyNews, day, now.Hour())
	if e.tryMark(ctx, FamilyNews, key) {
		e.dispatch(ctx, func(ctx context.Context) {
			text, ok := e.resolver.NewsMessage(ctx)
			if !ok {
				metrics.NewsSuppressed.Inc()
				logging.WithTrigger(FamilyNews, key).Debug("news suppressed, nothing relevant")
				return
			}
			e.sink.Append(ctx, text, key)
		})
	}
}

// Trend briefing: fires once per day, 60s after the unread trend set
// becomes non-empty. The pending timestamp resets when the set empties.
func (e *Evaluator) evalTrendBriefing(ctx context.Context, day string, now time.Time) {
	items, err := e.trends.UnreadTrends(ctx)
	if err != nil {
		slog.Warn("trend source unavailable, skipping briefing check", "error", err)
		return
	}

	e.mu.Lock()
	if len(items) == 0 {
		e.trendPendingSince = time.Time{}
		e.mu.Unlock()
		return
	}
	if e.trendPendingSince.IsZero() {
		e.trendPendingSince = now
		e.mu.Unlock()
		return
	}
	ready := now.Sub(e.trendPendingSince) >= trendDelay
	e.mu.Unlock()

	if !ready {
		return
	}
	key := DayKey(FamilyTrendBriefing, day)
	if e.tryMark(ctx, FamilyTrendBriefing, key) {
		e.sink.Append(ctx, trendMessage(items), key)
	}
}

// Goal reminder: top five minutes of the 10 and 15 hours, only while an
// active goal exists. The goal read happens before the mark, so a
// failed read leaves the opportunity open for a later tick in the window.
func (e *Evaluator) evalGoalReminder(ctx context.Context, day string, now time.Time) {
	if !goalHours[now.Hour()] || now.Minute() >= hourlyWindowMin {
		return
	}
	goals, err := e.goals.ActiveGoals(ctx)
	if err != nil {
		slog.Warn("goal source unavailable, skipping reminder", "error", err)
		return
	}
	if len(goals) == 0 {
		return
	}
	key := HourKey(FamilyGoalReminder, day, now.Hour())
	if !e.tryMark(ctx, FamilyGoalReminder, key) {
		return
	}
	pick := goals[e.rand.Intn(len(goals))]
	e.sink.Append(ctx, goalReminderMessage(pick), key)
}
