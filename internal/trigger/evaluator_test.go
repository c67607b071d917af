package trigger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"daymate/internal/models"
)

// fakeClock pins the evaluator's notion of now
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(hour, minute int) *fakeClock {
	return &fakeClock{now: time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) setTime(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, minute, 0, 0, time.UTC)
}

// fakeRand always picks the given index
type fakeRand struct{ pick int }

func (r fakeRand) Intn(n int) int {
	if r.pick >= n {
		return n - 1
	}
	return r.pick
}

// memStore is an in-memory mark store
type memStore struct {
	mu      sync.Mutex
	marks   map[string]bool
	markErr error
}

func newMemStore() *memStore {
	return &memStore{marks: make(map[string]bool)}
}

func (s *memStore) Has(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[key]
}

func (s *memStore) Mark(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return false, s.markErr
	}
	if s.marks[key] {
		return false, nil
	}
	s.marks[key] = true
	return true, nil
}

// recordingSink collects appended messages
type recordingSink struct {
	mu       sync.Mutex
	messages []models.Message
}

func (s *recordingSink) Append(_ context.Context, content, triggerKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.Message{Content: content, TriggerKey: triggerKey})
}

func (s *recordingSink) byKeyPrefix(prefix string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if strings.HasPrefix(m.TriggerKey, prefix) {
			out = append(out, m)
		}
	}
	return out
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// scriptedResolver returns canned content and records requested contexts
type scriptedResolver struct {
	mu        sync.Mutex
	families  []string
	newsText  string
	noNews    bool
	videoText string
}

func (r *scriptedResolver) ActivityMessage(_ context.Context, family, activityName string) string {
	r.mu.Lock()
	r.families = append(r.families, family)
	r.mu.Unlock()
	return "ai:" + family + ":" + activityName
}

func (r *scriptedResolver) NewsMessage(_ context.Context) (string, bool) {
	if r.noNews {
		return "", false
	}
	if r.newsText == "" {
		return "news", true
	}
	return r.newsText, true
}

func (r *scriptedResolver) VideoMessage(_ context.Context, idle bool) string {
	if r.videoText != "" {
		return r.videoText
	}
	if idle {
		return "video:idle"
	}
	return "video:gap"
}

type fakeGoals struct {
	goals []models.Goal
	err   error
}

func (g *fakeGoals) ActiveGoals(context.Context) ([]models.Goal, error) {
	return g.goals, g.err
}

type fakeTrends struct {
	mu    sync.Mutex
	items []models.TrendItem
	err   error
}

func (t *fakeTrends) UnreadTrends(context.Context) ([]models.TrendItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.items, t.err
}

type harness struct {
	clock    *fakeClock
	store    *memStore
	sink     *recordingSink
	resolver *scriptedResolver
	goals    *fakeGoals
	trends   *fakeTrends
	eval     *Evaluator
}

func newHarness(hour, minute int) *harness {
	h := &harness{
		clock:    newFakeClock(hour, minute),
		store:    newMemStore(),
		sink:     &recordingSink{},
		resolver: &scriptedResolver{},
		goals:    &fakeGoals{},
		trends:   &fakeTrends{},
	}
	h.eval = NewEvaluator(h.clock, fakeRand{}, h.store, NewClassifier(nil),
		h.resolver, h.sink, h.goals, h.trends)
	return h
}

func (h *harness) tick(t *testing.T, activities []models.Schedule) {
	t.Helper()
	h.eval.Tick(context.Background(), activities)
	h.eval.Wait()
}

func act(id, text, start, end string) models.Schedule {
	return models.Schedule{ID: id, Text: text, StartTime: start, EndTime: end}
}

func TestPreReminderWindow(t *testing.T) {
	activity := act("a1", "영어 공부", "14:00", "15:00")

	cases := []struct {
		name   string
		hour   int
		minute int
		fires  bool
	}{
		{"before window", 13, 49, false},
		{"window opens", 13, 50, true},
		{"inside window", 13, 55, true},
		{"window closes at start", 14, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(tc.hour, tc.minute)
			h.tick(t, []models.Schedule{activity})
			got := len(h.sink.byKeyPrefix("pre_reminder_a1"))
			if tc.fires && got != 1 {
				t.Fatalf("expected pre-reminder at %02d:%02d, got %d messages", tc.hour, tc.minute, got)
			}
			if !tc.fires && got != 0 {
				t.Fatalf("unexpected pre-reminder at %02d:%02d", tc.hour, tc.minute)
			}
		})
	}
}

func TestStartWindow(t *testing.T) {
	activity := act("a1", "공부", "14:00", "15:00")

	for _, tc := range []struct {
		minute int
		fires  bool
	}{{0, true}, {4, true}, {5, false}} {
		h := newHarness(14, tc.minute)
		h.tick(t, []models.Schedule{activity})
		got := len(h.sink.byKeyPrefix("start_a1"))
		if tc.fires && got != 1 {
			t.Fatalf("expected start message at 14:%02d", tc.minute)
		}
		if !tc.fires && got != 0 {
			t.Fatalf("unexpected start message at 14:%02d", tc.minute)
		}
	}
}

func TestStartMessageByCategory(t *testing.T) {
	cases := []struct {
		text   string
		wantAI bool
		want   string
	}{
		{"점심 식사", false, startMessages[CategoryMeal]},
		{"낮잠", false, startMessages[CategoryRest]},
		{"저녁 운동", false, startMessages[CategoryMeal]}, // meal keyword matches first
		{"헬스장 가기", false, startMessages[CategoryExercise]},
		{"팀 회의", true, ""},
		{"기타 일정", false, startMessages[CategoryGeneric]},
	}
	for _, tc := range cases {
		h := newHarness(10, 2)
		h.tick(t, []models.Schedule{act("a1", tc.text, "10:00", "11:00")})
		msgs := h.sink.byKeyPrefix("start_a1")
		if len(msgs) != 1 {
			t.Fatalf("%q: expected one start message, got %d", tc.text, len(msgs))
		}
		if tc.wantAI {
			if !strings.HasPrefix(msgs[0].Content, "ai:start:") {
				t.Fatalf("%q: expected AI content, got %q", tc.text, msgs[0].Content)
			}
		} else if msgs[0].Content != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.text, msgs[0].Content, tc.want)
		}
	}
}

func TestExactlyOncePerKeyAcrossTicks(t *testing.T) {
	h := newHarness(13, 50)
	activity := act("a1", "업무", "14:00", "15:00")

	for i := 0; i < 10; i++ {
		h.tick(t, []models.Schedule{activity})
	}
	if got := len(h.sink.byKeyPrefix("pre_reminder_a1")); got != 1 {
		t.Fatalf("pre-reminder fired %d times across ticks, want 1", got)
	}
}

func TestDayRolloverRearmsTriggers(t *testing.T) {
	h := newHarness(13, 55)
	activity := act("a1", "업무", "14:00", "15:00")

	h.tick(t, []models.Schedule{activity})
	h.clock.set(h.clock.Now().AddDate(0, 0, 1))
	h.tick(t, []models.Schedule{activity})

	if got := len(h.sink.byKeyPrefix("pre_reminder_a1")); got != 2 {
		t.Fatalf("expected independent firings on two days, got %d", got)
	}
}

func TestOvernightActivityInProgress(t *testing.T) {
	// 23:00-02:00 normalizes to end = 1560; at 01:00 the next morning
	// the activity is judged in progress, so no gap-filler or idle fires
	// and the feedback window at 02:05 still lands.
	activity := act("n1", "야간 작업", "23:00", "02:00")

	if !anyInProgress([]models.Schedule{activity}, 60) {
		t.Fatal("01:00 should count as in progress for a 23:00-02:00 activity")
	}

	h := newHarness(2, 5)
	h.tick(t, []models.Schedule{activity})
	if got := len(h.sink.byKeyPrefix("feedback_n1")); got != 1 {
		t.Fatalf("expected overnight feedback at 02:05, got %d", got)
	}
}

func TestDefaultEndIsStartPlusHour(t *testing.T) {
	// No end time: 10:00 defaults to 11:00, so feedback fires at 11:05
	h := newHarness(11, 5)
	h.tick(t, []models.Schedule{act("a1", "업무", "10:00", "")})
	if got := len(h.sink.byKeyPrefix("feedback_a1")); got != 1 {
		t.Fatalf("expected feedback for defaulted end time, got %d", got)
	}
}

func TestCheckInOnlyForWorkCategory(t *testing.T) {
	h := newHarness(10, 32)
	h.tick(t, []models.Schedule{
		act("w1", "보고서 작업", "10:00", "11:00"),
		act("m1", "아침 식사", "10:00", "11:00"),
	})
	if got := len(h.sink.byKeyPrefix("check_in_w1")); got != 1 {
		t.Fatalf("expected check-in for work activity, got %d", got)
	}
	if got := len(h.sink.byKeyPrefix("check_in_m1")); got != 0 {
		t.Fatalf("unexpected check-in for meal activity")
	}
}

func TestCheckInSuppressedAfterEnd(t *testing.T) {
	// Activity ends at 10:25; the nominal check-in window at 10:30
	// never opens because the activity is over.
	h := newHarness(10, 31)
	h.tick(t, []models.Schedule{act("w1", "업무", "10:00", "10:25")})
	if got := len(h.sink.byKeyPrefix("check_in_w1")); got != 0 {
		t.Fatalf("check-in fired after activity end")
	}
}

func TestCompletedAndSkippedActivities(t *testing.T) {
	h := newHarness(10, 2)
	completed := act("c1", "업무", "10:00", "11:00")
	completed.Completed = true
	skipped := act("s1", "업무", "10:00", "11:00")
	skipped.Skipped = true

	h.tick(t, []models.Schedule{completed, skipped})
	if h.sink.count() != 0 {
		t.Fatalf("start messages fired for completed/skipped activities: %+v", h.sink.messages)
	}

	// Feedback still fires for the completed one, not the skipped one
	h.clock.setTime(11, 2)
	h.tick(t, []models.Schedule{completed, skipped})
	if got := len(h.sink.byKeyPrefix("feedback_c1")); got != 1 {
		t.Fatalf("expected feedback for completed activity, got %d", got)
	}
	if got := len(h.sink.byKeyPrefix("feedback_s1")); got != 0 {
		t.Fatalf("unexpected feedback for skipped activity")
	}
}

func TestEndToEndWorkActivity(t *testing.T) {
	h := newHarness(10, 0)
	activity := act("a1", "업무", "10:00", "11:00")

	steps := []struct {
		hour, minute int
	}{{10, 0}, {10, 30}, {10, 31}, {10, 45}, {11, 5}, {11, 9}}
	for _, s := range steps {
		h.clock.setTime(s.hour, s.minute)
		h.tick(t, []models.Schedule{activity})
	}

	for _, want := range []struct {
		prefix string
		family string
	}{
		{"start_a1", "start"},
		{"check_in_a1", "check_in"},
		{"feedback_a1", "feedback"},
	} {
		msgs := h.sink.byKeyPrefix(want.prefix)
		if len(msgs) != 1 {
			t.Fatalf("%s: got %d messages, want exactly 1", want.family, len(msgs))
		}
		if !strings.HasPrefix(msgs[0].Content, "ai:"+want.family) {
			t.Fatalf("%s: unexpected content %q", want.family, msgs[0].Content)
		}
	}
}

func TestGapFillerBeforeNextActivity(t *testing.T) {
	// Next activity at 15:00; inclusive window is [14:30, 14:40]
	activity := act("a1", "업무", "15:00", "16:00")

	for _, tc := range []struct {
		minute int
		fires  bool
	}{{29, false}, {30, true}, {40, true}, {41, false}} {
		h := newHarness(14, tc.minute)
		h.tick(t, []models.Schedule{activity})
		got := len(h.sink.byKeyPrefix("gap_filler_a1"))
		if tc.fires && got != 1 {
			t.Fatalf("expected gap-filler at 14:%02d", tc.minute)
		}
		if !tc.fires && got != 0 {
			t.Fatalf("unexpected gap-filler at 14:%02d", tc.minute)
		}
	}
}

func TestGapFillerSuppressedWhileInProgress(t *testing.T) {
	h := newHarness(14, 35)
	h.tick(t, []models.Schedule{
		act("cur", "회의", "14:00", "14:50"),
		act("next", "업무", "15:00", "16:00"),
	})
	if got := len(h.sink.byKeyPrefix("gap_filler")); got != 0 {
		t.Fatalf("gap-filler fired while an activity was in progress")
	}
}

func TestIdleTrigger(t *testing.T) {
	// Nothing scheduled: idle fires once per hour within [9, 22]
	h := newHarness(15, 10)
	h.tick(t, nil)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("idle_")); got != 1 {
		t.Fatalf("idle fired %d times in one hour, want 1", got)
	}

	h = newHarness(23, 10)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("idle_")); got != 0 {
		t.Fatalf("idle fired outside [9,22]")
	}
}

func TestIdleSuppressedByRemainingSchedule(t *testing.T) {
	h := newHarness(15, 10)
	h.tick(t, []models.Schedule{act("a1", "업무", "18:00", "19:00")})
	if got := len(h.sink.byKeyPrefix("idle_")); got != 0 {
		t.Fatalf("idle fired while an activity was still upcoming")
	}
}

func TestDaySummary(t *testing.T) {
	done := act("a1", "업무", "09:00", "10:00")
	done.Completed = true
	skipped := act("a2", "운동", "10:00", "11:00")
	skipped.Skipped = true
	activities := []models.Schedule{done, skipped}

	// lastEnd = 11:00; window [11:10, 11:30)
	h := newHarness(11, 9)
	h.tick(t, activities)
	if got := len(h.sink.byKeyPrefix("day_summary")); got != 0 {
		t.Fatalf("summary fired before its window")
	}

	h.clock.setTime(11, 12)
	h.tick(t, activities)
	msgs := h.sink.byKeyPrefix("day_summary")
	if len(msgs) != 1 {
		t.Fatalf("expected one summary, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "2개 중 1개 완료") {
		t.Fatalf("summary content wrong: %q", msgs[0].Content)
	}

	h.clock.setTime(11, 30)
	h.tick(t, activities)
	if got := len(h.sink.byKeyPrefix("day_summary")); got != 1 {
		t.Fatalf("summary fired again after window close")
	}
}

func TestNewsHours(t *testing.T) {
	for _, tc := range []struct {
		hour, minute int
		fires        bool
	}{{9, 0, true}, {9, 4, true}, {9, 5, false}, {13, 2, true}, {12, 2, false}, {21, 3, true}} {
		h := newHarness(tc.hour, tc.minute)
		h.resolver.newsText = "headline"
		h.tick(t, nil)
		// idle may also fire with an empty schedule; count news only
		got := len(h.sink.byKeyPrefix("news_"))
		if tc.fires && got != 1 {
			t.Fatalf("expected news at %02d:%02d", tc.hour, tc.minute)
		}
		if !tc.fires && got != 0 {
			t.Fatalf("unexpected news at %02d:%02d", tc.hour, tc.minute)
		}
	}
}

func TestNoNewsSuppressesMessageButConsumesHour(t *testing.T) {
	h := newHarness(13, 1)
	h.resolver.noNews = true
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("news_")); got != 0 {
		t.Fatalf("no-news response still emitted a message")
	}

	// The hour is consumed: a later tick with news available stays quiet
	h.resolver.noNews = false
	h.clock.setTime(13, 3)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("news_")); got != 0 {
		t.Fatalf("news hour retried after suppression")
	}
}

func TestTrendBriefingFiresAfterDelay(t *testing.T) {
	h := newHarness(12, 0)
	h.trends.items = []models.TrendItem{{ID: "t1", Title: "새 트렌드"}}

	// First observation only arms the timer
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("trend_briefing")); got != 0 {
		t.Fatalf("briefing fired without the 60s delay")
	}

	h.clock.set(h.clock.Now().Add(90 * time.Second))
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("trend_briefing")); got != 1 {
		t.Fatalf("briefing did not fire after delay")
	}

	// Once per day
	h.clock.set(h.clock.Now().Add(5 * time.Minute))
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("trend_briefing")); got != 1 {
		t.Fatalf("briefing fired twice in one day")
	}
}

func TestTrendBriefingResetsWhenRead(t *testing.T) {
	h := newHarness(12, 0)
	h.trends.items = []models.TrendItem{{ID: "t1", Title: "트렌드"}}
	h.tick(t, nil)

	// All items read before the delay elapses: timer resets
	h.trends.mu.Lock()
	h.trends.items = nil
	h.trends.mu.Unlock()
	h.clock.set(h.clock.Now().Add(2 * time.Minute))
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("trend_briefing")); got != 0 {
		t.Fatalf("briefing fired for an emptied trend set")
	}
}

func TestGoalReminder(t *testing.T) {
	h := newHarness(10, 1)
	h.goals.goals = []models.Goal{
		{ID: "g1", Title: "책 12권 읽기", Progress: 45},
		{ID: "g2", Title: "5kg 감량", Progress: 80},
	}

	h.tick(t, nil)
	msgs := h.sink.byKeyPrefix("goal_reminder")
	if len(msgs) != 1 {
		t.Fatalf("expected one goal reminder, got %d", len(msgs))
	}
	// fakeRand picks index 0; progress 45 lands in the middle bucket
	if !strings.Contains(msgs[0].Content, "책 12권 읽기") || !strings.Contains(msgs[0].Content, "45%") {
		t.Fatalf("goal reminder content wrong: %q", msgs[0].Content)
	}

	// Hour consumed
	h.clock.setTime(10, 3)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("goal_reminder")); got != 1 {
		t.Fatalf("goal reminder fired twice in one hour")
	}
}

func TestGoalReminderNeedsActiveGoal(t *testing.T) {
	h := newHarness(15, 2)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("goal_reminder")); got != 0 {
		t.Fatalf("goal reminder fired with no active goals")
	}
}

func TestGoalSourceFailureLeavesWindowOpen(t *testing.T) {
	h := newHarness(10, 1)
	h.goals.err = context.DeadlineExceeded
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("goal_reminder")); got != 0 {
		t.Fatalf("goal reminder fired despite source failure")
	}

	// Source recovers inside the same window: the opportunity is intact
	h.goals.err = nil
	h.goals.goals = []models.Goal{{ID: "g1", Title: "목표", Progress: 0}}
	h.clock.setTime(10, 3)
	h.tick(t, nil)
	if got := len(h.sink.byKeyPrefix("goal_reminder")); got != 1 {
		t.Fatalf("goal reminder lost after transient source failure")
	}
}

// barrierStore holds every Has caller until two ticks have arrived, so
// both race past the read before either writes its mark
type barrierStore struct {
	mu      sync.Mutex
	marks   map[string]bool
	barrier sync.WaitGroup
}

func newBarrierStore(racers int) *barrierStore {
	s := &barrierStore{marks: make(map[string]bool)}
	s.barrier.Add(racers)
	return s
}

func (s *barrierStore) Has(_ context.Context, key string) bool {
	s.barrier.Done()
	s.barrier.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[key]
}

func (s *barrierStore) Mark(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marks[key] {
		return false, nil
	}
	s.marks[key] = true
	return true, nil
}

func TestConcurrentTicksFireOnce(t *testing.T) {
	h := newHarness(10, 2)
	store := newBarrierStore(2)
	h.eval = NewEvaluator(h.clock, fakeRand{}, store, NewClassifier(nil),
		h.resolver, h.sink, h.goals, h.trends)

	// One activity in its start window: each tick checks exactly one key,
	// and the barrier lines both checks up before either mark lands
	activity := act("a1", "업무", "10:00", "11:00")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.eval.Tick(context.Background(), []models.Schedule{activity})
		}()
	}
	wg.Wait()
	h.eval.Wait()

	if got := len(h.sink.byKeyPrefix("start_a1")); got != 1 {
		t.Fatalf("racing ticks fired %d times for one key, want 1", got)
	}
}

// cancelAwareResolver and cancelAwareSink behave like the real content
// client and message service: a dead context turns the fetch into a
// fallback and loses the insert.
type cancelAwareResolver struct{}

func (cancelAwareResolver) ActivityMessage(ctx context.Context, family, _ string) string {
	if ctx.Err() != nil {
		return "fallback:" + family
	}
	return "content:" + family
}

func (cancelAwareResolver) NewsMessage(ctx context.Context) (string, bool) {
	return "", false
}

func (cancelAwareResolver) VideoMessage(ctx context.Context, _ bool) string {
	return "video"
}

type cancelAwareSink struct {
	mu     sync.Mutex
	stored []models.Message
}

func (s *cancelAwareSink) Append(ctx context.Context, content, triggerKey string) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, models.Message{Content: content, TriggerKey: triggerKey})
}

func TestContentDeliveryOutlivesTickCancellation(t *testing.T) {
	h := newHarness(10, 2)
	sink := &cancelAwareSink{}
	h.eval = NewEvaluator(h.clock, fakeRand{}, h.store, NewClassifier(nil),
		cancelAwareResolver{}, sink, h.goals, h.trends)

	// The tick's context dies as soon as the caller returns; the key is
	// already consumed, so the message must still land
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.eval.Tick(ctx, []models.Schedule{act("a1", "업무", "10:00", "11:00")})
	h.eval.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.stored) != 1 {
		t.Fatalf("message lost after tick cancellation: stored %d", len(sink.stored))
	}
	if sink.stored[0].Content != "content:start" {
		t.Fatalf("got %q, want the real content, not a fallback", sink.stored[0].Content)
	}
}

func TestDaySummaryAfterOvernightActivity(t *testing.T) {
	// 23:00-01:00 normalizes to lastEnd = 1500; the summary window
	// [1510, 1530) is 01:10-01:30 the next morning
	night := act("n1", "야간 근무", "23:00", "01:00")
	night.Completed = true
	activities := []models.Schedule{night}

	h := newHarness(1, 15)
	h.tick(t, activities)
	if got := len(h.sink.byKeyPrefix("day_summary")); got != 1 {
		t.Fatalf("summary did not fire for an overnight day, got %d", got)
	}

	h = newHarness(1, 35)
	h.tick(t, activities)
	if got := len(h.sink.byKeyPrefix("day_summary")); got != 0 {
		t.Fatalf("summary fired past its window")
	}
}

func TestMarkWriteFailureIsFatalForThatKeyOnly(t *testing.T) {
	h := newHarness(10, 1)
	h.store.markErr = context.DeadlineExceeded
	h.tick(t, []models.Schedule{act("a1", "업무", "10:00", "11:00")})
	if h.sink.count() != 0 {
		t.Fatalf("messages emitted despite mark write failure")
	}

	// Store recovers: window still open, trigger fires
	h.store.markErr = nil
	h.clock.setTime(10, 3)
	h.tick(t, []models.Schedule{act("a1", "업무", "10:00", "11:00")})
	if got := len(h.sink.byKeyPrefix("start_a1")); got != 1 {
		t.Fatalf("trigger lost after transient store failure")
	}
}
