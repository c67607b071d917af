package jobs

import (
	"context"
	"log"
	"time"

	"daymate/internal/bus"
	"daymate/internal/models"
	"daymate/internal/trigger"
)

// ScheduleSnapshot supplies today's activity list, re-read in full on
// every tick
type ScheduleSnapshot interface {
	ListToday(ctx context.Context) ([]models.Schedule, error)
}

// TriggerPoller drives the trigger evaluator: once at startup, then
// every poll interval, and once more whenever the schedule set changes.
// The only precision guarantee is "evaluated at least once per interval";
// the evaluator's idempotency marks make extra ticks harmless.
type TriggerPoller struct {
	evaluator *trigger.Evaluator
	snapshot  ScheduleSnapshot
	interval  time.Duration
}

// NewTriggerPoller creates the poller and subscribes it to schedule
// mutations on the bus
func NewTriggerPoller(evaluator *trigger.Evaluator, snapshot ScheduleSnapshot, b *bus.Bus, interval time.Duration) *TriggerPoller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	p := &TriggerPoller{
		evaluator: evaluator,
		snapshot:  snapshot,
		interval:  interval,
	}
	b.Subscribe(bus.TopicSchedulesChanged, func(bus.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := p.Run(ctx); err != nil {
			log.Printf("⚠️ [POLLER] Snapshot-change tick failed: %v", err)
		}
	})
	return p
}

// Run performs one evaluation pass over a fresh snapshot
func (p *TriggerPoller) Run(ctx context.Context) error {
	activities, err := p.snapshot.ListToday(ctx)
	if err != nil {
		log.Printf("⚠️ [POLLER] Failed to read schedule snapshot: %v", err)
		return err
	}
	p.evaluator.Tick(ctx, activities)
	return nil
}

// GetNextRunTime returns when the job should run next
func (p *TriggerPoller) GetNextRunTime() time.Time {
	return time.Now().Add(p.interval)
}
