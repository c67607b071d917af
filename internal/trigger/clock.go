package trigger

import (
	"math/rand"
	"time"
)

// Clock supplies wall-clock time in the assistant's timezone. Injected
// so evaluator tests never wait on real time.
type Clock interface {
	Now() time.Time
}

// Rand supplies random choice (goal selection). Injected so tests can
// pin the pick.
type Rand interface {
	Intn(n int) int
}

type realClock struct {
	loc *time.Location
}

// NewClock returns a Clock reporting time in the given location
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type mathRand struct{}

// NewRand returns a Rand backed by math/rand
func NewRand() Rand {
	return mathRand{}
}

func (mathRand) Intn(n int) int {
	return rand.Intn(n)
}
