package pacing

import (
	"math/rand"
	"time"
)

// Pacer inserts a delay between interactions with an external surface.
type Pacer interface {
	// Pace blocks for one pacing interval, then returns.
	Pace()
}

// Fuzzy waits a duration drawn uniformly from [min, 2*min) on every call.
type Fuzzy struct {
	min   time.Duration
	randf func() float64
	sleep func(time.Duration)
}

// NewFuzzy creates a Fuzzy pacer with the given minimum interval, backed by
// the default random source and time.Sleep.
func NewFuzzy(min time.Duration) *Fuzzy {
	return NewFuzzyWithClock(min, rand.Float64, time.Sleep)
}

// NewFuzzyWithClock creates a Fuzzy pacer with an injected random source and
// sleep function. Tests use this to make pacing deterministic and free.
func NewFuzzyWithClock(min time.Duration, randf func() float64, sleep func(time.Duration)) *Fuzzy {
	return &Fuzzy{min: min, randf: randf, sleep: sleep}
}

// Pace blocks for min + U[0,1)*min.
func (f *Fuzzy) Pace() {
	f.sleep(f.min + time.Duration(f.randf()*float64(f.min)))
}

// Nop is a pacer that never waits. For tests.
type Nop struct{}

func (Nop) Pace() {}
