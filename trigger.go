package chronos

import (
	"fmt"
	"iter"
	"sync"
	"time"
)

// Trigger emits a lazy, ascending sequence of future instants from a given
// base instant. Upcoming may be called arbitrarily many times; a trigger
// must not leak state between calls except where its semantics require it
// (NowTrigger remembers it already fired once; ManualTrigger never fires).
//
// Trigger is a closed set of three implementations (CronTrigger, NowTrigger,
// ManualTrigger) rather than an open interface meant for arbitrary third
// party implementations, though nothing prevents adding a fourth.
type Trigger interface {
	// Expression returns the trigger's source expression, e.g. "now",
	// "manual", or the cron string it was parsed from.
	Expression() string

	// Upcoming returns an ascending sequence s0, s1, ... such that every
	// si >= base and si <= si+1. An exhausted trigger yields no elements.
	Upcoming(base time.Time) iter.Seq[time.Time]
}

// firstUpcoming pulls the first element of t.Upcoming(base), if any. ok is
// false when the trigger has nothing left to offer, rather than aliasing
// that case to a sentinel instant.
func firstUpcoming(t Trigger, base time.Time) (next time.Time, ok bool) {
	pull, stop := iter.Pull(t.Upcoming(base))
	defer stop()

	return pull()
}

// NowTrigger fires exactly once, at the first base instant it is asked
// about, and never again afterward regardless of how many times Upcoming
// is subsequently called.
type NowTrigger struct {
	mu    sync.Mutex
	fired bool
}

// NewNowTrigger constructs a NowTrigger.
func NewNowTrigger() *NowTrigger {
	return &NowTrigger{}
}

func (t *NowTrigger) Expression() string { return "now" }

func (t *NowTrigger) Upcoming(base time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		t.mu.Lock()
		if t.fired {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()

		yield(base)
	}
}

// ManualTrigger never fires; a job holding only a ManualTrigger must be
// fired by some other trigger or not at all.
type ManualTrigger struct{}

// NewManualTrigger constructs a ManualTrigger.
func NewManualTrigger() ManualTrigger { return ManualTrigger{} }

func (ManualTrigger) Expression() string { return "manual" }

func (ManualTrigger) Upcoming(time.Time) iter.Seq[time.Time] {
	return func(func(time.Time) bool) {}
}

// CreateTrigger parses expr into a Trigger. It tries the literal "now" and
// "manual" expressions first, then falls back to the cron grammar; an
// expression matching none of those returns ErrUnknownTrigger.
func CreateTrigger(expr string) (Trigger, error) {
	switch expr {
	case "now":
		return NewNowTrigger(), nil
	case "manual":
		return NewManualTrigger(), nil
	}

	trig, err := ParseCron(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTrigger, err)
	}

	return trig, nil
}
