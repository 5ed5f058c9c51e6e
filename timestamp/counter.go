package timestamp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCounterOverflow is returned by Counter.Next under OverflowWait when
// the clock has not advanced and every counter value of the current tick is
// spent. The counter is left untouched.
var ErrCounterOverflow = errors.New("timestamp counter exhausted for current tick")

// OverflowPolicy selects what Counter.Next does once a tick is exhausted.
type OverflowPolicy int

const (
	// OverflowWait refuses to issue a value until the observed timestamp
	// moves past the current tick.
	OverflowWait OverflowPolicy = iota
	// OverflowRepeat wraps the counter to zero inside the same tick. The
	// issued timestamps repeat and Tick.Wrapped is set; the caller must
	// separate them some other way (the clock sequence does).
	OverflowRepeat
)

// String returns the configuration name of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowWait:
		return "wait"
	case OverflowRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// ParseOverflowPolicy maps a configuration name to a policy. The empty
// string selects OverflowWait.
func ParseOverflowPolicy(name string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "wait":
		return OverflowWait, nil
	case "repeat":
		return OverflowRepeat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Tick is one counter step.
type Tick struct {
	// Timestamp is the observed timestamp, or the last one when the clock
	// stayed in the same tick.
	Timestamp uint64
	// Counter is in [0, resolution).
	Counter uint64
	// Wrapped reports that the counter restarted inside the same tick.
	Wrapped bool
	// Regressed reports that the observed timestamp went backward. The
	// counter restarts from it instead of holding the old tick.
	Regressed bool
}

// Value is the simulated high resolution timestamp.
func (t Tick) Value() uint64 {
	return t.Timestamp + t.Counter
}

// Counter keeps identifiers issued inside one clock tick apart by counting
// them into the low-order timestamp bits (RFC 4122, 4.2.1.2).
//
// For any sequence of non-decreasing observed timestamps the returned
// (Timestamp, Counter) pairs are strictly increasing, until the policy
// says otherwise. An observation below the current tick is a clock
// regression: the counter follows the clock back and flags the tick, so the
// caller can move its clock sequence on. A Counter is not safe for
// concurrent use.
type Counter struct {
	resolution  uint64
	policy      OverflowPolicy
	last        uint64
	counter     uint64
	initialized bool
}

// NewCounter returns a counter ranging over [0, resolution). A zero
// resolution is treated as 1.
func NewCounter(resolution uint64, policy OverflowPolicy) *Counter {
	if resolution == 0 {
		resolution = 1
	}
	return &Counter{resolution: resolution, policy: policy}
}

// Resolution returns the counter range.
func (c *Counter) Resolution() uint64 { return c.resolution }

// Policy returns the overflow policy.
func (c *Counter) Policy() OverflowPolicy { return c.policy }

// Next returns the tick for an observed timestamp.
func (c *Counter) Next(observed uint64) (Tick, error) {
	if !c.initialized || observed > c.last {
		c.initialized = true
		c.last = observed
		c.counter = 0
		return Tick{Timestamp: observed}, nil
	}

	if observed < c.last {
		c.last = observed
		c.counter = 0
		return Tick{Timestamp: observed, Regressed: true}, nil
	}

	if c.counter+1 < c.resolution {
		c.counter++
		return Tick{Timestamp: c.last, Counter: c.counter}, nil
	}

	if c.policy == OverflowWait {
		return Tick{}, fmt.Errorf("%w: %d values issued at %d", ErrCounterOverflow, c.resolution, c.last)
	}
	c.counter = 0
	return Tick{Timestamp: c.last, Wrapped: true}, nil
}
