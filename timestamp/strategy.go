package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Strategy reports the current timestamp as observed by the host clock.
//
// Resolution is the number of 100 ns intervals per clock tick; observed
// values are multiples of it. The Counter uses it as its range.
type Strategy interface {
	Timestamp() uint64
	Resolution() uint64
}

// Kind names a Strategy for configuration.
type Kind int

const (
	// KindDefault reads the wall clock in milliseconds and leaves the low
	// 10000 intervals to the counter.
	KindDefault Kind = iota
	// KindNanosecond reads the wall clock at 100 ns precision.
	KindNanosecond
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindNanosecond:
		return "nanosecond"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a configuration name to a Kind. The empty string selects
// KindDefault.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "millisecond":
		return KindDefault, nil
	case "nanosecond":
		return KindNanosecond, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// New returns the Strategy for kind reading time from now. A nil now uses
// time.Now.
func New(kind Kind, now func() time.Time) (Strategy, error) {
	if now == nil {
		now = time.Now
	}
	switch kind {
	case KindDefault:
		return Millisecond{Now: now}, nil
	case KindNanosecond:
		return Nanosecond{Now: now}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// Millisecond truncates the clock to whole milliseconds.
type Millisecond struct {
	Now func() time.Time
}

// Timestamp implements Strategy.
func (m Millisecond) Timestamp() uint64 {
	ms := m.Now().UnixMilli()
	return uint64(ms*TicksPerMillisecond + GregorianOffset) // #nosec G115
}

// Resolution implements Strategy.
func (Millisecond) Resolution() uint64 { return TicksPerMillisecond }

// Nanosecond truncates the clock to 100 ns.
type Nanosecond struct {
	Now func() time.Time
}

// Timestamp implements Strategy.
func (n Nanosecond) Timestamp() uint64 { return truncate(n.Now()) }

// Resolution implements Strategy.
func (Nanosecond) Resolution() uint64 { return 1 }

// Func adapts a function to Strategy. It is mostly useful in tests to feed
// the same observed value several times.
type Func struct {
	F   func() uint64
	Res uint64
}

// Timestamp implements Strategy.
func (f Func) Timestamp() uint64 { return f.F() }

// Resolution implements Strategy.
func (f Func) Resolution() uint64 { return f.Res }
