// Package timestamp converts between time.Time and RFC 4122 timestamps and
// supplies the monotonic counter that simulates sub-tick clock resolution.
//
// An RFC 4122 timestamp counts 100-nanosecond intervals since the start of
// the Gregorian calendar, 1582-10-15T00:00:00Z, and is 60 bits wide.
package timestamp

import (
	"errors"
	"fmt"
	"time"
)

const (
	// GregorianOffset is the number of 100 ns intervals between the
	// Gregorian epoch and the Unix epoch.
	GregorianOffset = 0x01B21DD213814000

	// Max is the largest timestamp that fits in 60 bits.
	Max = 1<<60 - 1

	// TicksPerMillisecond is the number of 100 ns intervals in a millisecond.
	TicksPerMillisecond = 10000

	ticksPerSecond = 10000000
	nanosPerTick   = 100
)

var (
	ErrOutOfRange    = errors.New("instant outside the 60-bit timestamp range")
	ErrNotAligned    = errors.New("instant not aligned to 100 ns")
	ErrUnknownKind   = errors.New("unknown timestamp strategy")
	ErrUnknownPolicy = errors.New("unknown overflow policy")
)

// Epoch is the zero timestamp.
var Epoch = time.Date(1582, time.October, 15, 0, 0, 0, 0, time.UTC)

// FromTime converts t to a timestamp. It rejects instants before the
// Gregorian epoch, after Max, or carrying a sub-100 ns remainder.
func FromTime(t time.Time) (uint64, error) {
	if t.Nanosecond()%nanosPerTick != 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotAligned, t.Format(time.RFC3339Nano))
	}
	if t.Before(Epoch) || t.After(ToTime(Max)) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, t.Format(time.RFC3339Nano))
	}
	return truncate(t), nil
}

// UnixMilli converts a timestamp to milliseconds since the Unix epoch.
// Timestamps before 1970 map to zero.
func UnixMilli(ts uint64) uint64 {
	if ts < GregorianOffset {
		return 0
	}
	return (ts - GregorianOffset) / TicksPerMillisecond
}

// Truncate converts t to a timestamp, dropping any sub-100 ns remainder.
// The caller must ensure t is within range.
func Truncate(t time.Time) uint64 {
	return truncate(t)
}

func truncate(t time.Time) uint64 {
	ticks := t.Unix()*ticksPerSecond + int64(t.Nanosecond()/nanosPerTick)
	return uint64(ticks + GregorianOffset) // #nosec G115
}

// ToTime converts a timestamp back to a UTC instant. Bits above 60 are
// ignored.
func ToTime(ts uint64) time.Time {
	ticks := int64(ts&Max) - GregorianOffset // #nosec G115
	sec := ticks / ticksPerSecond
	rem := ticks % ticksPerSecond
	if rem < 0 {
		sec--
		rem += ticksPerSecond
	}
	return time.Unix(sec, rem*nanosPerTick).UTC()
}
