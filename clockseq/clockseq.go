// Package clockseq tracks the 14-bit RFC 4122 clock sequence.
//
// The sequence changes whenever the timestamp handed to it goes backward or
// the node identifier differs from the previous call. Callers that know the
// timestamp repeats for another reason (a wrapped counter) move it on with
// Advance.
package clockseq

import "github.com/dombox/uuidcreator/random"

const (
	// Bits is the width of the clock sequence.
	Bits = 14
	// Max is the largest clock sequence value.
	Max = 1<<Bits - 1
)

// Sequence is the clock sequence state of one creator. It is not safe for
// concurrent use.
type Sequence struct {
	src         random.Source
	value       uint16
	timestamp   uint64
	node        uint64
	initialized bool
	changes     uint64
}

// New returns a Sequence whose first value is drawn from src.
func New(src random.Source) *Sequence {
	return &Sequence{src: src}
}

// Next returns the clock sequence for a timestamp and node.
func (s *Sequence) Next(timestamp, node uint64) uint16 {
	return s.next(timestamp, node, false)
}

// Advance records timestamp and node like Next but always moves the value
// on, unless this is the first call.
func (s *Sequence) Advance(timestamp, node uint64) uint16 {
	return s.next(timestamp, node, true)
}

func (s *Sequence) next(timestamp, node uint64, force bool) uint16 {
	if !s.initialized {
		s.initialized = true
		s.value = uint16(s.src.Uint64() & Max) // #nosec G115
	} else if force || timestamp < s.timestamp || node != s.node {
		s.value = (s.value + 1) & Max
		s.changes++
	}
	s.timestamp = timestamp
	s.node = node
	return s.value
}

// Value returns the current value without advancing.
func (s *Sequence) Value() uint16 { return s.value }

// Changes returns how many times the value was bumped.
func (s *Sequence) Changes() uint64 { return s.changes }
