package random

import (
	"sync/atomic"
	"time"
)

// Seeder hands out seeds for generators built without an explicit one.
//
// Each seed mixes a clock reading with a call counter, so two generators
// constructed within the same timer tick still get different seeds. A
// process normally owns a single Seeder and passes it to constructors.
type Seeder struct {
	count atomic.Uint64
	now   func() time.Time
}

// NewSeeder returns a Seeder reading time from now. A nil now uses time.Now.
func NewSeeder(now func() time.Time) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{now: now}
}

// Seed returns a 64-bit seed. It is safe for concurrent use.
func (s *Seeder) Seed() uint64 {
	n := s.count.Add(1)
	t := uint64(s.now().UnixNano())
	return splitmix64(t ^ splitmix64(n))
}

// Seed128 returns a 128-bit seed as two words.
func (s *Seeder) Seed128() (uint64, uint64) {
	seed := s.Seed()
	return splitmix64(seed), splitmix64(seed + goldenGamma)
}

// splitmix64 is the finaliser of Steele, Lea and Flood's SplitMix64. It is a
// bijection on uint64.
func splitmix64(z uint64) uint64 {
	z += goldenGamma
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
