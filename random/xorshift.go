package random

import "math/bits"

// goldenGamma replaces an all-zero seed. Zero is a fixed point of every
// xor-shift recurrence.
const goldenGamma = 0x9E3779B97F4A7C15

// Xorshift is Marsaglia's 64-bit xorshift generator (13, 7, 17).
type Xorshift struct {
	x uint64
}

// NewXorshift returns a generator for seed. A zero seed is perturbed.
func NewXorshift(seed uint64) *Xorshift {
	if seed == 0 {
		seed = goldenGamma
	}
	return &Xorshift{x: seed}
}

// NewXorshiftFrom seeds a generator from s.
func NewXorshiftFrom(s *Seeder) *Xorshift {
	return NewXorshift(s.Seed())
}

// Uint64 implements Source.
func (g *Xorshift) Uint64() uint64 {
	x := g.x
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.x = x
	return x
}

// XorshiftStar is xorshift64* (12, 25, 27) with a multiplicative output
// scrambler.
type XorshiftStar struct {
	x uint64
}

// NewXorshiftStar returns a generator for seed. A zero seed is perturbed.
func NewXorshiftStar(seed uint64) *XorshiftStar {
	if seed == 0 {
		seed = goldenGamma
	}
	return &XorshiftStar{x: seed}
}

// NewXorshiftStarFrom seeds a generator from s.
func NewXorshiftStarFrom(s *Seeder) *XorshiftStar {
	return NewXorshiftStar(s.Seed())
}

// Uint64 implements Source.
func (g *XorshiftStar) Uint64() uint64 {
	x := g.x
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	g.x = x
	return x * 0x2545F4914F6CDD1D
}

// Xorshift128Plus is Vigna's xorshift128+ (23, 18, 5).
type Xorshift128Plus struct {
	s0, s1 uint64
}

// NewXorshift128Plus returns a generator for the 128-bit seed (s0, s1).
// An all-zero seed is perturbed.
func NewXorshift128Plus(s0, s1 uint64) *Xorshift128Plus {
	if s0 == 0 && s1 == 0 {
		s0 = goldenGamma
	}
	return &Xorshift128Plus{s0: s0, s1: s1}
}

// NewXorshift128PlusFrom seeds a generator from s.
func NewXorshift128PlusFrom(s *Seeder) *Xorshift128Plus {
	s0, s1 := s.Seed128()
	return NewXorshift128Plus(s0, s1)
}

// Uint64 implements Source.
func (g *Xorshift128Plus) Uint64() uint64 {
	x := g.s0
	y := g.s1
	g.s0 = y
	x ^= x << 23
	g.s1 = x ^ y ^ (x >> 18) ^ (y >> 5)
	return g.s1 + y
}

// Xoroshiro128Plus is xoroshiro128+ (24, 16, 37).
type Xoroshiro128Plus struct {
	s0, s1 uint64
}

// NewXoroshiro128Plus returns a generator for the 128-bit seed (s0, s1).
// An all-zero seed is perturbed.
func NewXoroshiro128Plus(s0, s1 uint64) *Xoroshiro128Plus {
	if s0 == 0 && s1 == 0 {
		s0 = goldenGamma
	}
	return &Xoroshiro128Plus{s0: s0, s1: s1}
}

// NewXoroshiro128PlusFrom seeds a generator from s.
func NewXoroshiro128PlusFrom(s *Seeder) *Xoroshiro128Plus {
	s0, s1 := s.Seed128()
	return NewXoroshiro128Plus(s0, s1)
}

// Uint64 implements Source.
func (g *Xoroshiro128Plus) Uint64() uint64 {
	s0 := g.s0
	s1 := g.s1
	result := s0 + s1
	s1 ^= s0
	g.s0 = bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16)
	g.s1 = bits.RotateLeft64(s1, 37)
	return result
}
