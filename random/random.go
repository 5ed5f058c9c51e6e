// Package random provides the fast, non-cryptographic generators used to
// fill random and node identifier bits.
//
// The Xorshift family trades quality and unpredictability for throughput.
// None of these generators is safe for concurrent use; wrap one in Locked
// or give every goroutine its own instance.
//
// References:
//   - Marsaglia, G. (2003). Xorshift RNGs. Journal of Statistical Software 8(14).
//   - Vigna, S. (2016). An experimental exploration of Marsaglia's xorshift generators, scrambled.
//   - Vigna, S. (2017). Further scramblings of Marsaglia's xorshift generators.
//   - Blackman, D., Vigna, S. (2018). Scrambled linear pseudorandom number generators.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// ErrUnknownKind is returned by ParseKind and New for unrecognised names.
var ErrUnknownKind = errors.New("unknown random generator")

// Source draws 64 random bits at a time.
type Source interface {
	Uint64() uint64
}

// Kind names a Source implementation so it can be chosen from configuration.
type Kind int

const (
	KindXorshift Kind = iota
	KindXorshiftStar
	KindXorshift128Plus
	KindXoroshiro128Plus
	KindChaCha8
	KindCrypto
)

var kindNames = map[Kind]string{
	KindXorshift:         "xorshift",
	KindXorshiftStar:     "xorshift-star",
	KindXorshift128Plus:  "xorshift128plus",
	KindXoroshiro128Plus: "xoroshiro128plus",
	KindChaCha8:          "chacha8",
	KindCrypto:           "crypto",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind. Matching ignores case.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New builds a Source of the given kind, seeding it from s.
func New(kind Kind, s *Seeder) (Source, error) {
	switch kind {
	case KindXorshift:
		return NewXorshiftFrom(s), nil
	case KindXorshiftStar:
		return NewXorshiftStarFrom(s), nil
	case KindXorshift128Plus:
		return NewXorshift128PlusFrom(s), nil
	case KindXoroshiro128Plus:
		return NewXoroshiro128PlusFrom(s), nil
	case KindChaCha8:
		return NewChaCha8From(s), nil
	case KindCrypto:
		return Crypto{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// Locked serialises access to a Source that is not safe for concurrent use.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked wraps src. Wrapping an already locked source returns it as is.
func NewLocked(src Source) *Locked {
	if l, ok := src.(*Locked); ok {
		return l
	}
	return &Locked{src: src}
}

// Uint64 implements Source.
func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

// Read fills p under the lock. It never fails.
func (l *Locked) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	Fill(l.src, p)
	return len(p), nil
}

// Fill writes big-endian draws from src into p.
func Fill(src Source, p []byte) {
	var buf [8]byte
	for len(p) >= 8 {
		binary.BigEndian.PutUint64(p, src.Uint64())
		p = p[8:]
	}
	if len(p) > 0 {
		binary.BigEndian.PutUint64(buf[:], src.Uint64())
		copy(p, buf[:])
	}
}

// Crypto draws from crypto/rand. It is safe for concurrent use.
type Crypto struct{}

// Uint64 implements Source.
func (Crypto) Uint64() uint64 {
	var buf [8]byte
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = crand.Read(buf[:])
	return binary.BigEndian.Uint64(buf[:])
}

// ChaCha8 adapts math/rand/v2's ChaCha8 to Source.
type ChaCha8 struct {
	rng *rand.ChaCha8
}

// NewChaCha8From seeds a ChaCha8 generator with four draws from s.
func NewChaCha8From(s *Seeder) *ChaCha8 {
	var seed [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(seed[i*8:], s.Seed())
	}
	return &ChaCha8{rng: rand.NewChaCha8(seed)}
}

// Uint64 implements Source.
func (c *ChaCha8) Uint64() uint64 {
	return c.rng.Uint64()
}
