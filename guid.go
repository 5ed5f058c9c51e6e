package uuidcreator

import (
	"encoding/binary"
	"sync"

	"github.com/dombox/uuidcreator/random"
	"github.com/dombox/uuidcreator/timestamp"
)

// CombCreator builds COMB GUIDs: version 4 UUIDs whose last six bytes hold
// the Unix time in milliseconds, so rows keyed by them cluster by creation
// time in a database index that compares the node bytes first.
type CombCreator struct {
	clock   timestamp.Strategy
	src     *random.Locked
	metrics *Metrics
}

// NewCombCreator validates cfg and returns a creator reading cfg's clock
// and random generator.
func NewCombCreator(cfg Config) (*CombCreator, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return &CombCreator{clock: s.clock, src: random.NewLocked(src), metrics: s.metrics}, nil
}

// New generates a COMB GUID. It is safe for concurrent use.
func (c *CombCreator) New() UUID {
	var u UUID
	_, _ = c.src.Read(u[:10])
	putUint48(u[10:], timestamp.UnixMilli(c.clock.Timestamp()))
	u[6] = byte(VersionRandom)<<4 | u[6]&0x0F
	u[8] = 0x80 | u[8]&0x3F
	c.metrics.generatedKind("comb")
	return u
}

// LexicalOrderCreator builds lexical-order GUIDs: 48 bits of Unix time in
// milliseconds followed by 80 random bits, without version or variant
// bits. Within one millisecond the random part is incremented, so the
// canonical strings of one creator sort in generation order.
type LexicalOrderCreator struct {
	clock   timestamp.Strategy
	metrics *Metrics

	mu          sync.Mutex
	src         random.Source
	initialized bool
	last        uint64
	hi          uint16
	lo          uint64
}

// NewLexicalOrderCreator validates cfg and returns a creator reading cfg's
// clock and random generator.
func NewLexicalOrderCreator(cfg Config) (*LexicalOrderCreator, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return &LexicalOrderCreator{clock: s.clock, src: src, metrics: s.metrics}, nil
}

// New generates a lexical-order GUID. It is safe for concurrent use.
func (c *LexicalOrderCreator) New() UUID {
	now := timestamp.UnixMilli(c.clock.Timestamp())

	c.mu.Lock()
	defer c.mu.Unlock()

	// A clock that went back keeps the last millisecond.
	if c.initialized && now < c.last {
		now = c.last
	}

	if c.initialized && now == c.last {
		c.increment()
	} else {
		c.initialized = true
		c.last = now
		c.fresh()
	}

	var u UUID
	putUint48(u[:6], c.last)
	binary.BigEndian.PutUint16(u[6:8], c.hi)
	binary.BigEndian.PutUint64(u[8:], c.lo)
	c.metrics.generatedKind("lexical-order")
	return u
}

// increment adds one to the 80-bit random part. When it wraps, the
// millisecond moves forward and the random part starts over.
func (c *LexicalOrderCreator) increment() {
	c.lo++
	if c.lo != 0 {
		return
	}
	c.hi++
	if c.hi != 0 {
		return
	}
	c.last++
	c.fresh()
}

func (c *LexicalOrderCreator) fresh() {
	c.lo = c.src.Uint64()
	c.hi = uint16(c.src.Uint64()) // #nosec G115
}

func putUint48(b []byte, v uint64) {
	_ = b[5]
	b[0] = byte(v >> 40)
	b[1] = byte(v >> 32)
	b[2] = byte(v >> 24)
	b[3] = byte(v >> 16)
	b[4] = byte(v >> 8)
	b[5] = byte(v)
}
