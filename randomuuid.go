package uuidcreator

import "github.com/dombox/uuidcreator/random"

// RandomCreator builds version 4 UUIDs from 122 random bits.
type RandomCreator struct {
	src     *random.Locked
	metrics *Metrics
}

// NewRandomCreator validates cfg and returns a creator drawing from
// cfg.Random or a new generator of kind cfg.RandomGenerator. Fast kinds
// are not cryptographically secure; choose crypto for that.
func NewRandomCreator(cfg Config) (*RandomCreator, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return &RandomCreator{src: random.NewLocked(src), metrics: s.metrics}, nil
}

// New generates a UUID. It is safe for concurrent use.
func (c *RandomCreator) New() UUID {
	var u UUID
	_, _ = c.src.Read(u[:])
	u[6] = byte(VersionRandom)<<4 | u[6]&0x0F
	u[8] = 0x80 | u[8]&0x3F
	c.metrics.generated(VersionRandom)
	return u
}
