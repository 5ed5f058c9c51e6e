package uuidcreator

import (
	"context"
	"fmt"
	"sync"

	"github.com/containerd/log"
)

// Domain is the DCE security local domain stored in clock_seq_low.
type Domain byte

const (
	DomainPerson Domain = 0 // POSIX UID
	DomainGroup  Domain = 1 // POSIX GID
	DomainOrg    Domain = 2
)

// String returns the domain name.
func (d Domain) String() string {
	switch d {
	case DomainPerson:
		return "person"
	case DomainGroup:
		return "group"
	case DomainOrg:
		return "org"
	default:
		return fmt.Sprintf("Domain(%d)", byte(d))
	}
}

// dceWindowBits is the part of the timestamp lost to the local identifier.
// Within one window (2^32 ticks, about 7m10s) only the high clock sequence
// bits can tell two UUIDs for the same domain and identifier apart.
const dceWindowBits = 32

// dceValuesPerWindow is the number of high clock sequence values.
const dceValuesPerWindow = 1 << 6

type dceKey struct {
	domain Domain
	id     uint32
}

// DCESecurityCreator builds version 2 UUIDs: a version 1 UUID whose
// time_low carries a local identifier and whose clock_seq_low carries the
// local domain.
//
// Overwriting time_low leaves the six high clock sequence bits as the only
// field that varies inside a window of 2^32 ticks, so the creator counts
// the UUIDs issued per domain and identifier in the current window and
// offsets those bits by that count. A 65th request in the same window
// fails with ErrDCESecurityExhausted. A fixed clock sequence disables the
// offset.
type DCESecurityCreator struct {
	base *TimeBasedCreator

	mu     sync.Mutex
	window uint64
	issued map[dceKey]int
}

// NewDCESecurityCreator validates cfg and returns a creator. The layout is
// always time-based.
func NewDCESecurityCreator(cfg Config) (*DCESecurityCreator, error) {
	cfg.Layout = LayoutTimeBased
	base, err := NewTimeBasedCreator(cfg)
	if err != nil {
		return nil, err
	}
	return newDCESecurityCreator(base), nil
}

func newDCESecurityCreator(base *TimeBasedCreator) *DCESecurityCreator {
	return &DCESecurityCreator{base: base, issued: make(map[dceKey]int)}
}

// New generates a UUID for a local domain and identifier.
func (c *DCESecurityCreator) New(domain Domain, id uint32) (UUID, error) {
	return c.NewWithContext(context.Background(), domain, id)
}

// NewWithContext generates a UUID, applying opts to this call only.
func (c *DCESecurityCreator) NewWithContext(ctx context.Context, domain Domain, id uint32, opts ...Option) (UUID, error) {
	o, err := c.base.fixed.apply(opts)
	if err != nil {
		return UUID{}, err
	}
	u, err := c.base.generate(ctx, opts)
	if err != nil {
		return UUID{}, err
	}

	if o.clockSeq == nil {
		ts, err := ExtractTimestamp(u)
		if err != nil {
			return UUID{}, err
		}
		n, err := c.reserve(ts>>dceWindowBits, dceKey{domain: domain, id: id})
		if err != nil {
			log.G(ctx).WithFields(log.Fields{
				"domain": domain,
				"id":     id,
			}).Debug("DCE security window exhausted")
			return UUID{}, err
		}
		u[8] = 0x80 | (u[8]+byte(n))&0x3F
	}

	u[0] = byte(id >> 24)
	u[1] = byte(id >> 16)
	u[2] = byte(id >> 8)
	u[3] = byte(id)
	u[6] = byte(VersionDCESecurity)<<4 | u[6]&0x0F
	u[9] = byte(domain)

	c.base.metrics.generated(VersionDCESecurity)
	return u, nil
}

// reserve returns how many UUIDs were already issued for key in window and
// counts one more.
func (c *DCESecurityCreator) reserve(window uint64, key dceKey) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if window != c.window {
		clear(c.issued)
		c.window = window
	}
	n := c.issued[key]
	if n >= dceValuesPerWindow {
		return 0, fmt.Errorf("%w: %s %d", ErrDCESecurityExhausted, key.domain, key.id)
	}
	c.issued[key] = n + 1
	return n, nil
}
