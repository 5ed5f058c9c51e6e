// Package nodeid resolves the 48-bit node identifier placed in the last six
// bytes of time-based UUIDs.
//
// Strategies fall back rather than fail: HardwareAddress falls back to
// Default, Default falls back to Random. Each strategy resolves once and
// then returns the cached value.
package nodeid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/containerd/log"

	"github.com/dombox/uuidcreator/random"
)

const (
	// Mask keeps the low 48 bits.
	Mask = 1<<48 - 1
	// MulticastBit is the least significant bit of the first octet. It marks
	// a node identifier that is not an IEEE 802 address.
	MulticastBit = 0x010000000000
)

var (
	ErrUnknownKind = errors.New("unknown node identifier strategy")
	ErrOutOfRange  = errors.New("node identifier wider than 48 bits")
	ErrNoSource    = errors.New("no random source for node identifier")
)

// Strategy resolves a node identifier.
type Strategy interface {
	NodeIdentifier(ctx context.Context) (uint64, error)
}

// Kind names a Strategy for configuration.
type Kind int

const (
	KindDefault Kind = iota
	KindHardware
	KindRandom
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindHardware:
		return "hardware"
	case KindRandom:
		return "random"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a configuration name to a Kind. The empty string selects
// KindDefault.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return KindDefault, nil
	case "hardware", "mac":
		return KindHardware, nil
	case "random":
		return KindRandom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// New returns the strategy for kind. src feeds the Random strategy and the
// Random fallback of the others.
func New(kind Kind, src random.Source) (Strategy, error) {
	switch kind {
	case KindDefault:
		return NewDefault(src), nil
	case KindHardware:
		return NewHardwareAddress(src), nil
	case KindRandom:
		return NewRandom(src), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// Fixed is a constant node identifier.
type Fixed uint64

// NewFixed validates v.
func NewFixed(v uint64) (Fixed, error) {
	if v > Mask {
		return 0, fmt.Errorf("%w: %#x", ErrOutOfRange, v)
	}
	return Fixed(v), nil
}

// NodeIdentifier implements Strategy.
func (f Fixed) NodeIdentifier(context.Context) (uint64, error) {
	return uint64(f), nil
}

// cache memoises the first successful resolution.
type cache struct {
	mu    sync.Mutex
	value uint64
	done  bool
}

func (c *cache) get(ctx context.Context, resolve func(context.Context) (uint64, error)) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.value, nil
	}
	v, err := resolve(ctx)
	if err != nil {
		return 0, err
	}
	c.value = v & Mask
	c.done = true
	return c.value, nil
}

// Random draws one 48-bit value and keeps it.
type Random struct {
	cache
	src random.Source
}

// NewRandom returns a Random strategy drawing from src.
func NewRandom(src random.Source) *Random {
	return &Random{src: src}
}

// NodeIdentifier implements Strategy.
func (r *Random) NodeIdentifier(ctx context.Context) (uint64, error) {
	return r.get(ctx, func(context.Context) (uint64, error) {
		if r.src == nil {
			return 0, ErrNoSource
		}
		return (r.src.Uint64() & Mask) | MulticastBit, nil
	})
}

func fallback(ctx context.Context, from string, err error, to Strategy) (uint64, error) {
	log.G(ctx).WithError(err).WithField("strategy", from).Debug("node identifier unavailable, falling back")
	return to.NodeIdentifier(ctx)
}
