package uuidcreator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/containerd/log"

	"github.com/dombox/uuidcreator/clockseq"
	"github.com/dombox/uuidcreator/nodeid"
	"github.com/dombox/uuidcreator/timestamp"
)

// TimeBasedCreator assembles time-ordered UUIDs (versions 1 and 6).
//
// All state (counter, clock sequence, node cache) sits behind one mutex, so
// a creator may be shared between goroutines.
type TimeBasedCreator struct {
	layout         Layout
	fixed          override
	backoff        time.Duration
	resolveTimeout time.Duration
	maxBatchSize   int
	metrics        *Metrics

	mu           sync.Mutex
	clock        timestamp.Strategy
	counter      *timestamp.Counter
	seq          *clockseq.Sequence
	node         nodeid.Strategy
	nodeValue    uint64
	nodeResolved bool
}

// NewTimeBasedCreator validates cfg and returns a creator.
func NewTimeBasedCreator(cfg Config) (*TimeBasedCreator, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	return newTimeBasedCreator(s)
}

func newTimeBasedCreator(s *settings) (*TimeBasedCreator, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}

	node := s.node
	if node == nil {
		if node, err = nodeid.New(s.nodeKind, src); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return &TimeBasedCreator{
		layout:         s.layout,
		fixed:          s.fixed,
		backoff:        s.backoff,
		resolveTimeout: s.resolveTimeout,
		maxBatchSize:   s.maxBatchSize,
		metrics:        s.metrics,
		clock:          s.clock,
		counter:        timestamp.NewCounter(s.clock.Resolution(), s.policy),
		seq:            clockseq.New(src),
		node:           node,
	}, nil
}

// Layout returns the field order the creator writes.
func (c *TimeBasedCreator) Layout() Layout { return c.layout }

// SetNodeIdentifierStrategy replaces the node strategy. The next UUID
// resolves it again and the clock sequence moves on if the value changed.
func (c *TimeBasedCreator) SetNodeIdentifierStrategy(s nodeid.Strategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node = s
	c.nodeResolved = false
}

// New generates a UUID.
func (c *TimeBasedCreator) New() (UUID, error) {
	return c.NewWithContext(context.Background())
}

// NewWithContext generates a UUID, applying opts to this call only. The
// context bounds node resolution and waiting for the next clock tick.
func (c *TimeBasedCreator) NewWithContext(ctx context.Context, opts ...Option) (UUID, error) {
	u, err := c.generate(ctx, opts)
	if err != nil {
		return UUID{}, err
	}
	c.metrics.generated(c.layout.Version())
	return u, nil
}

// generate is NewWithContext without the metrics, for creators that build
// on a time-based UUID and count it under their own version.
func (c *TimeBasedCreator) generate(ctx context.Context, opts []Option) (UUID, error) {
	if err := ctx.Err(); err != nil {
		return UUID{}, fmt.Errorf("%w: %w", ErrContextCanceled, err)
	}
	o, err := c.fixed.apply(opts)
	if err != nil {
		return UUID{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.next(ctx, o)
}

// NewBatch generates count UUIDs under a single lock acquisition.
func (c *TimeBasedCreator) NewBatch(ctx context.Context, count int) ([]UUID, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidBatchSize, count)
	}
	if count > c.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidBatchSize, count, c.maxBatchSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCanceled, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	uuids := make([]UUID, count)
	for i := range uuids {
		u, err := c.next(ctx, c.fixed)
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID %d: %w", i, err)
		}
		uuids[i] = u
		c.metrics.generated(c.layout.Version())
	}
	return uuids, nil
}

// next assembles one UUID. c.mu must be held.
func (c *TimeBasedCreator) next(ctx context.Context, o override) (UUID, error) {
	var (
		ts    uint64
		reuse bool
	)
	if o.timestamp != nil {
		ts = *o.timestamp
	} else {
		tick, err := c.nextTimestamp(ctx)
		if err != nil {
			return UUID{}, err
		}
		ts = tick.Value()
		// The counter handed out this timestamp before: either it wrapped
		// or the clock went back into territory already issued.
		reuse = tick.Wrapped || tick.Regressed
	}

	var node uint64
	if o.node != nil {
		node = *o.node
	} else {
		var err error
		if node, err = c.resolveNode(ctx); err != nil {
			return UUID{}, err
		}
	}

	var seq uint16
	if o.clockSeq != nil {
		seq = *o.clockSeq
	} else {
		before := c.seq.Changes()
		if reuse {
			seq = c.seq.Advance(ts, node)
		} else {
			seq = c.seq.Next(ts, node)
		}
		if c.seq.Changes() != before {
			c.metrics.clockSequenceChanged()
			log.G(ctx).WithFields(log.Fields{
				"timestamp":      ts,
				"node":           fmt.Sprintf("%012x", node),
				"clock_sequence": seq,
			}).Debug("clock sequence changed")
		}
	}

	return c.BuildUUID(ts, seq, node), nil
}

// nextTimestamp reads the clock through the counter. Under OverflowWait it
// blocks until the clock reaches the next tick.
func (c *TimeBasedCreator) nextTimestamp(ctx context.Context) (timestamp.Tick, error) {
	for {
		tick, err := c.counter.Next(c.clock.Timestamp())
		if err == nil {
			switch {
			case tick.Wrapped:
				c.metrics.counterOverflowed()
				log.G(ctx).WithField("timestamp", tick.Timestamp).Debug("timestamp counter wrapped")
			case tick.Regressed:
				log.G(ctx).WithField("timestamp", tick.Timestamp).Warn("clock moved backward")
			}
			if ts := tick.Value(); ts > timestamp.Max {
				return timestamp.Tick{}, fmt.Errorf("%w: timestamp %#x exceeds 60 bits", ErrInvalidConfig, ts)
			}
			return tick, nil
		}
		if !errors.Is(err, timestamp.ErrCounterOverflow) {
			return timestamp.Tick{}, err
		}

		c.metrics.counterOverflowed()
		log.G(ctx).WithError(err).Debug("waiting for next clock tick")
		timer := time.NewTimer(c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return timestamp.Tick{}, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		case <-timer.C:
		}
	}
}

// resolveNode returns the cached node identifier, resolving it on first
// use within ResolveTimeout.
func (c *TimeBasedCreator) resolveNode(ctx context.Context) (uint64, error) {
	if c.nodeResolved {
		return c.nodeValue, nil
	}
	rctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	defer cancel()

	v, err := c.node.NodeIdentifier(rctx)
	if err != nil {
		return 0, fmt.Errorf("%w: node identifier: %w", ErrInvalidConfig, err)
	}
	c.nodeValue = v & nodeid.Mask
	c.nodeResolved = true
	return c.nodeValue, nil
}

// BuildUUID packs a timestamp, clock sequence and node in the creator's
// layout.
func (c *TimeBasedCreator) BuildUUID(ts uint64, seq uint16, node uint64) UUID {
	return buildTimeOrdered(c.layout, ts, seq, node)
}

func buildTimeOrdered(layout Layout, ts uint64, seq uint16, node uint64) UUID {
	var u UUID

	if layout == LayoutSequential {
		// Bits 0-47: timestamp bits 59-12
		u[0] = byte(ts >> 52)
		u[1] = byte(ts >> 44)
		u[2] = byte(ts >> 36)
		u[3] = byte(ts >> 28)
		u[4] = byte(ts >> 20)
		u[5] = byte(ts >> 12)
		// Bits 48-63: version 6 + timestamp bits 11-0
		u[6] = byte(VersionSequential)<<4 | byte(ts>>8)&0x0F
		u[7] = byte(ts)
	} else {
		// Bits 0-31: time_low
		u[0] = byte(ts >> 24)
		u[1] = byte(ts >> 16)
		u[2] = byte(ts >> 8)
		u[3] = byte(ts)
		// Bits 32-47: time_mid
		u[4] = byte(ts >> 40)
		u[5] = byte(ts >> 32)
		// Bits 48-63: version 1 + time_high
		u[6] = byte(VersionTimeBased)<<4 | byte(ts>>56)&0x0F
		u[7] = byte(ts >> 48)
	}

	// Bits 64-65: variant 10, bits 66-79: clock sequence
	u[8] = 0x80 | byte(seq>>8)&0x3F
	u[9] = byte(seq)

	// Bits 80-127: node
	u[10] = byte(node >> 40)
	u[11] = byte(node >> 32)
	u[12] = byte(node >> 24)
	u[13] = byte(node >> 16)
	u[14] = byte(node >> 8)
	u[15] = byte(node)

	return u
}
