package uuidcreator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dombox/uuidcreator/clockseq"
	"github.com/dombox/uuidcreator/nodeid"
	"github.com/dombox/uuidcreator/random"
	"github.com/dombox/uuidcreator/timestamp"
)

// Layout selects the field order of time-ordered UUIDs.
type Layout string

const (
	// LayoutTimeBased is the RFC 4122 version 1 order: time_low first.
	LayoutTimeBased Layout = "time-based"
	// LayoutSequential puts the most significant timestamp bits first
	// (version 6), so the UUIDs sort in generation order.
	LayoutSequential Layout = "sequential"
)

// Version returns the version nibble written for the layout.
func (l Layout) Version() Version {
	if l == LayoutSequential {
		return VersionSequential
	}
	return VersionTimeBased
}

// Config configures the creators.
//
// The Fixed* fields pin a value for the lifetime of a creator; call-time
// Options override them for a single UUID. Clock, Node, Random and Seeder
// inject implementations and win over the named strategies.
type Config struct {
	// Layout of time-ordered UUIDs.
	Layout Layout `yaml:"layout"`
	// FixedInstant pins the timestamp to an instant aligned to 100 ns.
	FixedInstant *time.Time `yaml:"fixed_instant,omitempty"`
	// FixedTimestamp pins the raw 60-bit timestamp.
	FixedTimestamp *uint64 `yaml:"fixed_timestamp,omitempty"`
	// FixedClockSequence pins the 14-bit clock sequence.
	FixedClockSequence *int `yaml:"fixed_clock_sequence,omitempty"`
	// FixedNodeIdentifier pins the 48-bit node identifier.
	FixedNodeIdentifier *uint64 `yaml:"fixed_node_identifier,omitempty"`
	// NodeIdentifierStrategy is one of default, hardware, random.
	NodeIdentifierStrategy string `yaml:"node_identifier_strategy"`
	// TimestampStrategy is one of default, nanosecond.
	TimestampStrategy string `yaml:"timestamp_strategy"`
	// RandomGenerator names the random.Kind used for random UUIDs, the
	// first clock sequence and random node identifiers.
	RandomGenerator string `yaml:"random_generator"`
	// OverflowPolicy is wait or repeat.
	OverflowPolicy string `yaml:"overflow_policy"`
	// OverflowBackoff is the pause between clock reads while waiting for the
	// next tick.
	OverflowBackoff time.Duration `yaml:"overflow_backoff"`
	// ResolveTimeout bounds node identifier resolution.
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
	// Namespace is the fixed namespace of name-based creators: a UUID or
	// one of dns, url, oid, x500.
	Namespace string `yaml:"namespace,omitempty"`
	// MaxBatchSize limits NewBatch.
	MaxBatchSize int `yaml:"max_batch_size"`

	Clock   timestamp.Strategy `yaml:"-"`
	Node    nodeid.Strategy    `yaml:"-"`
	Random  random.Source      `yaml:"-"`
	Seeder  *random.Seeder     `yaml:"-"`
	Metrics *Metrics           `yaml:"-"`
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		Layout:                 LayoutTimeBased,
		NodeIdentifierStrategy: nodeid.KindDefault.String(),
		TimestampStrategy:      timestamp.KindDefault.String(),
		RandomGenerator:        random.KindXorshift128Plus.String(),
		OverflowPolicy:         timestamp.OverflowWait.String(),
		OverflowBackoff:        100 * time.Microsecond,
		ResolveTimeout:         2 * time.Second,
		MaxBatchSize:           100000,
	}
}

// LoadConfig decodes YAML over DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return LoadConfig(data)
}

// Validate rejects out-of-range or unknown values. Unset durations and
// sizes are not errors; creators substitute the defaults.
func (c Config) Validate() error {
	_, err := c.resolve()
	return err
}

// settings is a validated Config.
type settings struct {
	layout         Layout
	fixed          override
	clock          timestamp.Strategy
	policy         timestamp.OverflowPolicy
	random         random.Source
	randomKind     random.Kind
	nodeKind       nodeid.Kind
	node           nodeid.Strategy
	seeder         *random.Seeder
	backoff        time.Duration
	resolveTimeout time.Duration
	maxBatchSize   int
	namespace      *UUID
	metrics        *Metrics
}

func (c Config) resolve() (*settings, error) {
	defaults := DefaultConfig()
	s := &settings{
		seeder:         c.Seeder,
		backoff:        c.OverflowBackoff,
		resolveTimeout: c.ResolveTimeout,
		maxBatchSize:   c.MaxBatchSize,
		metrics:        c.Metrics,
	}
	if s.seeder == nil {
		s.seeder = seeder
	}

	switch c.Layout {
	case "":
		s.layout = defaults.Layout
	case LayoutTimeBased, LayoutSequential:
		s.layout = c.Layout
	default:
		return nil, fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, c.Layout)
	}

	if c.OverflowBackoff < 0 || c.ResolveTimeout < 0 || c.MaxBatchSize < 0 {
		return nil, fmt.Errorf("%w: durations and batch size must not be negative", ErrInvalidConfig)
	}
	if s.backoff == 0 {
		s.backoff = defaults.OverflowBackoff
	}
	if s.resolveTimeout == 0 {
		s.resolveTimeout = defaults.ResolveTimeout
	}
	if s.maxBatchSize == 0 {
		s.maxBatchSize = defaults.MaxBatchSize
	}

	if c.FixedInstant != nil && c.FixedTimestamp != nil {
		return nil, fmt.Errorf("%w: fixed instant and fixed timestamp are exclusive", ErrInvalidConfig)
	}
	var opts []Option
	if c.FixedInstant != nil {
		opts = append(opts, WithInstant(*c.FixedInstant))
	}
	if c.FixedTimestamp != nil {
		opts = append(opts, WithTimestamp(*c.FixedTimestamp))
	}
	if c.FixedClockSequence != nil {
		opts = append(opts, WithClockSequence(*c.FixedClockSequence))
	}
	if c.FixedNodeIdentifier != nil {
		opts = append(opts, WithNodeIdentifier(*c.FixedNodeIdentifier))
	}
	fixed, err := override{}.apply(opts)
	if err != nil {
		return nil, err
	}
	s.fixed = fixed

	tsKind, err := timestamp.ParseKind(c.TimestampStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.clock = c.Clock
	if s.clock == nil {
		if s.clock, err = timestamp.New(tsKind, nil); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if s.policy, err = timestamp.ParseOverflowPolicy(c.OverflowPolicy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	rndName := c.RandomGenerator
	if rndName == "" {
		rndName = defaults.RandomGenerator
	}
	if s.randomKind, err = random.ParseKind(rndName); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.random = c.Random

	if s.nodeKind, err = nodeid.ParseKind(c.NodeIdentifierStrategy); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.node = c.Node

	if c.Namespace != "" {
		ns, err := ParseNamespace(c.Namespace)
		if err != nil {
			return nil, fmt.Errorf("%w: namespace: %w", ErrInvalidConfig, err)
		}
		s.namespace = &ns
	}

	return s, nil
}

// source returns the injected random source or a new one of the
// configured kind.
func (s *settings) source() (random.Source, error) {
	if s.random != nil {
		return s.random, nil
	}
	src, err := random.New(s.randomKind, s.seeder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return src, nil
}

// Option overrides a value for one call.
type Option func(*override)

// override carries validated fixed values. Err records the first invalid
// option so construction stays a plain function.
type override struct {
	timestamp *uint64
	clockSeq  *uint16
	node      *uint64
	err       error
}

// WithInstant fixes the timestamp to t, which must be aligned to 100 ns
// and lie between 1582-10-15 and the end of the 60-bit range.
func WithInstant(t time.Time) Option {
	return func(o *override) {
		ts, err := timestamp.FromTime(t)
		if err != nil {
			o.fail(fmt.Errorf("%w: %w", ErrInvalidConfig, err))
			return
		}
		o.timestamp = &ts
	}
}

// WithTimestamp fixes the raw 60-bit timestamp.
func WithTimestamp(ts uint64) Option {
	return func(o *override) {
		if ts > timestamp.Max {
			o.fail(fmt.Errorf("%w: timestamp %#x exceeds 60 bits", ErrInvalidConfig, ts))
			return
		}
		o.timestamp = &ts
	}
}

// WithClockSequence fixes the 14-bit clock sequence.
func WithClockSequence(seq int) Option {
	return func(o *override) {
		if seq < 0 || seq > clockseq.Max {
			o.fail(fmt.Errorf("%w: clock sequence %#x outside [0, %#x]", ErrInvalidConfig, seq, clockseq.Max))
			return
		}
		v := uint16(seq) // #nosec G115
		o.clockSeq = &v
	}
}

// WithNodeIdentifier fixes the 48-bit node identifier.
func WithNodeIdentifier(node uint64) Option {
	return func(o *override) {
		if _, err := nodeid.NewFixed(node); err != nil {
			o.fail(fmt.Errorf("%w: %w", ErrInvalidConfig, err))
			return
		}
		o.node = &node
	}
}

func (o *override) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// apply layers opts over o and returns the result.
func (o override) apply(opts []Option) (override, error) {
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return override{}, o.err
	}
	return o, nil
}
