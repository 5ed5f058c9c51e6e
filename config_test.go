package uuidcreator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
layout: sequential
fixed_instant: 2024-01-01T00:00:00Z
fixed_clock_sequence: 8738
fixed_node_identifier: 18764998447377
node_identifier_strategy: random
timestamp_strategy: nanosecond
random_generator: xoroshiro128plus
overflow_policy: repeat
overflow_backoff: 1ms
namespace: dns
max_batch_size: 50
`))
	require.NoError(t, err)

	assert.Equal(t, LayoutSequential, cfg.Layout)
	require.NotNil(t, cfg.FixedInstant)
	assert.True(t, cfg.FixedInstant.Equal(testInstant))
	require.NotNil(t, cfg.FixedClockSequence)
	assert.Equal(t, 0x2222, *cfg.FixedClockSequence)
	require.NotNil(t, cfg.FixedNodeIdentifier)
	assert.Equal(t, uint64(testNode), *cfg.FixedNodeIdentifier)
	assert.Equal(t, "random", cfg.NodeIdentifierStrategy)
	assert.Equal(t, "nanosecond", cfg.TimestampStrategy)
	assert.Equal(t, "xoroshiro128plus", cfg.RandomGenerator)
	assert.Equal(t, "repeat", cfg.OverflowPolicy)
	assert.Equal(t, time.Millisecond, cfg.OverflowBackoff)
	assert.Equal(t, "dns", cfg.Namespace)
	assert.Equal(t, 50, cfg.MaxBatchSize)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().ResolveTimeout, cfg.ResolveTimeout)

	c, err := NewTimeBasedCreator(cfg)
	require.NoError(t, err)
	u, err := c.New()
	require.NoError(t, err)
	assert.Equal(t, VersionSequential, u.Version())
	assert.Equal(t, "1eea838b-4cc8-6000-a222-111111111111", u.String())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("random_generator: crypto\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "crypto", cfg.RandomGenerator)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigValidate(t *testing.T) {
	instant := testInstant
	unaligned := testInstant.Add(time.Nanosecond)
	ts := uint64(1)
	badSeq := 0x4000
	badNode := uint64(1 << 48)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"layout", func(c *Config) { c.Layout = "v7" }},
		{"clock sequence", func(c *Config) { c.FixedClockSequence = &badSeq }},
		{"node identifier", func(c *Config) { c.FixedNodeIdentifier = &badNode }},
		{"unaligned instant", func(c *Config) { c.FixedInstant = &unaligned }},
		{"instant and timestamp", func(c *Config) { c.FixedInstant, c.FixedTimestamp = &instant, &ts }},
		{"node strategy", func(c *Config) { c.NodeIdentifierStrategy = "ipv6" }},
		{"timestamp strategy", func(c *Config) { c.TimestampStrategy = "sundial" }},
		{"random generator", func(c *Config) { c.RandomGenerator = "dice" }},
		{"overflow policy", func(c *Config) { c.OverflowPolicy = "panic" }},
		{"negative backoff", func(c *Config) { c.OverflowBackoff = -time.Second }},
		{"negative batch size", func(c *Config) { c.MaxBatchSize = -1 }},
		{"namespace", func(c *Config) { c.Namespace = "ldap" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.True(t, errdefs.IsInvalidArgument(err), "got %v", err)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, doc := range []string{
		"layout: [",
		"fixed_clock_sequence: 99999",
		"overflow_backoff: soon",
	} {
		_, err := LoadConfig([]byte(doc))
		assert.True(t, errdefs.IsInvalidArgument(err), "%q: %v", doc, err)
	}
}
