// Package uuidcreator generates RFC 4122 UUIDs without coordination between
// nodes.
//
// Time-ordered UUIDs (versions 1 and 6) are assembled from a 60-bit
// timestamp, a 14-bit clock sequence and a 48-bit node identifier. A
// counter simulates sub-millisecond resolution, so UUIDs issued in the same
// clock tick still differ, and the clock sequence moves whenever the clock
// goes backward or the node identifier changes.
//
// Key Features:
//   - Time-based (v1), sequential (v6), DCE security (v2), random (v4) and
//     name-based (v3, v5) UUIDs
//   - COMB and lexical-order GUIDs for database keys
//   - Pluggable timestamp, node identifier and random strategies
//   - Fast xorshift-family generators for random UUIDs
//   - Explicit counter overflow policy: wait for the next tick or repeat
//   - Thread-safe creators, YAML configuration, Prometheus metrics
//
// RFC 4122 References:
//   - Section 4.1: Format (layout, variant, version)
//   - Section 4.2.1: Time-based generation, clock sequence
//   - Section 4.2.1.2: System clock resolution
//   - Section 4.3: Name-based UUIDs
//   - Section 4.4: UUIDs from truly random or pseudo-random numbers
//   - Section 4.5: Node IDs that do not identify the host
//
// Copyright (c) 2025 Dombox. All rights reserved.
// Licensed under the MIT License.
package uuidcreator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/containerd/errdefs"

	"github.com/dombox/uuidcreator/random"
)

// Common errors for better error handling and wrapping
var (
	ErrInvalidUUIDFormat = errors.New("invalid UUID format")
	ErrNotTimeBased      = errors.New("not a time-based UUID")
	ErrWrongVersion      = errors.New("unexpected UUID version")
	ErrInvalidBatchSize  = errors.New("invalid batch size")
	ErrContextCanceled   = errors.New("context canceled")

	// ErrDCESecurityExhausted satisfies errdefs.IsResourceExhausted.
	ErrDCESecurityExhausted = fmt.Errorf("DCE security values exhausted for local identifier: %w", errdefs.ErrResourceExhausted)

	// ErrInvalidConfig satisfies errdefs.IsInvalidArgument.
	ErrInvalidConfig = fmt.Errorf("invalid configuration: %w", errdefs.ErrInvalidArgument)
)

// seeder seeds every generator constructed without an explicit source.
var seeder = random.NewSeeder(time.Now)

// Default creators, built on first use.
var (
	initOnce     sync.Once
	initErr      error
	timeBased    *TimeBasedCreator
	sequential   *TimeBasedCreator
	dceSecurity  *DCESecurityCreator
	fastRandom   *RandomCreator
	secureRandom *RandomCreator
	nameMD5      *NameBasedCreator
	nameSHA1     *NameBasedCreator
	comb         *CombCreator
	lexicalOrder *LexicalOrderCreator
)

func defaults() error {
	initOnce.Do(func() {
		cfg := DefaultConfig()
		if timeBased, initErr = NewTimeBasedCreator(cfg); initErr != nil {
			return
		}

		seqCfg := cfg
		seqCfg.Layout = LayoutSequential
		if sequential, initErr = NewTimeBasedCreator(seqCfg); initErr != nil {
			return
		}

		dceSecurity = newDCESecurityCreator(timeBased)

		if fastRandom, initErr = NewRandomCreator(cfg); initErr != nil {
			return
		}

		cryptoCfg := cfg
		cryptoCfg.RandomGenerator = random.KindCrypto.String()
		if secureRandom, initErr = NewRandomCreator(cryptoCfg); initErr != nil {
			return
		}

		if nameMD5, initErr = NewNameBasedCreator(VersionNameBasedMD5, cfg); initErr != nil {
			return
		}
		if nameSHA1, initErr = NewNameBasedCreator(VersionNameBasedSHA1, cfg); initErr != nil {
			return
		}

		if comb, initErr = NewCombCreator(cfg); initErr != nil {
			return
		}
		lexicalOrder, initErr = NewLexicalOrderCreator(cfg)
	})
	return initErr
}

// NewTimeBased generates a version 1 UUID with the default creator.
func NewTimeBased(opts ...Option) (UUID, error) {
	return NewTimeBasedWithContext(context.Background(), opts...)
}

// NewTimeBasedWithContext is NewTimeBased with context support.
func NewTimeBasedWithContext(ctx context.Context, opts ...Option) (UUID, error) {
	if err := defaults(); err != nil {
		return UUID{}, err
	}
	return timeBased.NewWithContext(ctx, opts...)
}

// NewSequential generates a version 6 UUID with the default creator.
func NewSequential(opts ...Option) (UUID, error) {
	return NewSequentialWithContext(context.Background(), opts...)
}

// NewSequentialWithContext is NewSequential with context support.
func NewSequentialWithContext(ctx context.Context, opts ...Option) (UUID, error) {
	if err := defaults(); err != nil {
		return UUID{}, err
	}
	return sequential.NewWithContext(ctx, opts...)
}

// NewDCESecurity generates a version 2 UUID with the default creator.
func NewDCESecurity(domain Domain, id uint32, opts ...Option) (UUID, error) {
	if err := defaults(); err != nil {
		return UUID{}, err
	}
	return dceSecurity.NewWithContext(context.Background(), domain, id, opts...)
}

// NewRandom generates a version 4 UUID from crypto/rand.
func NewRandom() UUID {
	mustDefaults()
	return secureRandom.New()
}

// NewFastRandom generates a version 4 UUID from a xorshift128+ generator.
// It is not suitable where UUIDs must be unguessable.
func NewFastRandom() UUID {
	mustDefaults()
	return fastRandom.New()
}

// NewNameBasedMD5 generates a version 3 UUID.
func NewNameBasedMD5(ns UUID, name string) UUID {
	mustDefaults()
	return nameMD5.NewWithNamespace(ns, name)
}

// NewNameBasedSHA1 generates a version 5 UUID.
func NewNameBasedSHA1(ns UUID, name string) UUID {
	mustDefaults()
	return nameSHA1.NewWithNamespace(ns, name)
}

// NewComb generates a COMB GUID with the default creator.
func NewComb() UUID {
	mustDefaults()
	return comb.New()
}

// NewLexicalOrder generates a lexical-order GUID with the default creator.
func NewLexicalOrder() UUID {
	mustDefaults()
	return lexicalOrder.New()
}

// MustNewTimeBased generates a version 1 UUID and panics on error
func MustNewTimeBased(opts ...Option) UUID {
	u, err := NewTimeBased(opts...)
	if err != nil {
		panic(fmt.Sprintf("uuidcreator: %v", err))
	}
	return u
}

// MustNewSequential generates a version 6 UUID and panics on error
func MustNewSequential(opts ...Option) UUID {
	u, err := NewSequential(opts...)
	if err != nil {
		panic(fmt.Sprintf("uuidcreator: %v", err))
	}
	return u
}

func mustDefaults() {
	if err := defaults(); err != nil {
		panic(fmt.Sprintf("uuidcreator: %v", err))
	}
}
