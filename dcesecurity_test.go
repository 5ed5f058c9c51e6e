package uuidcreator

import (
	"context"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDCESecurity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = LayoutSequential // ignored
	c, err := NewDCESecurityCreator(cfg)
	require.NoError(t, err)

	for _, domain := range []Domain{DomainPerson, DomainGroup, DomainOrg} {
		u, err := c.New(domain, 501)
		require.NoError(t, err)

		assert.Equal(t, VersionDCESecurity, u.Version())
		assert.Equal(t, 2, u.Variant())

		gotDomain, id, err := ExtractDCESecurity(u)
		require.NoError(t, err)
		assert.Equal(t, domain, gotDomain)
		assert.Equal(t, uint32(501), id)

		g := u.Google()
		assert.Equal(t, uuid.Domain(domain), g.Domain())
		assert.Equal(t, uint32(501), g.ID())

		_, err = ExtractNodeIdentifier(u)
		assert.NoError(t, err)
	}
}

func TestDCESecurityConsecutiveCallsDiffer(t *testing.T) {
	c, err := NewDCESecurityCreator(DefaultConfig())
	require.NoError(t, err)

	u1, err := c.New(DomainPerson, 1701)
	require.NoError(t, err)
	u2, err := c.New(DomainPerson, 1701)
	require.NoError(t, err)
	assert.NotEqual(t, u1, u2)
}

func TestDCESecurityWindowExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Node = nodeFunc(func(context.Context) (uint64, error) { return testNode, nil })
	c, err := NewDCESecurityCreator(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	tick := mustTimestamp(t, testInstant)
	seen := make(map[UUID]bool)
	for i := 0; i < dceValuesPerWindow; i++ {
		u, err := c.NewWithContext(ctx, DomainPerson, 1701, WithTimestamp(tick))
		require.NoError(t, err)
		assert.False(t, seen[u], "duplicate %s", u)
		seen[u] = true
	}

	_, err = c.NewWithContext(ctx, DomainPerson, 1701, WithTimestamp(tick))
	require.ErrorIs(t, err, ErrDCESecurityExhausted)
	assert.True(t, errdefs.IsResourceExhausted(err))

	// Other identifiers and domains have their own budget.
	_, err = c.NewWithContext(ctx, DomainPerson, 1702, WithTimestamp(tick))
	assert.NoError(t, err)
	_, err = c.NewWithContext(ctx, DomainGroup, 1701, WithTimestamp(tick))
	assert.NoError(t, err)

	// The next window starts over.
	u, err := c.NewWithContext(ctx, DomainPerson, 1701, WithTimestamp(tick+1<<dceWindowBits))
	require.NoError(t, err)
	assert.False(t, seen[u])
}

func TestDCESecurityFixedClockSequence(t *testing.T) {
	c, err := NewDCESecurityCreator(DefaultConfig())
	require.NoError(t, err)

	tick := mustTimestamp(t, testInstant)
	opts := []Option{WithTimestamp(tick), WithClockSequence(0x2222), WithNodeIdentifier(testNode)}
	for i := 0; i < dceValuesPerWindow+1; i++ {
		u, err := c.NewWithContext(context.Background(), DomainOrg, 7, opts...)
		require.NoError(t, err)
		// clock_seq_hi keeps the fixed value, clock_seq_low the domain.
		assert.Equal(t, []byte{0xA2, byte(DomainOrg)}, u[8:10])
	}
}

func TestDCESecurityFixedNode(t *testing.T) {
	u, err := NewDCESecurity(DomainOrg, 7, WithNodeIdentifier(testNode))
	require.NoError(t, err)

	node, err := ExtractNodeIdentifier(u)
	require.NoError(t, err)
	assert.Equal(t, uint64(testNode), node)
}

func TestExtractDCESecurityWrongVersion(t *testing.T) {
	_, _, err := ExtractDCESecurity(MustNewTimeBased())
	assert.ErrorIs(t, err, ErrWrongVersion)
}

func TestDomainString(t *testing.T) {
	assert.Equal(t, "person", DomainPerson.String())
	assert.Equal(t, "group", DomainGroup.String())
	assert.Equal(t, "org", DomainOrg.String())
	assert.Equal(t, "Domain(9)", Domain(9).String())
}
