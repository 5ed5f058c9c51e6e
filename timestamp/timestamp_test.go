package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGregorianOffset(t *testing.T) {
	ts, err := FromTime(time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(GregorianOffset), ts)

	ts, err = FromTime(Epoch)
	require.NoError(t, err)
	assert.Zero(t, ts)
	assert.True(t, ToTime(0).Equal(Epoch))
}

func TestRoundTrip(t *testing.T) {
	instants := []time.Time{
		Epoch,
		time.Date(1600, 1, 1, 12, 0, 0, 300, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 999999900, time.UTC),
		time.Unix(0, 0).UTC(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2262, 4, 12, 0, 0, 0, 0, time.UTC),
		ToTime(Max),
	}

	for _, in := range instants {
		t.Run(in.Format(time.RFC3339Nano), func(t *testing.T) {
			ts, err := FromTime(in)
			require.NoError(t, err)
			out := ToTime(ts)
			assert.True(t, in.Equal(out), "got %s", out)
		})
	}
}

func TestFromTimeRejects(t *testing.T) {
	_, err := FromTime(Epoch.Add(-100 * time.Nanosecond))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = FromTime(ToTime(Max).Add(100 * time.Nanosecond))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = FromTime(time.Date(2024, 1, 1, 0, 0, 0, 150, time.UTC))
	assert.ErrorIs(t, err, ErrNotAligned)

	assert.Equal(t, Truncate(time.Date(2024, 1, 1, 0, 0, 0, 100, time.UTC)),
		Truncate(time.Date(2024, 1, 1, 0, 0, 0, 150, time.UTC)))
}

func TestStrategies(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	clock := func() time.Time { return now }

	ms, err := New(KindDefault, clock)
	require.NoError(t, err)
	assert.Equal(t, uint64(TicksPerMillisecond), ms.Resolution())
	assert.Equal(t, Truncate(now.Truncate(time.Millisecond)), ms.Timestamp())
	assert.Zero(t, (ms.Timestamp()-GregorianOffset)%TicksPerMillisecond)

	ns, err := New(KindNanosecond, clock)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ns.Resolution())
	assert.Equal(t, Truncate(now), ns.Timestamp())

	_, err = New(Kind(7), clock)
	assert.ErrorIs(t, err, ErrUnknownKind)

	def, err := New(KindDefault, nil)
	require.NoError(t, err)
	assert.InDelta(t, float64(Truncate(time.Now())), float64(def.Timestamp()), float64(10*time.Second/100))
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"": KindDefault, "default": KindDefault, "Nanosecond": KindNanosecond} {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("microsecond")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "nanosecond", KindNanosecond.String())
}
