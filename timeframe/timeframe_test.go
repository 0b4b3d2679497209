package timeframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]float64{0, 1, 1})
	assert.Error(t, err)

	_, err = New([]float64{0, 2, 1})
	assert.Error(t, err)
}

func TestIdentityFrame(t *testing.T) {
	tf := NewIdentity(5)
	require.Equal(t, 5, tf.NumTimes())

	assert.Equal(t, 3.0, tf.TimeAtIndex(3))
	assert.Equal(t, Index(3), tf.IndexAtTime(3.0))
}

func TestTimeAtIndexClamps(t *testing.T) {
	tf, err := New([]float64{10, 20, 30})
	require.NoError(t, err)

	assert.Equal(t, 10.0, tf.TimeAtIndex(-1))
	assert.Equal(t, 30.0, tf.TimeAtIndex(99))
}

func TestIndexAtTime(t *testing.T) {
	tf, err := New([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	// Exact hits
	assert.Equal(t, Index(0), tf.IndexAtTime(10))
	assert.Equal(t, Index(3), tf.IndexAtTime(40))

	// Between points: last index at or before t
	assert.Equal(t, Index(1), tf.IndexAtTime(25))

	// Clamped below and above
	assert.Equal(t, Index(0), tf.IndexAtTime(-5))
	assert.Equal(t, Index(3), tf.IndexAtTime(1000))
}

func TestConvertIndex(t *testing.T) {
	// Coarse frame at half the rate of the fine frame.
	fine := NewIdentity(10)
	coarse, err := New([]float64{0, 2, 4, 6, 8})
	require.NoError(t, err)

	assert.Equal(t, Index(2), fine.ConvertIndex(2, nil))
	assert.Equal(t, Index(2), coarse.ConvertIndex(1, fine))
	assert.Equal(t, Index(3), fine.ConvertIndex(6, coarse))
	// Fine index 5 lands between coarse points 2 and 3.
	assert.Equal(t, Index(2), fine.ConvertIndex(5, coarse))
}

func TestIntervalPredicates(t *testing.T) {
	iv := Interval{Start: 4, End: 8}

	assert.True(t, iv.Contains(4))
	assert.True(t, iv.Contains(8))
	assert.False(t, iv.Contains(9))

	assert.True(t, iv.Overlaps(Interval{Start: 8, End: 12}))
	assert.True(t, iv.Overlaps(Interval{Start: 0, End: 4}))
	assert.False(t, iv.Overlaps(Interval{Start: 9, End: 12}))
}
