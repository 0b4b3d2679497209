package intervals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucidtrace/tabula/timeframe"
)

func iv(start, end int64) timeframe.Interval {
	return timeframe.Interval{Start: timeframe.Index(start), End: timeframe.Index(end)}
}

func TestMergeClose(t *testing.T) {
	t.Run("merges within spacing", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(4, 5), iv(10, 11)}, 3)
		assert.Equal(t, []timeframe.Interval{iv(1, 5), iv(10, 11)}, got)
	})

	t.Run("zero spacing merges adjacent intervals", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(3, 4), iv(6, 7)}, 0)
		assert.Equal(t, []timeframe.Interval{iv(1, 4), iv(6, 7)}, got)
	})

	t.Run("zero spacing merges touching intervals", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(2, 3), iv(5, 6)}, 0)
		assert.Equal(t, []timeframe.Interval{iv(1, 3), iv(5, 6)}, got)
	})

	t.Run("gap equal to spacing merges", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(6, 7)}, 3)
		assert.Equal(t, []timeframe.Interval{iv(1, 7)}, got)
	})

	t.Run("gap above spacing stays split", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(7, 8)}, 3)
		assert.Equal(t, []timeframe.Interval{iv(1, 2), iv(7, 8)}, got)
	})

	t.Run("large spacing merges everything", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 2), iv(50, 60), iv(100, 101)}, 1000)
		assert.Equal(t, []timeframe.Interval{iv(1, 101)}, got)
	})

	t.Run("unsorted input is sorted first", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(10, 11), iv(1, 2), iv(4, 5)}, 3)
		assert.Equal(t, []timeframe.Interval{iv(1, 5), iv(10, 11)}, got)
	})

	t.Run("contained intervals collapse", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(1, 10), iv(3, 4)}, 0)
		assert.Equal(t, []timeframe.Interval{iv(1, 10)}, got)
	})

	t.Run("empty input yields empty non-nil", func(t *testing.T) {
		got := MergeClose(nil, 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("single interval passes through", func(t *testing.T) {
		got := MergeClose([]timeframe.Interval{iv(7, 9)}, 0)
		assert.Equal(t, []timeframe.Interval{iv(7, 9)}, got)
	})
}
