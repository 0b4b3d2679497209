// Package timeframe translates a store's native integer index space to
// absolute time. Two data sources recorded on different clocks disagree on
// index space; a TimeFrame on each side is what makes cross-source row
// alignment possible.
package timeframe

import (
	"sort"

	"github.com/lucidtrace/tabula/errors"
)

// Index is an integer index within a specific TimeFrame.
type Index int64

// Value returns the raw index value.
func (i Index) Value() int64 { return int64(i) }

// Interval is an inclusive [Start, End] index range within one TimeFrame.
type Interval struct {
	Start Index
	End   Index
}

// Contains reports whether idx falls inside the interval.
func (iv Interval) Contains(idx Index) bool {
	return idx >= iv.Start && idx <= iv.End
}

// Overlaps reports whether two intervals in the same TimeFrame overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start <= other.End && other.Start <= iv.End
}

// TimeFrame maps indices to absolute times. Times are strictly increasing.
type TimeFrame struct {
	times []float64
}

// New creates a TimeFrame from an explicit, strictly increasing time vector.
func New(times []float64) (*TimeFrame, error) {
	if len(times) == 0 {
		return nil, errors.New("timeframe requires at least one time point")
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errors.Newf("timeframe times must be strictly increasing at position %d", i)
		}
	}
	copied := make([]float64, len(times))
	copy(copied, times)
	return &TimeFrame{times: copied}, nil
}

// NewIdentity creates a TimeFrame where index i maps to time i.
func NewIdentity(n int) *TimeFrame {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
	}
	return &TimeFrame{times: times}
}

// NumTimes returns the number of time points.
func (tf *TimeFrame) NumTimes() int {
	return len(tf.times)
}

// TimeAtIndex returns the absolute time for an index, clamping out-of-range
// indices to the frame bounds.
func (tf *TimeFrame) TimeAtIndex(idx Index) float64 {
	if idx < 0 {
		return tf.times[0]
	}
	if int(idx) >= len(tf.times) {
		return tf.times[len(tf.times)-1]
	}
	return tf.times[idx]
}

// IndexAtTime returns the index of the last time point <= t, clamped to the
// frame bounds. This is the inverse lookup used when translating a position
// from another TimeFrame.
func (tf *TimeFrame) IndexAtTime(t float64) Index {
	n := len(tf.times)
	// First position strictly greater than t.
	pos := sort.SearchFloat64s(tf.times, t)
	if pos < n && tf.times[pos] == t {
		return Index(pos)
	}
	if pos == 0 {
		return 0
	}
	return Index(pos - 1)
}

// ConvertIndex translates an index in this frame to the equivalent index in
// dst by going through absolute time. A nil dst (or self-conversion) is the
// identity.
func (tf *TimeFrame) ConvertIndex(idx Index, dst *TimeFrame) Index {
	if dst == nil || dst == tf {
		return idx
	}
	return dst.IndexAtTime(tf.TimeAtIndex(idx))
}
