// Package table implements the lazy, dependency-resolved tabular computation
// engine: row selectors, execution plans, the column/computer contract, and
// the TableView orchestrator.
package table

import (
	"github.com/lucidtrace/tabula/timeframe"
)

// SelectorKind identifies the concrete row selector variant. The set is
// closed; plan generation dispatches on (selector kind, source kind).
type SelectorKind int

const (
	SelectorTimestamp SelectorKind = iota
	SelectorInterval
	SelectorIndex
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorTimestamp:
		return "timestamp"
	case SelectorInterval:
		return "interval"
	default:
		return "index"
	}
}

// RowDescriptor traces a row back to its originating selector entry. It is
// one of TimestampDescriptor, IntervalDescriptor or IndexDescriptor.
type RowDescriptor interface {
	isRowDescriptor()
}

// TimestampDescriptor describes a row defined by a single timestamp. For
// entity-expanded tables Entity is the item index within the timestamp, or
// -1 for a placeholder row.
type TimestampDescriptor struct {
	Timestamp timeframe.Index
	Entity    int
}

// IntervalDescriptor describes a row defined by an index interval.
type IntervalDescriptor struct {
	Interval timeframe.Interval
}

// IndexDescriptor describes a row defined by a raw index.
type IndexDescriptor struct {
	Index int
}

func (TimestampDescriptor) isRowDescriptor() {}
func (IntervalDescriptor) isRowDescriptor()  {}
func (IndexDescriptor) isRowDescriptor()     {}

// RowSelector defines the abstract row space of a table, independent of any
// data source. Implementations are immutable; the set of variants is closed.
type RowSelector interface {
	Kind() SelectorKind
	RowCount() int
	Descriptor(row int) RowDescriptor

	// filtered clones the selector keeping only the given row positions,
	// preserving the concrete variant. Used by table transforms.
	filtered(keep []int) RowSelector
}

// TimestampSelector defines one nominal row per timestamp.
type TimestampSelector struct {
	timestamps []timeframe.Index
	tf         *timeframe.TimeFrame
}

// NewTimestampSelector copies the given timestamps into an immutable
// selector. The TimeFrame gives the index space the timestamps live in.
func NewTimestampSelector(timestamps []timeframe.Index, tf *timeframe.TimeFrame) *TimestampSelector {
	copied := make([]timeframe.Index, len(timestamps))
	copy(copied, timestamps)
	return &TimestampSelector{timestamps: copied, tf: tf}
}

func (s *TimestampSelector) Kind() SelectorKind               { return SelectorTimestamp }
func (s *TimestampSelector) RowCount() int                    { return len(s.timestamps) }
func (s *TimestampSelector) Timestamps() []timeframe.Index    { return s.timestamps }
func (s *TimestampSelector) TimeFrame() *timeframe.TimeFrame  { return s.tf }

func (s *TimestampSelector) Descriptor(row int) RowDescriptor {
	if row < 0 || row >= len(s.timestamps) {
		return nil
	}
	return TimestampDescriptor{Timestamp: s.timestamps[row], Entity: -1}
}

func (s *TimestampSelector) filtered(keep []int) RowSelector {
	out := make([]timeframe.Index, 0, len(keep))
	for _, k := range keep {
		if k >= 0 && k < len(s.timestamps) {
			out = append(out, s.timestamps[k])
		}
	}
	return &TimestampSelector{timestamps: out, tf: s.tf}
}

// IntervalSelector defines one row per index interval.
type IntervalSelector struct {
	intervals []timeframe.Interval
	tf        *timeframe.TimeFrame
}

// NewIntervalSelector copies the given intervals into an immutable selector.
func NewIntervalSelector(intervals []timeframe.Interval, tf *timeframe.TimeFrame) *IntervalSelector {
	copied := make([]timeframe.Interval, len(intervals))
	copy(copied, intervals)
	return &IntervalSelector{intervals: copied, tf: tf}
}

func (s *IntervalSelector) Kind() SelectorKind              { return SelectorInterval }
func (s *IntervalSelector) RowCount() int                   { return len(s.intervals) }
func (s *IntervalSelector) Intervals() []timeframe.Interval { return s.intervals }
func (s *IntervalSelector) TimeFrame() *timeframe.TimeFrame { return s.tf }

func (s *IntervalSelector) Descriptor(row int) RowDescriptor {
	if row < 0 || row >= len(s.intervals) {
		return nil
	}
	return IntervalDescriptor{Interval: s.intervals[row]}
}

func (s *IntervalSelector) filtered(keep []int) RowSelector {
	out := make([]timeframe.Interval, 0, len(keep))
	for _, k := range keep {
		if k >= 0 && k < len(s.intervals) {
			out = append(out, s.intervals[k])
		}
	}
	return &IntervalSelector{intervals: out, tf: s.tf}
}

// IndexSelector defines one row per raw integer index, with no TimeFrame
// attached. Transforms build their output tables over index selectors.
type IndexSelector struct {
	indices []int
}

// NewIndexSelector copies the given indices into an immutable selector.
func NewIndexSelector(indices []int) *IndexSelector {
	copied := make([]int, len(indices))
	copy(copied, indices)
	return &IndexSelector{indices: copied}
}

// NewRangeSelector is an IndexSelector over 0..n-1.
func NewRangeSelector(n int) *IndexSelector {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return &IndexSelector{indices: indices}
}

func (s *IndexSelector) Kind() SelectorKind { return SelectorIndex }
func (s *IndexSelector) RowCount() int      { return len(s.indices) }
func (s *IndexSelector) Indices() []int     { return s.indices }

func (s *IndexSelector) Descriptor(row int) RowDescriptor {
	if row < 0 || row >= len(s.indices) {
		return nil
	}
	return IndexDescriptor{Index: s.indices[row]}
}

func (s *IndexSelector) filtered(keep []int) RowSelector {
	out := make([]int, 0, len(keep))
	for _, k := range keep {
		if k >= 0 && k < len(s.indices) {
			out = append(out, s.indices[k])
		}
	}
	return &IndexSelector{indices: out}
}

// FilterSelector returns a new selector of the same concrete variant
// containing only the kept row positions, in order.
func FilterSelector(sel RowSelector, keep []int) RowSelector {
	return sel.filtered(keep)
}
