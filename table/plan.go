package table

import (
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/timeframe"
)

// RowID identifies one expanded row: a timestamp plus the item index within
// that timestamp. Entity is -1 for placeholder rows emitted when a timestamp
// holds no items but the table still needs the row.
type RowID struct {
	Timestamp timeframe.Index
	Entity    int
}

// Span is a contiguous [Start, Start+Count) range of expanded row positions
// belonging to one timestamp.
type Span struct {
	Start int
	Count int
}

// ExecutionPlan is the concrete, source-bound realization of a RowSelector.
// It is immutable once generated, owned and cached by the TableView keyed by
// source name, and regenerated only after ClearCache.
type ExecutionPlan struct {
	timestamps []timeframe.Index
	intervals  []timeframe.Interval
	indices    []int
	tf         *timeframe.TimeFrame

	// Entity expansion bookkeeping; empty for non-expanded plans.
	rows  []RowID
	spans map[timeframe.Index]Span

	sourceName string
	sourceKind source.Kind
}

// NewIntervalPlan builds a standalone interval plan. The orchestrator
// generates plans itself; this constructor serves direct computer use and
// tests.
func NewIntervalPlan(intervals []timeframe.Interval, tf *timeframe.TimeFrame) *ExecutionPlan {
	copied := make([]timeframe.Interval, len(intervals))
	copy(copied, intervals)
	return &ExecutionPlan{intervals: copied, tf: tf}
}

// NewTimestampPlan builds a standalone timestamp plan.
func NewTimestampPlan(timestamps []timeframe.Index, tf *timeframe.TimeFrame) *ExecutionPlan {
	copied := make([]timeframe.Index, len(timestamps))
	copy(copied, timestamps)
	return &ExecutionPlan{timestamps: copied, tf: tf}
}

// HasTimestamps reports whether the plan carries timestamp rows.
func (p *ExecutionPlan) HasTimestamps() bool { return len(p.timestamps) > 0 }

// HasIntervals reports whether the plan carries interval rows.
func (p *ExecutionPlan) HasIntervals() bool { return len(p.intervals) > 0 }

// HasIndices reports whether the plan carries raw index rows.
func (p *ExecutionPlan) HasIndices() bool { return len(p.indices) > 0 }

// IsExpanded reports whether the plan carries entity-expanded rows.
func (p *ExecutionPlan) IsExpanded() bool { return len(p.rows) > 0 }

// Timestamps returns the plan's timestamps.
func (p *ExecutionPlan) Timestamps() []timeframe.Index { return p.timestamps }

// Intervals returns the plan's intervals.
func (p *ExecutionPlan) Intervals() []timeframe.Interval { return p.intervals }

// Indices returns the plan's raw indices.
func (p *ExecutionPlan) Indices() []int { return p.indices }

// TimeFrame returns the index space the plan's rows live in. May be nil for
// raw index plans.
func (p *ExecutionPlan) TimeFrame() *timeframe.TimeFrame { return p.tf }

// Rows returns the entity-expanded rows, or nil for non-expanded plans.
func (p *ExecutionPlan) Rows() []RowID { return p.rows }

// SpanAt returns the expanded row span for a timestamp.
func (p *ExecutionPlan) SpanAt(t timeframe.Index) (Span, bool) {
	s, ok := p.spans[t]
	return s, ok
}

// SourceName returns the data source name the plan was generated for; ""
// for selector-only fallback plans.
func (p *ExecutionPlan) SourceName() string { return p.sourceName }

// SourceKind returns the resolved source kind; KindUnknown for selector-only
// fallback plans.
func (p *ExecutionPlan) SourceKind() source.Kind { return p.sourceKind }

// RowCount returns the number of rows the plan defines: the expanded row
// count when entity expansion applies, otherwise the nominal selector entry
// count.
func (p *ExecutionPlan) RowCount() int {
	if len(p.rows) > 0 {
		return len(p.rows)
	}
	if len(p.intervals) > 0 {
		return len(p.intervals)
	}
	if len(p.timestamps) > 0 {
		return len(p.timestamps)
	}
	return len(p.indices)
}
