package computers

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

// OverlapKind selects how IntervalOverlap relates each row interval to the
// source's column intervals.
type OverlapKind int

const (
	// OverlapAssignID reports the index of the overlapping column interval,
	// -1 when none. When several candidates qualify the last one in scan
	// order wins.
	OverlapAssignID OverlapKind = iota
	// OverlapCount reports how many column intervals overlap the row.
	OverlapCount
	// OverlapAssignStart reports the overlapping column interval's start,
	// expressed in the plan's timeframe.
	OverlapAssignStart
	// OverlapAssignEnd reports the overlapping column interval's end,
	// expressed in the plan's timeframe.
	OverlapAssignEnd
)

func (k OverlapKind) isAssign() bool { return k != OverlapCount }

// IntervalOverlap relates row intervals to a second set of intervals from an
// IntervalSource. Overlap is decided in absolute time so the two interval
// sets may live in different timeframes.
type IntervalOverlap struct {
	intervals source.IntervalSource
	kind      OverlapKind
}

// NewIntervalOverlap builds an overlap analyzer over an interval source.
func NewIntervalOverlap(intervals source.IntervalSource, kind OverlapKind) (*IntervalOverlap, error) {
	if intervals == nil {
		return nil, errors.NewConfigurationError("interval overlap requires an interval source")
	}
	return &IntervalOverlap{intervals: intervals, kind: kind}, nil
}

func (c *IntervalOverlap) Compute(plan *table.ExecutionPlan) ([]int64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("IntervalOverlap", "intervals")
	}

	rows := plan.Intervals()
	planTF := plan.TimeFrame()
	srcTF := c.intervals.TimeFrame()

	out := make([]int64, len(rows))
	if c.kind.isAssign() {
		for i, row := range rows {
			candidates := c.intervals.IntervalsInRange(0, row.End, planTF)
			if len(candidates) == 0 {
				out[i] = -1
				continue
			}
			last := candidates[len(candidates)-1]
			if !overlapsInTime(last, row, srcTF, planTF) {
				out[i] = -1
				continue
			}
			switch c.kind {
			case OverlapAssignStart:
				out[i] = int64(indexAtTime(planTF, timeAtIndex(srcTF, last.Start)))
			case OverlapAssignEnd:
				out[i] = int64(indexAtTime(planTF, timeAtIndex(srcTF, last.End)))
			default:
				out[i] = int64(len(candidates) - 1)
			}
		}
		return out, nil
	}

	for i, row := range rows {
		candidates := c.intervals.IntervalsInRange(row.Start, row.End, planTF)
		var n int64
		for _, cand := range candidates {
			if overlapsInTime(cand, row, srcTF, planTF) {
				n++
			}
		}
		out[i] = n
	}
	return out, nil
}

func (c *IntervalOverlap) SourceDependency() string { return c.intervals.Name() }
func (c *IntervalOverlap) Dependencies() []string   { return nil }

// EntityStructure is Simple for the assign operations (the one chosen
// interval per row) and Complex for counting (every overlapping interval).
func (c *IntervalOverlap) EntityStructure() source.EntityStructure {
	if c.kind.isAssign() {
		return source.EntityStructureSimple
	}
	return source.EntityStructureComplex
}

func (c *IntervalOverlap) ComputeEntityIDs(plan *table.ExecutionPlan) (table.ColumnEntityIDs, error) {
	if !plan.HasIntervals() {
		return table.ColumnEntityIDs{}, errors.NewPlanMismatchError("IntervalOverlap", "intervals")
	}

	rows := plan.Intervals()
	planTF := plan.TimeFrame()
	srcTF := c.intervals.TimeFrame()

	if c.kind.isAssign() {
		ids := make([]source.EntityID, len(rows))
		for i, row := range rows {
			candidates := c.intervals.IntervalsInRange(0, row.End, planTF)
			candidateIDs := c.intervals.EntityIDsInRange(0, row.End, planTF)
			if len(candidates) == 0 {
				continue
			}
			last := candidates[len(candidates)-1]
			if overlapsInTime(last, row, srcTF, planTF) && len(candidateIDs) == len(candidates) {
				ids[i] = candidateIDs[len(candidateIDs)-1]
			}
		}
		return table.ColumnEntityIDs{Structure: source.EntityStructureSimple, Simple: ids}, nil
	}

	ids := make([][]source.EntityID, len(rows))
	for i, row := range rows {
		candidates := c.intervals.IntervalsInRange(row.Start, row.End, planTF)
		candidateIDs := c.intervals.EntityIDsInRange(row.Start, row.End, planTF)
		var cell []source.EntityID
		for j, cand := range candidates {
			if !overlapsInTime(cand, row, srcTF, planTF) {
				continue
			}
			if j < len(candidateIDs) && candidateIDs[j] != 0 {
				cell = append(cell, candidateIDs[j])
			}
		}
		ids[i] = cell
	}
	return table.ColumnEntityIDs{Structure: source.EntityStructureComplex, Complex: ids}, nil
}

// overlapsInTime compares a source-frame interval and a plan-frame interval
// in absolute time. A nil frame is treated as identity, matching the nil
// dest handling in the source range accessors.
func overlapsInTime(src, row timeframe.Interval, srcTF, planTF *timeframe.TimeFrame) bool {
	srcStart := timeAtIndex(srcTF, src.Start)
	srcEnd := timeAtIndex(srcTF, src.End)
	rowStart := timeAtIndex(planTF, row.Start)
	rowEnd := timeAtIndex(planTF, row.End)
	return srcStart <= rowEnd && rowStart <= srcEnd
}

func timeAtIndex(tf *timeframe.TimeFrame, idx timeframe.Index) float64 {
	if tf == nil {
		return float64(idx)
	}
	return tf.TimeAtIndex(idx)
}

func indexAtTime(tf *timeframe.TimeFrame, t float64) timeframe.Index {
	if tf == nil {
		return timeframe.Index(t)
	}
	return tf.IndexAtTime(t)
}
