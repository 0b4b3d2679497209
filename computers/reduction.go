// Package computers holds the built-in column computers and their registry
// registrations: interval reductions and properties, event aggregation,
// interval overlap analysis, timestamp sampling, and the multi-output line
// and offset samplers.
package computers

import (
	"math"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// ReductionKind selects the aggregation IntervalReduction applies to the
// samples inside each row interval.
type ReductionKind int

const (
	ReductionMean ReductionKind = iota
	ReductionMax
	ReductionMin
	ReductionSum
	ReductionStdDev
	ReductionCount
)

func (k ReductionKind) String() string {
	switch k {
	case ReductionMean:
		return "mean"
	case ReductionMax:
		return "max"
	case ReductionMin:
		return "min"
	case ReductionSum:
		return "sum"
	case ReductionStdDev:
		return "stddev"
	default:
		return "count"
	}
}

// IntervalReduction aggregates analog samples over each row interval.
// Empty intervals produce NaN, except count which produces 0.
type IntervalReduction struct {
	analog source.AnalogSource
	kind   ReductionKind
}

// NewIntervalReduction builds a reduction over an analog source.
func NewIntervalReduction(analog source.AnalogSource, kind ReductionKind) (*IntervalReduction, error) {
	if analog == nil {
		return nil, errors.NewConfigurationError("interval reduction requires an analog source")
	}
	return &IntervalReduction{analog: analog, kind: kind}, nil
}

func (c *IntervalReduction) Compute(plan *table.ExecutionPlan) ([]float64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("IntervalReduction", "intervals")
	}

	intervals := plan.Intervals()
	out := make([]float64, len(intervals))
	for i, iv := range intervals {
		data := c.analog.DataInRange(iv.Start, iv.End, plan.TimeFrame())
		out[i] = reduce(data, c.kind)
	}
	return out, nil
}

func (c *IntervalReduction) SourceDependency() string { return c.analog.Name() }
func (c *IntervalReduction) Dependencies() []string   { return nil }

func reduce(data []float64, kind ReductionKind) float64 {
	if kind == ReductionCount {
		return float64(len(data))
	}
	if len(data) == 0 {
		return math.NaN()
	}

	switch kind {
	case ReductionMax:
		max := data[0]
		for _, v := range data[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case ReductionMin:
		min := data[0]
		for _, v := range data[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case ReductionSum:
		return sum(data)
	case ReductionStdDev:
		if len(data) == 1 {
			return 0
		}
		mean := sum(data) / float64(len(data))
		var sq float64
		for _, v := range data {
			d := v - mean
			sq += d * d
		}
		// Sample standard deviation.
		return math.Sqrt(sq / float64(len(data)-1))
	default:
		return sum(data) / float64(len(data))
	}
}

func sum(data []float64) float64 {
	var s float64
	for _, v := range data {
		s += v
	}
	return s
}
