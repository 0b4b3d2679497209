package computers

import (
	"math"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// TimestampValue samples one analog value at each row timestamp. Timestamps
// with no sample produce NaN.
type TimestampValue struct {
	analog source.AnalogSource
}

// NewTimestampValue builds a point sampler over an analog source.
func NewTimestampValue(analog source.AnalogSource) (*TimestampValue, error) {
	if analog == nil {
		return nil, errors.NewConfigurationError("timestamp value requires an analog source")
	}
	return &TimestampValue{analog: analog}, nil
}

func (c *TimestampValue) Compute(plan *table.ExecutionPlan) ([]float64, error) {
	if !plan.HasTimestamps() {
		return nil, errors.NewPlanMismatchError("TimestampValue", "timestamps")
	}

	timestamps := plan.Timestamps()
	out := make([]float64, len(timestamps))
	for i, t := range timestamps {
		data := c.analog.DataInRange(t, t, plan.TimeFrame())
		if len(data) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = data[0]
	}
	return out, nil
}

func (c *TimestampValue) SourceDependency() string { return c.analog.Name() }
func (c *TimestampValue) Dependencies() []string   { return nil }

// TimestampInInterval reports whether each row timestamp lies inside any
// interval of the source.
type TimestampInInterval struct {
	intervals source.IntervalSource
}

// NewTimestampInInterval builds a containment test over an interval source.
func NewTimestampInInterval(intervals source.IntervalSource) (*TimestampInInterval, error) {
	if intervals == nil {
		return nil, errors.NewConfigurationError("timestamp in interval requires an interval source")
	}
	return &TimestampInInterval{intervals: intervals}, nil
}

func (c *TimestampInInterval) Compute(plan *table.ExecutionPlan) ([]bool, error) {
	if !plan.HasTimestamps() {
		return nil, errors.NewPlanMismatchError("TimestampInInterval", "timestamps")
	}

	timestamps := plan.Timestamps()
	out := make([]bool, len(timestamps))
	for i, t := range timestamps {
		out[i] = len(c.intervals.IntervalsInRange(t, t, plan.TimeFrame())) > 0
	}
	return out, nil
}

func (c *TimestampInInterval) SourceDependency() string { return c.intervals.Name() }
func (c *TimestampInInterval) Dependencies() []string   { return nil }

// AnalogSliceGatherer collects the raw sample slice of each row interval as a
// vector cell.
type AnalogSliceGatherer struct {
	analog source.AnalogSource
}

// NewAnalogSliceGatherer builds a slice gatherer over an analog source.
func NewAnalogSliceGatherer(analog source.AnalogSource) (*AnalogSliceGatherer, error) {
	if analog == nil {
		return nil, errors.NewConfigurationError("analog slice gatherer requires an analog source")
	}
	return &AnalogSliceGatherer{analog: analog}, nil
}

func (c *AnalogSliceGatherer) Compute(plan *table.ExecutionPlan) ([][]float64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("AnalogSliceGatherer", "intervals")
	}

	intervals := plan.Intervals()
	out := make([][]float64, len(intervals))
	for i, iv := range intervals {
		data := c.analog.DataInRange(iv.Start, iv.End, plan.TimeFrame())
		if data == nil {
			data = []float64{}
		}
		out[i] = data
	}
	return out, nil
}

func (c *AnalogSliceGatherer) SourceDependency() string { return c.analog.Name() }
func (c *AnalogSliceGatherer) Dependencies() []string   { return nil }
