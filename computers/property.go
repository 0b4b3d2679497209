package computers

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/table"
)

// PropertyKind selects which boundary of each row interval IntervalProperty
// reports.
type PropertyKind int

const (
	PropertyStart PropertyKind = iota
	PropertyEnd
	PropertyDuration
)

// IntervalProperty reports a structural property of each row interval. It
// reads only the execution plan; the source dependency is carried for plan
// generation and invalidation.
type IntervalProperty struct {
	sourceName string
	kind       PropertyKind
}

// NewIntervalProperty builds a property extractor bound to a source name.
func NewIntervalProperty(sourceName string, kind PropertyKind) *IntervalProperty {
	return &IntervalProperty{sourceName: sourceName, kind: kind}
}

func (c *IntervalProperty) Compute(plan *table.ExecutionPlan) ([]float64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("IntervalProperty", "intervals")
	}

	intervals := plan.Intervals()
	out := make([]float64, len(intervals))
	for i, iv := range intervals {
		switch c.kind {
		case PropertyStart:
			out[i] = float64(iv.Start)
		case PropertyEnd:
			out[i] = float64(iv.End)
		default:
			out[i] = float64(iv.End - iv.Start)
		}
	}
	return out, nil
}

func (c *IntervalProperty) SourceDependency() string { return c.sourceName }
func (c *IntervalProperty) Dependencies() []string   { return nil }
