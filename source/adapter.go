package source

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/timeframe"
)

// PointAxis selects which coordinate a PointComponent adapter extracts.
type PointAxis int

const (
	AxisX PointAxis = iota
	AxisY
)

func (a PointAxis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// PointComponent exposes one coordinate axis of a point store as an
// analog-like source, so computers written against AnalogSource can run over
// point data. Each timestamp contributes the first point's coordinate;
// timestamps without points contribute nothing.
type PointComponent struct {
	name   string
	points PointSource
	axis   PointAxis
}

// NewPointComponent wraps a point source. The conventional name is
// "<points>.<axis>", e.g. "Whisker.x".
func NewPointComponent(name string, points PointSource, axis PointAxis) (*PointComponent, error) {
	if points == nil {
		return nil, errors.NewConfigurationError("point component adapter requires a point source")
	}
	if name == "" {
		name = points.Name() + "." + axis.String()
	}
	return &PointComponent{name: name, points: points, axis: axis}, nil
}

func (p *PointComponent) Name() string                    { return p.name }
func (p *PointComponent) TimeFrame() *timeframe.TimeFrame { return p.points.TimeFrame() }

func (p *PointComponent) NumSamples() int {
	return len(p.points.Timestamps())
}

func (p *PointComponent) DataInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []float64 {
	own := p.points.TimeFrame()
	if dest != nil {
		start = dest.ConvertIndex(start, own)
		end = dest.ConvertIndex(end, own)
	}
	var out []float64
	for _, t := range p.points.Timestamps() {
		if t < start || t > end {
			continue
		}
		pts := p.points.PointsAt(t)
		if len(pts) == 0 {
			continue
		}
		if p.axis == AxisY {
			out = append(out, pts[0].Y)
		} else {
			out = append(out, pts[0].X)
		}
	}
	return out
}
