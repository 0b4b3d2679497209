package computers

import (
	"fmt"
	"math"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// LineSampling samples x and y at equally spaced fractional positions along
// each polyline, producing 2*(segments+1) output columns. Under an
// entity-expanded plan it emits one row per line; under a flat timestamp
// plan it samples the first line at each timestamp. Rows with no line
// (placeholders included) produce NaN.
type LineSampling struct {
	line     source.LineSource
	segments int
}

// NewLineSampling builds a line sampler. segments is clamped to at least 1;
// it divides the line into that many equal segments and samples the
// segments+1 boundary positions.
func NewLineSampling(line source.LineSource, segments int) (*LineSampling, error) {
	if line == nil {
		return nil, errors.NewConfigurationError("line sampling requires a line source")
	}
	if segments < 1 {
		segments = 1
	}
	return &LineSampling{line: line, segments: segments}, nil
}

func (c *LineSampling) positions() []float64 {
	out := make([]float64, c.segments+1)
	for i := range out {
		out[i] = float64(i) / float64(c.segments)
	}
	return out
}

// OutputNames returns ".x@0.000", ".y@0.000", ".x@0.500", ... interleaved
// per sample position.
func (c *LineSampling) OutputNames() []string {
	positions := c.positions()
	out := make([]string, 0, 2*len(positions))
	for _, frac := range positions {
		out = append(out, fmt.Sprintf(".x@%.3f", frac))
		out = append(out, fmt.Sprintf(".y@%.3f", frac))
	}
	return out
}

func (c *LineSampling) ComputeBatch(plan *table.ExecutionPlan) ([][]float64, error) {
	if !plan.HasTimestamps() && !plan.IsExpanded() {
		return nil, errors.NewPlanMismatchError("LineSampling", "timestamps")
	}

	positions := c.positions()
	nOut := 2 * len(positions)

	var rows []table.RowID
	if plan.IsExpanded() {
		rows = plan.Rows()
	} else {
		for _, t := range plan.Timestamps() {
			rows = append(rows, table.RowID{Timestamp: t, Entity: 0})
		}
	}

	out := make([][]float64, nOut)
	for k := range out {
		out[k] = make([]float64, len(rows))
	}

	for r, row := range rows {
		line := c.lineForRow(row)
		for p, frac := range positions {
			x, y := samplePolyline(line, frac)
			out[2*p][r] = x
			out[2*p+1][r] = y
		}
	}
	return out, nil
}

// lineForRow returns the polyline a row refers to, or nil for placeholder
// rows and out-of-range entities.
func (c *LineSampling) lineForRow(row table.RowID) source.Line {
	if row.Entity < 0 {
		return nil
	}
	lines := c.line.LinesAt(row.Timestamp)
	if row.Entity >= len(lines) {
		return nil
	}
	return lines[row.Entity]
}

func (c *LineSampling) SourceDependency() string { return c.line.Name() }
func (c *LineSampling) Dependencies() []string   { return nil }

// EntityStructure is Simple: every output column shares the row's line
// identity.
func (c *LineSampling) EntityStructure() source.EntityStructure {
	return source.EntityStructureSimple
}

func (c *LineSampling) ComputeBatchEntityIDs(plan *table.ExecutionPlan) (table.ColumnEntityIDs, error) {
	if !plan.HasTimestamps() && !plan.IsExpanded() {
		return table.ColumnEntityIDs{}, errors.NewPlanMismatchError("LineSampling", "timestamps")
	}

	var rows []table.RowID
	if plan.IsExpanded() {
		rows = plan.Rows()
	} else {
		for _, t := range plan.Timestamps() {
			rows = append(rows, table.RowID{Timestamp: t, Entity: 0})
		}
	}

	ids := make([]source.EntityID, len(rows))
	for r, row := range rows {
		if row.Entity < 0 {
			continue
		}
		rowIDs := c.line.EntityIDsAt(row.Timestamp)
		if row.Entity < len(rowIDs) {
			ids[r] = rowIDs[row.Entity]
		}
	}
	return table.ColumnEntityIDs{Structure: source.EntityStructureSimple, Simple: ids}, nil
}

// samplePolyline interpolates the point at a fractional position along the
// polyline's arc length. frac is clamped to [0, 1]; an empty line yields
// NaN, a single point its own coordinates.
func samplePolyline(line source.Line, frac float64) (float64, float64) {
	if len(line) == 0 {
		return math.NaN(), math.NaN()
	}
	if len(line) == 1 {
		return line[0].X, line[0].Y
	}
	if frac <= 0 {
		return line[0].X, line[0].Y
	}
	if frac >= 1 {
		last := line[len(line)-1]
		return last.X, last.Y
	}

	total := 0.0
	segLengths := make([]float64, len(line)-1)
	for i := 0; i < len(line)-1; i++ {
		dx := line[i+1].X - line[i].X
		dy := line[i+1].Y - line[i].Y
		segLengths[i] = math.Hypot(dx, dy)
		total += segLengths[i]
	}
	if total == 0 {
		return line[0].X, line[0].Y
	}

	target := frac * total
	for i, segLen := range segLengths {
		if target > segLen {
			target -= segLen
			continue
		}
		t := 0.0
		if segLen > 0 {
			t = target / segLen
		}
		x := line[i].X + t*(line[i+1].X-line[i].X)
		y := line[i].Y + t*(line[i+1].Y-line[i].Y)
		return x, y
	}
	last := line[len(line)-1]
	return last.X, last.Y
}
