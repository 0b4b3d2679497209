package computers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

func TestAnalogTimestampOffsets(t *testing.T) {
	tf := timeframe.NewIdentity(10)
	analog := source.NewAnalogSeries("Signal", []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, tf)

	c, err := NewAnalogTimestampOffsets(analog, []int{-1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{".t-1", ".t+0", ".t+1"}, c.OutputNames())

	plan := table.NewTimestampPlan([]timeframe.Index{1, 5}, tf)
	got, err := c.ComputeBatch(plan)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{0, 40}, got[0])
	assert.Equal(t, []float64{10, 50}, got[1])
	assert.Equal(t, []float64{20, 60}, got[2])
}

func TestAnalogTimestampOffsetsDefaults(t *testing.T) {
	tf := timeframe.NewIdentity(5)
	analog := source.NewAnalogSeries("Signal", []float64{1, 2, 3, 4, 5}, tf)

	c, err := NewAnalogTimestampOffsets(analog, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".t+0"}, c.OutputNames())
}

func TestParseOffsets(t *testing.T) {
	assert.Equal(t, []int{-2, -1, 0, 1}, ParseOffsets("-2,-1,0,1"))
	assert.Equal(t, []int{-2, 3}, ParseOffsets(" -2 , 3 "))
	assert.Equal(t, []int{0}, ParseOffsets(""))
	assert.Equal(t, []int{0, 5}, ParseOffsets("junk,5"))
	assert.Equal(t, []string{".t+0"}, OffsetSuffixes(nil))
}

func TestLineSamplingFlatPlan(t *testing.T) {
	tf := timeframe.NewIdentity(3)
	lines := source.NewLineSeries("TestLines", tf)
	straight := source.Line{{X: 0, Y: 0}, {X: 10, Y: 0}}
	for _, ts := range []timeframe.Index{0, 1, 2} {
		lines.SetLinesAt(ts, []source.Line{straight}, nil)
	}

	c, err := NewLineSampling(lines, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{".x@0.000", ".y@0.000", ".x@0.500", ".y@0.500", ".x@1.000", ".y@1.000"}, c.OutputNames())

	plan := table.NewTimestampPlan([]timeframe.Index{0, 1, 2}, tf)
	got, err := c.ComputeBatch(plan)
	require.NoError(t, err)
	require.Len(t, got, 6)

	assert.Equal(t, []float64{0, 0, 0}, got[0])   // x@0.000
	assert.Equal(t, []float64{5, 5, 5}, got[2])   // x@0.500
	assert.Equal(t, []float64{10, 10, 10}, got[4]) // x@1.000
	for _, yCol := range [][]float64{got[1], got[3], got[5]} {
		assert.Equal(t, []float64{0, 0, 0}, yCol)
	}
}

func TestLineSamplingExpandedPlan(t *testing.T) {
	tf := timeframe.NewIdentity(10)
	ds := source.NewDataset()
	lines, err := ds.AddLines("Whiskers", tf)
	require.NoError(t, err)
	lines.SetLinesAt(2, []source.Line{
		{{X: 0, Y: 0}, {X: 10, Y: 0}},
		{{X: 0, Y: 0}, {X: 0, Y: 4}},
	}, []source.EntityID{21, 22})
	lines.SetLinesAt(5, []source.Line{
		{{X: 1, Y: 1}, {X: 3, Y: 1}},
	}, []source.EntityID{23})

	sel := table.NewTimestampSelector([]timeframe.Index{2, 5}, tf)
	b := table.NewBuilder(sel, ds)
	c, err := NewLineSampling(lines, 2)
	require.NoError(t, err)
	table.AddColumns[float64](b, "Line", c)
	view, err := b.Build()
	require.NoError(t, err)

	// 2 lines at t=2 plus 1 line at t=5.
	assert.Equal(t, 3, view.RowCount())

	xMid, err := table.Values[float64](view, "Line.x@0.500")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 0, 2}, xMid)

	yMid, err := table.Values[float64](view, "Line.y@0.500")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 1}, yMid)

	// Row provenance follows each row's own line.
	assert.Equal(t, []source.EntityID{21}, view.RowEntityIDs(0))
	assert.Equal(t, []source.EntityID{22}, view.RowEntityIDs(1))
	assert.Equal(t, []source.EntityID{23}, view.RowEntityIDs(2))
}

func TestSamplePolyline(t *testing.T) {
	bent := source.Line{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}

	x, y := samplePolyline(bent, 0.25)
	assert.InDelta(t, 2.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)

	x, y = samplePolyline(bent, 0.75)
	assert.InDelta(t, 4.0, x, 1e-9)
	assert.InDelta(t, 2.0, y, 1e-9)

	x, y = samplePolyline(bent, 1)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 4.0, y)

	x, y = samplePolyline(nil, 0.5)
	assert.True(t, math.IsNaN(x))
	assert.True(t, math.IsNaN(y))

	x, y = samplePolyline(source.Line{{X: 3, Y: 7}}, 0.9)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 7.0, y)
}
