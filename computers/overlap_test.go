package computers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

func overlapFixture(t *testing.T) (source.IntervalSource, *table.ExecutionPlan) {
	t.Helper()
	tf := timeframe.NewIdentity(100)
	ivs := source.NewIntervalSeries("Epochs",
		[]timeframe.Interval{iv(10, 20), iv(30, 40), iv(35, 50)},
		[]source.EntityID{101, 102, 103},
		tf)
	plan := table.NewIntervalPlan([]timeframe.Interval{
		iv(12, 15), // inside the first epoch
		iv(32, 37), // overlaps the second and third epochs
		iv(60, 70), // past every epoch
		iv(0, 5),   // before every epoch
	}, tf)
	return ivs, plan
}

func TestIntervalOverlapAssignID(t *testing.T) {
	ivs, plan := overlapFixture(t)
	c, err := NewIntervalOverlap(ivs, OverlapAssignID)
	require.NoError(t, err)

	got, err := c.Compute(plan)
	require.NoError(t, err)
	// With two qualifying epochs for the second row, the last one in scan
	// order wins.
	assert.Equal(t, []int64{0, 2, -1, -1}, got)

	assert.Equal(t, source.EntityStructureSimple, c.EntityStructure())
	ids, err := c.ComputeEntityIDs(plan)
	require.NoError(t, err)
	assert.Equal(t, []source.EntityID{101, 103, 0, 0}, ids.Simple)
}

func TestIntervalOverlapAssignBounds(t *testing.T) {
	ivs, plan := overlapFixture(t)

	start, err := NewIntervalOverlap(ivs, OverlapAssignStart)
	require.NoError(t, err)
	got, err := start.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 35, -1, -1}, got)

	end, err := NewIntervalOverlap(ivs, OverlapAssignEnd)
	require.NoError(t, err)
	got, err = end.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{20, 50, -1, -1}, got)
}

func TestIntervalOverlapCount(t *testing.T) {
	ivs, plan := overlapFixture(t)
	c, err := NewIntervalOverlap(ivs, OverlapCount)
	require.NoError(t, err)

	got, err := c.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 0, 0}, got)

	assert.Equal(t, source.EntityStructureComplex, c.EntityStructure())
	ids, err := c.ComputeEntityIDs(plan)
	require.NoError(t, err)
	require.Len(t, ids.Complex, 4)
	assert.Equal(t, []source.EntityID{101}, ids.Complex[0])
	assert.Equal(t, []source.EntityID{102, 103}, ids.Complex[1])
	assert.Empty(t, ids.Complex[2])
	assert.Empty(t, ids.Complex[3])
}

func TestIntervalOverlapCrossTimeframe(t *testing.T) {
	// Epochs on a coarse clock: index i maps to time 10*i.
	coarse, err := timeframe.New([]float64{0, 10, 20, 30, 40, 50})
	require.NoError(t, err)
	fine := timeframe.NewIdentity(60)

	ivs := source.NewIntervalSeries("Epochs",
		[]timeframe.Interval{iv(1, 2)}, // times 10..20
		[]source.EntityID{7},
		coarse)
	plan := table.NewIntervalPlan([]timeframe.Interval{iv(12, 18), iv(30, 35)}, fine)

	c, err := NewIntervalOverlap(ivs, OverlapAssignID)
	require.NoError(t, err)
	got, err := c.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, -1}, got, "overlap is decided in absolute time")
}

func TestIntervalOverlapNilPlanTimeframe(t *testing.T) {
	// Inline interval selectors without a timeframe key produce plans whose
	// frame is nil; indices then stand in for absolute time.
	ivs := source.NewIntervalSeries("Epochs",
		[]timeframe.Interval{iv(10, 20), iv(30, 40)},
		[]source.EntityID{101, 102},
		timeframe.NewIdentity(100))
	plan := table.NewIntervalPlan([]timeframe.Interval{iv(12, 15), iv(60, 70)}, nil)

	c, err := NewIntervalOverlap(ivs, OverlapAssignID)
	require.NoError(t, err)
	got, err := c.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, -1}, got)

	ids, err := c.ComputeEntityIDs(plan)
	require.NoError(t, err)
	assert.Equal(t, []source.EntityID{101, 0}, ids.Simple)

	start, err := NewIntervalOverlap(ivs, OverlapAssignStart)
	require.NoError(t, err)
	got, err = start.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, -1}, got)

	count, err := NewIntervalOverlap(ivs, OverlapCount)
	require.NoError(t, err)
	got, err = count.Compute(plan)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0}, got)
}

func TestIntervalOverlapPlanMismatch(t *testing.T) {
	ivs, _ := overlapFixture(t)
	c, err := NewIntervalOverlap(ivs, OverlapAssignID)
	require.NoError(t, err)

	_, err = c.Compute(table.NewTimestampPlan([]timeframe.Index{0}, timeframe.NewIdentity(10)))
	assert.True(t, errors.IsPlanMismatch(err))

	_, err = NewIntervalOverlap(nil, OverlapAssignID)
	assert.True(t, errors.IsConfiguration(err))
}
