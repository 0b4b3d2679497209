package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// fixedComputer serves precomputed values for derived-table fixtures.
type fixedComputer struct {
	values []float64
}

func (f *fixedComputer) Compute(plan *table.ExecutionPlan) ([]float64, error) {
	return f.values, nil
}
func (f *fixedComputer) SourceDependency() string { return "" }
func (f *fixedComputer) Dependencies() []string   { return nil }

// fixedIntComputer serves an int64 column.
type fixedIntComputer struct {
	values []int64
}

func (f *fixedIntComputer) Compute(plan *table.ExecutionPlan) ([]int64, error) {
	return f.values, nil
}
func (f *fixedIntComputer) SourceDependency() string { return "" }
func (f *fixedIntComputer) Dependencies() []string   { return nil }

func fixtureTable(t *testing.T, columns map[string][]float64, order []string) *table.TableView {
	t.Helper()
	rows := 0
	for _, v := range columns {
		rows = len(v)
		break
	}
	b := table.NewBuilder(table.NewRangeSelector(rows), source.NewDataset())
	for _, name := range order {
		table.AddColumn[float64](b, name, &fixedComputer{values: columns[name]})
	}
	view, err := b.Build()
	require.NoError(t, err)
	return view
}

func TestPCADropsNonFiniteRowsAndSlicesProvenance(t *testing.T) {
	nan := math.NaN()
	order := []string{"A", "B", "C", "D", "E", "F"}
	view := fixtureTable(t, map[string][]float64{
		"A": {1, 2, nan, 4, 5},
		"B": {2, 4, 6, 8, 10},
		"C": {1, 1, 1, 1, math.Inf(1)},
		"D": {0, 1, 0, 1, 0},
		"E": {5, 4, 3, 2, 1},
		"F": {1, 3, 5, 7, 9},
	}, order)
	view.SetDirectEntityIDs([][]source.EntityID{{11}, {12}, {13}, {14}, {15}})

	out, err := NewPCA(Config{Center: true}).Apply(view)
	require.NoError(t, err)

	// Rows 2 and 4 carry non-finite values.
	assert.Equal(t, 3, out.RowCount())
	assert.Equal(t, [][]source.EntityID{{11}, {12}, {14}}, out.EntityIDs())

	names := out.ColumnNames()
	assert.Equal(t, []string{"PC1", "PC2", "PC3"}, names, "components are capped by the kept row count")
}

func TestPCAWithoutProvenanceStaysWithoutProvenance(t *testing.T) {
	view := fixtureTable(t, map[string][]float64{
		"X": {1, 2, 3},
		"Y": {3, 1, 2},
	}, []string{"X", "Y"})
	require.False(t, view.HasEntityColumn())

	out, err := NewPCA(Config{Center: true}).Apply(view)
	require.NoError(t, err)

	assert.False(t, out.HasEntityColumn(), "no EntityID override without source provenance")
	assert.Empty(t, out.RowEntityIDs(0))
}

func TestPCAProjectsOntoPrincipalAxis(t *testing.T) {
	// Perfectly correlated features: all variance lives on one axis.
	view := fixtureTable(t, map[string][]float64{
		"X": {1, 2, 3, 4},
		"Y": {2, 4, 6, 8},
	}, []string{"X", "Y"})

	out, err := NewPCA(Config{Center: true}).Apply(view)
	require.NoError(t, err)

	pc1, err := table.Values[float64](out, "PC1")
	require.NoError(t, err)
	pc2, err := table.Values[float64](out, "PC2")
	require.NoError(t, err)
	require.Len(t, pc1, 4)

	// PC1 spacing is uniform, matching the underlying line.
	step := pc1[1] - pc1[0]
	for i := 1; i < len(pc1); i++ {
		assert.InDelta(t, step, pc1[i]-pc1[i-1], 1e-9)
	}
	assert.InDelta(t, math.Sqrt(5), math.Abs(step), 1e-9)

	// The orthogonal component carries no variance.
	for _, v := range pc2 {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestPCAIncludeExcludeFilters(t *testing.T) {
	view := fixtureTable(t, map[string][]float64{
		"A": {1, 2, 3},
		"B": {3, 2, 1},
		"C": {0, 1, 0},
	}, []string{"A", "B", "C"})

	out, err := NewPCA(Config{Include: []string{"A", "B"}, Center: true}).Apply(view)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC1", "PC2"}, out.ColumnNames())

	out, err = NewPCA(Config{Exclude: []string{"C"}, Center: true}).Apply(view)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC1", "PC2"}, out.ColumnNames())

	_, err = NewPCA(Config{Include: []string{"Missing"}}).Apply(view)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrColumnNotFound))
}

func TestPCASkipsNonFloatColumns(t *testing.T) {
	b := table.NewBuilder(table.NewRangeSelector(3), source.NewDataset())
	table.AddColumn[float64](b, "F", &fixedComputer{values: []float64{1, 2, 3}})
	table.AddColumn[float64](b, "G", &fixedComputer{values: []float64{3, 1, 2}})
	table.AddColumn[int64](b, "N", &fixedIntComputer{values: []int64{7, 8, 9}})
	view, err := b.Build()
	require.NoError(t, err)

	out, err := NewPCA(Config{Center: true}).Apply(view)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC1", "PC2"}, out.ColumnNames(), "integer columns stay out of the feature set")
}

func TestPCAStandardizeEqualizesScales(t *testing.T) {
	view := fixtureTable(t, map[string][]float64{
		"Small": {1, 2, 3, 4},
		"Big":   {1000, 2000, 3000, 4000},
	}, []string{"Small", "Big"})

	out, err := NewPCA(Config{Center: true, Standardize: true}).Apply(view)
	require.NoError(t, err)

	pc1, err := table.Values[float64](out, "PC1")
	require.NoError(t, err)
	pc2, err := table.Values[float64](out, "PC2")
	require.NoError(t, err)

	// After standardization the two features are identical, so PC2 is null.
	for _, v := range pc2 {
		assert.InDelta(t, 0, v, 1e-9)
	}
	assert.NotEqual(t, 0.0, pc1[0])
}

func TestPCARejectsEmptyInput(t *testing.T) {
	nan := math.NaN()
	view := fixtureTable(t, map[string][]float64{"A": {nan, nan}}, []string{"A"})

	_, err := NewPCA(Config{}).Apply(view)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	_, err = NewPCA(Config{}).Apply(nil)
	assert.True(t, errors.IsConfiguration(err))
}
