package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

type fixedColumn[T table.Element] struct {
	values []T
}

func (f *fixedColumn[T]) Compute(plan *table.ExecutionPlan) ([]T, error) {
	return f.values, nil
}
func (f *fixedColumn[T]) SourceDependency() string { return "" }
func (f *fixedColumn[T]) Dependencies() []string   { return nil }

func exportFixture(t *testing.T) *table.TableView {
	t.Helper()
	b := table.NewBuilder(table.NewRangeSelector(3), source.NewDataset())
	table.AddColumn[float64](b, "Mean", &fixedColumn[float64]{values: []float64{1.5, 2.5, 3.5}})
	table.AddColumn[int64](b, "Count", &fixedColumn[int64]{values: []int64{4, 0, 2}})
	table.AddColumn[bool](b, "Active", &fixedColumn[bool]{values: []bool{true, false, true}})
	table.AddColumn[[]float64](b, "Samples", &fixedColumn[[]float64]{
		values: [][]float64{{1, 2}, {}, {3, 4, 5}},
	})
	view, err := b.Build()
	require.NoError(t, err)
	return view
}

func TestToArrow(t *testing.T) {
	view := exportFixture(t)

	rec, err := ToArrow(view)
	require.NoError(t, err)
	defer rec.Release()

	assert.EqualValues(t, 3, rec.NumRows())
	assert.EqualValues(t, 4, rec.NumCols())

	schema := rec.Schema()
	assert.Equal(t, "Mean", schema.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(2).Type)
	assert.Equal(t, arrow.ListOf(arrow.PrimitiveTypes.Float64), schema.Field(3).Type)

	mean := rec.Column(0).(*array.Float64)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, mean.Float64Values())

	count := rec.Column(1).(*array.Int64)
	assert.Equal(t, []int64{4, 0, 2}, count.Int64Values())

	active := rec.Column(2).(*array.Boolean)
	assert.True(t, active.Value(0))
	assert.False(t, active.Value(1))

	samples := rec.Column(3).(*array.List)
	values := samples.ListValues().(*array.Float64)
	start, end := samples.ValueOffsets(2)
	assert.EqualValues(t, 2, start)
	assert.EqualValues(t, 5, end)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, values.Float64Values())
}

func TestToArrowNilTable(t *testing.T) {
	_, err := ToArrow(nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestWriteParquet(t *testing.T) {
	view := exportFixture(t)
	path := filepath.Join(t.TempDir(), "trials.parquet")

	require.NoError(t, WriteParquet(view, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
