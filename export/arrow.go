// Package export converts materialized tables into Apache Arrow records for
// interchange with external tooling (Parquet files, dataframe libraries).
package export

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/table"
)

// ToArrow materializes every column of a table and assembles an Arrow record.
// The element type list is closed, so the mapping is exhaustive: float64,
// int64 and bool columns map to their primitive Arrow types, vector columns
// to list<float64>. The caller releases the record.
func ToArrow(view *table.TableView) (arrow.Record, error) {
	if view == nil {
		return nil, errors.NewConfigurationError("cannot export a nil table")
	}

	names := view.ColumnNames()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		typ, err := view.ColumnType(name)
		if err != nil {
			return nil, err
		}
		dt, err := arrowType(typ)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		fields[i] = arrow.Field{Name: name, Type: dt}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i, name := range names {
		data, err := view.ColumnData(name)
		if err != nil {
			return nil, err
		}
		if err := appendColumn(builder.Field(i), data); err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
	}
	return builder.NewRecord(), nil
}

// WriteParquet materializes a table and writes it as a single-row-group
// Parquet file.
func WriteParquet(view *table.TableView, path string) error {
	rec, err := ToArrow(view)
	if err != nil {
		return err
	}
	defer rec.Release()

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(rec.Schema(), file, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, "creating parquet writer")
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return errors.Wrap(err, "writing record")
	}
	return writer.Close()
}

func arrowType(t table.ElementType) (arrow.DataType, error) {
	switch t {
	case table.ElementFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case table.ElementInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case table.ElementBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case table.ElementFloatVector:
		return arrow.ListOf(arrow.PrimitiveTypes.Float64), nil
	default:
		return nil, errors.Wrapf(errors.ErrTypeMismatch, "unsupported element type %s", t)
	}
}

func appendColumn(b array.Builder, data table.ColumnData) error {
	switch values := data.(type) {
	case []float64:
		b.(*array.Float64Builder).AppendValues(values, nil)
	case []int64:
		b.(*array.Int64Builder).AppendValues(values, nil)
	case []bool:
		b.(*array.BooleanBuilder).AppendValues(values, nil)
	case [][]float64:
		lb := b.(*array.ListBuilder)
		vb := lb.ValueBuilder().(*array.Float64Builder)
		for _, cell := range values {
			lb.Append(true)
			vb.AppendValues(cell, nil)
		}
	default:
		return errors.Wrapf(errors.ErrTypeMismatch, "unsupported column data %T", data)
	}
	return nil
}
