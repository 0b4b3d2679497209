package table

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
)

// Element is the closed list of supported column element types. Keeping the
// list closed lets the type-erased boundary (ColumnData, Arrow export, the
// registry catalog) dispatch exhaustively instead of reflecting per call.
type Element interface {
	float64 | int64 | bool | []float64
}

// ElementType tags a column's element type at the type-erased boundary.
type ElementType int

const (
	ElementFloat64 ElementType = iota
	ElementInt64
	ElementBool
	ElementFloatVector
)

func (t ElementType) String() string {
	switch t {
	case ElementFloat64:
		return "float64"
	case ElementInt64:
		return "int64"
	case ElementBool:
		return "bool"
	default:
		return "[]float64"
	}
}

// IsVector reports whether the element type is itself a slice.
func (t ElementType) IsVector() bool { return t == ElementFloatVector }

func elementTypeOf[T Element]() ElementType {
	var zero T
	switch any(zero).(type) {
	case float64:
		return ElementFloat64
	case int64:
		return ElementInt64
	case bool:
		return ElementBool
	default:
		return ElementFloatVector
	}
}

// ColumnData holds a materialized column's values as one of the closed set
// of slice types: []float64, []int64, []bool or [][]float64.
type ColumnData any

// ColumnEntityIDs carries a column's provenance in one of three shapes.
type ColumnEntityIDs struct {
	Structure source.EntityStructure
	// Simple holds one EntityID per row when Structure is Simple.
	Simple []source.EntityID
	// Complex holds zero or more EntityIDs per row when Structure is Complex.
	Complex [][]source.EntityID
}

// CellIDs returns the EntityIDs contributing to one row.
func (c ColumnEntityIDs) CellIDs(row int) []source.EntityID {
	switch c.Structure {
	case source.EntityStructureSimple:
		if row >= 0 && row < len(c.Simple) {
			return []source.EntityID{c.Simple[row]}
		}
	case source.EntityStructureComplex:
		if row >= 0 && row < len(c.Complex) {
			return c.Complex[row]
		}
	}
	return nil
}

// Column is the type-erased view of one table column. Concrete columns are
// created through the Builder; the set of element types is closed.
type Column interface {
	Name() string
	SourceDependency() string
	Dependencies() []string
	ElementType() ElementType
	IsMaterialized() bool
	ClearCache()

	// Len returns the materialized value count, 0 before materialization.
	Len() int

	HasEntityIDs() bool

	materialize(v *TableView) error
	data() ColumnData
	entityIDs(v *TableView) ColumnEntityIDs
}

// typedColumn is the single-computer column implementation.
type typedColumn[T Element] struct {
	name     string
	computer ColumnComputer[T]

	materialized bool
	values       []T

	entityLoaded bool
	entities     ColumnEntityIDs
}

func newTypedColumn[T Element](name string, computer ColumnComputer[T]) *typedColumn[T] {
	return &typedColumn[T]{name: name, computer: computer}
}

func (c *typedColumn[T]) Name() string             { return c.name }
func (c *typedColumn[T]) SourceDependency() string { return c.computer.SourceDependency() }
func (c *typedColumn[T]) Dependencies() []string   { return c.computer.Dependencies() }
func (c *typedColumn[T]) ElementType() ElementType { return elementTypeOf[T]() }
func (c *typedColumn[T]) IsMaterialized() bool     { return c.materialized }

func (c *typedColumn[T]) Len() int {
	return len(c.values)
}

func (c *typedColumn[T]) ClearCache() {
	c.materialized = false
	c.values = nil
	c.entityLoaded = false
	c.entities = ColumnEntityIDs{}
	if inv, ok := c.computer.(cacheInvalidator); ok {
		inv.invalidate()
	}
}

// materialize computes the column through its execution plan. On failure no
// partial cache state is retained: the column either fully materializes or
// stays unmaterialized.
func (c *typedColumn[T]) materialize(v *TableView) error {
	if c.materialized {
		return nil
	}
	plan, err := v.executionPlanFor(c.computer.SourceDependency())
	if err != nil {
		return err
	}
	values, err := c.computer.Compute(plan)
	if err != nil {
		return errors.Wrapf(err, "materializing column %q", c.name)
	}
	c.values = values
	c.materialized = true
	return nil
}

func (c *typedColumn[T]) data() ColumnData {
	return c.values
}

func (c *typedColumn[T]) HasEntityIDs() bool {
	ep, ok := c.computer.(EntityProvider)
	return ok && ep.EntityStructure() != source.EntityStructureNone
}

func (c *typedColumn[T]) entityIDs(v *TableView) ColumnEntityIDs {
	if c.entityLoaded {
		return c.entities
	}
	ep, ok := c.computer.(EntityProvider)
	if !ok || ep.EntityStructure() == source.EntityStructureNone {
		return ColumnEntityIDs{}
	}
	plan, err := v.executionPlanFor(c.computer.SourceDependency())
	if err != nil {
		return ColumnEntityIDs{}
	}
	ids, err := ep.ComputeEntityIDs(plan)
	if err != nil {
		return ColumnEntityIDs{}
	}
	c.entities = ids
	c.entityLoaded = true
	return c.entities
}

// Values returns a column's materialized values at their static type,
// materializing the column and its dependencies on first access.
func Values[T Element](v *TableView, name string) ([]T, error) {
	idx, ok := v.nameIndex[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	col, ok := v.columns[idx].(*typedColumn[T])
	if !ok {
		return nil, errors.Wrapf(errors.ErrTypeMismatch,
			"column %q holds %s", name, v.columns[idx].ElementType())
	}
	if !col.materialized {
		visiting := make(map[string]struct{})
		if err := v.materializeColumn(name, visiting); err != nil {
			return nil, err
		}
	}
	return col.values, nil
}
