package table

import (
	"sort"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
)

// TableView is the orchestrator for tabular data views with lazy evaluation.
// It owns the row selector and an ordered set of heterogeneous columns,
// resolves and caches per-source execution plans, and materializes columns
// in dependency order with cycle detection.
type TableView struct {
	selector RowSelector
	resolver source.Resolver

	columns   []Column
	nameIndex map[string]int

	// planCache holds execution plans keyed by data source name; a plan is
	// generated exactly once per distinct source name per cache epoch.
	planCache map[string]*ExecutionPlan

	// directEntityIDs overrides per-row provenance for transformed tables
	// whose plans no longer reference the original sources.
	directEntityIDs [][]source.EntityID
}

func newTableView(selector RowSelector, resolver source.Resolver) (*TableView, error) {
	if selector == nil {
		return nil, errors.NewConfigurationError("row selector cannot be nil")
	}
	if resolver == nil {
		return nil, errors.NewConfigurationError("source resolver cannot be nil")
	}
	return &TableView{
		selector:  selector,
		resolver:  resolver,
		nameIndex: make(map[string]int),
		planCache: make(map[string]*ExecutionPlan),
	}, nil
}

// Selector returns the table's row selector.
func (v *TableView) Selector() RowSelector { return v.selector }

// Resolver returns the source resolver backing this table.
func (v *TableView) Resolver() source.Resolver { return v.resolver }

// ColumnCount returns the number of columns.
func (v *TableView) ColumnCount() int { return len(v.columns) }

// ColumnNames returns the column names in table order.
func (v *TableView) ColumnNames() []string {
	names := make([]string, len(v.columns))
	for i, c := range v.columns {
		names[i] = c.Name()
	}
	return names
}

// HasColumn reports whether a column exists.
func (v *TableView) HasColumn(name string) bool {
	_, ok := v.nameIndex[name]
	return ok
}

// ColumnType returns the element type of a column.
func (v *TableView) ColumnType(name string) (ElementType, error) {
	idx, ok := v.nameIndex[name]
	if !ok {
		return 0, errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	return v.columns[idx].ElementType(), nil
}

// ColumnData returns a column's values behind the type-erased boundary:
// one of []float64, []int64, []bool or [][]float64. The column is
// materialized on first access.
func (v *TableView) ColumnData(name string) (ColumnData, error) {
	idx, ok := v.nameIndex[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	visiting := make(map[string]struct{})
	if err := v.materializeColumn(name, visiting); err != nil {
		return nil, err
	}
	return v.columns[idx].data(), nil
}

// RowCount returns the number of rows. An already-cached entity-expanded
// plan wins; otherwise the plan for the first line-backed column is resolved
// proactively; otherwise the selector's static count applies.
func (v *TableView) RowCount() int {
	for _, plan := range v.planCache {
		if plan.IsExpanded() {
			return len(plan.Rows())
		}
	}
	for _, col := range v.columns {
		dep := col.SourceDependency()
		variant, ok := v.resolver.Resolve(dep)
		if !ok {
			continue
		}
		if _, isLine := variant.Line(); !isLine {
			continue
		}
		plan, err := v.executionPlanFor(dep)
		if err == nil && plan.IsExpanded() {
			return len(plan.Rows())
		}
		break // only expand based on the first line-backed column
	}
	return v.selector.RowCount()
}

// RowDescriptor traces a row back to its originating selector entry. For
// entity-expanded tables the descriptor carries the item index within the
// timestamp.
func (v *TableView) RowDescriptor(row int) RowDescriptor {
	for _, plan := range v.planCache {
		if !plan.IsExpanded() {
			continue
		}
		rows := plan.Rows()
		if row < 0 || row >= len(rows) {
			return nil
		}
		return TimestampDescriptor{Timestamp: rows[row].Timestamp, Entity: rows[row].Entity}
	}
	return v.selector.Descriptor(row)
}

// MaterializeAll computes every unmaterialized column in dependency order.
func (v *TableView) MaterializeAll() error {
	visiting := make(map[string]struct{})
	for _, col := range v.columns {
		if col.IsMaterialized() {
			continue
		}
		if err := v.materializeColumn(col.Name(), visiting); err != nil {
			return err
		}
	}
	return nil
}

// ClearCache drops every column cache and the execution plan cache. Required
// whenever underlying source data mutates; there is no incremental
// invalidation.
func (v *TableView) ClearCache() {
	for _, col := range v.columns {
		col.ClearCache()
	}
	v.planCache = make(map[string]*ExecutionPlan)
}

// materializeColumn materializes one column after its declared dependencies,
// detecting cycles through the visiting set.
func (v *TableView) materializeColumn(name string, visiting map[string]struct{}) error {
	if _, active := visiting[name]; active {
		return errors.Wrapf(errors.ErrDependencyCycle, "involving column %q", name)
	}
	idx, ok := v.nameIndex[name]
	if !ok {
		return errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	col := v.columns[idx]
	if col.IsMaterialized() {
		return nil
	}

	visiting[name] = struct{}{}
	defer delete(visiting, name)

	for _, dep := range col.Dependencies() {
		if !v.HasColumn(dep) {
			continue
		}
		if err := v.materializeColumn(dep, visiting); err != nil {
			return err
		}
	}

	return col.materialize(v)
}

// addColumn appends a column, rejecting duplicate names before any mutation.
func (v *TableView) addColumn(col Column) error {
	if col == nil {
		return errors.NewConfigurationError("column cannot be nil")
	}
	if v.HasColumn(col.Name()) {
		return errors.NewConfigurationError("column %q already exists", col.Name())
	}
	v.nameIndex[col.Name()] = len(v.columns)
	v.columns = append(v.columns, col)
	return nil
}

// executionPlanFor returns the cached plan for a source name, generating and
// inserting it on first request.
func (v *TableView) executionPlanFor(sourceName string) (*ExecutionPlan, error) {
	if plan, ok := v.planCache[sourceName]; ok {
		return plan, nil
	}
	plan, err := v.generateExecutionPlan(sourceName)
	if err != nil {
		return nil, err
	}
	v.planCache[sourceName] = plan
	return plan, nil
}

// SetDirectEntityIDs installs per-row provenance for transformed tables that
// cannot reconstruct it through an execution plan.
func (v *TableView) SetDirectEntityIDs(ids [][]source.EntityID) {
	v.directEntityIDs = ids
}

// RowEntityIDs returns the EntityIDs contributing to one row: the direct
// override entry when installed, otherwise the union over all columns'
// cell-level provenance with null tokens skipped.
func (v *TableView) RowEntityIDs(row int) []source.EntityID {
	if len(v.directEntityIDs) > 0 {
		if row >= 0 && row < len(v.directEntityIDs) {
			return v.directEntityIDs[row]
		}
		return nil
	}

	set := make(map[source.EntityID]struct{})
	for _, col := range v.columns {
		for _, id := range col.entityIDs(v).CellIDs(row) {
			if id != 0 {
				set[id] = struct{}{}
			}
		}
	}
	out := make([]source.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasEntityColumn reports whether provenance is available for this table.
func (v *TableView) HasEntityColumn() bool {
	if len(v.directEntityIDs) > 0 {
		return true
	}
	if v.RowCount() == 0 {
		return false
	}
	return len(v.RowEntityIDs(0)) > 0
}

// EntityIDs returns per-row provenance for all rows.
func (v *TableView) EntityIDs() [][]source.EntityID {
	if len(v.directEntityIDs) > 0 {
		return v.directEntityIDs
	}
	n := v.RowCount()
	out := make([][]source.EntityID, n)
	for i := 0; i < n; i++ {
		out[i] = v.RowEntityIDs(i)
	}
	return out
}

// HasColumnEntityIDs reports whether a column carries provenance.
func (v *TableView) HasColumnEntityIDs(name string) bool {
	idx, ok := v.nameIndex[name]
	if !ok {
		return false
	}
	return v.columns[idx].HasEntityIDs()
}

// ColumnEntityIDs returns a column's provenance in its declared structure.
func (v *TableView) ColumnEntityIDs(name string) ColumnEntityIDs {
	idx, ok := v.nameIndex[name]
	if !ok {
		return ColumnEntityIDs{}
	}
	return v.columns[idx].entityIDs(v)
}

// CellEntityIDs returns all EntityIDs contributing to one cell.
func (v *TableView) CellEntityIDs(name string, row int) []source.EntityID {
	idx, ok := v.nameIndex[name]
	if !ok {
		return nil
	}
	return v.columns[idx].entityIDs(v).CellIDs(row)
}
