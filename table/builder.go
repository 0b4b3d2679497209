package table

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
)

// Builder assembles a TableView. Column additions fail fast on duplicate
// names; Build enforces the cross-column invariants that cannot be checked
// per column.
type Builder struct {
	view *TableView
	err  error
}

// NewBuilder starts a table over the given selector and resolver.
func NewBuilder(selector RowSelector, resolver source.Resolver) *Builder {
	view, err := newTableView(selector, resolver)
	return &Builder{view: view, err: err}
}

// AddColumn adds a single-computer column. The first error sticks; Build
// reports it.
func AddColumn[T Element](b *Builder, name string, computer ColumnComputer[T]) *Builder {
	if b.err != nil {
		return b
	}
	if computer == nil {
		b.err = errors.NewConfigurationError("column %q has no computer", name)
		return b
	}
	b.err = b.view.addColumn(newTypedColumn(name, computer))
	return b
}

// AddColumns adds one column per output of a multi-computer, named
// base+suffix. All siblings share one batch cache: the first one
// materialized pays the full batch cost.
func AddColumns[T Element](b *Builder, base string, computer MultiColumnComputer[T]) *Builder {
	if b.err != nil {
		return b
	}
	if computer == nil {
		b.err = errors.NewConfigurationError("columns %q have no computer", base)
		return b
	}
	suffixes := computer.OutputNames()
	if len(suffixes) == 0 {
		b.err = errors.NewConfigurationError("multi-computer for %q declares no outputs", base)
		return b
	}
	cache := newBatchCache(computer)
	for i, suffix := range suffixes {
		view := &multiOutputView[T]{cache: cache, index: i}
		if err := b.view.addColumn(newTypedColumn[T](base+suffix, view)); err != nil {
			b.err = err
			return b
		}
	}
	return b
}

// Build finalizes the table. At most one entity-expandable (line) source may
// participate: two such sources make row correspondence undefined.
func (b *Builder) Build() (*TableView, error) {
	if b.err != nil {
		return nil, b.err
	}

	lineSources := make(map[string]struct{})
	for _, col := range b.view.columns {
		dep := col.SourceDependency()
		variant, ok := b.view.resolver.Resolve(dep)
		if !ok {
			continue
		}
		if _, isLine := variant.Line(); isLine {
			lineSources[dep] = struct{}{}
		}
	}
	if len(lineSources) > 1 {
		return nil, errors.NewConfigurationError(
			"table binds %d entity-expandable sources, at most one is allowed", len(lineSources))
	}

	view := b.view
	b.view = nil
	return view, nil
}
