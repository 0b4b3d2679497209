// Package transform derives new tables from built ones. A Transform consumes
// a materialized TableView and produces a fresh view whose columns are
// computed values rather than source-bound computers; provenance is carried
// over through the direct EntityID override.
package transform

import (
	"github.com/lucidtrace/tabula/table"
)

// Transform maps one table to another.
type Transform interface {
	Apply(view *table.TableView) (*table.TableView, error)
}
