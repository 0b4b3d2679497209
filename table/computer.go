package table

import (
	"github.com/lucidtrace/tabula/source"
)

// ColumnComputer computes one column's values from an execution plan. Compute
// must be a deterministic, pure function of the plan: the TableView caches
// its result and never calls it twice within one cache epoch.
type ColumnComputer[T Element] interface {
	// Compute produces one value per plan row. A plan lacking the
	// structural data the computer requires yields an error wrapping
	// errors.ErrPlanMismatch.
	Compute(plan *ExecutionPlan) ([]T, error)

	// SourceDependency names the data source whose execution plan this
	// computer needs.
	SourceDependency() string

	// Dependencies names other columns that must be materialized before
	// this one (for computers that read sibling column values).
	Dependencies() []string
}

// EntityProvider is implemented by computers that can trace their output
// values back to concrete source items.
type EntityProvider interface {
	EntityStructure() source.EntityStructure
	ComputeEntityIDs(plan *ExecutionPlan) (ColumnEntityIDs, error)
}

// cacheInvalidator is implemented by computer adapters that hold their own
// caches (the shared multi-output batch cache); ClearCache propagates to
// them.
type cacheInvalidator interface {
	invalidate()
}
