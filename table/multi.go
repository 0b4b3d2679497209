package table

import (
	"sync"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
)

// MultiColumnComputer computes several related output columns in one pass,
// amortizing shared work (K samples along a line, values at K time offsets).
// The output count is fixed once computed.
type MultiColumnComputer[T Element] interface {
	// ComputeBatch produces one slice per output, each with one value per
	// plan row.
	ComputeBatch(plan *ExecutionPlan) ([][]T, error)

	// OutputNames returns one suffix per output; the builder appends them
	// to the base column name.
	OutputNames() []string

	SourceDependency() string
	Dependencies() []string
}

// BatchEntityProvider is implemented by multi-computers whose outputs share
// row provenance.
type BatchEntityProvider interface {
	EntityStructure() source.EntityStructure
	ComputeBatchEntityIDs(plan *ExecutionPlan) (ColumnEntityIDs, error)
}

// batchCache holds one multi-computer's batch results, keyed by plan
// identity. Plans are deduplicated per source name by the TableView's plan
// cache, so pointer identity is plan identity within a cache epoch. The
// cache object is owned by the sibling views of one multi-computer instance
// and shared by reference: the first sibling accessed pays the full batch
// cost, the rest reuse it. The mutex guards re-entrant access from siblings
// on the same call stack, not parallelism.
type batchCache[T Element] struct {
	mu       sync.Mutex
	computer MultiColumnComputer[T]
	outputs  map[*ExecutionPlan][][]T
	entities map[*ExecutionPlan]ColumnEntityIDs
}

func newBatchCache[T Element](computer MultiColumnComputer[T]) *batchCache[T] {
	return &batchCache[T]{
		computer: computer,
		outputs:  make(map[*ExecutionPlan][][]T),
		entities: make(map[*ExecutionPlan]ColumnEntityIDs),
	}
}

func (b *batchCache[T]) batchFor(plan *ExecutionPlan) ([][]T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if outputs, ok := b.outputs[plan]; ok {
		return outputs, nil
	}
	outputs, err := b.computer.ComputeBatch(plan)
	if err != nil {
		return nil, err
	}
	b.outputs[plan] = outputs
	return outputs, nil
}

func (b *batchCache[T]) entitiesFor(plan *ExecutionPlan, provider BatchEntityProvider) (ColumnEntityIDs, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ids, ok := b.entities[plan]; ok {
		return ids, nil
	}
	ids, err := provider.ComputeBatchEntityIDs(plan)
	if err != nil {
		return ColumnEntityIDs{}, err
	}
	b.entities[plan] = ids
	return ids, nil
}

func (b *batchCache[T]) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputs = make(map[*ExecutionPlan][][]T)
	b.entities = make(map[*ExecutionPlan]ColumnEntityIDs)
}

// multiOutputView exposes one slice of a multi-computer as a single-output
// ColumnComputer, backed by the shared batch cache.
type multiOutputView[T Element] struct {
	cache *batchCache[T]
	index int
}

func (m *multiOutputView[T]) Compute(plan *ExecutionPlan) ([]T, error) {
	outputs, err := m.cache.batchFor(plan)
	if err != nil {
		return nil, err
	}
	if m.index >= len(outputs) {
		return nil, errors.AssertionFailedf(
			"multi-computer produced %d outputs, view expects index %d", len(outputs), m.index)
	}
	return outputs[m.index], nil
}

func (m *multiOutputView[T]) SourceDependency() string {
	return m.cache.computer.SourceDependency()
}

func (m *multiOutputView[T]) Dependencies() []string {
	return m.cache.computer.Dependencies()
}

func (m *multiOutputView[T]) EntityStructure() source.EntityStructure {
	if p, ok := m.cache.computer.(BatchEntityProvider); ok {
		return p.EntityStructure()
	}
	return source.EntityStructureNone
}

func (m *multiOutputView[T]) ComputeEntityIDs(plan *ExecutionPlan) (ColumnEntityIDs, error) {
	p, ok := m.cache.computer.(BatchEntityProvider)
	if !ok {
		return ColumnEntityIDs{}, nil
	}
	return m.cache.entitiesFor(plan, p)
}

func (m *multiOutputView[T]) invalidate() {
	m.cache.clear()
}
