package registry

import (
	"sort"
	"sync"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/logger"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

type computerEntry struct {
	info    ComputerInfo
	factory ComputerFactory
}

type adapterEntry struct {
	info    AdapterInfo
	factory AdapterFactory
}

type indexKey struct {
	selector table.SelectorKind
	src      source.Kind
}

// Registry catalogs computer and adapter factories keyed by name, with a
// (selector kind, source kind) index for discovery. Registration is a single
// startup pass; lookups afterwards are read-locked.
type Registry struct {
	mu        sync.RWMutex
	computers map[string]computerEntry
	adapters  map[string]adapterEntry
	index     map[indexKey][]*ComputerInfo
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		computers: make(map[string]computerEntry),
		adapters:  make(map[string]adapterEntry),
		index:     make(map[indexKey][]*ComputerInfo),
	}
}

// RegisterComputer stores a single-output computer factory under its
// metadata name. Duplicate names are an error.
func (r *Registry) RegisterComputer(info ComputerInfo, factory ComputerFactory) error {
	return r.register(info, factory, false)
}

// RegisterMultiComputer stores a multi-output computer factory. The factory's
// product must implement table.MultiColumnComputer for the advertised
// element type.
func (r *Registry) RegisterMultiComputer(info ComputerInfo, factory ComputerFactory) error {
	return r.register(info, factory, true)
}

func (r *Registry) register(info ComputerInfo, factory ComputerFactory, multi bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Name == "" {
		return errors.NewConfigurationError("computer name cannot be empty")
	}
	if factory == nil {
		return errors.NewConfigurationError("computer %q has no factory", info.Name)
	}
	if _, exists := r.computers[info.Name]; exists {
		return errors.NewConfigurationError("computer already registered: %s", info.Name)
	}

	info.IsMultiOutput = multi
	r.computers[info.Name] = computerEntry{info: info, factory: factory}
	r.rebuildIndexLocked()
	return nil
}

// RegisterAdapter stores an adapter factory under its metadata name.
func (r *Registry) RegisterAdapter(info AdapterInfo, factory AdapterFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Name == "" {
		return errors.NewConfigurationError("adapter name cannot be empty")
	}
	if factory == nil {
		return errors.NewConfigurationError("adapter %q has no factory", info.Name)
	}
	if _, exists := r.adapters[info.Name]; exists {
		return errors.NewConfigurationError("adapter already registered: %s", info.Name)
	}
	r.adapters[info.Name] = adapterEntry{info: info, factory: factory}
	return nil
}

// rebuildIndexLocked regenerates the discovery index from scratch. Caller
// holds the write lock. Entries within a cell are name-sorted for stable
// enumeration.
func (r *Registry) rebuildIndexLocked() {
	index := make(map[indexKey][]*ComputerInfo, len(r.index))
	for name := range r.computers {
		entry := r.computers[name]
		key := indexKey{selector: entry.info.RequiredSelector, src: entry.info.RequiredSource}
		info := entry.info
		index[key] = append(index[key], &info)
	}
	for _, infos := range index {
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	}
	r.index = index
}

// AvailableComputers returns the computers applicable to a selector kind and
// a resolved source, name-sorted.
func (r *Registry) AvailableComputers(selector table.SelectorKind, variant source.Variant) []*ComputerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[indexKey{selector: selector, src: variant.Kind()}]
}

// AvailableAdapters returns the adapters accepting the given source kind,
// name-sorted.
func (r *Registry) AvailableAdapters(kind source.Kind) []AdapterInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []AdapterInfo
	for _, entry := range r.adapters {
		if entry.info.InputKind == kind {
			out = append(out, entry.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindComputerInfo returns the metadata for a registered computer.
func (r *Registry) FindComputerInfo(name string) (ComputerInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.computers[name]
	return entry.info, ok
}

// FindAdapterInfo returns the metadata for a registered adapter.
func (r *Registry) FindAdapterInfo(name string) (AdapterInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.adapters[name]
	return entry.info, ok
}

// ComputerNames returns all registered computer names, sorted.
func (r *Registry) ComputerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.computers))
	for name := range r.computers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AdapterNames returns all registered adapter names, sorted.
func (r *Registry) AdapterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OutputType returns the element type and vector flag a computer produces.
func (r *Registry) OutputType(name string) (table.ElementType, bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.computers[name]
	if !ok {
		return 0, false, false
	}
	return entry.info.ElementType, entry.info.IsVector, true
}

// CreateComputer constructs a type-erased computer instance. Selection
// failures are logged and return nil rather than erroring: the caller asked
// for a combination the catalog cannot serve, which at this layer is a
// configuration problem to surface, not a crash.
func (r *Registry) CreateComputer(name string, variant source.Variant, params map[string]string) any {
	return r.create(name, variant, params, false)
}

// CreateMultiComputer constructs a type-erased multi-output computer.
func (r *Registry) CreateMultiComputer(name string, variant source.Variant, params map[string]string) any {
	return r.create(name, variant, params, true)
}

func (r *Registry) create(name string, variant source.Variant, params map[string]string, multi bool) any {
	r.mu.RLock()
	entry, ok := r.computers[name]
	r.mu.RUnlock()

	if !ok {
		logger.Warnw("computer not registered", "name", name)
		return nil
	}
	if entry.info.IsMultiOutput != multi {
		logger.Warnw("computer output arity mismatch",
			"name", name,
			"multi_output", entry.info.IsMultiOutput)
		return nil
	}
	if entry.info.RequiredSource != source.KindUnknown && variant.Kind() != entry.info.RequiredSource {
		logger.Warnw("source kind mismatch for computer",
			"name", name,
			"required", entry.info.RequiredSource.String(),
			"got", variant.Kind().String())
		return nil
	}

	instance, err := entry.factory(variant, params)
	if err != nil {
		logger.Warnw("computer construction failed",
			"name", name,
			"error", err)
		return nil
	}
	return instance
}

// CreateAdapter constructs a derived source. Failures are logged and return
// a zero Variant.
func (r *Registry) CreateAdapter(name string, variant source.Variant, params map[string]string) source.Variant {
	r.mu.RLock()
	entry, ok := r.adapters[name]
	r.mu.RUnlock()

	if !ok {
		logger.Warnw("adapter not registered", "name", name)
		return source.Variant{}
	}
	if entry.info.InputKind != source.KindUnknown && variant.Kind() != entry.info.InputKind {
		logger.Warnw("source kind mismatch for adapter",
			"name", name,
			"required", entry.info.InputKind.String(),
			"got", variant.Kind().String())
		return source.Variant{}
	}

	out, err := entry.factory(variant, params)
	if err != nil {
		logger.Warnw("adapter construction failed",
			"name", name,
			"error", err)
		return source.Variant{}
	}
	return out
}

// CreateTyped recovers the typed single-output interface from a registry
// construction. A type parameter that disagrees with the advertised element
// type is logged and returns nil.
func CreateTyped[T table.Element](r *Registry, name string, variant source.Variant, params map[string]string) table.ColumnComputer[T] {
	instance := r.CreateComputer(name, variant, params)
	if instance == nil {
		return nil
	}
	typed, ok := instance.(table.ColumnComputer[T])
	if !ok {
		logger.Warnw("computer element type mismatch", "name", name)
		return nil
	}
	return typed
}

// CreateTypedMulti recovers the typed multi-output interface from a registry
// construction.
func CreateTypedMulti[T table.Element](r *Registry, name string, variant source.Variant, params map[string]string) table.MultiColumnComputer[T] {
	instance := r.CreateMultiComputer(name, variant, params)
	if instance == nil {
		return nil
	}
	typed, ok := instance.(table.MultiColumnComputer[T])
	if !ok {
		logger.Warnw("multi-computer element type mismatch", "name", name)
		return nil
	}
	return typed
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry. Built-in computers attach to it
// through their own package's registration pass.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}
