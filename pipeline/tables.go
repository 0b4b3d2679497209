package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/table"
)

// TableInfo is the registry metadata for one table id.
type TableInfo struct {
	ID          string
	Name        string
	Description string
}

type tableEntry struct {
	info TableInfo
	view *table.TableView
}

// TableRegistry stores built tables by id. Metadata can exist before the
// build lands; StoreBuilt attaches the view.
type TableRegistry struct {
	mu      sync.RWMutex
	entries map[string]*tableEntry
	counter int
}

// NewTableRegistry creates an empty registry.
func NewTableRegistry() *TableRegistry {
	return &TableRegistry{entries: make(map[string]*tableEntry)}
}

// Has reports whether the id is known.
func (r *TableRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Create registers metadata for a new table id.
func (r *TableRegistry) Create(id, name, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		return errors.NewConfigurationError("table id cannot be empty")
	}
	if _, exists := r.entries[id]; exists {
		return errors.NewConfigurationError("table already registered: %s", id)
	}
	r.entries[id] = &tableEntry{info: TableInfo{ID: id, Name: name, Description: description}}
	return nil
}

// UpdateInfo replaces the metadata of an existing id.
func (r *TableRegistry) UpdateInfo(id, name, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return errors.NewConfigurationError("table not registered: %s", id)
	}
	entry.info.Name = name
	entry.info.Description = description
	return nil
}

// StoreBuilt attaches a built view to a registered id, replacing any earlier
// build.
func (r *TableRegistry) StoreBuilt(id string, view *table.TableView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return errors.NewConfigurationError("table not registered: %s", id)
	}
	if view == nil {
		return errors.NewConfigurationError("cannot store nil table for %s", id)
	}
	entry.view = view
	return nil
}

// Get returns the built view for an id, or false when the id is unknown or
// not yet built.
func (r *TableRegistry) Get(id string) (*table.TableView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok || entry.view == nil {
		return nil, false
	}
	return entry.view, true
}

// Info returns the metadata for an id.
func (r *TableRegistry) Info(id string) (TableInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return TableInfo{}, false
	}
	return entry.info, true
}

// IDs returns the registered ids, sorted.
func (r *TableRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GenerateUniqueID derives an unused id from a base name. The counter is
// monotonic across calls so generated ids never collide with each other.
func (r *TableRegistry) GenerateUniqueID(base string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		candidate := fmt.Sprintf("%s_%d", base, r.counter)
		r.counter++
		if _, exists := r.entries[candidate]; !exists {
			return candidate
		}
	}
}
