package source

import (
	"sort"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/timeframe"
)

// Dataset is an in-memory Resolver. The host application registers its
// stores here under unique names; the table engine looks them up by name
// when generating execution plans.
type Dataset struct {
	sources map[string]Variant
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{sources: make(map[string]Variant)}
}

// Resolve implements Resolver.
func (d *Dataset) Resolve(name string) (Variant, bool) {
	v, ok := d.sources[name]
	return v, ok
}

// Names returns the registered source names in sorted order.
func (d *Dataset) Names() []string {
	out := make([]string, 0, len(d.sources))
	for name := range d.sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Add registers an already-wrapped source variant. Adapter outputs come in
// through here.
func (d *Dataset) Add(name string, v Variant) error {
	if name == "" {
		return errors.NewConfigurationError("source name must not be empty")
	}
	if v.IsZero() {
		return errors.NewConfigurationError("cannot register empty source variant %q", name)
	}
	if _, exists := d.sources[name]; exists {
		return errors.NewConfigurationError("source %q already registered", name)
	}
	d.sources[name] = v
	return nil
}

// AddAnalog registers a new in-memory analog store.
func (d *Dataset) AddAnalog(name string, values []float64, tf *timeframe.TimeFrame) (*AnalogSeries, error) {
	s := NewAnalogSeries(name, values, tf)
	if err := d.Add(name, AnalogVariant(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// AddEvents registers a new in-memory event store.
func (d *Dataset) AddEvents(name string, events []timeframe.Index, tf *timeframe.TimeFrame) (*EventSeries, error) {
	s := NewEventSeries(name, events, tf)
	if err := d.Add(name, EventVariant(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// AddIntervals registers a new in-memory interval store.
func (d *Dataset) AddIntervals(name string, intervals []timeframe.Interval, ids []EntityID, tf *timeframe.TimeFrame) (*IntervalSeries, error) {
	s := NewIntervalSeries(name, intervals, ids, tf)
	if err := d.Add(name, IntervalVariant(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// AddLines registers a new in-memory line store.
func (d *Dataset) AddLines(name string, tf *timeframe.TimeFrame) (*LineSeries, error) {
	s := NewLineSeries(name, tf)
	if err := d.Add(name, LineVariant(s)); err != nil {
		return nil, err
	}
	return s, nil
}

// AddPoints registers a new in-memory point store.
func (d *Dataset) AddPoints(name string, tf *timeframe.TimeFrame) (*PointSeries, error) {
	s := NewPointSeries(name, tf)
	if err := d.Add(name, PointVariant(s)); err != nil {
		return nil, err
	}
	return s, nil
}
