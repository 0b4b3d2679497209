// Package source defines the capability interfaces the table engine computes
// against, a closed tagged variant over them, and in-memory store
// implementations. Computers depend on a capability (analog-like, event-like,
// interval-like, line-like, point-like), never on a concrete store type.
package source

import (
	"github.com/lucidtrace/tabula/timeframe"
)

// Point2 is a 2D point within a line or point store.
type Point2 struct {
	X float64
	Y float64
}

// Line is an ordered polyline of 2D points.
type Line []Point2

// AnalogSource exposes a continuously sampled signal.
type AnalogSource interface {
	Name() string
	TimeFrame() *timeframe.TimeFrame
	NumSamples() int
	// DataInRange returns the samples between start and end (inclusive),
	// where start and end are expressed in dest's index space. A nil dest
	// means the source's own frame.
	DataInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []float64
}

// EventSource exposes discrete event times.
type EventSource interface {
	Name() string
	TimeFrame() *timeframe.TimeFrame
	// EventsInRange returns event times between start and end (inclusive,
	// in dest's index space), expressed as fractional indices in dest's
	// index space.
	EventsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []float64
}

// IntervalSource exposes [start,end] index ranges with per-item provenance.
type IntervalSource interface {
	Name() string
	TimeFrame() *timeframe.TimeFrame
	// IntervalsInRange returns the intervals overlapping [start,end]
	// (in dest's index space), in their own frame's coordinates, in store
	// order.
	IntervalsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []timeframe.Interval
	// EntityIDsInRange returns the EntityIDs parallel to IntervalsInRange.
	EntityIDsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []EntityID
}

// LineSource exposes zero or more polylines per timestamp. It is the
// entity-expandable capability: a table over a timestamp selector emits one
// row per line per timestamp.
type LineSource interface {
	Name() string
	TimeFrame() *timeframe.TimeFrame
	// EntityCountAt returns the number of lines at the given timestamp.
	EntityCountAt(t timeframe.Index) int
	// LinesAt returns the lines at the given timestamp, in store order.
	LinesAt(t timeframe.Index) []Line
	// EntityIDsAt returns the EntityIDs parallel to LinesAt.
	EntityIDsAt(t timeframe.Index) []EntityID
}

// PointSource exposes zero or more 2D points per timestamp.
type PointSource interface {
	Name() string
	TimeFrame() *timeframe.TimeFrame
	// PointsAt returns the points at the given timestamp, in store order.
	PointsAt(t timeframe.Index) []Point2
	// EntityIDsAt returns the EntityIDs parallel to PointsAt.
	EntityIDsAt(t timeframe.Index) []EntityID
	// Timestamps returns every timestamp holding at least one point, in
	// ascending order.
	Timestamps() []timeframe.Index
}

// Resolver maps a data source name to a concrete source variant. The table
// engine consumes this; the host application provides it (typically a
// Dataset).
type Resolver interface {
	Resolve(name string) (Variant, bool)
}
