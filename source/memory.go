package source

import (
	"sort"

	"github.com/lucidtrace/tabula/timeframe"
)

// AnalogSeries is an in-memory AnalogSource: one sample per index of its
// TimeFrame.
type AnalogSeries struct {
	name   string
	tf     *timeframe.TimeFrame
	values []float64
}

// NewAnalogSeries creates an analog store. values[i] is the sample at index i.
func NewAnalogSeries(name string, values []float64, tf *timeframe.TimeFrame) *AnalogSeries {
	copied := make([]float64, len(values))
	copy(copied, values)
	return &AnalogSeries{name: name, tf: tf, values: copied}
}

func (s *AnalogSeries) Name() string                    { return s.name }
func (s *AnalogSeries) TimeFrame() *timeframe.TimeFrame { return s.tf }
func (s *AnalogSeries) NumSamples() int                 { return len(s.values) }

func (s *AnalogSeries) DataInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []float64 {
	lo, hi := s.ownRange(start, end, dest)
	if lo > hi {
		return nil
	}
	out := make([]float64, hi-lo+1)
	copy(out, s.values[lo:hi+1])
	return out
}

func (s *AnalogSeries) ownRange(start, end timeframe.Index, dest *timeframe.TimeFrame) (int, int) {
	if dest != nil {
		start = dest.ConvertIndex(start, s.tf)
		end = dest.ConvertIndex(end, s.tf)
	}
	lo := int(start)
	hi := int(end)
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.values) {
		hi = len(s.values) - 1
	}
	return lo, hi
}

// EventSeries is an in-memory EventSource holding sorted event indices.
type EventSeries struct {
	name   string
	tf     *timeframe.TimeFrame
	events []timeframe.Index
}

// NewEventSeries creates an event store. Events are sorted on construction.
func NewEventSeries(name string, events []timeframe.Index, tf *timeframe.TimeFrame) *EventSeries {
	copied := make([]timeframe.Index, len(events))
	copy(copied, events)
	sort.Slice(copied, func(i, j int) bool { return copied[i] < copied[j] })
	return &EventSeries{name: name, tf: tf, events: copied}
}

func (s *EventSeries) Name() string                    { return s.name }
func (s *EventSeries) TimeFrame() *timeframe.TimeFrame { return s.tf }
func (s *EventSeries) NumEvents() int                  { return len(s.events) }

func (s *EventSeries) EventsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []float64 {
	ownStart, ownEnd := start, end
	if dest != nil {
		ownStart = dest.ConvertIndex(start, s.tf)
		ownEnd = dest.ConvertIndex(end, s.tf)
	}
	var out []float64
	for _, e := range s.events {
		if e < ownStart || e > ownEnd {
			continue
		}
		if dest != nil {
			out = append(out, float64(s.tf.ConvertIndex(e, dest)))
		} else {
			out = append(out, float64(e))
		}
	}
	return out
}

// IntervalSeries is an in-memory IntervalSource with per-interval EntityIDs.
type IntervalSeries struct {
	name      string
	tf        *timeframe.TimeFrame
	intervals []timeframe.Interval
	ids       []EntityID
}

// NewIntervalSeries creates an interval store. Intervals are sorted by start
// (ids stay parallel). ids may be nil for stores without provenance.
func NewIntervalSeries(name string, intervals []timeframe.Interval, ids []EntityID, tf *timeframe.TimeFrame) *IntervalSeries {
	type pair struct {
		iv timeframe.Interval
		id EntityID
	}
	pairs := make([]pair, len(intervals))
	for i, iv := range intervals {
		pairs[i] = pair{iv: iv}
		if i < len(ids) {
			pairs[i].id = ids[i]
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].iv.Start < pairs[j].iv.Start })

	s := &IntervalSeries{name: name, tf: tf}
	s.intervals = make([]timeframe.Interval, len(pairs))
	s.ids = make([]EntityID, len(pairs))
	for i, p := range pairs {
		s.intervals[i] = p.iv
		s.ids[i] = p.id
	}
	return s
}

func (s *IntervalSeries) Name() string                    { return s.name }
func (s *IntervalSeries) TimeFrame() *timeframe.TimeFrame { return s.tf }
func (s *IntervalSeries) NumIntervals() int               { return len(s.intervals) }

func (s *IntervalSeries) IntervalsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []timeframe.Interval {
	out := make([]timeframe.Interval, 0)
	s.scanRange(start, end, dest, func(i int) {
		out = append(out, s.intervals[i])
	})
	return out
}

func (s *IntervalSeries) EntityIDsInRange(start, end timeframe.Index, dest *timeframe.TimeFrame) []EntityID {
	out := make([]EntityID, 0)
	s.scanRange(start, end, dest, func(i int) {
		out = append(out, s.ids[i])
	})
	return out
}

func (s *IntervalSeries) scanRange(start, end timeframe.Index, dest *timeframe.TimeFrame, visit func(int)) {
	query := timeframe.Interval{Start: start, End: end}
	if dest != nil {
		query.Start = dest.ConvertIndex(start, s.tf)
		query.End = dest.ConvertIndex(end, s.tf)
	}
	for i, iv := range s.intervals {
		if iv.Overlaps(query) {
			visit(i)
		}
	}
}

// LineSeries is an in-memory LineSource: zero or more polylines per
// timestamp.
type LineSeries struct {
	name  string
	tf    *timeframe.TimeFrame
	lines map[timeframe.Index][]Line
	ids   map[timeframe.Index][]EntityID
}

// NewLineSeries creates an empty line store.
func NewLineSeries(name string, tf *timeframe.TimeFrame) *LineSeries {
	return &LineSeries{
		name:  name,
		tf:    tf,
		lines: make(map[timeframe.Index][]Line),
		ids:   make(map[timeframe.Index][]EntityID),
	}
}

// SetLinesAt stores the lines for one timestamp, replacing any previous
// value. ids may be nil for stores without provenance.
func (s *LineSeries) SetLinesAt(t timeframe.Index, lines []Line, ids []EntityID) {
	s.lines[t] = lines
	if ids == nil {
		ids = make([]EntityID, len(lines))
	}
	s.ids[t] = ids
}

func (s *LineSeries) Name() string                    { return s.name }
func (s *LineSeries) TimeFrame() *timeframe.TimeFrame { return s.tf }

func (s *LineSeries) EntityCountAt(t timeframe.Index) int {
	return len(s.lines[t])
}

func (s *LineSeries) LinesAt(t timeframe.Index) []Line {
	return s.lines[t]
}

func (s *LineSeries) EntityIDsAt(t timeframe.Index) []EntityID {
	return s.ids[t]
}

// PointSeries is an in-memory PointSource: zero or more 2D points per
// timestamp.
type PointSeries struct {
	name   string
	tf     *timeframe.TimeFrame
	points map[timeframe.Index][]Point2
	ids    map[timeframe.Index][]EntityID
}

// NewPointSeries creates an empty point store.
func NewPointSeries(name string, tf *timeframe.TimeFrame) *PointSeries {
	return &PointSeries{
		name:   name,
		tf:     tf,
		points: make(map[timeframe.Index][]Point2),
		ids:    make(map[timeframe.Index][]EntityID),
	}
}

// SetPointsAt stores the points for one timestamp, replacing any previous
// value. ids may be nil for stores without provenance.
func (s *PointSeries) SetPointsAt(t timeframe.Index, points []Point2, ids []EntityID) {
	s.points[t] = points
	if ids == nil {
		ids = make([]EntityID, len(points))
	}
	s.ids[t] = ids
}

func (s *PointSeries) Name() string                    { return s.name }
func (s *PointSeries) TimeFrame() *timeframe.TimeFrame { return s.tf }

func (s *PointSeries) PointsAt(t timeframe.Index) []Point2 {
	return s.points[t]
}

func (s *PointSeries) EntityIDsAt(t timeframe.Index) []EntityID {
	return s.ids[t]
}

func (s *PointSeries) Timestamps() []timeframe.Index {
	out := make([]timeframe.Index, 0, len(s.points))
	for t := range s.points {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
