package source

// Kind identifies the concrete capability held by a Variant. The set is
// closed: plan generation and the computer registry dispatch on
// (selector kind, source kind) pairs, so every valid combination is
// enumerable.
type Kind int

const (
	KindUnknown Kind = iota
	KindAnalog
	KindEvent
	KindInterval
	KindLine
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindAnalog:
		return "analog"
	case KindEvent:
		return "event"
	case KindInterval:
		return "interval"
	case KindLine:
		return "line"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Variant is a tagged union over the five capability interfaces. The zero
// Variant resolves to nothing.
type Variant struct {
	kind     Kind
	analog   AnalogSource
	event    EventSource
	interval IntervalSource
	line     LineSource
	point    PointSource
}

// AnalogVariant wraps an AnalogSource.
func AnalogVariant(s AnalogSource) Variant { return Variant{kind: KindAnalog, analog: s} }

// EventVariant wraps an EventSource.
func EventVariant(s EventSource) Variant { return Variant{kind: KindEvent, event: s} }

// IntervalVariant wraps an IntervalSource.
func IntervalVariant(s IntervalSource) Variant { return Variant{kind: KindInterval, interval: s} }

// LineVariant wraps a LineSource.
func LineVariant(s LineSource) Variant { return Variant{kind: KindLine, line: s} }

// PointVariant wraps a PointSource.
func PointVariant(s PointSource) Variant { return Variant{kind: KindPoint, point: s} }

// Kind returns the concrete capability tag.
func (v Variant) Kind() Kind { return v.kind }

// IsZero reports whether the variant holds no source.
func (v Variant) IsZero() bool { return v.kind == KindUnknown }

// Analog returns the wrapped AnalogSource, if any.
func (v Variant) Analog() (AnalogSource, bool) { return v.analog, v.kind == KindAnalog }

// Event returns the wrapped EventSource, if any.
func (v Variant) Event() (EventSource, bool) { return v.event, v.kind == KindEvent }

// Interval returns the wrapped IntervalSource, if any.
func (v Variant) Interval() (IntervalSource, bool) { return v.interval, v.kind == KindInterval }

// Line returns the wrapped LineSource, if any.
func (v Variant) Line() (LineSource, bool) { return v.line, v.kind == KindLine }

// Point returns the wrapped PointSource, if any.
func (v Variant) Point() (PointSource, bool) { return v.point, v.kind == KindPoint }

// SourceName returns the name of the wrapped source, or "" for the zero
// variant.
func (v Variant) SourceName() string {
	switch v.kind {
	case KindAnalog:
		return v.analog.Name()
	case KindEvent:
		return v.event.Name()
	case KindInterval:
		return v.interval.Name()
	case KindLine:
		return v.line.Name()
	case KindPoint:
		return v.point.Name()
	default:
		return ""
	}
}
