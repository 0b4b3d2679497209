package computers

import (
	"strconv"
	"sync"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/intervals"
	"github.com/lucidtrace/tabula/registry"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

// RegisterBuiltins attaches every built-in computer and adapter to a
// registry. It is a single startup pass; any error is a programming mistake
// in the registration table itself.
func RegisterBuiltins(r *registry.Registry) error {
	if err := registerReductions(r); err != nil {
		return err
	}
	if err := registerProperties(r); err != nil {
		return err
	}
	if err := registerEvents(r); err != nil {
		return err
	}
	if err := registerOverlaps(r); err != nil {
		return err
	}
	if err := registerTimestamps(r); err != nil {
		return err
	}
	if err := registerMultis(r); err != nil {
		return err
	}
	return registerAdapters(r)
}

var builtinsOnce sync.Once

// DefaultRegistry returns the process-wide registry with all built-ins
// registered.
func DefaultRegistry() *registry.Registry {
	r := registry.Default()
	builtinsOnce.Do(func() {
		if err := RegisterBuiltins(r); err != nil {
			panic(err)
		}
	})
	return r
}

func registerReductions(r *registry.Registry) error {
	kinds := []struct {
		name        string
		description string
		kind        ReductionKind
	}{
		{"Interval Mean", "Mean of analog samples in each interval", ReductionMean},
		{"Interval Max", "Maximum analog sample in each interval", ReductionMax},
		{"Interval Min", "Minimum analog sample in each interval", ReductionMin},
		{"Interval Sum", "Sum of analog samples in each interval", ReductionSum},
		{"Interval Standard Deviation", "Sample standard deviation of analog samples in each interval", ReductionStdDev},
		{"Interval Count", "Number of analog samples in each interval", ReductionCount},
	}

	for _, k := range kinds {
		kind := k.kind
		info := registry.ComputerInfo{
			Name:             k.name,
			Description:      k.description,
			ElementType:      table.ElementFloat64,
			RequiredSelector: table.SelectorInterval,
			RequiredSource:   source.KindAnalog,
		}
		err := r.RegisterComputer(info, func(variant source.Variant, params map[string]string) (any, error) {
			analog, ok := variant.Analog()
			if !ok {
				return nil, errors.NewConfigurationError("analog source required")
			}
			return NewIntervalReduction(analog, kind)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func registerProperties(r *registry.Registry) error {
	kinds := []struct {
		name        string
		description string
		kind        PropertyKind
	}{
		{"Interval Start", "Start index of each row interval", PropertyStart},
		{"Interval End", "End index of each row interval", PropertyEnd},
		{"Interval Duration", "End minus start of each row interval", PropertyDuration},
	}

	for _, k := range kinds {
		kind := k.kind
		info := registry.ComputerInfo{
			Name:             k.name,
			Description:      k.description,
			ElementType:      table.ElementFloat64,
			RequiredSelector: table.SelectorInterval,
			RequiredSource:   source.KindInterval,
		}
		err := r.RegisterComputer(info, func(variant source.Variant, params map[string]string) (any, error) {
			return NewIntervalProperty(variant.SourceName(), kind), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func registerEvents(r *registry.Registry) error {
	presence := registry.ComputerInfo{
		Name:             "Event Presence",
		Description:      "True when any event falls inside the interval",
		ElementType:      table.ElementBool,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindEvent,
	}
	err := r.RegisterComputer(presence, func(variant source.Variant, params map[string]string) (any, error) {
		events, ok := variant.Event()
		if !ok {
			return nil, errors.NewConfigurationError("event source required")
		}
		return NewEventPresence(events)
	})
	if err != nil {
		return err
	}

	count := registry.ComputerInfo{
		Name:             "Event Count",
		Description:      "Number of events inside the interval",
		ElementType:      table.ElementInt64,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindEvent,
	}
	err = r.RegisterComputer(count, func(variant source.Variant, params map[string]string) (any, error) {
		events, ok := variant.Event()
		if !ok {
			return nil, errors.NewConfigurationError("event source required")
		}
		return NewEventCount(events)
	})
	if err != nil {
		return err
	}

	gather := registry.ComputerInfo{
		Name:             "Event Gather",
		Description:      "Event times inside the interval, in the table's timeframe",
		ElementType:      table.ElementFloat64,
		IsVector:         true,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindEvent,
	}
	return r.RegisterComputer(gather, func(variant source.Variant, params map[string]string) (any, error) {
		events, ok := variant.Event()
		if !ok {
			return nil, errors.NewConfigurationError("event source required")
		}
		return NewEventGather(events)
	})
}

func registerOverlaps(r *registry.Registry) error {
	kinds := []struct {
		name        string
		description string
		kind        OverlapKind
	}{
		{"Interval Overlap Assign ID", "Index of the overlapping source interval, -1 when none", OverlapAssignID},
		{"Interval Overlap Count", "Number of source intervals overlapping each row", OverlapCount},
		{"Interval Overlap Assign Start", "Start of the overlapping source interval, in the table's timeframe", OverlapAssignStart},
		{"Interval Overlap Assign End", "End of the overlapping source interval, in the table's timeframe", OverlapAssignEnd},
	}

	for _, k := range kinds {
		kind := k.kind
		info := registry.ComputerInfo{
			Name:             k.name,
			Description:      k.description,
			ElementType:      table.ElementInt64,
			RequiredSelector: table.SelectorInterval,
			RequiredSource:   source.KindInterval,
		}
		err := r.RegisterComputer(info, func(variant source.Variant, params map[string]string) (any, error) {
			ivs, ok := variant.Interval()
			if !ok {
				return nil, errors.NewConfigurationError("interval source required")
			}
			return NewIntervalOverlap(ivs, kind)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func registerTimestamps(r *registry.Registry) error {
	value := registry.ComputerInfo{
		Name:             "Timestamp Value",
		Description:      "Analog sample at each row timestamp",
		ElementType:      table.ElementFloat64,
		RequiredSelector: table.SelectorTimestamp,
		RequiredSource:   source.KindAnalog,
	}
	err := r.RegisterComputer(value, func(variant source.Variant, params map[string]string) (any, error) {
		analog, ok := variant.Analog()
		if !ok {
			return nil, errors.NewConfigurationError("analog source required")
		}
		return NewTimestampValue(analog)
	})
	if err != nil {
		return err
	}

	inInterval := registry.ComputerInfo{
		Name:             "Timestamp In Interval",
		Description:      "True when the timestamp lies inside any source interval",
		ElementType:      table.ElementBool,
		RequiredSelector: table.SelectorTimestamp,
		RequiredSource:   source.KindInterval,
	}
	err = r.RegisterComputer(inInterval, func(variant source.Variant, params map[string]string) (any, error) {
		ivs, ok := variant.Interval()
		if !ok {
			return nil, errors.NewConfigurationError("interval source required")
		}
		return NewTimestampInInterval(ivs)
	})
	if err != nil {
		return err
	}

	gatherer := registry.ComputerInfo{
		Name:             "Analog Slice Gatherer",
		Description:      "Raw analog samples of each interval as a vector cell",
		ElementType:      table.ElementFloat64,
		IsVector:         true,
		RequiredSelector: table.SelectorInterval,
		RequiredSource:   source.KindAnalog,
	}
	return r.RegisterComputer(gatherer, func(variant source.Variant, params map[string]string) (any, error) {
		analog, ok := variant.Analog()
		if !ok {
			return nil, errors.NewConfigurationError("analog source required")
		}
		return NewAnalogSliceGatherer(analog)
	})
}

func registerMultis(r *registry.Registry) error {
	offsets := registry.ComputerInfo{
		Name:             "Analog Timestamp Offsets",
		Description:      "Analog samples at integer offsets around each timestamp",
		ElementType:      table.ElementFloat64,
		RequiredSelector: table.SelectorTimestamp,
		RequiredSource:   source.KindAnalog,
		Parameters: []registry.ParameterDescriptor{
			registry.TextParameter("offsets", "Comma-separated integer offsets, e.g. -2,-1,0,1", false),
		},
		MakeOutputSuffixes: func(params map[string]string) []string {
			return OffsetSuffixes(ParseOffsets(params["offsets"]))
		},
	}
	err := r.RegisterMultiComputer(offsets, func(variant source.Variant, params map[string]string) (any, error) {
		analog, ok := variant.Analog()
		if !ok {
			return nil, errors.NewConfigurationError("analog source required")
		}
		return NewAnalogTimestampOffsets(analog, ParseOffsets(params["offsets"]))
	})
	if err != nil {
		return err
	}

	lineSample := registry.ComputerInfo{
		Name:             "Line Sample XY",
		Description:      "Line x and y sampled at equally spaced positions",
		ElementType:      table.ElementFloat64,
		RequiredSelector: table.SelectorTimestamp,
		RequiredSource:   source.KindLine,
		Parameters: []registry.ParameterDescriptor{
			registry.IntParameter("segments", "Equal segments along the line; samples segments+1 positions", true, 1, 1000),
		},
		MakeOutputSuffixes: func(params map[string]string) []string {
			sampler := LineSampling{segments: parseSegments(params)}
			return sampler.OutputNames()
		},
	}
	return r.RegisterMultiComputer(lineSample, func(variant source.Variant, params map[string]string) (any, error) {
		line, ok := variant.Line()
		if !ok {
			return nil, errors.NewConfigurationError("line source required")
		}
		return NewLineSampling(line, parseSegments(params))
	})
}

func parseSegments(params map[string]string) int {
	segments := 2
	if raw, ok := params["segments"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			segments = n
		}
	}
	return segments
}

func registerAdapters(r *registry.Registry) error {
	axes := []struct {
		name        string
		description string
		axis        source.PointAxis
	}{
		{"Point X Component", "X coordinate of point data as an analog source", source.AxisX},
		{"Point Y Component", "Y coordinate of point data as an analog source", source.AxisY},
	}
	for _, a := range axes {
		axis := a.axis
		info := registry.AdapterInfo{
			Name:        a.name,
			Description: a.description,
			InputKind:   source.KindPoint,
			OutputKind:  source.KindAnalog,
		}
		err := r.RegisterAdapter(info, func(variant source.Variant, params map[string]string) (source.Variant, error) {
			points, ok := variant.Point()
			if !ok {
				return source.Variant{}, errors.NewConfigurationError("point source required")
			}
			adapted, err := source.NewPointComponent(params["name"], points, axis)
			if err != nil {
				return source.Variant{}, err
			}
			return source.AnalogVariant(adapted), nil
		})
		if err != nil {
			return err
		}
	}

	group := registry.AdapterInfo{
		Name:        "Interval Group",
		Description: "Merge intervals separated by at most max_spacing into single epochs",
		InputKind:   source.KindInterval,
		OutputKind:  source.KindInterval,
		Parameters: []registry.ParameterDescriptor{
			registry.IntParameter("max_spacing", "Largest gap, in source indices, still merged", true, 0, 1<<30),
		},
	}
	return r.RegisterAdapter(group, func(variant source.Variant, params map[string]string) (source.Variant, error) {
		ivs, ok := variant.Interval()
		if !ok {
			return source.Variant{}, errors.NewConfigurationError("interval source required")
		}
		spacing, err := strconv.ParseInt(params["max_spacing"], 10, 64)
		if err != nil {
			return source.Variant{}, errors.NewConfigurationError("max_spacing must be an integer: %v", err)
		}

		tf := ivs.TimeFrame()
		all := ivs.IntervalsInRange(0, timeframe.Index(tf.NumTimes()-1), nil)
		merged := intervals.MergeClose(all, spacing)
		grouped := source.NewIntervalSeries(ivs.Name()+".grouped", merged, nil, tf)
		return source.IntervalVariant(grouped), nil
	})
}
