package pipeline

import (
	"time"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/logger"
	"github.com/lucidtrace/tabula/registry"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
	"github.com/lucidtrace/tabula/transform"
)

// Pipeline builds tables from a Config against a dataset. Each table failure
// is logged and recorded; the remaining tables still build.
type Pipeline struct {
	registry *registry.Registry
	tables   *TableRegistry
	data     source.Resolver
	frames   map[string]*timeframe.TimeFrame
}

// TableResult records one table build.
type TableResult struct {
	TableID      string
	ColumnsBuilt int
	BuildTime    time.Duration
	Err          error
}

// Result aggregates a pipeline run.
type Result struct {
	TableResults []TableResult
	Completed    int
}

// Failed reports whether any table build failed.
func (r *Result) Failed() bool {
	return r.Completed < len(r.TableResults)
}

// New wires a pipeline. The frames map names the TimeFrames that inline row
// selectors may reference; it can be nil when every selector binds a source.
func New(reg *registry.Registry, tables *TableRegistry, data source.Resolver, frames map[string]*timeframe.TimeFrame) *Pipeline {
	return &Pipeline{registry: reg, tables: tables, data: data, frames: frames}
}

// Tables returns the registry the pipeline stores builds in.
func (p *Pipeline) Tables() *TableRegistry { return p.tables }

// Run builds every table in the config.
func (p *Pipeline) Run(cfg *Config) *Result {
	result := &Result{}
	for i := range cfg.Tables {
		tc := &cfg.Tables[i]
		start := time.Now()
		columnsBuilt, err := p.buildTable(tc)
		tr := TableResult{
			TableID:      tc.TableID,
			ColumnsBuilt: columnsBuilt,
			BuildTime:    time.Since(start),
			Err:          err,
		}
		result.TableResults = append(result.TableResults, tr)
		if err != nil {
			logger.Errorw("table build failed",
				"table_id", tc.TableID,
				"error", err)
			continue
		}
		result.Completed++
		logger.Infow("table built",
			"table_id", tc.TableID,
			"columns", columnsBuilt)
	}
	return result
}

func (p *Pipeline) buildTable(tc *TableConfig) (int, error) {
	if p.tables.Has(tc.TableID) {
		if err := p.tables.UpdateInfo(tc.TableID, tc.Name, tc.Description); err != nil {
			return 0, err
		}
	} else {
		if err := p.tables.Create(tc.TableID, tc.Name, tc.Description); err != nil {
			return 0, err
		}
	}

	selector, err := p.createRowSelector(&tc.RowSelector)
	if err != nil {
		return 0, err
	}

	b := table.NewBuilder(selector, p.data)
	built := 0
	for i := range tc.Columns {
		if err := p.addColumn(b, &tc.Columns[i]); err != nil {
			return built, errors.Wrapf(err, "column %q", tc.Columns[i].Name)
		}
		built++
	}

	view, err := b.Build()
	if err != nil {
		return built, err
	}
	if err := p.tables.StoreBuilt(tc.TableID, view); err != nil {
		return built, err
	}

	if err := p.applyTransforms(tc); err != nil {
		logger.Errorw("transforms failed for table",
			"table_id", tc.TableID,
			"error", err)
	}
	return built, nil
}

// createRowSelector realizes the configured row space.
func (p *Pipeline) createRowSelector(rc *RowSelectorConfig) (table.RowSelector, error) {
	switch rc.Type {
	case "interval":
		return p.intervalSelector(rc)
	case "timestamp":
		return p.timestampSelector(rc)
	case "index":
		return p.indexSelector(rc)
	default:
		return nil, errors.NewConfigurationError("unknown row selector type %q", rc.Type)
	}
}

func (p *Pipeline) intervalSelector(rc *RowSelectorConfig) (table.RowSelector, error) {
	if rc.Source != "" {
		variant, ok := p.data.Resolve(rc.Source)
		if !ok {
			return nil, errors.NewConfigurationError("cannot resolve interval source %q", rc.Source)
		}
		src, ok := variant.Interval()
		if !ok {
			return nil, errors.NewConfigurationError("source %q is not an interval source", rc.Source)
		}
		tf := src.TimeFrame()
		if tf == nil {
			return nil, errors.NewConfigurationError("interval source %q has no timeframe", rc.Source)
		}
		intervals := src.IntervalsInRange(0, timeframe.Index(tf.NumTimes()-1), nil)
		if len(intervals) == 0 {
			return nil, errors.NewConfigurationError("no intervals found in source %q", rc.Source)
		}
		return table.NewIntervalSelector(intervals, tf), nil
	}

	if len(rc.Intervals) == 0 {
		return nil, errors.NewConfigurationError("interval row selector needs a source or an intervals array")
	}
	tf, err := p.frameFor(rc.Timeframe)
	if err != nil {
		return nil, err
	}
	intervals := make([]timeframe.Interval, 0, len(rc.Intervals))
	for i, raw := range rc.Intervals {
		iv, ok := parseInterval(raw)
		if !ok {
			return nil, errors.NewConfigurationError("invalid interval at position %d", i)
		}
		intervals = append(intervals, iv)
	}
	return table.NewIntervalSelector(intervals, tf), nil
}

func (p *Pipeline) timestampSelector(rc *RowSelectorConfig) (table.RowSelector, error) {
	if len(rc.Timestamps) > 0 {
		tf, err := p.frameFor(rc.Timeframe)
		if err != nil {
			return nil, err
		}
		timestamps := make([]timeframe.Index, 0, len(rc.Timestamps))
		for i, raw := range rc.Timestamps {
			n, ok := asInt64(raw)
			if !ok {
				return nil, errors.NewConfigurationError("invalid timestamp at position %d", i)
			}
			timestamps = append(timestamps, timeframe.Index(n))
		}
		return table.NewTimestampSelector(timestamps, tf), nil
	}

	if rc.Source != "" {
		// An event source contributes its event times; otherwise the name is
		// looked up as a timeframe and every index becomes a row.
		if variant, ok := p.data.Resolve(rc.Source); ok {
			src, isEvent := variant.Event()
			if !isEvent {
				return nil, errors.NewConfigurationError("timestamp source %q is not an event source", rc.Source)
			}
			tf := src.TimeFrame()
			if tf == nil {
				return nil, errors.NewConfigurationError("event source %q has no timeframe", rc.Source)
			}
			events := src.EventsInRange(0, timeframe.Index(tf.NumTimes()-1), nil)
			timestamps := make([]timeframe.Index, len(events))
			for i, e := range events {
				timestamps[i] = timeframe.Index(int64(e))
			}
			return table.NewTimestampSelector(timestamps, tf), nil
		}
		if tf, ok := p.frames[rc.Source]; ok {
			timestamps := make([]timeframe.Index, tf.NumTimes())
			for i := range timestamps {
				timestamps[i] = timeframe.Index(i)
			}
			return table.NewTimestampSelector(timestamps, tf), nil
		}
		return nil, errors.NewConfigurationError("cannot resolve timestamp source %q", rc.Source)
	}
	return nil, errors.NewConfigurationError("timestamp row selector needs a source or a timestamps array")
}

func (p *Pipeline) indexSelector(rc *RowSelectorConfig) (table.RowSelector, error) {
	if len(rc.Indices) == 0 {
		return nil, errors.NewConfigurationError("index row selector needs an indices array")
	}
	indices := make([]int, 0, len(rc.Indices))
	for i, raw := range rc.Indices {
		n, ok := asInt64(raw)
		if !ok {
			return nil, errors.NewConfigurationError("invalid index at position %d", i)
		}
		indices = append(indices, int(n))
	}
	return table.NewIndexSelector(indices), nil
}

// frameFor resolves an inline selector's timeframe reference. An empty name
// means no frame, which is fine for identity index spaces.
func (p *Pipeline) frameFor(name string) (*timeframe.TimeFrame, error) {
	if name == "" {
		return nil, nil
	}
	tf, ok := p.frames[name]
	if !ok {
		return nil, errors.NewConfigurationError("cannot resolve timeframe %q", name)
	}
	return tf, nil
}

// parseInterval accepts [start, end] pairs and {start, end} objects.
func parseInterval(raw any) (timeframe.Interval, bool) {
	switch v := raw.(type) {
	case []any:
		if len(v) != 2 {
			return timeframe.Interval{}, false
		}
		start, ok1 := asInt64(v[0])
		end, ok2 := asInt64(v[1])
		if !ok1 || !ok2 {
			return timeframe.Interval{}, false
		}
		return timeframe.Interval{Start: timeframe.Index(start), End: timeframe.Index(end)}, true
	case map[string]any:
		start, ok1 := asInt64(v["start"])
		end, ok2 := asInt64(v["end"])
		if !ok1 || !ok2 {
			return timeframe.Interval{}, false
		}
		return timeframe.Interval{Start: timeframe.Index(start), End: timeframe.Index(end)}, true
	default:
		return timeframe.Interval{}, false
	}
}

// addColumn instantiates the configured computer and adds it to the builder
// under the column's element type.
func (p *Pipeline) addColumn(b *table.Builder, cc *ColumnConfig) error {
	info, ok := p.registry.FindComputerInfo(cc.Computer)
	if !ok {
		return errors.NewConfigurationError("computer not registered: %s", cc.Computer)
	}

	variant, err := p.resolveDataSource(cc.DataSource)
	if err != nil {
		return err
	}
	params := cc.StringParams()

	if info.IsMultiOutput {
		computer := registry.CreateTypedMulti[float64](p.registry, cc.Computer, variant, params)
		if computer == nil {
			return errors.NewConfigurationError("failed to create computer %q", cc.Computer)
		}
		table.AddColumns[float64](b, cc.Name, computer)
		return nil
	}

	switch {
	case info.IsVector:
		computer := registry.CreateTyped[[]float64](p.registry, cc.Computer, variant, params)
		if computer == nil {
			return errors.NewConfigurationError("failed to create computer %q", cc.Computer)
		}
		table.AddColumn[[]float64](b, cc.Name, computer)
	case info.ElementType == table.ElementInt64:
		computer := registry.CreateTyped[int64](p.registry, cc.Computer, variant, params)
		if computer == nil {
			return errors.NewConfigurationError("failed to create computer %q", cc.Computer)
		}
		table.AddColumn[int64](b, cc.Name, computer)
	case info.ElementType == table.ElementBool:
		computer := registry.CreateTyped[bool](p.registry, cc.Computer, variant, params)
		if computer == nil {
			return errors.NewConfigurationError("failed to create computer %q", cc.Computer)
		}
		table.AddColumn[bool](b, cc.Name, computer)
	default:
		computer := registry.CreateTyped[float64](p.registry, cc.Computer, variant, params)
		if computer == nil {
			return errors.NewConfigurationError("failed to create computer %q", cc.Computer)
		}
		table.AddColumn[float64](b, cc.Name, computer)
	}
	return nil
}

// resolveDataSource accepts a plain source name or an object routing the
// source through a registry adapter: {key, adapter, parameters}.
func (p *Pipeline) resolveDataSource(raw any) (source.Variant, error) {
	switch ds := raw.(type) {
	case string:
		variant, ok := p.data.Resolve(ds)
		if !ok {
			return source.Variant{}, errors.NewConfigurationError("cannot resolve data source %q", ds)
		}
		return variant, nil
	case map[string]any:
		key, _ := ds["key"].(string)
		adapter, _ := ds["adapter"].(string)
		if key == "" || adapter == "" {
			return source.Variant{}, errors.NewConfigurationError("data source object needs key and adapter fields")
		}
		variant, ok := p.data.Resolve(key)
		if !ok {
			return source.Variant{}, errors.NewConfigurationError("cannot resolve data source %q", key)
		}
		var params map[string]string
		if rawParams, ok := ds["parameters"].(map[string]any); ok {
			params = stringifyParams(rawParams)
		}
		adapted := p.registry.CreateAdapter(adapter, variant, params)
		if adapted.IsZero() {
			return source.Variant{}, errors.NewConfigurationError("adapter %q failed for source %q", adapter, key)
		}
		return adapted, nil
	default:
		return source.Variant{}, errors.NewConfigurationError("invalid data source specification")
	}
}

// applyTransforms derives and stores the configured transform outputs of a
// just-built base table. A failed transform does not unwind the base build.
func (p *Pipeline) applyTransforms(tc *TableConfig) error {
	if len(tc.Transforms) == 0 {
		return nil
	}
	base, ok := p.tables.Get(tc.TableID)
	if !ok {
		return errors.NewConfigurationError("base table not found: %s", tc.TableID)
	}

	var firstErr error
	for i := range tc.Transforms {
		t := &tc.Transforms[i]
		if err := p.applyTransform(tc, t, base); err != nil {
			logger.Errorw("transform failed",
				"table_id", tc.TableID,
				"type", t.Type,
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (p *Pipeline) applyTransform(tc *TableConfig, t *TransformConfig, base *table.TableView) error {
	if t.Type != "PCA" {
		return errors.NewConfigurationError("unknown transform type %q", t.Type)
	}

	cfg := transform.Config{
		Center:      boolParam(t.Parameters, "center", true),
		Standardize: boolParam(t.Parameters, "standardize", false),
		Include:     asStringSlice(t.Parameters["include"]),
		Exclude:     asStringSlice(t.Parameters["exclude"]),
	}
	derived, err := transform.NewPCA(cfg).Apply(base)
	if err != nil {
		return err
	}

	outID := t.OutputTableID
	if outID == "" {
		outID = p.tables.GenerateUniqueID(tc.TableID + "_pca")
	}
	outName := t.OutputName
	if outName == "" {
		outName = tc.Name + " (PCA)"
	}

	if p.tables.Has(outID) {
		if err := p.tables.UpdateInfo(outID, outName, t.OutputDescription); err != nil {
			return err
		}
	} else {
		if err := p.tables.Create(outID, outName, t.OutputDescription); err != nil {
			return err
		}
	}
	return p.tables.StoreBuilt(outID, derived)
}
