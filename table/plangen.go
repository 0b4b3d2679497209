package table

import (
	"github.com/lucidtrace/tabula/logger"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/timeframe"
)

// generateExecutionPlan realizes the row selector against one named source.
// Dispatch is over (selector kind, source kind); line sources under
// timestamp selectors entity-expand. An unknown source name degrades to a
// selector-only plan with a warning rather than failing the whole table.
func (v *TableView) generateExecutionPlan(sourceName string) (*ExecutionPlan, error) {
	if sourceName == "" {
		// Derived tables (transform outputs) carry no source binding.
		return v.selectorOnlyPlan(), nil
	}

	variant, ok := v.resolver.Resolve(sourceName)
	if !ok {
		logger.Warnw("data source not found, generating plan from selector only",
			"source", sourceName,
			"selector", v.selector.Kind().String())
		return v.selectorOnlyPlan(), nil
	}

	if line, isLine := variant.Line(); isLine {
		return v.planFromLine(sourceName, line), nil
	}
	return v.planFromFlat(sourceName, variant.Kind()), nil
}

// selectorOnlyPlan realizes the selector with no source binding.
func (v *TableView) selectorOnlyPlan() *ExecutionPlan {
	switch sel := v.selector.(type) {
	case *IntervalSelector:
		return &ExecutionPlan{intervals: sel.Intervals(), tf: sel.TimeFrame()}
	case *TimestampSelector:
		return &ExecutionPlan{timestamps: sel.Timestamps(), tf: sel.TimeFrame()}
	default:
		idx := v.selector.(*IndexSelector)
		return &ExecutionPlan{indices: idx.Indices()}
	}
}

// planFromFlat covers analog, event, interval and point sources: one row per
// selector entry, no expansion.
func (v *TableView) planFromFlat(sourceName string, kind source.Kind) *ExecutionPlan {
	switch sel := v.selector.(type) {
	case *IntervalSelector:
		return &ExecutionPlan{
			intervals:  sel.Intervals(),
			tf:         sel.TimeFrame(),
			sourceName: sourceName,
			sourceKind: kind,
		}
	case *TimestampSelector:
		return &ExecutionPlan{
			timestamps: sel.Timestamps(),
			tf:         sel.TimeFrame(),
			sourceName: sourceName,
			sourceKind: kind,
		}
	default:
		sel2 := v.selector.(*IndexSelector)
		logger.Warnw("index selector is not supported for this source kind",
			"source", sourceName,
			"kind", kind.String())
		return &ExecutionPlan{
			indices:    sel2.Indices(),
			sourceName: sourceName,
			sourceKind: kind,
		}
	}
}

// planFromLine covers the entity-expandable source kind.
func (v *TableView) planFromLine(sourceName string, line source.LineSource) *ExecutionPlan {
	switch sel := v.selector.(type) {
	case *IntervalSelector:
		// Legacy contract: one row per interval, no expansion.
		return &ExecutionPlan{
			intervals:  sel.Intervals(),
			tf:         sel.TimeFrame(),
			sourceName: sourceName,
			sourceKind: source.KindLine,
		}
	case *TimestampSelector:
		return v.expandedPlan(sourceName, line, sel)
	default:
		sel2 := v.selector.(*IndexSelector)
		logger.Warnw("index selector is not supported for line data",
			"source", sourceName)
		return &ExecutionPlan{
			indices:    sel2.Indices(),
			sourceName: sourceName,
			sourceKind: source.KindLine,
		}
	}
}

// expandedPlan emits one row per line per timestamp, recording the
// contiguous span each timestamp occupies. A timestamp with no lines emits a
// placeholder row only when some other column depends on a non-line source,
// so the flat columns keep their row.
func (v *TableView) expandedPlan(sourceName string, line source.LineSource, sel *TimestampSelector) *ExecutionPlan {
	anyNonLine := false
	for _, col := range v.columns {
		dep := col.SourceDependency()
		if variant, ok := v.resolver.Resolve(dep); ok {
			if _, isLine := variant.Line(); !isLine {
				anyNonLine = true
				break
			}
		}
	}

	timestamps := sel.Timestamps()
	rows := make([]RowID, 0, len(timestamps))
	spans := make(map[timeframe.Index]Span, len(timestamps))

	cursor := 0
	for _, t := range timestamps {
		count := line.EntityCountAt(t)
		if count == 0 {
			if anyNonLine {
				spans[t] = Span{Start: cursor, Count: 1}
				rows = append(rows, RowID{Timestamp: t, Entity: -1})
				cursor++
			}
			continue
		}
		spans[t] = Span{Start: cursor, Count: count}
		for i := 0; i < count; i++ {
			rows = append(rows, RowID{Timestamp: t, Entity: i})
			cursor++
		}
	}

	return &ExecutionPlan{
		timestamps: timestamps,
		tf:         sel.TimeFrame(),
		rows:       rows,
		spans:      spans,
		sourceName: sourceName,
		sourceKind: source.KindLine,
	}
}
