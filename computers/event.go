package computers

import (
	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// EventPresence reports whether any event falls inside each row interval.
type EventPresence struct {
	events source.EventSource
}

// NewEventPresence builds a presence detector over an event source.
func NewEventPresence(events source.EventSource) (*EventPresence, error) {
	if events == nil {
		return nil, errors.NewConfigurationError("event presence requires an event source")
	}
	return &EventPresence{events: events}, nil
}

func (c *EventPresence) Compute(plan *table.ExecutionPlan) ([]bool, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("EventPresence", "intervals")
	}

	intervals := plan.Intervals()
	out := make([]bool, len(intervals))
	for i, iv := range intervals {
		out[i] = len(c.events.EventsInRange(iv.Start, iv.End, plan.TimeFrame())) > 0
	}
	return out, nil
}

func (c *EventPresence) SourceDependency() string { return c.events.Name() }
func (c *EventPresence) Dependencies() []string   { return nil }

// EventCount counts the events inside each row interval.
type EventCount struct {
	events source.EventSource
}

// NewEventCount builds an event counter over an event source.
func NewEventCount(events source.EventSource) (*EventCount, error) {
	if events == nil {
		return nil, errors.NewConfigurationError("event count requires an event source")
	}
	return &EventCount{events: events}, nil
}

func (c *EventCount) Compute(plan *table.ExecutionPlan) ([]int64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("EventCount", "intervals")
	}

	intervals := plan.Intervals()
	out := make([]int64, len(intervals))
	for i, iv := range intervals {
		out[i] = int64(len(c.events.EventsInRange(iv.Start, iv.End, plan.TimeFrame())))
	}
	return out, nil
}

func (c *EventCount) SourceDependency() string { return c.events.Name() }
func (c *EventCount) Dependencies() []string   { return nil }

// EventGather collects the event times inside each row interval, expressed in
// the plan's timeframe. An interval with no events yields an empty cell, not
// a nil one.
type EventGather struct {
	events source.EventSource
}

// NewEventGather builds an event gatherer over an event source.
func NewEventGather(events source.EventSource) (*EventGather, error) {
	if events == nil {
		return nil, errors.NewConfigurationError("event gather requires an event source")
	}
	return &EventGather{events: events}, nil
}

func (c *EventGather) Compute(plan *table.ExecutionPlan) ([][]float64, error) {
	if !plan.HasIntervals() {
		return nil, errors.NewPlanMismatchError("EventGather", "intervals")
	}

	intervals := plan.Intervals()
	out := make([][]float64, len(intervals))
	for i, iv := range intervals {
		events := c.events.EventsInRange(iv.Start, iv.End, plan.TimeFrame())
		if events == nil {
			events = []float64{}
		}
		out[i] = events
	}
	return out, nil
}

func (c *EventGather) SourceDependency() string { return c.events.Name() }
func (c *EventGather) Dependencies() []string   { return nil }
