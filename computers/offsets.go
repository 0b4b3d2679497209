package computers

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucidtrace/tabula/errors"
	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
	"github.com/lucidtrace/tabula/timeframe"
)

// AnalogTimestampOffsets samples an analog source at fixed integer offsets
// around each row timestamp, one output column per offset. Out-of-range
// samples produce NaN.
type AnalogTimestampOffsets struct {
	analog  source.AnalogSource
	offsets []int
}

// NewAnalogTimestampOffsets builds an offset sampler. An empty offset list
// defaults to a single output at the timestamp itself.
func NewAnalogTimestampOffsets(analog source.AnalogSource, offsets []int) (*AnalogTimestampOffsets, error) {
	if analog == nil {
		return nil, errors.NewConfigurationError("analog timestamp offsets requires an analog source")
	}
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	copied := make([]int, len(offsets))
	copy(copied, offsets)
	return &AnalogTimestampOffsets{analog: analog, offsets: copied}, nil
}

func (c *AnalogTimestampOffsets) ComputeBatch(plan *table.ExecutionPlan) ([][]float64, error) {
	if !plan.HasTimestamps() {
		return nil, errors.NewPlanMismatchError("AnalogTimestampOffsets", "timestamps")
	}

	timestamps := plan.Timestamps()
	out := make([][]float64, len(c.offsets))
	for k, off := range c.offsets {
		column := make([]float64, len(timestamps))
		for i, t := range timestamps {
			at := t + timeframe.Index(off)
			data := c.analog.DataInRange(at, at, plan.TimeFrame())
			if len(data) == 0 {
				column[i] = math.NaN()
				continue
			}
			column[i] = data[0]
		}
		out[k] = column
	}
	return out, nil
}

// OutputNames returns one ".t+N" (or ".t-N") suffix per offset.
func (c *AnalogTimestampOffsets) OutputNames() []string {
	return OffsetSuffixes(c.offsets)
}

func (c *AnalogTimestampOffsets) SourceDependency() string { return c.analog.Name() }
func (c *AnalogTimestampOffsets) Dependencies() []string   { return nil }

// OffsetSuffixes renders offset column suffixes: ".t+0", ".t+1", ".t-2".
func OffsetSuffixes(offsets []int) []string {
	if len(offsets) == 0 {
		return []string{".t+0"}
	}
	out := make([]string, len(offsets))
	for i, off := range offsets {
		if off >= 0 {
			out[i] = ".t+" + strconv.Itoa(off)
		} else {
			out[i] = ".t" + strconv.Itoa(off)
		}
	}
	return out
}

// ParseOffsets parses a comma-separated offset list such as "-2,-1,0,1".
// Unparseable tokens fall back to 0; an empty string yields {0}.
func ParseOffsets(csv string) []int {
	var offsets []int
	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		off, err := strconv.Atoi(token)
		if err != nil {
			off = 0
		}
		offsets = append(offsets, off)
	}
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	return offsets
}
