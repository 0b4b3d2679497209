// Package intervals holds the interval grouping kernel used to merge
// close-together detections into single epochs before tabulation.
package intervals

import (
	"sort"

	"github.com/lucidtrace/tabula/timeframe"
)

// MergeClose merges intervals whose gap is at most maxSpacing. The gap
// between (1,2) and (4,5) is 1, the index 3 between them; adjacent intervals
// like (1,2) and (3,4) have gap 0 and merge even at spacing 0. Input order
// does not matter; the result is sorted by start and non-overlapping. The
// result is never nil.
func MergeClose(ivs []timeframe.Interval, maxSpacing int64) []timeframe.Interval {
	out := make([]timeframe.Interval, 0, len(ivs))
	if len(ivs) == 0 {
		return out
	}

	sorted := make([]timeframe.Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	current := sorted[0]
	for _, iv := range sorted[1:] {
		gap := int64(iv.Start) - int64(current.End) - 1
		if gap <= maxSpacing {
			if iv.End > current.End {
				current.End = iv.End
			}
			continue
		}
		out = append(out, current)
		current = iv
	}
	out = append(out, current)
	return out
}
