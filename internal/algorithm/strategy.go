package algorithm

import (
	"math"

	"github.com/storemy-labs/joinkit/internal/common"
)

// NestedLoopCost estimates scanning the right side once per left element.
func NestedLoopCost(stats *common.JoinStatistics) float64 {
	if stats == nil {
		return common.DefaultHighCost
	}
	return float64(stats.LeftCardinality) * float64(stats.RightSize)
}

// SortCost estimates one sort of the right side unless it is already
// ordered, plus a single linear pass across both sides. The left side is
// never sorted by the Sort executor, so its order is not charged.
func SortCost(stats *common.JoinStatistics) float64 {
	if stats == nil {
		return common.DefaultHighCost
	}
	cost := float64(stats.LeftCardinality + stats.RightCardinality)
	if !stats.RightSorted {
		cost += nlogn(stats.RightCardinality)
	}
	return cost
}

// HashCost estimates one linear build pass over the right side plus one
// O(1) probe per left element.
func HashCost(stats *common.JoinStatistics) float64 {
	if stats == nil {
		return common.DefaultHighCost
	}
	return float64(stats.RightCardinality) + float64(stats.LeftCardinality)
}

// TreeCost estimates one O(n log n) tree build plus an O(log n) probe per
// left element, inflated by selectivity since a radius query widens past a
// single tree path as more points qualify.
func TreeCost(stats *common.JoinStatistics) float64 {
	if stats == nil {
		return common.DefaultHighCost
	}
	n := float64(stats.RightCardinality)
	build := nlogn(stats.RightCardinality)
	probe := float64(stats.LeftCardinality) * (math.Log2(n+1) + stats.Selectivity*n)
	return build + probe
}

func nlogn(n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(n) * math.Log2(float64(n))
}

// BlockSize derives a nested-loop scan block size from the right side's
// reported memory footprint, so a large right side is walked in bounded
// chunks rather than one unbounded pass. A non-positive or missing
// footprint means "no bound", signaled by returning 0.
func BlockSize(stats *common.JoinStatistics) int {
	if stats == nil || stats.MemorySize <= 0 {
		return 0
	}
	return stats.MemorySize
}
