package join

import "github.com/storemy-labs/joinkit/internal/common"

// JoinStatistics holds size, sortedness, and selectivity estimates used by
// cost-based mode selection (spec.md §9 supplemented feature); the
// nested-loop block size is not derived from it but set by
// Options.BlockSize. It is a re-export of the internal type
// internal/algorithm's cost formulas already operate on, the same
// "re-export from internal for public API" shape the teacher uses for its
// own statistics type.
type JoinStatistics = common.JoinStatistics

// DefaultStatistics returns a conservative guess used when a caller wants
// cost-based selection but has not measured the actual inputs.
func DefaultStatistics() *JoinStatistics {
	return common.DefaultJoinStatistics()
}

// GatherStatistics builds statistics for a prospective join from the two
// sides' lengths (used as cardinalities, sizes, and the right side's
// memory size) and the caller's own leftSorted/rightSorted flags; it does
// not inspect the elements, and Selectivity is a fixed 0.1. Use the result
// as Options.Statistics to enable cost-based mode selection instead of the
// fixed preference order.
func GatherStatistics[L, R any](left Side[L], right Side[R], leftSorted, rightSorted bool) *JoinStatistics {
	return &JoinStatistics{
		LeftCardinality:  left.Len(),
		RightCardinality: right.Len(),
		LeftSize:         left.Len(),
		RightSize:        right.Len(),
		LeftSorted:       leftSorted,
		RightSorted:      rightSorted,
		MemorySize:       right.Len(),
		Selectivity:      0.1,
	}
}
