// Package common holds the types shared between the root join package and
// internal/algorithm without creating an import cycle: the root package
// builds executors from internal/algorithm, so internal/algorithm cannot
// import the root package back.
package common

const (
	// DefaultHighCost is returned by cost formulas when statistics are
	// missing, so that an unsupported or unknown-cost algorithm never wins
	// a cost comparison it has no business winning.
	DefaultHighCost = 1e12
)

// Reader is the read side of join.Side[T], duplicated here so that
// internal/algorithm can accept a Side without importing the root package.
// Every join.Side[T] implementation automatically satisfies Reader[T] too,
// since Go interface satisfaction is structural.
type Reader[T any] interface {
	Len() int
	At(i int) T
}

// Executor produces, for a given left element, the exact set of right-side
// indices that satisfy a condition. Prepare builds whatever auxiliary
// structure the algorithm needs (a sort permutation, a hash map, a metric
// tree); Probe is called once per left element, in index order unless the
// join runs its probes in parallel.
//
// An Executor always returns the *exact* match set for multi=all — the
// multi/closest/first/last reduction happens one layer up, in the result
// assembler, and a Composite's post-filter is applied by the composite
// executor wrapping its anchor. This is what makes the four algorithms
// mode-equivalent: they differ only in how fast they find the same
// candidates.
type Executor[L, R any] interface {
	Prepare(right Reader[R]) error
	Probe(li int, l L) ([]int, error)
	Close()
}

// JoinStatistics holds size, sortedness, and selectivity estimates used by
// cost-based mode selection (spec.md §4.4's default is a fixed preference
// order; statistics refine it). internal/algorithm's BlockSize can derive a
// nested-loop block size from MemorySize; the join entry points do not call
// it and take the block size from Options.BlockSize only.
type JoinStatistics struct {
	LeftCardinality, RightCardinality int
	LeftSize, RightSize               int // abstract "page" units
	LeftSorted, RightSorted           bool
	MemorySize                        int
	Selectivity                       float64
}

// DefaultJoinStatistics returns a conservative guess used when the caller
// supplies no statistics at all.
func DefaultJoinStatistics() *JoinStatistics {
	return &JoinStatistics{
		LeftCardinality:  1000,
		RightCardinality: 1000,
		LeftSize:         10,
		RightSize:        10,
		MemorySize:       100,
		Selectivity:      0.1,
	}
}
