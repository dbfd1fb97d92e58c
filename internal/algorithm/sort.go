package algorithm

import (
	"cmp"
	"sort"

	"github.com/storemy-labs/joinkit/internal/common"
)

// Relation names an ordered comparison operator for the Sort executor.
type Relation int

const (
	RelLT Relation = iota
	RelLE
	RelEQ
	RelGE
	RelGT
)

// sortPermutation returns a permutation of right's indices ascending by
// key, stable on ties (original index order preserved). When chain is true
// the caller has asserted right is already sorted by key, so the identity
// permutation is returned without touching the data (spec.md §4.6
// SortChain).
func sortPermutation[R any, K cmp.Ordered](right common.Reader[R], key func(R) K, chain bool) []int {
	n := right.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if chain {
		return perm
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return key(right.At(perm[i])) < key(right.At(perm[j]))
	})
	return perm
}

// Sort implements the sort-based executor for the ordered predicate
// operators <, <=, =, >=, > (spec.md §4.6). It sorts the right side once
// (or trusts the caller's SortChain assertion) and resolves each left
// element to a contiguous slice of the permutation via binary search.
type Sort[L, R any, K cmp.Ordered] struct {
	keyL  func(L) K
	keyR  func(R) K
	rel   Relation
	chain bool

	right common.Reader[R]
	perm  []int
}

// NewSort builds a sort executor for the ordered relation rel. chain=true
// skips sorting and trusts the right side is already ordered by keyR.
func NewSort[L, R any, K cmp.Ordered](keyL func(L) K, keyR func(R) K, rel Relation, chain bool) *Sort[L, R, K] {
	return &Sort[L, R, K]{keyL: keyL, keyR: keyR, rel: rel, chain: chain}
}

func (s *Sort[L, R, K]) Prepare(right common.Reader[R]) error {
	s.right = right
	s.perm = sortPermutation[R, K](right, s.keyR, s.chain)
	return nil
}

func (s *Sort[L, R, K]) Probe(li int, l L) ([]int, error) {
	lo, hi := s.bounds(s.keyL(l))
	return s.perm[lo:hi], nil
}

// bounds resolves kL to the [lo, hi) slice of the permutation satisfying
// "kL rel keyR(r)", per the table in spec.md §4.6 step 2.
func (s *Sort[L, R, K]) bounds(kL K) (int, int) {
	n := len(s.perm)
	lowerBound := func(x K) int {
		return sort.Search(n, func(i int) bool { return !(s.keyR(s.right.At(s.perm[i])) < x) })
	}
	upperBound := func(x K) int {
		return sort.Search(n, func(i int) bool { return x < s.keyR(s.right.At(s.perm[i])) })
	}

	switch s.rel {
	case RelLT:
		return upperBound(kL), n
	case RelLE:
		return lowerBound(kL), n
	case RelGT:
		return 0, lowerBound(kL)
	case RelGE:
		return 0, upperBound(kL)
	default: // RelEQ
		return lowerBound(kL), upperBound(kL)
	}
}

func (s *Sort[L, R, K]) Close() {
	s.right = nil
	s.perm = nil
}

// SortContains implements the sort-based executor for the `∋` operator: an
// interval on the left side against a point on the right side (spec.md
// §4.6 step 2, the `∋` bullet). leftBounds extracts the interval's low and
// high endpoints and their open/closed flags from a left element.
type SortContains[L, R any, K cmp.Ordered] struct {
	leftBounds func(L) (lo, hi K, loClosed, hiClosed bool)
	keyR       func(R) K
	chain      bool

	right common.Reader[R]
	perm  []int
}

// NewSortContains builds a sort executor for the `∋` operator.
func NewSortContains[L, R any, K cmp.Ordered](
	leftBounds func(L) (lo, hi K, loClosed, hiClosed bool),
	keyR func(R) K,
	chain bool,
) *SortContains[L, R, K] {
	return &SortContains[L, R, K]{leftBounds: leftBounds, keyR: keyR, chain: chain}
}

func (s *SortContains[L, R, K]) Prepare(right common.Reader[R]) error {
	s.right = right
	s.perm = sortPermutation[R, K](right, s.keyR, s.chain)
	return nil
}

func (s *SortContains[L, R, K]) Probe(li int, l L) ([]int, error) {
	lo, hi, loClosed, hiClosed := s.leftBounds(l)
	n := len(s.perm)

	var start int
	if loClosed {
		start = sort.Search(n, func(i int) bool { return !(s.keyR(s.right.At(s.perm[i])) < lo) })
	} else {
		start = sort.Search(n, func(i int) bool { return lo < s.keyR(s.right.At(s.perm[i])) })
	}

	var end int
	if hiClosed {
		end = sort.Search(n, func(i int) bool { return hi < s.keyR(s.right.At(s.perm[i])) })
	} else {
		end = sort.Search(n, func(i int) bool { return !(s.keyR(s.right.At(s.perm[i])) < hi) })
	}

	if start > end {
		start = end
	}
	return s.perm[start:end], nil
}

func (s *SortContains[L, R, K]) Close() {
	s.right = nil
	s.perm = nil
}
