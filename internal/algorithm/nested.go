package algorithm

import "github.com/storemy-labs/joinkit/internal/common"

// MatchFunc evaluates a condition directly against one (l, r) pair, given
// their positional indices. Every atomic and composite condition can
// produce one of these regardless of mode support, which is what makes
// NestedLoop the universal correctness fallback (spec.md §4.5).
type MatchFunc[L, R any] func(li int, l L, ri int, r R) (bool, error)

// NestedLoop is the baseline O(|L|*|R|) executor: for every left element it
// scans the right side in blocks and evaluates MatchFunc directly. Blocking
// the right-side scan by a left-side window (rather than scanning one left
// element at a time) is the teacher's block-nested-loop shape, generalized
// here to: for a single left element, scan right in BlockSize chunks so very
// large right sides don't force one huge allocation-free pass to look
// different from a bounded-memory one.
//
// NestedLoop supports every condition; it is not preferred by automatic
// selection (spec.md §4.4) but is always available for a pinned Mode, and
// is the fallback for any condition (atomic, or a Composite none of whose
// children supports an indexed mode) that has no indexed mode.
type NestedLoop[L, R any] struct {
	match     MatchFunc[L, R]
	right     common.Reader[R]
	blockSize int
}

// NewNestedLoop builds a nested-loop executor. blockSize <= 0 falls back to
// scanning the whole right side in one block.
func NewNestedLoop[L, R any](match MatchFunc[L, R], blockSize int) *NestedLoop[L, R] {
	return &NestedLoop[L, R]{match: match, blockSize: blockSize}
}

func (n *NestedLoop[L, R]) Prepare(right common.Reader[R]) error {
	n.right = right
	return nil
}

func (n *NestedLoop[L, R]) Probe(li int, l L) ([]int, error) {
	var out []int
	total := n.right.Len()
	block := n.blockSize
	if block <= 0 {
		block = total
		if block == 0 {
			block = 1
		}
	}

	for start := 0; start < total; start += block {
		end := start + block
		if end > total {
			end = total
		}
		for ri := start; ri < end; ri++ {
			ok, err := n.match(li, l, ri, n.right.At(ri))
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, ri)
			}
		}
	}
	return out, nil
}

func (n *NestedLoop[L, R]) Close() {
	n.right = nil
}
