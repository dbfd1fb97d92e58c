package algorithm

import "github.com/storemy-labs/joinkit/internal/common"

// Hash implements an equi-join lookup (spec.md §4.7). It builds a
// key -> right-indices map over the right side in a single pass and probes
// it once per left element.
//
// The right-index groups are stored as inverse-CSR: starts[0..g] and rperm
// cover the sorted-by-first-appearance distinct keys, with the indices
// sharing key k occupying rperm[starts[k] : starts[k+1]]. A probe is a map
// lookup plus a slice of rperm — no allocation, and the returned slice is a
// view, never a copy.
type Hash[L, R any, K comparable] struct {
	keyL func(L) K
	keyR func(R) K

	ids    map[K]int
	starts []int
	rperm  []int
}

// NewHash builds a hash executor keyed by keyL / keyR.
func NewHash[L, R any, K comparable](keyL func(L) K, keyR func(R) K) *Hash[L, R, K] {
	return &Hash[L, R, K]{keyL: keyL, keyR: keyR}
}

func (h *Hash[L, R, K]) Prepare(right common.Reader[R]) error {
	n := right.Len()
	h.ids = make(map[K]int)
	groups := make([][]int, 0, n)

	for ri := 0; ri < n; ri++ {
		k := h.keyR(right.At(ri))
		id, ok := h.ids[k]
		if !ok {
			id = len(groups)
			h.ids[k] = id
			groups = append(groups, nil)
		}
		groups[id] = append(groups[id], ri)
	}

	h.starts = make([]int, len(groups)+1)
	total := 0
	for i, g := range groups {
		h.starts[i] = total
		total += len(g)
		_ = i
	}
	h.starts[len(groups)] = total

	h.rperm = make([]int, 0, total)
	for _, g := range groups {
		h.rperm = append(h.rperm, g...)
	}
	return nil
}

func (h *Hash[L, R, K]) Probe(li int, l L) ([]int, error) {
	id, ok := h.ids[h.keyL(l)]
	if !ok {
		return nil, nil
	}
	return h.rperm[h.starts[id]:h.starts[id+1]], nil
}

func (h *Hash[L, R, K]) Close() {
	h.ids = nil
	h.starts = nil
	h.rperm = nil
}
