package algorithm

import (
	"sort"

	"github.com/storemy-labs/joinkit/internal/common"
)

// vpNode is one node of a vantage-point tree over right-side coordinates.
type vpNode struct {
	idx       int
	threshold float64
	inside    *vpNode
	outside   *vpNode
}

// Tree implements the nearest-neighbor / distance-threshold executor
// (spec.md §4.8) as a vantage-point tree. No library anywhere in the
// retrieval pack offers a metric-tree implementation, so this one is
// hand-rolled; it is exact, not approximate — the triangle inequality only
// lets it skip subtrees that provably cannot contain a qualifying point,
// it never skips one that does.
type Tree[L, R any, C any] struct {
	coordL func(L) C
	coordR func(R) C
	metric func(a, b C) float64
	radius float64
	strict bool // true: distance < radius; false: distance <= radius

	right  common.Reader[R]
	coords []C
	root   *vpNode
}

// NewTree builds a metric-tree executor over coordL/coordR under metric,
// matching every right element within radius of a left element.
func NewTree[L, R any, C any](coordL func(L) C, coordR func(R) C, metric func(a, b C) float64, radius float64, strict bool) *Tree[L, R, C] {
	return &Tree[L, R, C]{coordL: coordL, coordR: coordR, metric: metric, radius: radius, strict: strict}
}

func (t *Tree[L, R, C]) Prepare(right common.Reader[R]) error {
	t.right = right
	n := right.Len()
	t.coords = make([]C, n)
	idxs := make([]int, n)
	for i := 0; i < n; i++ {
		t.coords[i] = t.coordR(right.At(i))
		idxs[i] = i
	}
	t.root = t.build(idxs)
	return nil
}

func (t *Tree[L, R, C]) build(idxs []int) *vpNode {
	if len(idxs) == 0 {
		return nil
	}
	vp := idxs[0]
	rest := idxs[1:]
	if len(rest) == 0 {
		return &vpNode{idx: vp}
	}

	dists := make([]float64, len(rest))
	for i, ri := range rest {
		dists[i] = t.metric(t.coords[vp], t.coords[ri])
	}
	median := medianOf(dists)

	var inside, outside []int
	for i, ri := range rest {
		if dists[i] <= median {
			inside = append(inside, ri)
		} else {
			outside = append(outside, ri)
		}
	}
	if len(outside) == 0 && len(rest) > 1 {
		// Every point is within the median distance: move the points at
		// exactly the median outside, so inside < threshold <= outside
		// still holds for search's pruning rule.
		inside, outside = nil, nil
		for i, ri := range rest {
			if dists[i] < median {
				inside = append(inside, ri)
			} else {
				outside = append(outside, ri)
			}
		}
	}

	return &vpNode{
		idx:       vp,
		threshold: median,
		inside:    t.build(inside),
		outside:   t.build(outside),
	}
}

func medianOf(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func (t *Tree[L, R, C]) Probe(li int, l L) ([]int, error) {
	q := t.coordL(l)
	var out []int
	t.search(t.root, q, &out)
	return out, nil
}

func (t *Tree[L, R, C]) within(d float64) bool {
	if t.strict {
		return d < t.radius
	}
	return d <= t.radius
}

// search walks the tree, pruning a child subtree only when the triangle
// inequality proves no point in it can be within radius of q.
func (t *Tree[L, R, C]) search(node *vpNode, q C, out *[]int) {
	if node == nil {
		return
	}
	d := t.metric(q, t.coords[node.idx])
	if t.within(d) {
		*out = append(*out, node.idx)
	}
	if node.inside == nil && node.outside == nil {
		return
	}
	if d-t.radius <= node.threshold {
		t.search(node.inside, q, out)
	}
	if d+t.radius >= node.threshold {
		t.search(node.outside, q, out)
	}
}

func (t *Tree[L, R, C]) Close() {
	t.right = nil
	t.coords = nil
	t.root = nil
}
