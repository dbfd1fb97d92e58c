package join

import (
	"github.com/storemy-labs/joinkit/internal/algorithm"
	"github.com/storemy-labs/joinkit/internal/common"
)

// composite is a conjunction of atomic conditions (spec.md §3, §4.1).
// Composite always flattens: And never nests a composite inside another.
type composite[L, R any] struct {
	children []Condition[L, R]
}

// And builds the conjunction of the given conditions, matching iff every
// one matches. Nested composites are flattened so a composite always
// holds a flat list of non-composite children (spec.md §4.1).
func And[L, R any](conds ...Condition[L, R]) Condition[L, R] {
	var children []Condition[L, R]
	for _, c := range conds {
		if nested, ok := c.(*composite[L, R]); ok {
			children = append(children, nested.children...)
			continue
		}
		children = append(children, c)
	}
	return &composite[L, R]{children: children}
}

func (c *composite[L, R]) isCondition() {}

func (c *composite[L, R]) match(li int, l L, ri int, r R) (bool, error) {
	for _, ch := range c.children {
		ok, err := ch.match(li, l, ri, r)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// supportedModes: NestedLoop always works (every child supports it). An
// indexed mode is available whenever at least one child supports it, so
// that child can serve as the anchor (spec.md §4.2, §4.4).
func (c *composite[L, R]) supportedModes() []Mode {
	seen := map[Mode]bool{ModeNestedLoop: true}
	for _, ch := range c.children {
		for _, m := range ch.supportedModes() {
			switch m {
			case ModeHash, ModeTree, ModeSort, ModeSortChain:
				seen[m] = true
			}
		}
	}
	out := make([]Mode, 0, len(seen))
	for _, m := range modePreference {
		if seen[m] {
			out = append(out, m)
		}
	}
	if seen[ModeNestedLoop] {
		out = append(out, ModeNestedLoop)
	}
	return out
}

func (c *composite[L, R]) swap() Condition[R, L] {
	swapped := make([]Condition[R, L], len(c.children))
	for i, ch := range c.children {
		swapped[i] = ch.swap()
	}
	return &composite[R, L]{children: swapped}
}

// closer has no fixed meaning on a bare composite: under an indexed mode
// buildExecutor returns the anchor child as the ranker, so ranking follows
// that child (spec.md §9 open question). Under ModeNestedLoop there is no
// anchor and the composite itself is the ranker; closer then always
// reports false, so multi=closest picks the smallest matching index.
func (c *composite[L, R]) closer(l L, a, b R) (bool, error) {
	return false, nil
}

// anchorFor returns the index of the first child supporting mode m, the
// child used as the indexed anchor when the assembler executes under m
// (spec.md §4.4). The Hash > Tree > Sort selectivity ordering itself
// already happened upstream, in selectMode's walk over modePreference;
// by the time m reaches here it is fixed, so ties among children that
// all support m are broken by declaration order.
func (c *composite[L, R]) anchorFor(m Mode) int {
	for i, ch := range c.children {
		for _, sm := range ch.supportedModes() {
			if sm == m {
				return i
			}
		}
	}
	return -1
}

func (c *composite[L, R]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	if m == ModeNestedLoop {
		return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
	}
	anchor := c.anchorFor(m)
	if anchor < 0 {
		return nil, nil, configErrorf("Composite", "no child supports mode %s", m)
	}
	exec, _, err := c.children[anchor].buildExecutor(m, blockSize)
	if err != nil {
		return nil, nil, err
	}
	wrapped := &compositeExecutor[L, R]{anchor: exec, children: c.children, skip: anchor}
	return wrapped, c.children[anchor], nil
}

// compositeExecutor narrows an anchor executor's candidate set with a
// post-filter evaluating every other child directly (spec.md §4.4, the
// "anchor + filter" strategy).
type compositeExecutor[L, R any] struct {
	anchor   common.Executor[L, R]
	children []Condition[L, R]
	skip     int
	right    common.Reader[R]
}

func (e *compositeExecutor[L, R]) Prepare(right common.Reader[R]) error {
	e.right = right
	return e.anchor.Prepare(right)
}

func (e *compositeExecutor[L, R]) Probe(li int, l L) ([]int, error) {
	cands, err := e.anchor.Probe(li, l)
	if err != nil || len(cands) == 0 {
		return nil, err
	}
	out := make([]int, 0, len(cands))
	for _, ri := range cands {
		r := e.right.At(ri)
		keep := true
		for i, ch := range e.children {
			if i == e.skip {
				continue
			}
			ok, err := ch.match(li, l, ri, r)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, ri)
		}
	}
	return out, nil
}

func (e *compositeExecutor[L, R]) Close() {
	e.anchor.Close()
	e.right = nil
}
