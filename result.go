package join

// noIndex is the "no-such-index" sentinel (spec.md §3) representing a
// null counterpart for a kept non-match.
const noIndex = -1

// Pair is one matched, or kept-non-match, index pair in a flat result.
// HasL/HasR report whether a side is present; a kept non-match on one
// side carries noIndex on the other.
type Pair struct {
	L, R int
}

func (p Pair) HasL() bool { return p.L != noIndex }
func (p Pair) HasR() bool { return p.R != noIndex }

// Group is one grouped output element (spec.md §3): Index is the
// grouping-side position (or noIndex for a kept non-match on the other
// side, emitted as its own singleton group), Matches holds every matched
// position on the opposite side.
type Group struct {
	Index   int
	Matches []int
}

// Result is a view over the match set a join call produced (spec.md §3,
// §5). It never copies L or R: Pairs and Groups hold positions only, and
// LeftAt/RightAt read through to the original sides on demand. The view
// is valid only while the sides it was built from remain unmutated.
type Result[L, R any] struct {
	left  Side[L]
	right Side[R]

	GroupBy GroupBy
	Pairs   []Pair
	Groups  []Group
}

// Len returns the number of flat pairs (GroupBy == GroupByNone) or groups
// otherwise.
func (res *Result[L, R]) Len() int {
	if res.GroupBy == GroupByNone {
		return len(res.Pairs)
	}
	return len(res.Groups)
}

// LeftAt reads through to the left side at position i.
func (res *Result[L, R]) LeftAt(i int) L { return res.left.At(i) }

// RightAt reads through to the right side at position i.
func (res *Result[L, R]) RightAt(i int) R { return res.right.At(i) }

// MaterializedPair is a flat result pair with records copied out instead
// of referenced by index. A nil field is a kept non-match.
type MaterializedPair[L, R any] struct {
	L *L
	R *R
}

// MaterializedGroup is a grouped result element with records copied out.
// Anchor is the grouping side's record, or nil for a kept non-match on the
// opposite side (emitted as its own singleton group with Index == noIndex);
// Matches is every matched record on the other side.
type MaterializedGroup[A, B any] struct {
	Anchor  *A
	Matches []B
}

// MaterializedResult is the owned-data counterpart to Result (spec.md §6,
// §9): Materialize deep-copies view-typed columns into it, with no other
// semantic change. Exactly one of Pairs, GroupsL, GroupsR is populated,
// matching the source Result's GroupBy.
type MaterializedResult[L, R any] struct {
	GroupBy GroupBy
	Pairs   []MaterializedPair[L, R]
	GroupsL []MaterializedGroup[L, R]
	GroupsR []MaterializedGroup[R, L]
}

// Materialize deep-copies res into owned arrays. The source Result (and
// the L/R sides it views) is left untouched and remains valid to use
// afterward.
func (res *Result[L, R]) Materialize() MaterializedResult[L, R] {
	out := MaterializedResult[L, R]{GroupBy: res.GroupBy}

	switch res.GroupBy {
	case GroupByL:
		out.GroupsL = make([]MaterializedGroup[L, R], len(res.Groups))
		for i, g := range res.Groups {
			matches := make([]R, len(g.Matches))
			for j, ri := range g.Matches {
				matches[j] = res.right.At(ri)
			}
			mg := MaterializedGroup[L, R]{Matches: matches}
			if g.Index != noIndex {
				v := res.left.At(g.Index)
				mg.Anchor = &v
			}
			out.GroupsL[i] = mg
		}
	case GroupByR:
		out.GroupsR = make([]MaterializedGroup[R, L], len(res.Groups))
		for i, g := range res.Groups {
			matches := make([]L, len(g.Matches))
			for j, li := range g.Matches {
				matches[j] = res.left.At(li)
			}
			mg := MaterializedGroup[R, L]{Matches: matches}
			if g.Index != noIndex {
				v := res.right.At(g.Index)
				mg.Anchor = &v
			}
			out.GroupsR[i] = mg
		}
	default:
		out.Pairs = make([]MaterializedPair[L, R], len(res.Pairs))
		for i, p := range res.Pairs {
			var mp MaterializedPair[L, R]
			if p.HasL() {
				v := res.left.At(p.L)
				mp.L = &v
			}
			if p.HasR() {
				v := res.right.At(p.R)
				mp.R = &v
			}
			out.Pairs[i] = mp
		}
	}
	return out
}
