package join

import (
	"cmp"

	"github.com/storemy-labs/joinkit/internal/algorithm"
	"github.com/storemy-labs/joinkit/internal/common"
)

// Op names an ordered comparison operator carried by ByPred (spec.md §3).
type Op int

const (
	LT Op = iota
	LE
	EQ
	GE
	GT
)

func (o Op) String() string {
	switch o {
	case LT:
		return "<"
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	case GT:
		return ">"
	default:
		return "?"
	}
}

// invert exchanges an operator's sides, used by swap (§4.1): `<` becomes
// `>`, `<=` becomes `>=`, and `=` is its own inverse.
func (o Op) invert() Op {
	switch o {
	case LT:
		return GT
	case LE:
		return GE
	case GE:
		return LE
	case GT:
		return LT
	default:
		return EQ
	}
}

func (o Op) toRelation() algorithm.Relation {
	switch o {
	case LT:
		return algorithm.RelLT
	case LE:
		return algorithm.RelLE
	case GE:
		return algorithm.RelGE
	case GT:
		return algorithm.RelGT
	default:
		return algorithm.RelEQ
	}
}

// SetOp names a set-relation operator carried by SetRelation conditions
// (spec.md §3): `⊆`, `⊊`, `⊇`, `⊋`, and `¬disjoint`.
type SetOp int

const (
	Subset SetOp = iota
	ProperSubset
	Superset
	ProperSuperset
	NotDisjoint
)

func (o SetOp) String() string {
	switch o {
	case Subset:
		return "⊆"
	case ProperSubset:
		return "⊊"
	case Superset:
		return "⊇"
	case ProperSuperset:
		return "⊋"
	default:
		return "¬disjoint"
	}
}

// invert exchanges a set operator's sides (§4.1): `⊆` becomes `⊇`, `⊊`
// becomes `⊋`; `¬disjoint` is symmetric.
func (o SetOp) invert() SetOp {
	switch o {
	case Subset:
		return Superset
	case ProperSubset:
		return ProperSuperset
	case Superset:
		return Subset
	case ProperSuperset:
		return ProperSubset
	default:
		return NotDisjoint
	}
}

// Numeric is the constraint satisfied by coordinate types that support
// both ordering and subtraction. ByPred's ordered operators only ever need
// ordering (cmp.Ordered, which also covers strings); the `∋` operator's
// multi=closest reduction needs an actual numeric distance to the
// interval's midpoint, which ordering alone cannot give, so Contains is
// constrained to Numeric rather than cmp.Ordered.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

func numAbs[K Numeric](x K) K {
	var zero K
	if x < zero {
		return -x
	}
	return x
}

func midpoint[K Numeric](iv Interval[K]) K {
	return (iv.Lo + iv.Hi) / 2
}

// Condition is the closed sum type of join conditions (spec.md §3). The
// only values satisfying it are the ones returned by this package's
// condition constructors (ByKey, ByPred, Contains, SetRelation,
// ByDistance, NotSame, And); its unexported methods are what seal it.
type Condition[L, R any] interface {
	isCondition()

	// match evaluates the condition directly against one (l, r) pair. It
	// is what the NestedLoop executor (and a Composite's post-filter)
	// call.
	match(li int, l L, ri int, r R) (bool, error)

	// supportedModes lists every Mode this condition can execute under.
	supportedModes() []Mode

	// swap exchanges the two sides, inverting any ordered operator
	// (spec.md §4.1), used when grouping by R.
	swap() Condition[R, L]

	// closer reports whether candidate a is strictly closer to l than
	// candidate b, for multi=closest (§4.9). Conditions with no natural
	// notion of distance always report false, which degenerates closest
	// to "first by index" — the fold in the assembler keeps the smaller
	// index when neither candidate is strictly closer.
	closer(l L, a, b R) (bool, error)

	// buildExecutor constructs the internal/algorithm executor for mode m,
	// along with the condition that defines multi=closest ranking for
	// whatever this executor returns. For an atomic condition the ranker
	// is always itself; for Composite it is whichever child served as the
	// anchor.
	buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error)
}

// ByKey matches when fL(l) equals fR(r) (spec.md §3, equi-join). Its key
// type is constrained to cmp.Ordered, not just comparable, so that the
// same condition can execute under Hash (needs equality) or Sort/SortChain
// (needs an ordering to sort and binary-search by).
type byKey[L, R any, K cmp.Ordered] struct {
	fL func(L) K
	fR func(R) K
}

// ByKey builds an equi-join condition over a per-side key accessor pair.
func ByKey[L, R any, K cmp.Ordered](fL func(L) K, fR func(R) K) Condition[L, R] {
	return &byKey[L, R, K]{fL: fL, fR: fR}
}

func (c *byKey[L, R, K]) isCondition() {}

func (c *byKey[L, R, K]) match(li int, l L, ri int, r R) (bool, error) {
	return c.fL(l) == c.fR(r), nil
}

func (c *byKey[L, R, K]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop, ModeSort, ModeSortChain, ModeHash}
}

func (c *byKey[L, R, K]) swap() Condition[R, L] {
	return &byKey[R, L, K]{fL: c.fR, fR: c.fL}
}

func (c *byKey[L, R, K]) closer(l L, a, b R) (bool, error) {
	return false, nil
}

func (c *byKey[L, R, K]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	switch m {
	case ModeHash:
		return algorithm.NewHash[L, R, K](c.fL, c.fR), c, nil
	case ModeSort:
		return algorithm.NewSort[L, R, K](c.fL, c.fR, algorithm.RelEQ, false), c, nil
	case ModeSortChain:
		return algorithm.NewSort[L, R, K](c.fL, c.fR, algorithm.RelEQ, true), c, nil
	case ModeNestedLoop:
		return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
	default:
		return nil, nil, configErrorf("ByKey", "mode %s is not supported", m)
	}
}

// byPred matches by an ordered comparison between two scalar accessors
// (spec.md §3, the `<,≤,=,≥,>` branch of ByPred).
type byPred[L, R any, K cmp.Ordered] struct {
	fL func(L) K
	fR func(R) K
	op Op
}

// ByPred builds an ordered-comparison condition: matches when fL(l) op
// fR(r) for op in {LT, LE, EQ, GE, GT}.
func ByPred[L, R any, K cmp.Ordered](fL func(L) K, op Op, fR func(R) K) Condition[L, R] {
	return &byPred[L, R, K]{fL: fL, fR: fR, op: op}
}

func (c *byPred[L, R, K]) isCondition() {}

func (c *byPred[L, R, K]) match(li int, l L, ri int, r R) (bool, error) {
	a, b := c.fL(l), c.fR(r)
	switch c.op {
	case LT:
		return a < b, nil
	case LE:
		return a <= b, nil
	case EQ:
		return a == b, nil
	case GE:
		return a >= b, nil
	case GT:
		return a > b, nil
	default:
		return false, configErrorf("ByPred", "unknown operator %v", c.op)
	}
}

func (c *byPred[L, R, K]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop, ModeSort}
}

func (c *byPred[L, R, K]) swap() Condition[R, L] {
	return &byPred[R, L, K]{fL: c.fR, fR: c.fL, op: c.op.invert()}
}

// closer picks the candidate nearest the boundary kL crosses: for LT/LE
// the smallest qualifying kR (nearest from above), for GT/GE the largest
// (nearest from below). Both reduce to the element the Sort executor would
// return first/last for its already-bounded slice (spec.md §4.6 step 3);
// EQ has no direction to prefer, so it degenerates to first-by-index.
func (c *byPred[L, R, K]) closer(l L, a, b R) (bool, error) {
	ka, kb := c.fR(a), c.fR(b)
	switch c.op {
	case LT, LE:
		return ka < kb, nil
	case GE, GT:
		return ka > kb, nil
	default:
		return false, nil
	}
}

func (c *byPred[L, R, K]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	switch m {
	case ModeSort:
		return algorithm.NewSort[L, R, K](c.fL, c.fR, c.op.toRelation(), false), c, nil
	case ModeNestedLoop:
		return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
	default:
		return nil, nil, configErrorf("ByPred", "mode %s is not supported", m)
	}
}

// byContains matches when the left interval contains the right point, the
// `∋` operator (spec.md §3). Its coordinate type is Numeric (see above) so
// that multi=closest can rank candidates by distance to the interval's
// midpoint.
type byContains[L, R any, K Numeric] struct {
	fL func(L) Interval[K]
	fR func(R) K
}

// Contains builds an interval-contains-point condition: matches when
// fL(l) contains fR(r).
func Contains[L, R any, K Numeric](fL func(L) Interval[K], fR func(R) K) Condition[L, R] {
	return &byContains[L, R, K]{fL: fL, fR: fR}
}

func (c *byContains[L, R, K]) isCondition() {}

func (c *byContains[L, R, K]) match(li int, l L, ri int, r R) (bool, error) {
	return c.fL(l).Contains(c.fR(r)), nil
}

func (c *byContains[L, R, K]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop, ModeSort}
}

func (c *byContains[L, R, K]) swap() Condition[R, L] {
	return &pointIn[R, L, K]{fL: c.fR, fR: c.fL}
}

func (c *byContains[L, R, K]) closer(l L, a, b R) (bool, error) {
	mid := midpoint(c.fL(l))
	da, db := numAbs(mid-c.fR(a)), numAbs(mid-c.fR(b))
	return da < db, nil
}

func (c *byContains[L, R, K]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	switch m {
	case ModeSort:
		bounds := func(l L) (lo, hi K, loClosed, hiClosed bool) {
			iv := c.fL(l)
			return iv.Lo, iv.Hi, iv.LoClosed, iv.HiClosed
		}
		return algorithm.NewSortContains[L, R, K](bounds, c.fR, false), c, nil
	case ModeNestedLoop:
		return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
	default:
		return nil, nil, configErrorf("Contains", "mode %s is not supported", m)
	}
}

// pointIn matches when the left point lies in the right interval, the `∈`
// operator that `∋` becomes under swap (spec.md §4.1). It is never built
// directly by a caller; it only exists as byContains's swapped form, which
// the engine executes when grouping by R. An interval-stabbing query over
// an arbitrary set of right-side intervals needs an index this engine does
// not build (no augmented interval tree in the algorithm catalog), so
// pointIn only supports NestedLoop; mode selection falls back to it
// automatically since NestedLoop is always supported.
type pointIn[L, R any, K Numeric] struct {
	fL func(L) K
	fR func(R) Interval[K]
}

func (c *pointIn[L, R, K]) isCondition() {}

func (c *pointIn[L, R, K]) match(li int, l L, ri int, r R) (bool, error) {
	return c.fR(r).Contains(c.fL(l)), nil
}

func (c *pointIn[L, R, K]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop}
}

func (c *pointIn[L, R, K]) swap() Condition[R, L] {
	return &byContains[R, L, K]{fL: c.fR, fR: c.fL}
}

func (c *pointIn[L, R, K]) closer(l L, a, b R) (bool, error) {
	pt := c.fL(l)
	ma, mb := midpoint(c.fR(a)), midpoint(c.fR(b))
	da, db := numAbs(pt-ma), numAbs(pt-mb)
	return da < db, nil
}

func (c *pointIn[L, R, K]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	if m != ModeNestedLoop {
		return nil, nil, configErrorf("Contains", "swapped mode %s is not supported", m)
	}
	return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
}

// bySetRelation matches two intervals under a set-relation operator
// (spec.md §3): `⊆`, `⊊`, `⊇`, `⊋`, `¬disjoint`.
type bySetRelation[L, R any, K cmp.Ordered] struct {
	fL func(L) Interval[K]
	op SetOp
	fR func(R) Interval[K]
}

// SetRelation builds a set-relation condition between two interval
// accessors.
func SetRelation[L, R any, K cmp.Ordered](fL func(L) Interval[K], op SetOp, fR func(R) Interval[K]) Condition[L, R] {
	return &bySetRelation[L, R, K]{fL: fL, op: op, fR: fR}
}

func (c *bySetRelation[L, R, K]) isCondition() {}

func (c *bySetRelation[L, R, K]) match(li int, l L, ri int, r R) (bool, error) {
	a, b := c.fL(l), c.fR(r)
	switch c.op {
	case Subset:
		return a.SubsetOf(b), nil
	case ProperSubset:
		return a.ProperSubsetOf(b), nil
	case Superset:
		return b.SubsetOf(a), nil
	case ProperSuperset:
		return b.ProperSubsetOf(a), nil
	default:
		return a.Overlaps(b), nil
	}
}

func (c *bySetRelation[L, R, K]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop}
}

func (c *bySetRelation[L, R, K]) swap() Condition[R, L] {
	return &bySetRelation[R, L, K]{fL: c.fR, op: c.op.invert(), fR: c.fL}
}

// closer: spec.md says nothing about ranking set-relation matches by
// closeness, so it degenerates to first-by-index like ByKey and ByPred's
// EQ case.
func (c *bySetRelation[L, R, K]) closer(l L, a, b R) (bool, error) {
	return false, nil
}

func (c *bySetRelation[L, R, K]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	if m != ModeNestedLoop {
		return nil, nil, configErrorf("SetRelation", "mode %s is not supported", m)
	}
	return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
}

// byDistance matches when metric(f(l), f(r)) satisfies a radius predicate
// (spec.md §3). Each side has its own accessor, f for L and fR for R, and
// both project to the same coordinate type C so that coordinates are
// commensurable under the one metric.
type byDistance[L, R, C any] struct {
	f      func(L) C
	fR     func(R) C
	metric func(a, b C) float64
	radius float64
	strict bool
}

// ByDistance builds a distance condition: matches when metric(fL(l),
// fR(r)) < radius (strict) or <= radius. fL and fR project each side to
// the same coordinate type.
func ByDistance[L, R, C any](fL func(L) C, fR func(R) C, metric func(a, b C) float64, radius float64, strict bool) Condition[L, R] {
	return &byDistance[L, R, C]{f: fL, fR: fR, metric: metric, radius: radius, strict: strict}
}

func (c *byDistance[L, R, C]) isCondition() {}

func (c *byDistance[L, R, C]) match(li int, l L, ri int, r R) (bool, error) {
	d := c.metric(c.f(l), c.fR(r))
	if c.strict {
		return d < c.radius, nil
	}
	return d <= c.radius, nil
}

func (c *byDistance[L, R, C]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop, ModeTree}
}

func (c *byDistance[L, R, C]) swap() Condition[R, L] {
	return &byDistance[R, L, C]{f: c.fR, fR: c.f, metric: c.metric, radius: c.radius, strict: c.strict}
}

func (c *byDistance[L, R, C]) closer(l L, a, b R) (bool, error) {
	q := c.f(l)
	da, db := c.metric(q, c.fR(a)), c.metric(q, c.fR(b))
	return da < db, nil
}

func (c *byDistance[L, R, C]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	switch m {
	case ModeTree:
		return algorithm.NewTree[L, R, C](c.f, c.fR, c.metric, c.radius, c.strict), c, nil
	case ModeNestedLoop:
		return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
	default:
		return nil, nil, configErrorf("ByDistance", "mode %s is not supported", m)
	}
}

// notSame matches iff the left and right positional indices differ,
// meaningful only in self-joins (spec.md §3). It carries no accessors.
type notSame[L, R any] struct{}

// NotSame builds a condition that excludes pairing an element with itself
// by positional index. It is only meaningful composed with another
// condition over a self-join (the same collection on both sides).
func NotSame[L, R any]() Condition[L, R] {
	return &notSame[L, R]{}
}

func (c *notSame[L, R]) isCondition() {}

func (c *notSame[L, R]) match(li int, l L, ri int, r R) (bool, error) {
	return li != ri, nil
}

func (c *notSame[L, R]) supportedModes() []Mode {
	return []Mode{ModeNestedLoop}
}

func (c *notSame[L, R]) swap() Condition[R, L] {
	return &notSame[R, L]{}
}

func (c *notSame[L, R]) closer(l L, a, b R) (bool, error) {
	return false, nil
}

func (c *notSame[L, R]) buildExecutor(m Mode, blockSize int) (common.Executor[L, R], Condition[L, R], error) {
	if m != ModeNestedLoop {
		return nil, nil, configErrorf("NotSame", "mode %s is not supported", m)
	}
	return algorithm.NewNestedLoop[L, R](c.match, blockSize), c, nil
}
