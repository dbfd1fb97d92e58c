package join

import (
	"math"
	"testing"
)

// ============================================================================
// END-TO-END JOIN TESTS
// ============================================================================

type testOrder struct {
	id       int
	customer string
}

type testPayment struct {
	id       int
	customer string
}

// TestJoinEquiJoin covers an inner equi-join: every order paired with every
// payment sharing its customer.
func TestJoinEquiJoin(t *testing.T) {
	orders := SliceSide[testOrder]{
		{id: 1, customer: "alice"},
		{id: 2, customer: "bob"},
	}
	payments := SliceSide[testPayment]{
		{id: 100, customer: "alice"},
		{id: 101, customer: "bob"},
		{id: 102, customer: "alice"},
	}
	cond := ByKey[testOrder, testPayment, string](
		func(o testOrder) string { return o.customer },
		func(p testPayment) string { return p.customer },
	)

	res, err := Join[testOrder, testPayment](orders, payments, cond, InnerOptions())
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", res.Len())
	}
	got := pairSet(res.Pairs)
	want := map[Pair]bool{{L: 0, R: 0}: true, {L: 0, R: 2}: true, {L: 1, R: 1}: true}
	if !mapsEqual(got, want) {
		t.Errorf("pairs = %v, want %v", got, want)
	}
}

// TestJoinLeftKeepsMisses covers invariant that LeftOptions keeps an
// unmatched left element as a (i_L, noIndex) pair.
func TestJoinLeftKeepsMisses(t *testing.T) {
	orders := SliceSide[testOrder]{
		{id: 1, customer: "alice"},
		{id: 2, customer: "nobody"},
	}
	payments := SliceSide[testPayment]{{id: 100, customer: "alice"}}
	cond := ByKey[testOrder, testPayment, string](
		func(o testOrder) string { return o.customer },
		func(p testPayment) string { return p.customer },
	)

	res, err := Join[testOrder, testPayment](orders, payments, cond, LeftOptions())
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", res.Len())
	}

	var sawMiss bool
	for _, p := range res.Pairs {
		if p.L == 1 {
			if p.HasR() {
				t.Errorf("unmatched order kept a right index: %v", p)
			}
			sawMiss = true
		}
	}
	if !sawMiss {
		t.Errorf("unmatched left element did not appear in output")
	}
}

type priceTick struct {
	at    int
	price int
}

type marketEvent struct {
	at int
}

// TestJoinAsofClosestPicksLastKnownValue covers an asof join: each event
// picks the latest price tick at or before its own timestamp.
func TestJoinAsofClosestPicksLastKnownValue(t *testing.T) {
	ticks := SliceSide[priceTick]{{at: 0, price: 100}, {at: 10, price: 110}, {at: 15, price: 120}}
	events := SliceSide[marketEvent]{{at: 5}, {at: 12}, {at: 20}}

	cond := ByPred[marketEvent, priceTick, int](
		func(e marketEvent) int { return e.at },
		GE,
		func(p priceTick) int { return p.at },
	)

	opts := InnerOptions()
	opts.Left.Multi = Closest

	res, err := Join[marketEvent, priceTick](events, ticks, cond, opts)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	wantPrice := map[int]int{0: 100, 1: 110, 2: 120}
	for _, p := range res.Pairs {
		if !p.HasR() {
			t.Fatalf("event %d had no match", p.L)
		}
		got := ticks[p.R].price
		if got != wantPrice[p.L] {
			t.Errorf("event %d matched price %d, want %d", p.L, got, wantPrice[p.L])
		}
	}
}

type room struct {
	lo, hi int
}

type checkIn struct {
	at int
}

// TestJoinIntervalContainsPoint covers the `∋` operator: a room's booking
// window contains a check-in timestamp.
func TestJoinIntervalContainsPoint(t *testing.T) {
	rooms := SliceSide[room]{{lo: 0, hi: 10}, {lo: 20, hi: 30}}
	checkIns := SliceSide[checkIn]{{at: 5}, {at: 25}, {at: 15}}

	cond := Contains[room, checkIn, int](
		func(r room) Interval[int] { return NewClosedInterval(r.lo, r.hi) },
		func(c checkIn) int { return c.at },
	)

	res, err := Join[room, checkIn](rooms, checkIns, cond, InnerOptions())
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	got := pairSet(res.Pairs)
	want := map[Pair]bool{{L: 0, R: 0}: true, {L: 1, R: 1}: true}
	if !mapsEqual(got, want) {
		t.Errorf("pairs = %v, want %v", got, want)
	}
}

type point struct{ x, y float64 }

// TestJoinDistanceWithinRadius covers ByDistance, executed under both Tree
// and NestedLoop to check mode equivalence.
func TestJoinDistanceWithinRadius(t *testing.T) {
	metric := func(a, b point) float64 {
		dx, dy := a.x-b.x, a.y-b.y
		return math.Sqrt(dx*dx + dy*dy)
	}
	left := SliceSide[point]{{x: 0, y: 0}}
	right := SliceSide[point]{{x: 1, y: 0}, {x: 5, y: 5}, {x: 0, y: 0.5}}

	cond := ByDistance[point, point, point](identityPoint, identityPoint, metric, 1.0, false)

	for _, mode := range []Mode{ModeTree, ModeNestedLoop} {
		opts := InnerOptions()
		opts.Mode = mode
		res, err := Join[point, point](left, right, cond, opts)
		if err != nil {
			t.Fatalf("Join(%v): %v", mode, err)
		}
		got := pairSet(res.Pairs)
		want := map[Pair]bool{{L: 0, R: 0}: true, {L: 0, R: 2}: true}
		if !mapsEqual(got, want) {
			t.Errorf("Join(%v) pairs = %v, want %v", mode, got, want)
		}
	}
}

// TestJoinCardinalityViolationDiscardsResult covers a cardinality
// assertion catching an order with more than one payment.
func TestJoinCardinalityViolationDiscardsResult(t *testing.T) {
	orders := SliceSide[testOrder]{{id: 1, customer: "alice"}}
	payments := SliceSide[testPayment]{
		{id: 100, customer: "alice"},
		{id: 101, customer: "alice"},
	}
	cond := ByKey[testOrder, testPayment, string](
		func(o testOrder) string { return o.customer },
		func(p testPayment) string { return p.customer },
	)

	opts := InnerOptions()
	opts.Left.Cardinality = CardinalityExact(1)

	res, err := Join[testOrder, testPayment](orders, payments, cond, opts)
	if err == nil {
		t.Fatalf("Join() err = nil, want a CardinalityError")
	}
	if res != nil {
		t.Errorf("Join() result = %v, want nil on cardinality failure", res)
	}
	if _, ok := err.(*CardinalityError); !ok {
		t.Errorf("Join() err type = %T, want *CardinalityError", err)
	}
}

// ============================================================================
// TESTABLE PROPERTY CHECKS
// ============================================================================

// TestPropertyModeEquivalence checks that pinning every mode a condition
// supports yields the identical pair set.
func TestPropertyModeEquivalence(t *testing.T) {
	left := SliceSide[int]{1, 2, 3, 3, 5}
	right := SliceSide[int]{0, 2, 3, 3, 4, 9}
	cond := ByKey[int, int, int](idInt, idInt)

	var reference map[Pair]bool
	for _, m := range []Mode{ModeHash, ModeSort, ModeSortChain, ModeNestedLoop} {
		opts := InnerOptions()
		opts.Mode = m
		res, err := Join[int, int](left, right, cond, opts)
		if err != nil {
			t.Fatalf("Join(%v): %v", m, err)
		}
		got := pairSet(res.Pairs)
		if reference == nil {
			reference = got
			continue
		}
		if !mapsEqual(got, reference) {
			t.Errorf("Join(%v) pairs = %v, want %v (same as first mode)", m, got, reference)
		}
	}
}

// TestPropertySwapSymmetry checks that GroupByR over cond (executed with the
// sides and condition swapped) produces the same matched pairs as the flat
// GroupByNone join of cond.
func TestPropertySwapSymmetry(t *testing.T) {
	left := SliceSide[int]{1, 2, 3}
	right := SliceSide[int]{3, 1, 1}
	cond := ByKey[int, int, int](idInt, idInt)

	byR, err := Join[int, int](left, right, cond, OuterOptions())
	if err != nil {
		t.Fatalf("Join GroupByNone: %v", err)
	}

	opts := OuterOptions()
	opts.GroupBy = GroupByR
	grouped, err := Join[int, int](left, right, cond, opts)
	if err != nil {
		t.Fatalf("Join GroupByR: %v", err)
	}

	flatPairs := map[Pair]bool{}
	for _, p := range byR.Pairs {
		if p.HasL() && p.HasR() {
			flatPairs[p] = true
		}
	}
	groupedPairs := map[Pair]bool{}
	for _, g := range grouped.Groups {
		for _, li := range g.Matches {
			p := Pair{L: li, R: g.Index}
			if p.HasL() && p.HasR() {
				groupedPairs[p] = true
			}
		}
	}
	if !mapsEqual(flatPairs, groupedPairs) {
		t.Errorf("GroupByR matched pairs = %v, want %v", groupedPairs, flatPairs)
	}
}

// TestPropertyConjunctionIsIntersection checks that And(a, b) matches
// exactly the pairs that both a and b individually match.
func TestPropertyConjunctionIsIntersection(t *testing.T) {
	left := SliceSide[int]{1, 2, 3, 4, 5}
	right := SliceSide[int]{1, 2, 3, 4, 5}

	a := ByPred[int, int, int](idInt, GE, idInt) // l >= r
	b := ByPred[int, int, int](idInt, LE, idInt) // l <= r
	conj := And[int, int](a, b)                  // l == r

	opts := InnerOptions()
	opts.Mode = ModeNestedLoop

	resA, _ := Join[int, int](left, right, a, opts)
	resB, _ := Join[int, int](left, right, b, opts)
	resConj, err := Join[int, int](left, right, conj, opts)
	if err != nil {
		t.Fatalf("Join(conj): %v", err)
	}

	setA, setB := pairSet(resA.Pairs), pairSet(resB.Pairs)
	want := map[Pair]bool{}
	for p := range setA {
		if setB[p] {
			want[p] = true
		}
	}
	got := pairSet(resConj.Pairs)
	if !mapsEqual(got, want) {
		t.Errorf("And(a,b) pairs = %v, want intersection %v", got, want)
	}
}

// TestPropertyFirstLastAreIndexDeterministic checks that multi=first and
// multi=last pick by numeric index regardless of which mode produced the
// candidate set.
func TestPropertyFirstLastAreIndexDeterministic(t *testing.T) {
	left := SliceSide[int]{5}
	right := SliceSide[int]{9, 5, 7, 5, 1} // indices 1 and 3 match key 5

	cond := ByKey[int, int, int](idInt, idInt)

	for _, m := range []Mode{ModeHash, ModeSort, ModeNestedLoop} {
		first := InnerOptions()
		first.Mode = m
		first.Left.Multi = First
		res, err := Join[int, int](left, right, cond, first)
		if err != nil {
			t.Fatalf("Join(%v, first): %v", m, err)
		}
		if len(res.Pairs) != 1 || res.Pairs[0].R != 1 {
			t.Errorf("Join(%v, first) = %v, want R=1", m, res.Pairs)
		}

		last := InnerOptions()
		last.Mode = m
		last.Left.Multi = Last
		res, err = Join[int, int](left, right, cond, last)
		if err != nil {
			t.Fatalf("Join(%v, last): %v", m, err)
		}
		if len(res.Pairs) != 1 || res.Pairs[0].R != 3 {
			t.Errorf("Join(%v, last) = %v, want R=3", m, res.Pairs)
		}
	}
}

// TestPropertyNoInputMutation checks that a join call never writes through
// to the sides it reads.
func TestPropertyNoInputMutation(t *testing.T) {
	left := SliceSide[int]{1, 2, 3}
	right := SliceSide[int]{3, 2, 1}
	leftCopy := append(SliceSide[int]{}, left...)
	rightCopy := append(SliceSide[int]{}, right...)

	cond := ByKey[int, int, int](idInt, idInt)
	if _, err := Join[int, int](left, right, cond, OuterOptions()); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if !sliceEqual(left, leftCopy) || !sliceEqual(right, rightCopy) {
		t.Errorf("Join mutated its inputs: left=%v right=%v", left, right)
	}
}

func identityPoint(p point) point { return p }

func pairSet(pairs []Pair) map[Pair]bool {
	out := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		out[p] = true
	}
	return out
}

func mapsEqual(a, b map[Pair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func sliceEqual(a, b SliceSide[int]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
