package join

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/storemy-labs/joinkit/internal/common"
	"github.com/storemy-labs/joinkit/internal/diag"
)

// assembleOptions carries everything the assembler needs, already
// resolved to "sweep side" / "other side" terms: for GroupByR, join.go
// swaps which physical side plays which role before calling assemble, so
// this struct never itself needs to know whether the sweep side is the
// caller's L or R (spec.md invariant 2).
type assembleOptions struct {
	grouped   bool
	mode      Mode
	blockSize int
	stats     *JoinStatistics

	leftMulti                         Multi
	leftNonMatch, rightNonMatch       NonMatch
	leftCardinality, rightCardinality Cardinality
	parallel                          bool
}

// assemble runs one join sweep over left, against an index built on
// right, under cond (spec.md §4.9). It always groups by the sweep side
// when opts.grouped is set; join.go is responsible for presenting that
// as GroupByL or GroupByR to the caller.
func assemble[L, R any](left Side[L], right Side[R], cond Condition[L, R], opts assembleOptions) (*Result[L, R], error) {
	if diag.Enabled() {
		diag.WithCondition(fmt.Sprintf("%T", cond)).Debug("planning join")
	}

	mode, err := selectMode(cond, opts.mode, opts.stats)
	if err != nil {
		return nil, err
	}

	exec, ranker, err := cond.buildExecutor(mode, opts.blockSize)
	if err != nil {
		return nil, err
	}
	defer exec.Close()

	if err := exec.Prepare(right); err != nil {
		return nil, err
	}

	n, rn := left.Len(), right.Len()
	if diag.Enabled() {
		diag.WithMode(mode.String()).Debug("assembling join", "left", n, "right", rn, "grouped", opts.grouped)
	}

	reducedPerLeft, err := probeLeft(left, right, exec, ranker, opts.leftMulti, opts.parallel)
	if err != nil {
		return nil, err
	}

	seenRight := make([]bool, rn)
	leftCounts := make([]int, n)
	rightCounts := make([]int, rn)

	res := &Result[L, R]{left: left, right: right}

	for li := 0; li < n; li++ {
		reduced := reducedPerLeft[li]

		for _, ri := range reduced {
			seenRight[ri] = true
			rightCounts[ri]++
		}
		leftCounts[li] = len(reduced)

		if opts.grouped {
			if len(reduced) == 0 && opts.leftNonMatch != Keep {
				continue
			}
			res.Groups = append(res.Groups, Group{Index: li, Matches: append([]int(nil), reduced...)})
			continue
		}

		if len(reduced) == 0 {
			if opts.leftNonMatch == Keep {
				res.Pairs = append(res.Pairs, Pair{L: li, R: noIndex})
			}
			continue
		}
		for _, ri := range reduced {
			res.Pairs = append(res.Pairs, Pair{L: li, R: ri})
		}
	}

	if opts.rightNonMatch == Keep {
		for ri := 0; ri < rn; ri++ {
			if seenRight[ri] {
				continue
			}
			if opts.grouped {
				res.Groups = append(res.Groups, Group{Index: noIndex, Matches: []int{ri}})
			} else {
				res.Pairs = append(res.Pairs, Pair{L: noIndex, R: ri})
			}
		}
	}

	if err := checkCardinality(leftCounts, opts.leftCardinality, SideLeft); err != nil {
		return nil, err
	}
	if err := checkCardinality(rightCounts, opts.rightCardinality, SideRight); err != nil {
		return nil, err
	}

	return res, nil
}

// probeLeft resolves, for every left element, the reduced candidate set
// the assembler will emit. Probing is embarrassingly parallel over li
// (spec.md §5): when opts.parallel is set, probes run concurrently via
// errgroup and write into a pre-sized slice so the caller still observes
// results in ascending i_L order regardless of completion order.
func probeLeft[L, R any](left Side[L], right Side[R], exec common.Executor[L, R], ranker Condition[L, R], multi Multi, parallel bool) ([][]int, error) {
	n := left.Len()
	out := make([][]int, n)

	probeOne := func(li int) error {
		l := left.At(li)
		cands, err := exec.Probe(li, l)
		if err != nil {
			return err
		}
		reduced, err := reduceMulti(l, cands, right, ranker, multi)
		if err != nil {
			return err
		}
		out[li] = reduced
		return nil
	}

	if !parallel || n < 2 {
		for li := 0; li < n; li++ {
			if err := probeOne(li); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g := new(errgroup.Group)
	for li := 0; li < n; li++ {
		li := li
		g.Go(func() error { return probeOne(li) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// reduceMulti applies the per-side multiplicity policy to one left
// element's candidate set (spec.md §4.9). first/last pick by numerically
// smallest/largest index among the candidates, not by scan order — the
// Sort and Tree executors return candidates ordered by key or tree
// traversal, not by index, so the search below does not assume any
// particular incoming order (spec property 5).
func reduceMulti[L, R any](l L, cands []int, right Side[R], ranker Condition[L, R], multi Multi) ([]int, error) {
	if multi == All || len(cands) <= 1 {
		return cands, nil
	}

	switch multi {
	case First:
		best := cands[0]
		for _, ri := range cands[1:] {
			if ri < best {
				best = ri
			}
		}
		return []int{best}, nil

	case Last:
		best := cands[0]
		for _, ri := range cands[1:] {
			if ri > best {
				best = ri
			}
		}
		return []int{best}, nil

	case Closest:
		best := cands[0]
		for _, ri := range cands[1:] {
			closerThanBest, err := ranker.closer(l, right.At(ri), right.At(best))
			if err != nil {
				return nil, err
			}
			if closerThanBest {
				best = ri
				continue
			}
			bestCloserThanRi, err := ranker.closer(l, right.At(best), right.At(ri))
			if err != nil {
				return nil, err
			}
			if !bestCloserThanRi && ri < best {
				best = ri
			}
		}
		return []int{best}, nil

	default:
		return cands, nil
	}
}

func checkCardinality(counts []int, card Cardinality, side SideTag) error {
	if card.Kind == CardAny {
		return nil
	}
	for i, n := range counts {
		if !card.allows(n) {
			if diag.Enabled() {
				diag.WithSide(side.String()).Debug("cardinality violation", "index", i, "observed", n, "expected", card.String())
			}
			return &CardinalityError{Which: side, Index: i, Observed: n, Expected: card.String()}
		}
	}
	return nil
}
