package join

// Join pairs elements of left and right according to cond, shaped by opts
// (spec.md §6). Configuration mistakes (a contradictory nonmatches/multi
// combination, an unsupported pinned mode, a malformed cardinality bound)
// are reported as *ConfigError before any data is scanned; a cardinality
// assertion violated after assembly is reported as *CardinalityError, with
// the partial result discarded.
func Join[L, R any](left Side[L], right Side[R], cond Condition[L, R], opts Options) (*Result[L, R], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.GroupBy == GroupByR {
		return joinGroupedByR(left, right, cond, opts)
	}

	res, err := assemble(left, right, cond, assembleOptions{
		grouped:          opts.GroupBy == GroupByL,
		mode:             opts.Mode,
		blockSize:        opts.BlockSize,
		stats:            opts.Statistics,
		parallel:         opts.Parallel,
		leftMulti:        opts.Left.Multi,
		leftNonMatch:     opts.Left.NonMatch,
		rightNonMatch:    opts.Right.NonMatch,
		leftCardinality:  opts.Left.Cardinality,
		rightCardinality: opts.Right.Cardinality,
	})
	if err != nil {
		return nil, err
	}
	res.GroupBy = opts.GroupBy
	return res, nil
}

// joinGroupedByR implements invariant 2 (spec.md §3): planning and
// execution run with the sides and condition swapped, then the result (and
// the side named by a CardinalityError) is presented back in the caller's
// original (L, R) terms.
func joinGroupedByR[L, R any](left Side[L], right Side[R], cond Condition[L, R], opts Options) (*Result[L, R], error) {
	swapped, err := assemble(right, left, cond.swap(), assembleOptions{
		grouped:          true,
		mode:             opts.Mode,
		blockSize:        opts.BlockSize,
		stats:            opts.Statistics,
		parallel:         opts.Parallel,
		leftMulti:        opts.Right.Multi,
		leftNonMatch:     opts.Right.NonMatch,
		rightNonMatch:    opts.Left.NonMatch,
		leftCardinality:  opts.Right.Cardinality,
		rightCardinality: opts.Left.Cardinality,
	})
	if err != nil {
		if ce, ok := err.(*CardinalityError); ok {
			if ce.Which == SideLeft {
				ce.Which = SideRight
			} else {
				ce.Which = SideLeft
			}
		}
		return nil, err
	}
	return &Result[L, R]{
		left:    left,
		right:   right,
		GroupBy: GroupByR,
		Groups:  swapped.Groups,
	}, nil
}

// JoinIndices is Join for callers who only want index pairs, never record
// views (spec.md §6's join_indices). Result already stores positions
// rather than copies; JoinIndices returns the identical value so callers
// who only intend to read Pairs/Groups are not tempted to call
// Materialize, the one operation on Result that actually allocates.
func JoinIndices[L, R any](left Side[L], right Side[R], cond Condition[L, R], opts Options) (*Result[L, R], error) {
	return Join(left, right, cond, opts)
}
