// Package join is a generalized relational join engine: it pairs elements
// of two in-memory, randomly-indexable collections according to an
// extensible family of join conditions, producing flat or grouped result
// sets.
//
// It subsumes equi-joins (ByKey), range/asof joins (ByPred's ordered
// operators), interval-overlap joins (Contains, SetRelation), and
// nearest-neighbor joins (ByDistance), and composes several conditions
// conjunctively via And. Self-joins exclude the diagonal with NotSame.
//
// # Execution
//
// A condition dispatches to one of five algorithms: NestedLoop (the
// always-supported correctness baseline), Sort / SortChain (binary search
// over a sorted right side), Hash (an inverse-CSR key -> indices map), or
// Tree (a vantage-point metric index). Mode selection picks a supported
// mode for a condition automatically, by a fixed preference order or, when
// Options.Statistics is set, by estimated cost; a caller can also pin one
// via Options.Mode. The modes are semantic equivalents: whichever one
// executes a condition, the set of emitted (i_L, i_R) pairs is identical.
//
// A Composite condition picks one child as an indexed anchor and
// evaluates the rest as a direct post-filter over the anchor's candidates.
//
// # Shaping results
//
// Options controls, independently per side, whether unmatched elements
// still appear (NonMatch), how multiple matches for one element reduce to
// fewer (Multi), and asserted per-element match-count bounds
// (Cardinality). Options.GroupBy selects flat pairs or grouping by one
// side. Result is a lightweight view over the input sides; Materialize
// copies it into owned records.
//
// # Concurrency
//
// A join call runs synchronously to completion on the caller's goroutine.
// Options.Parallel only parallelizes the left-side probe internally;
// output order is unaffected.
package join
