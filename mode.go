package join

import "fmt"

// Mode names an execution strategy for evaluating a condition against two
// sides. Modes are semantic equivalents: whichever supported mode executes a
// condition, the set of emitted (i_L, i_R) pairs is identical (spec
// property: mode equivalence).
type Mode int

const (
	// ModeAuto lets the engine pick the best supported mode. It is never a
	// "real" executor; pinning ModeAuto is equivalent to leaving Mode unset.
	ModeAuto Mode = iota
	// ModeNestedLoop evaluates every (l, r) pair directly. Always
	// supported, the correctness baseline; chosen automatically only when
	// the condition supports no indexed mode.
	ModeNestedLoop
	// ModeSort sorts the right side once and binary-searches it per left
	// element.
	ModeSort
	// ModeSortChain is ModeSort without the sort: the caller asserts the
	// right side is already ordered by its join key.
	ModeSortChain
	// ModeHash builds a key -> indices map over the right side.
	ModeHash
	// ModeTree builds a metric index over the right side for distance
	// queries.
	ModeTree
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeNestedLoop:
		return "nested-loop"
	case ModeSort:
		return "sort"
	case ModeSortChain:
		return "sort-chain"
	case ModeHash:
		return "hash"
	case ModeTree:
		return "tree"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// modePreference is the order mode selection (§4.4) considers indexed modes
// in: Hash > Tree > Sort > SortChain, the same "most selective candidate
// set" heuristic §4.4 also uses to pick a Composite's anchor child.
// ModeNestedLoop is deliberately absent: it is picked only when pinned, or
// as the fallback when a condition supports none of these modes.
var modePreference = []Mode{ModeHash, ModeTree, ModeSort, ModeSortChain}
