package join

import "github.com/storemy-labs/joinkit/internal/algorithm"

func containsMode(modes []Mode, m Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}

// selectMode picks the execution mode for cond (spec.md §4.4). A pinned
// mode must be supported or the call fails; otherwise the engine picks
// the leftmost supported mode in modePreference, refined by cost
// estimates when stats is supplied. NestedLoop is never picked
// automatically — only ever by pin, or as the fallback when no indexed
// mode is supported at all.
func selectMode[L, R any](cond Condition[L, R], pinned Mode, stats *JoinStatistics) (Mode, error) {
	supported := cond.supportedModes()

	if pinned != ModeAuto {
		if !containsMode(supported, pinned) {
			return ModeAuto, configErrorf("select-mode", "pinned mode %s is not supported by this condition", pinned)
		}
		return pinned, nil
	}

	if stats != nil {
		if m, ok := selectModeByCost(supported, stats); ok {
			return m, nil
		}
		return ModeNestedLoop, nil
	}

	for _, m := range modePreference {
		if containsMode(supported, m) {
			return m, nil
		}
	}
	return ModeNestedLoop, nil
}

// selectModeByCost picks the cheapest indexed mode cond supports, using
// internal/algorithm's cost formulas over stats. ok is false when cond
// supports no indexed mode at all, meaning the caller must fall back to
// NestedLoop.
func selectModeByCost(supported []Mode, stats *JoinStatistics) (Mode, bool) {
	best := ModeAuto
	bestCost := 0.0
	found := false

	for _, m := range modePreference {
		if !containsMode(supported, m) {
			continue
		}
		var cost float64
		switch m {
		case ModeHash:
			cost = algorithm.HashCost(stats)
		case ModeTree:
			cost = algorithm.TreeCost(stats)
		case ModeSort, ModeSortChain:
			cost = algorithm.SortCost(stats)
		}
		if !found || cost < bestCost {
			best, bestCost, found = m, cost, true
		}
	}
	return best, found
}
