package search

// Limits carries a search's stopping conditions (spec.md §3.6, §4.6.8):
// wall-clock/increment time control, an explicit movetime, node/depth
// caps, and the `mate` flag.
type Limits struct {
	WTime, BTime int // ms remaining for white/black, 0 if not given
	WInc, BInc   int
	MoveTime     int // ms, explicit `go movetime`, -1 if not given
	Nodes        uint64
	Depth        int // average-depth cutoff (§4.6.8 "cumulative_depth/iterations")
	Mate         bool
	Infinite     bool
}

// DefaultLimits returns a search with no cutoffs (`go infinite`-shaped).
func DefaultLimits() Limits {
	return Limits{MoveTime: -1, Infinite: true}
}

// Budget computes the search's time budget in ms for the side to move
// (spec.md §4.6.8):
//
//	budget = movetime ? movetime : (time/20 + inc/2)
//	if time > 0 or inc > 0: budget = max(budget - MOVE_OVERHEAD, 1)
//
// Returns (budget, hasBudget); hasBudget is false when no clock or
// movetime was supplied at all (pure node/depth/infinite search).
func (l Limits) Budget(stmTime, stmInc int) (int, bool) {
	var budget int
	switch {
	case l.MoveTime > 0:
		budget = l.MoveTime
	case stmTime > 0 || stmInc > 0:
		budget = stmTime/20 + stmInc/2
	default:
		return 0, false
	}
	if stmTime > 0 || stmInc > 0 {
		budget = max(budget-MoveOverheadMs, 1)
	}
	return max(budget, 1), true
}
