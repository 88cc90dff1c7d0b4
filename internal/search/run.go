package search

import (
	"fmt"
	"io"
	"time"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/tree"
)

// Options configures one call to Search: stopping conditions plus the
// reporting sink and cadence (spec.md §4.6.8, §4.6.9).
type Options struct {
	Limits   Limits
	MultiPV  int
	Reporter io.Writer    // nil disables `info` lines; `bestmove` is always returned to the caller
	Minimal  bool         // suppress info lines, matching the `Minimal` UCI option
	OnTick   func(Result) // invoked at the same cadence as info lines, for non-UCI reporting (SPEC_FULL.md §3)
}

// Result is what a completed search hands back to the protocol layer.
type Result struct {
	BestMove   chess.Move
	Nodes      uint64
	Depth      int
	Seldepth   int
	ElapsedMs  int64
	HSwitches  uint64
}

// Search runs MCTS iterations from the current root until a stop condition
// fires (spec.md §4.6.8), reporting progress along the way (spec.md
// §4.6.9), and returns the chosen move.
func (s *Searcher) Search(opts Options) Result {
	s.stop.Store(false)
	s.seldepth = 0
	s.cumulativeDepth = 0
	s.iterations = 0

	stm := s.rootPos.SideToMove()
	stmTime, stmInc := opts.Limits.WTime, opts.Limits.WInc
	if stm == chess.Black {
		stmTime, stmInc = opts.Limits.BTime, opts.Limits.BInc
	}
	budgetMs, hasBudget := opts.Limits.Budget(stmTime, stmInc)

	tm := newTimer()
	if hasBudget {
		tm.SetBudgetMs(budgetMs)
	}

	multiPV := max(opts.MultiPV, 1)

	lastReport := time.Now()
	lastBestMove := chess.NullMove()
	lastDepth, lastSeldepth := -1, -1

	root := s.Tree.Root()
	if opts.Limits.Mate && root.Outcome() != tree.Ongoing {
		return s.finish(tm, opts)
	}

	for {
		if s.stop.Load() {
			break
		}
		if root.HasChildren() && root.Outcome() != tree.Ongoing {
			break
		}
		if hasBudget && tm.IsEnd() {
			break
		}
		if opts.Limits.Nodes > 0 && root.Visits() >= opts.Limits.Nodes {
			break
		}
		if opts.Limits.Depth > 0 && s.avgDepth() >= float64(opts.Limits.Depth) {
			break
		}

		s.iterate()

		if (opts.Reporter != nil && !opts.Minimal) || opts.OnTick != nil {
			depth := int(s.avgDepth())
			bestMove := s.bestMoveMove()
			due := time.Since(lastReport).Milliseconds() >= int64(UciReportingFrequencyMs)
			changed := depth != lastDepth || s.seldepth != lastSeldepth || bestMove != lastBestMove
			if due || changed {
				if opts.Reporter != nil && !opts.Minimal {
					s.report(opts.Reporter, tm, multiPV)
				}
				if opts.OnTick != nil {
					opts.OnTick(s.snapshot(tm))
				}
				lastReport = time.Now()
				lastDepth, lastSeldepth, lastBestMove = depth, s.seldepth, bestMove
			}
		}
	}

	return s.finish(tm, opts)
}

// snapshot assembles a Result from the searcher's current state; called both
// mid-search (for OnTick) and at finish, always from the searching goroutine.
func (s *Searcher) snapshot(tm *timer) Result {
	return Result{
		BestMove:  s.bestMoveMove(),
		Nodes:     s.Tree.Root().Visits(),
		Depth:     int(s.avgDepth()),
		Seldepth:  s.seldepth,
		ElapsedMs: tm.ElapsedMs(),
		HSwitches: s.Tree.HSwitches(),
	}
}

func (s *Searcher) finish(tm *timer, opts Options) Result {
	res := s.snapshot(tm)
	if opts.Reporter != nil {
		fmt.Fprintf(opts.Reporter, "bestmove %s\n", res.BestMove)
	}
	return res
}

func (s *Searcher) avgDepth() float64 {
	if s.iterations == 0 {
		return 0
	}
	return float64(s.cumulativeDepth) / float64(s.iterations)
}

// bestMoveMove picks the root child with the best Q (terminal Win/Loss
// overriding the mean score, per Node.Q()), matching spec.md's "PV extracted
// by walking best-Q children" applied at the root itself, not visit count.
func (s *Searcher) bestMoveMove() chess.Move {
	root := s.Tree.Root()
	if !root.HasChildren() {
		return chess.NullMove()
	}
	n := root.NumChildren()
	best := s.Tree.ChildAt(root, 0)
	bestQ := best.Q()
	for i := 1; i < n; i++ {
		c := s.Tree.ChildAt(root, i)
		if c.Visits() == 0 {
			continue
		}
		if q := c.Q(); q < bestQ {
			bestQ = q
			best = c
		}
	}
	return best.Move()
}

// SearchPolicyOnly implements the `policy` SearchMode (spec.md §6.1,
// SPEC_FULL.md §3): pick the highest-prior legal move without running MCTS.
func (s *Searcher) SearchPolicyOnly() chess.Move {
	moves := s.rootPos.Generate()
	if moves.Len() == 0 {
		return chess.NullMove()
	}
	slice := moves.Slice()
	probs, _ := network.FillPolicy(&s.rootPos, slice, RootPolicyTemp)
	best, bestP := slice[0], probs[0]
	for i := 1; i < len(slice); i++ {
		if probs[i] > bestP {
			best, bestP = slice[i], probs[i]
		}
	}
	return best
}

// SearchValueOnly implements the `value` SearchMode: play the move whose
// resulting position the value network scores best for the side to move.
func (s *Searcher) SearchValueOnly() chess.Move {
	moves := s.rootPos.Generate()
	if moves.Len() == 0 {
		return chess.NullMove()
	}
	slice := moves.Slice()
	best := slice[0]
	bestScore := int32(-1 << 30)
	for _, m := range slice {
		next := s.rootPos.Apply(m)
		score := -network.Evaluate(&next)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}
