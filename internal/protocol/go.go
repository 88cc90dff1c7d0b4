package protocol

import (
	"fmt"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// cmdGo parses `go [depth N] [nodes N] [movetime ms] [wtime ms] [btime ms]
// [winc ms] [binc ms] [mate] [infinite]` (spec.md §6.1) and runs the search
// on a background goroutine, so a subsequent `stop` on the next input line
// can interrupt it.
func (e *Engine) cmdGo(rest []string) {
	e.awaitPreviousSearch()

	limits := search.Limits{MoveTime: -1}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "depth":
			if v, ok := nextInt(rest, &i); ok {
				limits.Depth = v
			}
		case "nodes":
			if v, ok := nextInt(rest, &i); ok {
				limits.Nodes = uint64(v)
			}
		case "movetime":
			if v, ok := nextInt(rest, &i); ok {
				limits.MoveTime = v
			}
		case "wtime":
			if v, ok := nextInt(rest, &i); ok {
				limits.WTime = v
			}
		case "btime":
			if v, ok := nextInt(rest, &i); ok {
				limits.BTime = v
			}
		case "winc":
			if v, ok := nextInt(rest, &i); ok {
				limits.WInc = v
			}
		case "binc":
			if v, ok := nextInt(rest, &i); ok {
				limits.BInc = v
			}
		case "mate":
			limits.Mate = true
		case "infinite":
			limits.Infinite = true
		}
	}

	opts := search.Options{
		Limits:   limits,
		MultiPV:  e.MultiPV,
		Reporter: e.out,
		Minimal:  e.Minimal,
	}

	switch e.SearchMode {
	case "policy":
		e.searchWg.Add(1)
		go func() {
			defer e.searchWg.Done()
			mv := e.searcher.SearchPolicyOnly()
			e.printBestMove(mv)
		}()
	case "value":
		e.searchWg.Add(1)
		go func() {
			defer e.searchWg.Done()
			mv := e.searcher.SearchValueOnly()
			e.printBestMove(mv)
		}()
	default:
		e.searchWg.Add(1)
		go func() {
			defer e.searchWg.Done()
			e.searcher.Search(opts)
		}()
	}
}

// awaitPreviousSearch blocks until any in-flight `go` has produced its
// bestmove, so a rapid `go` / `go` pair (or `position` between searches)
// never races the tree.
func (e *Engine) awaitPreviousSearch() {
	e.searcher.Stop()
	e.searchWg.Wait()
}

func (e *Engine) printBestMove(mv chess.Move) {
	fmt.Fprintf(e.out, "bestmove %s\n", mv)
}

func nextInt(fields []string, i *int) (int, bool) {
	if *i+1 >= len(fields) {
		return 0, false
	}
	*i++
	v, ok := parseUint(fields[*i])
	return v, ok
}
