package protocol

import (
	"github.com/Quinniboi10/Chaos/internal/search"
	"github.com/Quinniboi10/Chaos/internal/tui"
)

// cmdTui drives the non-UCI pretty dashboard (SPEC_FULL.md §3) instead of
// `info` lines, redrawing in place until the search's own stop condition
// fires. It accepts the same depth/nodes/movetime limits as `go`, defaulting
// to a fixed node budget when none are given so the dashboard has something
// to converge toward.
func (e *Engine) cmdTui(rest []string) {
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
		}
	}
	if limits.Depth == 0 && limits.Nodes == 0 && limits.MoveTime <= 0 {
		limits.Nodes = 1_000_000
	}

	dash := tui.NewDashboard(e.out)
	pos := e.Position()

	e.searcher.Search(search.Options{
		Limits:  limits,
		MultiPV: 1,
		Minimal: true,
		OnTick: func(res search.Result) {
			dash.Render(e.searcher, &pos, res)
		},
	})
}
