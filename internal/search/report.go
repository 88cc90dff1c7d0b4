package search

import (
	"fmt"
	"io"
	"sort"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/tree"
)

// pvLine is one MultiPV variant, ranked by root-child best Q (spec.md
// §4.6.9).
type pvLine struct {
	moves []chess.Move
	score float64 // WDL from the root side-to-move's perspective
	mate  int     // 0 if not a forced mate; else moves to mate (UCI `mate N`), negative when the root side is mated
}

// extractPV walks best-Q children from node onward, matching spec.md
// §4.6.9's "PV extracted by walking best-Q children (with terminal nodes
// scored by their mate distance)".
func extractPV(tr *tree.Tree, node *tree.Node, pos chess.Position, maxLen int) []chess.Move {
	var moves []chess.Move
	cur := node
	curPos := pos
	for len(moves) < maxLen && cur.HasChildren() {
		n := cur.NumChildren()
		bestIdx := 0
		bestQ := tr.ChildAt(cur, 0).Q()
		for i := 1; i < n; i++ {
			c := tr.ChildAt(cur, i)
			if c.Visits() == 0 {
				continue
			}
			if q := c.Q(); q < bestQ {
				bestQ = q
				bestIdx = i
			}
		}
		child := tr.ChildAt(cur, bestIdx)
		if child.Visits() == 0 && child.Outcome() == tree.Ongoing {
			break
		}
		moves = append(moves, child.Move())
		curPos = curPos.Apply(child.Move())
		cur = child
	}
	return moves
}

// multiPVLines ranks the root's children by best Q (terminal Win/Loss
// overriding the mean score, per Node.Q()) and returns the top n as full PV
// lines, matching spec.md §4.6.9's best-Q ranking rather than visit count.
func multiPVLines(tr *tree.Tree, rootPos chess.Position, n int) []pvLine {
	root := tr.Root()
	if !root.HasChildren() {
		return nil
	}
	nc := root.NumChildren()
	order := make([]int, nc)
	for i := range order {
		order[i] = i
	}
	// Lower child Q is better for the root (Q is from the child's own
	// side-to-move perspective); unvisited children sort last regardless of
	// their default zero Q, since they carry no search evidence.
	sort.Slice(order, func(a, b int) bool {
		ca, cb := tr.ChildAt(root, order[a]), tr.ChildAt(root, order[b])
		av, bv := ca.Visits() > 0, cb.Visits() > 0
		if av != bv {
			return av
		}
		return ca.Q() < cb.Q()
	})

	if n > nc {
		n = nc
	}
	lines := make([]pvLine, 0, n)
	for _, idx := range order[:n] {
		child := tr.ChildAt(root, idx)
		childPos := rootPos.Apply(child.Move())

		line := pvLine{moves: append([]chess.Move{child.Move()}, extractPV(tr, child, childPos, 63)...)}
		line.score = -child.Q()
		if outcome, distance := child.State(); outcome != tree.Ongoing {
			switch outcome {
			case tree.Loss: // loss for the child == mate delivered by the root side
				line.mate = int(distance)/2 + 1
			case tree.Win: // win for the child == root side gets mated
				line.mate = -(int(distance)/2 + 1)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// report writes one `info` line per MultiPV variant (spec.md §4.6.9).
func (s *Searcher) report(w io.Writer, tm *timer, multiPV int) {
	elapsed := tm.ElapsedMs()
	nodes := s.Tree.Root().Visits()
	nps := int64(0)
	if elapsed > 0 {
		nps = int64(nodes) * 1000 / elapsed
	}
	hashfull := int(s.Tree.Occupancy() * 1000)

	lines := multiPVLines(s.Tree, s.rootPos, multiPV)
	for i, line := range lines {
		scoreStr := "cp 0"
		if line.mate != 0 {
			scoreStr = fmt.Sprintf("mate %d", line.mate)
		} else {
			scoreStr = fmt.Sprintf("cp %d", network.WDLToCpClamped(line.score))
		}

		pvStr := ""
		for j, m := range line.moves {
			if j > 0 {
				pvStr += " "
			}
			pvStr += m.String()
		}

		fmt.Fprintf(w, "info depth %d seldepth %d multipv %d score %s nodes %d nps %d hashfull %d hswitches %d time %d pv %s\n",
			int(s.avgDepth()), s.seldepth, i+1, scoreStr, nodes, nps, hashfull, s.Tree.HSwitches(), elapsed, pvStr)
	}
}
