package search

import (
	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/tree"
)

// classify determines a node's terminal tag the first time it is visited
// (spec.md §4.6.1 "node.state = classify(pos, posHistory)"). The oracle
// owns move generation and draw detection (§4.1); this function only
// interprets their results.
func classify(pos *chess.Position, history []uint64) (tree.Outcome, uint16) {
	legal := pos.Generate()
	if legal.Len() == 0 {
		if pos.InCheck() {
			return tree.Loss, 0
		}
		return tree.Draw, 0
	}
	if pos.IsDraw(history) {
		return tree.Draw, 0
	}
	return tree.Ongoing, 0
}

// terminalValue returns the fixed +1/0/-1 score for a node already tagged
// Win/Draw/Loss (spec.md §3.2 "A node's q()").
func terminalValue(node *tree.Node) float64 { return node.Q() }

// evaluateLeaf implements spec.md §4.6.2: terminal short-circuit, then TT
// probe, then the value network.
func evaluateLeaf(tt ttableProber, node *tree.Node, pos *chess.Position, outcome tree.Outcome) float64 {
	if outcome != tree.Ongoing {
		return terminalValue(node)
	}
	if q, hit := tt.Probe(pos.Zobrist()); hit {
		return float64(q)
	}
	return network.CpToWDL(network.Evaluate(pos))
}

// ttableProber is the narrow slice of ttable.Table the search package
// depends on, kept as an interface only so tests can stub it out cheaply.
type ttableProber interface {
	Probe(key uint64) (float32, bool)
}

// expand allocates and fills the children of node (spec.md §4.6.4). temp is
// the policy softmax temperature: RootPolicyTemp for the root, PolicyTemp
// otherwise.
func expand(tr *tree.Tree, node *tree.Node, pos *chess.Position, temp float64) {
	moves := pos.Generate()
	n := moves.Len()
	if n == 0 {
		return
	}
	idx, ok := tr.Allocate(n)
	if !ok {
		return
	}

	slice := moves.Slice()
	probs, gini := network.FillPolicy(pos, slice, temp)
	for i, m := range slice {
		c := tr.At(tree.NewIndex(idx.Offset()+uint64(i), idx.Half()))
		c.SetMove(m)
		c.SetPolicy(probs[i])
	}
	node.SetFirstChild(idx)
	node.SetNumChildren(n)
	node.SetGini(gini)
}

// propagateTerminalUp implements spec.md §4.6.5. It re-scans all of node's
// children every call (cheap: at most 218 of them) rather than trying to
// incrementally track the running minimum/maximum, so the "scan all
// siblings and take the minimum" rule from the spec is exact rather than
// approximated across visits.
func propagateTerminalUp(tr *tree.Tree, node *tree.Node) {
	n := node.NumChildren()
	if n == 0 {
		return
	}

	minWinDistance := -1
	maxLossDistance := -1
	allWin := true

	for i := 0; i < n; i++ {
		c := tr.ChildAt(node, i)
		outcome, distance := c.State()
		switch outcome {
		case tree.Loss:
			allWin = false
			if minWinDistance == -1 || int(distance) < minWinDistance {
				minWinDistance = int(distance)
			}
		case tree.Win:
			if int(distance) > maxLossDistance {
				maxLossDistance = int(distance)
			}
		default:
			allWin = false
		}
	}

	if minWinDistance != -1 {
		node.SetState(tree.Win, uint16(minWinDistance+1))
		return
	}
	if allWin {
		node.SetState(tree.Loss, uint16(maxLossDistance+1))
	}
}
