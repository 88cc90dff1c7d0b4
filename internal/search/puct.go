package search

import (
	"math"

	"github.com/Quinniboi10/Chaos/internal/tree"
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// cpuct implements spec.md §4.6.3's exploration-constant formula.
func cpuct(node *tree.Node, isRoot bool) float64 {
	base := CpuctDefault
	if isRoot {
		base = CpuctRoot
	}
	visitTerm := 1 + math.Log((float64(node.Visits())+CpuctVisitScale)/8192)
	giniTerm := clamp(GiniBase-GiniScalar*math.Log(node.Gini()+0.001), GiniMin, GiniMax)
	return base * visitTerm * giniTerm
}

// selectChild runs PUCT selection over node's children (spec.md §4.6.3).
// fpu is the first-play-urgency value for unvisited siblings, resolved by
// the caller from the transposition table keyed on the parent position.
func selectChild(tr *tree.Tree, node *tree.Node, isRoot bool, fpu float64) (*tree.Node, int) {
	parentScore := cpuct(node, isRoot) * math.Sqrt(float64(node.Visits())+1)

	n := node.NumChildren()
	bestU := math.Inf(-1)
	bestIdx := 0
	for i := 0; i < n; i++ {
		c := tr.ChildAt(node, i)
		var u float64
		if c.Visits() > 0 {
			u = -c.Q()
		} else {
			u = fpu
		}
		u += c.Policy() * parentScore / (float64(c.Visits()) + 1)
		if u > bestU {
			bestU = u
			bestIdx = i
		}
	}
	return tr.ChildAt(node, bestIdx), bestIdx
}
