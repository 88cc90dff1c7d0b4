package search

import (
	"sync/atomic"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/tree"
)

// Searcher is the MCTS engine (spec.md §4.6): the selection/expansion/
// evaluation/back-propagation loop, time management, and tree reuse across
// positions. A Searcher is single-threaded; the self-play driver
// (internal/selfplay) gives each worker its own Searcher/Tree pair rather
// than sharing one (spec.md §5).
type Searcher struct {
	Tree *tree.Tree

	rootPos     chess.Position
	gameHistory []uint64 // full played-game Zobrist history, oldest first
	history     []uint64 // gameHistory + in-flight descent keys (push/pop)

	stop atomic.Bool

	seldepth        int
	cumulativeDepth uint64
	iterations      uint64
}

// New creates a Searcher over a freshly allocated Tree sized to megabytes
// (spec.md §3.3 lifecycle).
func New(megabytes int) *Searcher {
	return &Searcher{Tree: tree.New(megabytes)}
}

// Stop requests the in-flight search to end after its current iteration
// (spec.md §4.6.8, §5 "checked at top of each iteration").
func (s *Searcher) Stop() { s.stop.Store(true) }

// SetPosition installs a new root position, attempting tree reuse from the
// previous search (spec.md §4.6.7). gameHistory is the full sequence of
// Zobrist keys played to reach pos, used for repetition detection.
func (s *Searcher) SetPosition(pos chess.Position, gameHistory []uint64) {
	prevPos := s.rootPos
	hadTree := s.Tree.Root().Visits() > 0 || s.Tree.Root().HasChildren()

	s.rootPos = pos
	s.gameHistory = gameHistory

	if !hadTree {
		s.Tree.ResetRoot()
		return
	}

	oldHalf := s.Tree.Rebase()
	oldRoot := s.Tree.NodeAt(oldHalf, 0)

	if found, ok := findReusableNode(s.Tree, oldHalf, oldRoot, prevPos, pos.Zobrist()); ok {
		s.Tree.PromoteRoot(found)
	} else {
		s.Tree.ClearHalf(oldHalf)
	}
}

// findReusableNode looks for a node in the inactive half whose resulting
// position matches targetKey, at most two plies below oldRoot (spec.md
// §4.6.7): the zero-move case (identical position), one ply (our own move
// already applied to the tree), or two plies (our move plus the opponent's
// reply, the common "position startpos moves ... <ours> <theirs>" case).
func findReusableNode(tr *tree.Tree, half int, oldRoot *tree.Node, prevPos chess.Position, targetKey uint64) (tree.Index, bool) {
	if prevPos.Zobrist() == targetKey {
		return tree.NewIndex(0, uint8(half)), true
	}
	if !oldRoot.HasChildren() {
		return tree.None, false
	}

	rootFC := oldRoot.FirstChild()
	for i := 0; i < oldRoot.NumChildren(); i++ {
		child := tr.ChildAt(oldRoot, i)
		childPos := prevPos.Apply(child.Move())
		if childPos.Zobrist() == targetKey {
			return tree.NewIndex(rootFC.Offset()+uint64(i), rootFC.Half()), true
		}
		if !child.HasChildren() {
			continue
		}
		childFC := child.FirstChild()
		for j := 0; j < child.NumChildren(); j++ {
			grandchild := tr.ChildAt(child, j)
			gcPos := childPos.Apply(grandchild.Move())
			if gcPos.Zobrist() == targetKey {
				return tree.NewIndex(childFC.Offset()+uint64(j), childFC.Half()), true
			}
		}
	}
	return tree.None, false
}

func (s *Searcher) pushHistory(key uint64) { s.history = append(s.history, key) }
func (s *Searcher) popHistory()            { s.history = s.history[:len(s.history)-1] }

// searchNode is the recursive per-iteration walk (spec.md §4.6.1).
func (s *Searcher) searchNode(node *tree.Node, pos chess.Position, ply int, isRoot bool) float64 {
	if node.Outcome() != tree.Ongoing {
		return terminalValue(node)
	}

	if node.Visits() == 0 {
		outcome, distance := classify(&pos, s.history)
		node.SetState(outcome, distance)
		v := evaluateLeaf(s.Tree.TT, node, &pos, outcome)
		// The root's own statistics are recorded by iterate.
		if !isRoot {
			node.AddScore(v)
			node.AddVisit()
		}
		return v
	}

	if !node.HasChildren() {
		temp := PolicyTemp
		if isRoot {
			temp = RootPolicyTemp
		}
		expand(s.Tree, node, &pos, temp)
	} else if node.FirstChild().Half() != uint8(s.Tree.ActiveHalf()) {
		s.Tree.CopyChildren(node)
	}

	if s.Tree.SwitchRequested() || !node.HasChildren() {
		return 0
	}

	fpu := node.Q()
	if q, hit := s.Tree.TT.Probe(pos.Zobrist()); hit {
		fpu = float64(q)
	}
	child, _ := selectChild(s.Tree, node, isRoot, fpu)

	childPos := pos.Apply(child.Move())
	s.pushHistory(childPos.Zobrist())
	sc := -s.searchNode(child, childPos, ply+1, false)
	s.popHistory()

	propagateTerminalUp(s.Tree, node)

	if s.Tree.SwitchRequested() {
		return 0
	}

	if !isRoot {
		node.AddScore(sc)
		node.AddVisit()
	}
	s.cumulativeDepth++
	if ply > s.seldepth {
		s.seldepth = ply
	}
	s.Tree.TT.Update(pos.Zobrist(), node.Visits(), float32(node.Q()))
	return sc
}

// iterate runs one full MCTS iteration from the root, including the
// half-swap retry loop (spec.md §4.6.6: "the searcher unwinds the current
// iteration without mutation ... and resumes").
func (s *Searcher) iterate() {
	for {
		root := s.Tree.Root()
		s.history = append(s.history[:0], s.gameHistory...)
		sc := s.searchNode(root, s.rootPos, 0, true)

		if s.Tree.SwitchRequested() {
			s.Tree.SwitchHalf()
			continue
		}

		root.AddScore(sc)
		root.AddVisit()
		s.iterations++
		s.Tree.TT.Update(s.rootPos.Zobrist(), root.Visits(), float32(root.Q()))
		return
	}
}
