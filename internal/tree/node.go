package tree

import (
	"math"
	"sync/atomic"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

// Outcome is the terminal-state tag (spec.md §3.5): Ongoing, or a
// leaf-relative Win/Loss/Draw with a mate distance in plies.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Win
	Loss
	Draw
)

// scoreScale is the fixed-point unit for Node.total_score: 1.0 == 32768
// (spec.md §3.2).
const scoreScale = 32768

// Node is one search-tree vertex (spec.md §3.2). Every field is updated
// through atomic loads/stores so the self-play driver can hand tree
// snapshots to a render thread without racing the searcher (spec.md §3.2
// "individually updated with relaxed-atomic semantics"); a single search
// itself never contends on these, per spec.md §5.
type Node struct {
	totalScore   atomic.Int64  // fixed-point sum of backpropagated scores, scale scoreScale
	visits       atomic.Uint64
	firstChild   atomic.Uint64 // packed Index
	numChildren  atomic.Int32
	move         atomic.Uint32 // chess.Move, widened
	state        atomic.Uint32 // outcome(8 bits) | distance(16 bits)
	policyBits   atomic.Uint32 // math.Float32bits(policy)
	giniBits     atomic.Uint32 // math.Float32bits(gini_impurity)
}

// Reset zeroes a node for reuse (root re-init, or a freshly allocated child
// slot per spec.md §4.6.4).
func (n *Node) Reset() {
	n.totalScore.Store(0)
	n.visits.Store(0)
	n.firstChild.Store(uint64(None))
	n.numChildren.Store(0)
	n.move.Store(0)
	n.state.Store(0)
	n.policyBits.Store(0)
	n.giniBits.Store(0)
}

func (n *Node) Visits() uint64 { return n.visits.Load() }
func (n *Node) AddVisit()      { n.visits.Add(1) }

func (n *Node) TotalScore() float64 { return float64(n.totalScore.Load()) / scoreScale }
func (n *Node) AddScore(s float64) {
	n.totalScore.Add(int64(math.Round(s * scoreScale)))
}

func (n *Node) NumChildren() int      { return int(n.numChildren.Load()) }
func (n *Node) SetNumChildren(v int)  { n.numChildren.Store(int32(v)) }
func (n *Node) HasChildren() bool     { return n.NumChildren() > 0 }

func (n *Node) FirstChild() Index     { return Index(n.firstChild.Load()) }
func (n *Node) SetFirstChild(i Index) { n.firstChild.Store(uint64(i)) }

func (n *Node) Move() chess.Move    { return chess.Move(n.move.Load()) }
func (n *Node) SetMove(m chess.Move) { n.move.Store(uint32(m)) }

func (n *Node) Policy() float64 { return float64(math.Float32frombits(n.policyBits.Load())) }
func (n *Node) SetPolicy(p float64) {
	n.policyBits.Store(math.Float32bits(float32(p)))
}

func (n *Node) Gini() float64 { return float64(math.Float32frombits(n.giniBits.Load())) }
func (n *Node) SetGini(g float64) {
	n.giniBits.Store(math.Float32bits(float32(g)))
}

func packState(o Outcome, distance uint16) uint32 {
	return uint32(o)<<16 | uint32(distance)
}

func (n *Node) State() (Outcome, uint16) {
	v := n.state.Load()
	return Outcome(v >> 16), uint16(v)
}

func (n *Node) SetState(o Outcome, distance uint16) {
	n.state.Store(packState(o, distance))
}

func (n *Node) Outcome() Outcome { o, _ := n.State(); return o }

// Q returns the node's mean score: total_score/visits, or the terminal
// score +1/0/-1 for Win/Draw/Loss (spec.md §3.2 "A node's q()").
func (n *Node) Q() float64 {
	switch o, _ := n.State(); o {
	case Win:
		return 1
	case Loss:
		return -1
	case Draw:
		return 0
	}
	if v := n.Visits(); v > 0 {
		return n.TotalScore() / float64(v)
	}
	return 0
}

// CopyFrom deep-copies src's scalar fields into n (used by half-swap root
// copy and child-block relocation, spec.md §4.5/§4.6.6).
func (n *Node) CopyFrom(src *Node) {
	n.totalScore.Store(src.totalScore.Load())
	n.visits.Store(src.visits.Load())
	n.firstChild.Store(src.firstChild.Load())
	n.numChildren.Store(src.numChildren.Load())
	n.move.Store(src.move.Load())
	n.state.Store(src.state.Load())
	n.policyBits.Store(src.policyBits.Load())
	n.giniBits.Store(src.giniBits.Load())
}
