package tree

import (
	"unsafe"

	"github.com/Quinniboi10/Chaos/internal/ttable"
)

// nodeSize is used to convert a configured megabyte budget into a node
// count for each half (spec.md §4.5 allocation policy).
var nodeSize = int(unsafe.Sizeof(Node{}))

// Tree owns the two fixed-capacity node halves, the active-half selector,
// the sticky switch_requested flag, and the transposition table (spec.md
// §3.3).
type Tree struct {
	half           [2][]Node
	activeHalf     int
	switchRequested bool
	current        uint64 // next free offset in the active half
	hswitches      uint64 // count of half swaps, reported via UCI (§4.6.9)
	TT             *ttable.Table
}

// New allocates a Tree sized so that 15/16 of megabytes goes to the two
// halves combined (split equally) and 1/16 to the transposition table
// (spec.md §3.3 lifecycle, §4.5 allocation policy).
func New(megabytes int) *Tree {
	if megabytes < 1 {
		megabytes = 1
	}
	totalBytes := megabytes * (1 << 20)
	halvesBytes := totalBytes * 15 / 16
	ttBytes := totalBytes - halvesBytes

	halfBytes := halvesBytes / 2
	halfCap := max(halfBytes/nodeSize, 2)

	ttCap := max(ttBytes/24, 1)

	t := &Tree{
		half: [2][]Node{
			make([]Node, halfCap),
			make([]Node, halfCap),
		},
		TT: ttable.New(ttCap),
	}
	t.ResetRoot()
	return t
}

// HalfLen reports the node capacity of a single half.
func (t *Tree) HalfLen() int { return len(t.half[0]) }

// ResetRoot re-initialises the tree for a fresh search from an empty root
// (spec.md §3.3 "On every search, the root slot is re-initialised").
func (t *Tree) ResetRoot() {
	t.activeHalf = 0
	t.current = 1
	t.switchRequested = false
	t.half[0][0].Reset()
}

// Root returns the active half's root node (index 0).
func (t *Tree) Root() *Node { return &t.half[t.activeHalf][0] }

// RootIndex is the packed index of the active root.
func (t *Tree) RootIndex() Index { return NewIndex(0, uint8(t.activeHalf)) }

// ActiveHalf reports which half is currently being written to.
func (t *Tree) ActiveHalf() int { return t.activeHalf }

// At resolves an Index to its Node across either half.
func (t *Tree) At(i Index) *Node {
	return &t.half[i.Half()][i.Offset()]
}

// ChildAt resolves the i'th of node's contiguous children (spec.md §3.2:
// "Children of a node are stored contiguously").
func (t *Tree) ChildAt(node *Node, i int) *Node {
	fc := node.FirstChild()
	return t.At(NewIndex(fc.Offset()+uint64(i), fc.Half()))
}

// SwitchRequested reports whether the active half is out of room.
func (t *Tree) SwitchRequested() bool { return t.switchRequested }

// Current returns the next free offset in the active half.
func (t *Tree) Current() uint64 { return t.current }

// HSwitches reports the number of half swaps performed so far, for UCI
// reporting (spec.md §4.6.9 hswitches).
func (t *Tree) HSwitches() uint64 { return t.hswitches }

// Occupancy is the active half's fill fraction, used for the UCI hashfull
// field (spec.md §4.6.9: "hashfull (tree occupancy of active half x 1000)").
func (t *Tree) Occupancy() float64 {
	return float64(t.current) / float64(len(t.half[t.activeHalf]))
}

// Allocate reserves n contiguous node slots in the active half starting at
// the current cursor, zero-initialising them (spec.md §4.6.4 expansion). If
// the block would not fit, switch_requested is set and the call returns
// (None, false) without mutating anything.
func (t *Tree) Allocate(n int) (Index, bool) {
	if n == 0 {
		return None, true
	}
	active := t.half[t.activeHalf]
	if t.current+uint64(n) > uint64(len(active)) {
		t.switchRequested = true
		return None, false
	}
	start := t.current
	for i := uint64(0); i < uint64(n); i++ {
		active[start+i].Reset()
	}
	t.current += uint64(n)
	return NewIndex(start, uint8(t.activeHalf)), true
}

// CopyChildren deep-copies node's immediate children block (which lives in
// the inactive half) into the active half starting at the current cursor,
// and repoints node.first_child at the new location (spec.md §4.5
// copy_children). node itself may live in either half; only its children
// move. If the block does not fit, switch_requested is set and nothing is
// mutated.
func (t *Tree) CopyChildren(node *Node) bool {
	n := node.NumChildren()
	if n == 0 {
		return true
	}
	src := t.At(node.FirstChild())
	srcHalf := node.FirstChild().Half()
	srcOffset := node.FirstChild().Offset()

	active := t.half[t.activeHalf]
	if t.current+uint64(n) > uint64(len(active)) {
		t.switchRequested = true
		return false
	}

	dstOffset := t.current
	for i := 0; i < n; i++ {
		srcNode := &t.half[srcHalf][srcOffset+uint64(i)]
		active[dstOffset+uint64(i)].CopyFrom(srcNode)
	}
	t.current += uint64(n)
	node.SetFirstChild(NewIndex(dstOffset, uint8(t.activeHalf)))
	_ = src
	return true
}

// Rebase begins a new top-level search (a `position` change, spec.md
// §4.6.7): the half that was active during the previous search becomes the
// inactive lookup source (it still holds that search's root and the
// descendants reached during search), and the other half becomes active
// with an empty root. Returns the half index now holding the reusable
// subtree.
func (t *Tree) Rebase() int {
	oldHalf := t.activeHalf
	t.activeHalf = 1 - t.activeHalf
	t.current = 1
	t.switchRequested = false
	t.half[t.activeHalf][0].Reset()
	return oldHalf
}

// NodeAt resolves a raw (half, offset) pair, used by tree-reuse lookup
// which walks the inactive half without an Index in hand yet.
func (t *Tree) NodeAt(half int, offset uint64) *Node {
	return &t.half[half][offset]
}

// PromoteRoot copies the subtree rooted at idx (living in the inactive
// half, discovered by tree-reuse) into the new active root, reusing its
// visit statistics and children (spec.md §4.6.7 "its subtree is promoted to
// become the new root").
func (t *Tree) PromoteRoot(idx Index) {
	t.half[t.activeHalf][0].CopyFrom(t.At(idx))
}

// ClearHalf zeroes every node of half h, used when tree-reuse lookup finds
// no match (spec.md §4.6.7 "otherwise the inactive half is zeroed").
func (t *Tree) ClearHalf(h int) {
	for i := range t.half[h] {
		t.half[h][i].Reset()
	}
}

// SwitchHalf performs the half-swap protocol (spec.md §4.6.6):
//  1. copy the active root into slot 0 of the inactive half,
//  2. flip active_half and reset the cursor to 1; before that, every node
//     reachable from the root whose children block still lies in the half
//     about to be reused has its num_children zeroed, so no reachable link
//     points at slots the next allocations will overwrite,
//  3. clear switch_requested,
//  4. copy the new root's children across so the reused subtree is
//     reachable again.
func (t *Tree) SwitchHalf() {
	oldRoot := t.Root()
	newHalf := 1 - t.activeHalf

	var dropLinks func(n *Node)
	dropLinks = func(n *Node) {
		if !n.HasChildren() {
			return
		}
		if n.FirstChild().Half() == uint8(newHalf) {
			n.SetNumChildren(0)
			return
		}
		for i := 0; i < n.NumChildren(); i++ {
			dropLinks(t.ChildAt(n, i))
		}
	}
	dropLinks(oldRoot)

	t.half[newHalf][0].CopyFrom(oldRoot)

	t.activeHalf = newHalf
	t.current = 1
	t.switchRequested = false
	t.hswitches++

	root := t.Root()
	if root.HasChildren() {
		t.CopyChildren(root)
	}
}
