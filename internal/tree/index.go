// Package tree implements the search-tree arena (spec.md §3.1-§3.3, §4.5): a
// flat, index-addressed node store split across two equal-size halves with
// a half-swap / copy-on-use protocol, plus the transposition table each
// tree owns.
package tree

// Index is a packed (index: u63, half: u1) reference into a Tree's node
// storage (spec.md §3.1). Bit 0 is the half selector; the remaining 63 bits
// are the offset within that half.
type Index uint64

// None is the invalid/unset index; it never denotes a real node because
// index 0 is always the root and Index(0) has half=0, index=0 which IS
// valid — callers instead use HasChildren on the parent to test validity,
// matching spec.md §3.2 ("first_child valid iff num_children > 0").
const None Index = 0

// NewIndex packs a node offset and half selector into an Index.
func NewIndex(offset uint64, half uint8) Index {
	return Index(offset<<1 | uint64(half&1))
}

// Offset returns the node's position within its half.
func (i Index) Offset() uint64 { return uint64(i) >> 1 }

// Half returns which half the index refers to.
func (i Index) Half() uint8 { return uint8(i) & 1 }
