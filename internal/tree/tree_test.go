package tree

import "testing"

func TestAllocateFillsAndTriggersSwitchRequest(t *testing.T) {
	tr := New(1)
	before := tr.Current()
	idx, ok := tr.Allocate(4)
	if !ok {
		t.Fatalf("Allocate(4) failed on a fresh tree")
	}
	if idx.Half() != uint8(tr.ActiveHalf()) {
		t.Fatalf("allocated index half %d != active half %d", idx.Half(), tr.ActiveHalf())
	}
	if tr.Current() != before+4 {
		t.Fatalf("cursor = %d, want %d", tr.Current(), before+4)
	}

	huge := tr.HalfLen() * 2
	if _, ok := tr.Allocate(huge); ok {
		t.Fatalf("Allocate(%d) should have failed and requested a switch", huge)
	}
	if !tr.SwitchRequested() {
		t.Fatalf("expected SwitchRequested after an oversized allocation")
	}
}

func TestSwitchHalfPreservesRootAndChildren(t *testing.T) {
	tr := New(1)
	root := tr.Root()
	root.SetNumChildren(2)
	childIdx, ok := tr.Allocate(2)
	if !ok {
		t.Fatalf("Allocate(2) failed")
	}
	root.SetFirstChild(childIdx)
	tr.At(childIdx).AddVisit()

	tr.SwitchHalf()
	if tr.HSwitches() != 1 {
		t.Fatalf("HSwitches() = %d, want 1", tr.HSwitches())
	}
	newRoot := tr.Root()
	if newRoot.NumChildren() != 2 {
		t.Fatalf("root children not preserved across switch: got %d", newRoot.NumChildren())
	}
	if newRoot.FirstChild().Half() != uint8(tr.ActiveHalf()) {
		t.Fatalf("root's children were not copied into the new active half")
	}
	if tr.At(newRoot.FirstChild()).Visits() != 1 {
		t.Fatalf("child visit count lost across switch")
	}
}

func TestRebaseFlipsHalvesAndClearsNewRoot(t *testing.T) {
	tr := New(1)
	root := tr.Root()
	root.AddVisit()
	root.SetNumChildren(1)

	oldHalf := tr.Rebase()
	if oldHalf == tr.ActiveHalf() {
		t.Fatalf("Rebase did not flip the active half")
	}
	if tr.Root().Visits() != 0 {
		t.Fatalf("new active root should start empty")
	}
	if tr.NodeAt(oldHalf, 0).Visits() != 1 {
		t.Fatalf("old root's stats should survive in the inactive half")
	}
}
