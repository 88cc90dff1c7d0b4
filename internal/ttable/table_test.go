package ttable

import "testing"

func TestUpdateOverwritesOnKeyMismatchOrMoreVisits(t *testing.T) {
	tab := New(1024)
	tab.Update(1, 5, 0.5)
	if q, hit := tab.Probe(1); !hit || q != 0.5 {
		t.Fatalf("Probe(1) = (%v, %v), want (0.5, true)", q, hit)
	}

	// Fewer visits, same key at that slot: must not overwrite unless key differs.
	tab.Update(1, 1, 0.9)
	if q, _ := tab.Probe(1); q != 0.5 {
		t.Fatalf("expected update with fewer visits to be rejected, got q=%v", q)
	}

	tab.Update(1, 10, 0.9)
	if q, _ := tab.Probe(1); q != 0.9 {
		t.Fatalf("expected update with more visits to overwrite, got q=%v", q)
	}
}

func TestHashfullBoundedByFirst1000(t *testing.T) {
	tab := New(2000)
	for i := uint64(0); i < 500; i++ {
		tab.Update(i+1, 1, 0)
	}
	hf := tab.Hashfull()
	if hf < 0 || hf > 1 {
		t.Fatalf("hashfull out of range: %v", hf)
	}
}

func TestClearZeroesEntries(t *testing.T) {
	tab := New(4096)
	tab.Update(42, 3, 0.1)
	tab.Clear(4)
	if e := tab.Get(42); e.Key != 0 {
		t.Fatalf("expected cleared table, got key=%v", e.Key)
	}
}
