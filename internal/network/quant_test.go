package network

import "testing"

func TestCpToWDLRoundTrip(t *testing.T) {
	for _, x := range []float64{-0.98, -0.5, -0.1, 0, 0.1, 0.5, 0.98} {
		cp := WDLToCp(x)
		got := CpToWDL(cp)
		if diff := got - x; diff < -0.02 || diff > 0.02 {
			t.Errorf("CpToWDL(WDLToCp(%v)) = %v, want close to %v", x, got, x)
		}
	}
}

func TestWDLToCpToWDLIsExactForIntegerCp(t *testing.T) {
	for _, c := range []int32{-8000, -400, -1, 0, 1, 400, 8000} {
		wdl := CpToWDL(c)
		if wdl <= -1 || wdl >= 1 {
			continue
		}
		got := WDLToCp(wdl)
		if got != c {
			t.Errorf("WDLToCp(CpToWDL(%d)) = %d, want %d", c, got, c)
		}
	}
}
