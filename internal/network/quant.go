// Package network implements the quantised value and policy inference
// engines (spec.md §4.2, §4.3): embedded integer neural networks that turn a
// position into a leaf score or a per-move prior distribution.
package network

import "math"

// Quantisation constants (spec.md §4.2). QA bounds the SCReLU clamp range
// applied to the feature-transformer output; QB scales the output layer's
// integer weights. Chosen to match the common NNUE-style single/two-layer
// quantisation scheme the retrieval pack's sfnnue port documents.
const (
	QA = 255
	QB = 64

	// FeatureCount is the 768 side-to-move-relative (colour, piece, square)
	// input plane size shared by both networks.
	FeatureCount = 768
)

// clampSCReLU implements SCReLU: clamp(x, 0, QA)^2 (§4.2, GLOSSARY).
// The accumulator keeps full int32 precision before the square so no
// intermediate value is dequantised early (spec.md §4.2 "Implementation
// freedom").
func clampSCReLU(x int32) int32 {
	if x < 0 {
		x = 0
	}
	if x > QA {
		x = QA
	}
	return x * x
}

// EvalDivisor converts a centipawn score into the WDL domain. It is a
// tunable (spec.md §4.2 default 400), settable through
// internal/protocol's option table.
var EvalDivisor = 400.0

// CpToWDL converts a centipawn evaluation into WDL space [-1, +1] via a
// logistic transform: wdl = 2*sigmoid(cp/EVAL_DIVISOR) - 1.
func CpToWDL(cp int32) float64 {
	x := float64(cp) / EvalDivisor
	sig := 1.0 / (1.0 + math.Exp(-x))
	return 2*sig - 1
}

// WDLToCp is the exact inverse of CpToWDL over the open interval (-1, +1)
// (spec.md §4.2 contract, §8 invariant).
func WDLToCp(wdl float64) int32 {
	if wdl <= -1 || wdl >= 1 {
		panic("network: WDLToCp called outside the open interval (-1, 1)")
	}
	sig := (wdl + 1) / 2
	cp := EvalDivisor * math.Log(sig/(1-sig))
	return int32(math.Round(cp))
}

// WDLToCpClamped is WDLToCp with the domain clamped just inside (-1, +1);
// used by UCI score reporting, where a search-derived q of exactly +-1
// (a Win/Loss terminal node backed straight up to the root) is a valid
// input that plain WDLToCp would reject.
func WDLToCpClamped(wdl float64) int32 {
	const edge = 0.999999
	if wdl >= edge {
		wdl = edge
	}
	if wdl <= -edge {
		wdl = -edge
	}
	return WDLToCp(wdl)
}
