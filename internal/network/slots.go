package network

import "github.com/Quinniboi10/Chaos/internal/chess"

// PolicyOutputs is the 1880-wide policy network output (spec.md §4.3, §9):
// the union of all (from, to) slot counts over all sources, plus a fixed
// 88-slot promotion block (22 promo-source-pairs x 4 promotion kinds).
const PolicyOutputs = 1880

// promoBlockSize = 22 * 4.
const promoBlockSize = 88

// offsets is the per-source prefix-sum table; offsets[64] is the start of
// the promotion block and must equal 1792 (spec.md §9), so that
// offsets[64]+88 == PolicyOutputs.
var offsets [65]int

func init() {
	sum := 0
	for sq := 0; sq < 64; sq++ {
		offsets[sq] = sum
		sum += chess.AllDestinations(chess.Square(sq)).Count()
	}
	offsets[64] = sum
	if offsets[64] != 1792 {
		panic("network: policy OFFSETS[64] != 1792, attack tables changed")
	}
	if offsets[64]+promoBlockSize != PolicyOutputs {
		panic("network: policy slot count mismatch")
	}
}

// MoveSlot maps a legal move to its policy output slot (spec.md §4.3 "Move
// -> slot function"). The mapping is bijective over legal moves;
// slots_test.go checks that no two legal moves of a handful of sample
// positions share a slot.
func MoveSlot(stm chess.Color, m chess.Move) int {
	from, to := m.From(), m.To()

	if m.Kind() == chess.Promotion {
		promoKindIndex := int(m.Promo() - chess.Knight) // 0=N,1=B,2=R,3=Q
		return offsets[64] + promoKindIndex*22 + (2*from.File() + to.File())
	}

	flipper := chess.Square(0)
	if stm == chess.Black {
		flipper = 56
	}
	fromP := from ^ flipper
	toP := to ^ flipper

	dests := chess.AllDestinations(fromP)
	mask := dests & (chess.SquareBB(toP) - 1)
	return offsets[int(fromP)] + mask.Count()
}
