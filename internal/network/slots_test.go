package network

import (
	"testing"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

func TestOffsetsLayout(t *testing.T) {
	if offsets[64] != 1792 {
		t.Fatalf("offsets[64] = %d, want 1792", offsets[64])
	}
	if offsets[64]+promoBlockSize != PolicyOutputs {
		t.Fatalf("offsets[64]+88 = %d, want %d", offsets[64]+promoBlockSize, PolicyOutputs)
	}
}

func TestMoveSlotBijective(t *testing.T) {
	positions := []string{
		chess.StartFEN,
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	}

	for _, fen := range positions {
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		moves := pos.Generate()
		seen := make(map[int]chess.Move)
		for i := 0; i < moves.Len(); i++ {
			m := moves.At(i)
			slot := MoveSlot(pos.SideToMove(), m)
			if slot < 0 || slot >= PolicyOutputs {
				t.Fatalf("fen %q move %s: slot %d out of range", fen, m, slot)
			}
			if prev, ok := seen[slot]; ok {
				t.Fatalf("fen %q: moves %s and %s collide on slot %d", fen, prev, m, slot)
			}
			seen[slot] = m
		}
	}
}
