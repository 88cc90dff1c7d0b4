package network

import "github.com/Quinniboi10/Chaos/internal/chess"

// ActiveFeatures returns the indices (into the 768-wide input plane) that
// are active for pos, from the side-to-move's perspective (spec.md §4.2
// "side-to-move-relative (colour, piece-type, square)"). Squares are
// mirrored vertically when Black is to move so a single set of weights
// serves both colours.
func ActiveFeatures(pos *chess.Position, out []int) []int {
	out = out[:0]
	us := pos.SideToMove()
	flip := us == chess.Black

	for _, side := range [2]chess.Color{us, us.Other()} {
		colourBlock := 0
		if side != us {
			colourBlock = 1
		}
		for pt := chess.Pawn; pt < chess.NoPieceType; pt++ {
			bb := pos.PieceBB(side, pt)
			for bb != 0 {
				var sq chess.Square
				sq, bb = bb.PopLSB()
				if flip {
					sq = sq.FlipRank()
				}
				idx := colourBlock*384 + int(pt)*64 + int(sq)
				out = append(out, idx)
			}
		}
	}
	return out
}
