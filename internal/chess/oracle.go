package chess

// This file gathers the six operations the move-oracle contract (spec §4.1)
// promises the searcher: Generate, IsDraw, IsGameOver, InCheck, Apply and
// Zobrist. Generate, Apply, InCheck and Zobrist are already methods on
// Position; IsDraw/IsGameOver live here because they need the rolling
// repetition history the searcher threads through the recursion.

// IsDraw reports the 50-move rule, insufficient material, or threefold
// repetition over the supplied history of Zobrist keys (most recent last).
// This is the single owner of repetition detection the searcher must use;
// spec §9 warns against a second, ad hoc implementation.
func (p *Position) IsDraw(history []uint64) bool {
	if p.halfmove >= 100 {
		return true
	}
	if p.insufficientMaterial() {
		return true
	}
	return p.isThreefold(history)
}

// isThreefold counts occurrences of the current key within the reversible
// portion of history (bounded by the halfmove clock); a repeated key counts
// twice total (i.e. the current position plus one earlier occurrence) to
// call a draw, matching the usual "third occurrence" rule applied
// incrementally during search.
func (p *Position) isThreefold(history []uint64) bool {
	limit := len(history) - int(p.halfmove)
	if limit < 0 {
		limit = 0
	}
	count := 1
	for i := len(history) - 1; i >= limit; i-- {
		if history[i] == p.key {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// insufficientMaterial covers the common forced-draw material configurations:
// K vs K, K+N vs K, K+B vs K, and K+B vs K+B with same-colored bishops.
func (p *Position) insufficientMaterial() bool {
	if p.pieces[White][Pawn]|p.pieces[Black][Pawn] != 0 {
		return false
	}
	if p.pieces[White][Rook]|p.pieces[Black][Rook] != 0 {
		return false
	}
	if p.pieces[White][Queen]|p.pieces[Black][Queen] != 0 {
		return false
	}

	whiteMinors := p.pieces[White][Knight].Count() + p.pieces[White][Bishop].Count()
	blackMinors := p.pieces[Black][Knight].Count() + p.pieces[Black][Bishop].Count()

	if whiteMinors == 0 && blackMinors == 0 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 0 && p.pieces[White][Knight]|p.pieces[White][Bishop] != 0 {
		return true
	}
	if blackMinors == 1 && whiteMinors == 0 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 1 &&
		p.pieces[White][Bishop] != 0 && p.pieces[Black][Bishop] != 0 {
		wsq, _ := p.pieces[White][Bishop].PopLSB()
		bsq, _ := p.pieces[Black][Bishop].PopLSB()
		return squareColor(wsq) == squareColor(bsq)
	}
	return false
}

func squareColor(sq Square) int { return (sq.File() + sq.Rank()) & 1 }

// ParseUCIMove finds the legal move matching a UCI move string (e.g. "e2e4",
// "e7e8q", or "e1g1" for a kingside castle) against the position's legal
// move list; the oracle owns disambiguation so callers never need to
// reconstruct MoveKind themselves.
func (p *Position) ParseUCIMove(text string) (Move, bool) {
	if len(text) < 4 || len(text) > 5 {
		return NullMove(), false
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NullMove(), false
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NullMove(), false
	}
	var promo PieceType = NoPieceType
	if len(text) == 5 {
		pt, ok := pieceFromLetter[text[4]]
		if !ok {
			return NullMove(), false
		}
		promo = pt
	}

	legal := p.Generate()
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Kind() == Promotion {
			if promo == NoPieceType || m.Promo() != promo {
				continue
			}
		} else if promo != NoPieceType {
			continue
		}
		return m, true
	}
	return NullMove(), false
}

// IsGameOver reports whether the position is drawn or has no legal moves
// (checkmate or stalemate); the caller distinguishes the two via InCheck.
func (p *Position) IsGameOver(history []uint64) bool {
	if p.IsDraw(history) {
		return true
	}
	legal := p.Generate()
	return legal.Len() == 0
}
