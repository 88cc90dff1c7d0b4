package chess

// IsAttacked reports whether sq is attacked by any piece of color by.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	occ := p.Occupied()

	if knightAttacks[sq]&p.pieces[by][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&p.pieces[by][King] != 0 {
		return true
	}
	if pawnAttacks[by.Other()][sq]&p.pieces[by][Pawn] != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.pieces[by][Rook]|p.pieces[by][Queen]) != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.pieces[by][Bishop]|p.pieces[by][Queen]) != 0 {
		return true
	}
	return false
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	kingBB := p.pieces[p.stm][King]
	if kingBB == 0 {
		return false
	}
	kingSq, _ := kingBB.PopLSB()
	return p.IsAttacked(kingSq, p.stm.Other())
}

// Generate produces every legal move for the side to move (§4.1). At most
// 256 moves are ever returned, matching MoveList's capacity.
func (p *Position) Generate() MoveList {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)

	var legal MoveList
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		next := p.Apply(m)
		kingBB := next.pieces[p.stm][King]
		if kingBB == 0 {
			continue
		}
		kingSq, _ := kingBB.PopLSB()
		if !next.IsAttacked(kingSq, next.stm) {
			legal.Add(m)
		}
	}
	return legal
}

func (p *Position) generatePseudoLegal(out *MoveList) {
	us, them := p.stm, p.stm.Other()
	occ := p.Occupied()
	ownOcc := p.occupied[us]

	p.generatePawnMoves(out)

	for _, step := range [2]struct {
		pt    PieceType
		table *[64]Bitboard
	}{{Knight, &knightAttacks}, {King, &kingAttacks}} {
		pt, table := step.pt, step.table
		bb := p.pieces[us][pt]
		for bb != 0 {
			var from Square
			from, bb = bb.PopLSB()
			targets := table[from] &^ ownOcc
			addSimpleMoves(out, from, targets)
		}
	}

	bb := p.pieces[us][Bishop]
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()
		addSimpleMoves(out, from, BishopAttacks(from, occ)&^ownOcc)
	}
	bb = p.pieces[us][Rook]
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()
		addSimpleMoves(out, from, RookAttacks(from, occ)&^ownOcc)
	}
	bb = p.pieces[us][Queen]
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()
		addSimpleMoves(out, from, QueenAttacks(from, occ)&^ownOcc)
	}

	p.generateCastles(out)
	_ = them
}

func addSimpleMoves(out *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		var to Square
		to, targets = targets.PopLSB()
		out.Add(NewMove(from, to, Standard))
	}
}

var promoPieces = [4]PieceType{Knight, Bishop, Rook, Queen}

// generatePawnMoves walks one pawn at a time rather than the usual
// bulk-shift bitboard trick: simpler to get right, and pawn move count per
// position is small enough that the per-square loop costs nothing that
// matters for an out-of-scope oracle.
func (p *Position) generatePawnMoves(out *MoveList) {
	us, them := p.stm, p.stm.Other()
	occ := p.Occupied()
	theirs := p.occupied[them]

	dir := 1
	startRank, promoRank, epRank := 1, 7, 4
	if us == Black {
		dir = -1
		startRank, promoRank, epRank = 6, 0, 3
	}

	pawns := p.pieces[us][Pawn]
	for pawns != 0 {
		var from Square
		from, pawns = pawns.PopLSB()
		f, r := from.File(), from.Rank()

		if one := r + dir; one >= 0 && one < 8 {
			to := MakeSquare(f, one)
			if !occ.Has(to) {
				addPawnAdvance(out, from, to, promoRank)
				if r == startRank {
					two := MakeSquare(f, r+2*dir)
					if !occ.Has(two) {
						out.Add(NewMove(from, two, Standard))
					}
				}
			}
		}

		for _, df := range [2]int{-1, 1} {
			nf, nr := f+df, r+dir
			if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
				continue
			}
			to := MakeSquare(nf, nr)
			if theirs.Has(to) {
				addPawnAdvance(out, from, to, promoRank)
			} else if p.epSquare == to && r == epRank {
				out.Add(NewMove(from, to, EnPassant))
			}
		}
	}
}

func addPawnAdvance(out *MoveList, from, to Square, promoRank int) {
	if to.Rank() == promoRank {
		for _, promo := range promoPieces {
			out.Add(NewPromotion(from, to, promo))
		}
	} else {
		out.Add(NewMove(from, to, Standard))
	}
}

func (p *Position) generateCastles(out *MoveList) {
	us := p.stm
	occ := p.Occupied()
	rank := 0
	if us == Black {
		rank = 7
	}
	kingSide, queenSide := WhiteKingside, WhiteQueenside
	if us == Black {
		kingSide, queenSide = BlackKingside, BlackQueenside
	}
	kingFrom := MakeSquare(4, rank)
	if p.stm.Other() == us {
		return
	}
	if p.castling.Has(kingSide) {
		f, g := MakeSquare(5, rank), MakeSquare(6, rank)
		if !occ.Has(f) && !occ.Has(g) &&
			!p.IsAttacked(kingFrom, us.Other()) && !p.IsAttacked(f, us.Other()) && !p.IsAttacked(g, us.Other()) {
			out.Add(NewMove(kingFrom, g, Castle))
		}
	}
	if p.castling.Has(queenSide) {
		b, c, d := MakeSquare(1, rank), MakeSquare(2, rank), MakeSquare(3, rank)
		if !occ.Has(b) && !occ.Has(c) && !occ.Has(d) &&
			!p.IsAttacked(kingFrom, us.Other()) && !p.IsAttacked(d, us.Other()) && !p.IsAttacked(c, us.Other()) {
			out.Add(NewMove(kingFrom, c, Castle))
		}
	}
}
