package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromLetter = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// StartPos returns the standard chess starting position.
func StartPos() Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic("chess: StartFEN failed to parse: " + err.Error())
	}
	return p
}

// ParseFEN parses Forsyth-Edwards Notation into a Position (§8 FEN round-trip).
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, fmt.Errorf("chess: FEN %q has fewer than 4 fields", fen)
	}
	var p Position
	p.epSquare = NoSquare

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("chess: FEN %q does not have 8 ranks", fen)
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range []byte(rankStr) {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pt, ok := pieceFromLetter[strings.ToLower(string(ch))[0]]
			if !ok {
				return Position{}, fmt.Errorf("chess: FEN %q has invalid piece %q", fen, string(ch))
			}
			if file > 7 {
				return Position{}, fmt.Errorf("chess: FEN %q overflows rank %d", fen, rank+1)
			}
			color := Black
			if ch >= 'A' && ch <= 'Z' {
				color = White
			}
			p.place(color, pt, MakeSquare(file, rank))
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("chess: FEN %q rank %d does not sum to 8 files", fen, rank+1)
		}
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
		p.key ^= zobristSide
	default:
		return Position{}, fmt.Errorf("chess: FEN %q has bad side-to-move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range []byte(fields[2]) {
			switch ch {
			case 'K':
				p.castling |= WhiteKingside
			case 'Q':
				p.castling |= WhiteQueenside
			case 'k':
				p.castling |= BlackKingside
			case 'q':
				p.castling |= BlackQueenside
			default:
				return Position{}, fmt.Errorf("chess: FEN %q has bad castling field %q", fen, fields[2])
			}
		}
	}
	p.key ^= zobristCastle[p.castling]

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("chess: FEN %q has bad en passant square: %w", fen, err)
		}
		p.epSquare = sq
		p.key ^= zobristEpFile[sq.File()]
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil {
			return Position{}, fmt.Errorf("chess: FEN %q has bad halfmove clock: %w", fen, err)
		}
		p.halfmove = uint8(hm)
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil {
			return Position{}, fmt.Errorf("chess: FEN %q has bad fullmove number: %w", fen, err)
		}
		p.fullmove = uint16(fm)
	} else {
		p.fullmove = 1
	}

	return p, nil
}

// FEN emits the position in Forsyth-Edwards Notation; round-trips with
// ParseFEN for every field (§8 FEN round-trip).
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := MakeSquare(file, rank)
			c, pt, ok := p.PieceAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pt.Letter(c))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.stm.String())

	sb.WriteByte(' ')
	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.castling.Has(WhiteKingside) {
			sb.WriteByte('K')
		}
		if p.castling.Has(WhiteQueenside) {
			sb.WriteByte('Q')
		}
		if p.castling.Has(BlackKingside) {
			sb.WriteByte('k')
		}
		if p.castling.Has(BlackQueenside) {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())

	fmt.Fprintf(&sb, " %d %d", p.halfmove, p.fullmove)
	return sb.String()
}
