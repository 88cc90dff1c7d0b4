package chess

// MoveKind occupies the top two bits of a packed Move.
type MoveKind uint16

const (
	Standard  MoveKind = 0x0000
	EnPassant MoveKind = 0x4000
	Castle    MoveKind = 0x8000
	Promotion MoveKind = 0xC000
)

const moveKindMask = 0xC000

// Move is the 16-bit packed (from, to, kind, promo) representation named by
// the data model (§3.2 Node.move): bits 0-5 origin square, bits 6-11
// destination square, bits 12-13 promotion piece (knight=0..queen=3, valid
// only when kind is Promotion), bits 14-15 MoveKind.
type Move uint16

func NewMove(from, to Square, kind MoveKind) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(kind))
}

func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(promo-Knight)<<12 | uint16(Promotion))
}

func NullMove() Move { return Move(0) }

func (m Move) From() Square   { return Square(m & 0x3F) }
func (m Move) To() Square     { return Square((m >> 6) & 0x3F) }
func (m Move) Kind() MoveKind { return MoveKind(m & moveKindMask) }
func (m Move) IsNull() bool   { return m.From() == m.To() }

// Promo returns the promotion piece type; only meaningful when Kind() == Promotion.
func (m Move) Promo() PieceType { return Knight + PieceType((m>>12)&0x3) }

func (m Move) String() string {
	s := m.From().String() + m.To().String()
	if m.Kind() == Promotion {
		s += string(m.Promo().Letter(Black))
	}
	return s
}

// MoveList is a fixed-capacity slice of legal moves; 218 is the largest
// known legal-move count for any reachable chess position, so 256 leaves
// headroom without a bounds check in the hot expansion path.
type MoveList struct {
	moves [256]Move
	n     int
}

func (l *MoveList) Add(m Move) {
	l.moves[l.n] = m
	l.n++
}

func (l *MoveList) Len() int         { return l.n }
func (l *MoveList) At(i int) Move    { return l.moves[i] }
func (l *MoveList) Slice() []Move    { return l.moves[:l.n] }

func (l *MoveList) Find(m Move) (int, bool) {
	for i := 0; i < l.n; i++ {
		if l.moves[i] == m {
			return i, true
		}
	}
	return 0, false
}
