package selfplay

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

func TestWriteGameRoundTripsHeaderAndTerminator(t *testing.T) {
	start := chess.StartPos()
	e4, ok := start.ParseUCIMove("e2e4")
	if !ok {
		t.Fatalf("e2e4 should be legal from the startpos")
	}
	after := start.Apply(e4)

	records := []MoveRecord{
		{
			Pos:    start,
			Move:   e4,
			RootQ:  0.05,
			Moves:  []chess.Move{e4},
			Visits: []uint64{100},
		},
	}

	var buf bytes.Buffer
	if err := WriteGame(&buf, start, records, Win); err != nil {
		t.Fatalf("WriteGame: %v", err)
	}

	data := buf.Bytes()
	if len(data) < boardRecordSize+4+1 {
		t.Fatalf("record too short: %d bytes", len(data))
	}

	wdlByte := data[boardRecordSize+4]
	if WDL(wdlByte) != Win {
		t.Fatalf("wdl byte = %d, want %d", wdlByte, Win)
	}

	moveWord := binary.LittleEndian.Uint16(data[boardRecordSize+5:])
	from := chess.Square(moveWord & 0x3F)
	to := chess.Square((moveWord >> 6) & 0x3F)
	if from != e4.From() || to != e4.To() {
		t.Fatalf("decoded move %s%s, want %s%s", from, to, e4.From(), e4.To())
	}

	// Trailing zero u16 terminator.
	term := binary.LittleEndian.Uint16(data[len(data)-2:])
	if term != 0 {
		t.Fatalf("expected zero terminator, got %d", term)
	}

	_ = after
}

func TestClassifyFlagDoublePush(t *testing.T) {
	start := chess.StartPos()
	e4, ok := start.ParseUCIMove("e2e4")
	if !ok {
		t.Fatalf("e2e4 should be legal")
	}
	if got := classifyFlag(&start, e4); got != flagDoublePush {
		t.Fatalf("classifyFlag(e2e4) = %d, want flagDoublePush", got)
	}
}

func TestClassifyFlagCapture(t *testing.T) {
	pos, err := chess.ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	mv, ok := pos.ParseUCIMove("e4d5")
	if !ok {
		t.Fatalf("e4d5 should be a legal capture")
	}
	if got := classifyFlag(&pos, mv); got != flagCapture {
		t.Fatalf("classifyFlag(e4d5) = %d, want flagCapture", got)
	}
}
