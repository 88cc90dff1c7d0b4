package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestUCIHandshake(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("uci")

	s := out.String()
	if !strings.Contains(s, "id name Chaos") {
		t.Fatalf("missing id name line: %q", s)
	}
	if !strings.Contains(s, "uciok") {
		t.Fatalf("missing uciok: %q", s)
	}
	if !strings.Contains(s, "option name Threads") {
		t.Fatalf("missing Threads option: %q", s)
	}
}

func TestPositionStartposThenMoveApplies(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("position startpos moves e2e4 e7e5")

	pos := e.Position()
	if pos.SideToMove().String() != "w" {
		t.Fatalf("after two half-moves it should be white to move")
	}
}

func TestPositionKiwipeteParses(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("position kiwipete")
	if out.String() != "" {
		t.Fatalf("expected no error output for kiwipete, got %q", out.String())
	}
}

func TestSetOptionHashRebuildsSearcher(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("setoption name Hash value 4")
	if e.HashMB != 4 {
		t.Fatalf("HashMB = %d, want 4", e.HashMB)
	}
}

func TestGoNodesProducesBestmove(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("position startpos")
	e.Dispatch("go nodes 200")
	e.awaitPreviousSearch()

	if !strings.Contains(out.String(), "bestmove") {
		t.Fatalf("expected a bestmove line, got %q", out.String())
	}
}

func TestUnknownCommandIsReported(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	e.Dispatch("frobnicate")
	if !strings.Contains(out.String(), "Unknown command") {
		t.Fatalf("expected an Unknown command line, got %q", out.String())
	}
}

func TestQuitStopsTheLoop(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)
	if e.Dispatch("quit") {
		t.Fatalf("Dispatch(\"quit\") should return false")
	}
}
