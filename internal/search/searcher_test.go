package search

import (
	"testing"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

func TestSearchStartposReturnsLegalMove(t *testing.T) {
	s := New(4)
	s.SetPosition(chess.StartPos(), nil)
	res := s.Search(Options{Limits: Limits{Nodes: 500}})
	if res.BestMove.IsNull() {
		t.Fatalf("expected a non-null bestmove from the startpos")
	}
	startpos := chess.StartPos()
	legal := startpos.Generate()
	if _, ok := legal.Find(res.BestMove); !ok {
		t.Fatalf("bestmove %s is not a legal startpos move", res.BestMove)
	}
}

func TestSearchStalematePositionDoesNotCrash(t *testing.T) {
	pos, err := chess.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s := New(4)
	s.SetPosition(pos, nil)
	res := s.Search(Options{Limits: Limits{Nodes: 100}})
	if !res.BestMove.IsNull() {
		t.Fatalf("stalemate root should have no legal moves, got bestmove %s", res.BestMove)
	}
}

func TestTreeReuseFindsRepeatedPosition(t *testing.T) {
	s := New(4)
	start := chess.StartPos()
	s.SetPosition(start, nil)
	s.Search(Options{Limits: Limits{Nodes: 300}})

	// Setting the same position again should hit the zero-ply reuse path
	// rather than discarding the tree.
	s.SetPosition(start, nil)
	if s.Tree.Root().Visits() == 0 {
		t.Fatalf("expected tree reuse to preserve the previous root's visit count")
	}
}

func TestHalfSwapUnderTinyHashDoesNotCrash(t *testing.T) {
	s := New(1)
	s.SetPosition(chess.StartPos(), nil)
	res := s.Search(Options{Limits: Limits{Nodes: 20000}})
	if res.BestMove.IsNull() {
		t.Fatalf("expected a bestmove even after half swaps")
	}
}
