package protocol

import (
	"io"
	"sync"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/search"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// Engine holds the protocol layer's mutable session state: the current
// position, its played-move history (for repetition detection across the
// whole game, not just one search's rollouts), and the UCI-configurable
// options (spec.md §6.1).
type Engine struct {
	out io.Writer

	searcher *search.Searcher
	pos      chess.Position
	history  []uint64 // Zobrist keys of every position reached this game, including pos itself
	searchWg sync.WaitGroup

	Threads    int
	HashMB     int
	MultiPV    int
	Minimal    bool
	Chess960   bool
	SearchMode string
}

// New constructs an Engine writing UCI/informational output to out.
func New(out io.Writer) *Engine {
	e := &Engine{
		out:        out,
		Threads:    1,
		HashMB:     64,
		MultiPV:    1,
		SearchMode: "full",
	}
	e.searcher = search.New(e.HashMB)
	e.NewGame()
	return e
}

func (e *Engine) setHash(mb int) {
	e.awaitPreviousSearch()
	e.HashMB = mb
	e.searcher = search.New(mb)
	e.NewGame()
}

// NewGame resets the position to the startpos and clears search state
// (spec.md §6.1 `ucinewgame`).
func (e *Engine) NewGame() {
	e.awaitPreviousSearch()
	e.pos = chess.StartPos()
	e.history = []uint64{e.pos.Zobrist()}
	e.searcher.Tree.TT.Clear(e.Threads)
	e.searcher.Tree.ResetRoot()
	e.searcher.SetPosition(e.pos, e.history)
}

// SetPositionFromFEN sets the root position from a FEN string plus a sequence
// of UCI move strings already applied (spec.md §6.1 `position`).
func (e *Engine) SetPositionFromFEN(fen string, moves []string) error {
	e.awaitPreviousSearch()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return err
	}
	hist := []uint64{pos.Zobrist()}
	for _, mv := range moves {
		m, ok := pos.ParseUCIMove(mv)
		if !ok {
			return errIllegalMove(mv)
		}
		pos = pos.Apply(m)
		hist = append(hist, pos.Zobrist())
	}
	e.pos = pos
	e.history = hist
	e.searcher.SetPosition(e.pos, e.history)
	return nil
}

// ApplyMove plays a single UCI move against the current position, as used
// by the standalone `move <uci>` REPL command (SPEC_FULL.md §3);
// `position ... moves ...` goes through SetPositionFromFEN instead.
func (e *Engine) ApplyMove(mv string) error {
	e.awaitPreviousSearch()
	m, ok := e.pos.ParseUCIMove(mv)
	if !ok {
		return errIllegalMove(mv)
	}
	e.pos = e.pos.Apply(m)
	e.history = append(e.history, e.pos.Zobrist())
	e.searcher.SetPosition(e.pos, e.history)
	return nil
}

type illegalMoveError string

func (e illegalMoveError) Error() string { return "illegal or unparseable move: " + string(e) }
func errIllegalMove(mv string) error     { return illegalMoveError(mv) }

// Position returns the current root position.
func (e *Engine) Position() chess.Position { return e.pos }

// Searcher exposes the underlying MCTS searcher for `go`/`stop`/informational commands.
func (e *Engine) Searcher() *search.Searcher { return e.searcher }
