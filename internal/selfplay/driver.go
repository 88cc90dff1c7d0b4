package selfplay

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// RandMoves is the base opening-randomisation ply count (spec.md §4.7 step
// 1); the actual count applied per game is RandMoves + Bernoulli(1/2), so
// each game's opening length is RandMoves or RandMoves+1 at random.
var RandMoves = 8

// NodeBudget is the fixed per-move search node count during self-play
// (spec.md §4.7 step 3 default).
var NodeBudget uint64 = 2000

// MaxStartposScore filters unbalanced openings (spec.md §4.7 step 3
// default 400 cp).
var MaxStartposScore int32 = 400

// Options configures a self-play run (SPEC_FULL.md §3, spec.md §6.1
// `datagen threads=N positions=M nodes=K`).
type Options struct {
	Threads         int
	TargetGames     int // 0 = unbounded, run until Stop
	TargetPositions int // 0 = unbounded; stops once total written positions reach this
	NodesPerMove    uint64
	OutputDir       string
	CheckpointDir   string
}

// WorkerStatus is the live, atomically-updated snapshot the main thread
// reads to render progress (spec.md §5 "Mutex<Position> holding the
// worker's current position so the main thread can render it").
type WorkerStatus struct {
	mu       sync.Mutex
	pos      chess.Position
	positions atomic.Uint64
	games     atomic.Uint64
}

func (w *WorkerStatus) setPosition(p chess.Position) {
	w.mu.Lock()
	w.pos = p
	w.mu.Unlock()
}

func (w *WorkerStatus) Position() chess.Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// Driver runs the self-play worker pool (spec.md §4.7).
type Driver struct {
	opts       Options
	stop       atomic.Bool
	checkpoint *CheckpointStore
	Statuses   []*WorkerStatus

	totalGames     atomic.Uint64
	totalPositions atomic.Uint64
}

// NewDriver constructs a Driver; opts.Threads defaults to 1 and
// opts.NodesPerMove defaults to NodeBudget when zero.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.NodesPerMove == 0 {
		opts.NodesPerMove = NodeBudget
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	d := &Driver{opts: opts, Statuses: make([]*WorkerStatus, opts.Threads)}
	for i := range d.Statuses {
		d.Statuses[i] = &WorkerStatus{}
	}

	if opts.CheckpointDir != "" {
		cp, err := OpenCheckpointStore(opts.CheckpointDir)
		if err != nil {
			return nil, err
		}
		d.checkpoint = cp
	}

	return d, nil
}

// Stop requests every worker to finish its current game and exit.
func (d *Driver) Stop() { d.stop.Store(true) }

// Run spawns opts.Threads workers and blocks until they all exit (because
// opts.TargetGames total games or opts.TargetPositions total positions were
// written, or Stop was called).
func (d *Driver) Run() error {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 0; i < d.opts.Threads; i++ {
		wg.Add(1)
		id := i
		go func() {
			defer wg.Done()
			d.worker(id)
		}()
	}
	wg.Wait()

	if d.checkpoint != nil {
		return d.checkpoint.Close()
	}
	return nil
}

func (d *Driver) worker(id int) {
	status := d.Statuses[id]
	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	s := search.New(16)

	outPath := filepath.Join(d.opts.OutputDir, fmt.Sprintf("worker-%d.bin", id))
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// spec.md §7: "I/O during self-play: file open failures are fatal
		// for that worker only".
		return
	}
	defer f.Close()

	var gamesCompleted, positionsWritten uint64

	for !d.stop.Load() {
		if d.opts.TargetGames > 0 && int(d.totalGames.Load()) >= d.opts.TargetGames {
			return
		}
		if d.opts.TargetPositions > 0 && int(d.totalPositions.Load()) >= d.opts.TargetPositions {
			return
		}

		start, ok := randomOpening(r)
		if !ok {
			continue
		}
		status.setPosition(start)

		records, wdl, ok := playOne(s, start, r, d.opts.NodesPerMove, &d.stop, status)
		if !ok {
			continue
		}

		writeGameAtomically(f, start, records, wdl)

		gamesCompleted++
		positionsWritten += uint64(len(records))
		status.games.Store(gamesCompleted)
		status.positions.Store(positionsWritten)
		d.totalGames.Add(1)
		d.totalPositions.Add(uint64(len(records)))

		if d.checkpoint != nil {
			d.checkpoint.Save(WorkerProgress{
				WorkerID:         id,
				PositionsWritten: positionsWritten,
				GamesCompleted:   gamesCompleted,
				LastGamePath:     outPath,
			})
			d.checkpoint.SetLastCompletedGame(outPath)
		}
	}
}

// IsValidStartpos reports whether a searched root's q is balanced enough to
// keep as a self-play opening (spec.md §4.7 step 3's "|wdl_to_cp(root.q)| >
// MAX_STARTPOS_SCORE" filter), standalone so other tooling (bulk/perftsuite
// style utilities) can reuse the same rule the driver applies internally.
func IsValidStartpos(rootQ float64) bool {
	cp := network.WDLToCpClamped(rootQ)
	return abs32(cp) <= MaxStartposScore
}

// GenerateStartpos runs randomOpening followed by one fixed-node search,
// retrying until it produces an opening IsValidStartpos accepts. It is the
// standalone counterpart to the driver's inline step 1+3 filtering, exposed
// for datagen-adjacent tooling that wants a single balanced starting
// position without running a whole game.
func GenerateStartpos(s *search.Searcher, r *rand.Rand, nodes uint64) chess.Position {
	for {
		pos, ok := randomOpening(r)
		if !ok {
			continue
		}
		s.SetPosition(pos, []uint64{pos.Zobrist()})
		s.Search(search.Options{Limits: search.Limits{Nodes: nodes}})
		if IsValidStartpos(s.Tree.Root().Q()) {
			return pos
		}
	}
}

// randomOpening applies RandMoves+Bernoulli(1/2) uniform-random legal moves
// from the startpos, restarting on game-over during randomisation (spec.md
// §4.7 step 1).
func randomOpening(r *rand.Rand) (chess.Position, bool) {
	pos := chess.StartPos()
	n := RandMoves
	if r.Intn(2) == 1 {
		n++
	}
	history := []uint64{pos.Zobrist()}
	for i := 0; i < n; i++ {
		if pos.IsGameOver(history) {
			return chess.Position{}, false
		}
		moves := pos.Generate()
		if moves.Len() == 0 {
			return chess.Position{}, false
		}
		mv := moves.At(r.Intn(moves.Len()))
		pos = pos.Apply(mv)
		history = append(history, pos.Zobrist())
	}
	if pos.IsGameOver(history) {
		return chess.Position{}, false
	}
	return pos, true
}

// playOne plays one game to completion (or until stopped), returning its
// recorded moves and terminal WDL relative to the starting side to move
// (spec.md §4.7 steps 2-4).
func playOne(s *search.Searcher, start chess.Position, r *rand.Rand, nodes uint64, stop *atomic.Bool, status *WorkerStatus) ([]MoveRecord, WDL, bool) {
	startStm := start.SideToMove()
	pos := start
	history := []uint64{pos.Zobrist()}
	s.SetPosition(pos, history)

	var records []MoveRecord

	for !pos.IsGameOver(history) {
		if stop.Load() {
			return nil, Draw, false
		}

		res := s.Search(search.Options{Limits: search.Limits{Nodes: nodes}})
		if res.BestMove.IsNull() {
			break
		}

		root := s.Tree.Root()
		rootQ := root.Q()

		if len(records) == 0 && !IsValidStartpos(rootQ) {
			return nil, Draw, false
		}

		childMoves := make([]chess.Move, 0, root.NumChildren())
		childVisits := make([]uint64, 0, root.NumChildren())
		for i := 0; i < root.NumChildren(); i++ {
			c := s.Tree.ChildAt(root, i)
			childMoves = append(childMoves, c.Move())
			childVisits = append(childVisits, c.Visits())
		}

		records = append(records, MoveRecord{
			Pos:    pos,
			Move:   res.BestMove,
			RootQ:  rootQ,
			Moves:  childMoves,
			Visits: childVisits,
		})

		pos = pos.Apply(res.BestMove)
		history = append(history, pos.Zobrist())
		status.setPosition(pos)
		s.SetPosition(pos, history)
	}

	wdl := terminalWDL(&pos, history, startStm)
	return records, wdl, true
}

// terminalWDL maps the terminal position's outcome to WDL relative to
// startStm (spec.md §4.7 step 4).
func terminalWDL(pos *chess.Position, history []uint64, startStm chess.Color) WDL {
	if pos.IsDraw(history) {
		return Draw
	}
	legal := pos.Generate()
	if legal.Len() == 0 && pos.InCheck() {
		// Checkmate: the side to move at the terminal position has lost.
		loser := pos.SideToMove()
		if loser == startStm {
			return Loss
		}
		return Win
	}
	return Draw
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// writeGameAtomically writes a completed game record, blocking SIGINT for
// the duration of the write and re-raising it afterward (spec.md §5
// "Signal handling", §4.7 step 5).
func writeGameAtomically(f *os.File, start chess.Position, records []MoveRecord, wdl WDL) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)

	WriteGame(f, start, records, wdl)
	f.Sync()

	select {
	case <-sigCh:
		proc, err := os.FindProcess(os.Getpid())
		if err == nil {
			proc.Signal(syscall.SIGINT)
		}
	default:
	}
}
