// Package bench implements the deterministic `bench` subcommand: search a
// fixed suite of positions to a fixed node count and report throughput,
// grounded on the retrieval pack's VersusArena worker-pool pattern
// (pkg/bench/versus_arena.go) but simplified to a single-engine throughput
// benchmark rather than a two-engine match.
package bench

import (
	"fmt"
	"hash/fnv"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// Positions is the fixed bench suite: openings and middlegame/endgame test
// positions spanning quiet and tactical themes, so `bench` output is
// reproducible across builds run with the same node count.
var Positions = []string{
	chess.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkb1r/pp1p1ppp/2p5/4P3/2B5/8/PPP1NnPP/RNBQK2R b KQkq - 0 6",
	"2r5/3pk3/8/2P5/8/2K5/8/8 w - - 5 4",
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
	"4rrk1/pp1n3p/3q2pQ/2p1pb2/2PP4/2P3N1/P2B2PP/4RRK1 b - - 7 19",
	"2rqkb1r/ppp2p2/2npb1p1/1N1Nn2p/2P1PP2/8/PP2B1PP/R1BQK2R b KQ - 0 11",
	"rq3rk1/ppp2ppp/1bnpb3/3N2B1/3NP3/7P/PPPQ1PP1/2KR3R w - - 7 14",
}

// Result summarises one bench run.
type Result struct {
	TotalNodes uint64
	ElapsedMs  int64
	NPS        uint64
	SigHash    uint64
}

// Run searches every position in the suite to a fixed node budget using
// threads workers, printing per-position lines to out and returning the
// aggregate throughput, matching the layout of common UCI engines' `bench`
// output.
func Run(out io.Writer, hashMB, threads int, nodes uint64) Result {
	if threads < 1 {
		threads = 1
	}
	if threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	}

	jobs := make(chan int, len(Positions))
	for i := range Positions {
		jobs <- i
	}
	close(jobs)

	var mu sync.Mutex
	perPosNodes := make([]uint64, len(Positions))
	perPosBest := make([]chess.Move, len(Positions))

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := search.New(hashMB)
			for idx := range jobs {
				pos, err := chess.ParseFEN(Positions[idx])
				if err != nil {
					continue
				}
				s.SetPosition(pos, nil)
				res := s.Search(search.Options{Limits: search.Limits{Nodes: nodes}})
				mu.Lock()
				perPosNodes[idx] = res.Nodes
				perPosBest[idx] = res.BestMove
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	// Signature hash: an FNV-1a running over each position's node count and
	// chosen move, so a change to search or move ordering that alters either
	// shows up as a different hash without diffing the full per-position
	// output.
	h := fnv.New64a()
	var total uint64
	for i, n := range perPosNodes {
		total += n
		fmt.Fprintf(out, "position %d: %d nodes, bestmove %s\n", i+1, n, perPosBest[i])
		fmt.Fprintf(h, "%d:%s", n, perPosBest[i])
	}

	ms := elapsed.Milliseconds()
	nps := uint64(0)
	if ms > 0 {
		nps = total * 1000 / uint64(ms)
	}

	sig := h.Sum64()
	fmt.Fprintf(out, "\n%d nodes %d nps\n", total, nps)
	fmt.Fprintf(out, "%016x signature\n", sig)
	return Result{TotalNodes: total, ElapsedMs: ms, NPS: nps, SigHash: sig}
}
