package protocol

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// cmdD prints the current position's FEN, its Zobrist key, and whether the
// side to move is in check, mirroring the original engine's `d` debug command.
func (e *Engine) cmdD() {
	fmt.Fprintf(e.out, "FEN: %s\n", e.pos.FEN())
	fmt.Fprintf(e.out, "Key: %016X\n", e.pos.Zobrist())
	fmt.Fprintf(e.out, "Checkers: %v\n", e.pos.InCheck())
}

// cmdEval prints the raw value-network evaluation of the current position,
// both as a quantised centipawn score and its WDL projection.
func (e *Engine) cmdEval() {
	cp := network.Evaluate(&e.pos)
	wdl := network.CpToWDL(cp)
	fmt.Fprintf(e.out, "eval: %d cp (wdl %.4f)\n", cp, wdl)
}

// cmdPolicy prints the root policy distribution over legal moves, sorted by
// prior, one per line, as SPEC_FULL.md's supplemented informational commands
// describe.
func (e *Engine) cmdPolicy() {
	moves := e.pos.Generate()
	if moves.Len() == 0 {
		fmt.Fprintln(e.out, "policy: no legal moves")
		return
	}
	slice := moves.Slice()
	probs, gini := network.FillPolicy(&e.pos, slice, search.RootPolicyTemp)

	type entry struct {
		mv chess.Move
		p  float64
	}
	entries := make([]entry, len(slice))
	for i, m := range slice {
		entries[i] = entry{m, probs[i]}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].p > entries[j].p })

	fmt.Fprintf(e.out, "policy: gini=%.4f\n", gini)
	for _, en := range entries {
		fmt.Fprintf(e.out, "  %s %.4f\n", en.mv, en.p)
	}
}

// cmdTree prints the root's children sorted by visit count, optionally
// limited to the first N (`tree N`), matching the original engine's
// `tree`/`treesplit` debug output.
func (e *Engine) cmdTree(rest []string) {
	root := e.searcher.Tree.Root()
	if !root.HasChildren() {
		fmt.Fprintln(e.out, "tree: root has no children yet")
		return
	}

	limit := root.NumChildren()
	if len(rest) > 0 {
		if v, ok := parseUint(rest[0]); ok && v > 0 && v < limit {
			limit = v
		}
	}

	type row struct {
		mv     chess.Move
		visits uint64
		q      float64
		policy float64
	}
	rows := make([]row, root.NumChildren())
	for i := 0; i < root.NumChildren(); i++ {
		c := e.searcher.Tree.ChildAt(root, i)
		rows[i] = row{c.Move(), c.Visits(), c.Q(), c.Policy()}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].visits > rows[j].visits })

	fmt.Fprintf(e.out, "tree: %d visits, %d children\n", root.Visits(), root.NumChildren())
	for i := 0; i < limit; i++ {
		r := rows[i]
		fmt.Fprintf(e.out, "  %-6s N=%-8d Q=%+.4f P=%.4f\n", r.mv, r.visits, r.q, r.policy)
	}
}

// cmdPerft runs a fixed-depth move-count test from the current position,
// either recursively (`perft`) or with leaf-level bulk counting (`bulk`),
// as named by SPEC_FULL.md's supplemented developer commands.
func (e *Engine) cmdPerft(rest []string, bulk bool) {
	if len(rest) == 0 {
		fmt.Fprintln(e.out, "Unknown command: perft requires a depth")
		return
	}
	depth, ok := parseUint(rest[0])
	if !ok || depth < 0 {
		fmt.Fprintln(e.out, "Unknown command: bad perft depth")
		return
	}
	nodes := perftCount(&e.pos, depth, bulk)
	fmt.Fprintf(e.out, "Nodes searched: %d\n", nodes)
}

func perftCount(pos *chess.Position, depth int, bulk bool) uint64 {
	moves := pos.Generate()
	if depth == 0 {
		return 1
	}
	if bulk && depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		next := pos.Apply(moves.At(i))
		nodes += perftCount(&next, depth-1, bulk)
	}
	return nodes
}

// cmdPerftSuite reads an EPD-style perft suite file: each line is
//
//	<fen> ;D1 <nodes> ;D2 <nodes> ...
//
// and reports pass/fail per depth per position.
func (e *Engine) cmdPerftSuite(rest []string) {
	if len(rest) == 0 {
		fmt.Fprintln(e.out, "Unknown command: perftsuite requires a file path")
		return
	}
	f, err := os.Open(rest[0])
	if err != nil {
		fmt.Fprintf(e.out, "perftsuite: %v\n", err)
		return
	}
	defer f.Close()

	pass, fail := 0, 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ";")
		fen := strings.TrimSpace(parts[0])
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			fmt.Fprintf(e.out, "perftsuite: bad fen %q: %v\n", fen, err)
			continue
		}
		for _, spec := range parts[1:] {
			spec = strings.TrimSpace(spec)
			if spec == "" || spec[0] != 'D' {
				continue
			}
			fields := strings.Fields(spec[1:])
			if len(fields) != 2 {
				continue
			}
			depth, ok1 := parseUint(fields[0])
			want, ok2 := parseUint(fields[1])
			if !ok1 || !ok2 {
				continue
			}
			got := perftCount(&pos, depth, true)
			if got == uint64(want) {
				pass++
			} else {
				fail++
				fmt.Fprintf(e.out, "FAIL %s D%d: got %d want %d\n", fen, depth, got, want)
			}
		}
	}
	fmt.Fprintf(e.out, "perftsuite: %d passed, %d failed\n", pass, fail)
}
