package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

// Run drives the line-oriented command loop over in, writing responses to
// e.out, until `quit` or EOF (spec.md §6.1).
func (e *Engine) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if !e.Dispatch(strings.TrimSpace(scanner.Text())) {
			return
		}
	}
}

// Dispatch handles a single command line; returns false when the session
// should end (`quit`).
func (e *Engine) Dispatch(line string) bool {
	if line == "" {
		return true
	}
	fields := strings.Fields(line)
	cmd := fields[0]
	rest := fields[1:]

	switch cmd {
	case "uci":
		fmt.Fprintln(e.out, "id name Chaos")
		fmt.Fprintln(e.out, "id author Quinniboi10")
		e.PrintUCIOptions()
		fmt.Fprintln(e.out, "uciok")
	case "isready":
		fmt.Fprintln(e.out, "readyok")
	case "ucinewgame":
		e.NewGame()
	case "position":
		e.cmdPosition(rest)
	case "go":
		e.cmdGo(rest)
	case "setoption":
		e.cmdSetOption(rest)
	case "stop":
		e.searcher.Stop()
	case "quit":
		return false
	case "d":
		e.cmdD()
	case "eval":
		e.cmdEval()
	case "policy":
		e.cmdPolicy()
	case "tree":
		e.cmdTree(rest)
	case "perft":
		e.cmdPerft(rest, false)
	case "bulk":
		e.cmdPerft(rest, true)
	case "perftsuite":
		e.cmdPerftSuite(rest)
	case "move":
		if len(rest) != 1 {
			fmt.Fprintln(e.out, "Unknown command: move requires exactly one uci move")
			return true
		}
		if err := e.ApplyMove(rest[0]); err != nil {
			fmt.Fprintln(e.out, err.Error())
		}
	case "tui":
		e.cmdTui(rest)
	default:
		fmt.Fprintf(e.out, "Unknown command: %s\n", line)
	}
	return true
}

func (e *Engine) cmdSetOption(rest []string) {
	// setoption name <N...> value <V...>; both N and V may contain spaces.
	nameStart, valueStart := -1, -1
	for i, f := range rest {
		if strings.EqualFold(f, "name") {
			nameStart = i + 1
		}
		if strings.EqualFold(f, "value") {
			valueStart = i + 1
		}
	}
	if nameStart == -1 {
		fmt.Fprintln(e.out, "Unknown command: setoption missing name")
		return
	}
	nameEnd := len(rest)
	if valueStart != -1 {
		nameEnd = valueStart - 1
	}
	name := strings.Join(rest[nameStart:nameEnd], " ")
	value := ""
	if valueStart != -1 {
		value = strings.Join(rest[valueStart:], " ")
	}
	e.SetOption(name, value)
}

func (e *Engine) cmdPosition(rest []string) {
	if len(rest) == 0 {
		fmt.Fprintln(e.out, "Unknown command: position requires an argument")
		return
	}

	var fen string
	var movesIdx int

	switch rest[0] {
	case "startpos":
		fen = chess.StartFEN
		movesIdx = 1
	case "kiwipete":
		fen = kiwipeteFEN
		movesIdx = 1
	case "fen":
		// FEN is 6 whitespace-separated fields; consume up to "moves" or EOL.
		end := 1
		for end < len(rest) && rest[end] != "moves" {
			end++
		}
		fen = strings.Join(rest[1:end], " ")
		movesIdx = end
	default:
		fmt.Fprintf(e.out, "Unknown command: position %s\n", rest[0])
		return
	}

	var moves []string
	if movesIdx < len(rest) && rest[movesIdx] == "moves" {
		moves = rest[movesIdx+1:]
	}

	if err := e.SetPositionFromFEN(fen, moves); err != nil {
		fmt.Fprintln(e.out, "Unknown command: bad position: "+err.Error())
	}
}

func parseUint(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}
