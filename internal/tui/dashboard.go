// Package tui implements the pretty-printing terminal dashboard driven by
// the `tui` command (SPEC_FULL.md §3, ported from the original engine's
// tui.cpp), styled with github.com/muesli/termenv and sized via
// golang.org/x/sys/unix's TIOCGWINSZ ioctl.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"

	"github.com/Quinniboi10/Chaos/internal/chess"
	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// TermSize returns the current terminal's (columns, rows), falling back to
// 80x24 when the ioctl fails (piped output, non-terminal stdout).
func TermSize(f *os.File) (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// Dashboard renders a single-screen live view of a search: tree occupancy,
// half-swap count, TT usage, NPS, score, and the current best move, redrawn
// in place with ANSI cursor movement.
type Dashboard struct {
	out      *termenv.Output
	cols     int
	lastLine int
}

func NewDashboard(w io.Writer) *Dashboard {
	out := termenv.NewOutput(w)
	cols, _ := TermSize(os.Stdout)
	return &Dashboard{out: out, cols: cols}
}

// Render draws one frame of the dashboard for a Searcher mid-search.
func (d *Dashboard) Render(s *search.Searcher, pos *chess.Position, res search.Result) {
	if d.lastLine > 0 {
		fmt.Fprintf(d.out, "\033[%dA\033[J", d.lastLine)
	}

	root := s.Tree.Root()
	occupancy := s.Tree.Occupancy() * 100
	hashfull := int(s.Tree.TT.Hashfull() * 1000)

	cp := network.WDLToCpClamped(root.Q())
	scoreStyle := d.out.String(fmt.Sprintf("%+d cp", cp))
	if cp > 0 {
		scoreStyle = scoreStyle.Foreground(d.out.Color("2"))
	} else if cp < 0 {
		scoreStyle = scoreStyle.Foreground(d.out.Color("1"))
	}

	nps := uint64(0)
	if res.ElapsedMs > 0 {
		nps = res.Nodes * 1000 / uint64(res.ElapsedMs)
	}

	lines := []string{
		d.out.String(fmt.Sprintf("Chaos — %s to move", pos.SideToMove())).Bold().String(),
		fmt.Sprintf("tree: %.1f%% (h-switches %d)   tt: %d/1000", occupancy, res.HSwitches, hashfull),
		fmt.Sprintf("nodes: %d   nps: %d   depth: %d/%d", res.Nodes, nps, res.Depth, res.Seldepth),
		fmt.Sprintf("score: %s   bestmove: %s", scoreStyle, res.BestMove),
	}
	for _, l := range lines {
		fmt.Fprintln(d.out, l)
	}
	d.lastLine = len(lines)
}
