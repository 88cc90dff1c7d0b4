package selfplay

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
)

// rollingWindow is a fixed-size ring buffer of timestamped position counts,
// used to compute a smoothed nodes-per-second figure (spec.md §4.7 "NPS are
// computed with a 100-sample rolling window in the main thread").
type rollingWindow struct {
	samples [100]uint64
	times   [100]time.Time
	n       int
	next    int
}

func (w *rollingWindow) push(positions uint64, t time.Time) {
	w.samples[w.next] = positions
	w.times[w.next] = t
	w.next = (w.next + 1) % len(w.samples)
	if w.n < len(w.samples) {
		w.n++
	}
}

// nps returns the smoothed throughput across the window's oldest and
// most-recently-pushed samples, or 0 until at least two samples exist.
func (w *rollingWindow) nps() float64 {
	if w.n < 2 {
		return 0
	}
	oldestIdx := w.next
	if w.n < len(w.samples) {
		oldestIdx = 0
	}
	newestIdx := (w.next - 1 + len(w.samples)) % len(w.samples)

	dp := float64(w.samples[newestIdx]) - float64(w.samples[oldestIdx])
	dt := w.times[newestIdx].Sub(w.times[oldestIdx]).Seconds()
	if dt <= 0 {
		return 0
	}
	return dp / dt
}

// ProgressReporter prints a periodically-refreshed one-line status using
// termenv styling (SPEC_FULL.md §2 domain-stack wiring), grounded on the
// teacher's own dependency on github.com/muesli/termenv.
type ProgressReporter struct {
	out    *termenv.Output
	window rollingWindow
}

func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{out: termenv.NewOutput(w)}
}

// Tick renders one progress line summarising a driver's aggregate state.
func (p *ProgressReporter) Tick(games, positions uint64) {
	p.window.push(positions, time.Now())

	gamesStyled := p.out.String(fmt.Sprintf("%d", games)).Foreground(p.out.Color("2")).Bold()
	npsStyled := p.out.String(fmt.Sprintf("%.0f", p.window.nps())).Foreground(p.out.Color("6"))

	fmt.Fprintf(p.out, "\rgames=%s positions=%d nps=%s   ", gamesStyled, positions, npsStyled)
}

// Run polls d's aggregate counters every interval and renders them until
// stop is closed.
func (p *ProgressReporter) Run(d *Driver, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			p.Tick(d.totalGames.Load(), d.totalPositions.Load())
			fmt.Fprintln(p.out)
			return
		case <-ticker.C:
			p.Tick(d.totalGames.Load(), d.totalPositions.Load())
		}
	}
}
