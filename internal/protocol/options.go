// Package protocol implements the line-oriented text command loop (spec.md
// §6.1) and the tunable-parameter option table it exposes through
// `setoption`, modeled on the original engine's tunable.h (SPEC_FULL.md
// §1 "Configuration").
package protocol

import (
	"fmt"
	"strconv"

	"github.com/Quinniboi10/Chaos/internal/network"
	"github.com/Quinniboi10/Chaos/internal/search"
)

// floatTunable mirrors tunable.h's IndividualOption, scaled by 1000 so a
// float64 search constant can be exposed as a UCI `spin` option (which is
// integer-only). Every entry named in spec.md §4.6.3/§4.6.8 is live.
type floatTunable struct {
	name       string
	get        func() float64
	set        func(float64)
	defaultVal int
	min, max   int
}

var floatTunables = []floatTunable{
	{"CPuct", func() float64 { return search.CpuctDefault }, func(v float64) { search.CpuctDefault = v }, 1500, 100, 5000},
	{"CPuctRoot", func() float64 { return search.CpuctRoot }, func(v float64) { search.CpuctRoot = v }, 2000, 100, 5000},
	{"CPuctVisitScale", func() float64 { return search.CpuctVisitScale }, func(v float64) { search.CpuctVisitScale = v }, 8192000, 1000, 50000000},
	{"GiniBase", func() float64 { return search.GiniBase }, func(v float64) { search.GiniBase = v }, 1500, 0, 5000},
	{"GiniScalar", func() float64 { return search.GiniScalar }, func(v float64) { search.GiniScalar = v }, 50, 0, 1000},
	{"GiniMin", func() float64 { return search.GiniMin }, func(v float64) { search.GiniMin = v }, 500, 0, 5000},
	{"GiniMax", func() float64 { return search.GiniMax }, func(v float64) { search.GiniMax = v }, 1500, 0, 5000},
	{"PolicyTemperature", func() float64 { return search.PolicyTemp }, func(v float64) { search.PolicyTemp = v }, 1100, 10, 10000},
	{"RootPolicyTemperature", func() float64 { return search.RootPolicyTemp }, func(v float64) { search.RootPolicyTemp = v }, 1200, 10, 10000},
	{"EvalDivisor", func() float64 { return network.EvalDivisor }, func(v float64) { network.EvalDivisor = v }, 400000, 1000, 2000000},
}

const tunableScale = 1000.0

// intOptions are the plain integer UCI options that don't back a search
// tunable (spec.md §6.1's uci option block plus MoveOverhead).
type intOption struct {
	name       string
	get        func() int
	set        func(int)
	defaultVal int
	min, max   int
}

func (e *Engine) intOptions() []intOption {
	return []intOption{
		{"Threads", func() int { return e.Threads }, func(v int) { e.Threads = v }, 1, 1, 512},
		{"Hash", func() int { return e.HashMB }, func(v int) { e.setHash(v) }, 64, 1, 1048576},
		{"MultiPV", func() int { return e.MultiPV }, func(v int) { e.MultiPV = v }, 1, 1, 255},
		{"MoveOverhead", func() int { return search.MoveOverheadMs }, func(v int) { search.MoveOverheadMs = v }, 30, 0, 5000},
	}
}

// boolOptions covers `Minimal` and `UCI_Chess960` (spec.md §6.1).
type boolOption struct {
	name       string
	get        func() bool
	set        func(bool)
	defaultVal bool
}

func (e *Engine) boolOptions() []boolOption {
	return []boolOption{
		{"Minimal", func() bool { return e.Minimal }, func(v bool) { e.Minimal = v }, false},
		// Stored but not read by move generation or castling: the oracle
		// only ever places castling rooks on the standard A/H files, so
		// Chess960 is out of functional scope (see DESIGN.md).
		{"UCI_Chess960", func() bool { return e.Chess960 }, func(v bool) { e.Chess960 = v }, false},
	}
}

// searchModeValues are the enumerated values of the SearchMode combo option.
var searchModeValues = []string{"full", "policy", "value"}

// PrintUCIOptions writes the `option name ...` block for the `uci` command
// (spec.md §6.1).
func (e *Engine) PrintUCIOptions() {
	fmt.Fprintf(e.out, "option name Threads type spin default 1 min 1 max 512\n")
	fmt.Fprintf(e.out, "option name Hash type spin default 64 min 1 max 1048576\n")
	fmt.Fprintf(e.out, "option name Minimal type check default false\n")
	fmt.Fprintf(e.out, "option name MultiPV type spin default 1 min 1 max 255\n")
	fmt.Fprintf(e.out, "option name UCI_Chess960 type check default false\n")
	fmt.Fprintf(e.out, "option name MoveOverhead type spin default 30 min 0 max 5000\n")
	fmt.Fprintf(e.out, "option name SearchMode type combo default full var full var policy var value\n")
	for _, t := range floatTunables {
		fmt.Fprintf(e.out, "option name %s type spin default %d min %d max %d\n", t.name, t.defaultVal, t.min, t.max)
	}
}

// SetOption applies `setoption name <N> value <V>` (spec.md §6.1).
func (e *Engine) SetOption(name, value string) {
	for _, o := range e.intOptions() {
		if o.name == name {
			if v, err := strconv.Atoi(value); err == nil {
				o.set(clampInt(v, o.min, o.max))
			}
			return
		}
	}
	for _, o := range e.boolOptions() {
		if o.name == name {
			o.set(value == "true")
			return
		}
	}
	for _, t := range floatTunables {
		if t.name == name {
			if v, err := strconv.Atoi(value); err == nil {
				t.set(float64(clampInt(v, t.min, t.max)) / tunableScale)
			}
			return
		}
	}
	if name == "SearchMode" {
		for _, v := range searchModeValues {
			if v == value {
				e.SearchMode = value
				return
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
