// Command chaos is the Chaos chess engine's entrypoint: a UCI-like
// line-oriented protocol loop over stdio by default, or one of the
// `bench`/`datagen` subcommands (spec.md §6.1).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Quinniboi10/Chaos/internal/bench"
	"github.com/Quinniboi10/Chaos/internal/protocol"
	"github.com/Quinniboi10/Chaos/internal/selfplay"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "bench":
			runBench(os.Args[2:])
			return
		case "datagen":
			runDatagen(os.Args[2:])
			return
		}
	}

	e := protocol.New(os.Stdout)
	e.Run(os.Stdin)
}

func runBench(args []string) {
	depth := 0
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	nodes := uint64(50000)
	if depth > 0 {
		nodes = uint64(depth) * 25000
	}
	bench.Run(os.Stdout, 64, 1, nodes)
}

// runDatagen parses `datagen threads=N positions=M nodes=K` (spec.md §6.1)
// and runs the self-play driver until interrupted or the position target
// is reached.
func runDatagen(args []string) {
	opts := selfplay.Options{
		Threads:      1,
		NodesPerMove: selfplay.NodeBudget,
		OutputDir:    "datagen-out",
	}

	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		n, _ := strconv.Atoi(v)
		switch k {
		case "threads":
			opts.Threads = n
		case "positions":
			opts.TargetPositions = n
		case "nodes":
			opts.NodesPerMove = uint64(n)
		case "out":
			opts.OutputDir = v
		}
	}

	d, err := selfplay.NewDriver(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "datagen:", err)
		os.Exit(1)
	}

	reporter := selfplay.NewProgressReporter(os.Stdout)
	stopCh := make(chan struct{})
	go reporter.Run(d, 2*time.Second, stopCh)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)
	go func() {
		<-sig
		d.Stop()
	}()

	d.Run()
	close(stopCh)
}
