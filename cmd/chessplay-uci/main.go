package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/hailam/gridchess/internal/engine"
	"github.com/hailam/gridchess/internal/game"
	"github.com/hailam/gridchess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", envDepth(), "default search depth in plies (0 = Beginner)")
	verbose    = flag.Bool("v", false, "log game and search activity to stderr")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if *depth < 0 || *depth > engine.MaxDepth {
		log.SetOutput(os.Stderr)
		log.Fatalf("depth %d out of range 0..%d", *depth, engine.MaxDepth)
	}

	g := game.New(game.Config{Depth: *depth, AutoQueen: true})
	protocol := uci.New(g, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		log.Printf("[UCI] input error: %v", err)
	}
}

// envDepth reads CHESSPLAY_DEPTH, falling back to the Medium depth.
func envDepth() int {
	def := engine.DifficultySettings[engine.Medium].Depth
	if v := os.Getenv("CHESSPLAY_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
