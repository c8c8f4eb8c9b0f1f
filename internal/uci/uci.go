// Package uci implements the Universal Chess Interface line protocol on top
// of a game.Game.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/engine"
	"github.com/hailam/gridchess/internal/game"
)

// Engine identification sent in reply to "uci".
const (
	EngineName   = "GridChess"
	EngineAuthor = "GridChess Team"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	game *game.Game
	in   io.Reader

	outMu sync.Mutex
	out   io.Writer

	// Search state
	searching sync.WaitGroup
}

// New creates a protocol handler reading commands from in and writing
// replies to out. Searches use g's configured depth unless "go depth N"
// overrides it.
func New(g *game.Game, in io.Reader, out io.Writer) *UCI {
	u := &UCI{game: g, in: in, out: out}
	g.SetAutoQueen(true)
	g.SetInfoHandler(u.sendInfo)
	return u
}

// Run processes commands until "quit" or end of input, then waits for a
// running search to report its move.
func (u *UCI) Run() error {
	defer u.searching.Wait()

	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches run to their fixed depth; wait for the reply.
			u.searching.Wait()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string Unknown command: %s\n", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	cfg := u.game.Config()
	u.println("id name " + EngineName)
	u.println("id author " + EngineAuthor)
	u.println("")
	u.printf("option name Depth type spin default %d min 0 max %d\n", cfg.Depth, engine.MaxDepth)
	u.println("option name Difficulty type combo default Medium var Beginner var Easy var Medium var Hard")
	u.println("uciok")
}

// handleNewGame resets the game to the starting position.
func (u *UCI) handleNewGame() {
	u.searching.Wait()
	if err := u.game.NewGame(); err != nil {
		u.printf("info string %v\n", err)
	}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.searching.Wait()

	setupEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			setupEnd, moveStart = i, i+1
			break
		}
	}

	var err error
	switch args[0] {
	case "startpos":
		err = u.game.NewGame()
	case "fen":
		err = u.game.LoadFEN(strings.Join(args[1:setupEnd], " "))
	default:
		return
	}
	if err != nil {
		u.printf("info string Invalid position: %v\n", err)
		return
	}

	for _, moveStr := range args[moveStart:] {
		if _, err := u.game.ApplyUCI(moveStr); err != nil {
			u.printf("info string Invalid move %s: %v\n", moveStr, err)
			return
		}
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
	Perft int
}

// parseGoOptions parses "go" command arguments. Time controls are accepted
// and ignored; the search always runs to a fixed depth.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "perft":
			if i+1 < len(args) {
				opts.Perft, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}

	return opts
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)
	if opts.Perft > 0 {
		u.handlePerft([]string{strconv.Itoa(opts.Perft)})
		return
	}

	u.searching.Wait()
	color := u.game.SideToMove()
	result := u.game.RequestAIMoveAsync(color, opts.Depth)

	u.searching.Add(1)
	go func() {
		defer u.searching.Done()

		res := <-result
		switch {
		case res.Err != nil:
			if !errors.Is(res.Err, board.ErrGameOver) {
				u.printf("info string %v\n", res.Err)
			}
			u.println("bestmove 0000")
		case res.Move.IsNone():
			u.println("bestmove 0000")
		default:
			u.println("bestmove " + res.Move.String())
		}
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	// Score
	if info.Score > engine.MateScore-engine.MaxDepth-1 {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+engine.MaxDepth+1 {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 0 || depth > engine.MaxDepth {
			u.printf("info string Invalid depth %q\n", value)
			return
		}
		u.game.SetDepth(depth)
	case "difficulty":
		d, err := engine.ParseDifficulty(value)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.game.SetDifficulty(d)
	default:
		u.printf("info string Unknown option %q\n", name)
	}
}

// handleDisplay prints the board, FEN and status.
func (u *UCI) handleDisplay() {
	b := u.game.Board()
	u.printf("%s\nFen: %s\nStatus: %v\n", b.String(), b.FEN(), u.game.Status())
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}

	b := u.game.Board()
	start := time.Now()
	nodes := engine.Perft(b, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
