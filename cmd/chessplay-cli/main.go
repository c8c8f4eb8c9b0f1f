// Command chessplay-cli plays GridChess in a terminal.
//
// Moves are entered in UCI notation (e2e4, e7e8n). Other commands:
// new, undo, fen, svg, help, quit.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/game"
	"github.com/hailam/gridchess/internal/render"
	"github.com/hailam/gridchess/internal/storage"
)

func main() {
	depth := flag.Int("depth", 0, "AI search depth in plies (overrides -difficulty)")
	difficulty := flag.String("difficulty", os.Getenv("CHESSPLAY_DIFFICULTY"), "Beginner, Easy, Medium or Hard")
	side := flag.String("color", os.Getenv("CHESSPLAY_COLOR"), "color the human plays: white or black")
	mode := flag.String("mode", os.Getenv("CHESSPLAY_MODE"), "hvc (vs computer) or hvh (two humans)")
	fen := flag.String("fen", "", "start from this position instead of the initial one")
	svgPath := flag.String("svg", "", "write the board as SVG to this file after every move")
	noStorage := flag.Bool("no-storage", false, "do not read or write preferences and statistics")
	verbose := flag.Bool("v", false, "log game and search activity to stderr")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	var store *storage.Storage
	prefs := storage.DefaultPreferences()
	if !*noStorage {
		var err error
		if store, err = storage.NewStorage(); err != nil {
			fmt.Fprintf(os.Stderr, "storage unavailable: %v\n", err)
			store = nil
		} else if loaded, err := store.LoadPreferences(); err == nil {
			prefs = loaded
		}
	}
	if *depth == 0 {
		*depth = envInt("CHESSPLAY_DEPTH")
	}
	err := prefs.Apply(storage.Overrides{Depth: *depth, Difficulty: *difficulty, Color: *side, Mode: *mode})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	g := game.New(game.Config{Depth: prefs.EffectiveDepth(), AutoQueen: true})
	if *fen != "" {
		if err := g.LoadFEN(*fen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	s := &session{game: g, prefs: prefs, store: store, svgPath: *svgPath, out: os.Stdout}
	if err := s.run(os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if store != nil {
		prefs.LastPlayed = time.Now()
		if err := store.SavePreferences(prefs); err != nil {
			fmt.Fprintf(os.Stderr, "saving preferences: %v\n", err)
		}
		store.Close()
	}
}

func envInt(key string) int {
	var n int
	if v := os.Getenv(key); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0
		}
	}
	return n
}

// session is one interactive terminal game.
type session struct {
	game    *game.Game
	prefs   *storage.UserPreferences
	store   *storage.Storage // nil when running without persistence
	svgPath string
	out     io.Writer

	started  time.Time
	recorded bool
}

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack).SprintFunc()
	darkSquare  = color.New(color.BgGreen, color.FgBlack).SprintFunc()
	lastSquare  = color.New(color.BgYellow, color.FgBlack).SprintFunc()
	errorText   = color.New(color.FgRed).SprintFunc()
	infoText    = color.New(color.FgCyan).SprintFunc()
	resultText  = color.New(color.FgYellow, color.Bold).SprintFunc()
)

func (s *session) run(in io.Reader) error {
	s.started = time.Now()
	s.show()

	scanner := bufio.NewScanner(in)
	for {
		if s.computerToMove() {
			if err := s.playComputer(); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(s.out, "%v> ", s.game.SideToMove())
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(s.out, infoText("moves: e2e4, e7e8q   commands: new undo fen svg quit"))
		case "new":
			s.newGame()
		case "undo":
			s.undo()
		case "fen":
			fmt.Fprintln(s.out, s.game.FEN())
		case "svg":
			s.writeSVG()
		default:
			s.playHuman(cmd)
		}
	}
}

// computerToMove reports whether the engine should reply now.
func (s *session) computerToMove() bool {
	return s.prefs.GameMode == storage.ModeHumanVsComputer &&
		!s.game.Status().IsTerminal() &&
		s.game.SideToMove() != s.prefs.PlayerColor
}

func (s *session) playComputer() error {
	side := s.game.SideToMove()
	fmt.Fprintln(s.out, infoText("AI thinking..."))
	m, err := s.game.RequestAIMove(side, 0)
	if err != nil {
		return err
	}
	if m.IsNone() {
		return fmt.Errorf("no move found for %v", side)
	}
	if _, err := s.game.ApplyMove(m.From, m.To, m.Promotion); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%v plays %v\n", side, m)
	s.afterMove()
	return nil
}

func (s *session) playHuman(text string) {
	if _, err := s.game.ApplyUCI(text); err != nil {
		fmt.Fprintln(s.out, errorText(describeError(err)))
		return
	}
	s.afterMove()
}

func (s *session) afterMove() {
	s.show()
	if s.svgPath != "" {
		s.writeSVG()
	}
	st := s.game.Status()
	if !st.IsTerminal() {
		return
	}
	fmt.Fprintln(s.out, resultText(statusLine(st, s.game.SideToMove())))
	fmt.Fprintln(s.out, infoText(`type "new" to play again or "quit" to exit`))
	s.record(st)
}

func (s *session) record(st board.GameStatus) {
	if s.store == nil || s.recorded {
		return
	}
	s.recorded = true
	result := storage.ResultFromStatus(st, s.prefs.PlayerColor, s.prefs.GameMode, s.prefs.Difficulty, time.Since(s.started))
	if err := s.store.RecordGame(result); err != nil {
		fmt.Fprintln(s.out, errorText("saving result: "+err.Error()))
		return
	}
	if stats, err := s.store.LoadStats(); err == nil {
		fmt.Fprintf(s.out, "Games: %d  Wins: %d  Draws: %d  Losses: %d  Win rate: %.0f%%\n",
			stats.GamesPlayed, stats.Wins, stats.Draws, stats.Losses, stats.GetWinRate())
	}
}

func (s *session) newGame() {
	if err := s.game.NewGame(); err != nil {
		fmt.Fprintln(s.out, errorText(describeError(err)))
		return
	}
	s.started = time.Now()
	s.recorded = false
	s.show()
}

// undo takes back the human's last move; against the computer that is two
// half-moves.
func (s *session) undo() {
	n := 1
	if s.prefs.GameMode == storage.ModeHumanVsComputer && len(s.game.History()) >= 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		if err := s.game.Undo(); err != nil {
			fmt.Fprintln(s.out, errorText(describeError(err)))
			return
		}
	}
	s.recorded = false
	s.show()
}

func (s *session) writeSVG() {
	if s.svgPath == "" {
		fmt.Fprintln(s.out, errorText("no -svg file given"))
		return
	}
	f, err := os.Create(s.svgPath)
	if err != nil {
		fmt.Fprintln(s.out, errorText(err.Error()))
		return
	}
	defer f.Close()

	opts := render.DefaultOptions()
	opts.Flip = s.prefs.PlayerColor == board.Black
	opts.LastMove = s.game.LastMove()
	if err := render.BoardSVG(f, s.game.BoardSnapshot(), opts); err != nil {
		fmt.Fprintln(s.out, errorText(err.Error()))
	}
}

func (s *session) show() {
	flip := s.prefs.GameMode == storage.ModeHumanVsComputer && s.prefs.PlayerColor == board.Black
	fmt.Fprint(s.out, drawBoard(s.game.BoardSnapshot(), s.game.LastMove(), flip))
	if st := s.game.Status(); !st.IsTerminal() {
		fmt.Fprintln(s.out, statusLine(st, s.game.SideToMove()))
	}
}

// drawBoard renders the grid with colored squares, rank 8 on top unless
// flip is set.
func drawBoard(snap board.Snapshot, last board.Move, flip bool) string {
	var sb strings.Builder
	files := "   a  b  c  d  e  f  g  h\n"
	if flip {
		files = "   h  g  f  e  d  c  b  a\n"
	}
	for i := 0; i < 8; i++ {
		row := i
		if flip {
			row = 7 - i
		}
		fmt.Fprintf(&sb, "%d ", 8-row)
		for j := 0; j < 8; j++ {
			col := j
			if flip {
				col = 7 - j
			}
			sq := board.NewSquare(row, col)
			cell := " " + snap.At(sq).String() + " "
			if snap.At(sq).IsEmpty() {
				cell = "   "
			}
			switch {
			case !last.IsNone() && (sq == last.From || sq == last.To):
				sb.WriteString(lastSquare(cell))
			case (row+col)%2 == 0:
				sb.WriteString(lightSquare(cell))
			default:
				sb.WriteString(darkSquare(cell))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(files)
	return sb.String()
}

func statusLine(st board.GameStatus, toMove board.Color) string {
	switch st.Kind {
	case board.Checkmate:
		return fmt.Sprintf("Checkmate! %v wins", st.Color)
	case board.Stalemate:
		return "Draw by stalemate"
	case board.Check:
		return fmt.Sprintf("%v is in check", st.Color)
	}
	return fmt.Sprintf("%v to move", toMove)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrNothingToUndo):
		return "Nothing to undo"
	case errors.Is(err, game.ErrSearchInProgress):
		return "Wait for the AI to move"
	}
	return err.Error()
}
