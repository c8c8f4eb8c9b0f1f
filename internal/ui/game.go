package ui

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/engine"
	"github.com/hailam/gridchess/internal/game"
	"github.com/hailam/gridchess/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// Options configures the desktop front end.
type Options struct {
	// Storage persists preferences and statistics; nil runs without.
	Storage *storage.Storage
	// Prefs seeds the session. Nil loads them from Storage or uses defaults.
	Prefs *storage.UserPreferences
}

// Game implements ebiten.Game on top of a game.Game.
type Game struct {
	chess *game.Game

	// UI state
	selected   board.Square
	targets    []board.Move
	dragging   bool
	dragSquare board.Square
	picker     *PromotionPicker
	message    string

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel

	// Storage
	storage  *storage.Storage
	prefs    *storage.UserPreferences
	started  time.Time
	recorded bool

	// AI
	aiResult     <-chan game.AIResult
	resetPending bool

	// HiDPI scaling
	scale float64
}

// NewGame creates the front end.
func NewGame(opts Options) *Game {
	g := &Game{
		selected:   board.NoSquare,
		dragSquare: board.NoSquare,
		renderer:   NewRenderer(SquareSize),
		input:      NewInputHandler(),
		storage:    opts.Storage,
		prefs:      opts.Prefs,
		started:    time.Now(),
		scale:      1,
	}
	if g.prefs == nil {
		g.loadPreferences()
	}

	g.chess = game.New(game.Config{
		Depth:     g.prefs.EffectiveDepth(),
		AutoQueen: g.prefs.AutoQueen,
	})
	g.chess.SetInfoHandler(func(info engine.SearchInfo) {
		log.Printf("[AI] depth %d score %s nodes %d time %v", info.Depth, engine.ScoreToString(info.Score), info.Nodes, info.Time)
	})
	g.renderer.SetFlipped(g.prefs.PlayerColor == board.Black)
	g.panel = NewPanel(g)
	g.checkFirstLaunch()
	return g
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage == nil {
		return
	}
	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Printf("[STORAGE] Failed to load preferences: %v", err)
		return
	}
	g.prefs = prefs
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("[STORAGE] Failed to save preferences: %v", err)
	}
}

// checkFirstLaunch greets a new user with the shortcut list.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	first, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("[STORAGE] Failed to check first launch: %v", err)
		return
	}
	if !first {
		return
	}
	g.message = "Keys: N new, U undo, F flip, M mode, H hints"
	if err := g.storage.MarkFirstLaunchComplete(); err != nil {
		log.Printf("[STORAGE] Failed to mark first launch complete: %v", err)
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update(g.scale)

	g.drainEvents()
	g.checkAIMove()
	g.handleCommand(g.input.Command())

	switch {
	case g.picker != nil:
		g.handlePickerInput()
	case g.panel.HandleInput(g.input):
	default:
		g.handleBoardInput()
	}

	g.startAIThinking()
	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	g.panel.SetScale(g.scale)

	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen)

	b := g.chess.Board()
	if b.InCheck(b.SideToMove()) {
		g.renderer.DrawCheck(screen, b.KingSquare(b.SideToMove()))
	}

	var targets []board.Move
	if g.prefs.ShowHints {
		targets = g.targets
	}
	g.renderer.DrawHighlights(screen, g.selected, targets, g.chess.LastMove())

	skip := board.NoSquare
	if g.dragging {
		skip = g.dragSquare
	}
	g.renderer.DrawPieces(screen, b.Snapshot(), skip)

	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, b.PieceAt(g.dragSquare), mx, my)
	}
	if g.picker != nil {
		g.picker.Draw(screen, g.renderer)
	}

	g.panel.Draw(screen)
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// humanToMove reports whether the board accepts input from the mouse.
func (g *Game) humanToMove() bool {
	if g.aiResult != nil || g.chess.Status().IsTerminal() {
		return false
	}
	return g.prefs.GameMode == storage.ModeHumanVsHuman || g.chess.SideToMove() == g.prefs.PlayerColor
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if !g.humanToMove() {
		return
	}

	mx, my := g.input.MousePosition()
	sq := g.renderer.Layout().ScreenToSquare(mx, my)

	if g.input.IsLeftJustPressed() {
		if !sq.IsValid() {
			return
		}
		if p := g.chess.BoardSnapshot().At(sq); !p.IsEmpty() && p.Color() == g.chess.SideToMove() {
			g.selectSquare(sq)
			g.dragging = true
			g.dragSquare = sq
			return
		}
		if g.selected.IsValid() {
			g.tryMove(g.selected, sq)
			return
		}
		g.clearSelection()
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.dragging = false
		if sq.IsValid() && sq != g.dragSquare {
			g.tryMove(g.dragSquare, sq)
		}
		g.dragSquare = board.NoSquare
	}
}

// selectSquare selects a square and fetches its legal moves.
func (g *Game) selectSquare(sq board.Square) {
	moves, err := g.chess.LegalMoves(sq)
	if err != nil {
		log.Printf("[UI] %v", err)
		return
	}
	g.selected = sq
	g.targets = moves
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selected = board.NoSquare
	g.targets = nil
	g.dragging = false
	g.dragSquare = board.NoSquare
}

// tryMove plays from -> to, opening the promotion picker when needed.
func (g *Game) tryMove(from, to board.Square) {
	if g.chess.NeedsPromotion(from, to) && !g.prefs.AutoQueen {
		g.picker = &PromotionPicker{From: from, To: to, Color: g.chess.SideToMove()}
		return
	}
	g.makeMove(from, to, board.NoPieceType)
}

func (g *Game) handlePickerInput() {
	if !g.input.IsLeftJustPressed() {
		return
	}
	mx, my := g.input.MousePosition()
	pp := g.picker
	g.picker = nil
	if promo := pp.Pick(g.renderer.Layout(), mx, my); promo != board.NoPieceType {
		g.makeMove(pp.From, pp.To, promo)
		return
	}
	g.clearSelection()
}

// makeMove applies a move to the game.
func (g *Game) makeMove(from, to board.Square, promo board.PieceType) {
	g.clearSelection()
	if _, err := g.chess.ApplyMove(from, to, promo); err != nil {
		g.message = describeError(err)
		log.Printf("[MOVE] Rejected %v%v: %v", from, to, err)
	}
}

// describeError turns a rejected command into a status line.
func describeError(err error) string {
	switch {
	case errors.Is(err, board.ErrInvalidMove):
		return "Illegal move"
	case errors.Is(err, board.ErrWrongTurn):
		return "Not your turn"
	case errors.Is(err, board.ErrGameOver):
		return "The game is over"
	case errors.Is(err, game.ErrSearchInProgress):
		return "AI is thinking"
	case errors.Is(err, game.ErrNothingToUndo):
		return "Nothing to undo"
	default:
		return err.Error()
	}
}

// drainEvents consumes status events and records finished games.
func (g *Game) drainEvents() {
	for {
		select {
		case ev := <-g.chess.Events():
			g.message = ""
			if ev.Status.IsTerminal() {
				g.recordResult(ev.Status)
			}
		default:
			return
		}
	}
}

// recordResult stores the outcome once per game.
func (g *Game) recordResult(status board.GameStatus) {
	if g.recorded || g.storage == nil {
		return
	}
	g.recorded = true

	human := g.prefs.PlayerColor
	if g.prefs.GameMode == storage.ModeHumanVsHuman {
		human = board.White
	}
	result := storage.ResultFromStatus(status, human, g.prefs.GameMode, g.prefs.Difficulty, time.Since(g.started))
	if err := g.storage.RecordGame(result); err != nil {
		log.Printf("[STORAGE] Failed to record game: %v", err)
	}
}

// startAIThinking schedules a search when it is the computer's turn.
func (g *Game) startAIThinking() {
	if g.aiResult != nil || g.prefs.GameMode != storage.ModeHumanVsComputer {
		return
	}
	if g.chess.Status().IsTerminal() {
		return
	}
	side := g.chess.SideToMove()
	if side == g.prefs.PlayerColor {
		return
	}
	g.aiResult = g.chess.RequestAIMoveAsync(side, 0)
}

// checkAIMove applies the AI's move once the search reports.
func (g *Game) checkAIMove() {
	if g.aiResult == nil {
		return
	}

	select {
	case res := <-g.aiResult:
		g.aiResult = nil
		if g.resetPending {
			g.resetPending = false
			g.NewGameAction()
			return
		}
		if res.Err != nil {
			log.Printf("[AI] Search failed: %v", res.Err)
			return
		}
		if res.Move.IsNone() {
			return
		}
		g.makeMove(res.Move.From, res.Move.To, res.Move.Promotion)
	default:
		// Still thinking
	}
}

// handleCommand runs a keyboard shortcut.
func (g *Game) handleCommand(cmd Command) {
	switch cmd {
	case CmdNewGame:
		g.NewGameAction()
	case CmdUndo:
		g.UndoAction()
	case CmdFlip:
		g.FlipAction()
	case CmdToggleMode:
		if g.prefs.GameMode == storage.ModeHumanVsHuman {
			g.SetMode(storage.ModeHumanVsComputer)
		} else {
			g.SetMode(storage.ModeHumanVsHuman)
		}
	case CmdToggleHints:
		g.prefs.ShowHints = !g.prefs.ShowHints
		g.savePreferences()
	}
}

// NewGameAction resets the game to the starting position. A running search
// is allowed to finish and its move discarded.
func (g *Game) NewGameAction() {
	if g.aiResult != nil {
		g.resetPending = true
		return
	}
	if err := g.chess.NewGame(); err != nil {
		g.message = describeError(err)
		return
	}
	g.clearSelection()
	g.picker = nil
	g.message = ""
	g.recorded = false
	g.started = time.Now()
}

// UndoAction takes back the last move, and the computer's reply before it
// when playing the computer.
func (g *Game) UndoAction() {
	if err := g.chess.Undo(); err != nil {
		g.message = describeError(err)
		return
	}
	if g.prefs.GameMode == storage.ModeHumanVsComputer && g.chess.SideToMove() != g.prefs.PlayerColor && len(g.chess.History()) > 0 {
		if err := g.chess.Undo(); err != nil {
			g.message = describeError(err)
		}
	}
	g.clearSelection()
	g.picker = nil
	g.recorded = false
}

// FlipAction turns the board around.
func (g *Game) FlipAction() {
	g.renderer.SetFlipped(!g.renderer.Flipped())
}

// SetMode switches between playing a human and playing the computer.
func (g *Game) SetMode(m storage.GameMode) {
	g.prefs.GameMode = m
	g.savePreferences()
}

// Mode returns the current game mode.
func (g *Game) Mode() storage.GameMode {
	return g.prefs.GameMode
}

// SetPlayerColor sets which color the human controls and turns the board
// so that color is at the bottom.
func (g *Game) SetPlayerColor(c board.Color) {
	g.prefs.PlayerColor = c
	g.renderer.SetFlipped(c == board.Black)
	g.savePreferences()
}

// SetDifficulty sets the AI strength, dropping any explicit depth.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.prefs.Difficulty = d
	g.prefs.SearchDepth = 0
	g.chess.SetDepth(g.prefs.EffectiveDepth())
	g.savePreferences()
}

// Difficulty returns the current AI difficulty.
func (g *Game) Difficulty() engine.Difficulty {
	return g.prefs.Difficulty
}

// MoveHistory returns the moves played, in UCI notation.
func (g *Game) MoveHistory() []string {
	moves := g.chess.History()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// Username returns the current username.
func (g *Game) Username() string {
	name := g.prefs.Username
	if len(name) > 16 {
		name = name[:16] + "..."
	}
	return name
}

// GameOver returns true if the game is over.
func (g *Game) GameOver() bool {
	return g.chess.Status().IsTerminal()
}

// IsAIThinking returns true if the AI is currently thinking.
func (g *Game) IsAIThinking() bool {
	return g.aiResult != nil
}

// StatusMessage returns the line shown under the move list.
func (g *Game) StatusMessage() string {
	if g.message != "" {
		return g.message
	}
	return statusMessage(g.chess.Status(), g.chess.SideToMove(), g.IsAIThinking())
}

func statusMessage(st board.GameStatus, toMove board.Color, thinking bool) string {
	switch st.Kind {
	case board.Checkmate:
		return fmt.Sprintf("Checkmate! %v wins", st.Color)
	case board.Stalemate:
		return "Draw by stalemate"
	}
	if thinking {
		return "AI thinking..."
	}
	if st.Kind == board.Check {
		return fmt.Sprintf("%v is in check", st.Color)
	}
	return fmt.Sprintf("%v to move", toMove)
}

// Close saves preferences and closes storage.
func (g *Game) Close() {
	if g.storage == nil {
		return
	}
	g.savePreferences()
	if err := g.storage.Close(); err != nil {
		log.Printf("[STORAGE] Close: %v", err)
	}
}
