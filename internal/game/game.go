// Package game is the command and query surface that front ends drive: it
// owns the live board, validates moves, tracks status and schedules AI
// searches.
package game

import (
	"fmt"
	"log"
	"sync"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/engine"
)

// Config holds the tunables of a game.
type Config struct {
	// Depth is the AI search depth in plies; 0 selects the Beginner player.
	Depth int
	// AutoQueen promotes to a Queen when a move reaches the last rank
	// without a promotion choice. Otherwise ApplyMove asks for one.
	AutoQueen bool
	// EventBuffer is the capacity of the status event channel.
	EventBuffer int
}

// DefaultConfig returns the settings of the reference game: a 3-ply search,
// explicit promotion choice.
func DefaultConfig() Config {
	return Config{
		Depth:       engine.DifficultySettings[engine.Medium].Depth,
		AutoQueen:   false,
		EventBuffer: 16,
	}
}

// StatusEvent is published after every applied half-move.
type StatusEvent struct {
	Move   board.Move
	Mover  board.Color
	Status board.GameStatus
}

// AIResult carries the outcome of an asynchronous AI search.
type AIResult struct {
	Move board.Move
	Err  error
}

// Game is a single chess game. All methods are safe for concurrent use;
// at most one AI search runs at a time and the board cannot change while
// it does.
type Game struct {
	mu        sync.Mutex
	cfg       Config
	board     *board.Board
	status    board.GameStatus
	history   []board.Move
	previous  []*board.Board
	engine    *engine.Engine
	searching bool
	events    chan StatusEvent
	onInfo    func(engine.SearchInfo)
}

// New creates a game in the standard starting position.
func New(cfg Config) *Game {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	g := &Game{
		cfg:    cfg,
		engine: engine.NewEngine(),
		events: make(chan StatusEvent, cfg.EventBuffer),
	}
	g.engine.OnInfo = g.forwardInfo
	g.reset(board.NewBoard())
	return g
}

func (g *Game) reset(b *board.Board) {
	g.board = b
	g.status = b.Status()
	g.history = nil
	g.previous = nil
}

// NewGame resets to the standard opening position and rights.
func (g *Game) NewGame() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.searching {
		return ErrSearchInProgress
	}
	g.reset(board.NewBoard())
	log.Printf("[GAME] New game")
	return nil
}

// LoadFEN replaces the position with one parsed from FEN.
func (g *Game) LoadFEN(fen string) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.searching {
		return ErrSearchInProgress
	}
	g.reset(b)
	return nil
}

// Config returns the current settings.
func (g *Game) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// SetDepth sets the AI search depth used when RequestAIMove gets depth 0.
func (g *Game) SetDepth(depth int) {
	g.mu.Lock()
	g.cfg.Depth = depth
	g.mu.Unlock()
}

// SetDifficulty sets the search depth from a difficulty level.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.SetDepth(engine.DifficultySettings[d].Depth)
}

// SetAutoQueen toggles automatic Queen promotion.
func (g *Game) SetAutoQueen(on bool) {
	g.mu.Lock()
	g.cfg.AutoQueen = on
	g.mu.Unlock()
}

// SetInfoHandler registers fn to receive statistics after each search.
// It may be called while a search runs; nil removes the handler.
func (g *Game) SetInfoHandler(fn func(engine.SearchInfo)) {
	g.mu.Lock()
	g.onInfo = fn
	g.mu.Unlock()
}

// forwardInfo runs on the searching goroutine, which never holds g.mu.
func (g *Game) forwardInfo(info engine.SearchInfo) {
	g.mu.Lock()
	fn := g.onInfo
	g.mu.Unlock()
	if fn != nil {
		fn(info)
	}
}

// Events returns the channel on which status changes are published.
// Events are dropped when the buffer is full.
func (g *Game) Events() <-chan StatusEvent {
	return g.events
}

// Status returns the status computed after the last half-move.
func (g *Game) Status() board.GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// SideToMove returns the color whose turn it is.
func (g *Game) SideToMove() board.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.SideToMove()
}

// BoardSnapshot returns a copy of the grid for rendering.
func (g *Game) BoardSnapshot() board.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Snapshot()
}

// Board returns a clone of the live board.
func (g *Game) Board() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.FEN()
}

// History returns the moves played so far.
func (g *Game) History() []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]board.Move, len(g.history))
	copy(out, g.history)
	return out
}

// LastMove returns the most recent move, or NoMove.
func (g *Game) LastMove() board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.history) == 0 {
		return board.NoMove
	}
	return g.history[len(g.history)-1]
}

// LegalMoves returns the legal moves of the piece on sq. The result is
// empty when the square is empty or holds a piece of the side not to move.
func (g *Game) LegalMoves(sq board.Square) ([]board.Move, error) {
	if !sq.IsValid() {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidPosition, sq)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.LegalMoves(sq).Slice(), nil
}

// NeedsPromotion reports whether moving from -> to is a legal move that
// reaches the last rank with a pawn.
func (g *Game) NeedsPromotion(from, to board.Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.board.LegalMoves(from).Find(from, to)
	return ok && g.board.IsPromotionMove(m)
}

// ApplyMove plays from -> to for the side to move and returns the new
// status. promo is required when a pawn reaches the last rank, unless
// AutoQueen is set; pass NoPieceType otherwise. On error the game is
// unchanged.
func (g *Game) ApplyMove(from, to board.Square, promo board.PieceType) (board.GameStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.searching {
		return g.status, ErrSearchInProgress
	}
	if g.status.IsTerminal() {
		return g.status, board.ErrGameOver
	}
	if !from.IsValid() || !to.IsValid() {
		return g.status, fmt.Errorf("%w: %v -> %v", board.ErrInvalidPosition, from, to)
	}

	piece := g.board.PieceAt(from)
	if piece.IsEmpty() {
		return g.status, fmt.Errorf("%w: %v", board.ErrNoPieceSelected, from)
	}
	if piece.Color() != g.board.SideToMove() {
		return g.status, fmt.Errorf("%w: %v to move", board.ErrWrongTurn, g.board.SideToMove())
	}

	legal, ok := g.board.LegalMoves(from).Find(from, to)
	if !ok {
		return g.status, fmt.Errorf("%w: %v%v", board.ErrInvalidMove, from, to)
	}
	if g.board.IsPromotionMove(legal) && promo == board.NoPieceType {
		if !g.cfg.AutoQueen {
			return g.status, fmt.Errorf("%w: %v%v", board.ErrPromotionRequired, from, to)
		}
		promo = board.Queen
	}

	return g.play(legal.WithPromotion(promo))
}

// ApplyUCI plays a move given in UCI notation ("e2e4", "e7e8q").
func (g *Game) ApplyUCI(s string) (board.GameStatus, error) {
	g.mu.Lock()
	m, err := board.ParseMove(s, g.board)
	g.mu.Unlock()
	if err != nil {
		return g.Status(), err
	}
	return g.ApplyMove(m.From, m.To, m.Promotion)
}

// play applies a validated move. Callers hold g.mu.
func (g *Game) play(m board.Move) (board.GameStatus, error) {
	before := g.board.Clone()
	mover := g.board.SideToMove()
	if err := g.board.ApplyMove(m); err != nil {
		return g.status, err
	}

	g.previous = append(g.previous, before)
	g.history = append(g.history, m)
	g.status = g.board.Status()

	log.Printf("[MOVE] %v plays %v, status: %v", mover, m, g.status)
	g.publish(StatusEvent{Move: m, Mover: mover, Status: g.status})
	return g.status, nil
}

func (g *Game) publish(ev StatusEvent) {
	select {
	case g.events <- ev:
	default:
		log.Printf("[GAME] Event buffer full, dropping %v", ev.Status)
	}
}

// Undo takes back the last half-move.
func (g *Game) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.searching {
		return ErrSearchInProgress
	}
	n := len(g.previous)
	if n == 0 {
		return ErrNothingToUndo
	}
	g.board = g.previous[n-1]
	g.previous = g.previous[:n-1]
	g.history = g.history[:len(g.history)-1]
	g.status = g.board.Status()
	log.Printf("[MOVE] Undo, %v to move", g.board.SideToMove())
	return nil
}

// RequestAIMove searches for color's move to depth plies (0 uses the
// configured depth) and returns it without applying it.
func (g *Game) RequestAIMove(color board.Color, depth int) (board.Move, error) {
	b, depth, err := g.beginSearch(color, depth)
	if err != nil {
		return board.NoMove, err
	}
	defer g.endSearch()
	return g.search(b, color, depth), nil
}

// RequestAIMoveAsync starts the search on a goroutine and delivers the
// result on the returned channel, which receives exactly one value. The
// position is captured before this method returns.
func (g *Game) RequestAIMoveAsync(color board.Color, depth int) <-chan AIResult {
	out := make(chan AIResult, 1)
	b, depth, err := g.beginSearch(color, depth)
	if err != nil {
		out <- AIResult{Move: board.NoMove, Err: err}
		return out
	}

	go func() {
		m := g.search(b, color, depth)
		g.endSearch()
		out <- AIResult{Move: m}
	}()
	return out
}

// Searching reports whether an AI search is running.
func (g *Game) Searching() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.searching
}

func (g *Game) beginSearch(color board.Color, depth int) (*board.Board, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.searching {
		return nil, 0, ErrSearchInProgress
	}
	if g.status.IsTerminal() {
		return nil, 0, board.ErrGameOver
	}
	if color != g.board.SideToMove() {
		return nil, 0, fmt.Errorf("%w: %v to move", board.ErrWrongTurn, g.board.SideToMove())
	}
	if depth <= 0 {
		depth = g.cfg.Depth
	}
	g.searching = true
	return g.board.Clone(), depth, nil
}

func (g *Game) endSearch() {
	g.mu.Lock()
	g.searching = false
	g.mu.Unlock()
}

func (g *Game) search(b *board.Board, color board.Color, depth int) board.Move {
	log.Printf("[AI] Starting search for %v at depth %d", color, depth)
	var m board.Move
	if depth <= 0 {
		m = g.engine.SearchWithLimits(b, engine.SearchLimits{Depth: 0})
	} else {
		m = g.engine.BestMove(b, color, depth)
	}
	log.Printf("[AI] Selected %v", m)
	return m
}
