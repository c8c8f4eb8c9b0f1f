package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/gridchess/internal/board"
	"github.com/hailam/gridchess/internal/engine"
)

func sq(s string) board.Square {
	return board.MustSquare(s)
}

func play(t *testing.T, g *Game, moves ...string) board.GameStatus {
	t.Helper()
	var status board.GameStatus
	for _, m := range moves {
		var err error
		status, err = g.ApplyUCI(m)
		require.NoError(t, err, "move %s", m)
	}
	return status
}

func TestNewGame(t *testing.T) {
	g := New(DefaultConfig())

	assert.Equal(t, board.StartFEN, g.FEN())
	assert.Equal(t, board.InProgress, g.Status().Kind)
	assert.Equal(t, board.White, g.SideToMove())
	assert.Equal(t, 20, g.Board().GenerateLegalMoves().Len())
	assert.Empty(t, g.History())
	assert.True(t, g.LastMove().IsNone())
}

func TestLegalMoves(t *testing.T) {
	g := New(DefaultConfig())

	moves, err := g.LegalMoves(sq("g1"))
	require.NoError(t, err)
	assert.Len(t, moves, 2)

	moves, err = g.LegalMoves(sq("e7"))
	require.NoError(t, err)
	assert.Empty(t, moves, "opponent's piece")

	moves, err = g.LegalMoves(sq("e4"))
	require.NoError(t, err)
	assert.Empty(t, moves, "empty square")

	_, err = g.LegalMoves(board.NewSquare(8, 2))
	assert.ErrorIs(t, err, board.ErrInvalidPosition)
}

func TestApplyMoveErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to board.Square
		promo    board.PieceType
		want     error
	}{
		{"off board", board.NewSquare(-1, 0), sq("a3"), board.NoPieceType, board.ErrInvalidPosition},
		{"empty", sq("d4"), sq("d5"), board.NoPieceType, board.ErrNoPieceSelected},
		{"wrong turn", sq("d7"), sq("d5"), board.NoPieceType, board.ErrWrongTurn},
		{"not legal", sq("b1"), sq("b3"), board.NoPieceType, board.ErrInvalidMove},
		{"promotion on normal move", sq("e2"), sq("e4"), board.Queen, board.ErrInvalidMove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(DefaultConfig())
			_, err := g.ApplyMove(tc.from, tc.to, tc.promo)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, board.StartFEN, g.FEN(), "board changed after error")
			assert.Empty(t, g.History())
		})
	}
}

func TestFoolsMate(t *testing.T) {
	g := New(DefaultConfig())

	status := play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	assert.Equal(t, board.Checkmate, status.Kind)
	assert.Equal(t, board.Black, status.Color)
	assert.True(t, g.Status().IsTerminal())

	_, err := g.ApplyMove(sq("a2"), sq("a3"), board.NoPieceType)
	assert.ErrorIs(t, err, board.ErrGameOver)

	_, err = g.RequestAIMove(board.White, 1)
	assert.ErrorIs(t, err, board.ErrGameOver)
}

func TestCheckStatusNamesCheckedSide(t *testing.T) {
	g := New(DefaultConfig())

	status := play(t, g, "e2e4", "f7f6", "d1h5")

	assert.Equal(t, board.Check, status.Kind)
	assert.Equal(t, board.Black, status.Color)
}

func TestPromotion(t *testing.T) {
	const fen = "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"

	g := New(DefaultConfig())
	require.NoError(t, g.LoadFEN(fen))
	assert.True(t, g.NeedsPromotion(sq("a7"), sq("a8")))

	_, err := g.ApplyMove(sq("a7"), sq("a8"), board.NoPieceType)
	require.ErrorIs(t, err, board.ErrPromotionRequired)
	assert.Equal(t, fen, g.FEN())

	_, err = g.ApplyMove(sq("a7"), sq("a8"), board.King)
	require.ErrorIs(t, err, board.ErrInvalidMove)

	_, err = g.ApplyMove(sq("a7"), sq("a8"), board.Rook)
	require.NoError(t, err)
	assert.Equal(t, board.WhiteRook, g.BoardSnapshot().At(sq("a8")))

	g = New(Config{Depth: 1, AutoQueen: true})
	require.NoError(t, g.LoadFEN(fen))
	_, err = g.ApplyMove(sq("a7"), sq("a8"), board.NoPieceType)
	require.NoError(t, err)
	assert.Equal(t, board.WhiteQueen, g.BoardSnapshot().At(sq("a8")))
	assert.Equal(t, board.Queen, g.LastMove().Promotion)
}

func TestEnPassantOnlyNextPly(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	moves, err := g.LegalMoves(sq("e5"))
	require.NoError(t, err)
	assert.Contains(t, moves, board.NewEnPassant(sq("e5"), sq("d6")))

	play(t, g, "h2h3", "h7h6")

	moves, err = g.LegalMoves(sq("e5"))
	require.NoError(t, err)
	for _, m := range moves {
		assert.NotEqual(t, sq("d6"), m.To, "en passant must expire")
	}
}

func TestUndo(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "e2e4", "e7e5")

	require.NoError(t, g.Undo())
	assert.Equal(t, board.Black, g.SideToMove())
	assert.Len(t, g.History(), 1)

	require.NoError(t, g.Undo())
	assert.Equal(t, board.StartFEN, g.FEN())

	assert.ErrorIs(t, g.Undo(), ErrNothingToUndo)
}

func TestUndoLeavesCheckmate(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	require.NoError(t, g.Undo())
	assert.Equal(t, board.InProgress, g.Status().Kind)
	_, err := g.ApplyMove(sq("d8"), sq("e7"), board.NoPieceType)
	assert.NoError(t, err)
}

func TestEvents(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "e2e4")

	select {
	case ev := <-g.Events():
		assert.Equal(t, board.White, ev.Mover)
		assert.Equal(t, "e2e4", ev.Move.String())
		assert.Equal(t, board.InProgress, ev.Status.Kind)
	default:
		t.Fatal("no event published")
	}
}

func TestEventsDropWhenFull(t *testing.T) {
	g := New(Config{Depth: 1, EventBuffer: 1})
	play(t, g, "e2e4", "e7e5", "g1f3")

	ev := <-g.Events()
	assert.Equal(t, "e2e4", ev.Move.String())
	select {
	case ev := <-g.Events():
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestRequestAIMove(t *testing.T) {
	g := New(DefaultConfig())
	before := g.BoardSnapshot()

	_, err := g.RequestAIMove(board.Black, 2)
	require.ErrorIs(t, err, board.ErrWrongTurn)

	m, err := g.RequestAIMove(board.White, 2)
	require.NoError(t, err)
	assert.Equal(t, before, g.BoardSnapshot(), "search must not touch the live board")
	assert.False(t, g.Searching())

	_, err = g.ApplyMove(m.From, m.To, m.Promotion)
	require.NoError(t, err)
}

func TestRequestAIMoveCapturesHangingQueen(t *testing.T) {
	g := New(DefaultConfig())
	require.NoError(t, g.LoadFEN("4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1"))

	m, err := g.RequestAIMove(board.White, 1)
	require.NoError(t, err)
	assert.Equal(t, "d2d5", m.String())
}

func TestRequestAIMoveBeginnerDepth(t *testing.T) {
	g := New(Config{Depth: 0})

	m, err := g.RequestAIMove(board.White, 0)
	require.NoError(t, err)
	moves, err := g.LegalMoves(m.From)
	require.NoError(t, err)
	assert.Contains(t, moves, m)
}

func TestRequestAIMoveAsync(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "e2e4")

	select {
	case res := <-g.RequestAIMoveAsync(board.Black, 2):
		require.NoError(t, res.Err)
		_, err := g.ApplyMove(res.Move.From, res.Move.To, res.Move.Promotion)
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("search did not finish")
	}

	res := <-g.RequestAIMoveAsync(board.Black, 2)
	assert.ErrorIs(t, res.Err, board.ErrWrongTurn)
}

func TestMutationsRejectedDuringSearch(t *testing.T) {
	g := New(DefaultConfig())

	_, _, err := g.beginSearch(board.White, 1)
	require.NoError(t, err)
	assert.True(t, g.Searching())

	_, err = g.ApplyMove(sq("e2"), sq("e4"), board.NoPieceType)
	assert.ErrorIs(t, err, ErrSearchInProgress)
	_, err = g.RequestAIMove(board.White, 1)
	assert.ErrorIs(t, err, ErrSearchInProgress)
	assert.ErrorIs(t, g.Undo(), ErrSearchInProgress)
	assert.ErrorIs(t, g.NewGame(), ErrSearchInProgress)

	g.endSearch()
	_, err = g.ApplyMove(sq("e2"), sq("e4"), board.NoPieceType)
	assert.NoError(t, err)
}

func TestLoadFENRejectsUnreachablePositions(t *testing.T) {
	g := New(DefaultConfig())
	play(t, g, "e2e4")
	before := g.FEN()

	// The side not to move is in check.
	assert.ErrorIs(t, g.LoadFEN("4k3/4R3/8/8/8/8/8/4K3 w - - 0 1"), board.ErrInvalidPosition)
	// The en passant target holds a piece.
	assert.ErrorIs(t, g.LoadFEN("4k3/8/3N4/3pP3/8/8/8/4K3 w - d6 0 1"), board.ErrInvalidPosition)

	assert.Equal(t, before, g.FEN())
	assert.Len(t, g.History(), 1)
}

func TestInfoHandler(t *testing.T) {
	g := New(DefaultConfig())
	var calls atomic.Int32
	g.SetInfoHandler(func(info engine.SearchInfo) {
		assert.Equal(t, 2, info.Depth)
		calls.Add(1)
	})

	result := g.RequestAIMoveAsync(board.White, 2)
	g.SetInfoHandler(func(engine.SearchInfo) { calls.Add(1) })
	select {
	case res := <-result:
		require.NoError(t, res.Err)
	case <-time.After(30 * time.Second):
		t.Fatal("search did not finish")
	}
	assert.Equal(t, int32(1), calls.Load())

	g.SetInfoHandler(nil)
	_, err := g.RequestAIMove(board.White, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
