package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/gridchess/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	CoordColor     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		Background:     color.RGBA{40, 44, 52, 255},
		CoordColor:     color.RGBA{90, 70, 50, 255},
	}
}

// Layout maps between board squares and logical screen pixels.
// Row 0 of the grid is drawn at the top unless the board is flipped.
type Layout struct {
	SquareSize int
	Flipped    bool
}

// BoardSize returns the side of the board in pixels.
func (l Layout) BoardSize() int {
	return 8 * l.SquareSize
}

// SquareToScreen returns the top-left pixel of sq.
func (l Layout) SquareToScreen(sq board.Square) (int, int) {
	row, col := sq.Row, sq.Col
	if l.Flipped {
		row, col = 7-row, 7-col
	}
	return col * l.SquareSize, row * l.SquareSize
}

// ScreenToSquare returns the square under pixel (x, y), or NoSquare.
func (l Layout) ScreenToSquare(x, y int) board.Square {
	if x < 0 || y < 0 || x >= l.BoardSize() || y >= l.BoardSize() {
		return board.NoSquare
	}
	row, col := y/l.SquareSize, x/l.SquareSize
	if l.Flipped {
		row, col = 7-row, 7-col
	}
	return board.NewSquare(row, col)
}

// Renderer handles all drawing operations.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
	layout  Layout
	scale   float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer.
func NewRenderer(squareSize int) *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(squareSize),
		theme:   DefaultTheme(),
		layout:  Layout{SquareSize: squareSize},
		scale:   1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// SetFlipped draws Black at the bottom when true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.layout.Flipped = flipped
}

// Flipped reports whether Black is drawn at the bottom.
func (r *Renderer) Flipped() bool {
	return r.layout.Flipped
}

// Layout returns the current board geometry.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// DrawBoard draws the squares and coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	sz := r.layout.SquareSize
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			x, y := r.layout.SquareToScreen(board.NewSquare(row, col))

			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(sz), r.s(sz), c, false)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels files along the bottom edge and ranks along the left.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetFaceWithSize(11 * r.scale)
	sz := r.layout.SquareSize
	for i := 0; i < 8; i++ {
		sq := board.NewSquare(i, i)
		if r.layout.Flipped {
			sq = board.NewSquare(7-i, 7-i)
		}
		name := sq.String()
		drawText(screen, face, name[:1], r.s(i*sz+sz-10), r.s(8*sz-15), r.theme.CoordColor)
		drawText(screen, face, name[1:], r.s(3), r.s(i*sz+2), r.theme.CoordColor)
	}
}

// DrawHighlights draws the last move, the selection and its legal targets.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, targets []board.Move, lastMove board.Move) {
	if !lastMove.IsNone() {
		r.highlightSquare(screen, lastMove.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, lastMove.To, r.theme.LastMoveColor)
	}

	if selected.IsValid() {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}

	for _, m := range targets {
		r.drawLegalMoveIndicator(screen, m.To)
	}
}

// DrawCheck highlights the king's square if in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	r.highlightSquare(screen, kingSq, r.theme.CheckColor)
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	sz := r.layout.SquareSize
	x, y := r.layout.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(sz), r.s(sz), c, false)
}

// drawLegalMoveIndicator draws a circle on legal move squares.
func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square) {
	sz := r.s(r.layout.SquareSize)
	x, y := r.layout.SquareToScreen(sq)
	cx := r.s(x) + sz/2
	cy := r.s(y) + sz/2

	vector.DrawFilledCircle(screen, cx, cy, sz*0.15, r.theme.LegalMoveColor, false)
}

// DrawPieces draws every piece of snap except the one on skip.
func (r *Renderer) DrawPieces(screen *ebiten.Image, snap board.Snapshot, skip board.Square) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := board.NewSquare(row, col)
			if sq == skip {
				continue
			}
			p := snap.At(sq)
			if p.IsEmpty() {
				continue
			}
			x, y := r.layout.SquareToScreen(sq)
			r.sprites.DrawPieceAt(screen, p, float64(r.s(x)), float64(r.s(y)), r.scale)
		}
	}
}

// DrawDraggedPiece draws the piece being dragged centred on the cursor.
// mouseX, mouseY are in logical coordinates.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, piece board.Piece, mouseX, mouseY int) {
	half := r.layout.SquareSize / 2
	r.sprites.DrawPieceAt(screen, piece, float64(r.s(mouseX-half)), float64(r.s(mouseY-half)), r.scale)
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// Sprites returns the sprite manager.
func (r *Renderer) Sprites() *SpriteManager {
	return r.sprites
}
