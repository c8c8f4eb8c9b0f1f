package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/gridchess/internal/board"
)

// promotionChoices are offered top to bottom, nearest the last rank first.
var promotionChoices = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

var pickerBg = color.RGBA{250, 250, 250, 235}

// PromotionPicker asks which piece a pawn reaching the last rank becomes.
// It covers four squares of the destination file, starting at the
// destination and running toward the middle of the board.
type PromotionPicker struct {
	From, To board.Square
	Color    board.Color
}

// cells returns the squares the choices are drawn on, in promotionChoices
// order.
func (pp *PromotionPicker) cells() [4]board.Square {
	var out [4]board.Square
	step := -pp.Color.Forward()
	for i := range out {
		out[i] = pp.To.Offset(i*step, 0)
	}
	return out
}

// Pick returns the kind under logical pixel (x, y), or NoPieceType when the
// click misses the picker.
func (pp *PromotionPicker) Pick(l Layout, x, y int) board.PieceType {
	sq := l.ScreenToSquare(x, y)
	for i, cell := range pp.cells() {
		if cell == sq {
			return promotionChoices[i]
		}
	}
	return board.NoPieceType
}

// Draw renders the choices over the board.
func (pp *PromotionPicker) Draw(screen *ebiten.Image, r *Renderer) {
	l := r.Layout()
	sz := r.s(l.SquareSize)
	for i, cell := range pp.cells() {
		x, y := l.SquareToScreen(cell)
		vector.DrawFilledRect(screen, r.s(x), r.s(y), sz, sz, pickerBg, false)
		vector.StrokeRect(screen, r.s(x), r.s(y), sz, sz, 1, buttonBorder, false)
		p := board.NewPiece(promotionChoices[i], pp.Color)
		r.sprites.DrawPieceAt(screen, p, float64(r.s(x)), float64(r.s(y)), r.scale)
	}
}
