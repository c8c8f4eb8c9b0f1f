// Package render draws boards and piece tokens as SVG.
package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/gridchess/internal/board"
)

// Piece tokens are drawn in a unit box of this size and scaled by the caller.
const unit = 100

type palette struct {
	fill, stroke, detail string
}

var palettes = [2]palette{
	board.White: {fill: "#f8f8f0", stroke: "#202020", detail: "#202020"},
	board.Black: {fill: "#303030", stroke: "#101010", detail: "#e0e0e0"},
}

// PieceSVG returns a standalone SVG document of size x size pixels holding
// the token for p. It returns nil for NoPiece.
func PieceSVG(p board.Piece, size int) []byte {
	if p.IsEmpty() {
		return nil
	}
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(size, size, 0, 0, unit, unit)
	drawPiece(canvas, p)
	canvas.End()
	return buf.Bytes()
}

// drawPiece emits the token for p into the unit box at the origin.
func drawPiece(canvas *svg.SVG, p board.Piece) {
	pal := palettes[p.Color()]
	body := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:3", pal.fill, pal.stroke)
	detail := fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", pal.detail)

	// Common pedestal.
	canvas.Rect(22, 80, 56, 10, body)

	switch p.Type() {
	case board.Pawn:
		canvas.Polygon([]int{36, 64, 58, 42}, []int{80, 80, 50, 50}, body)
		canvas.Circle(50, 38, 13, body)
	case board.Knight:
		canvas.Polygon(
			[]int{30, 70, 68, 58, 64, 46, 34, 28, 42, 44},
			[]int{80, 80, 40, 20, 14, 16, 34, 48, 48, 58},
			body)
		canvas.Circle(50, 28, 3, detail)
	case board.Bishop:
		canvas.Polygon([]int{34, 66, 58, 42}, []int{80, 80, 62, 62}, body)
		canvas.Ellipse(50, 44, 15, 21, body)
		canvas.Circle(50, 18, 5, body)
		canvas.Line(44, 36, 56, 48, detail)
	case board.Rook:
		canvas.Polygon(
			[]int{30, 70, 64, 64, 70, 70, 60, 60, 54, 54, 46, 46, 40, 40, 30, 30, 36, 36},
			[]int{80, 80, 70, 38, 34, 18, 18, 26, 26, 18, 18, 26, 26, 18, 18, 34, 38, 70},
			body)
		canvas.Line(36, 38, 64, 38, detail)
	case board.Queen:
		canvas.Polygon(
			[]int{28, 72, 82, 66, 58, 50, 42, 34, 18},
			[]int{80, 80, 30, 56, 24, 52, 24, 56, 30},
			body)
		for _, x := range []int{18, 34, 50, 66, 82} {
			canvas.Circle(x, 24, 5, body)
		}
	case board.King:
		canvas.Polygon([]int{28, 72, 76, 64, 36, 24}, []int{80, 80, 44, 34, 34, 44}, body)
		canvas.Rect(46, 10, 8, 26, body)
		canvas.Rect(38, 16, 24, 8, body)
		canvas.Line(32, 64, 68, 64, detail)
	}
}
