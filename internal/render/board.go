package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/gridchess/internal/board"
)

// Square colors.
const (
	LightSquare   = "#f0d9b5"
	DarkSquare    = "#b58863"
	HighlightFill = "#f7ec5a"
	TargetFill    = "#6c9a4f"
)

// Options controls a board diagram.
type Options struct {
	SquareSize int  // pixels per square; DefaultSquareSize when zero
	Flip       bool // draw with Black at the bottom
	// Coordinates labels the files and ranks along the edges.
	Coordinates bool
	// LastMove squares are tinted; NoMove disables it.
	LastMove board.Move
	// Targets are marked with a dot, e.g. legal destinations.
	Targets []board.Square
}

// DefaultSquareSize is used when Options.SquareSize is zero.
const DefaultSquareSize = 48

// DefaultOptions returns options for an unflipped board with coordinates.
func DefaultOptions() Options {
	return Options{
		SquareSize:  DefaultSquareSize,
		Coordinates: true,
		LastMove:    board.NoMove,
	}
}

// BoardSVG writes an SVG diagram of snap to w.
func BoardSVG(w io.Writer, snap board.Snapshot, opts Options) error {
	sz := opts.SquareSize
	if sz <= 0 {
		sz = DefaultSquareSize
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(8*sz, 8*sz)
	canvas.Title("chess board")

	tinted := map[board.Square]bool{}
	if !opts.LastMove.IsNone() {
		tinted[opts.LastMove.From] = true
		tinted[opts.LastMove.To] = true
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := board.NewSquare(row, col)
			x, y := squareOrigin(sq, sz, opts.Flip)

			fill := LightSquare
			if (row+col)%2 == 1 {
				fill = DarkSquare
			}
			if tinted[sq] {
				fill = HighlightFill
			}
			canvas.Rect(x, y, sz, sz, "fill:"+fill)

			if p := snap.At(sq); !p.IsEmpty() {
				canvas.Gtransform(fmt.Sprintf("translate(%d,%d) scale(%g)", x, y, float64(sz)/unit))
				drawPiece(canvas, p)
				canvas.Gend()
			}
		}
	}

	for _, sq := range opts.Targets {
		if !sq.IsValid() {
			continue
		}
		x, y := squareOrigin(sq, sz, opts.Flip)
		canvas.Circle(x+sz/2, y+sz/2, sz/6, "fill:"+TargetFill+";fill-opacity:0.8")
	}

	if opts.Coordinates {
		drawCoordinates(canvas, sz, opts.Flip)
	}

	canvas.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// squareOrigin returns the top-left pixel of sq.
func squareOrigin(sq board.Square, sz int, flip bool) (int, int) {
	row, col := sq.Row, sq.Col
	if flip {
		row, col = 7-row, 7-col
	}
	return col * sz, row * sz
}

func drawCoordinates(canvas *svg.SVG, sz int, flip bool) {
	font := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:#404040", sz/5)
	for i := 0; i < 8; i++ {
		sq := board.NewSquare(i, i)
		if flip {
			sq = board.NewSquare(7-i, 7-i)
		}
		name := sq.String()

		// File letter along the bottom edge, rank digit along the left edge.
		canvas.Text(i*sz+sz-sz/5, 8*sz-3, name[:1], font)
		canvas.Text(2, i*sz+sz/4, name[1:], font)
	}
}
