package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/gridchess/internal/engine"
	"github.com/hailam/gridchess/internal/storage"
)

// Panel dimensions
const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	TabHeight      = 34
	SectionLabelH  = 20
	StatusBarH     = 70
	MoveRowHeight  = 22
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

// Contains reports whether logical pixel (x, y) is inside the button.
func (b *Button) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Panel is the side panel with controls, move list and status line.
type Panel struct {
	game *Game

	newGameBtn *Button
	undoBtn    *Button
	flipBtn    *Button
	modeTabs   []*Button // [0] = vs Human, [1] = vs Computer
	diffTabs   []*Button // indexed by engine.Difficulty

	scrollY int
	follow  bool // keep the latest move in view
	scale   float64
}

// NewPanel creates the panel for g.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g, follow: true, scale: 1}
	p.createButtons()
	return p
}

// createButtons lays out every control.
func (p *Panel) createButtons() {
	contentX := BoardSize + PanelPadding
	contentW := PanelWidth - PanelPadding*2

	y := PanelPadding + 8
	p.newGameBtn = &Button{
		X: contentX, Y: y, W: contentW, H: ButtonHeight,
		Label:   "New Game",
		OnClick: p.game.NewGameAction,
	}

	y += ButtonHeight + 8
	half := (contentW - 8) / 2
	p.undoBtn = &Button{
		X: contentX, Y: y, W: half, H: ButtonHeight - 6,
		Label:   "Undo",
		OnClick: p.game.UndoAction,
	}
	p.flipBtn = &Button{
		X: contentX + half + 8, Y: y, W: half, H: ButtonHeight - 6,
		Label:   "Flip",
		OnClick: p.game.FlipAction,
	}

	y += ButtonHeight - 6 + SectionSpacing + SectionLabelH - 8
	tabW := contentW / 2
	p.modeTabs = []*Button{
		{X: contentX, Y: y, W: tabW, H: TabHeight, Label: "vs Human",
			OnClick: func() { p.game.SetMode(storage.ModeHumanVsHuman) }},
		{X: contentX + tabW, Y: y, W: tabW, H: TabHeight, Label: "vs Computer",
			OnClick: func() { p.game.SetMode(storage.ModeHumanVsComputer) }},
	}

	y += TabHeight + SectionSpacing + SectionLabelH
	diffW := contentW / 4
	p.diffTabs = nil
	for d := engine.Beginner; d <= engine.Hard; d++ {
		d := d
		p.diffTabs = append(p.diffTabs, &Button{
			X: contentX + int(d)*diffW, Y: y, W: diffW, H: TabHeight - 2,
			Label:   d.String(),
			OnClick: func() { p.game.SetDifficulty(d) },
		})
	}
}

// buttons returns the controls that are currently visible.
func (p *Panel) buttons() []*Button {
	out := []*Button{p.newGameBtn, p.undoBtn, p.flipBtn}
	out = append(out, p.modeTabs...)
	if p.game.Mode() == storage.ModeHumanVsComputer {
		out = append(out, p.diffTabs...)
	}
	return out
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if _, wheelY := ebiten.Wheel(); wheelY != 0 && mx >= BoardSize && my >= p.historyStartY() {
		p.scrollY -= int(wheelY * 30)
		if p.scrollY < 0 {
			p.scrollY = 0
		}
		p.follow = false
	}

	var clicked *Button
	for _, btn := range p.buttons() {
		btn.hovered = btn.Contains(mx, my)
		btn.pressed = btn.hovered && input.IsLeftPressed()
		if btn.hovered && input.IsLeftJustPressed() {
			clicked = btn
		}
	}
	if clicked != nil {
		clicked.OnClick()
		return true
	}
	return false
}

// AnyButtonHovered returns true if any visible button is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons() {
		if btn.hovered {
			return true
		}
	}
	return false
}

// SetScale sets the HiDPI scale factor.
func (p *Panel) SetScale(scale float64) {
	p.scale = scale
}

func (p *Panel) s(v int) float32 {
	return float32(float64(v) * p.scale)
}

func (p *Panel) face() *text.GoTextFace {
	return GetFaceWithSize(defaultFontSize * p.scale)
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, p.s(BoardSize), 0, p.s(PanelWidth), p.s(ScreenHeight), panelBg, false)

	p.drawButton(screen, p.newGameBtn, true, false)
	p.drawButton(screen, p.undoBtn, false, false)
	p.drawButton(screen, p.flipBtn, false, false)

	p.drawSectionLabel(screen, "Game Mode", p.modeTabs[0].Y-SectionLabelH)
	for i, btn := range p.modeTabs {
		p.drawButton(screen, btn, false, storage.GameMode(i) == p.game.Mode())
	}

	if p.game.Mode() == storage.ModeHumanVsComputer {
		p.drawSectionLabel(screen, "Difficulty", p.diffTabs[0].Y-SectionLabelH)
		for i, btn := range p.diffTabs {
			p.drawButton(screen, btn, false, engine.Difficulty(i) == p.game.Difficulty())
		}
	}

	historyY := p.historyStartY()
	p.drawSectionLabel(screen, "Moves", historyY)
	p.drawMoveHistory(screen, historyY+SectionLabelH+4)

	p.drawStatusBar(screen)
}

func (p *Panel) historyStartY() int {
	last := p.modeTabs[0]
	if p.game.Mode() == storage.ModeHumanVsComputer {
		last = p.diffTabs[0]
	}
	return last.Y + last.H + SectionSpacing - 4
}

// drawButton draws btn; primary buttons use the accent color, active tabs
// stay green.
func (p *Panel) drawButton(screen *ebiten.Image, btn *Button, primary, active bool) {
	bg, border, fg := tabInactiveBg, buttonBorder, textSecondary
	switch {
	case primary:
		bg, border, fg = accentColor, accentPressed, textPrimary
		if btn.pressed {
			bg = accentPressed
		} else if btn.hovered {
			bg = accentHover
		}
	case active:
		bg, border, fg = tabActiveBg, tabActiveBg, textPrimary
	case btn.pressed:
		bg = buttonPressedBg
	case btn.hovered:
		bg, border = buttonHoverBg, accentColor
	}

	x, y, w, h := p.s(btn.X), p.s(btn.Y), p.s(btn.W), p.s(btn.H)
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 1, border, false)
	drawTextCentered(screen, p.face(), btn.Label, x+w/2, y+h/2, fg)
}

func (p *Panel) drawSectionLabel(screen *ebiten.Image, label string, y int) {
	drawText(screen, p.face(), label, p.s(BoardSize+PanelPadding), p.s(y), textMuted)
}

// moveRows pairs the history into numbered rows ("1.", "e2e4", "e7e5").
func moveRows(moves []string) [][3]string {
	rows := make([][3]string, 0, (len(moves)+1)/2)
	for i := 0; i < len(moves); i += 2 {
		row := [3]string{fmt.Sprintf("%d.", i/2+1), moves[i], ""}
		if i+1 < len(moves) {
			row[2] = moves[i+1]
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	rows := moveRows(p.game.MoveHistory())
	x := BoardSize + PanelPadding
	if len(rows) == 0 {
		drawText(screen, p.face(), "No moves yet", p.s(x), p.s(startY+5), textMuted)
		return
	}

	maxY := ScreenHeight - StatusBarH
	visible := (maxY - startY) / MoveRowHeight
	maxScroll := (len(rows) - visible) * MoveRowHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.follow || p.scrollY >= maxScroll {
		p.scrollY = maxScroll
		p.follow = true
	}

	first := p.scrollY / MoveRowHeight
	for i := first; i < len(rows) && i < first+visible; i++ {
		y := startY + (i-first)*MoveRowHeight
		if i%2 == 1 {
			vector.DrawFilledRect(screen, p.s(x-4), p.s(y-2), p.s(PanelWidth-PanelPadding*2+8), p.s(MoveRowHeight), moveRowAlt, false)
		}
		drawText(screen, p.face(), rows[i][0], p.s(x), p.s(y), textMuted)
		drawText(screen, p.face(), rows[i][1], p.s(x+40), p.s(y), textPrimary)
		drawText(screen, p.face(), rows[i][2], p.s(x+130), p.s(y), textPrimary)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := ScreenHeight - StatusBarH
	x := BoardSize + PanelPadding

	vector.DrawFilledRect(screen, p.s(x), p.s(statusY-10), p.s(PanelWidth-PanelPadding*2), 1, dividerColor, false)

	drawText(screen, p.face(), p.game.Username(), p.s(x), p.s(statusY), textSecondary)

	msg := p.game.StatusMessage()
	c := textPrimary
	switch {
	case p.game.GameOver():
		c = statusGameOver
	case p.game.IsAIThinking():
		c = statusThinking
	}
	drawText(screen, p.face(), msg, p.s(x), p.s(statusY+22), c)
}
