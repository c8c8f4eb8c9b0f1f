package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Command is a keyboard shortcut.
type Command int

const (
	CmdNone Command = iota
	CmdNewGame
	CmdUndo
	CmdFlip
	CmdToggleMode
	CmdToggleHints
)

// keyCommands maps shortcut keys to commands.
var keyCommands = map[ebiten.Key]Command{
	ebiten.KeyN: CmdNewGame,
	ebiten.KeyU: CmdUndo,
	ebiten.KeyF: CmdFlip,
	ebiten.KeyM: CmdToggleMode,
	ebiten.KeyH: CmdToggleHints,
}

// InputHandler samples mouse and keyboard state once per frame.
type InputHandler struct {
	mouseX, mouseY   int // Logical coordinates (unscaled)
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	command          Command
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update samples the input state. scale is the device scale factor used to
// convert cursor positions back to logical coordinates.
func (ih *InputHandler) Update(scale float64) {
	rawX, rawY := ebiten.CursorPosition()
	if scale < 1.0 {
		scale = 1.0
	}
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	ih.command = CmdNone
	for key, cmd := range keyCommands {
		if inpututil.IsKeyJustPressed(key) {
			ih.command = cmd
			break
		}
	}
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// Command returns the shortcut pressed this frame, if any.
func (ih *InputHandler) Command() Command {
	return ih.command
}
