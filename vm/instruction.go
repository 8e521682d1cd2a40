package vm

import (
	"fmt"

	"github.com/chazu/penplot/canvas"
)

// Instruction is one program step. The set of implementations is closed;
// every implementation is a comparable value type, so two instructions are
// equal exactly when they have the same variant and the same operands, and
// instructions can be used as map keys.
type Instruction interface {
	// Mnemonic returns the canonical (upper case) mnemonic.
	Mnemonic() string
	// String returns the canonical source form, which parses back to an
	// equal instruction.
	String() string

	isInstruction()
}

// Noop does nothing.
type Noop struct{}

// Move puts the pen at an absolute position.
type Move struct{ X, Y int }

// MoveRel moves the pen by an offset.
type MoveRel struct{ DX, DY int }

// MoveForward moves the pen along its heading.
type MoveForward struct{ Distance int }

// Face sets the heading, in degrees.
type Face struct{ Degrees int }

// Turn changes the heading, in degrees.
type Turn struct{ Degrees int }

// SetColor changes the pen color.
type SetColor struct{ Color canvas.Color }

// Blot marks the pixel under the pen.
type Blot struct{}

// Comment carries text and has no effect. L-systems use comments as
// placeholder symbols.
type Comment struct{ Text string }

// Goto transfers control to an absolute address.
type Goto struct{ Addr int }

// Jump transfers control relative to the next instruction: offset 0 is a
// no-op, -1 re-executes the jump itself.
type Jump struct{ Offset int }

// Call pushes the return address and transfers control to Addr.
type Call struct{ Addr int }

// Return pops a return address.
type Return struct{}

// Repeat runs the subroutine at Addr Count times, then continues with the
// next instruction. The subroutine must end in Return.
type Repeat struct{ Addr, Count int }

// Halt stops the program.
type Halt struct{}

func (Noop) isInstruction()        {}
func (Move) isInstruction()        {}
func (MoveRel) isInstruction()     {}
func (MoveForward) isInstruction() {}
func (Face) isInstruction()        {}
func (Turn) isInstruction()        {}
func (SetColor) isInstruction()    {}
func (Blot) isInstruction()        {}
func (Comment) isInstruction()     {}
func (Goto) isInstruction()        {}
func (Jump) isInstruction()        {}
func (Call) isInstruction()        {}
func (Return) isInstruction()      {}
func (Repeat) isInstruction()      {}
func (Halt) isInstruction()        {}

// Mnemonics, as written in source.
const (
	MnemonicNoop        = "NOOP"
	MnemonicMove        = "MOVE"
	MnemonicMoveRel     = "SHFT"
	MnemonicMoveForward = "WALK"
	MnemonicFace        = "FACE"
	MnemonicTurn        = "TURN"
	MnemonicRGBA        = "RGBA"
	MnemonicRGB         = "RGB"
	MnemonicBlank       = "BLNK"
	MnemonicBlot        = "BLOT"
	MnemonicComment     = ";"
	MnemonicGoto        = "GOTO"
	MnemonicJump        = "JUMP"
	MnemonicCall        = "CALL"
	MnemonicReturn      = "RTRN"
	MnemonicRepeat      = "LOOP"
	MnemonicHalt        = "HALT"
)

func (Noop) Mnemonic() string        { return MnemonicNoop }
func (Move) Mnemonic() string        { return MnemonicMove }
func (MoveRel) Mnemonic() string     { return MnemonicMoveRel }
func (MoveForward) Mnemonic() string { return MnemonicMoveForward }
func (Face) Mnemonic() string        { return MnemonicFace }
func (Turn) Mnemonic() string        { return MnemonicTurn }
func (SetColor) Mnemonic() string    { return MnemonicRGBA }
func (Blot) Mnemonic() string        { return MnemonicBlot }
func (Comment) Mnemonic() string     { return MnemonicComment }
func (Goto) Mnemonic() string        { return MnemonicGoto }
func (Jump) Mnemonic() string        { return MnemonicJump }
func (Call) Mnemonic() string        { return MnemonicCall }
func (Return) Mnemonic() string      { return MnemonicReturn }
func (Repeat) Mnemonic() string      { return MnemonicRepeat }
func (Halt) Mnemonic() string        { return MnemonicHalt }

func (Noop) String() string          { return MnemonicNoop }
func (i Move) String() string        { return fmt.Sprintf("%s %d %d", MnemonicMove, i.X, i.Y) }
func (i MoveRel) String() string     { return fmt.Sprintf("%s %d %d", MnemonicMoveRel, i.DX, i.DY) }
func (i MoveForward) String() string { return fmt.Sprintf("%s %d", MnemonicMoveForward, i.Distance) }
func (i Face) String() string        { return fmt.Sprintf("%s %d", MnemonicFace, i.Degrees) }
func (i Turn) String() string        { return fmt.Sprintf("%s %d", MnemonicTurn, i.Degrees) }
func (Blot) String() string          { return MnemonicBlot }
func (i Goto) String() string        { return fmt.Sprintf("%s %d", MnemonicGoto, i.Addr) }
func (i Jump) String() string        { return fmt.Sprintf("%s %d", MnemonicJump, i.Offset) }
func (i Call) String() string        { return fmt.Sprintf("%s %d", MnemonicCall, i.Addr) }
func (Return) String() string        { return MnemonicReturn }
func (i Repeat) String() string      { return fmt.Sprintf("%s %d %d", MnemonicRepeat, i.Addr, i.Count) }
func (Halt) String() string          { return MnemonicHalt }

func (i SetColor) String() string {
	c := i.Color
	return fmt.Sprintf("%s %d %d %d %d", MnemonicRGBA, c.R, c.G, c.B, c.A)
}

func (i Comment) String() string {
	if i.Text == "" {
		return MnemonicComment
	}
	return MnemonicComment + " " + i.Text
}

// IsControl reports whether the instruction changes the program counter
// other than by advancing it.
func IsControl(inst Instruction) bool {
	switch inst.(type) {
	case Goto, Jump, Call, Return, Repeat, Halt:
		return true
	}
	return false
}

// Target returns the absolute address an instruction refers to, if any.
func Target(inst Instruction) (int, bool) {
	switch i := inst.(type) {
	case Goto:
		return i.Addr, true
	case Call:
		return i.Addr, true
	case Repeat:
		return i.Addr, true
	}
	return 0, false
}
