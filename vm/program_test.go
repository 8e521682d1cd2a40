package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/penplot/canvas"
)

func TestInstructionEquality(t *testing.T) {
	red := canvas.RGB(255, 0, 0)
	tests := []struct {
		a, b  Instruction
		equal bool
	}{
		{Move{1, 2}, Move{1, 2}, true},
		{Move{1, 2}, Move{2, 1}, false},
		{Move{1, 2}, MoveRel{1, 2}, false},
		{SetColor{red}, SetColor{canvas.RGB(255, 0, 0)}, true},
		{SetColor{red}, SetColor{canvas.Color{R: 255, A: 254}}, false},
		{Comment{"F"}, Comment{"F"}, true},
		{Comment{"F"}, Comment{"G"}, false},
		{Turn{90}, Face{90}, false},
		{Halt{}, Halt{}, true},
	}
	for _, tc := range tests {
		if got := tc.a == tc.b; got != tc.equal {
			t.Errorf("%v == %v: got %v, want %v", tc.a, tc.b, got, tc.equal)
		}
	}
}

func TestInstructionsAsMapKeys(t *testing.T) {
	rules := map[Instruction]string{
		MoveForward{1}:                "short",
		MoveForward{2}:                "long",
		SetColor{canvas.RGB(1, 2, 3)}: "color",
		Comment{"X"}:                  "placeholder",
	}
	if rules[MoveForward{1}] != "short" || rules[MoveForward{2}] != "long" {
		t.Error("parameterized keys did not match exactly")
	}
	if _, ok := rules[MoveForward{3}]; ok {
		t.Error("WALK 3 should not match any key")
	}
	if rules[SetColor{canvas.Color{R: 1, G: 2, B: 3, A: 255}}] != "color" {
		t.Error("nested color key did not match")
	}
	if rules[Comment{"X"}] != "placeholder" {
		t.Error("comment key did not match")
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{Noop{}, "NOOP"},
		{Move{-1, 2}, "MOVE -1 2"},
		{MoveRel{3, -4}, "SHFT 3 -4"},
		{MoveForward{10}, "WALK 10"},
		{Face{-45}, "FACE -45"},
		{Turn{90}, "TURN 90"},
		{SetColor{canvas.Color{R: 1, G: 2, B: 3, A: 4}}, "RGBA 1 2 3 4"},
		{Blot{}, "BLOT"},
		{Comment{"hello world"}, "; hello world"},
		{Comment{}, ";"},
		{Goto{7}, "GOTO 7"},
		{Jump{-2}, "JUMP -2"},
		{Call{3}, "CALL 3"},
		{Return{}, "RTRN"},
		{Repeat{4, 5}, "LOOP 4 5"},
		{Halt{}, "HALT"},
	}
	for _, tc := range tests {
		if got := tc.inst.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.inst, got, tc.want)
		}
	}
}

func TestIsControlAndTarget(t *testing.T) {
	for _, inst := range []Instruction{Goto{1}, Jump{1}, Call{1}, Return{}, Repeat{1, 2}, Halt{}} {
		if !IsControl(inst) {
			t.Errorf("%v should be control flow", inst)
		}
	}
	for _, inst := range []Instruction{Noop{}, Move{}, Blot{}, Comment{}} {
		if IsControl(inst) {
			t.Errorf("%v should not be control flow", inst)
		}
	}
	if addr, ok := Target(Repeat{4, 2}); !ok || addr != 4 {
		t.Errorf("Target(LOOP 4 2) = %d,%v", addr, ok)
	}
	if _, ok := Target(Jump{4}); ok {
		t.Error("JUMP is relative and has no absolute target")
	}
}

func TestProgramString(t *testing.T) {
	p := Program{Move{0, 0}, SetColor{canvas.RGB(255, 255, 255)}, MoveForward{5}, Halt{}}
	want := "MOVE 0 0\nRGBA 255 255 255 255\nWALK 5\nHALT\n"
	if got := p.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestProgramValidate(t *testing.T) {
	if err := (Program{Repeat{0, 1}, Return{}}).Validate(); err != nil {
		t.Errorf("valid program rejected: %v", err)
	}
	err := Program{Noop{}, Noop{}, Repeat{0, 0}}.Validate()
	if !errors.Is(err, ErrZeroRepeat) {
		t.Fatalf("err = %v, want ErrZeroRepeat", err)
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.PC != 2 {
		t.Errorf("PC = %d, want 2", rerr.PC)
	}
}

func TestProgramClone(t *testing.T) {
	p := Program{Noop{}, Halt{}}
	c := p.Clone()
	c[0] = Blot{}
	if _, ok := p[0].(Noop); !ok {
		t.Error("Clone shares storage with the original")
	}
	if Program(nil).Clone() != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestDisassemble(t *testing.T) {
	p := Program{Call{2}, Halt{}, MoveRel{1, 0}, Jump{-2}, Return{}}
	out := Disassemble(p, map[string]int{"sub": 2})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "0000   CALL 2" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[2] != "0002 > SHFT 1 0  @sub" {
		t.Errorf("line 2 = %q", lines[2])
	}
	if lines[3] != "0003   JUMP -2  -> 0002" {
		t.Errorf("line 3 = %q", lines[3])
	}
}

func TestRuntimeErrorMessage(t *testing.T) {
	err := &RuntimeError{PC: 3, Instruction: Return{}, Err: ErrEmptyCallStack}
	if got := err.Error(); got != "pc 3 (RTRN): return with empty call stack" {
		t.Errorf("Error() = %q", got)
	}
}
