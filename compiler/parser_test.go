package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/penplot/canvas"
	"github.com/chazu/penplot/vm"
)

func TestParserInstructions(t *testing.T) {
	tests := []struct {
		input string
		want  vm.Instruction
	}{
		{"NOOP", vm.Noop{}},
		{"RTRN", vm.Return{}},
		{"BLOT", vm.Blot{}},
		{"HALT", vm.Halt{}},
		{"BLNK", vm.SetColor{Color: canvas.Transparent}},
		{"MOVE 3 -4", vm.Move{X: 3, Y: -4}},
		{"SHFT -1 2", vm.MoveRel{DX: -1, DY: 2}},
		{"WALK 10", vm.MoveForward{Distance: 10}},
		{"FACE 270", vm.Face{Degrees: 270}},
		{"TURN -45", vm.Turn{Degrees: -45}},
		{"GOTO 0", vm.Goto{Addr: 0}},
		{"CALL 7", vm.Call{Addr: 7}},
		{"JUMP -3", vm.Jump{Offset: -3}},
		{"LOOP 2 5", vm.Repeat{Addr: 2, Count: 5}},
		{"RGBA 1 2 3 4", vm.SetColor{Color: canvas.Color{R: 1, G: 2, B: 3, A: 4}}},
		{"RGB 255 0 0", vm.SetColor{Color: canvas.RGB(255, 0, 0)}},
		{"RGBA #10203040", vm.SetColor{Color: canvas.Color{R: 0x10, G: 0x20, B: 0x30, A: 0x40}}},
		{"RGB #00ff00", vm.SetColor{Color: canvas.RGB(0, 255, 0)}},
		{"; a comment", vm.Comment{Text: "a comment"}},
		{"<F>", vm.Comment{Text: "F"}},
		{"move 1 1", vm.Move{X: 1, Y: 1}},
		{"Halt", vm.Halt{}},
	}

	for _, tc := range tests {
		p, _, err := CompileProgram(tc.input)
		if err != nil {
			t.Errorf("CompileProgram(%q): %v", tc.input, err)
			continue
		}
		if len(p) != 1 {
			t.Errorf("CompileProgram(%q): %d instructions", tc.input, len(p))
			continue
		}
		if p[0] != tc.want {
			t.Errorf("CompileProgram(%q) = %#v, want %#v", tc.input, p[0], tc.want)
		}
	}
}

func TestParserLabels(t *testing.T) {
	src := `
MOVE 0 0
CALL square
HALT
WALK 10 @square
TURN 90
LOOP side 3
RTRN
; side of the square @side
RTRN
`
	p, symbols, err := CompileProgram(src)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if len(p) != 9 {
		t.Fatalf("len = %d, want 9", len(p))
	}
	if symbols["square"] != 3 || symbols["side"] != 7 {
		t.Errorf("symbols = %v", symbols)
	}
	if p[1] != (vm.Call{Addr: 3}) {
		t.Errorf("p[1] = %v, want CALL 3", p[1])
	}
	if p[5] != (vm.Repeat{Addr: 7, Count: 3}) {
		t.Errorf("p[5] = %v, want LOOP 7 3", p[5])
	}
	if p[7] != (vm.Comment{Text: "side of the square"}) {
		t.Errorf("p[7] = %#v", p[7])
	}
}

func TestParserBlankLinesTakeNoAddress(t *testing.T) {
	src := "\n\nNOOP\n\n   \nHALT @end\n\n"
	p, symbols, err := CompileProgram(src)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if len(p) != 2 {
		t.Fatalf("len = %d, want 2", len(p))
	}
	if symbols["end"] != 1 {
		t.Errorf("@end = %d, want 1", symbols["end"])
	}
}

func TestParserEmptySource(t *testing.T) {
	p, symbols, err := CompileProgram("  \n\n")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if len(p) != 0 || len(symbols) != 0 {
		t.Errorf("got %v %v", p, symbols)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		msg   string
	}{
		{"FROB 1", 1, "unknown instruction"},
		{"NOOP\nMOVE 1", 2, "expected integer"},
		{"GOTO nowhere", 1, "undefined label"},
		{"RGBA 1 2 3 256", 1, "out of range"},
		{"RGB -1 0 0", 1, "out of range"},
		{"RGB #11223344", 1, "expected #RRGGBB"},
		{"RGBA #123", 1, "invalid hex color"},
		{"WALK 99999999999", 1, "out of range"},
		{"HALT HALT", 1, "unexpected"},
		{"NOOP\n@lonely", 2, "has no instruction"},
		{"NOOP @a\nHALT @a", 2, "duplicate label"},
		{"GOTO -1", 1, "must not be negative"},
		{"LOOP 0 -2", 1, "must not be negative"},
		{"MOVE 1 @x 2", 1, "expected integer"},
		{"WALK 5 $", 1, "unexpected character"},
	}

	for _, tc := range tests {
		_, _, err := CompileProgram(tc.input)
		if err == nil {
			t.Errorf("CompileProgram(%q): expected error", tc.input)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("CompileProgram(%q): %T is not a *ParseError", tc.input, err)
			continue
		}
		if perr.Pos.Line != tc.line {
			t.Errorf("CompileProgram(%q): line %d, want %d", tc.input, perr.Pos.Line, tc.line)
		}
		if !strings.Contains(perr.Msg, tc.msg) {
			t.Errorf("CompileProgram(%q): %q does not mention %q", tc.input, perr.Msg, tc.msg)
		}
	}
}

func TestParserReportsEveryBadLine(t *testing.T) {
	_, _, err := CompileProgram("BAD\nNOOP\nWALK x\nHALT\nRGB 1 2")
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("err = %T, want ErrorList", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d errors: %v", len(list), err)
	}
	for i, line := range []int{1, 3, 5} {
		if list[i].Pos.Line != line {
			t.Errorf("error %d on line %d, want %d", i, list[i].Pos.Line, line)
		}
	}
	if !strings.HasPrefix(err.Error(), "line 1:1: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestParserNoPartialProgram(t *testing.T) {
	p, symbols, err := CompileProgram("NOOP\nNOPE")
	if err == nil {
		t.Fatal("expected error")
	}
	if p != nil || symbols != nil {
		t.Errorf("partial result returned: %v %v", p, symbols)
	}
}

func TestRoundTrip(t *testing.T) {
	insts := []vm.Instruction{
		vm.Noop{},
		vm.Move{X: -5, Y: 17},
		vm.MoveRel{DX: 1, DY: -1},
		vm.MoveForward{Distance: 100},
		vm.Face{Degrees: -90},
		vm.Turn{Degrees: 45},
		vm.SetColor{Color: canvas.Color{R: 9, G: 8, B: 7, A: 6}},
		vm.SetColor{Color: canvas.Transparent},
		vm.Blot{},
		vm.Comment{Text: "just text"},
		vm.Comment{},
		vm.Goto{Addr: 12},
		vm.Jump{Offset: -7},
		vm.Call{Addr: 3},
		vm.Return{},
		vm.Repeat{Addr: 4, Count: 9},
		vm.Halt{},
	}

	for _, inst := range insts {
		p, _, err := CompileProgram(inst.String())
		if err != nil {
			t.Errorf("re-parse %q: %v", inst.String(), err)
			continue
		}
		if len(p) != 1 || p[0] != inst {
			t.Errorf("re-parse %q = %v, want %#v", inst.String(), p, inst)
		}
	}

	whole := vm.Program(insts)
	p, _, err := CompileProgram(whole.String())
	if err != nil {
		t.Fatalf("re-parse program: %v", err)
	}
	if len(p) != len(whole) {
		t.Fatalf("re-parsed %d instructions, want %d", len(p), len(whole))
	}
	for i := range whole {
		if p[i] != whole[i] {
			t.Errorf("[%d] = %v, want %v", i, p[i], whole[i])
		}
	}
}

func TestPlaceholderRoundTrip(t *testing.T) {
	for _, src := range []string{"<F>", "<;>", "<#>", "<->"} {
		p, _, err := CompileProgram(src)
		if err != nil {
			t.Errorf("CompileProgram(%q): %v", src, err)
			continue
		}
		again, _, err := CompileProgram(p.String())
		if err != nil {
			t.Errorf("re-parse %q (from %q): %v", p.String(), src, err)
			continue
		}
		if len(again) != 1 || again[0] != p[0] {
			t.Errorf("re-parse %q = %v, want %#v", p.String(), again, p[0])
		}
	}

	for _, src := range []string{"<@>", "< >"} {
		if p, _, err := CompileProgram(src); err == nil {
			t.Errorf("CompileProgram(%q) = %#v, want error", src, p)
		}
	}
}

func TestParserRequiresSpaceBetweenOperands(t *testing.T) {
	for _, src := range []string{"MOVE 1-2", "SHFT 3-4", "LOOP 0 2-1"} {
		if p, _, err := CompileProgram(src); err == nil {
			t.Errorf("CompileProgram(%q) = %v, want error", src, p)
		}
	}
	p, _, err := CompileProgram("MOVE 1 -2")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if p[0] != (vm.Move{X: 1, Y: -2}) {
		t.Errorf("p[0] = %v, want MOVE 1 -2", p[0])
	}
}

func TestFormatKeepsLabels(t *testing.T) {
	src := "  move 0 0\ncall   sq\n\nhalt\nwalk 5 @sq\nloop sq 2\n;  bye  @done\nrgb #FF0000\nrtrn\n"
	got, err := Format(src)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "MOVE 0 0\nCALL sq\nHALT\nWALK 5 @sq\nLOOP sq 2\n; bye @done\nRGBA 255 0 0 255\nRTRN\n"
	if got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}

	again, err := Format(got)
	if err != nil {
		t.Fatalf("Format(Format): %v", err)
	}
	if again != got {
		t.Errorf("Format is not idempotent:\n%s", again)
	}
}

func TestParseProgramLines(t *testing.T) {
	if _, err := ParseProgram("NOOP\n  GOTO top @here\n"); err == nil {
		t.Fatal("expected undefined label error")
	}
	f, err := ParseProgram("NOOP @top\n  GOTO top @here\n")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	l := f.Lines[1]
	if l.Label != "here" || l.Target != "top" {
		t.Errorf("line = %+v", l)
	}
	if l.Pos.Line != 2 || l.Pos.Column != 3 {
		t.Errorf("Pos = %v, want 2:3", l.Pos)
	}
	if l.TargetPos.Column != 8 || l.LabelPos.Column != 12 {
		t.Errorf("TargetPos = %v, LabelPos = %v", l.TargetPos, l.LabelPos)
	}
}
