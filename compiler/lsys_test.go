package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/penplot/vm"
)

const snowflake = `
seed {
    <F> TURN 120 <F> TURN 120 <F>
}
aliases {
    <F> { WALK 3 }
}
<F> {
    <F> TURN -60 <F> TURN 120 <F> TURN -60 <F>
}
`

func TestCompileLSystem(t *testing.T) {
	l, err := CompileLSystem(snowflake)
	if err != nil {
		t.Fatalf("CompileLSystem: %v", err)
	}
	f := vm.Comment{Text: "F"}
	if len(l.Seed) != 5 || l.Seed[0] != f || l.Seed[1] != (vm.Turn{Degrees: 120}) {
		t.Errorf("seed = %v", l.Seed)
	}
	if len(l.Aliases) != 1 || len(l.Aliases[f]) != 1 || l.Aliases[f][0] != (vm.MoveForward{Distance: 3}) {
		t.Errorf("aliases = %v", l.Aliases)
	}
	if len(l.Rules) != 1 || len(l.Rules[f]) != 7 {
		t.Errorf("rules = %v", l.Rules)
	}

	p := l.Run(1)
	// 3 segments become 12; the 2 seed turns and 9 new turns stay.
	if len(p) != 12+2+9 {
		t.Errorf("Run(1) length = %d, want 23", len(p))
	}
	for _, inst := range p {
		if _, ok := inst.(vm.Comment); ok {
			t.Fatalf("placeholder survived the alias pass: %v", p)
		}
	}
}

func TestCompileLSystemWithoutAliases(t *testing.T) {
	l, err := CompileLSystem("SEED { WALK 1 } WALK 1 { WALK 1 TURN 90 WALK 1 }")
	if err != nil {
		t.Fatalf("CompileLSystem: %v", err)
	}
	if l.Aliases != nil {
		t.Errorf("aliases = %v, want nil", l.Aliases)
	}
	if got := len(l.Run(2)); got != 7 {
		t.Errorf("Run(2) length = %d, want 7", got)
	}
}

func TestCompileLSystemParameterizedKeys(t *testing.T) {
	src := `seed { WALK 1 WALK 2 }
WALK 1 { BLOT }
WALK 2 { HALT }
RGB 255 0 0 { RGBA 0 0 255 128 }`
	l, err := CompileLSystem(src)
	if err != nil {
		t.Fatalf("CompileLSystem: %v", err)
	}
	if len(l.Rules) != 3 {
		t.Fatalf("rules = %v", l.Rules)
	}
	p := l.Run(1)
	if p[0] != (vm.Blot{}) || p[1] != (vm.Halt{}) {
		t.Errorf("Run(1) = %v", p)
	}
}

func TestCompileLSystemNumericAddresses(t *testing.T) {
	l, err := CompileLSystem("seed { CALL 4 } CALL 4 { LOOP 2 3 }")
	if err != nil {
		t.Fatalf("CompileLSystem: %v", err)
	}
	if l.Rules[vm.Call{Addr: 4}][0] != (vm.Repeat{Addr: 2, Count: 3}) {
		t.Errorf("rules = %v", l.Rules)
	}
}

func TestCompileLSystemErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"", "expected 'seed'"},
		{"WALK 1 { }", "expected 'seed'"},
		{"seed WALK 1", "expected '{'"},
		{"seed { WALK 1", "unterminated block"},
		{"seed { WALK 1 }", "at least one rule"},
		{"seed { } WALK 1 { } WALK 1 { BLOT }", "duplicate rule"},
		{"seed { } aliases { <A> { } <A> { } } <A> { }", "duplicate alias"},
		{"seed { } aliases { <A> { }", "unterminated aliases"},
		{"seed { GOTO start } <A> { }", "labels are not allowed"},
		{"seed { WALK 1 @x } <A> { }", "labels are not allowed"},
		{"seed { } FROB { }", "unknown instruction"},
		{"seed { RGB 300 0 0 } <A> { }", "out of range"},
	}

	for _, tc := range tests {
		l, err := CompileLSystem(tc.input)
		if err == nil {
			t.Errorf("CompileLSystem(%q): expected error, got %v", tc.input, l)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("CompileLSystem(%q): %T is not a *ParseError", tc.input, err)
			continue
		}
		if !strings.Contains(perr.Msg, tc.msg) {
			t.Errorf("CompileLSystem(%q): %q does not mention %q", tc.input, perr.Msg, tc.msg)
		}
	}
}

func TestLSystemStringReparses(t *testing.T) {
	l, err := CompileLSystem(snowflake)
	if err != nil {
		t.Fatalf("CompileLSystem: %v", err)
	}
	again, err := CompileLSystem(l.String())
	if err != nil {
		t.Fatalf("re-parse:\n%s\n%v", l.String(), err)
	}
	a, b := l.Run(2), again.Run(2)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("[%d] %v != %v", i, a[i], b[i])
		}
	}
}
