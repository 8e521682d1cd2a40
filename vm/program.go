package vm

import (
	"fmt"
	"sort"
	"strings"
)

// Program is an ordered instruction sequence. An instruction's index is its
// address.
type Program []Instruction

// Validate checks the contract violations that can be detected without
// running the program.
func (p Program) Validate() error {
	for pc, inst := range p {
		if r, ok := inst.(Repeat); ok && r.Count < 1 {
			return &RuntimeError{PC: pc, Instruction: inst, Err: ErrZeroRepeat}
		}
	}
	return nil
}

// String renders the program as source text, one instruction per line.
// The output parses back to an equal program.
func (p Program) String() string {
	var b strings.Builder
	for _, inst := range p {
		b.WriteString(inst.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns a copy of the program that shares no backing array.
func (p Program) Clone() Program {
	if p == nil {
		return nil
	}
	out := make(Program, len(p))
	copy(out, p)
	return out
}

// Disassemble returns an addressed listing of the program. Lines that are
// the target of a Goto, Call or Repeat are marked with '>', and labels, if
// given, are shown next to the address they name.
func Disassemble(p Program, labels map[string]int) string {
	targets := make(map[int]bool)
	for _, inst := range p {
		if addr, ok := Target(inst); ok {
			targets[addr] = true
		}
	}
	names := make(map[int][]string)
	for name, addr := range labels {
		names[addr] = append(names[addr], name)
	}

	width := len(fmt.Sprint(len(p)))
	if width < 4 {
		width = 4
	}

	var b strings.Builder
	for pc, inst := range p {
		mark := ' '
		if targets[pc] {
			mark = '>'
		}
		fmt.Fprintf(&b, "%0*d %c %s", width, pc, mark, inst)
		if n := names[pc]; len(n) > 0 {
			sort.Strings(n)
			fmt.Fprintf(&b, "  @%s", strings.Join(n, " @"))
		}
		if j, ok := inst.(Jump); ok {
			fmt.Fprintf(&b, "  -> %0*d", width, jumpTarget(pc, j.Offset))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
