// Package lsystem expands L-system grammars into penplot programs.
//
// An L-system starts from a seed sequence and applies a set of rewrite rules
// a fixed number of times. Rules match instructions by exact value, so
// WALK 1 and WALK 2 are different symbols. After the last pass an optional
// alias table is applied once, which is how placeholder symbols (usually
// comments such as <F>) become drawing instructions.
package lsystem

import (
	"sort"
	"strings"

	"github.com/chazu/penplot/vm"
)

// Rules maps a trigger instruction to its replacement.
type Rules map[vm.Instruction][]vm.Instruction

// LSystem is a seed plus rewrite rules and optional aliases.
type LSystem struct {
	Seed    []vm.Instruction
	Rules   Rules
	Aliases Rules // nil when the grammar has no alias pass
}

// Rewrite applies one pass of rules to seq. Every instruction that is a key
// of rules is replaced by a copy of its replacement; all others are kept.
// Output produced by the pass is not rewritten again.
func Rewrite(seq []vm.Instruction, rules Rules) []vm.Instruction {
	out := make([]vm.Instruction, 0, len(seq))
	for _, inst := range seq {
		if repl, ok := rules[inst]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, inst)
	}
	return out
}

// Run rewrites the seed n times and then applies the aliases, if any.
func (l *LSystem) Run(n int) vm.Program {
	return l.Iterate(n, nil)
}

// Iterate is Run with a callback invoked after each rewrite pass with the
// pass number (starting at 1) and the resulting length.
func (l *LSystem) Iterate(n int, fn func(pass, length int)) vm.Program {
	seq := make([]vm.Instruction, len(l.Seed))
	copy(seq, l.Seed)

	for i := 1; i <= n; i++ {
		seq = Rewrite(seq, l.Rules)
		if fn != nil {
			fn(i, len(seq))
		}
	}
	if l.Aliases != nil {
		seq = Rewrite(seq, l.Aliases)
	}
	return vm.Program(seq)
}

// String renders the grammar in the L-system file syntax. Rules are sorted by
// their trigger text so the output is stable.
func (l *LSystem) String() string {
	var b strings.Builder
	b.WriteString("seed ")
	writeBlock(&b, l.Seed)
	b.WriteByte('\n')
	if l.Aliases != nil {
		b.WriteString("aliases {\n")
		writeRules(&b, l.Aliases, "  ")
		b.WriteString("}\n")
	}
	writeRules(&b, l.Rules, "")
	return b.String()
}

func writeRules(b *strings.Builder, rules Rules, indent string) {
	keys := make([]vm.Instruction, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	for _, k := range keys {
		b.WriteString(indent)
		b.WriteString(symbol(k))
		b.WriteByte(' ')
		writeBlock(b, rules[k])
		b.WriteByte('\n')
	}
}

func writeBlock(b *strings.Builder, seq []vm.Instruction) {
	b.WriteString("{")
	for _, inst := range seq {
		b.WriteString("\n    ")
		b.WriteString(symbol(inst))
	}
	b.WriteString("\n}")
}

// symbol prints single-character comments in their placeholder form so a
// comment never swallows the rest of a block.
func symbol(inst vm.Instruction) string {
	if c, ok := inst.(vm.Comment); ok && len([]rune(c.Text)) == 1 {
		return "<" + c.Text + ">"
	}
	return inst.String()
}
