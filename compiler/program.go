package compiler

import (
	"fmt"
	"strings"

	"github.com/chazu/penplot/vm"
)

// SymbolTable maps label names to instruction addresses.
type SymbolTable map[string]int

// Line is one parsed program line.
type Line struct {
	Instruction vm.Instruction
	Pos         Position

	// Label is the name defined by a trailing @label, if any.
	Label    string
	LabelPos Position

	// Target is the label used as the address operand, if any.
	Target    string
	TargetPos Position
}

// String renders the line in canonical form, keeping label names.
func (l Line) String() string {
	text := l.Instruction.String()
	if l.Target != "" {
		switch i := l.Instruction.(type) {
		case vm.Goto:
			text = fmt.Sprintf("%s %s", vm.MnemonicGoto, l.Target)
		case vm.Call:
			text = fmt.Sprintf("%s %s", vm.MnemonicCall, l.Target)
		case vm.Repeat:
			text = fmt.Sprintf("%s %s %d", vm.MnemonicRepeat, l.Target, i.Count)
		}
	}
	if l.Label != "" {
		text += " @" + l.Label
	}
	return text
}

// File is a parsed program that still knows its labels.
type File struct {
	Lines   []Line
	Symbols SymbolTable
}

// Program returns the executable instruction sequence.
func (f *File) Program() vm.Program {
	p := make(vm.Program, len(f.Lines))
	for i, l := range f.Lines {
		p[i] = l.Instruction
	}
	return p
}

// String renders the whole file in canonical form.
func (f *File) String() string {
	var b strings.Builder
	for _, l := range f.Lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseProgram parses program text. Each non-blank line holds exactly one
// instruction, optionally followed by @label. Blank lines take no address.
//
// Labels are collected in a first pass so that jumps may refer forward.
// Any error aborts the whole parse; the returned error is an ErrorList with
// every offending line.
func ParseProgram(source string) (*File, error) {
	lines := splitLines(Tokenize(source))
	symbols := make(SymbolTable)

	var errs ErrorList
	for addr, line := range lines {
		last := line[len(line)-1]
		if last.Type != TokenLabel {
			continue
		}
		if len(line) == 1 {
			errs.add(last, "label @%s has no instruction", last.Literal)
			continue
		}
		if prev, dup := symbols[last.Literal]; dup {
			errs.add(last, "duplicate label @%s (already at address %d)", last.Literal, prev)
			continue
		}
		symbols[last.Literal] = addr
	}

	f := &File{Lines: make([]Line, 0, len(lines)), Symbols: symbols}
	for _, line := range lines {
		if len(line) == 1 && line[0].Type == TokenLabel {
			continue
		}
		l, lineErrs := parseLine(line, symbols)
		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			continue
		}
		f.Lines = append(f.Lines, l)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// CompileProgram parses program text into instructions and its label table.
func CompileProgram(source string) (vm.Program, SymbolTable, error) {
	f, err := ParseProgram(source)
	if err != nil {
		return nil, nil, err
	}
	return f.Program(), f.Symbols, nil
}

// Format returns the canonical text of a program.
func Format(source string) (string, error) {
	f, err := ParseProgram(source)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

func parseLine(line []Token, symbols SymbolTable) (Line, ErrorList) {
	last := line[len(line)-1]
	eol := Token{Type: TokenNewline, Pos: last.End, End: last.End}
	p := newParser(line, eol, symbols)

	inst, ok := p.instruction()
	if !ok {
		return Line{}, p.errors
	}
	l := Line{Instruction: inst, Pos: line[0].Pos}
	if p.target.Type == TokenWord {
		l.Target = p.target.Literal
		l.TargetPos = p.target.Pos
	}

	if tok := p.cur(); tok.Type == TokenLabel && p.pos == len(line)-1 {
		l.Label = tok.Literal
		l.LabelPos = tok.Pos
		p.next()
	}
	if tok := p.cur(); tok.Type != TokenNewline {
		if tok.Type == TokenError {
			p.errorf(tok, "%s", tok.Literal)
		} else {
			p.errorf(tok, "unexpected %s after %s", tok, inst.Mnemonic())
		}
	}
	return l, p.errors
}

// splitLines groups tokens by source line, dropping blank lines and the
// newline tokens themselves.
func splitLines(toks []Token) [][]Token {
	var lines [][]Token
	var cur []Token
	for _, tok := range toks {
		switch tok.Type {
		case TokenNewline, TokenEOF:
			if len(cur) > 0 {
				lines = append(lines, cur)
			}
			cur = nil
		default:
			cur = append(cur, tok)
		}
	}
	return lines
}
