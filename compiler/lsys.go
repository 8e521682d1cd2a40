package compiler

import (
	"strings"

	"github.com/chazu/penplot/lsystem"
	"github.com/chazu/penplot/vm"
)

// ---------------------------------------------------------------------------
// L-system spec parsing
// ---------------------------------------------------------------------------

// CompileLSystem parses an L-system spec:
//
//	seed { instr* }
//	aliases { (instr { instr* })* }   (optional)
//	instr { instr* }                  (one or more rules)
//
// Newlines are plain whitespace here, so several instructions may share a
// line. Address operands must be numeric. Parsing stops at the first error.
func CompileLSystem(source string) (*lsystem.LSystem, error) {
	var toks []Token
	for _, tok := range Tokenize(source) {
		if tok.Type != TokenNewline {
			toks = append(toks, tok)
		}
	}
	eof := toks[len(toks)-1]
	p := newParser(toks[:len(toks)-1], eof, nil)

	l, ok := p.lsystem()
	if !ok {
		return nil, p.errors.Err()
	}
	return l, nil
}

func (p *parser) lsystem() (*lsystem.LSystem, bool) {
	if !p.keyword("seed") {
		p.errorf(p.cur(), "expected 'seed', got %s", p.cur())
		return nil, false
	}
	seed, ok := p.block()
	if !ok {
		return nil, false
	}
	l := &lsystem.LSystem{Seed: seed}

	if p.keyword("aliases") {
		if !p.expect(TokenLBrace, "'{'") {
			return nil, false
		}
		l.Aliases = make(lsystem.Rules)
		for !p.curIs(TokenRBrace) {
			if p.curIs(TokenEOF) {
				p.errorf(p.cur(), "unterminated aliases block")
				return nil, false
			}
			if !p.rule(l.Aliases, "alias") {
				return nil, false
			}
		}
		p.next()
	}

	l.Rules = make(lsystem.Rules)
	for !p.curIs(TokenEOF) {
		if !p.rule(l.Rules, "rule") {
			return nil, false
		}
	}
	if len(l.Rules) == 0 {
		p.errorf(p.cur(), "expected at least one rule")
		return nil, false
	}
	return l, true
}

// keyword consumes a case-insensitive keyword if it is next.
func (p *parser) keyword(name string) bool {
	tok := p.cur()
	if tok.Type == TokenWord && strings.EqualFold(tok.Literal, name) {
		p.next()
		return true
	}
	return false
}

func (p *parser) rule(rules lsystem.Rules, kind string) bool {
	tok := p.cur()
	key, ok := p.instruction()
	if !ok {
		return false
	}
	if _, dup := rules[key]; dup {
		p.errorf(tok, "duplicate %s for %s", kind, key)
		return false
	}
	body, ok := p.block()
	if !ok {
		return false
	}
	rules[key] = body
	return true
}

func (p *parser) block() ([]vm.Instruction, bool) {
	if !p.expect(TokenLBrace, "'{'") {
		return nil, false
	}
	seq := []vm.Instruction{}
	for !p.curIs(TokenRBrace) {
		if p.curIs(TokenEOF) {
			p.errorf(p.cur(), "unterminated block")
			return nil, false
		}
		if p.curIs(TokenLabel) {
			p.errorf(p.cur(), "labels are not allowed in L-system specs")
			return nil, false
		}
		inst, ok := p.instruction()
		if !ok {
			return nil, false
		}
		seq = append(seq, inst)
	}
	p.next()
	return seq, true
}
