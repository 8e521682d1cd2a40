package compiler

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/chazu/penplot/lsystem"
	"github.com/chazu/penplot/vm"
)

// lsystemDoc is the YAML encoding of an L-system. Every value is written in
// program syntax; keys of aliases and rules hold exactly one instruction.
//
//	seed: "<F> TURN 120 <F> TURN 120 <F>"
//	aliases:
//	  "<F>": "WALK 3"
//	rules:
//	  "<F>": "<F> TURN -60 <F> TURN 120 <F> TURN -60 <F>"
type lsystemDoc struct {
	Seed    string            `yaml:"seed"`
	Aliases map[string]string `yaml:"aliases"`
	Rules   map[string]string `yaml:"rules"`
}

// DecodeLSystemYAML reads an L-system from its YAML encoding.
func DecodeLSystemYAML(r io.Reader) (*lsystem.LSystem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc lsystemDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty L-system document")
		}
		return nil, err
	}

	seed, err := parseSequence(doc.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	l := &lsystem.LSystem{Seed: seed}

	if doc.Aliases != nil {
		if l.Aliases, err = decodeRules(doc.Aliases, "alias"); err != nil {
			return nil, err
		}
	}
	if len(doc.Rules) == 0 {
		return nil, errors.New("expected at least one rule")
	}
	if l.Rules, err = decodeRules(doc.Rules, "rule"); err != nil {
		return nil, err
	}
	return l, nil
}

func decodeRules(src map[string]string, kind string) (lsystem.Rules, error) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make(lsystem.Rules, len(src))
	for _, k := range keys {
		seq, err := parseSequence(k)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, k, err)
		}
		if len(seq) != 1 {
			return nil, fmt.Errorf("%s %q: key must be exactly one instruction", kind, k)
		}
		if _, dup := rules[seq[0]]; dup {
			return nil, fmt.Errorf("duplicate %s for %s", kind, seq[0])
		}
		body, err := parseSequence(src[k])
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, k, err)
		}
		rules[seq[0]] = body
	}
	return rules, nil
}

// parseSequence parses whitespace-separated instructions with no labels.
func parseSequence(source string) ([]vm.Instruction, error) {
	var toks []Token
	for _, tok := range Tokenize(source) {
		if tok.Type != TokenNewline {
			toks = append(toks, tok)
		}
	}
	eof := toks[len(toks)-1]
	p := newParser(toks[:len(toks)-1], eof, nil)

	seq := []vm.Instruction{}
	for !p.curIs(TokenEOF) {
		if p.curIs(TokenLabel) {
			p.errorf(p.cur(), "labels are not allowed in L-system specs")
			break
		}
		inst, ok := p.instruction()
		if !ok {
			break
		}
		seq = append(seq, inst)
	}
	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return seq, nil
}
