package compiler

import (
	"strconv"
	"strings"

	"github.com/chazu/penplot/canvas"
	"github.com/chazu/penplot/vm"
)

// ---------------------------------------------------------------------------
// Parser: shared instruction grammar
// ---------------------------------------------------------------------------

// parser reads instructions from a token slice. It never reads past the
// slice; the token after the last one is a synthetic end marker.
type parser struct {
	toks []Token
	pos  int
	end  Token

	// labels resolves address operands given by name. When nil, names are
	// rejected (L-system specs have no addresses to name).
	labels SymbolTable
	// target is the label used by the last address operand, if any.
	target Token

	errors ErrorList
}

func newParser(toks []Token, end Token, labels SymbolTable) *parser {
	return &parser{toks: toks, end: end, labels: labels}
}

func (p *parser) cur() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.end
}

func (p *parser) next() {
	if p.pos < len(p.toks) {
		p.pos++
	}
}

func (p *parser) curIs(t TokenType) bool {
	return p.cur().Type == t
}

func (p *parser) errorf(tok Token, format string, args ...interface{}) {
	p.errors.add(tok, format, args...)
}

// expect advances if the current token matches, otherwise records an error.
func (p *parser) expect(t TokenType, what string) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf(p.cur(), "expected %s, got %s", what, p.cur())
	return false
}

// instruction parses one instruction and its operands.
func (p *parser) instruction() (vm.Instruction, bool) {
	p.target = Token{}
	tok := p.cur()

	switch tok.Type {
	case TokenComment, TokenPlaceholder:
		p.next()
		return vm.Comment{Text: tok.Literal}, true
	case TokenWord:
		p.next()
	case TokenError:
		p.errorf(tok, "%s", tok.Literal)
		return nil, false
	default:
		p.errorf(tok, "expected instruction, got %s", tok)
		return nil, false
	}

	mnemonic := strings.ToUpper(tok.Literal)
	switch mnemonic {
	case vm.MnemonicNoop:
		return vm.Noop{}, true
	case vm.MnemonicReturn:
		return vm.Return{}, true
	case vm.MnemonicBlot:
		return vm.Blot{}, true
	case vm.MnemonicHalt:
		return vm.Halt{}, true
	case vm.MnemonicBlank:
		return vm.SetColor{Color: canvas.Transparent}, true

	case vm.MnemonicMove:
		x, y, ok := p.pair(mnemonic)
		return vm.Move{X: x, Y: y}, ok
	case vm.MnemonicMoveRel:
		dx, dy, ok := p.pair(mnemonic)
		return vm.MoveRel{DX: dx, DY: dy}, ok
	case vm.MnemonicMoveForward:
		n, ok := p.integer(mnemonic)
		return vm.MoveForward{Distance: n}, ok
	case vm.MnemonicFace:
		deg, ok := p.integer(mnemonic)
		return vm.Face{Degrees: deg}, ok
	case vm.MnemonicTurn:
		deg, ok := p.integer(mnemonic)
		return vm.Turn{Degrees: deg}, ok
	case vm.MnemonicJump:
		off, ok := p.integer(mnemonic)
		return vm.Jump{Offset: off}, ok

	case vm.MnemonicGoto:
		addr, ok := p.address(mnemonic)
		return vm.Goto{Addr: addr}, ok
	case vm.MnemonicCall:
		addr, ok := p.address(mnemonic)
		return vm.Call{Addr: addr}, ok
	case vm.MnemonicRepeat:
		addr, ok := p.address(mnemonic)
		if !ok {
			return nil, false
		}
		count, ok := p.integer(mnemonic)
		if ok && count < 0 {
			p.errorf(p.toks[p.pos-1], "%s: count must not be negative", mnemonic)
			return nil, false
		}
		return vm.Repeat{Addr: addr, Count: count}, ok

	case vm.MnemonicRGBA:
		c, ok := p.color(mnemonic, true)
		return vm.SetColor{Color: c}, ok
	case vm.MnemonicRGB:
		c, ok := p.color(mnemonic, false)
		return vm.SetColor{Color: c}, ok
	}

	p.errorf(tok, "unknown instruction %q", tok.Literal)
	return nil, false
}

// integer parses a signed 32-bit decimal operand.
func (p *parser) integer(mnemonic string) (int, bool) {
	tok := p.cur()
	if tok.Type != TokenInteger {
		p.errorf(tok, "%s: expected integer, got %s", mnemonic, tok)
		return 0, false
	}
	p.next()
	v, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		p.errorf(tok, "%s: integer %s out of range", mnemonic, tok.Literal)
		return 0, false
	}
	return int(v), true
}

func (p *parser) pair(mnemonic string) (int, int, bool) {
	a, ok := p.integer(mnemonic)
	if !ok {
		return 0, 0, false
	}
	b, ok := p.integer(mnemonic)
	return a, b, ok
}

// address parses an absolute address given as a number or a label.
func (p *parser) address(mnemonic string) (int, bool) {
	tok := p.cur()
	if tok.Type == TokenWord {
		p.next()
		if p.labels == nil {
			p.errorf(tok, "%s: labels are not allowed here", mnemonic)
			return 0, false
		}
		addr, ok := p.labels[tok.Literal]
		if !ok {
			p.errorf(tok, "%s: undefined label %q", mnemonic, tok.Literal)
			return 0, false
		}
		p.target = tok
		return addr, true
	}

	addr, ok := p.integer(mnemonic)
	if ok && addr < 0 {
		p.errorf(tok, "%s: address must not be negative", mnemonic)
		return 0, false
	}
	return addr, ok
}

// color parses either decimal channels or a single hex operand.
func (p *parser) color(mnemonic string, alpha bool) (canvas.Color, bool) {
	if tok := p.cur(); tok.Type == TokenHex {
		p.next()
		digits := len(tok.Literal) - 1
		if !alpha && digits != 6 {
			p.errorf(tok, "%s: expected #RRGGBB, got %s", mnemonic, tok.Literal)
			return canvas.Color{}, false
		}
		c, err := canvas.ParseHex(tok.Literal)
		if err != nil {
			p.errorf(tok, "%s: %v", mnemonic, err)
			return canvas.Color{}, false
		}
		return c, true
	}

	n := 3
	if alpha {
		n = 4
	}
	ch := [4]int{3: 255}
	for i := 0; i < n; i++ {
		tok := p.cur()
		v, ok := p.integer(mnemonic)
		if !ok {
			return canvas.Color{}, false
		}
		if v < 0 || v > 255 {
			p.errorf(tok, "%s: color channel %d out of range 0-255", mnemonic, v)
			return canvas.Color{}, false
		}
		ch[i] = v
	}
	c, err := canvas.FromInts(ch[0], ch[1], ch[2], ch[3])
	if err != nil {
		p.errorf(p.cur(), "%s: %v", mnemonic, err)
		return canvas.Color{}, false
	}
	return c, true
}
