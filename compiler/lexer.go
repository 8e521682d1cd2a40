package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: Tokenizer for program and L-system text
// ---------------------------------------------------------------------------

// Lexer tokenizes penplot source. Newlines are significant and reported as
// TokenNewline; other whitespace separates tokens.
type Lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current character, 0 at EOF
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// Tokenize returns every token of input, ending with TokenEOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		if !l.atEOF() || l.col == 0 {
			l.col++
		}
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) token(typ TokenType, literal string, start Position) Token {
	return Token{Type: typ, Literal: literal, Pos: start, End: l.position()}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipSpace()

	pos := l.position()

	switch {
	case l.atEOF():
		return l.token(TokenEOF, "", pos)

	case l.ch == '\n':
		l.readChar()
		return l.token(TokenNewline, "\n", pos)

	case l.ch == '{':
		l.readChar()
		return l.token(TokenLBrace, "{", pos)

	case l.ch == '}':
		l.readChar()
		return l.token(TokenRBrace, "}", pos)

	case l.ch == ';':
		return l.readComment(pos)

	case l.ch == '@':
		return l.readLabel(pos)

	case l.ch == '<':
		return l.readPlaceholder(pos)

	case l.ch == '#':
		return l.readHex(pos)

	case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
		return l.readNumber(pos)

	case isIdentStart(l.ch):
		return l.token(TokenWord, l.readIdent(), pos)
	}

	ch := l.ch
	l.readChar()
	return l.token(TokenError, fmt.Sprintf("unexpected character %q", ch), pos)
}

func (l *Lexer) skipSpace() {
	for !l.atEOF() && l.ch != '\n' && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readComment reads a ';' comment. The body stops at '@' so that a
// commented line can still carry a label.
func (l *Lexer) readComment(pos Position) Token {
	l.readChar() // skip ';'
	start := l.pos
	for !l.atEOF() && l.ch != '\n' && l.ch != '@' {
		l.readChar()
	}
	return l.token(TokenComment, strings.TrimSpace(l.input[start:l.pos]), pos)
}

func (l *Lexer) readLabel(pos Position) Token {
	l.readChar() // skip '@'
	if !isIdentStart(l.ch) {
		return l.token(TokenError, "expected label name after '@'", pos)
	}
	return l.token(TokenLabel, l.readIdent(), pos)
}

// readPlaceholder reads a single-character comment such as <F>. The
// character cannot be '@' or whitespace, neither of which survives printing
// as a ';' comment.
func (l *Lexer) readPlaceholder(pos Position) Token {
	l.readChar() // skip '<'
	if l.atEOF() || l.ch == '\n' {
		return l.token(TokenError, "unterminated placeholder", pos)
	}
	ch := l.ch
	if ch == '@' || unicode.IsSpace(ch) {
		l.readChar()
		return l.token(TokenError, fmt.Sprintf("invalid placeholder character %q", ch), pos)
	}
	l.readChar()
	if l.ch != '>' {
		return l.token(TokenError, "placeholder must be a single character in <>", pos)
	}
	l.readChar() // skip '>'
	return l.token(TokenPlaceholder, string(ch), pos)
}

func (l *Lexer) readHex(pos Position) Token {
	start := l.pos
	l.readChar() // skip '#'
	for isHexDigit(l.ch) {
		l.readChar()
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.token(TokenHex, l.input[start:l.pos], pos)
}

func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	// Operands need whitespace between them: 1-2 is not 1 -2.
	if isIdentPart(l.ch) || l.ch == '-' {
		for isIdentPart(l.ch) || l.ch == '-' {
			l.readChar()
		}
		return l.token(TokenError, fmt.Sprintf("invalid number %q", l.input[start:l.pos]), pos)
	}
	return l.token(TokenInteger, l.input[start:l.pos], pos)
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// IsLabel reports whether s is a valid label name.
func IsLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}
