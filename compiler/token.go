package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the penplot lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Words and literals
	TokenWord        // MOVE, seed, loop_start
	TokenInteger     // 42, -7
	TokenHex         // #ff0000, #ff000080
	TokenComment     // ; text up to '@' or end of line
	TokenPlaceholder // <F>
	TokenLabel       // @name

	// Delimiters
	TokenLBrace // {
	TokenRBrace // }
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenError:       "ERROR",
	TokenNewline:     "NEWLINE",
	TokenWord:        "WORD",
	TokenInteger:     "INTEGER",
	TokenHex:         "HEX",
	TokenComment:     "COMMENT",
	TokenPlaceholder: "PLACEHOLDER",
	TokenLabel:       "LABEL",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token.
type Token struct {
	Type TokenType
	// Literal is the token text. For comments it is the trimmed comment
	// body, for placeholders the enclosed character, and for labels the
	// name without '@'.
	Literal string
	Pos     Position
	End     Position // position just past the token
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "end of line"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	case TokenLabel:
		return "@" + t.Literal
	case TokenPlaceholder:
		return "<" + t.Literal + ">"
	case TokenLBrace, TokenRBrace:
		return "'" + t.Literal + "'"
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
