package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError reports a malformed line, an unresolved label, or an
// out-of-range literal.
type ParseError struct {
	Pos Position
	End Position // end of the offending token, for editors
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// ErrorList collects every parse error of a compilation. A non-empty list
// means no program was produced.
type ErrorList []*ParseError

func (l *ErrorList) add(tok Token, format string, args ...interface{}) {
	*l = append(*l, &ParseError{Pos: tok.Pos, End: tok.End, Msg: fmt.Sprintf(format, args...)})
}

// Sort orders the list by position.
func (l ErrorList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Pos.Offset < l[j].Pos.Offset
	})
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	l.Sort()
	return l
}
