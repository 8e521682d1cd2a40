package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/penplot/compiler"
	"github.com/chazu/penplot/render"
	"github.com/chazu/penplot/vm"
)

// diagnosticStepLimit bounds the dry run used to find runtime errors.
const diagnosticStepLimit = 100000

// docKind tells program text from L-system specs.
type docKind int

const (
	kindProgram docKind = iota
	kindLSystem
)

func kindOf(uri string) docKind {
	if strings.HasSuffix(strings.ToLower(uri), ".lsys") {
		return kindLSystem
	}
	return kindProgram
}

// mnemonicDoc describes one mnemonic for hover and completion.
type mnemonicDoc struct {
	Syntax  string
	Summary string
}

var mnemonicDocs = map[string]mnemonicDoc{
	vm.MnemonicNoop:        {"NOOP", "Does nothing."},
	vm.MnemonicMove:        {"MOVE x y", "Moves the pen to an absolute position, drawing with the current color."},
	vm.MnemonicMoveRel:     {"SHFT dx dy", "Moves the pen by an offset."},
	vm.MnemonicMoveForward: {"WALK n", "Moves the pen n units along its heading."},
	vm.MnemonicFace:        {"FACE deg", "Sets the heading in degrees. 0 points along +x, 90 along +y."},
	vm.MnemonicTurn:        {"TURN deg", "Turns the heading by deg degrees."},
	vm.MnemonicRGBA:        {"RGBA r g b a | RGBA #RRGGBBAA", "Sets the pen color. Channels are 0-255."},
	vm.MnemonicRGB:         {"RGB r g b | RGB #RRGGBB", "Sets an opaque pen color."},
	vm.MnemonicBlank:       {"BLNK", "Sets a fully transparent pen, so moves draw nothing."},
	vm.MnemonicBlot:        {"BLOT", "Marks the pixel under the pen."},
	vm.MnemonicGoto:        {"GOTO addr", "Continues at an absolute address or label."},
	vm.MnemonicJump:        {"JUMP n", "Skips n instructions. JUMP 0 does nothing, JUMP -1 repeats itself."},
	vm.MnemonicCall:        {"CALL addr", "Calls the subroutine at addr. It returns with RTRN."},
	vm.MnemonicReturn:      {"RTRN", "Returns from a subroutine. Fails when nothing was called."},
	vm.MnemonicRepeat:      {"LOOP addr count", "Calls the subroutine at addr count times, then continues."},
	vm.MnemonicHalt:        {"HALT", "Stops the program."},
}

var lsystemKeywords = []string{"seed", "aliases"}

func toPosition(p compiler.Position) protocol.Position {
	line, col := p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func toRange(start, end compiler.Position) protocol.Range {
	r := protocol.Range{Start: toPosition(start), End: toPosition(end)}
	if end.Offset <= start.Offset {
		r.End = r.Start
		r.End.Character++
	}
	return r
}

// diagnose compiles text and reports parse errors. Programs that compile
// are dry-run on a sizing canvas so control-flow errors show up as warnings.
func diagnose(kind docKind, text string) []protocol.Diagnostic {
	source := lspName
	var diags []protocol.Diagnostic

	add := func(r protocol.Range, sev protocol.DiagnosticSeverity, msg string) {
		severity := sev
		diags = append(diags, protocol.Diagnostic{
			Range:    r,
			Severity: &severity,
			Source:   &source,
			Message:  msg,
		})
	}
	addParseErrors := func(err error) {
		var list compiler.ErrorList
		if errors.As(err, &list) {
			for _, e := range list {
				add(toRange(e.Pos, e.End), protocol.DiagnosticSeverityError, e.Msg)
			}
			return
		}
		add(protocol.Range{}, protocol.DiagnosticSeverityError, err.Error())
	}

	if kind == kindLSystem {
		if _, err := compiler.CompileLSystem(text); err != nil {
			addParseErrors(err)
		}
		return diags
	}

	f, err := compiler.ParseProgram(text)
	if err != nil {
		addParseErrors(err)
		return diags
	}

	_, err = render.Measure(f.Program(), render.Options{MaxSteps: diagnosticStepLimit})
	var rerr *vm.RuntimeError
	if errors.As(err, &rerr) && !errors.Is(err, vm.ErrStepLimit) && !errors.Is(err, vm.ErrCallStackLimit) && rerr.PC < len(f.Lines) {
		pos := f.Lines[rerr.PC].Pos
		end := pos
		end.Column += len(rerr.Instruction.Mnemonic())
		end.Offset += len(rerr.Instruction.Mnemonic())
		add(toRange(pos, end), protocol.DiagnosticSeverityWarning, rerr.Err.Error())
	}
	return diags
}

// labelIndex finds label definitions and the words that use them.
func labelIndex(text string) (defs map[string]compiler.Token, refs map[string][]compiler.Token) {
	defs = make(map[string]compiler.Token)
	refs = make(map[string][]compiler.Token)

	first := true
	for _, tok := range compiler.Tokenize(text) {
		switch tok.Type {
		case compiler.TokenNewline:
			first = true
			continue
		case compiler.TokenLabel:
			if _, ok := defs[tok.Literal]; !ok {
				defs[tok.Literal] = tok
			}
		case compiler.TokenWord:
			if !first {
				refs[tok.Literal] = append(refs[tok.Literal], tok)
			}
		}
		first = false
	}
	return defs, refs
}

func complete(kind docKind, text, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	upper := strings.ToUpper(prefix)

	names := make([]string, 0, len(mnemonicDocs))
	for name := range mnemonicDocs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasPrefix(name, upper) {
			continue
		}
		doc := mnemonicDocs[name]
		kindKeyword := protocol.CompletionItemKindKeyword
		detail := doc.Syntax
		insert := name
		items = append(items, protocol.CompletionItem{
			Label:         name,
			Kind:          &kindKeyword,
			Detail:        &detail,
			Documentation: doc.Summary,
			InsertText:    &insert,
		})
	}

	if kind == kindLSystem {
		for _, kw := range lsystemKeywords {
			if strings.HasPrefix(kw, strings.ToLower(prefix)) {
				kindKeyword := protocol.CompletionItemKindKeyword
				insert := kw
				items = append(items, protocol.CompletionItem{
					Label:      kw,
					Kind:       &kindKeyword,
					InsertText: &insert,
				})
			}
		}
		return items
	}

	defs, _ := labelIndex(text)
	labels := make([]string, 0, len(defs))
	for name := range defs {
		if strings.HasPrefix(name, prefix) {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)
	for _, name := range labels {
		kindRef := protocol.CompletionItemKindReference
		detail := fmt.Sprintf("label (line %d)", defs[name].Pos.Line)
		insert := name
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       &kindRef,
			Detail:     &detail,
			InsertText: &insert,
		})
	}
	return items
}

func hover(text, word string) *protocol.Hover {
	var b strings.Builder

	if doc, ok := mnemonicDocs[strings.ToUpper(word)]; ok {
		fmt.Fprintf(&b, "**%s**\n\n", strings.ToUpper(word))
		fmt.Fprintf(&b, "`%s`\n\n%s", doc.Syntax, doc.Summary)
	} else if f, err := compiler.ParseProgram(text); err == nil {
		addr, ok := f.Symbols[word]
		if !ok {
			return nil
		}
		fmt.Fprintf(&b, "**@%s**\n\nAddress %d: `%s`", word, addr, f.Lines[addr].Instruction)
	} else {
		defs, _ := labelIndex(text)
		def, ok := defs[word]
		if !ok {
			return nil
		}
		fmt.Fprintf(&b, "**@%s**\n\nDefined on line %d", word, def.Pos.Line)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

func definition(uri protocol.DocumentUri, text, word string) []protocol.Location {
	defs, _ := labelIndex(text)
	def, ok := defs[word]
	if !ok {
		return nil
	}
	return []protocol.Location{{URI: uri, Range: toRange(def.Pos, def.End)}}
}

func references(uri protocol.DocumentUri, text, word string, includeDecl bool) []protocol.Location {
	defs, refs := labelIndex(text)
	def, ok := defs[word]
	if !ok {
		return nil
	}

	var locations []protocol.Location
	if includeDecl {
		locations = append(locations, protocol.Location{URI: uri, Range: toRange(def.Pos, def.End)})
	}
	for _, tok := range refs[word] {
		locations = append(locations, protocol.Location{URI: uri, Range: toRange(tok.Pos, tok.End)})
	}
	return locations
}
