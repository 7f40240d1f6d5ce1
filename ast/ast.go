// Package ast adapts the syntax tree of modernc.org/cc/v4 to source
// editing. It maps tokens and nodes back to byte ranges of the input and
// exposes the few type and value queries transformations need.
package ast

import (
	"bytes"

	"modernc.org/cc/v4"
	"modernc.org/token"

	"github.com/rubiojr/cdelta/scanner"
)

// Names of the sources the parser puts in front of the input. Their
// tokens have no offset in the input.
const (
	PredefinedSource = "<predefined>"
	BuiltinSource    = "<builtin>"
)

// File is a type checked translation unit and the text it was read from.
type File struct {
	Name string
	Src  []byte
	AST  *cc.AST
}

// Offset returns the byte offset of t in the input. ok is false for
// tokens of the predefined and builtin sources.
func (f *File) Offset(t cc.Token) (off int, ok bool) {
	pos := t.Position()
	switch pos.Filename {
	case "", PredefinedSource, BuiltinSource:
		return 0, false
	}
	if pos.Offset < 0 || pos.Offset >= len(f.Src) {
		return 0, false
	}
	return pos.Offset, true
}

// Position returns the file:line:column of t. Line markers in the input
// are honored.
func (f *File) Position(t cc.Token) token.Position { return t.Position() }

// Spelled reports whether t is written at its offset in the input.
// Tokens coming out of a macro expansion are placed at the macro name
// and are not spelled there.
func (f *File) Spelled(t cc.Token) bool {
	off, ok := f.Offset(t)
	if !ok {
		return false
	}
	src := t.Src()
	if len(src) == 0 || !bytes.HasPrefix(f.Src[off:], src) {
		return false
	}
	end := off + len(src)
	return !isIdent(src[len(src)-1]) || end == len(f.Src) || !isIdent(f.Src[end])
}

// Span returns the half-open byte range of the input n was parsed from.
// A token produced by a macro extends the range over the whole macro
// invocation. ok is false when a token of n is not from the input.
func (f *File) Span(n cc.Node) (start, end int, ok bool) {
	toks := cc.NodeTokens(n)
	if len(toks) == 0 {
		return 0, 0, false
	}
	start = len(f.Src)
	for _, t := range toks {
		off, ok := f.Offset(t)
		if !ok {
			return 0, 0, false
		}
		start = min(start, off)
		end = max(end, f.tokenEnd(off, t))
	}
	return start, end, true
}

// Text returns the input text of n, or "" when n has no span.
func (f *File) Text(n cc.Node) string {
	start, end, ok := f.Span(n)
	if !ok {
		return ""
	}
	return string(f.Src[start:end])
}

// tokenEnd returns the offset just past t, which starts at off.
func (f *File) tokenEnd(off int, t cc.Token) int {
	if f.Spelled(t) {
		return off + len(t.Src())
	}
	end := off
	for end < len(f.Src) && isIdent(f.Src[end]) {
		end++
	}
	if f.AST != nil {
		if m := f.AST.Macros[string(f.Src[off:end])]; m != nil && !m.IsFnLike {
			return end
		}
	}

	// M(args): the arguments may hold strings, comments and parens.
	sc := scanner.NewAt(f.Src, end)
	depth := 0
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		switch {
		case depth == 0 && ch == '(':
			depth = 1
		case depth == 0 && (ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'):
		case depth == 0:
			return end
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return sc.Pos() + 1
			}
		}
	}
	return end
}

func isIdent(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}
