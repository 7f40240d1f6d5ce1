// Package scanner provides comment- and literal-aware scanning of C source
// text. Transformations use it where they need to look at raw declaration
// syntax that the syntax tree does not record, such as the exact bracket
// positions of an array declarator.
package scanner

// state is the lexical context of the byte last returned by Next.
type state byte

const (
	inCode state = iota
	inString
	inChar
	inLineComment
	inBlockComment
)

// CodeScanner iterates byte-by-byte over C source, tracking string and
// character literals, escape sequences and comments. Callers check
// InCode() instead of keeping their own flags.
//
// InCode() is false for the whole span of a literal or comment,
// delimiters included.
type CodeScanner struct {
	src        []byte
	pos        int
	st         state
	escaped    bool
	closing    bool // the byte just returned ended a literal or comment
	blockStart int
}

// New creates a CodeScanner for src. Call Next() to advance to the first
// byte.
func New(src []byte) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// NewAt creates a CodeScanner positioned just before offset off. The
// caller guarantees off is in code, not inside a literal or comment.
func NewAt(src []byte, off int) *CodeScanner {
	s := New(src)
	s.pos = off - 1
	return s
}

// Next advances to the next byte, updating literal and comment state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = false
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	switch s.st {
	case inLineComment:
		if ch == '\n' && !s.escapedNewline() {
			s.st = inCode
		}
		return ch, true
	case inBlockComment:
		if ch == '/' && s.src[s.pos-1] == '*' && s.pos-2 > s.blockStart {
			s.st = inCode
			s.closing = true
		}
		return ch, true
	case inString, inChar:
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '"' && s.st == inString, ch == '\'' && s.st == inChar:
			s.st = inCode
			s.closing = true
		case ch == '\n':
			// unterminated literal; resynchronize at the line end
			s.st = inCode
		}
		return ch, true
	}

	switch ch {
	case '"':
		s.st = inString
	case '\'':
		s.st = inChar
	case '/':
		switch n, _ := s.Peek(); n {
		case '/':
			s.st = inLineComment
		case '*':
			s.st = inBlockComment
			s.blockStart = s.pos
		}
	}
	return ch, true
}

func (s *CodeScanner) escapedNewline() bool {
	return s.pos > 0 && s.src[s.pos-1] == '\\'
}

// InString reports whether the current byte belongs to a string or
// character literal.
func (s *CodeScanner) InString() bool {
	return s.st == inString || s.st == inChar || s.closing && s.src[s.pos] != '/'
}

// InComment reports whether the current byte belongs to a comment.
func (s *CodeScanner) InComment() bool {
	return s.st == inLineComment || s.st == inBlockComment || s.closing && s.src[s.pos] == '/'
}

// InCode reports whether the current byte is outside all literals and
// comments.
func (s *CodeScanner) InCode() bool { return s.st == inCode && !s.closing }

// Pos returns the offset of the last byte returned by Next, or -1 before
// the first call.
func (s *CodeScanner) Pos() int { return s.pos }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// IsOpenBracket reports whether ch is an opening bracket, paren or brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket, paren or brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v' || ch == '\\'
}

// BracketSpan is one [ ... ] pair of a declarator: the offsets of the
// opening and the closing bracket.
type BracketSpan struct {
	Open  int
	Close int
}

// Inner returns the half-open range strictly between the brackets.
func (b BracketSpan) Inner() (start, end int) { return b.Open + 1, b.Close }

// Outer returns the half-open range of the brackets and their contents.
func (b BracketSpan) Outer() (start, end int) { return b.Open, b.Close + 1 }

// BracketPairs returns up to n consecutive bracket pairs of the declarator
// suffix that starts at offset from, usually just past a declared name.
// Whitespace, comments and closing parentheses of a parenthesized name
// may separate the pairs; anything else ends the suffix. Brackets nested
// inside a size expression belong to the enclosing pair.
func BracketPairs(src []byte, from, n int) []BracketSpan {
	var spans []BracketSpan
	sc := NewAt(src, from)
	depth, open := 0, -1
	for ch, ok := sc.Next(); ok && len(spans) < n; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		if depth == 0 {
			switch {
			case ch == '[':
				depth, open = 1, sc.Pos()
			case ch == ')' && len(spans) == 0:
			case isSpace(ch):
			default:
				return spans
			}
			continue
		}
		switch {
		case IsOpenBracket(ch):
			depth++
		case IsCloseBracket(ch):
			depth--
			if depth == 0 {
				spans = append(spans, BracketSpan{Open: open, Close: sc.Pos()})
			}
		}
	}
	return spans
}
