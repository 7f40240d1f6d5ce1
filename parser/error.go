package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"modernc.org/token"
)

// Error is a preprocessing, syntax or type error found in the input.
type Error struct {
	Pos token.Position // zero when the report carries no position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList collects the errors of one parse, in report order.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error, or nil when l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// positioned matches "file:line:col: message".
var positioned = regexp.MustCompile(`^(.+?):(\d+):(\d+): (.*)$`)

func newError(line string) *Error {
	m := positioned.FindStringSubmatch(line)
	if m == nil {
		return &Error{Msg: line}
	}
	ln, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	return &Error{Pos: token.Position{Filename: m[1], Line: ln, Column: col}, Msg: m[4]}
}
