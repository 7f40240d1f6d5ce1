package ast

import (
	"fmt"

	"modernc.org/cc/v4"
)

// ExtentKind tells how an array dimension is sized.
type ExtentKind int

const (
	Fixed      ExtentKind = iota // a[N], N an integer constant expression
	Incomplete                   // a[]
	Variable                     // a[n], n only known at run time
)

func (k ExtentKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Incomplete:
		return "incomplete"
	case Variable:
		return "variable"
	}
	return fmt.Sprintf("ExtentKind(%d)", int(k))
}

// Extent describes one array dimension.
type Extent struct {
	Kind ExtentKind
	N    int64 // valid when Kind == Fixed
}

func extentOf(a *cc.ArrayType) Extent {
	switch {
	case a.Len() >= 0:
		return Extent{Kind: Fixed, N: a.Len()}
	case a.IsVLA() || a.SizeExpression() != nil:
		return Extent{Kind: Variable}
	}
	return Extent{Kind: Incomplete}
}

// Dims returns the dimensions of t written in its own declarator,
// outermost first. Dimensions coming from a typedef are not included:
// for typedef int row[3], row m[2] has one dimension.
func Dims(t cc.Type) []Extent {
	var dims []Extent
	for {
		a, ok := t.(*cc.ArrayType)
		if !ok || a.Typedef() != nil {
			return dims
		}
		dims = append(dims, extentOf(a))
		t = a.Elem()
	}
}

// ElemOfDims returns the type left after stripping Dims(t).
func ElemOfDims(t cc.Type) cc.Type {
	for {
		a, ok := t.(*cc.ArrayType)
		if !ok || a.Typedef() != nil {
			return t
		}
		t = a.Elem()
	}
}

// IsArray reports whether t is an array type, typedef or not.
func IsArray(t cc.Type) bool {
	return t != nil && t.Kind() == cc.Array
}
