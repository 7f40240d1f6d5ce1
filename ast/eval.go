package ast

import (
	"modernc.org/cc/v4"
)

// IntValue returns the value of e when the type checker could evaluate
// it to an integer.
func IntValue(e cc.ExpressionNode) (int64, bool) {
	if e == nil {
		return 0, false
	}
	switch v := e.Value().(type) {
	case cc.Int64Value:
		return int64(v), true
	case cc.UInt64Value:
		return int64(v), true
	}
	return 0, false
}

// Unparen strips the parentheses around e. A parenthesized comma
// expression is returned as is.
func Unparen(e cc.ExpressionNode) cc.ExpressionNode {
	for {
		p, ok := e.(*cc.PrimaryExpression)
		if !ok || p.Case != cc.PrimaryExpressionExpr {
			return e
		}
		if _, list := p.ExpressionList.(*cc.ExpressionList); list || p.ExpressionList == nil {
			return e
		}
		e = p.ExpressionList
	}
}

// UnparenCasts strips parentheses and casts around e.
func UnparenCasts(e cc.ExpressionNode) cc.ExpressionNode {
	for {
		e = Unparen(e)
		c, ok := e.(*cc.CastExpression)
		if !ok || c.Case != cc.CastExpressionCast {
			return e
		}
		e = c.CastExpression
	}
}

// IsIntegerLiteral reports whether e is an integer or character constant
// as written, possibly parenthesized or cast.
func IsIntegerLiteral(e cc.ExpressionNode) bool {
	p, ok := UnparenCasts(e).(*cc.PrimaryExpression)
	if !ok {
		return false
	}
	switch p.Case {
	case cc.PrimaryExpressionInt, cc.PrimaryExpressionChar, cc.PrimaryExpressionLChar:
		return true
	}
	return false
}
