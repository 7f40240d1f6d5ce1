package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/cc/v4"

	"github.com/rubiojr/cdelta/ast"
)

// args returns the arguments of the only call to g.
func args(t *testing.T, f *ast.File) []cc.ExpressionNode {
	t.Helper()
	calls := find(f, func(p *cc.PostfixExpression) bool { return p.Case == cc.PostfixExpressionCall })
	require.Len(t, calls, 1)
	var out []cc.ExpressionNode
	for l := calls[0].ArgumentExpressionList; l != nil; l = l.ArgumentExpressionList {
		out = append(out, l.AssignmentExpression)
	}
	return out
}

func TestIntegerLiterals(t *testing.T) {
	f := mustParse(t, `enum { E = 7 };
int g();
int f(int i) { return g(1, 'c', (2), (long)3, i, 1 + 2, 1.0, 0x1fUL, E, ((char)2)); }
`)
	tests := []struct {
		literal bool
		value   int64
		known   bool
	}{
		{true, 1, true},
		{true, 'c', true},
		{true, 2, true},
		{true, 3, true},
		{false, 0, false},
		{false, 3, true},
		{false, 0, false},
		{true, 31, true},
		{false, 7, true},
		{true, 2, true},
	}
	list := args(t, f)
	require.Len(t, list, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.literal, ast.IsIntegerLiteral(list[i]), "argument %d", i)
		v, ok := ast.IntValue(list[i])
		assert.Equal(t, tt.known, ok, "argument %d", i)
		if tt.known {
			assert.Equal(t, tt.value, v, "argument %d", i)
		}
	}
	_, ok := ast.IntValue(nil)
	assert.False(t, ok)
}

func TestUnparen(t *testing.T) {
	f := mustParse(t, "int g();\nint f(int i) { return g(((i)), (i, 2), (long)(i)); }\n")
	list := args(t, f)
	require.Len(t, list, 3)

	inner, ok := ast.Unparen(list[0]).(*cc.PrimaryExpression)
	require.True(t, ok)
	assert.Equal(t, cc.PrimaryExpressionIdent, inner.Case)

	assert.Same(t, list[1], ast.Unparen(list[1]), "comma expressions keep their parentheses")

	_, ok = ast.Unparen(list[2]).(*cc.CastExpression)
	assert.True(t, ok)
	inner, ok = ast.UnparenCasts(list[2]).(*cc.PrimaryExpression)
	require.True(t, ok)
	assert.Equal(t, cc.PrimaryExpressionIdent, inner.Case)
}
