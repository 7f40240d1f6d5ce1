package arraydim

import (
	"context"
	"log/slog"
	"slices"

	"modernc.org/cc/v4"

	"github.com/rubiojr/cdelta/ast"
	"github.com/rubiojr/cdelta/scanner"
	"github.com/rubiojr/cdelta/transform"
)

// entity identifies one array however many times it is declared. Names
// with linkage denote the same entity in every scope; anything else is
// its own declarator.
type entity struct {
	name string
	decl *cc.Declarator
}

func entityOf(d *cc.Declarator) entity {
	if d.Linkage() != cc.None {
		return entity{name: d.Name()}
	}
	return entity{decl: d}
}

// candidate is an eligible array entity, its declarations and its full
// subscripts.
type candidate struct {
	name  string
	decls []*cc.Declarator // source order
	dims  []ast.Extent     // of the first eligible declaration
	uses  []use            // preorder
}

// use is a full subscript of an entity, with its levels in application
// order: for a[i][j], [a[i] a[i][j]].
type use struct {
	chain []subscript
}

// subscript is one level of a subscript chain. In 1[a] the operands are
// swapped: array is a and index is 1.
type subscript struct {
	ix      *cc.PostfixExpression
	array   cc.ExpressionNode
	index   cc.ExpressionNode
	swapped bool
}

// selection is the result of the collection pass.
type selection struct {
	count  int
	target *candidate // nil when count < counter
}

// collect numbers every eligible array entity in source order and
// selects the counter-th one.
func collect(f *ast.File, counter int, logger *slog.Logger) selection {
	var decls []*cc.Declarator
	uses := make(map[entity][]use)
	ast.Inspect(f.AST.TranslationUnit, func(n cc.Node) bool {
		switch x := n.(type) {
		case *cc.InitDeclarator:
			if d := x.Declarator; d != nil && !d.IsTypename() && !d.IsParam() && !d.IsSynthetic() {
				if _, ok := f.Offset(d.NameTok()); ok {
					decls = append(decls, d)
				}
			}
		case *cc.PostfixExpression:
			if x.Case != cc.PostfixExpressionIndex || !fullAccess(x.Type()) {
				return true
			}
			base, chain := unwind(x)
			if d := declOf(base); d != nil {
				k := entityOf(d)
				uses[k] = append(uses[k], use{chain: chain})
			}
		}
		return true
	})
	slices.SortStableFunc(decls, func(a, b *cc.Declarator) int {
		at, bt := a.NameTok(), b.NameTok()
		return at.Seq() - bt.Seq()
	})

	byEntity := make(map[entity]*candidate)
	var ordered []*candidate
	for _, d := range decls {
		k := entityOf(d)
		c := byEntity[k]
		if c == nil {
			c = &candidate{name: d.Name(), uses: uses[k]}
			byEntity[k] = c
		}
		c.decls = append(c.decls, d)
		if c.dims != nil {
			continue
		}
		if dims, ok := eligible(d); ok {
			c.dims = dims
			ordered = append(ordered, c)
		}
	}

	var sel selection
	for _, c := range ordered {
		if reason := c.unrewritable(f); reason != "" {
			if transform.LogEnabled(logger, transform.LevelTrace) {
				logger.LogAttrs(context.Background(), transform.LevelTrace, "skipped array",
					slog.String("name", c.name),
					slog.String("reason", reason))
			}
			continue
		}
		sel.count++
		if transform.LogEnabled(logger, transform.LevelTrace) {
			logger.LogAttrs(context.Background(), transform.LevelTrace, "candidate",
				slog.Int("index", sel.count),
				slog.String("name", c.name),
				slog.String("type", c.decls[0].Type().String()))
		}
		if sel.count == counter {
			sel.target = c
		}
	}
	return sel
}

// eligible returns the declarator dimensions of d when d declares an
// array whose two innermost dimensions can be merged.
func eligible(d *cc.Declarator) ([]ast.Extent, bool) {
	if d.IsParam() || d.IsTypename() {
		return nil, false
	}
	t := d.Type()
	dims := ast.Dims(t)
	if len(dims) < 2 {
		return nil, false
	}
	for i, e := range dims {
		switch {
		case e.Kind == ast.Variable:
			return nil, false
		case e.Kind == ast.Incomplete && i > 0:
			return nil, false
		}
	}
	// Dimensions hidden behind a typedef would be indexed past the
	// declarator's own and make the use sites ambiguous.
	if ast.IsArray(ast.ElemOfDims(t)) {
		return nil, false
	}
	return dims, true
}

// unrewritable returns why c cannot be rewritten in place, or "" when
// it can. Text that comes out of a macro expansion has no place in the
// input to edit.
func (c *candidate) unrewritable(f *ast.File) string {
	for _, d := range c.decls {
		if !f.Spelled(d.NameTok()) {
			return "declared by a macro"
		}
		if len(ast.Dims(d.Type())) != len(c.dims) {
			return "redeclared with other dimensions"
		}
		if len(declBrackets(f, d, len(c.dims))) != len(c.dims) {
			return "dimensions written by a macro"
		}
	}
	for _, u := range c.uses {
		if !u.affected(len(c.dims)) {
			continue
		}
		if _, ok := useSpans(f, u.chain); !ok {
			return "subscript written by a macro"
		}
	}
	return ""
}

// declBrackets returns the bracket pairs that follow the name of d.
func declBrackets(f *ast.File, d *cc.Declarator, n int) []scanner.BracketSpan {
	off, ok := f.Offset(d.NameTok())
	if !ok {
		return nil
	}
	return scanner.BracketPairs(f.Src, off+len(d.Name()), n)
}

// affected reports whether u indexes at least the two innermost of dims
// dimensions and nothing past them.
func (u use) affected(dims int) bool {
	return len(u.chain) >= 2 && len(u.chain) <= dims
}

// fullAccess reports whether a subscript of type t is a complete element
// access rather than a sub-array.
func fullAccess(t cc.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case cc.Struct, cc.Union:
		return true
	}
	return cc.IsScalarType(t)
}

// split tells the array operand of ix from its index the way the type
// checker does: the index is the operand of integer type.
func split(ix *cc.PostfixExpression) subscript {
	if t := ix.ExpressionList.Type(); t != nil && !cc.IsIntegerType(t) {
		return subscript{ix: ix, array: ix.ExpressionList, index: ix.PostfixExpression, swapped: true}
	}
	return subscript{ix: ix, array: ix.PostfixExpression, index: ix.ExpressionList}
}

// unwind splits nested subscripts into their base and the subscripts in
// application order.
func unwind(ix *cc.PostfixExpression) (cc.ExpressionNode, []subscript) {
	var chain []subscript
	var e cc.ExpressionNode = ix
	for {
		x, ok := ast.Unparen(e).(*cc.PostfixExpression)
		if !ok || x.Case != cc.PostfixExpressionIndex {
			break
		}
		s := split(x)
		chain = append(chain, s)
		e = s.array
	}
	slices.Reverse(chain)
	return ast.Unparen(e), chain
}

// declOf returns the declarator an identifier expression refers to.
func declOf(e cc.ExpressionNode) *cc.Declarator {
	p, ok := e.(*cc.PrimaryExpression)
	if !ok || p.Case != cc.PrimaryExpressionIdent {
		return nil
	}
	d, _ := p.ResolvedTo().(*cc.Declarator)
	return d
}
