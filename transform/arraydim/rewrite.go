package arraydim

import (
	"fmt"
	"strconv"

	"modernc.org/cc/v4"

	"github.com/rubiojr/cdelta/ast"
	"github.com/rubiojr/cdelta/rewrite"
	"github.com/rubiojr/cdelta/transform"
)

// flattening is what the declaration step hands to the use-site step.
type flattening struct {
	dims   int   // dimensionality before the merge
	stride int64 // extent of the innermost dimension
}

func internalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{transform.ErrInternal}, args...)...)
}

// rewriteDecls merges the two innermost dimensions in every declaration
// of the selected entity.
func rewriteDecls(f *ast.File, buf *rewrite.Buffer, c *candidate) (flattening, error) {
	last := c.dims[len(c.dims)-1]
	if last.Kind != ast.Fixed {
		return flattening{}, internalf("%s: innermost dimension is %s", c.name, last.Kind)
	}
	fl := flattening{dims: len(c.dims), stride: last.N}
	for _, d := range c.decls {
		if err := rewriteDecl(f, buf, d, fl); err != nil {
			return flattening{}, err
		}
	}
	return fl, nil
}

func rewriteDecl(f *ast.File, buf *rewrite.Buffer, d *cc.Declarator, fl flattening) error {
	dims := ast.Dims(d.Type())
	if len(dims) != fl.dims {
		return internalf("%s: redeclared with %d dimensions, want %d", d.Name(), len(dims), fl.dims)
	}
	spans := declBrackets(f, d, len(dims))
	if len(spans) < 2 || len(spans) != len(dims) {
		return internalf("%s: found %d bracket pairs for %d dimensions", d.Name(), len(spans), len(dims))
	}
	last, second := dims[len(dims)-1], dims[len(dims)-2]
	if last.Kind != ast.Fixed || last.N != fl.stride {
		return internalf("%s: innermost dimension is not %d", d.Name(), fl.stride)
	}

	start, end := spans[len(spans)-1].Outer()
	if err := buf.Remove(start, end); err != nil {
		return internalf("%s: %v", d.Name(), err)
	}
	switch second.Kind {
	case ast.Incomplete:
		// int a[][2] becomes int a[]
		return nil
	case ast.Fixed:
		start, end := spans[len(spans)-2].Inner()
		if err := buf.Replace(start, end, strconv.FormatInt(second.N*last.N, 10)); err != nil {
			return internalf("%s: %v", d.Name(), err)
		}
		return nil
	}
	return internalf("%s: dimension is %s", d.Name(), second.Kind)
}

// rewriteUses rewrites every full subscript of the selected entity and
// returns how many it rewrote. Subscripts nested in an index are
// rewritten before the subscript containing them, so the outer rewrite
// picks up the inner result from the buffer.
func rewriteUses(f *ast.File, buf *rewrite.Buffer, c *candidate, fl flattening) (int, error) {
	count := 0
	for i := len(c.uses) - 1; i >= 0; i-- {
		u := c.uses[i]
		if !u.affected(fl.dims) {
			continue
		}
		if err := rewriteUse(f, buf, u.chain, fl.stride); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// span is a half-open byte range of the input.
type span struct{ start, end int }

func (s span) within(o span) bool { return o.start <= s.start && s.end <= o.end }

// edits locates the text a use rewrite touches.
type edits struct {
	second, last span // the two innermost indices
	// cut is what disappears: the brackets of the last subscript, or the
	// whole of it when its operands are swapped.
	cut span
	// array is the array operand of a swapped last subscript; it takes
	// the place of cut.
	array span
}

func spanOf(f *ast.File, n cc.Node) (span, bool) {
	start, end, ok := f.Span(n)
	return span{start, end}, ok
}

// useSpans locates the edits for folding the last two levels of chain.
// It fails when any of them is not written out in the input.
func useSpans(f *ast.File, chain []subscript) (edits, bool) {
	lastIx, secondIx := chain[len(chain)-1], chain[len(chain)-2]
	var e edits
	var ok1, ok2 bool
	e.second, ok1 = spanOf(f, secondIx.index)
	e.last, ok2 = spanOf(f, lastIx.index)
	if !ok1 || !ok2 {
		return edits{}, false
	}

	if lastIx.swapped {
		var ok3, ok4 bool
		e.cut, ok3 = spanOf(f, lastIx.ix)
		e.array, ok4 = spanOf(f, lastIx.array)
		if !ok3 || !ok4 || !e.second.within(e.array) || e.last.within(e.array) {
			return edits{}, false
		}
		return e, true
	}

	lb, rb := lastIx.ix.Token, lastIx.ix.Token2
	if !f.Spelled(lb) || !f.Spelled(rb) {
		return edits{}, false
	}
	open, _ := f.Offset(lb)
	closing, _ := f.Offset(rb)
	e.cut = span{open, closing + 1}
	if e.second.end > e.cut.start || !e.last.within(e.cut) {
		return edits{}, false
	}
	return e, true
}

// rewriteUse folds the last two subscripts of chain into one.
func rewriteUse(f *ast.File, buf *rewrite.Buffer, chain []subscript, stride int64) error {
	lastIx, secondIx := chain[len(chain)-1], chain[len(chain)-2]
	pos := f.Position(lastIx.ix.Token)
	e, ok := useSpans(f, chain)
	if !ok {
		return internalf("%s: subscript is not written out", pos)
	}

	var repl string
	if ast.IsIntegerLiteral(lastIx.index) && ast.IsIntegerLiteral(secondIx.index) {
		lv, ok1 := ast.IntValue(lastIx.index)
		sv, ok2 := ast.IntValue(secondIx.index)
		if !ok1 || !ok2 {
			return internalf("%s: cannot evaluate constant index", pos)
		}
		repl = strconv.FormatInt(sv*stride+lv, 10)
	} else {
		repl = "(" + buf.Text(e.second.start, e.second.end) + ")*" + strconv.FormatInt(stride, 10) +
			"+" + buf.Text(e.last.start, e.last.end)
		if secondIx.swapped {
			// i[a] becomes ((i)*3+j)[a]
			repl = "(" + repl + ")"
		}
	}

	if lastIx.swapped {
		if err := buf.Replace(e.second.start, e.second.end, repl); err != nil {
			return internalf("%s: %v", pos, err)
		}
		// j[a[i]] becomes a[(i)*3+j]
		if err := buf.Replace(e.cut.start, e.cut.end, buf.Text(e.array.start, e.array.end)); err != nil {
			return internalf("%s: %v", pos, err)
		}
		return nil
	}
	if err := buf.Remove(e.cut.start, e.cut.end); err != nil {
		return internalf("%s: %v", pos, err)
	}
	if err := buf.Replace(e.second.start, e.second.end, repl); err != nil {
		return internalf("%s: %v", pos, err)
	}
	return nil
}
