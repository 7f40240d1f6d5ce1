// Package arraydim implements reduce-array-dim: it merges the two
// innermost dimensions of one multi-dimensional array variable and
// rewrites every full subscript of the variable to match.
//
//	int a[2][3][4];            int a[2][12];
//	x = a[1][2][3];     =>     x = a[1][11];
//	y = a[i][j][k];            y = a[i][(j)*4+k];
//
// Eligible arrays are numbered in source order, counting each entity once
// however many times it is declared.
package arraydim

import (
	"context"
	"log/slog"

	"github.com/rubiojr/cdelta/transform"
)

// Name is the name the transformation is registered under.
const Name = "reduce-array-dim"

func init() {
	transform.Register(reduceArrayDim{})
}

type reduceArrayDim struct{}

func (reduceArrayDim) Name() string { return Name }

func (reduceArrayDim) Description() string {
	return "Reduce the dimension of an array. Each transformation iteration " +
		"reduces one dimension in the following way:\n" +
		"  int a[2][3][4];\n" +
		"  void foo(void) {... a[1][2][3] ... }\n" +
		"===>\n" +
		"  int a[2][12];\n" +
		"  void foo(void) {... a[1][11] ... }\n"
}

func (reduceArrayDim) Apply(ctx context.Context, c *transform.Context) (int, error) {
	logger := transform.ComponentLogger(c.Logger, "arraydim")
	sel := collect(c.File, c.Counter, logger)
	if c.QueryOnly || sel.target == nil {
		return sel.count, nil
	}
	if transform.LogEnabled(logger, slog.LevelDebug) {
		pos := c.File.Position(sel.target.decls[0].NameTok())
		logger.LogAttrs(ctx, slog.LevelDebug, "selected array",
			slog.String("name", sel.target.name),
			slog.String("pos", pos.String()),
			slog.Int("dims", len(sel.target.dims)))
	}

	fl, err := rewriteDecls(c.File, c.Buf, sel.target)
	if err != nil {
		return sel.count, err
	}
	n, err := rewriteUses(c.File, c.Buf, sel.target, fl)
	if err != nil {
		return sel.count, err
	}
	if transform.LogEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "rewrote uses",
			slog.Int("uses", n),
			slog.Int64("stride", fl.stride))
	}
	return sel.count, nil
}
