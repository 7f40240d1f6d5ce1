// Package transform defines how source-to-source transformations are
// registered, selected and run.
//
// A transformation numbers the opportunities it finds in a translation
// unit 1..N and applies itself to the one selected by the counter. A
// reduction driver calls Run with increasing counters until ErrNoInstance
// tells it this transformation has nothing left to offer.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rubiojr/cdelta/ast"
	"github.com/rubiojr/cdelta/parser"
	"github.com/rubiojr/cdelta/rewrite"
)

var (
	// ErrUnknownTransformation is returned for a name nothing registered.
	ErrUnknownTransformation = errors.New("unknown transformation")

	// ErrInvalidCounter is returned for a counter below 1.
	ErrInvalidCounter = errors.New("invalid counter")

	// ErrNoInstance reports that the counter exceeds the number of
	// instances. It is the normal end of a reduction sequence.
	ErrNoInstance = errors.New("the counter value exceeded the number of transformation instances")

	// ErrInternal reports a broken invariant inside a transformation. No
	// output is produced.
	ErrInternal = errors.New("internal error")
)

// Transformation is one source-to-source transformation.
type Transformation interface {
	// Name is the command line name, e.g. "reduce-array-dim".
	Name() string
	Description() string
	// Apply records the edits for instance c.Counter in c.Buf, or only
	// counts instances when c.QueryOnly is set. It returns the number of
	// instances found.
	Apply(ctx context.Context, c *Context) (int, error)
}

// Context is what a transformation works on during one invocation.
type Context struct {
	File      *ast.File
	Buf       *rewrite.Buffer
	Counter   int
	QueryOnly bool
	Logger    *slog.Logger // nil disables logging
}

// Options configure Run and Query.
type Options struct {
	Counter int          // 1-based instance to transform
	Logger  *slog.Logger // nil disables logging
}

// Result is the outcome of a successful Run.
type Result struct {
	Output    []byte
	Instances int // instances found in the input
	Edits     int // text edits applied
}

// Run parses src and applies the transformation called name to instance
// opts.Counter. On any error no output is returned.
func Run(ctx context.Context, name, filename string, src []byte, opts Options) (*Result, error) {
	if opts.Counter < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCounter, opts.Counter)
	}
	c, t, err := prepare(ctx, name, filename, src, opts)
	if err != nil {
		return nil, err
	}
	logger := componentLogger(opts.Logger, "transform")

	n, err := t.Apply(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if n < opts.Counter {
		return nil, ErrNoInstance
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{Output: c.Buf.Bytes(), Instances: n, Edits: c.Buf.Len()}
	if logEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "transformed",
			slog.String("transformation", name),
			slog.Int("counter", opts.Counter),
			slog.Int("instances", n),
			slog.Int("edits", res.Edits))
	}
	return res, nil
}

// Query parses src and returns the number of instances of the
// transformation called name. opts.Counter is ignored.
func Query(ctx context.Context, name, filename string, src []byte, opts Options) (int, error) {
	c, t, err := prepare(ctx, name, filename, src, opts)
	if err != nil {
		return 0, err
	}
	c.QueryOnly = true
	n, err := t.Apply(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func prepare(ctx context.Context, name, filename string, src []byte, opts Options) (*Context, Transformation, error) {
	t, ok := Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTransformation, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := parser.ParseFile(filename, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return &Context{
		File:    f,
		Buf:     rewrite.NewBuffer(src),
		Counter: opts.Counter,
		Logger:  opts.Logger,
	}, t, nil
}
