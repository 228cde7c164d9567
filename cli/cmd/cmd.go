package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
	"github.com/ardnew/jamal/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	optionsKey struct{}
	outputKey  struct{}
)

// Options are the global settings shared by every command.
type Options struct {
	// Path lists directories searched for source files named by relative
	// path, ahead of $JAMAL_PATH.
	Path []string
	// MaxDepth limits the nesting depth of parsed source.
	MaxDepth int
}

// WithOptions returns a new context.Context containing the given Options.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// OptionsFrom retrieves the Options stored in ctx by WithOptions, or the zero
// Options if none were stored.
func OptionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)

	return opts
}

// Lang returns the interpreter options matching o. The interpreter logs
// through the default logger.
func (o Options) Lang() []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(o.MaxDepth),
		lang.WithLogger(log.Default()),
	}
}

// Find resolves a source file name against the search path.
func (o Options) Find(path string) string {
	return pkg.FindSource(path, o.Path...)
}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}
