package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
)

// Run executes a source file and optionally reports its final bindings.
type Run struct {
	Dump   string   `default:""  enum:",json,yaml,native" help:"Write the final bindings as json, yaml or native source" placeholder:"FORMAT" short:"d"`
	Indent int      `default:"2"                           help:"Indent width for dumped bindings"                                           short:"i"`
	Expect []string `                                      help:"Predicate over the final bindings that must hold (repeatable)" placeholder:"EXPR" short:"e"`

	File string `arg:"" help:"Source file, searched for in --path and $JAMAL_PATH, or '-' for stdin" name:"file"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := OptionsFrom(ctx)
	path := opts.Find(r.File)

	log.DebugContext(ctx, "run",
		slog.String("file", r.File),
		slog.String("path", path),
	)

	in, err := lang.RunFile(ctx, path, opts.Lang()...)
	if err != nil {
		return ErrRun.Wrap(err).With(slog.String("file", path))
	}

	if err := lang.ExpectAll(ctx, in.Scope(), r.Expect...); err != nil {
		return ErrUnmet.Wrap(err).With(slog.String("file", path))
	}

	return dump(ctx, outputFrom(ctx), in.Scope(), r.Dump, r.Indent)
}

// dump writes the bindings visible from scope in the named format. An empty
// format writes nothing.
func dump(
	ctx context.Context,
	w io.Writer,
	scope lang.Scope,
	format string,
	indent int,
) error {
	var err error

	switch format {
	case "":
		return nil

	case "json":
		if err = lang.DumpJSON(w, scope, indent); err != nil {
			err = ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		if err = lang.DumpYAML(ctx, w, scope, indent); err != nil {
			err = ErrYAMLMarshal.Wrap(err)
		}

	case "native":
		err = lang.DumpNative(w, scope)

	default:
		return ErrDump.With(slog.String("format", format))
	}

	if err != nil {
		return ErrDump.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
