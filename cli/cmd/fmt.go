package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/jamal/lang"
)

// Fmt parses source and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical JAMAL source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the parse tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the parse tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the parse tree."`
}

// parseSource reads and parses the named source file, resolved against the
// search path.
func parseSource(ctx context.Context, source, format string) (*lang.File, error) {
	opts := OptionsFrom(ctx)

	f, err := lang.ParseFile(ctx, opts.Find(source), opts.Lang()...)
	if err != nil {
		return nil, ErrFormat.Wrap(err).With(slog.String("format", format))
	}

	return f, nil
}

// Native formats input as canonical JAMAL source.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output; 0 indents with tabs" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return file.Format(ctx, outputFrom(ctx), f.Indent)
}

// JSON formats the parse tree of input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 writes compact JSON" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	if err := file.FormatJSON(ctx, outputFrom(ctx), j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats the parse tree of input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := file.FormatYAML(ctx, outputFrom(ctx), y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST prints an indented representation of the parse tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return file.Print(ctx, outputFrom(ctx))
}
