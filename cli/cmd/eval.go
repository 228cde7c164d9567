package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/jamal/lang"
)

// Eval executes source text given on the command line and prints the value
// of its last expression statement.
type Eval struct {
	Source []string `arg:"" help:"Source text; multiple arguments are joined by spaces" name:"source"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := strings.Join(e.Source, " ")

	in := lang.New(OptionsFrom(ctx).Lang()...)

	result, err := in.ExecuteString(ctx, src)
	if err != nil {
		return ErrEval.Wrap(err).With(slog.String("command", "eval"))
	}

	if _, ok := in.Last(); !ok {
		return nil
	}

	_, err = fmt.Fprintln(outputFrom(ctx), lang.FormatResult(result))

	return err
}
