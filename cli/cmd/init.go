package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
	"github.com/ardnew/jamal/pkg"
	"github.com/ardnew/jamal/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.With(slog.String("reason", "no command context"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrWriteConfig.With(slog.String("reason", "configuration path undefined"))
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = i.buildFile(ktx).Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildFile constructs the configuration source from current flag values.
// Each flag becomes a let binding named like the flag with hyphens replaced
// by underscores.
func (i *Init) buildFile(ktx *kong.Context) *lang.File {
	stmts := []lang.Stmt{
		&lang.Comment{Text: "// " + pkg.Name + " configuration; bindings set command-line flags"},
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		name := ConfigName(flag.Name)
		if !lang.ValidIdentifier(name) {
			continue
		}

		val, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		stmts = append(stmts, &lang.Assignment{
			Keyword: lang.KeywordLet,
			Name:    name,
			Value:   &lang.Literal{Value: val},
		})
	}

	return &lang.File{Statements: stmts}
}

// ConfigName returns the binding name used for a flag in the configuration
// file.
func ConfigName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// flagValue converts a flag value to a literal. It reports false for values
// that are unset or have no literal.
func flagValue(val any) (lang.Primitive, bool) {
	switch v := val.(type) {
	case nil:
		return lang.Primitive{}, false

	case bool:
		return lang.Bool(v), true

	case string:
		return lang.String(v), v != ""

	case int:
		return intValue(int64(v))

	case int32:
		return lang.Int(v), true

	case int64:
		return intValue(v)

	case float32:
		return lang.Float(v), true

	case float64:
		return lang.Float(float32(v)), true

	case []string:
		return lang.String(strings.Join(v, ",")), len(v) > 0

	default:
		return lang.String(fmt.Sprint(v)), true
	}
}

func intValue(n int64) (lang.Primitive, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return lang.String(fmt.Sprint(n)), true
	}

	return lang.Int(int32(n)), true
}
