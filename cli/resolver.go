package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
)

// resolve returns a [kong.ConfigurationLoader] that executes config files
// written in JAMAL.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config")
//
// Every binding in the root scope of the executed program sets the flag of
// the same name, with underscores in the binding name standing for hyphens in
// the flag name:
//
//	let log_level = "debug";
//	let log_format = "json";
//	var log_pretty = log_format == "text";
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=false
//
// Command-line flags override config file values. A config file that fails
// to parse or execute is reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		in := lang.New(lang.WithLogger(log.Default()))

		if _, err := in.ExecuteReader(ctx, r); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		c := makeConfig(in.Scope())

		log.DebugContext(ctx, "configuration loaded",
			slog.Int("binding_count", len(c)),
		)

		return c, nil
	}
}

// config implements [kong.Resolver] for JAMAL configs.
type config map[string]any

// makeConfig converts the bindings visible from scope to flag values. Kong
// parses numbers from their text, and null bindings leave the flag unset.
func makeConfig(scope lang.Scope) config {
	c := make(config)

	for name, v := range scope.Visible() {
		switch v.Kind() {
		case lang.KindNull:
			continue

		case lang.KindBool:
			c[name] = v.BoolValue()

		case lang.KindInt, lang.KindFloat:
			c[name] = v.Text()

		default:
			c[name] = v.StringValue()
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already executed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but JAMAL identifiers
	// cannot. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
