package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/cli/cmd"
	"github.com/ardnew/jamal/cli/cmd/repl"
	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/pkg"
)

// CLI is the top-level command-line interface for jamal.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path     []string         `help:"Directories searched for source files named by relative path" name:"path" placeholder:"DIR" short:"I"`
	MaxDepth int              `default:"${maxDepth}"                                                 help:"Maximum nesting depth of parsed source"`
	Version  kong.VersionFlag `help:"Print version and exit" short:"V"`

	Run  cmd.Run   `cmd:"" default:"withargs" help:"Run a source file"`
	Eval cmd.Eval  `cmd:""                    help:"Evaluate source text and print its last value"`
	Fmt  cmd.Fmt   `cmd:""                    help:"Format source or its parse tree"`
	Init cmd.Init  `cmd:""                    help:"Initialize configuration file"`
	Repl repl.REPL `cmd:""                    help:"Start an interactive session"`
}

// Run executes the jamal CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups(cli.Log.group(), cli.Pprof.group())),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cmd.Options{
		Path:     cli.Path,
		MaxDepth: cli.MaxDepth,
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}

// groups drops the groups of option sets compiled out of this build.
func groups(gs ...kong.Group) []kong.Group {
	out := make([]kong.Group, 0, len(gs))

	for _, g := range gs {
		if g.Key != "" {
			out = append(out, g)
		}
	}

	return out
}
