package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/lang"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	src := `
let log_level = "debug";
var log_pretty = false;
let max_depth = 8;
let ratio = 1.0 / 4;
{ let hidden = "block bindings are not visible"; }
`

	resolver, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"log-pretty", false},
		{"max-depth", "8"},
		{"ratio", "0.25"},
		{"hidden", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

		got, err := resolver.Resolve(nil, nil, flag)
		if err != nil {
			t.Fatalf("Resolve(%s) error: %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
		}
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestResolveInvalidConfig(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		`let log_level = ;`,         // syntax error
		`let log_level = missing;`,  // runtime error
		`let a = 1; let a = 2;`,     // duplicate declaration
		`let log_level = "unterminated`,
	} {
		resolver, err := resolve(t.Context())(strings.NewReader(src))
		if err != nil {
			t.Fatalf("resolve(%q) error: %v", src, err)
		}

		flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

		if got, _ := resolver.Resolve(nil, nil, flag); got != nil {
			t.Errorf("resolve(%q) resolved log-level = %v, want nil", src, got)
		}
	}
}

func TestMakeConfigSkipsNull(t *testing.T) {
	t.Parallel()

	scope := lang.NewScope()
	_ = scope.Declare("empty", lang.Null(), false)
	_ = scope.Declare("name", lang.String("x"), false)

	c := makeConfig(scope)

	if _, ok := c["empty"]; ok {
		t.Error("null binding resolved to a value")
	}

	if c["name"] != "x" {
		t.Errorf("name = %v, want x", c["name"])
	}
}

func TestResolveKong(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), baseConfig)

	src := "let level = \"debug\";\nvar verbose = true;\nlet depth = 2 * 8;\nlet dirs = \"a,b\";\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		Level   string   `default:"warn"`
		Verbose bool     `negatable:""`
		Depth   int      `default:"256"`
		Dirs    []string `name:"dirs"`
		Other   string   `default:"kept"`
	}

	parser, err := kong.New(&cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve(t.Context()), path),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--depth=3"}); err != nil {
		t.Fatal(err)
	}

	if cli.Level != "debug" || !cli.Verbose || cli.Other != "kept" {
		t.Errorf("parsed %+v", cli)
	}

	// Command-line flags override the configuration file.
	if cli.Depth != 3 {
		t.Errorf("depth = %d, want 3", cli.Depth)
	}

	if len(cli.Dirs) != 2 || cli.Dirs[0] != "a" || cli.Dirs[1] != "b" {
		t.Errorf("dirs = %v, want [a b]", cli.Dirs)
	}
}

func TestGroups(t *testing.T) {
	t.Parallel()

	gs := groups(kong.Group{Key: "log"}, kong.Group{}, kong.Group{Key: "pprof"})

	if len(gs) != 2 || gs[0].Key != "log" || gs[1].Key != "pprof" {
		t.Errorf("groups = %v", gs)
	}
}
