package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jamal/lang"
)

// initCLI mirrors the kinds of global flags the init command serializes.
type initCLI struct {
	LogLevel string   `default:"warn"`
	Pretty   bool     `default:"true"   negatable:""`
	MaxDepth int      `default:"256"`
	Path     []string `name:"path"`
	Empty    string
	Secret   string `hidden:""`

	Init Init `cmd:""`
}

func parseInit(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append(args, "init"))
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			ktx := parseInit(t, confPath, "--log-level=debug", "--path=a,b", "--no-pretty")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			// The generated config is a JAMAL program binding the flag values.
			in := lang.New()
			if _, err := in.ExecuteString(t.Context(), string(content)); err != nil {
				t.Fatalf("generated config does not execute: %v\n%s", err, content)
			}

			want := map[string]any{
				"log_level": "debug",
				"pretty":    false,
				"max_depth": int32(256),
				"path":      "a,b",
			}

			got := in.Scope().ToMap()
			if len(got) != len(want) {
				t.Errorf("bindings = %v, want %v", got, want)
			}

			for name, v := range want {
				if got[name] != v {
					t.Errorf("%s = %#v, want %#v", name, got[name], v)
				}
			}
		})
	}
}

func TestInitBuildFile(t *testing.T) {
	t.Parallel()

	ktx := parseInit(t, "unused")

	var sb strings.Builder
	if err := (&Init{}).buildFile(ktx).Format(t.Context(), &sb, defaultConfigIndent); err != nil {
		t.Fatal(err)
	}

	want := `// jamal configuration; bindings set command-line flags
let log_level = "warn";
let pretty = true;
let max_depth = 256;
`

	if sb.String() != want {
		t.Errorf("config =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestInitWithoutContext(t *testing.T) {
	t.Parallel()

	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("error = %v, want ErrWriteConfig", err)
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	// A regular file where a directory is expected.
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	ktx := parseInit(t, filepath.Join(parent, "config"))

	err := (&Init{Force: true}).Run(WithContext(t.Context(), ktx))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("error = %v, want ErrWriteConfig", err)
	}
}

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want lang.Primitive
		ok   bool
	}{
		{nil, lang.Primitive{}, false},
		{true, lang.Bool(true), true},
		{"", lang.String(""), false},
		{"x", lang.String("x"), true},
		{7, lang.Int(7), true},
		{int64(1) << 40, lang.String("1099511627776"), true},
		{int32(-3), lang.Int(-3), true},
		{1.5, lang.Float(1.5), true},
		{float32(2), lang.Float(2), true},
		{[]string{}, lang.String(""), false},
		{[]string{"a", "b"}, lang.String("a,b"), true},
		{uint8(4), lang.String("4"), true},
	}

	for _, tt := range tests {
		got, ok := flagValue(tt.in)
		if ok != tt.ok || (ok && !got.Equal(tt.want)) {
			t.Errorf("flagValue(%#v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigName(t *testing.T) {
	t.Parallel()

	if got := ConfigName("log-time-layout"); got != "log_time_layout" {
		t.Errorf("ConfigName = %q", got)
	}
}
