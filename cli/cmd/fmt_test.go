package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/jamal/lang"
)

func TestFmt(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "fmt.jml", "let a=1;//one\n{var b=a+2*3;}")

	tests := []struct {
		name   string
		run    func(ctx context.Context) error
		want   string
		substr []string
	}{
		{
			name: "native",
			run:  (&Native{Indent: 2, Source: path}).Run,
			want: "let a = 1; //one\n{\n  var b = a + 2 * 3;\n}\n",
		},
		{
			name: "native tabs",
			run:  (&Native{Indent: 0, Source: path}).Run,
			want: "let a = 1; //one\n{\n\tvar b = a + 2 * 3;\n}\n",
		},
		{
			name:   "json",
			run:    (&JSON{Indent: 0, Source: path}).Run,
			substr: []string{`"type":"Assignment"`, `"keyword":"let"`, `"text":"//one"`, `"type":"Block"`},
		},
		{
			name:   "yaml",
			run:    (&YAML{Indent: 2, Source: path}).Run,
			substr: []string{"type: Assignment", "type: Comment", "type: Block", "name: b"},
		},
		{
			name:   "ast",
			run:    (&AST{Source: path}).Run,
			substr: []string{"Assignment let: a: 1:1", "Block: 2:1", "BinaryOp: Mul *"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out := capture(t.Context(), Options{})

			if err := tt.run(ctx); err != nil {
				t.Fatalf("Run error: %v", err)
			}

			if tt.substr == nil && out.String() != tt.want {
				t.Errorf("output =\n%q\nwant\n%q", out.String(), tt.want)
			}

			for _, s := range tt.substr {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestFmtInvalidSyntax(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "bad.jml", "let a = (1 + ;")

	for name, run := range map[string]func(ctx context.Context) error{
		"native": (&Native{Indent: 2, Source: path}).Run,
		"json":   (&JSON{Indent: 2, Source: path}).Run,
		"yaml":   (&YAML{Indent: 2, Source: path}).Run,
		"ast":    (&AST{Source: path}).Run,
	} {
		ctx, out := capture(t.Context(), Options{})

		err := run(ctx)
		if !errors.Is(err, ErrFormat) || !errors.Is(err, lang.ErrFileParse) {
			t.Errorf("%s: error = %v, want ErrFormat and ErrFileParse", name, err)
		}

		if out.Len() != 0 {
			t.Errorf("%s: output written on error: %q", name, out.String())
		}
	}
}
