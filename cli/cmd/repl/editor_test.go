package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/jamal/log"
)

// scriptedEdit returns an edit func that replaces the file content with each
// of edits in turn, recording what the editor was shown.
func scriptedEdit(shown *[]string, edits ...string) func(context.Context, *editCommand, string) error {
	return func(_ context.Context, _ *editCommand, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		*shown = append(*shown, string(data))

		if len(edits) == 0 {
			return errors.New("unexpected edit")
		}

		next := edits[0]
		edits = edits[1:]

		return os.WriteFile(path, []byte(next), 0o600)
	}
}

func newEditCommand(t *testing.T, source, stdin string, edit func(context.Context, *editCommand, string) error) *editCommand {
	t.Helper()

	c := &editCommand{
		source:  source,
		ctxFunc: t.Context,
		logger:  log.Make(io.Discard),
		edit:    edit,
	}

	c.SetStdin(strings.NewReader(stdin))
	c.SetStdout(io.Discard)
	c.SetStderr(io.Discard)

	return c
}

func TestEditCommand(t *testing.T) {
	t.Parallel()

	var shown []string

	c := newEditCommand(t, "let a = 1;\n", "", scriptedEdit(&shown, "let a = 2; var b = a;"))

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	if len(shown) != 1 || shown[0] != "let a = 1;\n" {
		t.Errorf("editor shown %q", shown)
	}

	if c.newFile == nil || len(c.newFile.Statements) != 2 {
		t.Fatalf("newFile = %v", c.newFile)
	}
}

func TestEditCommandCleared(t *testing.T) {
	t.Parallel()

	var shown []string

	c := newEditCommand(t, "let a = 1;\n", "", scriptedEdit(&shown, "  \n"))

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	if c.newFile != nil {
		t.Errorf("newFile = %v, want nil", c.newFile)
	}
}

func TestEditCommandRetry(t *testing.T) {
	t.Parallel()

	var shown []string

	c := newEditCommand(t, "", "y\n", scriptedEdit(&shown, "let = 1;", "let a = 1;"))

	var stderr bytes.Buffer
	c.SetStderr(&stderr)

	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	// The second attempt starts from the rejected content.
	if len(shown) != 2 || shown[1] != "let = 1;" {
		t.Errorf("editor shown %q", shown)
	}

	if stderr.Len() == 0 {
		t.Error("parse error not reported")
	}

	if c.newFile == nil {
		t.Error("newFile = nil after successful retry")
	}
}

func TestEditCommandDeclined(t *testing.T) {
	t.Parallel()

	for _, stdin := range []string{"n\n", "No\n", ""} {
		var shown []string

		c := newEditCommand(t, "", stdin, scriptedEdit(&shown, "1 +"))

		if err := c.Run(); !errors.Is(err, ErrEditDeclined) {
			t.Errorf("stdin %q: error = %v, want ErrEditDeclined", stdin, err)
		}
	}
}

func TestEditCommandEditorFailure(t *testing.T) {
	t.Parallel()

	c := newEditCommand(t, "", "", func(context.Context, *editCommand, string) error {
		return os.ErrPermission
	})

	if err := c.Run(); !errors.Is(err, os.ErrPermission) {
		t.Errorf("error = %v, want %v", err, os.ErrPermission)
	}
}
