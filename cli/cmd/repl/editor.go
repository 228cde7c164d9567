package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// writes the session bindings as source to a temp file, opens the user's
// editor, and parses the result. On parse error the user is prompted to
// re-edit; declining abandons the edit.
type editCommand struct {
	source  string
	ctxFunc func() context.Context
	logger  log.Logger
	edit    func(ctx context.Context, c *editCommand, path string) error
	newFile *lang.File
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. A nil newFile with a nil error
// means the user cleared the file. If the user declines to re-edit after a
// parse error, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()
	content := c.source

	f, err := os.CreateTemp(os.TempDir(), "jamal-repl-*.jml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	edit := c.edit
	if edit == nil {
		edit = runEditor
	}

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := edit(ctx, c, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		file, parseErr := lang.Parse(ctx, string(data), lang.WithLogger(c.logger))
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newFile = file

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path.
func runEditor(ctx context.Context, c *editCommand, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
