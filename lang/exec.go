package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/jamal/log"
)

// Execute runs stmts in order against scope and returns the value of the
// last bare expression statement, or Null if there was none.
//
// Assignments only have effects. Blocks run in a new child scope that is
// released when the block finishes. Comments are skipped. The first error
// aborts execution.
func Execute(ctx context.Context, scope Scope, stmts ...Stmt) (Primitive, error) {
	var x executor

	err := x.run(ctx, scope, stmts)

	return x.last, err
}

// executor is the statement executor. It remembers the value of the most
// recent bare expression.
type executor struct {
	logger  log.Logger
	last    Primitive
	hasLast bool
}

func (x *executor) run(ctx context.Context, scope Scope, stmts []Stmt) error {
	for _, s := range stmts {
		if err := x.exec(ctx, scope, s); err != nil {
			return err
		}
	}

	return nil
}

func (x *executor) exec(ctx context.Context, scope Scope, s Stmt) error {
	switch s := s.(type) {
	case *Comment:
		if s != nil {
			return nil
		}

	case *Assignment:
		if s == nil {
			break
		}

		x.logger.TraceContext(ctx, "assignment",
			slog.String("pos", s.Pos().String()),
			slog.String("keyword", s.Keyword.String()),
			slog.String("name", s.Name),
			slog.String("scope", scope.ID().String()),
		)

		return HandleAssignment(scope, s)

	case *ExprStmt:
		if s == nil {
			break
		}

		v, err := Evaluate(scope, s.X)
		if err != nil {
			return withPosition(err, s.Pos())
		}

		x.logger.TraceContext(ctx, "expression",
			slog.String("pos", s.Pos().String()),
			slog.Any("value", v),
		)

		x.last, x.hasLast = v, true

		return nil

	case *Block:
		if s == nil {
			break
		}

		return x.block(ctx, scope, s)
	}

	return contractViolation(s)
}

func (x *executor) block(ctx context.Context, scope Scope, b *Block) (err error) {
	child, err := scope.Child()
	if err != nil {
		return err
	}

	x.logger.TraceContext(ctx, "enter block",
		slog.String("pos", b.Pos().String()),
		slog.String("scope", child.ID().String()),
	)

	defer func() {
		if rerr := child.Release(); err == nil {
			err = rerr
		}

		x.logger.TraceContext(ctx, "leave block",
			slog.String("scope", child.ID().String()),
		)
	}()

	return x.run(ctx, child, b.Statements)
}

// Interpreter executes JAMAL programs against a persistent root scope.
// Bindings made by one call to Execute are visible to the next, which makes
// an Interpreter suitable for interactive sessions.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	tree *Tree
	opts options
	exec executor
}

// New creates an Interpreter with an empty root scope.
func New(opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	return &Interpreter{
		tree: NewTree(),
		opts: o,
		exec: executor{logger: o.logger},
	}
}

// Scope returns the root scope.
func (in *Interpreter) Scope() Scope { return in.tree.Scope(in.tree.Root()) }

// Logger returns the interpreter's logger.
func (in *Interpreter) Logger() log.Logger { return in.opts.logger }

// Reset discards every binding.
func (in *Interpreter) Reset() {
	in.tree = NewTree()
	in.exec = executor{logger: in.opts.logger}
}

// Last returns the value of the most recent bare expression statement
// executed by the latest call to Execute, and whether there was one.
func (in *Interpreter) Last() (Primitive, bool) {
	return in.exec.last, in.exec.hasLast
}

// Execute runs the statements of f against the root scope and returns the
// value of the last bare expression, or Null if there was none.
func (in *Interpreter) Execute(ctx context.Context, f *File) (Primitive, error) {
	in.exec.last, in.exec.hasLast = Primitive{}, false

	if f == nil {
		return Primitive{}, nil
	}

	in.opts.logger.TraceContext(ctx, "execute",
		slog.Int("statement_count", len(f.Statements)))

	err := in.exec.run(ctx, in.Scope(), f.Statements)
	if err != nil {
		in.opts.logger.DebugContext(ctx, "execute failed", slog.Any("error", err))
	}

	return in.exec.last, err
}

// ExecuteString parses src and executes it. The parse tree is not cached.
func (in *Interpreter) ExecuteString(ctx context.Context, src string) (Primitive, error) {
	in.exec.last, in.exec.hasLast = Primitive{}, false

	f, err := parse(ctx, src, in.opts)
	if err != nil {
		return Primitive{}, err
	}

	return in.Execute(ctx, f)
}

// ExecuteReader reads a program from r and executes it.
func (in *Interpreter) ExecuteReader(ctx context.Context, r io.Reader) (Primitive, error) {
	in.exec.last, in.exec.hasLast = Primitive{}, false

	f, err := ParseReader(ctx, r, in.options()...)
	if err != nil {
		return Primitive{}, err
	}

	return in.Execute(ctx, f)
}

func (in *Interpreter) options() []Option {
	return []Option{WithMaxDepth(in.opts.maxDepth), WithLogger(in.opts.logger)}
}

// RunFile parses and executes the JAMAL source file at path with a new
// Interpreter, which is returned for inspection of the final state even if
// execution failed. It returns a nil Interpreter if the file could not be
// read or parsed.
func RunFile(ctx context.Context, path string, opts ...Option) (*Interpreter, error) {
	f, err := ParseFile(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	in := New(opts...)

	_, err = in.Execute(ctx, f)
	if err != nil {
		return in, WrapError(err).With(slog.String("path", path))
	}

	return in, nil
}

// Run parses and executes the JAMAL source file at path.
//
// The returned error matches [ErrFileRead], [ErrFileParse] or one of the
// runtime sentinels with [errors.Is].
func Run(ctx context.Context, path string, opts ...Option) error {
	_, err := RunFile(ctx, path, opts...)

	return err
}

// ParseFile reads and parses the JAMAL source file at path. The path "-"
// reads standard input.
func ParseFile(ctx context.Context, path string, opts ...Option) (*File, error) {
	pathAttr := slog.String("path", path)

	var r io.Reader = os.Stdin

	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, ErrFileRead.Wrap(err).With(pathAttr)
		}
		defer file.Close()

		r = file
	}

	f, err := ParseReader(ctx, r, opts...)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, ErrFileParse.Wrap(err).With(pathAttr)
		}

		return nil, WrapError(err).With(pathAttr)
	}

	return f, nil
}
