package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors derived from a sentinel with [Error.With] or [Error.Wrap] still
// match it with [errors.Is].
//
//nolint:gochecknoglobals
var (
	ErrFileRead  = NewError("failed to read input")
	ErrFileParse = NewError("failed to parse input")

	ErrUndefinedVariable    = NewError("undefined variable")
	ErrDuplicateDeclaration = NewError("duplicate declaration")
	ErrImmutableBinding     = NewError("assignment to immutable binding")
	ErrInvalidCoercion      = NewError("invalid coercion")
	ErrUnsupportedOperator  = NewError("unsupported operator")
	ErrTypeMismatch         = NewError("type mismatch")
	ErrDivisionByZero       = NewError("division by zero")
	ErrReleasedScope        = NewError("scope released")
	ErrMaxDepthExceeded     = NewError("maximum nesting depth exceeded")
	ErrExpectation          = NewError("expectation failed")

	// ErrParserContractViolation reports a parse tree node the evaluator does
	// not understand. It indicates a defect, not a malformed program.
	ErrParserContractViolation = NewError("parser contract violation")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
	base  *Error      // sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, that error is returned.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> <key>=<value>...: <err>", omitting any
// part that is unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	for _, a := range e.attrs {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(attrText(a.Value))
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

func attrText(v slog.Value) string {
	s := v.Resolve().String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs, base: e.root()}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
		base:  e.root(),
	}
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// IsDefect reports whether err signals an internal contract breach between
// the parser and the evaluator rather than a problem with the program.
func IsDefect(err error) bool {
	return errors.Is(err, ErrParserContractViolation)
}

// withPosition attaches a source position to err unless it already has one.
func withPosition(err error, pos Position) error {
	if err == nil || !pos.IsValid() {
		return err
	}

	var ee *Error
	if !errors.As(err, &ee) {
		return err
	}

	if _, ok := ee.Attr("pos"); ok {
		return err
	}

	return ee.With(slog.String("pos", pos.String()))
}

// ParseError describes a syntax error in JAMAL source text.
//
// A ParseError matches [ErrFileParse] with [errors.Is].
type ParseError struct {
	Pos      Position // location of the offending input
	Expected []string // descriptions of what would have been accepted
	Found    string   // description of the offending input
	Source   string   // the complete source text, if available
	Err      error    // underlying cause, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("syntax error")

	if e.Pos.IsValid() {
		sb.WriteString(" at line ")
		sb.WriteString(strconv.Itoa(e.Pos.Line))
		sb.WriteString(", column ")
		sb.WriteString(strconv.Itoa(e.Pos.Column))
	}

	switch {
	case len(e.Expected) > 0:
		sb.WriteString(": expected ")
		sb.WriteString(strings.Join(e.Expected, " or "))

		if e.Found != "" {
			sb.WriteString(", found ")
			sb.WriteString(e.Found)
		}

	case e.Found != "":
		sb.WriteString(": unexpected ")
		sb.WriteString(e.Found)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if snippet := e.Snippet(); snippet != "" {
		sb.WriteByte('\n')
		sb.WriteString(snippet)
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrFileParse].
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.root() == ErrFileParse
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", "syntax error"),
		slog.String("pos", e.Pos.String()),
	}

	if len(e.Expected) > 0 {
		attrs = append(attrs, slog.String("expected", strings.Join(e.Expected, ", ")))
	}

	if e.Found != "" {
		attrs = append(attrs, slog.String("found", e.Found))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Snippet renders the source line containing the error with a caret under
// the offending column. It returns "" if the source is unavailable.
func (e *ParseError) Snippet() string {
	if e.Source == "" || !e.Pos.IsValid() {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.Pos.Line)
	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")

	// 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5+max(e.Pos.Column-1, 0))

	return fmt.Sprintf("  %s | %s\n%s^", num, line, padding)
}
