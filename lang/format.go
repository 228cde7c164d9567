package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes f as canonical JAMAL source: one statement per line, each
// terminated by ";" except blocks, with comments kept in place. Block
// contents are indented by indent spaces per level, or by a tab if indent is
// not positive.
func (f *File) Format(_ context.Context, w io.Writer, indent int) error {
	unit := "\t"
	if indent > 0 {
		unit = strings.Repeat(" ", indent)
	}

	var sb strings.Builder

	formatStatements(&sb, f.Statements, unit, 0)

	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatStatements(sb *strings.Builder, stmts []Stmt, unit string, depth int) {
	prefix := strings.Repeat(unit, depth)
	start := sb.Len()

	for _, s := range stmts {
		if c, ok := s.(*Comment); ok && c.Trailing && sb.Len() > start {
			sb.WriteByte(' ')
			sb.WriteString(c.Text)

			continue
		}

		if sb.Len() > start || depth > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(prefix)
		formatStatement(sb, s, unit, depth)
	}
}

func formatStatement(sb *strings.Builder, s Stmt, unit string, depth int) {
	switch s := s.(type) {
	case *Assignment:
		if s.Keyword.Declares() {
			sb.WriteString(s.Keyword.String())
			sb.WriteByte(' ')
		}

		sb.WriteString(s.Name)
		sb.WriteString(" = ")
		formatExpr(sb, s.Value)
		sb.WriteByte(';')

	case *ExprStmt:
		formatExpr(sb, s.X)
		sb.WriteByte(';')

	case *Block:
		sb.WriteByte('{')

		if len(s.Statements) > 0 {
			formatStatements(sb, s.Statements, unit, depth+1)
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(unit, depth))
		}

		sb.WriteByte('}')

	case *Comment:
		sb.WriteString(s.Text)

	default:
		fmt.Fprintf(sb, "/* %T */", s)
	}
}

func formatExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Literal:
		if e.Raw != "" {
			sb.WriteString(e.Raw)
		} else {
			sb.WriteString(FormatResult(e.Value))
		}

	case *Identifier:
		sb.WriteString(e.Name)

	case *Grouped:
		sb.WriteByte('(')
		formatExpr(sb, e.Inner)
		sb.WriteByte(')')

	case *BinaryOp:
		formatOperand(sb, e.Left, e.Op, false)
		sb.WriteByte(' ')
		sb.WriteString(e.Op.Symbol())
		sb.WriteByte(' ')
		formatOperand(sb, e.Right, e.Op, true)

	default:
		fmt.Fprintf(sb, "/* %T */", e)
	}
}

// formatOperand writes an operand of parent, adding parentheses if the tree
// shape could not be recovered from precedence and associativity alone.
func formatOperand(sb *strings.Builder, e Expr, parent Operator, right bool) {
	child, ok := e.(*BinaryOp)
	if !ok {
		formatExpr(sb, e)

		return
	}

	cp, pp := child.Op.Precedence(), parent.Precedence()

	paren := cp < pp ||
		(cp == pp && right != parent.RightAssociative())

	if paren {
		sb.WriteByte('(')
	}

	formatExpr(sb, e)

	if paren {
		sb.WriteByte(')')
	}
}

// FormatResult renders a value the way it would be written as a literal:
// strings are quoted, Floats always contain a decimal point.
func FormatResult(p Primitive) string {
	switch p.Kind() {
	case KindString:
		return Quote(p.StringValue())

	case KindFloat:
		s := p.Text()
		if !strings.ContainsAny(s, ".nN") {
			s += ".0"
		}

		return s

	default:
		return p.Text()
	}
}

// FormatJSON writes the parse tree of f as JSON.
func (f *File) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(f.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(f.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the parse tree of f as YAML.
func (f *File) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, f.ToMap(), indent)
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
