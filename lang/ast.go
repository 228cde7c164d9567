package lang

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Position is a location in source text. Line and Column are 1-based and
// count runes; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Pos returns p. It lets node types embed Position to satisfy [Node].
func (p Position) Pos() Position { return p }

// IsValid reports whether p refers to a location in source text.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is any element of a parse tree.
type Node interface {
	Pos() Position
}

// Stmt is a statement node: [*Assignment], [*ExprStmt], [*Block] or
// [*Comment].
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node: [*Literal], [*Identifier], [*Grouped] or
// [*BinaryOp].
type Expr interface {
	Node
	exprNode()
}

// Keyword is the optional declaration keyword of an assignment.
type Keyword uint8

const (
	KeywordNone  Keyword = iota // reassignment
	KeywordLet                  // let
	KeywordConst                // const
	KeywordVar                  // var
)

// Declares reports whether k introduces a new binding.
func (k Keyword) Declares() bool { return k != KeywordNone }

// Mutable reports whether a binding declared with k may be reassigned.
func (k Keyword) Mutable() bool { return k == KeywordVar }

func (k Keyword) String() string {
	switch k {
	case KeywordLet:
		return "let"
	case KeywordConst:
		return "const"
	case KeywordVar:
		return "var"
	default:
		return ""
	}
}

func lookupKeyword(word string) (Keyword, bool) {
	switch word {
	case "let":
		return KeywordLet, true
	case "const":
		return KeywordConst, true
	case "var":
		return KeywordVar, true
	default:
		return KeywordNone, false
	}
}

// File is the parse tree of a complete JAMAL source text.
// A File is immutable once parsed and may be shared.
type File struct {
	Statements []Stmt
}

// All returns an iterator over the top-level statements.
func (f *File) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		for _, s := range f.Statements {
			if !yield(s) {
				return
			}
		}
	}
}

type (
	// Assignment is "[keyword] name = value".
	Assignment struct {
		Position
		Keyword Keyword
		Name    string
		Value   Expr
	}

	// ExprStmt is a bare expression evaluated for its value.
	ExprStmt struct {
		Position
		X Expr
	}

	// Block is "{ statements }", executed in its own child scope.
	Block struct {
		Position
		Statements []Stmt
	}

	// Comment is a line or block comment at statement level, including its
	// delimiters. Trailing is set when it follows other code on the same
	// line.
	Comment struct {
		Position
		Text     string
		Trailing bool
	}
)

func (*Assignment) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*Block) stmtNode()      {}
func (*Comment) stmtNode()    {}

type (
	// Literal is a constant. Raw holds its source spelling.
	Literal struct {
		Position
		Value Primitive
		Raw   string
	}

	// Identifier is a reference to a binding.
	Identifier struct {
		Position
		Name string
	}

	// Grouped is a parenthesized expression.
	Grouped struct {
		Position
		Inner Expr
	}

	// BinaryOp is "left op right".
	BinaryOp struct {
		Position
		Op    Operator
		Left  Expr
		Right Expr
	}
)

func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*Grouped) exprNode()    {}
func (*BinaryOp) exprNode()   {}

// Print writes an indented debugging representation of the parse tree.
func (f *File) Print(ctx context.Context, w io.Writer) error {
	p := &printer{w: w}

	for _, s := range f.Statements {
		p.node(ctx, s, 0)
	}

	return p.err
}

// PrintNode writes an indented debugging representation of n.
func PrintNode(ctx context.Context, w io.Writer, n Node) error {
	p := &printer{w: w}
	p.node(ctx, n, 0)

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, item ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(
		p.w, strings.Repeat("  ", indent)+strings.Join(item, ": ")+"\n",
	)
}

func (p *printer) node(ctx context.Context, n Node, indent int) {
	if n == nil {
		p.line(indent, "(nil)")

		return
	}

	pos := n.Pos().String()

	switch n := n.(type) {
	case *Assignment:
		head := "Assignment"
		if n.Keyword.Declares() {
			head += " " + n.Keyword.String()
		}

		p.line(indent, head, n.Name, pos)
		p.node(ctx, n.Value, indent+1)

	case *ExprStmt:
		p.line(indent, "Expression", pos)
		p.node(ctx, n.X, indent+1)

	case *Block:
		p.line(indent, "Block", pos)

		for _, s := range n.Statements {
			p.node(ctx, s, indent+1)
		}

	case *Comment:
		p.line(indent, "Comment", strconv.Quote(n.Text), pos)

	case *Literal:
		p.line(indent, "Literal", n.Value.String(), pos)

	case *Identifier:
		p.line(indent, "Identifier", n.Name, pos)

	case *Grouped:
		p.line(indent, "Grouped", pos)
		p.node(ctx, n.Inner, indent+1)

	case *BinaryOp:
		p.line(indent, "BinaryOp", n.Op.String()+" "+n.Op.Symbol(), pos)
		p.node(ctx, n.Left, indent+1)
		p.node(ctx, n.Right, indent+1)

	default:
		p.line(indent, fmt.Sprintf("%T", n), pos)
	}
}
