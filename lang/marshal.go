package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// MarshalJSON implements json.Marshaler for File.
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToMap())
}

// ToMap converts the parse tree to nested maps and slices suitable for
// JSON or YAML encoding.
func (f *File) ToMap() map[string]any {
	return map[string]any{"statements": nodeList(f.Statements)}
}

func nodeList(stmts []Stmt) []any {
	list := make([]any, 0, len(stmts))
	for _, s := range stmts {
		list = append(list, NodeMap(s))
	}

	return list
}

// NodeMap converts one node and its children to a map keyed by field name.
func NodeMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{"pos": n.Pos().String()}

	switch n := n.(type) {
	case *Assignment:
		m["type"] = "Assignment"
		if n.Keyword.Declares() {
			m["keyword"] = n.Keyword.String()
		}

		m["name"] = n.Name
		m["value"] = NodeMap(n.Value)

	case *ExprStmt:
		m["type"] = "Expression"
		m["expr"] = NodeMap(n.X)

	case *Block:
		m["type"] = "Block"
		m["statements"] = nodeList(n.Statements)

	case *Comment:
		m["type"] = "Comment"
		m["text"] = n.Text

	case *Literal:
		m["type"] = "Literal"
		m["kind"] = n.Value.Kind().String()
		m["value"] = nativeValue(n.Value)

	case *Identifier:
		m["type"] = "Identifier"
		m["name"] = n.Name

	case *Grouped:
		m["type"] = "Grouped"
		m["inner"] = NodeMap(n.Inner)

	case *BinaryOp:
		m["type"] = "BinaryOp"
		m["op"] = n.Op.Symbol()
		m["left"] = NodeMap(n.Left)
		m["right"] = NodeMap(n.Right)

	default:
		m["type"] = fmt.Sprintf("%T", n)
	}

	return m
}

// nativeValue is [Primitive.Native] with non-finite floats replaced by their
// text, which JSON cannot represent.
func nativeValue(p Primitive) any {
	if p.Kind() == KindFloat {
		f := float64(p.FloatValue())
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return p.Text()
		}
	}

	return p.Native()
}

// DumpMap returns the native value of every binding visible from scope,
// with non-finite floats rendered as text.
func DumpMap(scope Scope) map[string]any {
	vis := scope.Visible()
	m := make(map[string]any, len(vis))

	for name, v := range vis {
		m[name] = nativeValue(v)
	}

	return m
}

// DumpJSON writes the bindings visible from scope as a JSON object.
func DumpJSON(w io.Writer, scope Scope, indent int) error {
	enc := json.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(DumpMap(scope))
}

// DumpYAML writes the bindings visible from scope as a YAML mapping.
func DumpYAML(ctx context.Context, w io.Writer, scope Scope, indent int) error {
	return writeYAML(ctx, w, DumpMap(scope), indent)
}

// DumpNative writes the bindings visible from scope as JAMAL declarations,
// sorted by name, that recreate them when executed. Null values have no
// literal and are written as comments.
func DumpNative(w io.Writer, scope Scope) error {
	var sb strings.Builder

	for _, name := range scope.Names() {
		_, b, err := scope.Resolve(name)
		if err != nil {
			return err
		}

		if b.Value.IsNull() {
			fmt.Fprintf(&sb, "// %s is null\n", name)

			continue
		}

		kw := KeywordLet
		if b.Mutable {
			kw = KeywordVar
		}

		fmt.Fprintf(&sb, "%s %s = %s;\n", kw, name, FormatResult(b.Value))
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
