package lang

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func dumpScope(t *testing.T) Scope {
	t.Helper()

	s := NewScope()

	for _, b := range []struct {
		name    string
		value   Primitive
		mutable bool
	}{
		{"a", Int(1), true},
		{"b", String(`x"y`), false},
		{"f", Float(2), false},
		{"n", Null(), false},
		{"t", Bool(true), true},
	} {
		if err := s.Declare(b.name, b.value, b.mutable); err != nil {
			t.Fatal(err)
		}
	}

	return s
}

func TestFileJSON(t *testing.T) {
	t.Parallel()

	f, err := parse(t.Context(), "1;", makeOptions())
	if err != nil {
		t.Fatal(err)
	}

	want := `{"statements":[{"expr":{"kind":"Int","pos":"1:1","type":"Literal","value":1},"pos":"1:1","type":"Expression"}]}`

	var buf bytes.Buffer
	if err := f.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("FormatJSON =\n%s\nwant\n%s", got, want)
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != want {
		t.Errorf("MarshalJSON =\n%s\nwant\n%s", data, want)
	}
}

func TestFileToMap(t *testing.T) {
	t.Parallel()

	f, err := parse(t.Context(), "let x = (a + 1); { // c\n}", makeOptions())
	if err != nil {
		t.Fatal(err)
	}

	stmts, ok := f.ToMap()["statements"].([]any)
	if !ok || len(stmts) != 2 {
		t.Fatalf("statements = %#v", f.ToMap()["statements"])
	}

	assign, _ := stmts[0].(map[string]any)
	if assign["type"] != "Assignment" || assign["keyword"] != "let" || assign["name"] != "x" {
		t.Errorf("assignment = %v", assign)
	}

	grouped, _ := assign["value"].(map[string]any)
	inner, _ := grouped["inner"].(map[string]any)

	if grouped["type"] != "Grouped" || inner["type"] != "BinaryOp" || inner["op"] != "+" {
		t.Errorf("value = %v", grouped)
	}

	block, _ := stmts[1].(map[string]any)
	body, _ := block["statements"].([]any)
	comment, _ := body[0].(map[string]any)

	if comment["type"] != "Comment" || comment["text"] != "// c" {
		t.Errorf("block = %v", block)
	}

	if NodeMap(nil) != nil {
		t.Error("NodeMap(nil) != nil")
	}
}

func TestFileYAML(t *testing.T) {
	t.Parallel()

	f, err := parse(t.Context(), `let s = "v";`, makeOptions())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := f.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"type: Assignment", "keyword: let", "kind: String", "value: v"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("FormatYAML output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDumpNative(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := DumpNative(&buf, dumpScope(t)); err != nil {
		t.Fatal(err)
	}

	want := `var a = 1;
let b = "x\"y";
let f = 2.0;
// n is null
var t = true;
`

	if got := buf.String(); got != want {
		t.Fatalf("DumpNative =\n%s\nwant\n%s", got, want)
	}

	// The dump recreates the bindings it describes.
	scope, _, err := execString(t, want)
	if err != nil {
		t.Fatalf("executing dump: %v", err)
	}

	for _, name := range []string{"a", "b", "f", "t"} {
		orig, _ := dumpScope(t).Lookup(name)
		if got, _ := scope.Lookup(name); !got.Equal(orig) {
			t.Errorf("%s = %v, want %v", name, got, orig)
		}
	}

	if err := scope.Assign("a", Int(5)); err != nil {
		t.Errorf("var binding not mutable after dump: %v", err)
	}
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	s := dumpScope(t)
	_ = s.Declare("inf", Float(float32(math.Inf(1))), false)

	var buf bytes.Buffer
	if err := DumpJSON(&buf, s, 0); err != nil {
		t.Fatal(err)
	}

	want := `{"a":1,"b":"x\"y","f":2,"inf":"inf","n":null,"t":true}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("DumpJSON = %s, want %s", got, want)
	}

	buf.Reset()

	if err := DumpJSON(&buf, s, 2); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "\n  \"a\": 1,") {
		t.Errorf("indented DumpJSON = %s", buf.String())
	}
}

func TestDumpYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := DumpYAML(t.Context(), &buf, dumpScope(t), 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"a: 1", "f: 2", "t: true"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("DumpYAML output missing %q:\n%s", want, buf.String())
		}
	}
}
