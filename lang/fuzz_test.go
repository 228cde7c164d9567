package lang

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that the parser never panics, that formatted output
// parses back and formats identically, and that executing a parsed program
// never reports a defect.
func FuzzParse(f *testing.F) {
	f.Add("let a = 1;")
	f.Add(`var s = "x" + 'y' + 1.5;`)
	f.Add("1 + 2 * 3 ^ 4 ^ 5 % 6 - 7 / 8;")
	f.Add("a == b && c != d || true;")
	f.Add("{ let x = 1; { x; } }")
	f.Add("// comment\n/* block\ncomment */ x = 1;")
	f.Add("let n = -.5e-3; n = +12E+2;")
	f.Add(`"unterminated`)
	f.Add("((((")
	f.Add("let = ;")
	f.Add("1; /* trailing */ 2; // end")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		file, err := parse(t.Context(), input, makeOptions(WithMaxDepth(64)))
		if err != nil {
			return
		}

		var out bytes.Buffer
		if err := file.Format(t.Context(), &out, 2); err != nil {
			t.Fatalf("Format error: %v", err)
		}

		again, err := parse(t.Context(), out.String(), makeOptions(WithMaxDepth(128)))
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\ninput: %q\noutput: %q", err, input, out.String())
		}

		var out2 bytes.Buffer
		if err := again.Format(t.Context(), &out2, 2); err != nil {
			t.Fatalf("Format error: %v", err)
		}

		if out.String() != out2.String() {
			t.Fatalf("Format is not idempotent:\n%q\n%q", out.String(), out2.String())
		}

		if _, err := Execute(t.Context(), NewScope(), file.Statements...); IsDefect(err) {
			t.Fatalf("defect executing %q: %v", input, err)
		}
	})
}
