package lang

import (
	"errors"
	"testing"
)

// bogusExpr and bogusStmt are nodes outside the vocabulary produced by the
// parser.
type (
	bogusExpr struct{ Position }
	bogusStmt struct{ Position }
)

func (*bogusExpr) exprNode() {}
func (*bogusStmt) stmtNode() {}

func evalString(t *testing.T, scope Scope, src string) (Primitive, error) {
	t.Helper()

	return Evaluate(scope, parseExpr(t, src))
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	scope := NewScope()
	_ = scope.Declare("n", Int(7), false)
	_ = scope.Declare("half", Float(0.5), false)
	_ = scope.Declare("name", String("jamal"), false)
	_ = scope.Declare("yes", Bool(true), false)

	tests := []struct {
		src  string
		want Primitive
	}{
		{"1 + 1", Int(2)},
		{"2 + 3 * 4", Int(14)},
		{"(2 + 3) * 4", Int(20)},
		{"10 - 4 - 3", Int(3)},
		{"2 ^ 3 ^ 2", Int(512)},
		{"(2 ^ 3) ^ 2", Int(64)},
		{"7 / 2", Int(3)},
		{"7.0 / 2", Float(3.5)},
		{"n % 4", Int(3)},
		{"n * half", Float(3.5)},
		{"1 == 1.0", Bool(true)},
		{`"a" == 'a'`, Bool(true)},
		{`"n=" + 1 + 2`, String("n=12")},
		{`1 + 2 + "n"`, String("3n")},
		{`"hello, " + name`, String("hello, jamal")},
		{"1 + 1 == 2 && yes", Bool(true)},
		{"false || n != 7", Bool(false)},
		{"true + 1", Int(2)},
		{"yes == 1", Bool(true)},
		{`name + yes`, String("jamaltrue")},
		{"((n))", Int(7)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			got, err := evalString(t, scope, tt.src)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.src, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	scope := NewScope()

	tests := []struct {
		src  string
		want error
		pos  string
	}{
		{"missing", ErrUndefinedVariable, "1:1"},
		{"1 + missing", ErrUndefinedVariable, "1:5"},
		{"1 / 0", ErrDivisionByZero, "1:3"},
		{"1 && 2", ErrTypeMismatch, "1:3"},
		{`"a" - 1`, ErrUnsupportedOperator, "1:5"},
		{"true * false", ErrUnsupportedOperator, "1:6"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			_, err := evalString(t, scope, tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.src, err, tt.want)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if pos, ok := e.Attr("pos"); !ok || pos.String() != tt.pos {
				t.Errorf("pos = %v, want %s", pos, tt.pos)
			}

			if IsDefect(err) {
				t.Error("runtime error reported as defect")
			}
		})
	}
}

func TestEvaluateContractViolation(t *testing.T) {
	t.Parallel()

	scope := NewScope()

	tests := []struct {
		name string
		expr Expr
	}{
		{"nil", nil},
		{"unknown node", &bogusExpr{}},
		{"nil literal", (*Literal)(nil)},
		{"nested", &BinaryOp{Op: OpAdd, Left: &Literal{Value: Int(1)}, Right: &bogusExpr{}}},
		{"grouped nil", &Grouped{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Evaluate(scope, tt.expr)
			if !IsDefect(err) {
				t.Errorf("Evaluate error = %v, want contract violation", err)
			}
		})
	}
}

func TestEvaluateOperandOrder(t *testing.T) {
	t.Parallel()

	// The left operand fails first.
	_, err := evalString(t, NewScope(), "left + right")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *Error", err)
	}

	if name, _ := e.Attr("name"); name.String() != "left" {
		t.Errorf("first failure name = %s, want left", name)
	}
}

func TestHandleAssignment(t *testing.T) {
	t.Parallel()

	scope := NewScope()

	steps := []struct {
		stmt *Assignment
		want error
	}{
		{&Assignment{Keyword: KeywordVar, Name: "v", Value: &Literal{Value: Int(1)}}, nil},
		{&Assignment{Keyword: KeywordLet, Name: "l", Value: &Identifier{Name: "v"}}, nil},
		{&Assignment{Keyword: KeywordConst, Name: "c", Value: &Literal{Value: String("c")}}, nil},
		{&Assignment{Name: "v", Value: &Literal{Value: Int(2)}}, nil},
		{&Assignment{Name: "l", Value: &Literal{Value: Int(2)}}, ErrImmutableBinding},
		{&Assignment{Name: "c", Value: &Literal{Value: Int(2)}}, ErrImmutableBinding},
		{&Assignment{Keyword: KeywordVar, Name: "v", Value: &Literal{Value: Int(3)}}, ErrDuplicateDeclaration},
		{&Assignment{Name: "u", Value: &Literal{Value: Int(3)}}, ErrUndefinedVariable},
		{&Assignment{Keyword: KeywordLet, Name: "w", Value: &Identifier{Name: "u"}}, ErrUndefinedVariable},
		{&Assignment{Keyword: Keyword(9), Name: "k", Value: &Literal{}}, ErrParserContractViolation},
		{nil, ErrParserContractViolation},
	}

	for i, step := range steps {
		err := HandleAssignment(scope, step.stmt)

		if step.want == nil && err != nil {
			t.Fatalf("step %d error: %v", i, err)
		}

		if step.want != nil && !errors.Is(err, step.want) {
			t.Fatalf("step %d error = %v, want %v", i, err, step.want)
		}
	}

	want := map[string]Primitive{"v": Int(2), "l": Int(1), "c": String("c")}
	for name, v := range want {
		if got, _ := scope.Lookup(name); !got.Equal(v) {
			t.Errorf("Lookup(%s) = %v, want %v", name, got, v)
		}
	}

	if _, err := scope.Lookup("w"); !errors.Is(err, ErrUndefinedVariable) {
		t.Error("failed declaration created a binding")
	}
}
