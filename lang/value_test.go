package lang

import (
	"errors"
	"math"
	"testing"
)

func TestKindPriority(t *testing.T) {
	t.Parallel()

	kinds := Kinds()
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1].Priority() >= kinds[i].Priority() {
			t.Errorf("%s priority %d not less than %s priority %d",
				kinds[i-1], kinds[i-1].Priority(), kinds[i], kinds[i].Priority())
		}
	}

	want := []string{"Null", "Bool", "Int", "Float", "String"}
	for i, k := range kinds {
		if k.String() != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, k, want[i])
		}
	}
}

func TestPrimitiveText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value Primitive
		text  string
		debug string
	}{
		{Null(), "null", "Null"},
		{Bool(true), "true", "Bool(true)"},
		{Bool(false), "false", "Bool(false)"},
		{Int(-42), "-42", "Int(-42)"},
		{Float(2.5), "2.5", "Float(2.5)"},
		{Float(3), "3", "Float(3)"},
		{Float(0.1), "0.1", "Float(0.1)"},
		{Float(float32(math.Inf(1))), "inf", "Float(inf)"},
		{Float(float32(math.Inf(-1))), "-inf", "Float(-inf)"},
		{String("a b"), "a b", `String("a b")`},
	}

	for _, tt := range tests {
		t.Run(tt.debug, func(t *testing.T) {
			t.Parallel()

			if got := tt.value.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}

			if got := tt.value.String(); got != tt.debug {
				t.Errorf("String() = %q, want %q", got, tt.debug)
			}
		})
	}
}

func TestPrimitiveZeroValue(t *testing.T) {
	t.Parallel()

	var p Primitive

	if !p.IsNull() || !p.Equal(Null()) {
		t.Errorf("zero Primitive = %v, want Null", p)
	}

	if p.Native() != nil {
		t.Errorf("Native() = %v, want nil", p.Native())
	}
}

func TestPrimitiveEqual(t *testing.T) {
	t.Parallel()

	nan := Float(float32(math.NaN()))

	tests := []struct {
		name string
		a, b Primitive
		want bool
	}{
		{"same int", Int(1), Int(1), true},
		{"different int", Int(1), Int(2), false},
		{"int and float", Int(1), Float(1), false},
		{"strings", String("x"), String("x"), true},
		{"nulls", Null(), Null(), true},
		{"null and false", Null(), Bool(false), false},
		{"NaN", nan, nan, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPromote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  Primitive
		target Kind
		want   Primitive
	}{
		{"bool false to int", Bool(false), KindInt, Int(0)},
		{"bool true to int", Bool(true), KindInt, Int(1)},
		{"bool true to float", Bool(true), KindFloat, Float(1)},
		{"int to float", Int(-7), KindFloat, Float(-7)},
		{"null to string", Null(), KindString, String("null")},
		{"bool to string", Bool(true), KindString, String("true")},
		{"int to string", Int(12), KindString, String("12")},
		{"float to string", Float(1.5), KindString, String("1.5")},
		{"identity", String("s"), KindString, String("s")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Promote(tt.value, tt.target)
			if err != nil {
				t.Fatalf("Promote(%v, %s) error: %v", tt.value, tt.target, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Promote(%v, %s) = %v, want %v", tt.value, tt.target, got, tt.want)
			}
		})
	}
}

func TestPromoteNeverNarrows(t *testing.T) {
	t.Parallel()

	samples := map[Kind]Primitive{
		KindNull:   Null(),
		KindBool:   Bool(true),
		KindInt:    Int(1),
		KindFloat:  Float(1),
		KindString: String("1"),
	}

	for from, value := range samples {
		for _, to := range Kinds() {
			if to.Priority() >= from.Priority() {
				continue
			}

			_, err := Promote(value, to)
			if !errors.Is(err, ErrInvalidCoercion) {
				t.Errorf("Promote(%v, %s) error = %v, want ErrInvalidCoercion", value, to, err)
			}
		}
	}
}

func TestPromoteNull(t *testing.T) {
	t.Parallel()

	for _, to := range []Kind{KindBool, KindInt, KindFloat} {
		_, err := Promote(Null(), to)
		if !errors.Is(err, ErrInvalidCoercion) {
			t.Errorf("Promote(Null, %s) error = %v, want ErrInvalidCoercion", to, err)
		}
	}
}

func TestCoercionErrorAttrs(t *testing.T) {
	t.Parallel()

	_, err := Promote(String("x"), KindInt)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *Error", err)
	}

	from, _ := e.Attr("from")
	to, _ := e.Attr("to")

	if from.String() != "String" || to.String() != "Int" {
		t.Errorf("attrs from=%s to=%s, want from=String to=Int", from, to)
	}

	if got, want := err.Error(), "invalid coercion from=String to=Int"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
