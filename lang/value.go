package lang

import (
	"log/slog"
	"math"
	"strconv"
)

// Kind identifies one of the closed set of primitive value kinds.
//
// Kinds are declared in coercion-priority order: a binary operation
// promotes both operands toward the kind with the higher priority.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Kinds returns all kinds in ascending priority order.
func Kinds() []Kind {
	return []Kind{KindNull, KindBool, KindInt, KindFloat, KindString}
}

// Priority returns the coercion priority of k.
func (k Kind) Priority() int { return int(k) }

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Primitive is a tagged value of one of the five [Kind]s.
//
// The zero value is Null. Primitives are immutable and compared with
// [Primitive.Equal].
type Primitive struct {
	kind Kind
	b    bool
	i    int32
	f    float32
	s    string
}

// Null returns the Null primitive.
func Null() Primitive { return Primitive{} }

// Bool returns a Bool primitive.
func Bool(v bool) Primitive { return Primitive{kind: KindBool, b: v} }

// Int returns an Int primitive.
func Int(v int32) Primitive { return Primitive{kind: KindInt, i: v} }

// Float returns a Float primitive.
func Float(v float32) Primitive { return Primitive{kind: KindFloat, f: v} }

// String returns a String primitive.
func String(v string) Primitive { return Primitive{kind: KindString, s: v} }

// Kind returns the kind of p.
func (p Primitive) Kind() Kind { return p.kind }

// IsNull reports whether p is Null.
func (p Primitive) IsNull() bool { return p.kind == KindNull }

// BoolValue returns the payload of a Bool primitive, or false.
func (p Primitive) BoolValue() bool { return p.b }

// IntValue returns the payload of an Int primitive, or 0.
func (p Primitive) IntValue() int32 { return p.i }

// FloatValue returns the payload of a Float primitive, or 0.
func (p Primitive) FloatValue() float32 { return p.f }

// StringValue returns the payload of a String primitive, or "".
// Use [Primitive.Text] for the canonical text of any kind.
func (p Primitive) StringValue() string { return p.s }

// Equal reports structural equality: same kind and same payload.
// Float payloads compare with IEEE semantics, so NaN is unequal to itself.
func (p Primitive) Equal(q Primitive) bool {
	if p.kind != q.kind {
		return false
	}

	switch p.kind {
	case KindNull:
		return true
	case KindBool:
		return p.b == q.b
	case KindInt:
		return p.i == q.i
	case KindFloat:
		return p.f == q.f
	case KindString:
		return p.s == q.s
	default:
		return false
	}
}

// Text returns the canonical text of p, used for String promotion and
// concatenation.
func (p Primitive) Text() string {
	switch p.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(p.b)
	case KindInt:
		return strconv.FormatInt(int64(p.i), 10)
	case KindFloat:
		return formatFloat(p.f)
	case KindString:
		return p.s
	default:
		return ""
	}
}

func formatFloat(f float32) string {
	switch {
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	case math.IsNaN(float64(f)):
		return "NaN"
	default:
		return strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
}

// String returns a debugging representation such as Int(2) or
// String("a").
func (p Primitive) String() string {
	switch p.kind {
	case KindNull:
		return "Null"
	case KindString:
		return "String(" + strconv.Quote(p.s) + ")"
	default:
		return p.kind.String() + "(" + p.Text() + ")"
	}
}

// Native returns p as a Go value: nil, bool, int32, float32 or string.
func (p Primitive) Native() any {
	switch p.kind {
	case KindBool:
		return p.b
	case KindInt:
		return p.i
	case KindFloat:
		return p.f
	case KindString:
		return p.s
	default:
		return nil
	}
}

// LogValue implements slog.LogValuer.
func (p Primitive) LogValue() slog.Value {
	return slog.StringValue(p.String())
}

// Promote converts p to the target kind, which must have a priority
// greater than or equal to that of p. It never narrows.
//
// Bool promotes to Int as 0 or 1 (and to Float through Int), Int widens to
// Float, and every kind promotes to String as its canonical [Primitive.Text].
// Null only promotes to String.
func Promote(p Primitive, target Kind) (Primitive, error) {
	if p.kind == target {
		return p, nil
	}

	if target.Priority() < p.kind.Priority() || target > KindString {
		return Primitive{}, coercionError(p.kind, target)
	}

	switch target {
	case KindString:
		return String(p.Text()), nil

	case KindInt:
		if p.kind == KindBool {
			return Int(boolInt(p.b)), nil
		}

	case KindFloat:
		switch p.kind {
		case KindBool:
			return Float(float32(boolInt(p.b))), nil
		case KindInt:
			return Float(float32(p.i)), nil
		}
	}

	return Primitive{}, coercionError(p.kind, target)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}

	return 0
}

func coercionError(from, to Kind) error {
	return ErrInvalidCoercion.With(
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}
