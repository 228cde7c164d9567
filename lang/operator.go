package lang

import (
	"log/slog"
	"math"
	"strconv"
)

// Operator identifies a binary operator. The zero value is invalid.
type Operator uint8

const (
	OpAdd Operator = iota + 1 // +
	OpSub                     // -
	OpMul                     // *
	OpDiv                     // /
	OpPow                     // ^
	OpMod                     // %
	OpAnd                     // &&
	OpOr                      // ||
	OpEq                      // ==
	OpNe                      // !=
)

//nolint:gochecknoglobals
var operatorInfo = [...]struct {
	name   string
	symbol string
	prec   int
}{
	OpAdd: {"Add", "+", 3},
	OpSub: {"Sub", "-", 3},
	OpMul: {"Mul", "*", 4},
	OpDiv: {"Div", "/", 4},
	OpPow: {"Pow", "^", 5},
	OpMod: {"Mod", "%", 4},
	OpAnd: {"And", "&&", 1},
	OpOr:  {"Or", "||", 1},
	OpEq:  {"Eq", "==", 2},
	OpNe:  {"Ne", "!=", 2},
}

// Operators returns every valid operator.
func Operators() []Operator {
	return []Operator{
		OpAdd, OpSub, OpMul, OpDiv, OpPow, OpMod, OpAnd, OpOr, OpEq, OpNe,
	}
}

// Valid reports whether op is one of the defined operators.
func (op Operator) Valid() bool {
	return op >= OpAdd && op <= OpNe
}

func (op Operator) String() string {
	if !op.Valid() {
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}

	return operatorInfo[op].name
}

// Symbol returns the source text of op.
func (op Operator) Symbol() string {
	if !op.Valid() {
		return "?"
	}

	return operatorInfo[op].symbol
}

// Precedence returns the binding strength of op; higher binds tighter.
// Invalid operators have precedence 0.
func (op Operator) Precedence() int {
	if !op.Valid() {
		return 0
	}

	return operatorInfo[op].prec
}

// RightAssociative reports whether op groups right-to-left. Only [OpPow]
// does.
func (op Operator) RightAssociative() bool { return op == OpPow }

// Arithmetic reports whether op is one of + - * / ^ %.
func (op Operator) Arithmetic() bool { return op >= OpAdd && op <= OpMod }

// LookupOperator returns the operator spelled by symbol.
func LookupOperator(symbol string) (Operator, bool) {
	for _, op := range Operators() {
		if operatorInfo[op].symbol == symbol {
			return op, true
		}
	}

	return 0, false
}

// Apply combines left and right with op.
//
// Both operands are first promoted to the higher-priority of their kinds,
// which becomes the kind of the result (except for == and !=, which always
// yield Bool).
func Apply(op Operator, left, right Primitive) (Primitive, error) {
	if !op.Valid() {
		return Primitive{}, unsupported(op, left.kind)
	}

	kind := max(left.kind, right.kind)

	l, err := Promote(left, kind)
	if err != nil {
		return Primitive{}, err
	}

	r, err := Promote(right, kind)
	if err != nil {
		return Primitive{}, err
	}

	switch op {
	case OpEq:
		return Bool(l.Equal(r)), nil
	case OpNe:
		return Bool(!l.Equal(r)), nil
	}

	switch kind {
	case KindBool:
		switch op {
		case OpAnd:
			return Bool(l.b && r.b), nil
		case OpOr:
			return Bool(l.b || r.b), nil
		}

	case KindInt, KindFloat:
		if !op.Arithmetic() {
			return Primitive{}, ErrTypeMismatch.With(
				slog.String("op", op.Symbol()),
				slog.String("left", left.kind.String()),
				slog.String("right", right.kind.String()),
			)
		}

		if kind == KindInt {
			return applyInt(op, l.i, r.i)
		}

		return applyFloat(op, l.f, r.f)

	case KindString:
		if op == OpAdd {
			return String(l.s + r.s), nil
		}
	}

	return Primitive{}, unsupported(op, kind)
}

func unsupported(op Operator, kind Kind) error {
	return ErrUnsupportedOperator.With(
		slog.String("op", op.Symbol()),
		slog.String("kind", kind.String()),
	)
}

// applyInt performs 32-bit two's complement arithmetic.
func applyInt(op Operator, l, r int32) (Primitive, error) {
	switch op {
	case OpAdd:
		return Int(l + r), nil
	case OpSub:
		return Int(l - r), nil
	case OpMul:
		return Int(l * r), nil
	case OpDiv:
		if r == 0 {
			return Primitive{}, ErrDivisionByZero
		}

		return Int(l / r), nil
	case OpMod:
		if r == 0 {
			return Primitive{}, ErrDivisionByZero
		}

		return Int(l % r), nil
	case OpPow:
		return powInt(l, r)
	default:
		return Primitive{}, unsupported(op, KindInt)
	}
}

// powInt computes base^exp by squaring. Negative exponents truncate toward
// zero, so only bases 1 and -1 produce a nonzero result.
func powInt(base, exp int32) (Primitive, error) {
	if exp < 0 {
		switch base {
		case 0:
			return Primitive{}, ErrDivisionByZero
		case 1:
			return Int(1), nil
		case -1:
			if exp%2 == 0 {
				return Int(1), nil
			}

			return Int(-1), nil
		default:
			return Int(0), nil
		}
	}

	result := int32(1)

	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}

		base *= base
		exp >>= 1
	}

	return Int(result), nil
}

// applyFloat computes in float64 and rounds the result to float32.
func applyFloat(op Operator, l, r float32) (Primitive, error) {
	x, y := float64(l), float64(r)

	switch op {
	case OpAdd:
		return Float(float32(x + y)), nil
	case OpSub:
		return Float(float32(x - y)), nil
	case OpMul:
		return Float(float32(x * y)), nil
	case OpDiv:
		if y == 0 {
			return Primitive{}, ErrDivisionByZero
		}

		return Float(float32(x / y)), nil
	case OpMod:
		if y == 0 {
			return Primitive{}, ErrDivisionByZero
		}

		return Float(float32(math.Mod(x, y))), nil
	case OpPow:
		return Float(float32(math.Pow(x, y))), nil
	default:
		return Primitive{}, unsupported(op, KindFloat)
	}
}
