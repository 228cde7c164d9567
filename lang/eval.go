package lang

import (
	"fmt"
	"log/slog"
)

// Evaluate reduces e to a value, resolving identifiers in scope.
//
// Operands of a [BinaryOp] are evaluated left before right and then
// combined with [Apply]. Precedence and associativity are taken from the
// shape of the tree. Expressions have no side effects.
func Evaluate(scope Scope, e Expr) (Primitive, error) {
	switch e := e.(type) {
	case *Literal:
		if e == nil {
			break
		}

		return e.Value, nil

	case *Identifier:
		if e == nil {
			break
		}

		v, err := scope.Lookup(e.Name)

		return v, withPosition(err, e.Pos())

	case *Grouped:
		if e == nil {
			break
		}

		return Evaluate(scope, e.Inner)

	case *BinaryOp:
		if e == nil {
			break
		}

		l, err := Evaluate(scope, e.Left)
		if err != nil {
			return Primitive{}, err
		}

		r, err := Evaluate(scope, e.Right)
		if err != nil {
			return Primitive{}, err
		}

		v, err := Apply(e.Op, l, r)

		return v, withPosition(err, e.Pos())
	}

	return Primitive{}, contractViolation(e)
}

// contractViolation reports a parse tree node outside the known vocabulary,
// including typed nil nodes.
func contractViolation(n Node) error {
	return ErrParserContractViolation.With(
		slog.String("node", fmt.Sprintf("%T", n)),
	)
}
