package lang

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expect checks a boolean predicate against the bindings visible from
// scope.
//
// The predicate is an expr-lang expression (for example, `n == 2 && ok`)
// in which every visible binding is a variable. Int values are exposed as
// int and Float values as float64. Expect fails with [ErrExpectation] if the
// predicate does not compile, does not yield a bool, or yields false.
func Expect(_ context.Context, scope Scope, predicate string) error {
	env := exprEnv(scope)
	attr := slog.String("predicate", predicate)

	program, err := expr.Compile(predicate, expr.Env(env), expr.AsBool())
	if err != nil {
		return ErrExpectation.Wrap(err).With(attr)
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return ErrExpectation.Wrap(err).With(attr)
	}

	if ok, _ := out.(bool); !ok {
		return ErrExpectation.With(attr)
	}

	return nil
}

// ExpectAll checks each predicate in order and returns the first failure.
func ExpectAll(ctx context.Context, scope Scope, predicates ...string) error {
	for _, p := range predicates {
		if err := Expect(ctx, scope, p); err != nil {
			return err
		}
	}

	return nil
}

func exprEnv(scope Scope) map[string]any {
	vis := scope.Visible()
	env := make(map[string]any, len(vis))

	for name, v := range vis {
		switch v.Kind() {
		case KindInt:
			env[name] = int(v.IntValue())
		case KindFloat:
			env[name] = float64(v.FloatValue())
		default:
			env[name] = v.Native()
		}
	}

	return env
}

