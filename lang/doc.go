// Package lang implements JAMAL, a small string manipulation-focused
// scripting language.
//
// A JAMAL program is a sequence of statements. Each statement either binds a
// name to the value of an expression or evaluates an expression for its
// value. Values are primitives of five kinds, and binary operators promote
// their operands toward the kind with the higher priority, so that
// "a" + 1 yields "a1" and 1 + 2.5 yields 3.5.
//
// # Grammar
//
// Informal EBNF:
//
//	File        → Statement* EOF
//	Statement   → Block | (Assignment | Expression) ';'
//	Block       → '{' Statement* '}'
//	Assignment  → Keyword? Identifier '=' Expression
//	Keyword     → 'let' | 'const' | 'var'
//	Expression  → Operand (Operator Operand)*
//	Operand     → Literal | Identifier | '(' Expression ')'
//	Literal     → Number | String | 'true' | 'false'
//	Operator    → '^' | '*' | '/' | '%' | '+' | '-' | '==' | '!=' | '&&' | '||'
//
// Operators bind from tightest to loosest in the order ^, then * / %, then
// + -, then == !=, then && ||. All are left-associative except ^.
//
// Numbers without a decimal point are 32-bit signed integers; numbers with
// one are 32-bit floats. Strings are enclosed in double or single quotes,
// may span lines, and recognize the escapes \n \t \r \0 \\ \" and \'.
// Line comments start with // and block comments are enclosed in /* */.
//
// # Example
//
//	// greeting
//	let name = "world";
//	var count = 1;
//	count = count + 1;
//	{
//	  let name = "block";      // shadows the outer name
//	  "hello, " + name;
//	}
//	"hello, " + name + " x" + count;
//
// # Scoping
//
// Bindings live in a tree of scopes. A program runs in the root scope and
// every block runs in a new child scope that is released when the block
// finishes. Lookup searches the current scope and then its ancestors, so an
// inner declaration shadows an outer one.
//
// Declarations made with let or const are immutable; those made with var
// may be reassigned. A statement without a keyword reassigns the nearest
// visible binding in the scope that owns it.
//
// # Errors
//
// Runtime failures are returned as *[Error] values derived from the
// sentinels declared in this package and can be tested with [errors.Is].
// Syntax errors are returned as *[ParseError]. [IsDefect] distinguishes an
// internal parser and evaluator mismatch from a faulty program.
package lang
