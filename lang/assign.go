package lang

// HandleAssignment executes an assignment in scope.
//
// The value is evaluated first. Without a keyword the statement reassigns
// the nearest visible binding in the scope that owns it. With let or const it
// declares an immutable binding in scope, and with var a mutable one.
func HandleAssignment(scope Scope, a *Assignment) error {
	if a == nil || a.Keyword > KeywordVar {
		return contractViolation(a)
	}

	v, err := Evaluate(scope, a.Value)
	if err != nil {
		return err
	}

	if a.Keyword.Declares() {
		err = scope.Declare(a.Name, v, a.Keyword.Mutable())
	} else {
		err = scope.Assign(a.Name, v)
	}

	return withPosition(err, a.Pos())
}
