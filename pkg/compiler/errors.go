package compiler

import "fmt"

// InvariantError reports a failure of one of the compiler's own invariants (e.g. "every
// transition endpoint exists", "every negated fluent has a prior declaration"). Unlike
// the translator's and parser's own error kinds, this one indicates a bug either in the
// translator or in the compiler itself, never bad user input - so it is kept as a
// distinct type rather than reusing a generic error, letting callers tell the two apart.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string { return fmt.Sprintf("compile: %s", e.Reason) }
