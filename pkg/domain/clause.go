package domain

// ----------------------------------------------------------------------------
// Clauses

// A Clause is a set of positive atoms and a set of negative atoms; semantically their
// disjunction. Clauses back the domain's disjunctive init/goal blocks, the disjunctive
// preconditions of actions (ActionSchema.Clausal) and CNF effect guards
// (Complex.GuardClauses).
type Clause struct {
	Pos []*Atom // Positive literals of the disjunction
	Neg []*Atom // Negative literals of the disjunction
}

// NewClause builds a Clause from explicit positive/negative literal lists.
func NewClause(pos, neg []*Atom) *Clause {
	return &Clause{Pos: pos, Neg: neg}
}

// Len returns the total literal count, used by the emitter to decide whether a clause
// needs an explicit '(or ...)' wrapper or can be printed as a bare single literal.
func (c *Clause) Len() int { return len(c.Pos) + len(c.Neg) }
