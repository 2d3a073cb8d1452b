package domain

// ----------------------------------------------------------------------------
// Action schemas

// OneOf is a nondeterministic-choice effect block: exactly one of its branches, each a
// list of add/delete atoms, takes effect when the action fires. The compiler never
// introduces OneOf blocks itself (the LTL product is fully deterministic); this field
// exists so original-domain OneOf blocks round-trip through compilation untouched.
type OneOf struct {
	Branches [][]*Atom // Each branch is an add/delete atom list sharing one polarity set
}

// ActionSchema is a Symbol, a parameter list, a flat guard, direct add/delete sets, a
// list of Complex effect forms, a list of OneOf blocks, and a list of disjunctive
// precondition clauses (filled from '(or ...)' in a surface precondition and printed as
// part of the precondition).
type ActionSchema struct {
	Symbol
	Params   []*Variable // Ordered, typed parameter list
	GuardPos []*Atom     // Flat precondition: positive conjuncts
	GuardNeg []*Atom     // Flat precondition: negative conjuncts
	Adds     []*Atom     // Unconditional add effects
	Dels     []*Atom     // Unconditional delete effects
	Effects  []*Complex  // Conditional/quantified effect forms
	OneOfs   []*OneOf    // Nondeterministic-choice effect blocks
	Clausal  []*Clause   // Disjunctive precondition clauses, conjoined with the flat guard
}

// NewActionSchema allocates a fresh, otherwise-empty ActionSchema.
func NewActionSchema(name string, params ...*Variable) *ActionSchema {
	return &ActionSchema{Symbol: Symbol{Name: name, Kind: ActionSym}, Params: params}
}

// AddPrecondition appends a positive or negative literal to the flat guard.
func (a *ActionSchema) AddPrecondition(atom *Atom) {
	if atom.Negated {
		a.GuardNeg = append(a.GuardNeg, atom)
	} else {
		a.GuardPos = append(a.GuardPos, atom)
	}
}

// ParamByName looks up one of the schema's own parameters by print name, nil if absent.
func (a *ActionSchema) ParamByName(name string) *Variable {
	for _, p := range a.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
