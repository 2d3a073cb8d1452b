package domain

// ----------------------------------------------------------------------------
// Predicates

// A Predicate is a Symbol plus an ordered parameter list of typed Variables. Two
// Predicates are the same predicate iff they are the same pointer - the domain's
// predicate list is the single source of truth an Atom's Pred field must point into.
type Predicate struct {
	Symbol
	Params []*Variable // Ordered, typed parameter list
}

// NewPredicate allocates a fresh zero-or-more-arity Predicate.
func NewPredicate(name string, params ...*Variable) *Predicate {
	return &Predicate{Symbol: Symbol{Name: name, Kind: PredicateSym}, Params: params}
}

// Arity returns the number of parameters the predicate takes.
func (p *Predicate) Arity() int { return len(p.Params) }
