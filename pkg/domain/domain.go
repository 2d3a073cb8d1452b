package domain

import "fmt"

// ----------------------------------------------------------------------------
// Domain container

// Domain is the whole AST: the population produced by the surface-syntax parser (types,
// constants, predicates, actions, init, goal) plus whatever the LTL compiler appends
// (fresh types/constants/predicates/actions, extra init atoms, the rewritten goal) and
// the attached, compiled automaton.
//
// Lifecycle: 'surface' populates a Domain from source text. 'compiler' both mutates this
// same Domain (appending predicates, constants, actions, init atoms, goals) and owns the
// Automaton once attached - nothing is ever removed. 'emitter' is the only reader after
// compilation finishes.
type Domain struct {
	Name string // Domain name, as given by '(define (domain NAME) ...)'

	Types      []*Type         // All declared types, root-implicit
	Constants  []*Symbol       // All domain objects/constants
	PureFrom   int             // Index into Constants: everything at or after this was compiler-introduced
	Predicates []*Predicate    // All declared predicates, original-then-fresh
	Actions    []*ActionSchema // All declared actions, original-then-fresh

	InitAtoms   []*Atom   // Flat positive facts true in the initial state
	InitClauses []*Clause // Disjunctive initial-state knowledge
	InitOneOfs  []*OneOf  // Nondeterministic initial-state choices

	GoalPos     []*Atom   // Conjunctive positive goal atoms
	GoalNeg     []*Atom   // Conjunctive negative goal atoms
	GoalClauses []*Clause // Disjunctive goal clauses

	LTLGoal   *LTLNode   // The original LTL goal, nil if the problem has none; kept after compilation
	Automaton *Automaton // Attached once the compiler has built it, nil before then

	interned map[string]bool // String table: every fresh name is checked against this before use
}

// NewDomain allocates an empty Domain, name pre-set (as provided by the surface parser).
func NewDomain(name string) *Domain {
	return &Domain{Name: name, interned: make(map[string]bool)}
}

// Intern registers 'name' in the domain's string table, returning an error if it is
// already taken. The compiler interns its fresh constant and predicate names through this
// before inserting them; the surface parser does not intern, so a name is only checked
// against names interned before it.
func (d *Domain) Intern(name string) error {
	if d.interned == nil {
		d.interned = make(map[string]bool)
	}
	if d.interned[name] {
		return fmt.Errorf("symbol %q already declared", name)
	}
	d.interned[name] = true
	return nil
}

// TypeByName looks up a declared Type by print name, nil if absent.
func (d *Domain) TypeByName(name string) *Type {
	for _, t := range d.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// PredicateByName looks up a declared Predicate by print name, nil if absent.
func (d *Domain) PredicateByName(name string) *Predicate {
	for _, p := range d.Predicates {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ActionByName looks up a declared ActionSchema by print name, nil if absent.
func (d *Domain) ActionByName(name string) *ActionSchema {
	for _, a := range d.Actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SnapshotPredicates returns a copy of the current predicate list. The compiler calls
// this before it starts appending fresh predicates, so that later code iterating "every
// original predicate" sees the pre-compilation set even though Domain.Predicates itself
// keeps growing.
func (d *Domain) SnapshotPredicates() []*Predicate {
	out := make([]*Predicate, len(d.Predicates))
	copy(out, d.Predicates)
	return out
}

// SnapshotActions returns a copy of the current action list, for the same reason as
// SnapshotPredicates: original actions must be rewritten in place while fresh actions are
// appended, without the rewriting pass accidentally visiting its own output.
func (d *Domain) SnapshotActions() []*ActionSchema {
	out := make([]*ActionSchema, len(d.Actions))
	copy(out, d.Actions)
	return out
}

// AddConstant appends a new constant to the domain and, if 'typ' is non-nil, registers it
// as one of that type's elements (and every ancestor's, see Type.InsertElement).
func (d *Domain) AddConstant(name string, typ *Type) *Symbol {
	c := &Symbol{Name: name, Kind: ObjectSymbol, Parent: typ}
	d.Constants = append(d.Constants, c)
	if typ != nil {
		typ.InsertElement(c)
	}
	return c
}

// MarkPureFrom records that every constant from here on in Constants is a compilation-
// introduced ("pure") constant, distinct from the constants the surface domain declared.
func (d *Domain) MarkPureFrom() { d.PureFrom = len(d.Constants) }

// PureConstants returns the compilation-introduced subset of Constants.
func (d *Domain) PureConstants() []*Symbol {
	if d.PureFrom > len(d.Constants) {
		return nil
	}
	return d.Constants[d.PureFrom:]
}
