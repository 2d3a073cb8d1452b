package surface

import (
	"fmt"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// buildGuard interprets a goal-description sexpr - the grammar shared by :precondition and
// a 'when' effect's own guard - into flat positive/negative atom sets plus any disjunctive
// clauses. '(and ...)' flattens recursively, '(or ...)' becomes one Clause, '(not X)' only
// ever wraps a bare atom (this surface syntax has no nested negated conjunctions/clauses),
// and anything else is itself a bare atom reference.
func (b *builder) buildGuard(s *sexpr) (pos, neg []*domain.Atom, clauses []*domain.Clause, err error) {
	if !s.list || len(s.items) == 0 {
		return nil, nil, nil, fmt.Errorf("surface: empty guard expression")
	}
	switch s.items[0].atom {
	case "and":
		for _, child := range s.items[1:] {
			p, n, c, err := b.buildGuard(child)
			if err != nil {
				return nil, nil, nil, err
			}
			pos, neg, clauses = append(pos, p...), append(neg, n...), append(clauses, c...)
		}
		return pos, neg, clauses, nil
	case "not":
		if len(s.items) != 2 {
			return nil, nil, nil, fmt.Errorf("surface: '(not ...)' takes exactly one argument")
		}
		atom, err := b.resolveAtom(s.items[1])
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, []*domain.Atom{atom}, nil, nil
	case "or":
		var clausePos, clauseNeg []*domain.Atom
		for _, disjunct := range s.items[1:] {
			if disjunct.list && len(disjunct.items) == 2 && disjunct.items[0].atom == "not" {
				atom, err := b.resolveAtom(disjunct.items[1])
				if err != nil {
					return nil, nil, nil, err
				}
				clauseNeg = append(clauseNeg, atom)
				continue
			}
			atom, err := b.resolveAtom(disjunct)
			if err != nil {
				return nil, nil, nil, err
			}
			clausePos = append(clausePos, atom)
		}
		return nil, nil, []*domain.Clause{domain.NewClause(clausePos, clauseNeg)}, nil
	default:
		atom, err := b.resolveAtom(s)
		if err != nil {
			return nil, nil, nil, err
		}
		return []*domain.Atom{atom}, nil, nil, nil
	}
}

// applyPrecondition installs a parsed guard as the action's flat precondition plus any
// disjunctive clauses onto its Clausal list.
func (b *builder) applyPrecondition(a *domain.ActionSchema, s *sexpr) error {
	pos, neg, clauses, err := b.buildGuard(s)
	if err != nil {
		return err
	}
	a.GuardPos = append(a.GuardPos, pos...)
	a.GuardNeg = append(a.GuardNeg, neg...)
	a.Clausal = append(a.Clausal, clauses...)
	return nil
}

// applyEffect walks an effect sexpr, appending directly to 'a': plain atoms/negations join
// Adds/Dels, 'when'/'forall' become Complex entries, 'oneof' becomes a OneOf block, and
// 'and' flattens into its children applied in turn - an action's flat effect fields and
// its Effects/OneOfs lists coexist exactly the way the surface text interleaves them.
func (b *builder) applyEffect(a *domain.ActionSchema, s *sexpr) error {
	if !s.list || len(s.items) == 0 {
		return fmt.Errorf("surface: empty effect expression")
	}
	switch s.items[0].atom {
	case "and":
		for _, child := range s.items[1:] {
			if err := b.applyEffect(a, child); err != nil {
				return err
			}
		}
		return nil
	case "not":
		if len(s.items) != 2 {
			return fmt.Errorf("surface: '(not ...)' takes exactly one argument")
		}
		atom, err := b.resolveAtom(s.items[1])
		if err != nil {
			return err
		}
		a.Dels = append(a.Dels, atom)
		return nil
	case "when":
		c, err := b.buildComplex(s)
		if err != nil {
			return err
		}
		a.Effects = append(a.Effects, c)
		return nil
	case "forall":
		c, err := b.buildForall(s)
		if err != nil {
			return err
		}
		a.Effects = append(a.Effects, c)
		return nil
	case "oneof":
		o, err := b.buildOneOf(s)
		if err != nil {
			return err
		}
		a.OneOfs = append(a.OneOfs, o)
		return nil
	default:
		atom, err := b.resolveAtom(s)
		if err != nil {
			return err
		}
		a.Adds = append(a.Adds, atom)
		return nil
	}
}

// buildComplex interprets a '(when GUARD EFFECT)' sexpr into an unquantified Complex.
func (b *builder) buildComplex(s *sexpr) (*domain.Complex, error) {
	if len(s.items) != 3 {
		return nil, fmt.Errorf("surface: 'when' takes exactly a guard and an effect body")
	}
	pos, neg, clauses, err := b.buildGuard(s.items[1])
	if err != nil {
		return nil, err
	}
	adds, dels, err := b.collectEffectAtoms(s.items[2])
	if err != nil {
		return nil, err
	}
	c := &domain.Complex{Adds: adds, Dels: dels}
	if len(clauses) > 0 {
		// A Complex carries either a flat or a CNF guard, so flat conjuncts become unit clauses.
		for _, p := range pos {
			clauses = append(clauses, domain.NewClause([]*domain.Atom{p}, nil))
		}
		for _, n := range neg {
			clauses = append(clauses, domain.NewClause(nil, []*domain.Atom{n}))
		}
		c.GuardClauses = clauses
	} else {
		c.GuardPos, c.GuardNeg = pos, neg
	}
	return c, nil
}

// buildForall interprets a '(forall (?v - type ...) EFFECT)' sexpr, where EFFECT is
// typically itself a 'when' form but may be a plain conditional-free effect body.
func (b *builder) buildForall(s *sexpr) (*domain.Complex, error) {
	if len(s.items) != 3 || !s.items[1].list {
		return nil, fmt.Errorf("surface: 'forall' takes a parameter list and an effect body")
	}
	vars, err := b.typedVariables(s.items[1].items)
	if err != nil {
		return nil, err
	}

	added := make([]string, 0, len(vars))
	for _, v := range vars {
		if _, shadowed := b.scope[v.Name]; !shadowed {
			added = append(added, v.Name)
		}
		b.scope[v.Name] = v
	}
	defer func() {
		for _, name := range added {
			delete(b.scope, name)
		}
	}()

	inner := s.items[2]
	var c *domain.Complex
	if inner.list && len(inner.items) > 0 && inner.items[0].atom == "when" {
		c, err = b.buildComplex(inner)
	} else {
		adds, dels, aerr := b.collectEffectAtoms(inner)
		err = aerr
		c = &domain.Complex{Adds: adds, Dels: dels}
	}
	if err != nil {
		return nil, err
	}
	c.Params = vars
	return c, nil
}

// buildOneOf interprets a '(oneof BRANCH BRANCH ...)' sexpr, where each branch is an
// '(and ...)'/plain-atom/'(not atom)' effect body contributing one list of signed atoms -
// Negated here really is read at print time (pkg/emitter), since a OneOf branch has no
// separate Pos/Neg field to carry that distinction the way a Complex's guard does.
func (b *builder) buildOneOf(s *sexpr) (*domain.OneOf, error) {
	o := &domain.OneOf{}
	for _, branch := range s.items[1:] {
		atoms, err := b.collectSignedAtoms(branch)
		if err != nil {
			return nil, err
		}
		o.Branches = append(o.Branches, atoms)
	}
	return o, nil
}

// collectEffectAtoms flattens a plain ('and'-only) effect body into its add/delete sets.
func (b *builder) collectEffectAtoms(s *sexpr) (adds, dels []*domain.Atom, err error) {
	if !s.list || len(s.items) == 0 {
		return nil, nil, fmt.Errorf("surface: empty effect body")
	}
	if s.items[0].atom == "and" {
		for _, child := range s.items[1:] {
			a, d, err := b.collectEffectAtoms(child)
			if err != nil {
				return nil, nil, err
			}
			adds, dels = append(adds, a...), append(dels, d...)
		}
		return adds, dels, nil
	}
	if s.items[0].atom == "not" {
		if len(s.items) != 2 {
			return nil, nil, fmt.Errorf("surface: '(not ...)' takes exactly one argument")
		}
		atom, err := b.resolveAtom(s.items[1])
		if err != nil {
			return nil, nil, err
		}
		return nil, []*domain.Atom{atom}, nil
	}
	atom, err := b.resolveAtom(s)
	if err != nil {
		return nil, nil, err
	}
	return []*domain.Atom{atom}, nil, nil
}

// collectSignedAtoms is collectEffectAtoms with the add/delete distinction folded into
// each Atom's own Negated flag, for contexts (oneof branches) with nowhere else to put it.
func (b *builder) collectSignedAtoms(s *sexpr) ([]*domain.Atom, error) {
	adds, dels, err := b.collectEffectAtoms(s)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Atom, 0, len(adds)+len(dels))
	out = append(out, adds...)
	for _, d := range dels {
		out = append(out, d.Negate())
	}
	return out, nil
}
