package surface

import (
	"fmt"
	"strings"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// Parse reads a domain text and its paired problem text and returns the single populated
// domain.Domain the rest of the pipeline (pkg/compiler, pkg/emitter) operates on: types,
// constants, predicates and actions from 'domainText', then objects, initial-state facts
// and the LTL goal from 'problemText' merged into the same Domain.
func Parse(domainText, problemText string) (*domain.Domain, error) {
	d, b, err := parseDomain(domainText)
	if err != nil {
		return nil, err
	}
	if err := parseProblem(problemText, d.Name, b); err != nil {
		return nil, err
	}
	return d, nil
}

// parseDomain reads a "(define (domain NAME) (:types ...) (:constants ...)
// (:predicates ...) (:action ...)*)" form and builds the corresponding domain.Domain,
// with no init/goal/LTL content populated yet - that is parseProblem's job. It returns the
// builder alongside the Domain so parseProblem can resolve problem-side references (object
// types, predicate names) against the same symbol tables.
func parseDomain(text string) (*domain.Domain, *builder, error) {
	root, err := parse(strings.NewReader(text))
	if err != nil {
		return nil, nil, err
	}
	if !root.list || len(root.items) < 2 || root.items[0].atom != "define" {
		return nil, nil, fmt.Errorf("surface: expected a top-level (define ...) form")
	}

	header := root.items[1]
	if !header.list || len(header.items) != 2 || header.items[0].atom != "domain" {
		return nil, nil, fmt.Errorf("surface: expected (domain NAME) header")
	}
	d := domain.NewDomain(header.items[1].atom)

	b := &builder{d: d, types: map[string]*domain.Type{}, preds: map[string]*domain.Predicate{}, consts: map[string]*domain.Symbol{}}
	for _, section := range root.items[2:] {
		if !section.list || len(section.items) == 0 {
			return nil, nil, fmt.Errorf("surface: malformed domain section")
		}
		switch section.items[0].atom {
		case ":types":
			if err := b.declareTypes(section.items[1:]); err != nil {
				return nil, nil, err
			}
		case ":constants":
			if err := b.declareConstants(section.items[1:]); err != nil {
				return nil, nil, err
			}
		case ":predicates":
			if err := b.declarePredicates(section.items[1:]); err != nil {
				return nil, nil, err
			}
		case ":action":
			if err := b.declareAction(section.items[1:]); err != nil {
				return nil, nil, err
			}
		default:
			// Unrecognized section keywords (e.g. ':requirements') carry no semantic
			// weight for this compiler and are accepted but ignored.
		}
	}
	return d, b, nil
}

// builder threads the name -> symbol tables used while interpreting a domain's sexpr
// sections, plus (while inside a single action's body) the action's own parameter scope.
type builder struct {
	d      *domain.Domain
	types  map[string]*domain.Type
	preds  map[string]*domain.Predicate
	consts map[string]*domain.Symbol
	scope  map[string]*domain.Variable // current action's ?-prefixed parameters, nil outside one
}

// typedGroup is one "name* - type" run out of a flat typed list (this surface syntax
// accepts the usual PDDL shorthand: trailing names with no '-type' suffix default to the
// implicit root type).
type typedGroup struct {
	Names []string
	Type  string // "" denotes the implicit root
}

// splitTyped scans a flat list of atoms into its typedGroup runs, recognizing the bare "-"
// token as the PDDL type-ascription separator.
func splitTyped(items []*sexpr) ([]typedGroup, error) {
	var groups []typedGroup
	var pending []string

	i := 0
	for i < len(items) {
		if items[i].list {
			return nil, fmt.Errorf("surface: expected a flat name list, found a nested list")
		}
		if items[i].atom == "-" {
			if i+1 >= len(items) {
				return nil, fmt.Errorf("surface: dangling '-' with no following type name")
			}
			groups = append(groups, typedGroup{Names: pending, Type: items[i+1].atom})
			pending = nil
			i += 2
			continue
		}
		pending = append(pending, items[i].atom)
		i++
	}
	if len(pending) > 0 {
		groups = append(groups, typedGroup{Names: pending})
	}
	return groups, nil
}

func (b *builder) declareTypes(items []*sexpr) error {
	groups, err := splitTyped(items)
	if err != nil {
		return err
	}
	// Parent types must exist before a subtype group references them, so resolve/declare
	// parents on demand in declaration order - PDDL type sections list supertypes last,
	// the same left-to-right order this loop processes groups in.
	onDemand := map[string]bool{} // parents declared by this loop before their own listing
	for _, g := range groups {
		if _, known := b.types[g.Type]; g.Type != "" && !known {
			onDemand[g.Type] = true
		}
		parent, err := b.resolveOrDeclareType(g.Type)
		if err != nil {
			return err
		}
		for _, name := range g.Names {
			if existing, exists := b.types[name]; exists {
				if onDemand[name] {
					delete(onDemand, name)
					existing.Parent = parent
					continue
				}
				return fmt.Errorf("surface: type %q declared twice", name)
			}
			t := domain.NewType(name, parent)
			b.types[name] = t
			b.d.Types = append(b.d.Types, t)
		}
	}
	return nil
}

func (b *builder) resolveOrDeclareType(name string) (*domain.Type, error) {
	if name == "" {
		return nil, nil
	}
	if t, ok := b.types[name]; ok {
		return t, nil
	}
	t := domain.NewType(name, nil)
	b.types[name] = t
	b.d.Types = append(b.d.Types, t)
	return t, nil
}

func (b *builder) declareConstants(items []*sexpr) error {
	groups, err := splitTyped(items)
	if err != nil {
		return err
	}
	for _, g := range groups {
		typ, err := b.resolveOrDeclareType(g.Type)
		if err != nil {
			return err
		}
		for _, name := range g.Names {
			c := b.d.AddConstant(name, typ)
			b.consts[name] = c
		}
	}
	return nil
}

func (b *builder) declarePredicates(items []*sexpr) error {
	for _, item := range items {
		if !item.list || len(item.items) == 0 {
			return fmt.Errorf("surface: malformed predicate declaration")
		}
		name := item.items[0].atom
		params, err := b.typedVariables(item.items[1:])
		if err != nil {
			return err
		}
		p := domain.NewPredicate(name, params...)
		b.preds[name] = p
		b.d.Predicates = append(b.d.Predicates, p)
	}
	return nil
}

// typedVariables interprets a flat "?v1 ?v2 - type ..." list into fresh domain.Variables.
func (b *builder) typedVariables(items []*sexpr) ([]*domain.Variable, error) {
	groups, err := splitTyped(items)
	if err != nil {
		return nil, err
	}
	var vars []*domain.Variable
	for _, g := range groups {
		typ := b.types[g.Type] // nil (implicit root) is a valid, zero-value lookup result
		for _, name := range g.Names {
			vars = append(vars, domain.NewVariable(name, typ))
		}
	}
	return vars, nil
}

func (b *builder) declareAction(items []*sexpr) error {
	if len(items) == 0 {
		return fmt.Errorf("surface: action declaration missing a name")
	}
	name := items[0].atom
	rest := items[1:]

	var params []*domain.Variable
	var precondition, effect *sexpr

	for i := 0; i+1 <= len(rest); {
		if rest[i].list {
			return fmt.Errorf("surface: expected a ':keyword' in action %q, found a list", name)
		}
		switch rest[i].atom {
		case ":parameters":
			if i+1 >= len(rest) || !rest[i+1].list {
				return fmt.Errorf("surface: ':parameters' must be followed by a parameter list")
			}
			vars, err := b.typedVariables(rest[i+1].items)
			if err != nil {
				return err
			}
			params = vars
			i += 2
		case ":precondition":
			if i+1 >= len(rest) {
				return fmt.Errorf("surface: ':precondition' missing its body")
			}
			precondition = rest[i+1]
			i += 2
		case ":effect":
			if i+1 >= len(rest) {
				return fmt.Errorf("surface: ':effect' missing its body")
			}
			effect = rest[i+1]
			i += 2
		default:
			return fmt.Errorf("surface: unrecognized action keyword %q", rest[i].atom)
		}
	}

	a := domain.NewActionSchema(name, params...)
	b.scope = make(map[string]*domain.Variable, len(params))
	for _, v := range params {
		b.scope[v.Name] = v
	}
	defer func() { b.scope = nil }()

	if precondition != nil {
		if err := b.applyPrecondition(a, precondition); err != nil {
			return err
		}
	}
	if effect != nil {
		if err := b.applyEffect(a, effect); err != nil {
			return err
		}
	}

	b.d.Actions = append(b.d.Actions, a)
	return nil
}

// resolveArg looks an argument token up first in the current action's variable scope,
// then among declared constants - surface text never needs to distinguish the two
// syntactically, both are just bare names (constants) or '?'-prefixed names (variables).
func (b *builder) resolveArg(tok string) (*domain.Symbol, error) {
	if strings.HasPrefix(tok, "?") {
		if v, ok := b.scope[tok]; ok {
			return &v.Symbol, nil
		}
		return nil, fmt.Errorf("surface: unbound variable %q", tok)
	}
	if c, ok := b.consts[tok]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("surface: unknown constant %q", tok)
}

// resolveAtom interprets a "(pred arg1 arg2 ...)" sexpr into a ground/parameterized Atom.
func (b *builder) resolveAtom(s *sexpr) (*domain.Atom, error) {
	if !s.list || len(s.items) == 0 {
		return nil, fmt.Errorf("surface: expected an atom of the form (predicate arg...)")
	}
	name := s.items[0].atom
	p, ok := b.preds[name]
	if !ok {
		return nil, fmt.Errorf("surface: reference to undeclared predicate %q", name)
	}
	args := make([]*domain.Symbol, 0, len(s.items)-1)
	for _, argTok := range s.items[1:] {
		arg, err := b.resolveArg(argTok.atom)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return domain.NewAtom(p, args...), nil
}
