// Package emitter serializes a fully compiled domain.Domain back out to PDDL-style
// domain/instance text: no AST walk indirection, just a handful of small per-construct
// printer functions feeding one strings.Builder.
package emitter

import (
	"fmt"
	"strings"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// EmitDomain renders 'd' as a "(define (domain ...) ...)" form: types, constants,
// predicates and every action schema (original, rewritten in place, and compiler-fresh
// alike - by the time Emit runs there is no distinction left to print).
func EmitDomain(d *domain.Domain) string {
	var b strings.Builder

	fmt.Fprintf(&b, "(define (domain %s)\n", d.Name)
	writeTypes(&b, d.Types)
	writeConstants(&b, d.Constants)
	writePredicates(&b, d.Predicates)
	for _, a := range d.Actions {
		writeAction(&b, a)
	}
	b.WriteString(")\n")

	return b.String()
}

// EmitProblem renders 'd' as a "(define (problem ...) ...)" form: objects (the domain's
// own constant list; pure, compiler-introduced constants print no differently than
// surface-declared ones), initial-state facts and the final reachability goal.
func EmitProblem(d *domain.Domain, problemName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "(define (problem %s)\n  (:domain %s)\n", problemName, d.Name)
	writeObjects(&b, d.Constants)
	writeInit(&b, d)
	writeGoal(&b, d)
	b.WriteString(")\n")

	return b.String()
}

func writeTypes(b *strings.Builder, types []*domain.Type) {
	if len(types) == 0 {
		return
	}
	b.WriteString("  (:types")
	for _, t := range types {
		if t.Parent == nil {
			fmt.Fprintf(b, " %s", t.Name)
		} else {
			fmt.Fprintf(b, " %s - %s", t.Name, t.Parent.Name)
		}
	}
	b.WriteString(")\n")
}

func writeConstants(b *strings.Builder, constants []*domain.Symbol) {
	if len(constants) == 0 {
		return
	}
	b.WriteString("  (:constants")
	writeTypedSymbols(b, constants)
	b.WriteString(")\n")
}

func writeObjects(b *strings.Builder, constants []*domain.Symbol) {
	if len(constants) == 0 {
		return
	}
	b.WriteString("  (:objects")
	writeTypedSymbols(b, constants)
	b.WriteString(")\n")
}

func writeTypedSymbols(b *strings.Builder, symbols []*domain.Symbol) {
	for _, c := range symbols {
		if c.Parent == nil {
			fmt.Fprintf(b, " %s", c.Name)
		} else {
			fmt.Fprintf(b, " %s - %s", c.Name, c.Parent.Name)
		}
	}
}

func writePredicates(b *strings.Builder, predicates []*domain.Predicate) {
	if len(predicates) == 0 {
		return
	}
	b.WriteString("  (:predicates\n")
	for _, p := range predicates {
		fmt.Fprintf(b, "    (%s%s)\n", p.Name, paramList(p.Params))
	}
	b.WriteString("  )\n")
}

func paramList(params []*domain.Variable) string {
	var b strings.Builder
	for _, v := range params {
		if v.Parent == nil {
			fmt.Fprintf(&b, " %s", v.Name)
		} else {
			fmt.Fprintf(&b, " %s - %s", v.Name, v.Parent.Name)
		}
	}
	return b.String()
}

func writeAction(b *strings.Builder, a *domain.ActionSchema) {
	fmt.Fprintf(b, "  (:action %s\n", a.Name)
	fmt.Fprintf(b, "    :parameters (%s)\n", strings.TrimPrefix(paramList(a.Params), " "))
	fmt.Fprintf(b, "    :precondition %s\n", conjunctionStr(a.GuardPos, a.GuardNeg, a.Clausal))
	fmt.Fprintf(b, "    :effect %s\n", effectBodyStr(a))
	b.WriteString("  )\n")
}

func effectBodyStr(a *domain.ActionSchema) string {
	parts := atomListStrs(a.Adds, false)
	parts = append(parts, atomListStrs(a.Dels, true)...)
	for _, c := range a.Effects {
		parts = append(parts, complexStr(c))
	}
	for _, o := range a.OneOfs {
		parts = append(parts, oneOfStr(o))
	}
	if len(parts) == 0 {
		return "(and)"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(and " + strings.Join(parts, " ") + ")"
}

func oneOfStr(o *domain.OneOf) string {
	branches := make([]string, len(o.Branches))
	for i, branch := range o.Branches {
		// A OneOf branch has no separate Pos/Neg field the way a Complex's guard does, so
		// here - and only here - each atom's own Negated flag is read at print time.
		atoms := make([]string, len(branch))
		for j, a := range branch {
			bare := bareAtomStr(a)
			if a.Negated {
				atoms[j] = "(not " + bare + ")"
			} else {
				atoms[j] = bare
			}
		}
		if len(atoms) == 1 {
			branches[i] = atoms[0]
		} else {
			branches[i] = "(and " + strings.Join(atoms, " ") + ")"
		}
	}
	return "(oneof " + strings.Join(branches, " ") + ")"
}

func complexStr(c *domain.Complex) string {
	var adds []string
	adds = append(adds, atomListStrs(c.Adds, false)...)
	adds = append(adds, atomListStrs(c.Dels, true)...)
	body := "(and)"
	if len(adds) == 1 {
		body = adds[0]
	} else if len(adds) > 1 {
		body = "(and " + strings.Join(adds, " ") + ")"
	}

	var guard string
	if c.HasCNFGuard() {
		guard = clauseConjunctionStr(c.GuardClauses)
	} else {
		guard = conjunctionStr(c.GuardPos, c.GuardNeg, nil)
	}
	when := fmt.Sprintf("(when %s %s)", guard, body)

	if !c.IsQuantified() {
		return when
	}
	return fmt.Sprintf("(forall (%s) %s)", strings.TrimPrefix(paramList(c.Params), " "), when)
}

// conjunctionStr prints a flat guard: positive atoms, negative atoms (wrapped in 'not'),
// and any disjunctive clauses, all conjoined. An entirely empty guard prints as "(and)",
// PDDL's spelling of the trivially true precondition.
func conjunctionStr(pos, neg []*domain.Atom, clauses []*domain.Clause) string {
	parts := atomListStrs(pos, false)
	parts = append(parts, atomListStrs(neg, true)...)
	for _, cl := range clauses {
		parts = append(parts, clauseStr(cl))
	}
	if len(parts) == 0 {
		return "(and)"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(and " + strings.Join(parts, " ") + ")"
}

func clauseConjunctionStr(clauses []*domain.Clause) string {
	if len(clauses) == 0 {
		return "(and)"
	}
	if len(clauses) == 1 {
		return clauseStr(clauses[0])
	}
	parts := make([]string, len(clauses))
	for i, cl := range clauses {
		parts[i] = clauseStr(cl)
	}
	return "(and " + strings.Join(parts, " ") + ")"
}

func clauseStr(c *domain.Clause) string {
	parts := atomListStrs(c.Pos, false)
	parts = append(parts, atomListStrs(c.Neg, true)...)
	if c.Len() == 1 {
		return parts[0]
	}
	return "(or " + strings.Join(parts, " ") + ")"
}

// atomListStrs prints each atom bare, wrapped in "(not ...)" when 'negate' is set. Polarity
// here is carried entirely by which field an atom lives in (GuardNeg, Dels, Clause.Neg, ...)
// - an atom's own Negated flag matters only while it is in transit (e.g. Atom.Negate()
// results built from a transition label before AddPrecondition files them into GuardPos or
// GuardNeg), and is not read here (oneOfStr is the one printer that reads it).
func atomListStrs(atoms []*domain.Atom, negate bool) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		bare := bareAtomStr(a)
		if negate {
			out[i] = "(not " + bare + ")"
		} else {
			out[i] = bare
		}
	}
	return out
}

func bareAtomStr(a *domain.Atom) string {
	names := make([]string, len(a.Args))
	for i, arg := range a.Args {
		names[i] = arg.Name
	}
	inner := a.Pred.Name
	if len(names) > 0 {
		inner += " " + strings.Join(names, " ")
	}
	return "(" + inner + ")"
}

func writeInit(b *strings.Builder, d *domain.Domain) {
	b.WriteString("  (:init")
	for _, a := range d.InitAtoms {
		fmt.Fprintf(b, "\n    %s", bareAtomStr(a))
	}
	for _, cl := range d.InitClauses {
		fmt.Fprintf(b, "\n    %s", clauseStr(cl))
	}
	for _, o := range d.InitOneOfs {
		fmt.Fprintf(b, "\n    %s", oneOfStr(o))
	}
	b.WriteString("\n  )\n")
}

func writeGoal(b *strings.Builder, d *domain.Domain) {
	fmt.Fprintf(b, "  (:goal %s)\n", conjunctionStr(d.GoalPos, d.GoalNeg, d.GoalClauses))
}
