package compiler

import (
	"strings"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// installRequirementFlags implements the bookkeeping that lets endAll (pkg/compiler's
// actions.go) stand in for the classical goal removed during compilation: for every
// grounding of every original predicate, req-p(c...)/nreq-p(c...) record whether the
// ORIGINAL goal
// required that grounding true, required it false, or left it unconstrained. A grounding
// the original goal mentions positively gets only req-p; mentioned negatively, only
// nreq-p; left unmentioned, it gets both, so whichever of p(c)/¬p(c) happens to hold once
// the automaton side certifies the acceptance loop is enough to satisfy endAll's per-
// predicate conditional effect (pkg/compiler's buildEndAll) regardless of its actual value.
//
// These flags never change again once installed, so they are plain init facts rather than
// maintained by every original action - the planner just needs them true from the start.
func (c *compiler) installRequirementFlags() {
	d := c.d

	required := make(map[*domain.Predicate]map[string]bool) // true = must hold, false = must not
	mark := func(atoms []*domain.Atom, want bool) {
		for _, a := range atoms {
			if required[a.Pred] == nil {
				required[a.Pred] = make(map[string]bool)
			}
			required[a.Pred][groundingKey(a.Args)] = want
		}
	}
	mark(c.originalGoalPos, true)
	mark(c.originalGoalNeg, false)

	for _, p := range c.originalPredicates {
		reqP, nreqP := c.reqPred[p], c.nreqPred[p]
		byArgs := required[p]
		domain.GroundPredicate(p, func(args []*domain.Symbol) bool {
			want, mentioned := byArgs[groundingKey(args)]
			if !mentioned || want {
				d.InitAtoms = append(d.InitAtoms, domain.NewAtom(reqP, args...))
			}
			if !mentioned || !want {
				d.InitAtoms = append(d.InitAtoms, domain.NewAtom(nreqP, args...))
			}
			return true
		})
	}
}

// groundingKey builds a stable map key for a grounding's argument list. Constant symbols
// are interned once by the surface parser and never renamed, so their print names are
// already unique identifiers within the domain.
func groundingKey(args []*domain.Symbol) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.Name)
	}
	return b.String()
}

// rewriteOriginalActions makes the original domain's own actions alternate with the
// automaton side: every original action schema gains ¬BAturn, ¬nopExecuted and
// ¬endAllExecuted as extra preconditions, and gains BAturn (set true) plus a conditional
// effect (loopStarted ⇒ inLoop) as extra effects - so that firing any original action hands
// control to the automaton side (moveBA-1/moveBA-2) until it settles on its next state and
// gives control back. The action's own preconditions and effects on original predicates are
// left exactly as the surface parser built them.
func (c *compiler) rewriteOriginalActions() {
	for _, a := range c.originalActions {
		a.AddPrecondition(domain.NewAtom(c.baTurn).Negate())
		a.AddPrecondition(domain.NewAtom(c.nopExecuted).Negate())
		a.AddPrecondition(domain.NewAtom(c.endAllExecuted).Negate())

		a.Adds = append(a.Adds, domain.NewAtom(c.baTurn))
		a.Effects = append(a.Effects, &domain.Complex{
			GuardPos: []*domain.Atom{domain.NewAtom(c.loopStarted)},
			Adds:     []*domain.Atom{domain.NewAtom(c.inLoop)},
		})
	}
}
