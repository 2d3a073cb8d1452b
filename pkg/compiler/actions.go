package compiler

import (
	"strconv"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// freshActions builds the automaton-side action set: nop, moveBA-1 (one instance per
// automaton transition, since each transition carries its own label and destination),
// moveBA-2, loopHere and endAll. The rewritten original actions (pkg/compiler/rewrite.go)
// require BAturn false and set it true; moveBA-1 and moveBA-2 require it true, and
// moveBA-2 sets it false again, handing control back. loopHere and endAll require BAturn
// false. nop is the one exception: it fires solely on loopStarted, independent of BAturn.
func (c *compiler) freshActions() error {
	d := c.d

	d.Actions = append(d.Actions, c.buildNop())
	for i, t := range d.Automaton.Transitions {
		d.Actions = append(d.Actions, c.buildMoveBA1(i, t))
	}
	d.Actions = append(d.Actions, c.buildMoveBA2())
	d.Actions = append(d.Actions, c.buildLoopHere())
	d.Actions = append(d.Actions, c.buildEndAll())

	return nil
}

// buildNop is the no-op used only when the loop body is empty (the plan reaches the
// accepting loop point and needs no further original action before closing the loop). Its
// only precondition is loopStarted; its only effect is bookkeeping.
func (c *compiler) buildNop() *domain.ActionSchema {
	a := domain.NewActionSchema("nop")
	a.AddPrecondition(domain.NewAtom(c.loopStarted))
	a.Adds = append(a.Adds, domain.NewAtom(c.nopExecuted))
	return a
}

// buildMoveBA1 builds the per-transition action that, given the automaton currently sits
// in t.From and the transition's label holds in the current world state, records t.To as
// the pending next state and clears end-BA (any prior loop's acceptance certificate is
// stale once the automaton moves again). Multiple transitions leaving the same state
// compile to sibling actions competing on their (mutually exclusive, in a well-formed
// automaton) labels - there is no PDDL-level nondeterministic choice construct to pick
// among them, the planner picks whichever is applicable.
func (c *compiler) buildMoveBA1(index int, t *domain.Transition) *domain.ActionSchema {
	a := domain.NewActionSchema(transitionActionName(index, t))
	a.AddPrecondition(domain.NewAtom(c.baTurn))
	a.AddPrecondition(domain.NewAtom(c.moveBA1Done).Negate())
	a.AddPrecondition(domain.NewAtom(c.currentBAstate, c.stateSym[t.From]))
	for _, lit := range t.Pos {
		a.AddPrecondition(lit)
	}
	for _, lit := range t.Neg {
		a.AddPrecondition(lit.Negate())
	}

	a.Adds = append(a.Adds, domain.NewAtom(c.nextBAstate, c.stateSym[t.To]), domain.NewAtom(c.moveBA1Done))
	a.Dels = append(a.Dels, domain.NewAtom(c.endBA))
	return a
}

// buildMoveBA2 builds the single action that commits the pending transition recorded by
// moveBA-1: for every automaton state s, currentBAstate(s) is unconditionally deleted
// (the automaton's state set is fixed and known at compile time, so this is a finite
// unrolled Dels list rather than a PDDL 'forall'), then a conditional effect per state
// copies nextBAstate(s) across into currentBAstate(s) when it was the one set. Finally
// control passes back to the original domain.
func (c *compiler) buildMoveBA2() *domain.ActionSchema {
	d := c.d
	a := domain.NewActionSchema("moveBA-2")
	a.AddPrecondition(domain.NewAtom(c.baTurn))
	a.AddPrecondition(domain.NewAtom(c.moveBA1Done))

	for _, s := range d.Automaton.States {
		sym := c.stateSym[s.Id]
		a.Dels = append(a.Dels, domain.NewAtom(c.currentBAstate, sym), domain.NewAtom(c.nextBAstate, sym))
		a.Effects = append(a.Effects, &domain.Complex{
			GuardPos: []*domain.Atom{domain.NewAtom(c.nextBAstate, sym)},
			Adds:     []*domain.Atom{domain.NewAtom(c.currentBAstate, sym)},
		})
		if s.Acceptance {
			a.Effects = append(a.Effects, &domain.Complex{
				GuardPos: []*domain.Atom{domain.NewAtom(c.nextBAstate, sym), domain.NewAtom(c.reqLoop, sym)},
				Adds:     []*domain.Atom{domain.NewAtom(c.inLoop)},
			})
		}
	}

	a.Dels = append(a.Dels, domain.NewAtom(c.moveBA1Done), domain.NewAtom(c.baTurn))
	return a
}

// buildLoopHere builds the action that nondeterministically commits the plan to looping
// forever through an acceptance state it currently occupies: it records that state as the
// required loop point (reqLoop) and, via the '=' predicate, deletes
// currentBAstate from every other state (loopHere is parameterized at plan time, so unlike
// moveBA-2's finite state set this really does need a PDDL 'forall ?x:baState').
func (c *compiler) buildLoopHere() *domain.ActionSchema {
	s := domain.NewVariable("?s", c.baStateType)
	a := domain.NewActionSchema("loopHere", s)
	a.AddPrecondition(domain.NewAtom(c.baTurn).Negate())
	a.AddPrecondition(domain.NewAtom(c.acceptanceBAState, &s.Symbol))
	a.AddPrecondition(domain.NewAtom(c.currentBAstate, &s.Symbol))
	a.AddPrecondition(domain.NewAtom(c.loopStarted).Negate())

	a.Adds = append(a.Adds, domain.NewAtom(c.loopStarted), domain.NewAtom(c.reqLoop, &s.Symbol))

	x := domain.NewVariable("?x", c.baStateType)
	a.Effects = append(a.Effects, &domain.Complex{
		Params:   []*domain.Variable{x},
		GuardNeg: []*domain.Atom{domain.NewAtom(c.equal, &x.Symbol, &s.Symbol)},
		Dels:     []*domain.Atom{domain.NewAtom(c.currentBAstate, &x.Symbol)},
	})
	return a
}

// buildEndAll builds the action that, once the automaton side has certified the acceptance
// loop (inLoop), records a final end-p(c...) marker for every well-typed grounding of every
// original predicate whose current truth value matches what installRequirementFlags
// recorded as required (reqP) or forbidden (nreqP) for it, and a final end-BA marker once the
// automaton has returned to the state loopHere committed to (reqLoop) - together the bridge
// between "the plan satisfies the automaton" and the plain reachability goal
// goalAugmentation builds. The per-predicate effects quantify over a predicate's own
// parameters only when it has any (a nullary predicate gets a pair of plain, unquantified
// conditional effects); the end-BA effect always quantifies over the automaton's baState
// type, since it ranges over every automaton state regardless of the original domain.
func (c *compiler) buildEndAll() *domain.ActionSchema {
	a := domain.NewActionSchema("endAll")
	a.AddPrecondition(domain.NewAtom(c.baTurn).Negate())
	a.AddPrecondition(domain.NewAtom(c.inLoop))
	a.AddPrecondition(domain.NewAtom(c.endAllExecuted).Negate())
	a.Adds = append(a.Adds, domain.NewAtom(c.endAllExecuted))

	for _, p := range c.originalPredicates {
		reqP, nreqP, endP := c.reqPred[p], c.nreqPred[p], c.endPred[p]

		holds := &domain.Complex{
			GuardPos: []*domain.Atom{domain.NewAtom(reqP, symbolsOf(p.Params)...), domain.NewAtom(p, symbolsOf(p.Params)...)},
			Adds:     []*domain.Atom{domain.NewAtom(endP, symbolsOf(p.Params)...)},
		}
		absent := &domain.Complex{
			GuardPos: []*domain.Atom{domain.NewAtom(nreqP, symbolsOf(p.Params)...)},
			GuardNeg: []*domain.Atom{domain.NewAtom(p, symbolsOf(p.Params)...)},
			Adds:     []*domain.Atom{domain.NewAtom(endP, symbolsOf(p.Params)...)},
		}
		if len(p.Params) > 0 {
			holds.Params = p.Params
			absent.Params = p.Params
		}
		a.Effects = append(a.Effects, holds, absent)
	}

	s := domain.NewVariable("?s", c.baStateType)
	a.Effects = append(a.Effects, &domain.Complex{
		Params: []*domain.Variable{s},
		GuardPos: []*domain.Atom{
			domain.NewAtom(c.currentBAstate, &s.Symbol),
			domain.NewAtom(c.reqLoop, &s.Symbol),
		},
		Adds: []*domain.Atom{domain.NewAtom(c.endBA)},
	})
	return a
}

// transitionActionName gives each per-transition moveBA-1 instance a stable, readable name
// tied to the transition's endpoints and its position in the automaton's transition list
// (two transitions can share both endpoints when the translator emits parallel edges with
// different labels, so the index disambiguates them).
func transitionActionName(index int, t *domain.Transition) string {
	return "moveBA-1-" + strconv.Itoa(t.From) + "-" + strconv.Itoa(t.To) + "-" + strconv.Itoa(index)
}

// symbolsOf projects a parameter list down to the bare *domain.Symbol references an Atom's
// Args expects, since a predicate's own Params double as the argument list used when
// referring to it "in general" (unbound) - the same parameter vector is reused across a
// predicate and its req-/nreq-/end- effect atoms rather than cloning fresh variables.
func symbolsOf(params []*domain.Variable) []*domain.Symbol {
	out := make([]*domain.Symbol, len(params))
	for i, p := range params {
		out[i] = &p.Symbol
	}
	return out
}
