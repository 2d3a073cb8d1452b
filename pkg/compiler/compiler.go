// Package compiler implements the LTL-to-classical compiler: the central transformation
// that weaves a parsed Büchi automaton into a planning domain as a synchronous product,
// encoded entirely through fresh predicates, fresh actions and conditional effects.
package compiler

import (
	"fmt"

	"github.com/hmny-labs/ltl2pddl/pkg/automaton"
	"github.com/hmny-labs/ltl2pddl/pkg/domain"
	"github.com/hmny-labs/ltl2pddl/pkg/ltl"
)

// compiler holds the fresh vocabulary threaded through every pass of the transformation.
// It is built once per Compile call and discarded afterwards - the only durable output is
// the mutated domain.Domain (and its attached domain.Automaton).
type compiler struct {
	d *domain.Domain

	originalPredicates []*domain.Predicate    // Snapshot taken before any fresh predicate is appended
	originalActions    []*domain.ActionSchema // Snapshot taken before any fresh action is appended
	originalGoalPos    []*domain.Atom         // The classical goal's positive atoms, before it is replaced
	originalGoalNeg    []*domain.Atom         // The classical goal's negative atoms, before it is replaced

	baStateType *domain.Type
	stateSym    map[int]*domain.Symbol // automaton state index -> its BA-S<n> constant

	// Zero-arity fresh predicates
	loopStarted, baTurn, moveBA1Done, endAllExecuted, endBA, nopExecuted, inLoop *domain.Predicate
	// Unary baState fresh predicates
	currentBAstate, acceptanceBAState, nextBAstate, reqLoop *domain.Predicate
	// Equality over baState constants (diagonal seeded at init), used only by loopHere's
	// "every other state" universal delete
	equal *domain.Predicate

	// Per-original-predicate twins
	reqPred, nreqPred, endPred map[*domain.Predicate]*domain.Predicate
}

// Compile runs the LTL-to-classical transformation against 'd', mutating it in place and
// attaching its compiled domain.Automaton. 'translate' is the Büchi-translator seam
// (automaton.Translator.Translate in production, a canned reader in tests).
func Compile(d *domain.Domain, translate automaton.TranslatorFunc) error {
	if d.LTLGoal == nil {
		return &InvariantError{Reason: "domain has no LTL goal to compile"}
	}

	c := &compiler{
		d:                  d,
		originalPredicates: d.SnapshotPredicates(),
		originalActions:    d.SnapshotActions(),
		originalGoalPos:    append([]*domain.Atom(nil), d.GoalPos...),
		originalGoalNeg:    append([]*domain.Atom(nil), d.GoalNeg...),
		stateSym:           make(map[int]*domain.Symbol),
		reqPred:            make(map[*domain.Predicate]*domain.Predicate),
		nreqPred:           make(map[*domain.Predicate]*domain.Predicate),
		endPred:            make(map[*domain.Predicate]*domain.Predicate),
	}

	serializer := ltl.NewSerializer()
	formula := serializer.Serialize(d.LTLGoal)

	text, err := translate(formula)
	if err != nil {
		return err
	}
	result, err := automaton.Parse(text, serializer.Names)
	if err != nil {
		return err
	}
	// automaton construction must complete before action rewriting: the fresh actions
	// reference per-state constants the automaton's own state set determines.
	d.Automaton = result.Automaton

	if err := c.freshVocabulary(); err != nil {
		return err
	}
	c.initAugmentation()
	c.installRequirementFlags()
	c.goalAugmentation()
	if err := c.freshActions(); err != nil {
		return err
	}
	c.rewriteOriginalActions()

	return nil
}

// freshVocabulary builds the baState type, one constant per automaton state, the
// zero-/one-arity fresh predicates, and the req-/nreq-/end- twin predicate per original
// predicate. Fresh-symbol insertion precedes any reference to it, so every
// predicate/constant built here is appended before goal/action construction looks it up;
// all of them except the baState type and the '=' predicate are also interned.
func (c *compiler) freshVocabulary() error {
	d := c.d

	c.baStateType = domain.NewType("baState", nil)
	d.Types = append(d.Types, c.baStateType)

	d.MarkPureFrom()
	for _, s := range d.Automaton.States {
		name := fmt.Sprintf("BA-S%d", s.Id)
		if err := d.Intern(name); err != nil {
			return &InvariantError{Reason: err.Error()}
		}
		c.stateSym[s.Id] = d.AddConstant(name, c.baStateType)
	}

	c.loopStarted = c.freshZeroary("loopStarted")
	c.baTurn = c.freshZeroary("BAturn")
	c.moveBA1Done = c.freshZeroary("moveBA-1-done")
	c.endAllExecuted = c.freshZeroary("endAllExecuted")
	c.endBA = c.freshZeroary("end-BA")
	c.nopExecuted = c.freshZeroary("nopExecuted")
	c.inLoop = c.freshZeroary("inLoop")

	c.currentBAstate = c.freshUnaryBaState("currentBAstate")
	c.acceptanceBAState = c.freshUnaryBaState("acceptanceBAState")
	c.nextBAstate = c.freshUnaryBaState("nextBAstate")
	c.reqLoop = c.freshUnaryBaState("reqLoop")

	c.equal = domain.NewPredicate("=", domain.NewVariable("?x", c.baStateType), domain.NewVariable("?y", c.baStateType))
	d.Predicates = append(d.Predicates, c.equal)

	for _, p := range c.originalPredicates {
		c.reqPred[p] = c.freshTwin("req-"+p.Name, p)
		c.nreqPred[p] = c.freshTwin("nreq-"+p.Name, p)
		c.endPred[p] = c.freshTwin("end-"+p.Name, p)
	}

	return nil
}

// freshZeroary interns and appends a zero-arity predicate.
func (c *compiler) freshZeroary(name string) *domain.Predicate {
	p := domain.NewPredicate(name)
	_ = c.d.Intern(name)
	c.d.Predicates = append(c.d.Predicates, p)
	return p
}

// freshUnaryBaState interns and appends a predicate over a single '?s - baState' param.
func (c *compiler) freshUnaryBaState(name string) *domain.Predicate {
	p := domain.NewPredicate(name, domain.NewVariable("?s", c.baStateType))
	_ = c.d.Intern(name)
	c.d.Predicates = append(c.d.Predicates, p)
	return p
}

// freshTwin interns and appends a predicate reusing 'original's parameter list verbatim,
// so the same variable symbols are shared across a predicate and its req-/nreq-/end-
// counterparts instead of cloning fresh variable symbols per twin.
func (c *compiler) freshTwin(name string, original *domain.Predicate) *domain.Predicate {
	p := domain.NewPredicate(name, original.Params...)
	_ = c.d.Intern(name)
	c.d.Predicates = append(c.d.Predicates, p)
	return p
}

// initAugmentation adds currentBAstate(init), acceptanceBAState(a) for every acceptance
// state, =(s, s) for every automaton state, and BAturn to the initial state. No explicit
// negatives (closed-world semantics).
func (c *compiler) initAugmentation() {
	d := c.d
	init := d.Automaton.InitState()
	if init == nil {
		// Compile already refuses to get here (automaton.Parse rejects a missing
		// initial state), this is a belt-and-braces invariant check.
		return
	}

	d.InitAtoms = append(d.InitAtoms, domain.NewAtom(c.currentBAstate, c.stateSym[init.Id]))
	for _, a := range d.Automaton.AcceptanceStates() {
		d.InitAtoms = append(d.InitAtoms, domain.NewAtom(c.acceptanceBAState, c.stateSym[a.Id]))
	}
	for _, s := range d.Automaton.States {
		d.InitAtoms = append(d.InitAtoms, domain.NewAtom(c.equal, c.stateSym[s.Id], c.stateSym[s.Id]))
	}
	d.InitAtoms = append(d.InitAtoms, domain.NewAtom(c.baTurn))
}

// goalAugmentation builds the replacement classical goal: inLoop, loopStarted, ¬BAturn,
// end-BA, and for every original predicate and every well-typed grounding, end-p(c...).
// The grounding enumeration is streamed (domain.GroundPredicate) straight into GoalPos,
// never materialized as an intermediate slice of groundings.
func (c *compiler) goalAugmentation() {
	d := c.d
	d.GoalPos = append(d.GoalPos, domain.NewAtom(c.inLoop), domain.NewAtom(c.loopStarted), domain.NewAtom(c.endBA))
	d.GoalNeg = append(d.GoalNeg, domain.NewAtom(c.baTurn))

	for _, p := range c.originalPredicates {
		endP := c.endPred[p]
		domain.GroundPredicate(p, func(args []*domain.Symbol) bool {
			d.GoalPos = append(d.GoalPos, domain.NewAtom(endP, args...))
			return true
		})
	}
}
