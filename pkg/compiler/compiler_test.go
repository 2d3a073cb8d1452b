package compiler_test

import (
	"testing"

	"github.com/hmny-labs/ltl2pddl/pkg/automaton"
	"github.com/hmny-labs/ltl2pddl/pkg/compiler"
	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// buildToyDomain returns a single-block domain with one predicate ("clear"), one action
// ("pickup") and an LTL goal "[]clear(a)", the smallest input that exercises every fresh
// vocabulary element Compile introduces.
func buildToyDomain() (*domain.Domain, *domain.Variable) {
	block := domain.NewType("block", nil)
	d := domain.NewDomain("toy")
	d.Types = append(d.Types, block)
	a := d.AddConstant("a", block)

	clearVar := domain.NewVariable("?x", block)
	clear := domain.NewPredicate("clear", clearVar)
	d.Predicates = append(d.Predicates, clear)

	pickup := domain.NewActionSchema("pickup", domain.NewVariable("?x", block))
	pickup.Adds = append(pickup.Adds, domain.NewAtom(clear, a))
	d.Actions = append(d.Actions, pickup)

	d.InitAtoms = append(d.InitAtoms, domain.NewAtom(clear, a))
	d.GoalPos = append(d.GoalPos, domain.NewAtom(clear, a))

	litVar := &domain.Variable{Symbol: domain.Symbol{Name: "a", Kind: domain.ObjectSymbol, Parent: block}}
	lit := domain.NewAtom(clear, &litVar.Symbol)
	d.LTLGoal = domain.Always(domain.Atom_(lit))

	return d, clearVar
}

// cannedTranslate stands in for the external Büchi translator: it returns a pre-built
// never-claim whose single literal is always named "clear_a", the canonical name
// ltl.Serializer produces for "clear(a)".
func cannedTranslate(formula string) (string, error) {
	return `never { /* formula */
T0_init:
	if
	:: (clear_a) -> goto accept_S0
	fi;
accept_S0:
	if
	:: (clear_a) -> goto accept_S0
	fi;
}`, nil
}

func TestCompileRejectsDomainWithoutLTLGoal(t *testing.T) {
	d := domain.NewDomain("empty")
	if err := compiler.Compile(d, cannedTranslate); err == nil {
		t.Fatal("expected an error compiling a domain with no LTL goal")
	}
}

func TestCompilePropagatesTranslatorError(t *testing.T) {
	d, _ := buildToyDomain()
	boom := func(string) (string, error) { return "", &automaton.TranslatorError{Reason: "no such binary"} }
	if err := compiler.Compile(d, boom); err == nil {
		t.Fatal("expected the translator's error to propagate")
	}
}

func TestCompileAttachesAutomaton(t *testing.T) {
	d, _ := buildToyDomain()
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}
	if d.Automaton == nil {
		t.Fatal("expected the compiled automaton to be attached to the domain")
	}
	if len(d.Automaton.States) != 2 {
		t.Fatalf("expected 2 automaton states, got %d", len(d.Automaton.States))
	}
}

func TestCompileFreshVocabulary(t *testing.T) {
	d, _ := buildToyDomain()
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	wantPredicates := []string{
		"clear", "loopStarted", "BAturn", "moveBA-1-done", "endAllExecuted", "end-BA",
		"nopExecuted", "inLoop", "currentBAstate", "acceptanceBAState", "nextBAstate",
		"reqLoop", "=", "req-clear", "nreq-clear", "end-clear",
	}
	for _, name := range wantPredicates {
		if d.PredicateByName(name) == nil {
			t.Errorf("expected predicate %q to exist after compilation", name)
		}
	}

	if d.TypeByName("baState") == nil {
		t.Error("expected a fresh 'baState' type")
	}
	if d.PredicateByName("BA-S0") != nil {
		t.Error("'BA-S0' should be a constant, not a predicate")
	}

	var foundS0, foundS1 bool
	for _, c := range d.Constants {
		switch c.Name {
		case "BA-S0":
			foundS0 = true
		case "BA-S1":
			foundS1 = true
		}
	}
	if !foundS0 || !foundS1 {
		t.Fatalf("expected one fresh constant per automaton state, constants: %v", d.Constants)
	}
}

func TestCompileFreshActions(t *testing.T) {
	d, _ := buildToyDomain()
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	if d.ActionByName("nop") == nil {
		t.Error("expected a 'nop' action")
	}
	if d.ActionByName("moveBA-2") == nil {
		t.Error("expected a 'moveBA-2' action")
	}
	if d.ActionByName("loopHere") == nil {
		t.Error("expected a 'loopHere' action")
	}
	if d.ActionByName("endAll") == nil {
		t.Error("expected an 'endAll' action")
	}

	var moveBA1Count int
	for _, a := range d.Actions {
		if len(a.Name) >= len("moveBA-1-") && a.Name[:len("moveBA-1-")] == "moveBA-1-" {
			moveBA1Count++
		}
	}
	if moveBA1Count != len(d.Automaton.Transitions) {
		t.Fatalf("expected one moveBA-1 action per transition (%d), got %d", len(d.Automaton.Transitions), moveBA1Count)
	}
}

func TestCompileRewritesOriginalActions(t *testing.T) {
	d, _ := buildToyDomain()
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	pickup := d.ActionByName("pickup")
	if pickup == nil {
		t.Fatal("expected the original 'pickup' action to survive compilation")
	}

	baTurn := d.PredicateByName("BAturn")
	var foundPrecond bool
	for _, a := range pickup.GuardNeg {
		if a.Pred == baTurn {
			foundPrecond = true
		}
	}
	if !foundPrecond {
		t.Error("expected 'pickup' to gain BAturn as a negative precondition")
	}

	var foundAdd bool
	for _, a := range pickup.Adds {
		if a.Pred == baTurn {
			foundAdd = true
		}
	}
	if !foundAdd {
		t.Error("expected 'pickup' to add BAturn as an effect")
	}

	nopExecuted := d.PredicateByName("nopExecuted")
	endAllExecuted := d.PredicateByName("endAllExecuted")
	var foundNopPrecond, foundEndAllPrecond bool
	for _, a := range pickup.GuardNeg {
		if a.Pred == nopExecuted {
			foundNopPrecond = true
		}
		if a.Pred == endAllExecuted {
			foundEndAllPrecond = true
		}
	}
	if !foundNopPrecond {
		t.Error("expected 'pickup' to gain nopExecuted as a negative precondition")
	}
	if !foundEndAllPrecond {
		t.Error("expected 'pickup' to gain endAllExecuted as a negative precondition")
	}

	loopStarted := d.PredicateByName("loopStarted")
	inLoop := d.PredicateByName("inLoop")
	var foundLoopEffect bool
	for _, c := range pickup.Effects {
		for _, g := range c.GuardPos {
			if g.Pred == loopStarted {
				for _, add := range c.Adds {
					if add.Pred == inLoop {
						foundLoopEffect = true
					}
				}
			}
		}
	}
	if !foundLoopEffect {
		t.Error("expected 'pickup' to gain a (loopStarted => inLoop) conditional effect")
	}
}

func TestCompileGoalIsFullyClassical(t *testing.T) {
	d, _ := buildToyDomain()
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	inLoop := d.PredicateByName("inLoop")
	loopStarted := d.PredicateByName("loopStarted")
	endBA := d.PredicateByName("end-BA")
	baTurn := d.PredicateByName("BAturn")

	has := func(atoms []*domain.Atom, p *domain.Predicate) bool {
		for _, a := range atoms {
			if a.Pred == p {
				return true
			}
		}
		return false
	}
	if !has(d.GoalPos, inLoop) || !has(d.GoalPos, loopStarted) || !has(d.GoalPos, endBA) {
		t.Fatal("expected inLoop, loopStarted and end-BA in the positive goal")
	}
	if !has(d.GoalNeg, baTurn) {
		t.Fatal("expected BAturn negated in the goal")
	}

	endClear := d.PredicateByName("end-clear")
	var foundGrounding bool
	for _, a := range d.GoalPos {
		if a.Pred == endClear {
			foundGrounding = true
		}
	}
	if !foundGrounding {
		t.Fatal("expected an end-clear(...) goal atom for the single grounding of 'clear'")
	}
}

func TestCompileRequirementFlagsReflectOriginalGoal(t *testing.T) {
	d, _ := buildToyDomain() // original goal: clear(a) required true
	if err := compiler.Compile(d, cannedTranslate); err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	reqClear := d.PredicateByName("req-clear")
	nreqClear := d.PredicateByName("nreq-clear")

	var foundReq, foundNreq bool
	for _, a := range d.InitAtoms {
		if a.Pred == reqClear {
			foundReq = true
		}
		if a.Pred == nreqClear {
			foundNreq = true
		}
	}
	if !foundReq {
		t.Fatal("expected req-clear(a) in init, since the original goal required clear(a)")
	}
	if foundNreq {
		t.Fatal("did not expect nreq-clear(a) in init: the original goal required it true, not left unconstrained")
	}
}

func TestCompileIsInvariantErrorOnNameClash(t *testing.T) {
	d, _ := buildToyDomain()
	// Pre-intern a name the compiler is guaranteed to introduce, forcing Intern to fail.
	if err := d.Intern("BA-S0"); err != nil {
		t.Fatalf("setup: unexpected error interning 'BA-S0': %v", err)
	}

	err := compiler.Compile(d, cannedTranslate)
	if err == nil {
		t.Fatal("expected Compile to fail once a fresh constant name clashes")
	}
	if _, ok := err.(*compiler.InvariantError); !ok {
		t.Fatalf("expected an *compiler.InvariantError, got %T: %v", err, err)
	}
}

func TestInvariantErrorMessage(t *testing.T) {
	err := &compiler.InvariantError{Reason: "boom"}
	want := "compile: boom"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
