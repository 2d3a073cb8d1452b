package automaton_test

import (
	"strings"
	"testing"

	"github.com/hmny-labs/ltl2pddl/pkg/automaton"
	"github.com/hmny-labs/ltl2pddl/pkg/domain"
	"github.com/hmny-labs/ltl2pddl/pkg/ltl"
)

func namesFor(atoms ...*domain.Atom) ltl.NameMap {
	m := make(ltl.NameMap)
	for _, a := range atoms {
		m[a.Pred.Name] = a
	}
	return m
}

func TestParseSimpleLoop(t *testing.T) {
	p := domain.NewPredicate("p")
	names := namesFor(domain.NewAtom(p))

	text := `never { /* []p */
T0_init:
	if
	:: (p) -> goto accept_S0
	fi;
accept_S0:
	if
	:: (p) -> goto accept_S0
	fi;
}`

	result, err := automaton.Parse(text, names)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if len(result.Automaton.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(result.Automaton.States))
	}
	init := result.Automaton.InitState()
	if init == nil || init.SpinId != "T0_init" {
		t.Fatalf("expected T0_init to be the initial state, got %v", init)
	}
	acc := result.Automaton.AcceptanceStates()
	if len(acc) != 1 || acc[0].SpinId != "accept_S0" {
		t.Fatalf("expected accept_S0 to be the only acceptance state, got %v", acc)
	}
	if len(result.Automaton.Transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(result.Automaton.Transitions))
	}
	if !strings.Contains(result.SpinFormula, "[]p") {
		t.Fatalf("expected the comment formula to be captured, got %q", result.SpinFormula)
	}
}

func TestParseSkipTransition(t *testing.T) {
	text := `never {
T0_init:
	skip
}`
	result, err := automaton.Parse(text, nil)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if len(result.Automaton.Transitions) != 1 {
		t.Fatalf("expected a single self-loop transition, got %d", len(result.Automaton.Transitions))
	}
	tr := result.Automaton.Transitions[0]
	if tr.From != tr.To {
		t.Fatalf("'skip' should compile to a self-loop, got %d -> %d", tr.From, tr.To)
	}
}

func TestParseForwardReference(t *testing.T) {
	p := domain.NewPredicate("p")
	names := namesFor(domain.NewAtom(p))

	text := `never {
T0_init:
	if
	:: (p) -> goto accept_all
	fi;
accept_all:
	skip
}`
	result, err := automaton.Parse(text, names)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if len(result.Automaton.States) != 2 {
		t.Fatalf("expected the forward-referenced state to be allocated, got %d states", len(result.Automaton.States))
	}
}

func TestParseNegatedAndDisjunctiveLabels(t *testing.T) {
	p := domain.NewPredicate("p")
	q := domain.NewPredicate("q")
	names := namesFor(domain.NewAtom(p), domain.NewAtom(q))

	text := `never {
T0_init:
	if
	:: (!p && q) || (p) -> goto accept_S0
	fi;
accept_S0:
	skip
}`
	result, err := automaton.Parse(text, names)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if out := result.Automaton.InitState().Out; len(out) != 2 {
		t.Fatalf("expected the disjunction to expand into 2 transitions, got %d", len(out))
	}
	first := result.Automaton.Transitions[0]
	if len(first.Neg) != 1 || first.Neg[0].Pred != p {
		t.Fatalf("expected the first disjunct's negative literal to resolve to 'p'")
	}
	if len(first.Pos) != 1 || first.Pos[0].Pred != q {
		t.Fatalf("expected the first disjunct's positive literal to resolve to 'q'")
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := automaton.Parse("garbage\n", nil); err == nil {
		t.Fatal("expected an error for text missing the 'never {' header")
	}
}

func TestParseRejectsUnknownLiteral(t *testing.T) {
	text := `never {
T0_init:
	if
	:: (ghost) -> goto accept_S0
	fi;
accept_S0:
	skip
}`
	if _, err := automaton.Parse(text, namesFor()); err == nil {
		t.Fatal("expected an error for a literal absent from the name map")
	}
}

func TestParseRejectsNoInitialState(t *testing.T) {
	if _, err := automaton.Parse("never {\n}", nil); err == nil {
		t.Fatal("expected an error when no state block is ever present")
	}
}
