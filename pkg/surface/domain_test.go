package surface_test

import (
	"testing"

	"github.com/hmny-labs/ltl2pddl/pkg/surface"
)

func TestParseBasicDomainAndProblem(t *testing.T) {
	domainText := `(define (domain blocks)
  (:types block)
  (:constants a b - block)
  (:predicates (clear ?x - block) (on ?x - block ?y - block))
  (:action pickup
    :parameters (?x - block)
    :precondition (clear ?x)
    :effect (not (clear ?x))))`
	problemText := `(define (problem blocks-1)
  (:domain blocks)
  (:objects c - block)
  (:init (clear a) (clear c))
  (:goal (always (clear a))))`

	d, err := surface.Parse(domainText, problemText)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if d.Name != "blocks" {
		t.Fatalf("expected domain name 'blocks', got %q", d.Name)
	}
	if d.TypeByName("block") == nil {
		t.Fatal("expected a declared type 'block'")
	}
	if len(d.Constants) != 3 {
		t.Fatalf("expected 3 constants (a, b, c), got %d", len(d.Constants))
	}
	if d.PredicateByName("clear") == nil || d.PredicateByName("on") == nil {
		t.Fatal("expected both 'clear' and 'on' predicates to be declared")
	}
	pickup := d.ActionByName("pickup")
	if pickup == nil {
		t.Fatal("expected action 'pickup' to be declared")
	}
	if len(pickup.GuardPos) != 1 || len(pickup.Dels) != 1 {
		t.Fatalf("expected one positive precondition and one delete effect, got %+v", pickup)
	}
	if len(d.InitAtoms) != 2 {
		t.Fatalf("expected 2 init atoms, got %d", len(d.InitAtoms))
	}
	if d.LTLGoal == nil {
		t.Fatal("expected the goal formula to be parsed into LTLGoal")
	}
}

func TestParseTypedParameterShorthand(t *testing.T) {
	domainText := `(define (domain blocks)
  (:types block)
  (:constants a - block)
  (:predicates (handempty) (ontable ?x ?y - block)))`
	problemText := `(define (problem p) (:domain blocks) (:objects) (:init) (:goal (handempty)))`

	d, err := surface.Parse(domainText, problemText)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	handempty := d.PredicateByName("handempty")
	if handempty == nil || handempty.Arity() != 0 {
		t.Fatalf("expected 'handempty' to be a nullary predicate")
	}
	ontable := d.PredicateByName("ontable")
	if ontable == nil || ontable.Arity() != 2 {
		t.Fatalf("expected 'ontable' to take two parameters typed by trailing '- block'")
	}
}

func TestParseRejectsMalformedDomainHeader(t *testing.T) {
	if _, err := surface.Parse(`(nonsense)`, `(define (problem p) (:domain x) (:init) (:goal (p)))`); err == nil {
		t.Fatal("expected an error for a missing (define (domain ...)) header")
	}
	if _, err := surface.Parse(`(define (problem foo))`, `(define (problem p) (:domain x) (:init) (:goal (p)))`); err == nil {
		t.Fatal("expected an error when the domain text's header names a problem, not a domain")
	}
}

func TestParseRejectsDomainNameMismatch(t *testing.T) {
	domainText := `(define (domain blocks) (:predicates (clear ?x)))`
	problemText := `(define (problem p) (:domain not-blocks) (:objects) (:init) (:goal (clear a)))`
	if _, err := surface.Parse(domainText, problemText); err == nil {
		t.Fatal("expected an error when the problem declares a mismatched domain name")
	}
}

func TestParseWhenForallOneofEffects(t *testing.T) {
	domainText := `(define (domain blocks)
  (:types block)
  (:predicates (p ?x - block) (q ?x - block) (r))
  (:action act
    :parameters (?x - block)
    :precondition (r)
    :effect (and
      (when (p ?x) (q ?x))
      (forall (?y - block) (when (p ?y) (not (q ?y))))
      (oneof (p ?x) (not (p ?x))))))`
	problemText := `(define (problem p1) (:domain blocks) (:objects) (:init) (:goal (r)))`

	d, err := surface.Parse(domainText, problemText)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	act := d.ActionByName("act")
	if act == nil {
		t.Fatal("expected action 'act' to be declared")
	}
	if len(act.Effects) != 2 {
		t.Fatalf("expected 2 Complex effects (when + forall), got %d", len(act.Effects))
	}
	if len(act.OneOfs) != 1 {
		t.Fatalf("expected 1 OneOf block, got %d", len(act.OneOfs))
	}

	var quantified bool
	for _, c := range act.Effects {
		if c.IsQuantified() {
			quantified = true
		}
	}
	if !quantified {
		t.Fatal("expected the 'forall' effect to be quantified")
	}
}

func TestParseDisjunctivePrecondition(t *testing.T) {
	domainText := `(define (domain blocks)
  (:predicates (p) (q))
  (:action act :parameters () :precondition (or (p) (not (q))) :effect (p)))`
	problemText := `(define (problem p1) (:domain blocks) (:objects) (:init) (:goal (p)))`

	d, err := surface.Parse(domainText, problemText)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	act := d.ActionByName("act")
	if len(act.Clausal) != 1 {
		t.Fatalf("expected one disjunctive clause on the precondition, got %d", len(act.Clausal))
	}
	if act.Clausal[0].Len() != 2 {
		t.Fatalf("expected the clause to carry both literals, got %d", act.Clausal[0].Len())
	}
}

func TestParseLTLOperators(t *testing.T) {
	domainText := `(define (domain blocks) (:predicates (p) (q)))`
	for _, goal := range []string{
		"(not (p))", "(next (p))", "(always (p))", "(eventually (p))",
		"(and (p) (q))", "(or (p) (q))", "(imply (p) (q))", "(iff (p) (q))",
		"(until (p) (q))", "(release (p) (q))",
	} {
		problemText := `(define (problem p1) (:domain blocks) (:objects) (:init) (:goal ` + goal + `))`
		if _, err := surface.Parse(domainText, problemText); err != nil {
			t.Errorf("goal %q: unexpected error: %v", goal, err)
		}
	}
}
