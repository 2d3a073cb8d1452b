package domain_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

func TestGroundPredicateNullary(t *testing.T) {
	p := domain.NewPredicate("goal")

	var seen int
	domain.GroundPredicate(p, func(args []*domain.Symbol) bool {
		seen++
		if args != nil {
			t.Fatalf("expected nil args for a nullary predicate, got %v", args)
		}
		return true
	})
	if seen != 1 {
		t.Fatalf("expected exactly one grounding, got %d", seen)
	}
}

func TestGroundPredicateCrossProduct(t *testing.T) {
	block := domain.NewType("block", nil)
	d := domain.NewDomain("blocks")
	a := d.AddConstant("a", block)
	b := d.AddConstant("b", block)
	c := d.AddConstant("c", block)

	on := domain.NewPredicate("on", domain.NewVariable("?x", block), domain.NewVariable("?y", block))

	var got []string
	domain.GroundPredicate(on, func(args []*domain.Symbol) bool {
		got = append(got, args[0].Name+"-"+args[1].Name)
		return true
	})

	want := []string{}
	for _, x := range []*domain.Symbol{a, b, c} {
		for _, y := range []*domain.Symbol{a, b, c} {
			want = append(want, x.Name+"-"+y.Name)
		}
	}
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got groundings %v, want %v", got, want)
	}
}

func TestGroundPredicateEarlyStop(t *testing.T) {
	block := domain.NewType("block", nil)
	d := domain.NewDomain("blocks")
	d.AddConstant("a", block)
	d.AddConstant("b", block)

	clear := domain.NewPredicate("clear", domain.NewVariable("?x", block))

	var seen int
	domain.GroundPredicate(clear, func(args []*domain.Symbol) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("expected enumeration to stop after the first yield, saw %d", seen)
	}
}

func TestGroundPredicateUntypedParam(t *testing.T) {
	p := domain.NewPredicate("loose", domain.NewVariable("?x", nil))

	var seen int
	domain.GroundPredicate(p, func(args []*domain.Symbol) bool {
		seen++
		return true
	})
	if seen != 0 {
		t.Fatalf("expected no groundings for an untyped parameter, saw %d", seen)
	}
}

func TestGroundPredicateSubtypeInheritance(t *testing.T) {
	object := domain.NewType("object", nil)
	block := domain.NewType("block", object)
	d := domain.NewDomain("blocks")
	d.AddConstant("table", object)
	d.AddConstant("a", block)

	p := domain.NewPredicate("clear", domain.NewVariable("?x", object))

	var seen []string
	domain.GroundPredicate(p, func(args []*domain.Symbol) bool {
		seen = append(seen, args[0].Name)
		return true
	})
	sort.Strings(seen)
	if strings.Join(seen, ",") != "a,table" {
		t.Fatalf("expected inherited elements from 'block' to ground over 'object', got %v", seen)
	}
}
