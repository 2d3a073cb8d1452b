package ltl_test

import (
	"testing"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
	"github.com/hmny-labs/ltl2pddl/pkg/ltl"
)

func atomNode(name string) *domain.LTLNode {
	p := domain.NewPredicate(name)
	return domain.Atom_(domain.NewAtom(p))
}

func TestSerializeOperators(t *testing.T) {
	p, q := atomNode("p"), atomNode("q")

	test := func(name string, root *domain.LTLNode, want string) {
		t.Run(name, func(t *testing.T) {
			s := ltl.NewSerializer()
			if got := s.Serialize(root); got != want {
				t.Errorf("Serialize() = %q, want %q", got, want)
			}
		})
	}

	test("atom", p, "p")
	test("not", domain.Not(p), "(!p)")
	test("next", domain.Next(p), "(X p)")
	test("always", domain.Always(p), "([] p)")
	test("eventually", domain.Eventually(p), "(<> p)")
	test("and", domain.And(p, q), "(p && q)")
	test("or", domain.Or(p, q), "(p || q)")
	test("imply", domain.Impl(p, q), "(p -> q)")
	test("iff", domain.Iff(p, q), "(p <-> q)")
	test("until", domain.Until(p, q), "(p U q)")
	test("release", domain.Release(p, q), "(p V q)")
}

func TestSerializeNestedFormula(t *testing.T) {
	p, q := atomNode("p"), atomNode("q")
	root := domain.Always(domain.Impl(p, domain.Eventually(q)))

	s := ltl.NewSerializer()
	want := "([] (p -> (<> q)))"
	if got := s.Serialize(root); got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeCanonicalNamesIncludeArgs(t *testing.T) {
	block := domain.NewType("block", nil)
	a := &domain.Variable{Symbol: domain.Symbol{Name: "a", Kind: domain.ObjectSymbol, Parent: block}}
	on := domain.NewPredicate("on", domain.NewVariable("?x", block), domain.NewVariable("?y", block))
	lit := domain.NewAtom(on, &a.Symbol, &a.Symbol)

	s := ltl.NewSerializer()
	if got := s.Serialize(domain.Atom_(lit)); got != "on_a_a" {
		t.Fatalf("Serialize() = %q, want %q", got, "on_a_a")
	}
}

func TestSerializeRecordsNameMap(t *testing.T) {
	p := domain.NewPredicate("p")
	lit := domain.NewAtom(p)
	negLit := lit.Negate()

	s := ltl.NewSerializer()
	s.Serialize(domain.And(domain.Atom_(lit), domain.Not(domain.Atom_(negLit))))

	got, found := s.Names["p"]
	if !found {
		t.Fatal("expected the unprefixed atom name to be recorded in NameMap")
	}
	if got.Pred != p {
		t.Fatalf("NameMap entry should reference the original predicate")
	}
}
