package surface

import (
	"fmt"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// parseLTL interprets a temporal-formula sexpr into a domain.LTLNode, the tree
// pkg/ltl.Serializer later turns into the external translator's line-based syntax. Every
// leaf is a ground atom reference (problem-level goals carry no free variables), and every
// internal node is one of the operators domain.LTLNode itself enumerates.
func (b *builder) parseLTL(s *sexpr) (*domain.LTLNode, error) {
	if !s.list || len(s.items) == 0 {
		return nil, fmt.Errorf("surface: empty LTL formula")
	}
	op := s.items[0].atom

	unary := func(ctor func(*domain.LTLNode) *domain.LTLNode) (*domain.LTLNode, error) {
		if len(s.items) != 2 {
			return nil, fmt.Errorf("surface: '%s' takes exactly one argument", op)
		}
		inner, err := b.parseLTL(s.items[1])
		if err != nil {
			return nil, err
		}
		return ctor(inner), nil
	}
	binary := func(ctor func(l, r *domain.LTLNode) *domain.LTLNode) (*domain.LTLNode, error) {
		if len(s.items) != 3 {
			return nil, fmt.Errorf("surface: '%s' takes exactly two arguments", op)
		}
		left, err := b.parseLTL(s.items[1])
		if err != nil {
			return nil, err
		}
		right, err := b.parseLTL(s.items[2])
		if err != nil {
			return nil, err
		}
		return ctor(left, right), nil
	}

	switch op {
	case "not":
		return unary(domain.Not)
	case "next":
		return unary(domain.Next)
	case "always":
		return unary(domain.Always)
	case "eventually":
		return unary(domain.Eventually)
	case "and":
		return binary(domain.And)
	case "or":
		return binary(domain.Or)
	case "imply":
		return binary(domain.Impl)
	case "iff":
		return binary(domain.Iff)
	case "until":
		return binary(domain.Until)
	case "release":
		return binary(domain.Release)
	default:
		atom, err := b.resolveAtom(s)
		if err != nil {
			return nil, err
		}
		return domain.Atom_(atom), nil
	}
}
