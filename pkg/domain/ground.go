package domain

import "github.com/hmny-labs/ltl2pddl/pkg/utils"

// ----------------------------------------------------------------------------
// Streamed grounding enumeration

// GroundPredicate enumerates every grounding p(c1, ..., cn) consistent with p's parameter
// types, calling 'yield' once per grounding. Enumeration stops early if 'yield' returns
// false. The argument slice passed to 'yield' is freshly allocated per call, so callers
// may retain it.
//
// This is the one place in the compiler with quadratic-or-worse material expansion: a
// domain with k predicates of arity n over a type with m elements has up to k*m^n
// groundings, and the compiled goal needs an end-p atom for every one of them, so
// enumeration is streamed rather than materialized into a single container. We enumerate
// with an odometer held in an index-cursor stack (adapting pkg/utils.Stack, otherwise
// unused here beyond this cross product) instead of recursion or building []​[]*Symbol up
// front, so memory stays O(arity) regardless of how many groundings exist.
func GroundPredicate(p *Predicate, yield func(args []*Symbol) bool) {
	n := len(p.Params)
	if n == 0 {
		yield(nil)
		return
	}

	domains := make([][]*Symbol, n)
	for i, param := range p.Params {
		if param.Parent == nil || len(param.Parent.Elements) == 0 {
			return // Untyped parameter, or a parameter type with no elements: no groundings
		}
		domains[i] = param.Parent.Elements
	}

	cursor := utils.NewStack[int]()
	for i := 0; i < n; i++ {
		cursor.Push(0) // Cursor bottom-to-top tracks dimension 0..n-1
	}

	for {
		args := make([]*Symbol, n)
		for dim, idx := range cursorSnapshot(&cursor, n) {
			args[dim] = domains[dim][idx]
		}
		if !yield(args) {
			return
		}
		if !incrementOdometer(&cursor, domains) {
			return // Every combination has been produced
		}
	}
}

// cursorSnapshot reads the n cursor values without disturbing the stack, indexed by
// dimension (dimension 0 was pushed first, so it sits at the stack's bottom).
func cursorSnapshot(cursor *utils.Stack[int], n int) []int {
	reversed := make([]int, 0, n)
	it := cursor.Iterator() // Yields top (dimension n-1) down to bottom (dimension 0)
	it(func(v int) bool {
		reversed = append(reversed, v)
		return true
	})

	idx := make([]int, n)
	for i, v := range reversed {
		idx[n-1-i] = v
	}
	return idx
}

// incrementOdometer advances the rightmost (highest-dimension) cursor entry that still
// has room, carrying over and resetting every dimension to its right as needed. Returns
// false once every combination across all dimensions has been exhausted.
func incrementOdometer(cursor *utils.Stack[int], domains [][]*Symbol) bool {
	n := len(domains)

	for {
		depth := cursor.Count()
		if depth == 0 {
			return false
		}
		dim := depth - 1
		v, _ := cursor.Pop()
		v++
		if v < len(domains[dim]) {
			cursor.Push(v)
			for d := dim + 1; d < n; d++ {
				cursor.Push(0)
			}
			return true
		}
		// Else this dimension carries: leave it popped and loop to carry into dim-1.
	}
}
