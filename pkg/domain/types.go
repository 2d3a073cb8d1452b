package domain

// ----------------------------------------------------------------------------
// Types

// A Type is a Symbol with an ordered element list: the constants belonging to that type,
// including those inherited from descendant types. The root type is implicit (every Type
// with a nil Parent is, transitively, a child of it) and is never itself materialized as
// a *Type value - callers that need "the root" just look for Parent == nil.
//
// Invariant: Elements(subtype) is a subset of Elements(parent). Compile/InsertElement is
// the only place that appends to Elements, and it does so for every ancestor in turn so
// the invariant holds after every mutation, not just at the end of a batch.
type Type struct {
	Symbol
	Elements []*Symbol // Constants belonging to this type, own and inherited
}

// NewType allocates a fresh Type, optionally rooted under 'parent' (nil means root).
func NewType(name string, parent *Type) *Type {
	return &Type{Symbol: Symbol{Name: name, Kind: TypeSymbol, Parent: parent}}
}

// InsertElement adds 'c' to this type's element list and to every ancestor type's element
// list in turn, preserving the subset invariant between a type and its parent chain.
func (t *Type) InsertElement(c *Symbol) {
	for cur := t; cur != nil; cur = cur.Parent {
		cur.Elements = append(cur.Elements, c)
	}
}

// IsSubtypeOf reports whether 't' is 'other' or a descendant of it, walking the parent
// chain. A nil 'other' denotes the implicit root, which every type satisfies.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if other == nil {
		return true
	}
	for cur := t; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}
