package domain

// ----------------------------------------------------------------------------
// Symbols

// This section defines the shared notion of a 'Symbol', the named entity backing every
// object, type, predicate, action and variable in the compiled planning problem.
//
// A Symbol carries only what every kind of named entity needs in common: a print name
// and, for non-variable symbols, an optional parent type. Variables additionally carry
// a current binding used while an action schema is being instantiated; this field is
// irrelevant for the schema-level AST itself and only matters during grounding.

type SymbolKind uint8 // Enumeration distinguishing what a Symbol names

const (
	ObjectSymbol   SymbolKind = iota // A domain constant/object
	TypeSymbol                       // A type
	PredicateSym                     // A predicate
	ActionSym                        // An action schema
	VariableSym                      // A schema-scoped variable
)

// In-memory representation of a named entity in the domain/instance AST.
//
// Symbol is intentionally minimal: it is embedded (not wrapped) by Type, Predicate,
// ActionSchema and Variable so that every symbol kind shares identity semantics without
// forcing an inheritance hierarchy.
type Symbol struct {
	Name   string     // The symbol's print name, unique within its own kind
	Kind   SymbolKind // What this symbol names
	Parent *Type      // Parent type, nil for the implicit root type and for kinds without one
}

// Variable is a Symbol scoped to an enclosing predicate/action parameter list.
//
// 'Binding' is populated only during grounding (instantiating a schema against concrete
// objects); it is left nil on every variable that lives in the static AST.
type Variable struct {
	Symbol
	Binding *Symbol // Current binding, nil until the variable is grounded
}

// NewVariable builds a fresh, unbound Variable of the given type.
func NewVariable(name string, typ *Type) *Variable {
	return &Variable{Symbol: Symbol{Name: name, Kind: VariableSym, Parent: typ}}
}
