// Package ltl serializes the LTL goal's AST (domain.LTLNode) into the line-based
// textual syntax the external Büchi translator expects, and maintains the bidirectional
// atom-name map used to reparse the translator's output.
package ltl

import (
	"fmt"
	"strings"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
)

// NameMap is the injective map populated by Serialize from canonical atom name (the
// SPIN-syntax proposition, e.g. "p_blockA_blockB") to the *domain.Atom it names. It is
// consumed by pkg/automaton's parser to resolve a transition label's literals back to
// domain atoms.
type NameMap map[string]*domain.Atom

// Serializer turns an LTLNode tree into the one-line SPIN-syntax formula '-f' expects,
// recording every atom it encounters into its NameMap as a side effect.
type Serializer struct {
	Names NameMap
}

// NewSerializer returns a Serializer with a fresh, empty NameMap.
func NewSerializer() *Serializer {
	return &Serializer{Names: make(NameMap)}
}

// Serialize renders 'root' as a single parenthesized SPIN formula string, using the
// operator mapping: ATOM→canonical name; NOT→'!'; AND→'&&'; OR→'||'; IMPL→'->';
// IFF→'<->'; NEXT→'X'; ALW→'[]'; EVT→'<>'; UNTIL→'U'; RELEASE→'V'. Every subformula is
// parenthesized so the grammar never needs operator-precedence rules.
func (s *Serializer) Serialize(root *domain.LTLNode) string {
	var b strings.Builder
	s.write(&b, root)
	return b.String()
}

func (s *Serializer) write(b *strings.Builder, n *domain.LTLNode) {
	if n.IsLeaf() {
		b.WriteString(s.canonicalName(n.Literal))
		return
	}

	b.WriteByte('(')
	switch n.Op {
	case domain.OpNot:
		b.WriteByte('!')
		s.write(b, n.Left)
	case domain.OpNext:
		b.WriteString("X ")
		s.write(b, n.Left)
	case domain.OpAlways:
		b.WriteString("[] ")
		s.write(b, n.Left)
	case domain.OpEventually:
		b.WriteString("<> ")
		s.write(b, n.Left)
	case domain.OpAnd, domain.OpOr, domain.OpImpl, domain.OpIff, domain.OpUntil, domain.OpRelease:
		s.write(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(binaryOp(n.Op))
		b.WriteByte(' ')
		s.write(b, n.Right)
	default:
		panic(fmt.Sprintf("ltl: unhandled operator %v", n.Op))
	}
	b.WriteByte(')')
}

func binaryOp(op domain.LTLOp) string {
	switch op {
	case domain.OpAnd:
		return "&&"
	case domain.OpOr:
		return "||"
	case domain.OpImpl:
		return "->"
	case domain.OpIff:
		return "<->"
	case domain.OpUntil:
		return "U"
	case domain.OpRelease:
		return "V"
	default:
		panic(fmt.Sprintf("ltl: %v is not a binary operator", op))
	}
}

// canonicalName produces 'pred_arg1_arg2…' (prefixed with '!' when the literal is
// negated) and records the association in Names, the one side effect of serialization.
// Negation is carried in the name's prefix only so the later label grammar (which strips
// a leading '!' to recover polarity) has exactly one place to look.
func (s *Serializer) canonicalName(lit *domain.Atom) string {
	parts := make([]string, 0, len(lit.Args)+1)
	parts = append(parts, lit.Pred.Name)
	for _, arg := range lit.Args {
		parts = append(parts, arg.Name)
	}
	name := strings.Join(parts, "_")

	// Record under the unprefixed name: polarity is not part of atom identity (see
	// domain.Atom.Equal), and the parser strips '!' before doing this same lookup.
	if _, found := s.Names[name]; !found {
		s.Names[name] = &domain.Atom{Pred: lit.Pred, Args: lit.Args}
	}

	if lit.Negated {
		return "!" + name
	}
	return name
}
