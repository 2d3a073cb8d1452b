// Package surface is the textual front end for the LTL compiler's domain/instance pair:
// it reads the textual domain/instance pair the LTL compiler is handed (printing the
// compiled pair is pkg/emitter's job). Reading is a two-phase pipeline - a goparsec
// grammar turns source text into a traversable AST (fromSource), which a second pass
// turns into typed, in-memory values (fromAST) - except here the grammar only needs to
// recognize the fully generic shape of a parenthesized list, since every construct in
// this surface syntax (types, predicates, actions, the LTL goal) is just a
// differently-shaped S-expression. The per-construct interpretation lives in domain.go,
// problem.go and ltl.go instead of in per-node Handle* methods.
package surface

import (
	"fmt"
	"io"
	"os"

	pc "github.com/prataprc/goparsec"
)

var ast = pc.NewAST("surface", 0)

// pSExpr is assigned in init(), after pList and pAtomTok (which reference it through the
// sexprRef indirection below) have already been built - goparsec combinators capture
// their sub-parsers by value at construction time, so a literal recursive reference would
// freeze at whatever pSExpr held when pList was built (nil). sexprRef instead reads the
// package variable at CALL time, by which point every package var and init() has already
// run, letting one list parser recurse into itself through an arbitrary nesting depth.
var pSExpr pc.Parser

func sexprRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pSExpr(s) }

var (
	pAtomTok = pc.Token(`[^\s()]+`, "ATOM")
	pList    = ast.And("list", nil, pc.Atom("(", "("), ast.Kleene("items", nil, sexprRef), pc.Atom(")", ")"))
	pAtom    = ast.OrdChoice("atom", nil, pc.Int(), pAtomTok)
)

func init() {
	pSExpr = ast.OrdChoice("sexpr", nil, pList, pAtom)
}

// sexpr is the generic, library-independent S-expression value every surface construct is
// interpreted from: either a leaf token or an ordered list of sub-expressions.
type sexpr struct {
	list  bool
	atom  string
	items []*sexpr
}

func (s *sexpr) String() string {
	if !s.list {
		return s.atom
	}
	out := "("
	for i, it := range s.items {
		if i > 0 {
			out += " "
		}
		out += it.String()
	}
	return out + ")"
}

// parse runs the two-phase pipeline (FromSource then FromAST) over 'r' and returns the
// top-level sexpr, which every surface text in this package is expected to be exactly one
// of: a single "(define ...)" form.
func parse(r io.Reader) (*sexpr, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("surface: cannot read input: %w", err)
	}

	root, ok := fromSource(content)
	if !ok {
		return nil, fmt.Errorf("surface: failed to parse input as a well-formed S-expression")
	}
	return fromAST(root)
}

// fromSource scans the textual input stream and returns a traversable AST, honoring the
// PARSEC_DEBUG/EXPORT_AST/PRINT_AST debugging environment variables goparsec-based
// parsers conventionally support.
func fromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}
	root, _ := ast.Parsewith(pSExpr, pc.NewScanner(source))
	if os.Getenv("EXPORT_AST") != "" {
		if file, err := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER"))); err == nil {
			defer file.Close()
			file.Write([]byte(ast.Dotstring(`"Surface AST"`)))
		}
	}
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}
	// TODO (ltl2pddl): success is assumed once a root node comes back; a malformed
	// trailing remainder past the top-level form is not currently detected.
	return root, root != nil
}

// fromAST walks the raw, library-typed AST node-by-node into a *sexpr tree.
func fromAST(root pc.Queryable) (*sexpr, error) {
	switch root.GetName() {
	case "list":
		children := root.GetChildren()
		if len(children) != 3 {
			return nil, fmt.Errorf("surface: malformed list node")
		}
		items := children[1].GetChildren()
		out := make([]*sexpr, 0, len(items))
		for _, child := range items {
			s, err := fromAST(child)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return &sexpr{list: true, items: out}, nil
	case "INT", "ATOM":
		return &sexpr{atom: root.GetValue()}, nil
	default:
		return nil, fmt.Errorf("surface: unexpected node %q in parsed AST", root.GetName())
	}
}
