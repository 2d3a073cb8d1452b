// Package automaton owns the Büchi translator subprocess wiring and the parser that
// turns its line-oriented textual output back into a domain.Automaton.
package automaton

import (
	"bufio"
	"strings"

	"github.com/hmny-labs/ltl2pddl/pkg/domain"
	"github.com/hmny-labs/ltl2pddl/pkg/ltl"
)

// Result is what Parse returns: the automaton, and in SpinFormula the raw SPIN formula
// echoed on the translator's first line, kept for diagnostic printing only.
type Result struct {
	Automaton   *domain.Automaton
	SpinFormula string
}

// parser holds the mutable state threaded through one Parse call: the automaton being
// built, the SPIN-id → state-index map (states are allocated the first time they are
// referenced, whether as a block header or as a forward goto target), and the atom name
// map used to resolve transition labels.
type parser struct {
	automaton *domain.Automaton
	byID      map[string]int // SPIN state id -> index into automaton.States
	names     ltl.NameMap
	line      int
}

// Parse reparses 'text' (the translator's stdout) into a domain.Automaton, resolving
// transition labels against 'names' (the map Serialize populated for the same formula).
func Parse(text string, names ltl.NameMap) (*Result, error) {
	p := &parser{automaton: domain.NewAutomaton(), byID: make(map[string]int), names: names}

	scanner := bufio.NewScanner(strings.NewReader(text))
	if !scanner.Scan() {
		return nil, &ParseError{Line: 0, Reason: "empty translator output"}
	}
	p.line = 1
	first := scanner.Text()
	if !strings.HasPrefix(strings.TrimSpace(first), "never {") {
		return nil, &ParseError{Line: 1, Reason: "expected 'never {' opening line"}
	}
	spinFormula := extractFormula(first)

	closed := false
	for scanner.Scan() {
		p.line++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "}" {
			closed = true
			break // Closing brace of 'never {' terminates the whole automaton, nothing more to do
		}

		stateID, ok := stateHeader(line)
		if !ok {
			return nil, &ParseError{Line: p.line, Reason: "expected a state header, got: " + line}
		}
		from := p.stateFor(stateID)

		body, err := p.nextMeaningfulLine(scanner)
		if err != nil {
			return nil, err
		}

		if body == "}" {
			closed = true
			break // A final terminating state: no outgoing transitions, and the automaton ends here
		}
		if body == "skip" {
			p.automaton.AddTransition(from, from, nil, nil)
			continue
		}
		if body != "if" {
			return nil, &ParseError{Line: p.line, Reason: "expected 'skip' or 'if', got: " + body}
		}

		if err := p.parseAlternatives(scanner, from); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: p.line, Reason: err.Error()}
	}
	if !closed {
		return nil, &ParseError{Line: p.line, Reason: "unexpected end of input, missing closing brace"}
	}

	if p.automaton.InitState() == nil {
		return nil, &ParseError{Line: p.line, Reason: "no initial state identified in translator output"}
	}

	return &Result{Automaton: p.automaton, SpinFormula: spinFormula}, nil
}

// stateFor returns the index for 'id', allocating it (and marking the very first state
// ever seen as initial) if this is the first time 'id' is encountered - whether because
// its block header is being parsed now, or because it was referenced by an earlier
// 'goto' before its own block appeared.
func (p *parser) stateFor(id string) int {
	if idx, found := p.byID[id]; found {
		return idx
	}
	s := p.automaton.AddState(id, strings.Contains(id, "accept"))
	p.byID[id] = s.Id
	if p.automaton.Init < 0 {
		p.automaton.Init = s.Id
	}
	return s.Id
}

// nextMeaningfulLine returns the next non-blank scanned line, tracking line numbers.
func (p *parser) nextMeaningfulLine(scanner *bufio.Scanner) (string, error) {
	for scanner.Scan() {
		p.line++
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	return "", &ParseError{Line: p.line, Reason: "unexpected end of input, missing closing brace"}
}

// parseAlternatives consumes ':: <label> -> goto <dst>' lines until 'fi;', expanding
// each alternative's (possibly disjunctive) label into one or more transitions out of
// 'from'.
func (p *parser) parseAlternatives(scanner *bufio.Scanner, from int) error {
	for {
		line, err := p.nextMeaningfulLine(scanner)
		if err != nil {
			return err
		}
		if line == "fi;" {
			return nil
		}
		if err := p.parseAlternative(line, from); err != nil {
			return err
		}
	}
}

func (p *parser) parseAlternative(line string, from int) error {
	rest, ok := strings.CutPrefix(line, "::")
	if !ok {
		return &ParseError{Line: p.line, Reason: "expected ':: <label> -> goto <dst>', got: " + line}
	}
	rest = strings.TrimSpace(rest)

	labelPart, dstPart, ok := strings.Cut(rest, "-> goto")
	if !ok {
		return &ParseError{Line: p.line, Reason: "missing '-> goto' in alternative: " + line}
	}
	dst := p.stateFor(strings.TrimSpace(dstPart))

	for _, disjunct := range splitTopLevel(strings.TrimSpace(labelPart), "||") {
		pos, neg, err := p.parseConjunction(disjunct)
		if err != nil {
			return err
		}
		p.automaton.AddTransition(from, dst, pos, neg)
	}
	return nil
}

// parseConjunction parses one '(l1 && l2 ...)' disjunct (parens optional) into the
// positive/negative atom sets it denotes, resolving each literal against the name map
// built while serializing the formula: a leading '!' is the negation marker, and the
// literal '1' denotes 'always true' (both sets left empty).
func (p *parser) parseConjunction(disjunct string) ([]*domain.Atom, []*domain.Atom, error) {
	disjunct = strings.TrimSpace(disjunct)
	disjunct = strings.TrimPrefix(disjunct, "(")
	disjunct = strings.TrimSuffix(disjunct, ")")
	disjunct = strings.TrimSpace(disjunct)

	if disjunct == "" || disjunct == "1" {
		return nil, nil, nil
	}

	var pos, neg []*domain.Atom
	for _, lit := range strings.Split(disjunct, "&&") {
		lit = strings.TrimSpace(lit)
		if lit == "1" {
			continue
		}
		negated := strings.HasPrefix(lit, "!")
		name := strings.TrimPrefix(lit, "!")

		atom, found := p.names[name]
		if !found {
			return nil, nil, &ParseError{Line: p.line, Reason: "unknown literal in label: " + lit}
		}
		if negated {
			neg = append(neg, atom)
		} else {
			pos = append(pos, atom)
		}
	}
	return pos, neg, nil
}

// splitTopLevel splits 'label' on 'sep' without breaking up parenthesized groups -
// ltl2ba's disjuncts are fully parenthesized conjunctions, so a simple depth counter
// suffices (no nested parens appear inside a single conjunction).
func splitTopLevel(label, sep string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(label[i:], sep) {
			parts = append(parts, label[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, label[start:])
	return parts
}

// stateHeader reports whether 'line' is a state block header ('stateId:'), returning the
// bare id with its trailing colon stripped.
func stateHeader(line string) (string, bool) {
	id, ok := strings.CutSuffix(line, ":")
	if !ok {
		return "", false
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, " \t") {
		return "", false
	}
	return id, true
}

// extractFormula pulls the '/* ... */' comment off the 'never {' opening line, if any.
func extractFormula(firstLine string) string {
	start := strings.Index(firstLine, "/*")
	end := strings.Index(firstLine, "*/")
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(firstLine[start+2 : end])
}
