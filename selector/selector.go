package selector

import (
	"fmt"
	"strconv"
	"strings"
)

// Combinator connects two compound steps in a CompiledSelector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	AdjacentSibling
	GeneralSibling
)

// AttrOp enumerates the attribute-predicate operators spec.md §4.5 lists.
type AttrOp int

const (
	AttrPresence AttrOp = iota
	AttrExact
	AttrWordList
	AttrPrefix
	AttrSuffix
	AttrSubstring
)

// AttrPredicate is a single `[name op value]` attribute selector.
type AttrPredicate struct {
	Name            string
	Op              AttrOp
	Value           string
	CaseInsensitive bool
}

// PseudoKind enumerates the closed pseudo-class set spec.md §4.5/§9 allows.
// Anything outside this set is a compile-time InvalidSelectorError, never a
// silent runtime non-match — see Compile/parsePseudo.
type PseudoKind int

const (
	PseudoFirstChild PseudoKind = iota
	PseudoLastChild
	PseudoNthChild
	PseudoEmpty
	PseudoNot
)

// Pseudo is one pseudo-class applied within a compound step. A and B hold
// the parsed an+b coefficients for PseudoNthChild; Not holds the parsed
// simple-selector-list for PseudoNot (an element matches :not(list) iff it
// matches none of the compounds in Not).
type Pseudo struct {
	Kind PseudoKind
	A, B int
	Not  []*Compound
}

// Compound is a conjunction of simple selectors applied at one tree
// position: at most one tag (or "*" for universal) and at most one id, plus
// any number of classes, attribute predicates, and pseudo-classes, all of
// which must hold simultaneously.
type Compound struct {
	Tag     string // "" = unconstrained, "*" = explicit universal
	ID      string
	Classes []string
	Attrs   []AttrPredicate
	Pseudos []Pseudo
}

// step is one compound in a CompiledSelector's left-to-right chain, paired
// with the combinator joining it to the step that follows (meaningless on
// the last step).
type step struct {
	Compound         Compound
	CombinatorToNext Combinator
}

// FastPath classifies a CompiledSelector for dispatcher strategy selection,
// per spec.md §4.5/§4.7.
type FastPath int

const (
	General FastPath = iota
	IDOnlyPath
	ClassOnlyPath
	TagOnlyPath
	IDAnchoredPath
	ClassAnchoredPath
)

// CompiledSelector is a parsed selector ready for repeated matching: a
// non-empty left-to-right sequence of compound steps joined by combinators,
// tagged with a fast-path classification and a CSS specificity triple
// (id-count, class/attr/pseudo-count, type-count).
type CompiledSelector struct {
	Source      string
	Steps       []step
	Fast        FastPath
	Specificity [3]int
}

// InvalidSelectorError reports a selector that fails the grammar spec.md
// §4.5 defines, or uses a feature outside it (e.g. an unsupported
// pseudo-class). It always carries the original source string.
type InvalidSelectorError struct {
	Source  string
	Message string
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Source, e.Message)
}

// Compile parses source into a CompiledSelector. Empty source, and any
// syntax outside spec.md §4.5's grammar, fail with InvalidSelectorError.
func Compile(source string) (*CompiledSelector, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &InvalidSelectorError{Source: source, Message: "empty selector"}
	}
	toks := NewTokenizer(source).TokenizeAll()
	p := &parser{toks: toks}
	steps, err := p.parseComplex()
	if err != nil {
		return nil, &InvalidSelectorError{Source: source, Message: err.Error()}
	}
	if p.peek().Type != TokenEOF {
		return nil, &InvalidSelectorError{Source: source, Message: "unexpected trailing input"}
	}
	cs := &CompiledSelector{Source: source, Steps: steps}
	cs.classify()
	cs.computeSpecificity()
	return cs, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) skipWhitespace() {
	for p.peek().Type == TokenWhitespace {
		p.advance()
	}
}

// parseComplex parses a compound (combinator compound)* chain. No top-level
// selector lists (comma groups) are supported, per spec.md §4.5's "a
// non-empty sequence of compound steps" — only :not() takes a list.
func (p *parser) parseComplex() ([]step, error) {
	p.skipWhitespace()
	first, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	steps := []step{{Compound: *first}}
	for {
		comb, ok, err := p.parseCombinator()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		steps[len(steps)-1].CombinatorToNext = comb
		next, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{Compound: *next})
	}
	return steps, nil
}

func (p *parser) parseCombinator() (Combinator, bool, error) {
	sawWS := false
	for p.peek().Type == TokenWhitespace {
		p.advance()
		sawWS = true
	}
	t := p.peek()
	if t.Type == TokenDelim {
		switch t.Delim {
		case '>':
			p.advance()
			p.skipWhitespace()
			return Child, true, nil
		case '+':
			p.advance()
			p.skipWhitespace()
			return AdjacentSibling, true, nil
		case '~':
			p.advance()
			p.skipWhitespace()
			return GeneralSibling, true, nil
		}
	}
	if t.Type == TokenEOF {
		return 0, false, nil
	}
	if sawWS {
		return Descendant, true, nil
	}
	return 0, false, nil
}

// parseCompound parses one conjunction of simple selectors. A type
// selector, if present, must come first.
func (p *parser) parseCompound() (*Compound, error) {
	c := &Compound{}
	count := 0
loop:
	for {
		t := p.peek()
		switch t.Type {
		case TokenIdent:
			if count != 0 {
				break loop
			}
			c.Tag = strings.ToLower(t.Value)
			p.advance()
			count++
		case TokenDelim:
			switch t.Delim {
			case '*':
				if count != 0 {
					break loop
				}
				c.Tag = "*"
				p.advance()
				count++
			case '.':
				p.advance()
				id := p.peek()
				if id.Type != TokenIdent {
					return nil, fmt.Errorf("expected class name after '.'")
				}
				p.advance()
				c.Classes = append(c.Classes, strings.ToLower(id.Value))
				count++
			default:
				break loop
			}
		case TokenHash:
			if t.HashType != HashID {
				return nil, fmt.Errorf("invalid id selector %q", t.Value)
			}
			c.ID = t.Value
			p.advance()
			count++
		case TokenOpenSquare:
			attr, err := p.parseAttr()
			if err != nil {
				return nil, err
			}
			c.Attrs = append(c.Attrs, *attr)
			count++
		case TokenColon:
			ps, err := p.parsePseudo()
			if err != nil {
				return nil, err
			}
			c.Pseudos = append(c.Pseudos, *ps)
			count++
		default:
			break loop
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("expected a selector, found %s", p.peek())
	}
	return c, nil
}

func (p *parser) parseAttr() (*AttrPredicate, error) {
	p.advance() // '['
	p.skipWhitespace()
	nameTok := p.peek()
	if nameTok.Type != TokenIdent {
		return nil, fmt.Errorf("expected attribute name")
	}
	p.advance()
	name := strings.ToLower(nameTok.Value)
	p.skipWhitespace()

	if p.peek().Type == TokenCloseSquare {
		p.advance()
		return &AttrPredicate{Name: name, Op: AttrPresence}, nil
	}

	op, err := p.parseAttrOp()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()

	valTok := p.peek()
	var value string
	switch valTok.Type {
	case TokenString, TokenIdent:
		value = valTok.Value
	default:
		return nil, fmt.Errorf("expected attribute value")
	}
	p.advance()
	p.skipWhitespace()

	ci := false
	if p.peek().Type == TokenIdent && strings.EqualFold(p.peek().Value, "i") {
		ci = true
		p.advance()
		p.skipWhitespace()
	}
	if p.peek().Type != TokenCloseSquare {
		return nil, fmt.Errorf("expected ']'")
	}
	p.advance()
	return &AttrPredicate{Name: name, Op: op, Value: value, CaseInsensitive: ci}, nil
}

func (p *parser) parseAttrOp() (AttrOp, error) {
	t := p.peek()
	if t.Type != TokenDelim {
		return 0, fmt.Errorf("unsupported attribute operator")
	}
	switch t.Delim {
	case '=':
		p.advance()
		return AttrExact, nil
	case '~':
		p.advance()
		if !p.eatDelim('=') {
			return 0, fmt.Errorf("expected '=' after '~'")
		}
		return AttrWordList, nil
	case '^':
		p.advance()
		if !p.eatDelim('=') {
			return 0, fmt.Errorf("expected '=' after '^'")
		}
		return AttrPrefix, nil
	case '$':
		p.advance()
		if !p.eatDelim('=') {
			return 0, fmt.Errorf("expected '=' after '$'")
		}
		return AttrSuffix, nil
	case '*':
		p.advance()
		if !p.eatDelim('=') {
			return 0, fmt.Errorf("expected '=' after '*'")
		}
		return AttrSubstring, nil
	}
	return 0, fmt.Errorf("unsupported attribute operator %q", string(t.Delim))
}

func (p *parser) eatDelim(r rune) bool {
	if p.peek().Type == TokenDelim && p.peek().Delim == r {
		p.advance()
		return true
	}
	return false
}

func (p *parser) parsePseudo() (*Pseudo, error) {
	p.advance() // ':'
	t := p.peek()
	switch t.Type {
	case TokenIdent:
		name := strings.ToLower(t.Value)
		p.advance()
		switch name {
		case "first-child":
			return &Pseudo{Kind: PseudoFirstChild}, nil
		case "last-child":
			return &Pseudo{Kind: PseudoLastChild}, nil
		case "empty":
			return &Pseudo{Kind: PseudoEmpty}, nil
		default:
			return nil, fmt.Errorf("unsupported pseudo-class :%s", name)
		}
	case TokenFunction:
		name := strings.ToLower(t.Value)
		p.advance()
		switch name {
		case "nth-child":
			a, b, err := p.parseNthArg()
			if err != nil {
				return nil, err
			}
			return &Pseudo{Kind: PseudoNthChild, A: a, B: b}, nil
		case "not":
			list, err := p.parseNotArg()
			if err != nil {
				return nil, err
			}
			return &Pseudo{Kind: PseudoNot, Not: list}, nil
		default:
			return nil, fmt.Errorf("unsupported pseudo-class :%s()", name)
		}
	default:
		return nil, fmt.Errorf("expected pseudo-class name after ':'")
	}
}

func (p *parser) parseNthArg() (int, int, error) {
	var sb strings.Builder
	for {
		t := p.peek()
		if t.Type == TokenCloseParen {
			p.advance()
			break
		}
		if t.Type == TokenEOF {
			return 0, 0, fmt.Errorf("unterminated nth-child()")
		}
		sb.WriteString(renderToken(t))
		p.advance()
	}
	raw := strings.ToLower(strings.ReplaceAll(sb.String(), " ", ""))
	a, b, ok := parseAnB(raw)
	if !ok {
		return 0, 0, fmt.Errorf("invalid nth-child expression %q", sb.String())
	}
	return a, b, nil
}

func (p *parser) parseNotArg() ([]*Compound, error) {
	var list []*Compound
	for {
		p.skipWhitespace()
		c, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		list = append(list, c)
		p.skipWhitespace()
		if p.peek().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if p.peek().Type != TokenCloseParen {
		return nil, fmt.Errorf("expected ')' in :not()")
	}
	p.advance()
	return list, nil
}

// renderToken reconstructs the literal text a token was scanned from,
// sufficient to re-render an an+b expression for parseAnB without tracking
// byte offsets through the tokenizer.
func renderToken(t Token) string {
	switch t.Type {
	case TokenIdent, TokenNumber:
		return t.Value
	case TokenDimension:
		return t.Value + t.Unit
	case TokenDelim:
		return string(t.Delim)
	case TokenWhitespace:
		return " "
	default:
		return ""
	}
}

// parseAnB parses the an+b micro-syntax CSS uses for :nth-child(), already
// lowercased and stripped of whitespace: "odd", "even", "<b>", or
// "<a>n<+b>" in any combination of signs CSS allows.
func parseAnB(s string) (a, b int, ok bool) {
	if s == "odd" {
		return 2, 1, true
	}
	if s == "even" {
		return 2, 0, true
	}
	idx := strings.IndexByte(s, 'n')
	if idx < 0 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		return 0, n, true
	}
	aPart, bPart := s[:idx], s[idx+1:]
	switch aPart {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aPart)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}
	if bPart != "" {
		v, err := strconv.Atoi(bPart)
		if err != nil {
			return 0, 0, false
		}
		b = v
	}
	return a, b, true
}

func isIDOnly(c Compound) bool {
	return c.ID != "" && c.Tag == "" && len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0
}

func isClassOnly(c Compound) bool {
	return len(c.Classes) == 1 && c.ID == "" && c.Tag == "" && len(c.Attrs) == 0 && len(c.Pseudos) == 0
}

func isTagOnly(c Compound) bool {
	return c.Tag != "" && c.Tag != "*" && c.ID == "" && len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0
}

// classify tags cs with the fast-path dispatcher strategy spec.md §4.5/§4.7
// describes.
func (cs *CompiledSelector) classify() {
	last := cs.Steps[len(cs.Steps)-1].Compound
	if len(cs.Steps) == 1 {
		switch {
		case isIDOnly(last):
			cs.Fast = IDOnlyPath
		case isClassOnly(last):
			cs.Fast = ClassOnlyPath
		case isTagOnly(last):
			cs.Fast = TagOnlyPath
		default:
			cs.Fast = General
		}
		return
	}
	first := cs.Steps[0].Compound
	switch {
	case first.ID != "":
		cs.Fast = IDAnchoredPath
	case len(first.Classes) > 0:
		cs.Fast = ClassAnchoredPath
	default:
		cs.Fast = General
	}
}

// computeSpecificity computes the standard CSS specificity triple: id
// count, class/attribute/pseudo-class count, type-selector count.
func (cs *CompiledSelector) computeSpecificity() {
	var a, b, c int
	for _, s := range cs.Steps {
		cp := s.Compound
		if cp.ID != "" {
			a++
		}
		b += len(cp.Classes) + len(cp.Attrs) + len(cp.Pseudos)
		if cp.Tag != "" && cp.Tag != "*" {
			c++
		}
	}
	cs.Specificity = [3]int{a, b, c}
}
