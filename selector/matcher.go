package selector

import (
	"strings"

	"github.com/domtree/scrape/dom"
)

// MatchesElement decides selector membership right-to-left, per spec.md
// §4.6: the rightmost compound is checked against the candidate first, and
// only once that holds does matching walk left across the combinator chain.
func (cs *CompiledSelector) MatchesElement(e dom.Element) bool {
	if len(cs.Steps) == 0 {
		return false
	}
	return cs.matchFrom(len(cs.Steps)-1, e)
}

func (cs *CompiledSelector) matchFrom(i int, e dom.Element) bool {
	if !matchCompound(e, cs.Steps[i].Compound) {
		return false
	}
	if i == 0 {
		return true
	}
	switch cs.Steps[i-1].CombinatorToNext {
	case Descendant:
		for _, anc := range e.Ancestors() {
			if cs.matchFrom(i-1, anc) {
				return true
			}
		}
		return false
	case Child:
		p, ok := e.Parent()
		if !ok {
			return false
		}
		return cs.matchFrom(i-1, p)
	case AdjacentSibling:
		prev, ok := nearestPrevElementSibling(e)
		if !ok {
			return false
		}
		return cs.matchFrom(i-1, prev)
	case GeneralSibling:
		for _, sib := range e.PrevElementSiblings() {
			if cs.matchFrom(i-1, sib) {
				return true
			}
		}
		return false
	}
	return false
}

// nearestPrevElementSibling returns e's immediate preceding element-kind
// sibling, skipping any interleaved text/comment nodes.
func nearestPrevElementSibling(e dom.Element) (dom.Element, bool) {
	sibs := e.PrevElementSiblings()
	if len(sibs) == 0 {
		return dom.Element{}, false
	}
	return sibs[len(sibs)-1], true
}

func matchCompound(e dom.Element, c Compound) bool {
	if c.Tag != "" && c.Tag != "*" && e.TagName() != c.Tag {
		return false
	}
	if c.ID != "" {
		v, ok := e.GetAttribute("id")
		if !ok || v != c.ID {
			return false
		}
	}
	for _, cl := range c.Classes {
		if !e.HasClass(cl) {
			return false
		}
	}
	for _, a := range c.Attrs {
		if !matchAttr(e, a) {
			return false
		}
	}
	for _, ps := range c.Pseudos {
		if !matchPseudo(e, ps) {
			return false
		}
	}
	return true
}

func matchAttr(e dom.Element, a AttrPredicate) bool {
	v, ok := e.GetAttribute(a.Name)
	if !ok {
		return false
	}
	switch a.Op {
	case AttrPresence:
		return true
	case AttrExact:
		return attrEqualFold(v, a.Value, a.CaseInsensitive)
	case AttrWordList:
		for _, w := range strings.Fields(v) {
			if attrEqualFold(w, a.Value, a.CaseInsensitive) {
				return true
			}
		}
		return false
	case AttrPrefix:
		if a.CaseInsensitive {
			return strings.HasPrefix(strings.ToLower(v), strings.ToLower(a.Value))
		}
		return strings.HasPrefix(v, a.Value)
	case AttrSuffix:
		if a.CaseInsensitive {
			return strings.HasSuffix(strings.ToLower(v), strings.ToLower(a.Value))
		}
		return strings.HasSuffix(v, a.Value)
	case AttrSubstring:
		if a.CaseInsensitive {
			return strings.Contains(strings.ToLower(v), strings.ToLower(a.Value))
		}
		return strings.Contains(v, a.Value)
	}
	return false
}

func attrEqualFold(v, want string, ci bool) bool {
	if ci {
		return strings.EqualFold(v, want)
	}
	return v == want
}

func matchPseudo(e dom.Element, p Pseudo) bool {
	switch p.Kind {
	case PseudoFirstChild:
		return len(e.PrevElementSiblings()) == 0
	case PseudoLastChild:
		return len(e.NextElementSiblings()) == 0
	case PseudoNthChild:
		pos := len(e.PrevElementSiblings()) + 1
		return nthMatches(p.A, p.B, pos)
	case PseudoEmpty:
		// :empty ignores whitespace-only text children unconditionally,
		// even under PreserveWhitespace — spec.md §9's pinned resolution
		// of an otherwise under-specified interaction.
		if len(e.ChildrenElements()) > 0 {
			return false
		}
		for _, t := range e.TextNodes() {
			if !dom.IsWhitespaceOnly(t) {
				return false
			}
		}
		return true
	case PseudoNot:
		for _, c := range p.Not {
			if matchCompound(e, *c) {
				return false
			}
		}
		return true
	}
	return false
}

// nthMatches implements the standard :nth-child(an+b) test: pos (1-based)
// matches iff pos = a*n + b for some integer n >= 0.
func nthMatches(a, b, pos int) bool {
	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if diff%a != 0 {
		return false
	}
	return diff/a >= 0
}
