package selector

import (
	"sort"

	"github.com/domtree/scrape/dom"
)

// FindAllIn produces matches in document order under scope, using the
// fastest applicable strategy for cs.Fast, per spec.md §4.7.
func (cs *CompiledSelector) FindAllIn(d *dom.Document, scope dom.Element) []dom.Element {
	switch cs.Fast {
	case IDOnlyPath:
		id := cs.Steps[0].Compound.ID
		e, ok := d.ElementByID(id)
		if !ok || !withinScope(scope, e) {
			return nil
		}
		return []dom.Element{e}

	case ClassOnlyPath:
		h, ok := d.LookupClassName(cs.Steps[0].Compound.Classes[0])
		if !ok {
			return nil
		}
		var out []dom.Element
		for _, e := range d.ElementsByClass(h) {
			if withinScope(scope, e) {
				out = append(out, e)
			}
		}
		return out

	case TagOnlyPath:
		tag := cs.Steps[0].Compound.Tag
		var out []dom.Element
		for _, e := range scope.DescendantsElements() {
			if e.TagName() == tag {
				out = append(out, e)
			}
		}
		return out

	case IDAnchoredPath, ClassAnchoredPath:
		return cs.findViaAnchors(d, scope)

	default:
		var out []dom.Element
		for _, e := range scope.DescendantsElements() {
			if cs.MatchesElement(e) {
				out = append(out, e)
			}
		}
		return out
	}
}

// FindFirstIn returns the first match in document order under scope.
func (cs *CompiledSelector) FindFirstIn(d *dom.Document, scope dom.Element) (dom.Element, bool) {
	switch cs.Fast {
	case IDOnlyPath:
		id := cs.Steps[0].Compound.ID
		e, ok := d.ElementByID(id)
		if !ok || !withinScope(scope, e) {
			return dom.Element{}, false
		}
		return e, true
	default:
		all := cs.FindAllIn(d, scope)
		if len(all) == 0 {
			return dom.Element{}, false
		}
		return all[0], true
	}
}

// withinScope reports whether e lies strictly inside scope's subtree (for
// the document root, every real element qualifies).
func withinScope(scope, e dom.Element) bool {
	return scope.Contains(e) && e.ID() != scope.ID()
}

// findViaAnchors restricts the general right-to-left matcher's candidate
// set to the subtrees rooted at the id/class anchors named by cs's leftmost
// compound, instead of walking the whole scope. When the combinator right
// after that compound is a sibling combinator (+ or ~), matches sit beside
// the anchor rather than under it, so the walk starts at the anchor's parent
// instead. Either way a candidate can only satisfy the leftmost compound's
// id/class requirement through an element inside the walked subtree, so the
// restriction never misses a match, and the matcher itself rejects false
// ones. Candidates outside scope are skipped. Walked subtrees can nest (e.g.
// two elements sharing a class, one inside the other), so candidates are
// deduplicated and re-sorted into document order.
func (cs *CompiledSelector) findViaAnchors(d *dom.Document, scope dom.Element) []dom.Element {
	anchors := cs.anchors(d, scope)
	if len(anchors) == 0 {
		return nil
	}
	next := cs.Steps[0].CombinatorToNext
	sibling := next == AdjacentSibling || next == GeneralSibling
	seen := make(map[dom.NodeId]bool)
	var out []dom.Element
	for _, anchor := range anchors {
		base := anchor
		if sibling {
			if p, ok := anchor.Parent(); ok {
				base = p
			}
		}
		for _, e := range base.DescendantsElements() {
			if seen[e.ID()] || !withinScope(scope, e) {
				continue
			}
			if cs.MatchesElement(e) {
				seen[e.ID()] = true
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (cs *CompiledSelector) anchors(d *dom.Document, scope dom.Element) []dom.Element {
	first := cs.Steps[0].Compound
	var out []dom.Element
	if first.ID != "" {
		if e, ok := d.ElementByID(first.ID); ok && scope.Contains(e) {
			out = append(out, e)
		}
		return out
	}
	if len(first.Classes) > 0 {
		h, ok := d.LookupClassName(first.Classes[0])
		if !ok {
			return nil
		}
		for _, e := range d.ElementsByClass(h) {
			if scope.Contains(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// engine adapts Compile to the dom.Compiler interface, installed into dom's
// query-engine registry at init time (the database/sql driver-registration
// pattern), since dom cannot import selector directly.
type engine struct{}

func (engine) Compile(source string) (dom.CompiledQuery, error) {
	cs, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func init() {
	dom.RegisterQueryEngine(engine{})
}
