package dom

import "strings"

// Element is a lightweight handle into a sealed Document — a (doc, id) pair,
// cheap to copy and compare. All navigation methods are infallible: there is
// no such thing as a "dangling" Element once a Document exists, and methods
// that have nothing to return hand back a zero Element and an ok bool rather
// than an error, per spec.md §7.
type Element struct {
	doc *Document
	id  NodeId
}

// Valid reports whether e refers to an actual node (the zero Element does
// not).
func (e Element) Valid() bool { return e.doc != nil }

// ID returns the element's NodeId, stable for the Document's lifetime.
func (e Element) ID() NodeId { return e.id }

// TagName returns the element's tag name, lowercase.
func (e Element) TagName() string {
	return e.doc.tagName(e.doc.node(e.id).Tag)
}

// Parent returns the element's parent, or !ok at the document root.
func (e Element) Parent() (Element, bool) {
	p := e.doc.node(e.id).Parent
	if e.id == e.doc.core.root {
		return Element{}, false
	}
	return Element{doc: e.doc, id: p}, true
}

// FirstChild returns the first child node of any kind, or !ok if e has no
// children.
func (e Element) FirstChild() (Element, bool) {
	c := e.doc.node(e.id).FirstChild
	if c == noNode {
		return Element{}, false
	}
	return Element{doc: e.doc, id: c}, true
}

// LastChild returns the last child node of any kind, or !ok if e has no
// children.
func (e Element) LastChild() (Element, bool) {
	c := e.doc.node(e.id).LastChild
	if c == noNode {
		return Element{}, false
	}
	return Element{doc: e.doc, id: c}, true
}

// NextSibling returns the next sibling node of any kind, or !ok if none.
func (e Element) NextSibling() (Element, bool) {
	s := e.doc.node(e.id).NextSibling
	if s == noNode {
		return Element{}, false
	}
	return Element{doc: e.doc, id: s}, true
}

// PrevSibling returns the previous sibling node of any kind, or !ok if none.
func (e Element) PrevSibling() (Element, bool) {
	s := e.doc.node(e.id).PrevSibling
	if s == noNode {
		return Element{}, false
	}
	return Element{doc: e.doc, id: s}, true
}

// IsElement reports whether e is an element node (as opposed to text or
// comment).
func (e Element) IsElement() bool { return e.doc.node(e.id).Kind == ElementKind }

// ChildrenElements returns e's direct element-kind children, in document
// order, skipping any interleaved text/comment nodes.
func (e Element) ChildrenElements() []Element {
	var out []Element
	for c := e.doc.node(e.id).FirstChild; c != noNode; c = e.doc.node(c).NextSibling {
		if e.doc.node(c).Kind == ElementKind {
			out = append(out, Element{doc: e.doc, id: c})
		}
	}
	return out
}

// NextElementSiblings returns every element-kind sibling that follows e, in
// document order.
func (e Element) NextElementSiblings() []Element {
	var out []Element
	for s := e.doc.node(e.id).NextSibling; s != noNode; s = e.doc.node(s).NextSibling {
		if e.doc.node(s).Kind == ElementKind {
			out = append(out, Element{doc: e.doc, id: s})
		}
	}
	return out
}

// PrevElementSiblings returns every element-kind sibling that precedes e, in
// document order: the immediate previous sibling comes last in the slice,
// not first.
func (e Element) PrevElementSiblings() []Element {
	var out []Element
	for s := e.doc.node(e.id).PrevSibling; s != noNode; s = e.doc.node(s).PrevSibling {
		if e.doc.node(s).Kind == ElementKind {
			out = append(out, Element{doc: e.doc, id: s})
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SiblingsElements returns every element-kind sibling of e (not including e
// itself), in document order.
func (e Element) SiblingsElements() []Element {
	parent, ok := e.Parent()
	if !ok {
		return nil
	}
	var out []Element
	for _, c := range parent.ChildrenElements() {
		if c.id != e.id {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors returns e's ancestor elements starting with its immediate
// parent and ending at (and including) the document root.
func (e Element) Ancestors() []Element {
	var out []Element
	cur := e
	for {
		p, ok := cur.Parent()
		if !ok {
			break
		}
		out = append(out, p)
		cur = p
	}
	return out
}

// DescendantsElements returns every element-kind descendant of e in
// pre-order document order.
func (e Element) DescendantsElements() []Element {
	var out []Element
	end := e.subtreeEnd()
	for id := e.id + 1; id < end; id++ {
		if e.doc.node(id).Kind == ElementKind {
			out = append(out, Element{doc: e.doc, id: id})
		}
	}
	return out
}

// subtreeEnd returns the NodeId one past the end of e's subtree, exploiting
// the invariant that pre-order allocation makes NodeId order equal document
// order: every descendant of e has an id in [e.id+1, subtreeEnd).
func (e Element) subtreeEnd() NodeId {
	n := e.doc.node(e.id)
	if n.LastChild == noNode {
		return e.id + 1
	}
	last := Element{doc: e.doc, id: n.LastChild}
	return last.subtreeEnd()
}

// Contains reports whether other lies within e's subtree, e itself included,
// exploiting the same pre-order NodeId invariant as DescendantsElements.
func (e Element) Contains(other Element) bool {
	if e.doc != other.doc {
		return false
	}
	if other.id == e.id {
		return true
	}
	return other.id > e.id && other.id < e.subtreeEnd()
}

// Matcher is implemented by compiled selectors (see the selector package).
// It is defined here, not there, so dom does not need to import selector to
// offer Closest — selector already imports dom for Element itself.
type Matcher interface {
	MatchesElement(Element) bool
}

// Closest walks e and its ancestors, returning the nearest one matching m,
// or !ok if none does.
func (e Element) Closest(m Matcher) (Element, bool) {
	for cur, ok := e, true; ok; cur, ok = cur.Parent() {
		if cur.IsElement() && m.MatchesElement(cur) {
			return cur, true
		}
	}
	return Element{}, false
}

// GetAttribute returns the value of the named attribute, or !ok if e has no
// such attribute.
func (e Element) GetAttribute(name string) (string, bool) {
	node := e.doc.node(e.id)
	h, ok := e.doc.core.interner.lookupName([]byte(name))
	if !ok {
		return "", false
	}
	for i := 0; i < node.attrs.len(); i++ {
		a := node.attrs.at(i)
		if a.Name == h {
			return e.doc.str(a.Value), true
		}
	}
	return "", false
}

// HasAttribute reports whether e carries the named attribute.
func (e Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// Attributes returns all of e's attributes as name/value pairs, in the
// order they were parsed.
func (e Element) Attributes() []AttrView {
	node := e.doc.node(e.id)
	out := make([]AttrView, 0, node.attrs.len())
	for i := 0; i < node.attrs.len(); i++ {
		a := node.attrs.at(i)
		out = append(out, AttrView{Name: e.doc.attrName(a.Name), Value: e.doc.str(a.Value)})
	}
	return out
}

// AttrView is a resolved (name, value) attribute pair, returned from
// Attributes rather than the compact internal Attr type.
type AttrView struct {
	Name  string
	Value string
}

// HasClass reports whether e carries the given class token.
func (e Element) HasClass(class string) bool {
	h, ok := e.doc.core.interner.lookupName([]byte(class))
	if !ok {
		return false
	}
	for _, c := range e.doc.node(e.id).classes {
		if c == h {
			return true
		}
	}
	return false
}

// Classes returns e's class tokens in the order they appear in the class
// attribute, deduplicated.
func (e Element) Classes() []string {
	node := e.doc.node(e.id)
	out := make([]string, 0, len(node.classes))
	for _, c := range node.classes {
		out = append(out, e.doc.attrName(c))
	}
	return out
}

// Text returns the normalized, concatenated text content of e's subtree:
// descendant text nodes joined in document order with a space between
// adjacent nodes, ASCII-whitespace runs collapsed to a single space and the
// result trimmed. If the Document was built with PreserveWhitespace, the
// text nodes are concatenated as they are, with no separator and no
// collapsing.
func (e Element) Text() string {
	var b strings.Builder
	e.collectText(&b)
	s := b.String()
	if e.doc.core.config.PreserveWhitespace {
		return s
	}
	return collapseWhitespace(s)
}

func (e Element) collectText(b *strings.Builder) {
	node := e.doc.node(e.id)
	for c := node.FirstChild; c != noNode; c = e.doc.node(c).NextSibling {
		cn := e.doc.node(c)
		switch cn.Kind {
		case TextKind:
			if !e.doc.core.config.PreserveWhitespace {
				// Keeps text from adjacent elements apart; Text collapses
				// the extra spaces afterwards.
				b.WriteByte(' ')
			}
			b.WriteString(e.doc.str(cn.Text))
		case ElementKind:
			(Element{doc: e.doc, id: c}).collectText(b)
		}
	}
}

// TextNodes returns e's direct text-node children's raw (unnormalized)
// content, in document order.
func (e Element) TextNodes() []string {
	var out []string
	node := e.doc.node(e.id)
	for c := node.FirstChild; c != noNode; c = e.doc.node(c).NextSibling {
		cn := e.doc.node(c)
		if cn.Kind == TextKind {
			out = append(out, e.doc.str(cn.Text))
		}
	}
	return out
}

// InnerHTML serializes e's children back to an HTML fragment.
func (e Element) InnerHTML() string {
	var b strings.Builder
	node := e.doc.node(e.id)
	for c := node.FirstChild; c != noNode; c = e.doc.node(c).NextSibling {
		serializeNode(e.doc, c, &b)
	}
	return b.String()
}

// OuterHTML serializes e, including its own tag, back to an HTML fragment.
func (e Element) OuterHTML() string {
	var b strings.Builder
	serializeNode(e.doc, e.id, &b)
	return b.String()
}
