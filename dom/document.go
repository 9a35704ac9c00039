// Package dom implements the arena-allocated, immutable-after-construction
// HTML document model: a single append-only Node store addressed by NodeId,
// a per-document string interner, and the Building → Queryable/Sealed
// lifecycle that separates tree construction from read-only querying.
package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// docCore is shared state between a Builder and the Document it produces.
// Splitting it out keeps Builder and Document themselves as thin nominal
// wrappers — the lifecycle transition in Seal is then just "stop handing out
// the Builder", not a deep copy.
type docCore struct {
	arena    *Arena
	interner *interner
	strings  strBuf

	root NodeId

	idIndex    map[string]NodeId
	classIndex map[NameHandle][]NodeId

	config   Config
	warnings []Warning

	// source backs borrowed StrRefs. The htmlparser adapter never sets this
	// (it only ever produces owned refs — see DESIGN.md); callers that do
	// want zero-copy text set it via Builder.SetSource before allocating any
	// borrowed refs and must keep it alive for the Document's lifetime.
	source []byte
}

// strBuf is the owned-string side-buffer StrRef.start/length index into when
// borrowed is false. The htmlparser adapter only ever produces owned
// references (see DESIGN.md), so in practice this is the only buffer in
// play; borrowedRef exists for adapters that can point directly into their
// own input.
type strBuf struct {
	data []byte
}

func (b *strBuf) append(s string) StrRef {
	start := uint32(len(b.data))
	b.data = append(b.data, s...)
	return ownedRef(start, uint32(len(s)))
}

func (b *strBuf) slice(r StrRef) string {
	return string(b.data[r.start : r.start+r.length])
}

// Builder is the Building-state handle: the only type that can allocate
// nodes. Once Seal is called the Builder must not be used again — nothing
// enforces that at the type level (spec.md §9 rules out introducing
// generics purely to phantom-type this), so adapters are expected to let
// the Builder go out of scope immediately after Seal, the same discipline
// the htmlparser adapter follows.
type Builder struct {
	core *docCore
}

// NewBuilder creates an empty Builder and allocates the synthetic root node
// (NodeId 0). estimatedInputLen sizes the arena's initial capacity; pass the
// input's byte length when known.
func NewBuilder(cfg Config, estimatedInputLen int) *Builder {
	core := &docCore{
		arena:      newArena(estimatedInputLen),
		interner:   newInterner(),
		idIndex:    make(map[string]NodeId),
		classIndex: make(map[NameHandle][]NodeId),
		config:     cfg,
	}
	rootTag := tagIdFromCustom(core.interner.internCustom("#document"))
	root := core.arena.alloc(Node{
		Kind:        ElementKind,
		Tag:         rootTag,
		Parent:      noNode,
		FirstChild:  noNode,
		LastChild:   noNode,
		NextSibling: noNode,
		PrevSibling: noNode,
		Depth:       0,
	})
	core.root = root
	return &Builder{core: core}
}

// InternTag interns an element tag name.
func (b *Builder) InternTag(name []byte) TagId { return b.core.interner.internTag(name) }

// InternName interns an attribute or class-token name.
func (b *Builder) InternName(name []byte) NameHandle { return b.core.interner.internName(name) }

// AppendString copies s into the document's owned string buffer and returns
// a StrRef to it.
func (b *Builder) AppendString(s string) StrRef { return b.core.strings.append(s) }

// SetSource pins the input buffer that borrowed StrRefs are relative to. The
// caller must guarantee data outlives the sealed Document.
func (b *Builder) SetSource(data []byte) { b.core.source = data }

// BorrowedString returns a StrRef that borrows a run of the buffer passed to
// SetSource. No bytes are copied.
func (b *Builder) BorrowedString(start, length uint32) StrRef {
	return borrowedRef(start, length)
}

// Root returns the synthetic document-root NodeId (always 0).
func (b *Builder) Root() NodeId { return b.core.root }

// AllocElement allocates a new element node as the last child of parent and
// returns its id, or a DepthExceeded error if doing so would exceed the
// configured max depth.
func (b *Builder) AllocElement(parent NodeId, tag TagId) (NodeId, error) {
	return b.alloc(parent, Node{Kind: ElementKind, Tag: tag})
}

// AllocText allocates a new text node as the last child of parent.
// Whitespace-only text is the caller's responsibility to drop or keep per
// PreserveWhitespace — Builder itself does not inspect text content.
func (b *Builder) AllocText(parent NodeId, text StrRef) (NodeId, error) {
	return b.alloc(parent, Node{Kind: TextKind, Text: text})
}

// AllocComment allocates a new comment node as the last child of parent.
func (b *Builder) AllocComment(parent NodeId, text StrRef) (NodeId, error) {
	return b.alloc(parent, Node{Kind: CommentKind, Text: text})
}

func (b *Builder) alloc(parent NodeId, n Node) (NodeId, error) {
	p := b.core.arena.Get(parent)
	depth := p.Depth + 1
	if int(depth) > b.core.config.maxDepth() {
		return noNode, ErrDepthExceeded("node nesting exceeds configured max_depth")
	}
	n.Parent = parent
	n.Depth = depth
	n.FirstChild = noNode
	n.LastChild = noNode
	n.NextSibling = noNode
	n.PrevSibling = noNode

	id := b.core.arena.alloc(n)

	if p.LastChild == noNode {
		p.FirstChild = id
	} else {
		last := b.core.arena.Get(p.LastChild)
		last.NextSibling = id
		b.core.arena.Get(id).PrevSibling = p.LastChild
	}
	p.LastChild = id

	return id, nil
}

// SetAttr records an attribute on an element node, updating the id-index and
// class-index as a side effect when name is "id" or "class". Duplicate id
// values are recorded as a DuplicateID warning; under StrictMode a duplicate
// id instead returns a StrictParseError and the attribute is not recorded.
func (b *Builder) SetAttr(elem NodeId, name NameHandle, value StrRef) error {
	node := b.core.arena.Get(elem)
	valStr := b.core.strings.slice(value)

	if isIdAttr(name) {
		if existing, ok := b.core.idIndex[valStr]; ok && existing != elem {
			if b.core.config.StrictMode {
				return ErrStrictParse("duplicate id attribute value: "+valStr, 0, 0)
			}
			b.core.warnings = append(b.core.warnings, Warning{
				Kind:    DuplicateID,
				Message: "duplicate id attribute value: " + valStr,
			})
		} else {
			b.core.idIndex[valStr] = elem
		}
	}

	node.attrs.append(Attr{Name: name, Value: value})

	if isClassAttr(name) {
		b.indexClasses(elem, valStr)
	}

	return nil
}

func (b *Builder) indexClasses(elem NodeId, classAttr string) {
	node := b.core.arena.Get(elem)
	seen := make(map[NameHandle]bool, 4)
	for _, tok := range strings.Fields(classAttr) {
		h := b.core.interner.internName([]byte(tok))
		if seen[h] {
			continue
		}
		seen[h] = true
		node.classes = append(node.classes, h)
		b.core.classIndex[h] = append(b.core.classIndex[h], elem)
	}
}

// AddWarning records a non-fatal construction event.
func (b *Builder) AddWarning(w Warning) { b.core.warnings = append(b.core.warnings, w) }

// Seal finalizes construction and returns the Queryable/Sealed Document.
// After Seal, the Document's arena, interner, and indexes are never written
// to again, which is what makes concurrent reads of a sealed Document safe
// without locking.
func (b *Builder) Seal() *Document {
	return &Document{core: b.core}
}

var (
	idAttrHandle    = nameHandleFromAtom(atom.Id)
	classAttrHandle = nameHandleFromAtom(atom.Class)
)

func isIdAttr(n NameHandle) bool    { return n == idAttrHandle }
func isClassAttr(n NameHandle) bool { return n == classAttrHandle }

// Document is the Queryable/Sealed-state handle: a read-only view over a
// fully constructed tree. All methods are safe for concurrent use by
// multiple goroutines, since nothing reachable from a Document is ever
// mutated after Seal.
type Document struct {
	core *docCore
}

// Root returns the document's root Element, a synthetic container whose
// children are the nodes produced directly by parsing.
func (d *Document) Root() Element {
	return Element{doc: d, id: d.core.root}
}

// Warnings returns the non-fatal conditions recorded during construction.
func (d *Document) Warnings() []Warning {
	return d.core.warnings
}

// Len returns the total number of nodes (of any kind) in the document,
// including the synthetic root.
func (d *Document) Len() int { return d.core.arena.Len() }

func (d *Document) node(id NodeId) *Node { return d.core.arena.Get(id) }

func (d *Document) tagName(t TagId) string  { return d.core.interner.tagName(t) }
func (d *Document) attrName(n NameHandle) string { return d.core.interner.attrName(n) }

func (d *Document) str(r StrRef) string {
	if r.borrowed {
		return string(d.core.source[r.start : r.start+r.length])
	}
	return d.core.strings.slice(r)
}

// elementById looks up the element holding the given id attribute value, if
// any and if that value is unambiguous (first writer wins on duplicates).
func (d *Document) elementById(id string) (Element, bool) {
	nid, ok := d.core.idIndex[id]
	if !ok {
		return Element{}, false
	}
	return Element{doc: d, id: nid}, true
}

// elementsByClass returns, in document order, every element carrying the
// given class token.
func (d *Document) elementsByClass(h NameHandle) []NodeId {
	return d.core.classIndex[h]
}
