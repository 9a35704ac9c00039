package dom

import "golang.org/x/net/html/atom"

// NodeId is a 32-bit index into a Document's arena. The zero value is
// reserved for the document root and doubles as the "no such link" sentinel
// on Parent/FirstChild/LastChild/NextSibling/PrevSibling fields: no node
// other than the root can ever legitimately occupy those positions, so a
// zero there unambiguously means "absent" rather than "the root".
type NodeId uint32

// noNode is the sentinel value meaning "no node" wherever a NodeId field
// is not the document root.
const noNode NodeId = 0

// NodeKind discriminates the three node variants the arena stores.
type NodeKind uint8

const (
	ElementKind NodeKind = iota
	TextKind
	CommentKind
)

func (k NodeKind) String() string {
	switch k {
	case ElementKind:
		return "element"
	case TextKind:
		return "text"
	case CommentKind:
		return "comment"
	default:
		return "unknown"
	}
}

// customHandleBit marks a TagId/NameHandle as a per-document interned
// handle rather than a golang.org/x/net/html/atom.Atom. atom.Atom values
// never use the top bit (the table is far smaller than 2^31 entries), so
// this is a safe discriminant.
const customHandleBit = uint32(1) << 31

// TagId identifies an element's tag name. Known HTML tags resolve to the
// static golang.org/x/net/html/atom table (O(1), no per-document storage);
// anything atom.Lookup misses falls back to a handle into the owning
// Document's interner.
type TagId uint32

// IsCustom reports whether t is a fallback interner handle rather than a
// known-tag atom.
func (t TagId) IsCustom() bool { return uint32(t)&customHandleBit != 0 }

func tagIdFromAtom(a atom.Atom) TagId { return TagId(a) }

func tagIdFromCustom(i uint32) TagId { return TagId(customHandleBit | i) }

func (t TagId) customIndex() uint32 { return uint32(t) &^ customHandleBit }

// NameHandle identifies an attribute or class-token name, interned the same
// way as TagId (atom table first, per-document fallback second). It is a
// distinct type from TagId so the two handle spaces are never accidentally
// mixed, even though both are uint32-with-a-flag-bit under the hood.
type NameHandle uint32

func (n NameHandle) IsCustom() bool { return uint32(n)&customHandleBit != 0 }

func nameHandleFromAtom(a atom.Atom) NameHandle { return NameHandle(a) }

func nameHandleFromCustom(i uint32) NameHandle { return NameHandle(customHandleBit | i) }

func (n NameHandle) customIndex() uint32 { return uint32(n) &^ customHandleBit }

// StrRef is a compact reference to a run of bytes, either borrowed from the
// original input buffer or owned by the Document's string side-buffer.
// Distinguished by the borrowed flag. In the current htmlparser adapter only the
// owned form is ever produced (see DESIGN.md for why) but both are modeled
// so the type matches the data model's contract.
type StrRef struct {
	start    uint32
	length   uint32
	borrowed bool
}

func ownedRef(start, length uint32) StrRef {
	return StrRef{start: start, length: length, borrowed: false}
}

func borrowedRef(start, length uint32) StrRef {
	return StrRef{start: start, length: length, borrowed: true}
}

// Len returns the byte length of the referenced run.
func (r StrRef) Len() int { return int(r.length) }

// Attr is a single (name, value) attribute pair.
type Attr struct {
	Name  NameHandle
	Value StrRef
}

// attrList stores an element's attributes with the first four entries
// inline and any remainder in an overflow slice, matching the "typically
// 0-4 entries, overflow to arena" shape spec.md describes.
type attrList struct {
	inline [4]Attr
	n      uint8
	extra  []Attr
}

func (a *attrList) append(attr Attr) {
	if int(a.n) < len(a.inline) {
		a.inline[a.n] = attr
		a.n++
		return
	}
	a.extra = append(a.extra, attr)
}

func (a *attrList) len() int {
	return int(a.n) + len(a.extra)
}

func (a *attrList) at(i int) Attr {
	if i < int(a.n) {
		return a.inline[i]
	}
	return a.extra[i-int(a.n)]
}
