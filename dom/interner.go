package dom

import "golang.org/x/net/html/atom"

// interner maps byte sequences outside the closed golang.org/x/net/html/atom
// vocabulary to stable per-document handles. It is append-only: once a
// handle is issued it is valid, and stable, for the document's lifetime.
// During Building a single-writer discipline is required (the tree builder
// adapter is single-threaded per document); after sealing, lookups are safe
// for concurrent readers because nothing is appended anymore.
type interner struct {
	byName map[string]uint32
	names  []string
}

func newInterner() *interner {
	return &interner{byName: make(map[string]uint32)}
}

// internTag resolves name to a TagId, preferring the static atom table.
func (in *interner) internTag(name []byte) TagId {
	if a := atom.Lookup(name); a != 0 {
		return tagIdFromAtom(a)
	}
	return tagIdFromCustom(in.internCustom(string(name)))
}

// internName resolves name to a NameHandle, preferring the static atom table.
func (in *interner) internName(name []byte) NameHandle {
	if a := atom.Lookup(name); a != 0 {
		return nameHandleFromAtom(a)
	}
	return nameHandleFromCustom(in.internCustom(string(name)))
}

// lookupName resolves name to a NameHandle without ever writing to the
// interner, returning !ok if name is neither a known atom nor a custom name
// this document has seen before. Used for read paths (attribute/class/tag
// lookups by string) that must stay safe to call concurrently on a sealed
// Document — internName's map write on a miss would not be.
func (in *interner) lookupName(name []byte) (NameHandle, bool) {
	if a := atom.Lookup(name); a != 0 {
		return nameHandleFromAtom(a), true
	}
	idx, ok := in.byName[string(name)]
	if !ok {
		return 0, false
	}
	return nameHandleFromCustom(idx), true
}

// lookupTag is lookupName's TagId counterpart.
func (in *interner) lookupTag(name []byte) (TagId, bool) {
	if a := atom.Lookup(name); a != 0 {
		return tagIdFromAtom(a), true
	}
	idx, ok := in.byName[string(name)]
	if !ok {
		return 0, false
	}
	return tagIdFromCustom(idx), true
}

func (in *interner) internCustom(name string) uint32 {
	if idx, ok := in.byName[name]; ok {
		return idx
	}
	idx := uint32(len(in.names))
	in.names = append(in.names, name)
	in.byName[name] = idx
	return idx
}

// tagName resolves a TagId back to its textual name.
func (in *interner) tagName(t TagId) string {
	if t.IsCustom() {
		return in.names[t.customIndex()]
	}
	return atom.Atom(t).String()
}

// attrName resolves a NameHandle back to its textual name.
func (in *interner) attrName(n NameHandle) string {
	if n.IsCustom() {
		return in.names[n.customIndex()]
	}
	return atom.Atom(n).String()
}
