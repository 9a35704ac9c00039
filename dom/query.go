package dom

// CompiledQuery is implemented by the selector package's compiled selector
// type. dom cannot import selector directly — selector imports dom for
// Element — so the query engine is wired in via registration at init time,
// the same pattern database/sql uses for drivers.
type CompiledQuery interface {
	Matcher

	// FindAllIn returns every element matching the query within scope's
	// subtree (scope itself excluded), in document order.
	FindAllIn(d *Document, scope Element) []Element

	// FindFirstIn returns the first element in document order matching the
	// query within scope's subtree (scope itself excluded).
	FindFirstIn(d *Document, scope Element) (Element, bool)
}

// Compiler is implemented by the selector package's Compile function.
type Compiler interface {
	Compile(source string) (CompiledQuery, error)
}

var queryEngine Compiler

// RegisterQueryEngine installs the selector compiler Find/FindAll/Select
// delegate to. Called from the selector package's init.
func RegisterQueryEngine(c Compiler) { queryEngine = c }

// Find returns the first element in document order matching selector, or
// !ok if none does or selector fails to compile.
func (d *Document) Find(selector string) (Element, bool) {
	q, err := queryEngine.Compile(selector)
	if err != nil {
		return Element{}, false
	}
	return q.FindFirstIn(d, d.Root())
}

// FindAll returns every element in document order matching selector, or nil
// if none does or selector fails to compile.
func (d *Document) FindAll(selector string) []Element {
	q, err := queryEngine.Compile(selector)
	if err != nil {
		return nil
	}
	return q.FindAllIn(d, d.Root())
}

// Select is an alias of FindAll.
func (d *Document) Select(selector string) []Element { return d.FindAll(selector) }

// FindCompiled returns every element in document order matching an
// already-compiled query.
func (d *Document) FindCompiled(q CompiledQuery) []Element {
	return q.FindAllIn(d, d.Root())
}

// Find returns the first element in document order, within e's subtree,
// matching selector.
func (e Element) Find(selector string) (Element, bool) {
	q, err := queryEngine.Compile(selector)
	if err != nil {
		return Element{}, false
	}
	return q.FindFirstIn(e.doc, e)
}

// FindAll returns every element in document order, within e's subtree,
// matching selector.
func (e Element) FindAll(selector string) []Element {
	q, err := queryEngine.Compile(selector)
	if err != nil {
		return nil
	}
	return q.FindAllIn(e.doc, e)
}

// ElementByID exposes the id-index lookup used by the selector package's
// ID-anchored/ID-only fast paths.
func (d *Document) ElementByID(id string) (Element, bool) { return d.elementById(id) }

// ElementsByClass exposes the class-index lookup used by the selector
// package's CLASS-anchored/CLASS-only fast paths. The NameHandle must have
// been produced by this Document's interner (see LookupClassName).
func (d *Document) ElementsByClass(h NameHandle) []Element {
	ids := d.elementsByClass(h)
	out := make([]Element, len(ids))
	for i, id := range ids {
		out[i] = Element{doc: d, id: id}
	}
	return out
}

// LookupClassName resolves a class token to the NameHandle space
// ElementsByClass expects, without writing to the document's interner.
// Tokens never seen during construction resolve to !ok; callers treat that
// as "matches nothing" rather than as an error.
func (d *Document) LookupClassName(name string) (NameHandle, bool) {
	return d.core.interner.lookupName([]byte(name))
}

// AllElements returns every element node in document (pre-order) order,
// exploiting the NodeId == document-order invariant.
func (d *Document) AllElements() []Element {
	out := make([]Element, 0, d.core.arena.Len())
	for id := NodeId(1); id < NodeId(d.core.arena.Len()); id++ {
		if d.node(id).Kind == ElementKind {
			out = append(out, Element{doc: d, id: id})
		}
	}
	return out
}

// LookupTagID resolves a tag name to this document's TagId without writing
// to the document's interner. A tag name never seen in this document
// resolves to !ok.
func (d *Document) LookupTagID(name string) (TagId, bool) {
	return d.core.interner.lookupTag([]byte(name))
}

// TagID returns e's interned tag identifier, letting callers compare tags
// by handle instead of resolving and comparing strings.
func (e Element) TagID() TagId { return e.doc.node(e.id).Tag }
