package dom

// Node is a single tagged-variant record in the arena. All three node
// kinds (element, text, comment) share one flat struct, per spec.md §9's
// re-architecture guidance to use a tagged variant rather than an
// interface/virtual-dispatch hierarchy.
type Node struct {
	Kind NodeKind

	Parent      NodeId
	FirstChild  NodeId
	LastChild   NodeId
	NextSibling NodeId
	PrevSibling NodeId
	Depth       uint32

	// Element-only fields.
	Tag     TagId
	attrs   attrList
	classes []NameHandle

	// Text/Comment-only field.
	Text StrRef
}

// Arena is the contiguous, append-only store of Node records for one
// Document. NodeIds never move once allocated; because nodes are allocated
// exactly once, in pre-order, during construction, NodeId order already
// equals document (pre-order) order — this is relied on throughout the
// selector dispatcher and navigation API instead of a separate position
// index.
type Arena struct {
	nodes []Node
}

// newArena creates an arena with capacity pre-allocated from an estimate of
// the input size, which the spec notes yields a measurable construction
// speedup by avoiding reallocation during the initial parse.
func newArena(estimatedInputLen int) *Arena {
	cap := estimatedInputLen/50 + 1
	if cap < 16 {
		cap = 16
	}
	return &Arena{nodes: make([]Node, 0, cap)}
}

func (a *Arena) alloc(n Node) NodeId {
	id := NodeId(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// Get returns a pointer to the node at id. Callers never mutate through
// this pointer outside of Building (see Builder for the mutating API);
// after sealing the returned pointer is only ever read.
func (a *Arena) Get(id NodeId) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}
