// Package htmlparser bridges golang.org/x/net/html's tokenizer/tree-builder
// into a dom.Builder, producing a sealed dom.Document from raw HTML bytes.
// It owns no parsing logic of its own — HTML5 tree construction is exactly
// the "external collaborator" spec.md §1 designates — this package only
// walks the *html.Node tree x/net/html hands back and replays it into the
// arena.
package htmlparser

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/domtree/scrape/dom"
)

// Parse builds a sealed Document from a complete HTML document. Invalid
// UTF-8 input fails immediately with an InvalidInput ParseError, before
// handing anything to x/net/html.
func Parse(input []byte, cfg dom.Config) (doc *dom.Document, err error) {
	defer convertAllocPanic(&err)

	if !utf8.Valid(input) {
		return nil, dom.ErrInvalidInput("input is not valid UTF-8")
	}
	root, parseErr := html.Parse(strings.NewReader(string(input)))
	if parseErr != nil {
		return nil, parseFailure(parseErr)
	}
	return build(input, root, cfg)
}

// parseFailure converts an error from x/net/html into a ParseError. The
// library rejects documents whose open-element stack grows past its own
// nesting limit; that is reported as DepthExceeded, anything else as
// InvalidInput.
func parseFailure(err error) *dom.ParseError {
	if strings.Contains(err.Error(), "open stack of elements exceeds") {
		return dom.ErrDepthExceeded(err.Error())
	}
	return dom.ErrInvalidInput(err.Error())
}

// ParseFragment builds a sealed Document from an HTML fragment, parsed as
// the children of context (an element tag name; an empty context defaults
// to "body", matching x/net/html.ParseFragment's own convention).
func ParseFragment(input []byte, context string, cfg dom.Config) (doc *dom.Document, err error) {
	defer convertAllocPanic(&err)

	if !utf8.Valid(input) {
		return nil, dom.ErrInvalidInput("input is not valid UTF-8")
	}
	if context == "" {
		context = "body"
	}
	ctxNode := &html.Node{
		Type:     html.ElementNode,
		Data:     context,
		DataAtom: atom.Lookup([]byte(context)),
	}
	nodes, parseErr := html.ParseFragment(strings.NewReader(string(input)), ctxNode)
	if parseErr != nil {
		return nil, parseFailure(parseErr)
	}
	// ParseFragment returns context's children as siblings rather than a
	// single root, so synthesize one to reuse build's single-root walk.
	synthetic := &html.Node{Type: html.ElementNode, Data: context, DataAtom: ctxNode.DataAtom}
	for _, n := range nodes {
		synthetic.AppendChild(n)
	}
	return build(input, synthetic, cfg)
}

func build(input []byte, root *html.Node, cfg dom.Config) (*dom.Document, error) {
	b := dom.NewBuilder(cfg, len(input))
	if err := appendChildren(b, b.Root(), root, cfg); err != nil {
		return nil, err
	}
	return b.Seal(), nil
}

// appendChildren walks n's children in order, allocating each as a node
// under parent.
func appendChildren(b *dom.Builder, parent dom.NodeId, n *html.Node, cfg dom.Config) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := appendNode(b, parent, c, cfg); err != nil {
			return err
		}
	}
	return nil
}

// appendNode allocates n (and, for elements, its subtree) under parent.
// Whitespace-only text nodes are dropped unless cfg.PreserveWhitespace;
// comment nodes are dropped unless cfg.IncludeComments; doctype and document
// nodes are not allocated themselves, only their children are appended (a
// doctype has none).
func appendNode(b *dom.Builder, parent dom.NodeId, n *html.Node, cfg dom.Config) error {
	switch n.Type {
	case html.ElementNode:
		tag := b.InternTag([]byte(n.Data))
		id, err := b.AllocElement(parent, tag)
		if err != nil {
			return err
		}
		for _, a := range n.Attr {
			name := b.InternName([]byte(a.Key))
			if err := b.SetAttr(id, name, b.AppendString(a.Val)); err != nil {
				return err
			}
		}
		return appendChildren(b, id, n, cfg)

	case html.TextNode:
		if !cfg.PreserveWhitespace && isWhitespaceOnly(n.Data) {
			return nil
		}
		_, err := b.AllocText(parent, b.AppendString(n.Data))
		return err

	case html.CommentNode:
		if !cfg.IncludeComments {
			return nil
		}
		_, err := b.AllocComment(parent, b.AppendString(n.Data))
		return err

	case html.DoctypeNode, html.DocumentNode:
		return appendChildren(b, parent, n, cfg)

	default:
		return nil
	}
}

func isWhitespaceOnly(s string) bool {
	return dom.IsWhitespaceOnly(s)
}

// convertAllocPanic is the one recover boundary in this repo, converting an
// allocator panic (out-of-memory from a failed make/append deep in
// golang.org/x/net/html or the arena) into the spec's SystemAllocationFailure
// error kind rather than crashing the process. It must never swallow a
// panic that isn't an allocation failure, so it re-panics anything else.
func convertAllocPanic(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if re, ok := r.(error); ok && isAllocError(re) {
		*errp = dom.ErrSystemAllocation(re.Error())
		return
	}
	if s, ok := r.(string); ok && strings.Contains(s, "out of memory") {
		*errp = dom.ErrSystemAllocation(s)
		return
	}
	panic(r)
}

func isAllocError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "out of memory") || strings.Contains(msg, "cannot allocate memory")
}
