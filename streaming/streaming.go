// Package streaming is a thin, constant-memory event bridge over
// golang.org/x/net/html's low-level Tokenizer. Unlike htmlparser, it never
// builds a dom.Document or populates an arena: callers get synchronous
// callbacks over a rolling buffer as tags are seen, trading random-access
// navigation for bounded memory regardless of input size. This is the
// external-collaborator boundary spec.md §5 calls out — tree construction
// semantics live in htmlparser, not here.
package streaming

import (
	"bufio"
	"io"

	"golang.org/x/net/html"
)

// bufferSize is the rolling read buffer the underlying Tokenizer is driven
// with; memory use stays bounded by this regardless of document size.
const bufferSize = 16 * 1024

// EventKind discriminates the events Handler receives.
type EventKind int

const (
	StartTag EventKind = iota
	EndTag
	SelfClosingTag
	Text
	Comment
	Doctype
)

// Attr is one attribute on a StartTag/SelfClosingTag event.
type Attr struct {
	Key, Val string
}

// Event is a partial, read-only view of one tokenizer event: a tag name and
// its attributes, or a run of text/comment data. It carries no parent/child
// links — callers needing tree structure track it themselves across calls,
// which is the point of the constant-memory tradeoff.
type Event struct {
	Kind  EventKind
	Tag   string
	Attrs []Attr
	Data  string
}

// Handler receives one Event per call, synchronously, in document order.
// Returning an error aborts scanning and is propagated out of Scan.
type Handler func(Event) error

// Scan drives a Tokenizer over r, invoking handle once per tag/text/comment
// event until EOF or handle returns an error. It never buffers more than
// golang.org/x/net/html.Tokenizer's own rolling window, so memory use does
// not grow with input size.
func Scan(r io.Reader, handle Handler) error {
	z := html.NewTokenizer(bufio.NewReaderSize(r, bufferSize))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err == io.EOF {
				return nil
			}
			return z.Err()

		case html.TextToken:
			if err := handle(Event{Kind: Text, Data: string(z.Text())}); err != nil {
				return err
			}

		case html.CommentToken:
			if err := handle(Event{Kind: Comment, Data: string(z.Text())}); err != nil {
				return err
			}

		case html.DoctypeToken:
			if err := handle(Event{Kind: Doctype, Data: string(z.Text())}); err != nil {
				return err
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			kind := StartTag
			if tt == html.SelfClosingTagToken {
				kind = SelfClosingTag
			}
			ev := Event{Kind: kind, Tag: tok.Data}
			for _, a := range tok.Attr {
				ev.Attrs = append(ev.Attrs, Attr{Key: a.Key, Val: a.Val})
			}
			if err := handle(ev); err != nil {
				return err
			}

		case html.EndTagToken:
			tok := z.Token()
			if err := handle(Event{Kind: EndTag, Tag: tok.Data}); err != nil {
				return err
			}
		}
	}
}
