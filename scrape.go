// Package scrape is the root facade: parse HTML into a queryable
// dom.Document, singly or in parallel batches, without importing the
// htmlparser/batch packages directly.
package scrape

import (
	"github.com/domtree/scrape/batch"
	"github.com/domtree/scrape/dom"
	"github.com/domtree/scrape/htmlparser"
	_ "github.com/domtree/scrape/selector"
)

// Parse builds a sealed Document from a complete HTML document, returning
// its construction warnings alongside it for callers who don't want to call
// Document.Warnings separately.
func Parse(input []byte, cfg dom.Config) (*dom.Document, []dom.Warning, error) {
	doc, err := htmlparser.Parse(input, cfg)
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.Warnings(), nil
}

// ParseFragment builds a sealed Document from an HTML fragment parsed as the
// children of context (see htmlparser.ParseFragment for context defaulting).
func ParseFragment(input []byte, context string, cfg dom.Config) (*dom.Document, []dom.Warning, error) {
	doc, err := htmlparser.ParseFragment(input, context, cfg)
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.Warnings(), nil
}

// ParseBatch parses every input independently and in parallel; see
// batch.ParseAll for scheduling and ordering guarantees.
func ParseBatch(inputs [][]byte, cfg dom.Config, opts ...batch.Option) []batch.Result {
	return batch.ParseAll(inputs, cfg, opts...)
}
