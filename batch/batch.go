// Package batch drives parallel parsing of many independent HTML documents.
// Each input gets its own dom.Document; nothing is shared across inputs
// during construction, so there is no locking needed beyond the result
// slice itself, per spec.md §5's single-writer-per-document discipline.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/domtree/scrape/dom"
	"github.com/domtree/scrape/htmlparser"
)

// Result is one input's outcome: either a sealed Document and its
// construction warnings, or an error. Index preserves the input's position
// in the original slice regardless of completion order.
type Result struct {
	Index    int
	Document *dom.Document
	Warnings []dom.Warning
	Err      error
}

// Option configures ParseAll.
type Option func(*options)

type options struct {
	failFast    bool
	concurrency int
}

// FailFast cancels remaining work as soon as one input fails, instead of
// letting every input run to completion.
func FailFast() Option {
	return func(o *options) { o.failFast = true }
}

// Concurrency overrides the default worker limit (runtime.GOMAXPROCS(0)).
func Concurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// ParseAll parses every input independently, fanning out over a bounded
// errgroup (limit runtime.GOMAXPROCS(0) by default): goroutines pick up the
// next queued input as they finish, rather than a fixed input-per-goroutine
// split, so one slow document never stalls workers that could otherwise pick
// up three more. Results are returned in input order regardless of
// completion order. Without FailFast, every input runs to completion even
// if others fail; with FailFast, remaining unscheduled inputs are skipped
// (their Result carries the group's context.Canceled error) once the first
// failure occurs.
func ParseAll(inputs [][]byte, cfg dom.Config, opts ...Option) []Result {
	o := options{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(o.concurrency)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if o.failFast && ctx.Err() != nil {
				results[i] = Result{Index: i, Err: ctx.Err()}
				return ctx.Err()
			}
			doc, err := htmlparser.Parse(input, cfg)
			if err != nil {
				results[i] = Result{Index: i, Err: err}
				if o.failFast {
					return err
				}
				return nil
			}
			results[i] = Result{Index: i, Document: doc, Warnings: doc.Warnings()}
			return nil
		})
	}
	g.Wait()

	return results
}
