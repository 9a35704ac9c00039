package scrape

import (
	"testing"

	"github.com/domtree/scrape/dom"
)

func TestParseAndQuery(t *testing.T) {
	doc, warnings, err := Parse([]byte(`<html><body><p id="x">hi</p></body></html>`), dom.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	p, ok := doc.Find("#x")
	if !ok {
		t.Fatal("#x not found")
	}
	if p.Text() != "hi" {
		t.Errorf("text = %q", p.Text())
	}
}

func TestParseFragment(t *testing.T) {
	doc, _, err := ParseFragment([]byte(`<li>a</li><li>b</li>`), "ul", dom.DefaultConfig())
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if els := doc.FindAll("li"); len(els) != 2 {
		t.Errorf("found %d li elements, want 2", len(els))
	}
}

func TestParseBatch(t *testing.T) {
	results := ParseBatch([][]byte{
		[]byte(`<div id="a">1</div>`),
		[]byte(`<div id="b">2</div>`),
	}, dom.DefaultConfig())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", r.Index, r.Err)
		}
	}
}
