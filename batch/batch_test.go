package batch

import (
	"testing"

	"github.com/domtree/scrape/dom"
)

func TestParseAllPreservesOrder(t *testing.T) {
	inputs := [][]byte{
		[]byte(`<div id="a">one</div>`),
		[]byte(`<div id="b">two</div>`),
		[]byte(`<div id="c">three</div>`),
	}
	results := ParseAll(inputs, dom.DefaultConfig())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := []string{"a", "b", "c"}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d: Index = %d", i, r.Index)
		}
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
			continue
		}
		e, ok := r.Document.ElementByID(want[i])
		if !ok {
			t.Errorf("result %d: missing element id=%s", i, want[i])
		}
		_ = e
	}
}

func TestParseAllCollectsErrorsWithoutFailFast(t *testing.T) {
	inputs := [][]byte{
		[]byte(`<div id="ok">fine</div>`),
		{0xff, 0xfe, 0xfd},
		[]byte(`<div id="ok2">also fine</div>`),
	}
	results := ParseAll(inputs, dom.DefaultConfig())
	if results[1].Err == nil {
		t.Error("expected an error for invalid UTF-8 input")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("valid inputs should still succeed when one input fails")
	}
}

func TestParseAllConcurrencyOption(t *testing.T) {
	inputs := make([][]byte, 8)
	for i := range inputs {
		inputs[i] = []byte(`<p>x</p>`)
	}
	results := ParseAll(inputs, dom.DefaultConfig(), Concurrency(2))
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
	}
}
