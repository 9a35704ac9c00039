package selector

import (
	"testing"

	"github.com/domtree/scrape/dom"
	"github.com/domtree/scrape/htmlparser"
)

func TestCompileFastPathClassification(t *testing.T) {
	tests := []struct {
		source string
		want   FastPath
	}{
		{"#main", IDOnlyPath},
		{".product", ClassOnlyPath},
		{"div", TagOnlyPath},
		{"*", General},
		{"#main .product", IDAnchoredPath},
		{".list > li", ClassAnchoredPath},
		{"#main div", IDAnchoredPath},
		{"div.product", General},
		{"div p", General},
	}
	for _, tt := range tests {
		cs, err := Compile(tt.source)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", tt.source, err)
		}
		if cs.Fast != tt.want {
			t.Errorf("Compile(%q).Fast = %v, want %v", tt.source, cs.Fast, tt.want)
		}
	}
}

func TestCompileRejectsUnsupportedSyntax(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"div,p",
		"a::before",
		"a:hover",
		":is(div)",
		"a:lang(en)",
		"a[href",
	}
	for _, s := range bad {
		if _, err := Compile(s); err == nil {
			t.Errorf("Compile(%q): expected error, got none", s)
		} else if _, ok := err.(*InvalidSelectorError); !ok {
			t.Errorf("Compile(%q): expected *InvalidSelectorError, got %T", s, err)
		}
	}
}

func TestCompileSpecificity(t *testing.T) {
	cs, err := Compile("div#main.product.featured")
	if err != nil {
		t.Fatal(err)
	}
	want := [3]int{1, 2, 1}
	if cs.Specificity != want {
		t.Errorf("Specificity = %v, want %v", cs.Specificity, want)
	}
}

func TestParseAnB(t *testing.T) {
	tests := []struct {
		in   string
		a, b int
		ok   bool
	}{
		{"odd", 2, 1, true},
		{"even", 2, 0, true},
		{"0", 0, 0, true},
		{"3", 0, 3, true},
		{"n", 1, 0, true},
		{"-n", -1, 0, true},
		{"2n", 2, 0, true},
		{"2n+1", 2, 1, true},
		{"2n-1", 2, -1, true},
		{"-2n+5", -2, 5, true},
		{"+3n-2", 3, -2, true},
		{"garbage(", 0, 0, false},
	}
	for _, tt := range tests {
		a, b, ok := parseAnB(tt.in)
		if ok != tt.ok {
			t.Errorf("parseAnB(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if a != tt.a || b != tt.b {
			t.Errorf("parseAnB(%q) = (%d,%d), want (%d,%d)", tt.in, a, b, tt.a, tt.b)
		}
	}
}

func mustParseDoc(t *testing.T, htmlSrc string) *dom.Document {
	t.Helper()
	doc, err := htmlparser.Parse([]byte(htmlSrc), dom.DefaultConfig())
	if err != nil {
		t.Fatalf("htmlparser.Parse: %v", err)
	}
	return doc
}

const sampleDoc = `<!DOCTYPE html>
<html>
<body>
<div id="main">
  <ul class="list">
    <li class="item first">one</li>
    <li class="item">two</li>
    <li class="item">three</li>
  </ul>
  <div class="product" data-sku="abc123">
    <h2>Laptop</h2>
    <span class="price" data-currency="USD">999</span>
  </div>
</div>
</body>
</html>`

func TestMatchesElementIDAndClass(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	main, ok := doc.Find("#main")
	if !ok {
		t.Fatal("#main not found")
	}
	if main.TagName() != "div" {
		t.Errorf("#main tag = %q, want div", main.TagName())
	}

	items := doc.FindAll(".item")
	if len(items) != 3 {
		t.Fatalf("len(.item) = %d, want 3", len(items))
	}
}

func TestScopedFindWithinElement(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	product, ok := doc.Find(".product")
	if !ok {
		t.Fatal(".product not found")
	}
	h2, ok := product.Find("h2")
	if !ok {
		t.Fatal("h2 not found within .product")
	}
	if text := h2.Text(); text != "Laptop" {
		t.Errorf("h2 text = %q, want Laptop", text)
	}

	// h2 only exists within .product, not at the document's ul.
	list, ok := doc.Find(".list")
	if !ok {
		t.Fatal(".list not found")
	}
	if _, found := list.Find("h2"); found {
		t.Error("h2 unexpectedly found within .list scope")
	}
}

func TestCombinators(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	if _, ok := doc.Find(".list > li"); !ok {
		t.Error("'.list > li' expected a match")
	}
	if els := doc.FindAll(".list > li"); len(els) != 3 {
		t.Errorf("'.list > li' matched %d, want 3", len(els))
	}
	if _, ok := doc.Find("#main > li"); ok {
		t.Error("'#main > li' should not match (li is not a direct child of #main)")
	}
	if _, ok := doc.Find(".first + li"); !ok {
		t.Error("'.first + li' expected a match")
	}
	if els := doc.FindAll(".first ~ li"); len(els) != 2 {
		t.Errorf("'.first ~ li' matched %d, want 2", len(els))
	}
}

func TestAttributePredicates(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	if _, ok := doc.Find("[data-sku]"); !ok {
		t.Error("'[data-sku]' expected a match")
	}
	if _, ok := doc.Find(`[data-currency="USD"]`); !ok {
		t.Error(`'[data-currency="USD"]' expected a match`)
	}
	if _, ok := doc.Find(`[data-currency="usd" i]`); !ok {
		t.Error("case-insensitive attribute match expected to succeed")
	}
	if _, ok := doc.Find(`[data-sku^="abc"]`); !ok {
		t.Error("prefix attribute match expected to succeed")
	}
	if _, ok := doc.Find(`[data-sku$="123"]`); !ok {
		t.Error("suffix attribute match expected to succeed")
	}
	if _, ok := doc.Find(`[class~="first"]`); !ok {
		t.Error("word-list attribute match expected to succeed")
	}
}

func TestPseudoClasses(t *testing.T) {
	doc := mustParseDoc(t, sampleDoc)

	if _, ok := doc.Find("li:first-child"); !ok {
		t.Error("'li:first-child' expected a match")
	}
	if _, ok := doc.Find("li:last-child"); !ok {
		t.Error("'li:last-child' expected a match")
	}
	if els := doc.FindAll("li:nth-child(2n+1)"); len(els) != 2 {
		t.Errorf("'li:nth-child(2n+1)' matched %d, want 2", len(els))
	}
	if els := doc.FindAll("li:not(.first)"); len(els) != 2 {
		t.Errorf("'li:not(.first)' matched %d, want 2", len(els))
	}
}

func TestEmptyPseudoIgnoresWhitespace(t *testing.T) {
	doc := mustParseDoc(t, `<div id="a">   </div><div id="b">x</div>`)
	a, ok := doc.Find("#a")
	if !ok {
		t.Fatal("#a not found")
	}
	if cs := mustCompile(t, ":empty"); !cs.MatchesElement(a) {
		t.Error("#a should match :empty (whitespace-only text ignored)")
	}
	b, ok := doc.Find("#b")
	if !ok {
		t.Fatal("#b not found")
	}
	if cs := mustCompile(t, ":empty"); cs.MatchesElement(b) {
		t.Error("#b should not match :empty")
	}
}

func mustCompile(t *testing.T, source string) *CompiledSelector {
	t.Helper()
	cs, err := Compile(source)
	if err != nil {
		t.Fatalf("Compile(%q): %v", source, err)
	}
	return cs
}
