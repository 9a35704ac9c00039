package selector

import (
	"sort"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/domtree/scrape/dom"
	"github.com/domtree/scrape/htmlparser"
)

// TestCrossValidateAgainstCascadia runs the same selector source through our
// compiler/dispatcher and through cascadia (an independent CSS-selector
// matcher over golang.org/x/net/html trees), asserting the two agree on
// match count and text content. This exercises a real pack dependency as an
// oracle without replacing any of our own matching code, per SPEC_FULL.md §2.
func TestCrossValidateAgainstCascadia(t *testing.T) {
	const src = `<!DOCTYPE html>
<html><body>
<div id="main">
  <ul class="list">
    <li class="item first">one</li>
    <li class="item">two</li>
    <li class="item">three</li>
  </ul>
  <div class="product" data-sku="abc123">
    <h2>Laptop</h2>
    <span class="price">999</span>
  </div>
</div>
</body></html>`

	selectors := []string{
		"#main",
		".product",
		"div",
		".item",
		".list > li",
		".first + li",
		".first ~ li",
		"li:first-child",
		"li:last-child",
		"li:nth-child(2n+1)",
		"[data-sku]",
		`[data-sku^="abc"]`,
	}

	ourDoc, err := htmlparser.Parse([]byte(src), dom.DefaultConfig())
	if err != nil {
		t.Fatalf("htmlparser.Parse: %v", err)
	}
	refRoot, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	for _, s := range selectors {
		cs, err := Compile(s)
		if err != nil {
			t.Errorf("Compile(%q): %v", s, err)
			continue
		}
		ours := cs.FindAllIn(ourDoc, ourDoc.Root())
		ourTexts := make([]string, len(ours))
		for i, e := range ours {
			ourTexts[i] = e.Text()
		}
		sort.Strings(ourTexts)

		ref, err := cascadia.Compile(s)
		if err != nil {
			t.Errorf("cascadia.Compile(%q): %v", s, err)
			continue
		}
		refNodes := ref.MatchAll(refRoot)
		refTexts := make([]string, len(refNodes))
		for i, n := range refNodes {
			refTexts[i] = textContent(n)
		}
		sort.Strings(refTexts)

		if len(ours) != len(refNodes) {
			t.Errorf("%q: our dispatcher found %d matches, cascadia found %d", s, len(ours), len(refNodes))
			continue
		}
		for i := range ourTexts {
			if ourTexts[i] != refTexts[i] {
				t.Errorf("%q: text mismatch at %d: ours %q, cascadia %q", s, i, ourTexts[i], refTexts[i])
			}
		}
	}
}

func textContent(n *html.Node) string {
	var sb []byte
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb = append(sb, n.Data...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseWhitespaceForTest(string(sb))
}

func collapseWhitespaceForTest(s string) string {
	var out []byte
	prevSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		isSpace := c == ' ' || c == '\t' || c == '\n' || c == '\r'
		if isSpace {
			if !prevSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		out = append(out, c)
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
