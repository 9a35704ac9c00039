package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleTree constructs:
//
//	root
//	  html
//	    body#main.wrap
//	      p.item "hello "
//	      p.item "world"
//
// directly through Builder, exercising the arena/interner/indices without
// going through htmlparser.
func buildSimpleTree(t *testing.T, cfg Config) (*Document, NodeId /* body */, NodeId /* p1 */, NodeId /* p2 */) {
	t.Helper()
	b := NewBuilder(cfg, 64)

	htmlTag := b.InternTag([]byte("html"))
	htmlID, err := b.AllocElement(b.Root(), htmlTag)
	require.NoError(t, err)

	bodyTag := b.InternTag([]byte("body"))
	bodyID, err := b.AllocElement(htmlID, bodyTag)
	require.NoError(t, err)
	require.NoError(t, b.SetAttr(bodyID, b.InternName([]byte("id")), b.AppendString("main")))
	require.NoError(t, b.SetAttr(bodyID, b.InternName([]byte("class")), b.AppendString("wrap")))

	pTag := b.InternTag([]byte("p"))
	p1ID, err := b.AllocElement(bodyID, pTag)
	require.NoError(t, err)
	require.NoError(t, b.SetAttr(p1ID, b.InternName([]byte("class")), b.AppendString("item")))
	_, err = b.AllocText(p1ID, b.AppendString("hello "))
	require.NoError(t, err)

	p2ID, err := b.AllocElement(bodyID, pTag)
	require.NoError(t, err)
	require.NoError(t, b.SetAttr(p2ID, b.InternName([]byte("class")), b.AppendString("item")))
	_, err = b.AllocText(p2ID, b.AppendString("world"))
	require.NoError(t, err)

	return b.Seal(), bodyID, p1ID, p2ID
}

func TestBuilderSealProducesNavigableTree(t *testing.T) {
	doc, bodyID, p1ID, p2ID := buildSimpleTree(t, DefaultConfig())

	body := Element{doc: doc, id: bodyID}
	assert.Equal(t, "body", body.TagName())
	assert.True(t, body.IsElement())

	kids := body.ChildrenElements()
	require.Len(t, kids, 2)
	assert.Equal(t, p1ID, kids[0].ID())
	assert.Equal(t, p2ID, kids[1].ID())

	assert.Equal(t, "hello world", body.Text())
}

func TestIDIndexFirstWriterWins(t *testing.T) {
	doc, bodyID, _, _ := buildSimpleTree(t, DefaultConfig())

	e, ok := doc.ElementByID("main")
	require.True(t, ok)
	assert.Equal(t, bodyID, e.ID())

	_, ok = doc.ElementByID("nope")
	assert.False(t, ok)
}

func TestClassIndexCollectsInDocumentOrder(t *testing.T) {
	doc, _, p1ID, p2ID := buildSimpleTree(t, DefaultConfig())

	h, ok := doc.LookupClassName("item")
	require.True(t, ok)

	els := doc.ElementsByClass(h)
	require.Len(t, els, 2)
	assert.Equal(t, p1ID, els[0].ID())
	assert.Equal(t, p2ID, els[1].ID())
}

func TestDuplicateIDWarnsByDefaultAndFailsUnderStrict(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBuilder(cfg, 32)
	divTag := b.InternTag([]byte("div"))
	idName := b.InternName([]byte("id"))

	d1, err := b.AllocElement(b.Root(), divTag)
	require.NoError(t, err)
	require.NoError(t, b.SetAttr(d1, idName, b.AppendString("dup")))

	d2, err := b.AllocElement(b.Root(), divTag)
	require.NoError(t, err)
	err = b.SetAttr(d2, idName, b.AppendString("dup"))
	assert.NoError(t, err)

	doc := b.Seal()
	require.Len(t, doc.Warnings(), 1)
	assert.Equal(t, DuplicateID, doc.Warnings()[0].Kind)

	strictCfg := DefaultConfig()
	strictCfg.StrictMode = true
	sb := NewBuilder(strictCfg, 32)
	sd1, err := sb.AllocElement(sb.Root(), divTag)
	require.NoError(t, err)
	require.NoError(t, sb.SetAttr(sd1, idName, sb.AppendString("dup")))
	sd2, err := sb.AllocElement(sb.Root(), divTag)
	require.NoError(t, err)
	err = sb.SetAttr(sd2, idName, sb.AppendString("dup"))
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, StrictParseError, pe.Kind)
}

func TestDepthExceededIsTerminal(t *testing.T) {
	cfg := Config{MaxDepth: 2}
	b := NewBuilder(cfg, 16)
	divTag := b.InternTag([]byte("div"))

	n1, err := b.AllocElement(b.Root(), divTag)
	require.NoError(t, err)
	n2, err := b.AllocElement(n1, divTag)
	require.NoError(t, err)
	_, err = b.AllocElement(n2, divTag)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, DepthExceeded, pe.Kind)
}

func TestIsWhitespaceOnly(t *testing.T) {
	assert.True(t, IsWhitespaceOnly("   \n\t "))
	assert.True(t, IsWhitespaceOnly(""))
	assert.False(t, IsWhitespaceOnly("  x "))
}

func TestToHTMLRoundTripsStructureAndEscaping(t *testing.T) {
	b := NewBuilder(DefaultConfig(), 32)
	divTag := b.InternTag([]byte("div"))
	d1, err := b.AllocElement(b.Root(), divTag)
	require.NoError(t, err)
	require.NoError(t, b.SetAttr(d1, b.InternName([]byte("title")), b.AppendString(`a "quote" & <tag>`)))
	_, err = b.AllocText(d1, b.AppendString("x & y < z"))
	require.NoError(t, err)

	doc := b.Seal()
	html := doc.ToHTML()
	assert.Contains(t, html, `title="a &quot;quote&quot; &amp; &lt;tag&gt;"`)
	assert.Contains(t, html, "x &amp; y &lt; z")
	assert.Contains(t, html, "<div")
	assert.Contains(t, html, "</div>")
}

func TestVoidElementsSerializeWithoutClosingTagOrChildren(t *testing.T) {
	b := NewBuilder(DefaultConfig(), 16)
	brTag := b.InternTag([]byte("br"))
	_, err := b.AllocElement(b.Root(), brTag)
	require.NoError(t, err)

	doc := b.Seal()
	assert.Equal(t, "<br>", doc.ToHTML())
}

func TestTitleFindsFirstTitleElement(t *testing.T) {
	b := NewBuilder(DefaultConfig(), 32)
	headTag := b.InternTag([]byte("head"))
	headID, err := b.AllocElement(b.Root(), headTag)
	require.NoError(t, err)
	titleTag := b.InternTag([]byte("title"))
	titleID, err := b.AllocElement(headID, titleTag)
	require.NoError(t, err)
	_, err = b.AllocText(titleID, b.AppendString("My Page"))
	require.NoError(t, err)

	doc := b.Seal()
	assert.Equal(t, "My Page", doc.Title())
}

func TestContainsRespectsSubtreeBounds(t *testing.T) {
	doc, bodyID, p1ID, _ := buildSimpleTree(t, DefaultConfig())

	body := Element{doc: doc, id: bodyID}
	p1 := Element{doc: doc, id: p1ID}

	assert.True(t, body.Contains(p1))
	assert.True(t, body.Contains(body))
	assert.False(t, p1.Contains(body))
}
