package dom

import "strings"

// voidElements never carry a closing tag or children when serialized, per
// the HTML5 void-element list.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// serializeNode writes id's HTML serialization (itself, its attributes, and
// recursively its children) to b. This is a plain re-serialization from the
// arena, not a byte-for-byte echo of the original input.
func serializeNode(d *Document, id NodeId, b *strings.Builder) {
	n := d.node(id)
	switch n.Kind {
	case TextKind:
		escapeText(d.str(n.Text), b)
		return
	case CommentKind:
		b.WriteString("<!--")
		b.WriteString(d.str(n.Text))
		b.WriteString("-->")
		return
	}

	if id == d.core.root {
		for c := n.FirstChild; c != noNode; c = d.node(c).NextSibling {
			serializeNode(d, c, b)
		}
		return
	}

	tag := d.tagName(n.Tag)
	b.WriteByte('<')
	b.WriteString(tag)
	for i := 0; i < n.attrs.len(); i++ {
		a := n.attrs.at(i)
		b.WriteByte(' ')
		b.WriteString(d.attrName(a.Name))
		b.WriteString(`="`)
		escapeAttrValue(d.str(a.Value), b)
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[tag] {
		return
	}

	for c := n.FirstChild; c != noNode; c = d.node(c).NextSibling {
		serializeNode(d, c, b)
	}

	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

// escapeText writes s to b with the escaping spec.md §4.8 requires of text
// content: &, <, and >. When s needs no escaping the write is a single copy.
func escapeText(s string, b *strings.Builder) {
	if !strings.ContainsAny(s, "&<>") {
		b.WriteString(s)
		return
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
}

// escapeAttrValue writes s to b with the escaping a double-quoted attribute
// value requires: &, <, >, and ".
func escapeAttrValue(s string, b *strings.Builder) {
	if !strings.ContainsAny(s, "&<>\"") {
		b.WriteString(s)
		return
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
}

// ToHTML serializes the entire document (excluding the synthetic root
// wrapper) back to HTML.
func (d *Document) ToHTML() string {
	var b strings.Builder
	serializeNode(d, d.core.root, &b)
	return b.String()
}

// Title returns the text content of the first <title> element found in
// document order, or "" if none exists.
func (d *Document) Title() string {
	titleTag, ok := d.core.interner.lookupTag([]byte("title"))
	if !ok {
		return ""
	}
	for id := NodeId(1); id < NodeId(d.core.arena.Len()); id++ {
		n := d.node(id)
		if n.Kind == ElementKind && n.Tag == titleTag {
			return (Element{doc: d, id: id}).Text()
		}
	}
	return ""
}

// Text returns the normalized text content of the whole document, the same
// way Element.Text does for the root element.
func (d *Document) Text() string {
	return d.Root().Text()
}
