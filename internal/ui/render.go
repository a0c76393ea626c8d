// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"bytes"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes n and its subtree as HTML. Attributes are written in sorted
// order, with the inline style serialized as a "style" attribute, so equal
// trees always render to equal bytes. Event listeners are not rendered.
func (n *Node) Render(w io.Writer) error {
	return html.Render(w, n.htmlNode())
}

// String renders n, returning the error text in place of markup on failure.
func (n *Node) String() string {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return buf.String()
}

func (n *Node) htmlNode() *html.Node {
	if n.typ == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.data}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
		Attr:     n.htmlAttrs(),
	}
	for _, c := range n.children {
		h.AppendChild(c.htmlNode())
	}
	return h
}

func (n *Node) htmlAttrs() []html.Attribute {
	attrs := maps.Clone(n.attrs)
	if len(n.style) > 0 {
		if attrs == nil {
			attrs = make(map[string]string, 1)
		}
		attrs["style"] = n.cssText()
	}
	out := make([]html.Attribute, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		out = append(out, html.Attribute{Key: k, Val: attrs[k]})
	}
	return out
}

// cssText serializes the inline style with declarations in sorted order.
func (n *Node) cssText() string {
	var b strings.Builder
	for i, k := range slices.Sorted(maps.Keys(n.style)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(n.style[k])
		b.WriteByte(';')
	}
	return b.String()
}
