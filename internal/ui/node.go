// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ui is an in-memory tree of renderable nodes. Elements carry native
// properties, string attributes, an inline style map and event listeners;
// the tree serializes to HTML.
package ui

import (
	"maps"
	"slices"
	"strings"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is one element or text node. A Node has at most one parent;
// appending it elsewhere moves it. Nodes are not safe for concurrent use.
type Node struct {
	typ      NodeType
	tag      string
	data     string
	props    map[string]any
	attrs    map[string]string
	style    map[string]string
	events   map[string][]*listener
	children []*Node
	parent   *Node
}

// NewElement returns a detached element with the given tag name.
func NewElement(tag string) *Node {
	return &Node{typ: ElementNode, tag: strings.ToLower(tag)}
}

// NewText returns a detached text node.
func NewText(s string) *Node {
	return &Node{typ: TextNode, data: s}
}

func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lower-case tag name, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Data returns the text of a text node.
func (n *Node) Data() string { return n.data }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// AppendChild appends child, detaching it from its previous parent first.
// Appending to a text node, appending nil or appending a node to itself is
// ignored.
func (n *Node) AppendChild(child *Node) {
	if child == nil || child == n || n.typ == TextNode {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) removeChild(child *Node) {
	n.children = slices.DeleteFunc(n.children, func(c *Node) bool { return c == child })
	child.parent = nil
}

// SetAttribute sets a string attribute.
func (n *Node) SetAttribute(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// Attribute returns the value of an attribute and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) RemoveAttribute(name string) { delete(n.attrs, name) }

// Attributes returns a copy of the attribute map.
func (n *Node) Attributes() map[string]string { return maps.Clone(n.attrs) }

// SetStyle merges declarations into the inline style. An empty value removes
// the declaration.
func (n *Node) SetStyle(decls map[string]string) {
	for k, v := range decls {
		if v == "" {
			delete(n.style, k)
			continue
		}
		if n.style == nil {
			n.style = make(map[string]string)
		}
		n.style[k] = v
	}
}

// Style returns a copy of the inline style map.
func (n *Node) Style() map[string]string { return maps.Clone(n.style) }

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.data
	}
	var b strings.Builder
	n.walk(func(c *Node) bool {
		if c.typ == TextNode {
			b.WriteString(c.data)
		}
		return true
	})
	return b.String()
}

// FindByID returns the first descendant (or n itself) whose id attribute is id.
func (n *Node) FindByID(id string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if v, ok := c.attrs["id"]; ok && v == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth-first until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
