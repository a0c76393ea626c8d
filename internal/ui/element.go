// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Props are the keyed inputs of CreateElement.
type Props map[string]any

// Events maps event types to handlers. Under the "events" prop key.
type Events map[string]Handler

// Style maps CSS property names to values. Under the "style" prop key.
type Style map[string]string

// CreateElement builds a detached element. Each prop key is resolved, in
// sorted key order, by the first matching rule:
//
//   - "events": every entry is registered with AddEventListener;
//   - "style": declarations are merged into the inline style;
//   - a native property of tag: assigned through SetProperty;
//   - anything else: a string attribute.
//
// Children are then appended in order. Strings and numbers become text nodes,
// *Node values are appended, everything else is skipped.
func CreateElement(tag string, props Props, children ...any) *Node {
	n := NewElement(tag)
	for _, key := range slices.Sorted(maps.Keys(props)) {
		value := props[key]
		switch {
		case key == "events":
			addEvents(n, value)
		case key == "style":
			n.SetStyle(styleOf(value))
		case n.SetProperty(key, value):
		default:
			n.SetAttribute(key, stringify(value))
		}
	}
	for _, child := range children {
		if c := childNode(child); c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func addEvents(n *Node, value any) {
	switch ev := value.(type) {
	case Events:
		for _, typ := range slices.Sorted(maps.Keys(ev)) {
			n.AddEventListener(typ, ev[typ])
		}
	case map[string]Handler:
		addEvents(n, Events(ev))
	case map[string]func(*Event):
		for _, typ := range slices.Sorted(maps.Keys(ev)) {
			n.AddEventListener(typ, ev[typ])
		}
	case map[string]any:
		for _, typ := range slices.Sorted(maps.Keys(ev)) {
			switch fn := ev[typ].(type) {
			case Handler:
				n.AddEventListener(typ, fn)
			case func(*Event):
				n.AddEventListener(typ, fn)
			}
		}
	}
}

func styleOf(value any) map[string]string {
	switch st := value.(type) {
	case Style:
		return st
	case map[string]string:
		return st
	case map[string]any:
		out := make(map[string]string, len(st))
		for k, v := range st {
			out[k] = stringify(v)
		}
		return out
	case string:
		return ParseStyle(st)
	}
	return nil
}

// ParseStyle splits an inline declaration list ("color: red; margin: 0").
func ParseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func childNode(child any) *Node {
	switch c := child.(type) {
	case *Node:
		return c
	case string:
		return NewText(c)
	case int:
		return NewText(strconv.Itoa(c))
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return NewText(stringify(c))
	case float32:
		return NewText(strconv.FormatFloat(float64(c), 'g', -1, 32))
	case float64:
		return NewText(strconv.FormatFloat(c, 'g', -1, 64))
	}
	return nil
}
