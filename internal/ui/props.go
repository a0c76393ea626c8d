// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

type propKind int

const (
	// propString reflects into an attribute holding fmt.Sprint(value).
	propString propKind = iota
	// propBool reflects into a present or absent attribute.
	propBool
	// propText replaces the children with a single text node.
	propText
)

type propDef struct {
	attr string
	kind propKind
}

// globalProps apply to every element.
var globalProps = map[string]propDef{
	"id":              {"id", propString},
	"className":       {"class", propString},
	"title":           {"title", propString},
	"lang":            {"lang", propString},
	"dir":             {"dir", propString},
	"tabIndex":        {"tabindex", propString},
	"accessKey":       {"accesskey", propString},
	"contentEditable": {"contenteditable", propString},
	"hidden":          {"hidden", propBool},
	"draggable":       {"draggable", propBool},
	"spellcheck":      {"spellcheck", propBool},
	"textContent":     {"", propText},
	"innerText":       {"", propText},
}

var (
	formControlProps = map[string]propDef{
		"name":      {"name", propString},
		"disabled":  {"disabled", propBool},
		"required":  {"required", propBool},
		"autofocus": {"autofocus", propBool},
	}
	mediaProps = map[string]propDef{
		"src":      {"src", propString},
		"controls": {"controls", propBool},
		"autoplay": {"autoplay", propBool},
		"loop":     {"loop", propBool},
		"muted":    {"muted", propBool},
	}
)

// tagProps lists the properties specific to a tag, in addition to globalProps.
var tagProps = map[string]map[string]propDef{
	"input": with(formControlProps, map[string]propDef{
		"type":        {"type", propString},
		"value":       {"value", propString},
		"placeholder": {"placeholder", propString},
		"checked":     {"checked", propBool},
		"readOnly":    {"readonly", propBool},
		"multiple":    {"multiple", propBool},
		"min":         {"min", propString},
		"max":         {"max", propString},
		"step":        {"step", propString},
		"maxLength":   {"maxlength", propString},
		"pattern":     {"pattern", propString},
	}),
	"textarea": with(formControlProps, map[string]propDef{
		"value":       {"", propText},
		"placeholder": {"placeholder", propString},
		"readOnly":    {"readonly", propBool},
		"rows":        {"rows", propString},
		"cols":        {"cols", propString},
	}),
	"button": with(formControlProps, map[string]propDef{
		"type":  {"type", propString},
		"value": {"value", propString},
	}),
	"select": with(formControlProps, map[string]propDef{
		"multiple": {"multiple", propBool},
	}),
	"option": {
		"value":    {"value", propString},
		"label":    {"label", propString},
		"selected": {"selected", propBool},
		"disabled": {"disabled", propBool},
	},
	"form": {
		"action":     {"action", propString},
		"method":     {"method", propString},
		"noValidate": {"novalidate", propBool},
	},
	"label": {"htmlFor": {"for", propString}},
	"a": {
		"href":     {"href", propString},
		"target":   {"target", propString},
		"rel":      {"rel", propString},
		"download": {"download", propString},
	},
	"img": {
		"src":    {"src", propString},
		"alt":    {"alt", propString},
		"width":  {"width", propString},
		"height": {"height", propString},
	},
	"video": mediaProps,
	"audio": mediaProps,
	"td":    {"colSpan": {"colspan", propString}, "rowSpan": {"rowspan", propString}},
	"th":    {"colSpan": {"colspan", propString}, "rowSpan": {"rowspan", propString}},
}

func with(base, extra map[string]propDef) map[string]propDef {
	out := maps.Clone(base)
	maps.Copy(out, extra)
	return out
}

// lookupProp reports whether name is a native property of tag.
func lookupProp(tag, name string) (propDef, bool) {
	if def, ok := tagProps[tag][name]; ok {
		return def, true
	}
	def, ok := globalProps[name]
	return def, ok
}

// IsProperty reports whether name is a native property of elements with tag.
func IsProperty(tag, name string) bool {
	_, ok := lookupProp(strings.ToLower(tag), name)
	return ok
}

// SetProperty assigns a native property and applies its effect. It reports
// false, leaving n untouched, when name is not a native property of n's tag.
func (n *Node) SetProperty(name string, value any) bool {
	if n.typ != ElementNode {
		return false
	}
	def, ok := lookupProp(n.tag, name)
	if !ok {
		return false
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value

	switch def.kind {
	case propText:
		n.RemoveChildren()
		if s := stringify(value); s != "" {
			n.AppendChild(NewText(s))
		}
	case propBool:
		if truthy(value) {
			n.SetAttribute(def.attr, "")
		} else {
			n.RemoveAttribute(def.attr)
		}
	default:
		if value == nil {
			n.RemoveAttribute(def.attr)
		} else {
			n.SetAttribute(def.attr, stringify(value))
		}
	}
	return true
}

// Property returns the last value assigned to a native property.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// truthy follows the loose truthiness of markup properties: false, zero
// numbers, empty strings and nil are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	}
	return true
}
