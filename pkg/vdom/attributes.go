package vdom

import (
	"strings"
	"unicode"
)

// attr creates an attribute.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Global attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the inline style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute. The key is given in kebab case
// ("min-length" produces data-min-length).
func Data(key, value string) Attr { return attr("data-"+key, value) }

// DataFlag sets a presence-only data-* attribute.
func DataFlag(key string) Attr { return attr("data-"+key, "") }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("for", id) }

// Form attributes

func Name(name string) Attr         { return attr("name", name) }
func Value(value string) Attr       { return attr("value", value) }
func Type(t string) Attr            { return attr("type", t) }
func Placeholder(text string) Attr  { return attr("placeholder", text) }
func Disabled() Attr                { return attr("disabled", true) }
func Readonly() Attr                { return attr("readonly", true) }
func Checked() Attr                 { return attr("checked", true) }
func Selected() Attr                { return attr("selected", true) }
func Multiple() Attr                { return attr("multiple", true) }
func Novalidate() Attr              { return attr("novalidate", true) }
func Action(url string) Attr        { return attr("action", url) }
func Method(method string) Attr     { return attr("method", method) }
func Accept(types string) Attr      { return attr("accept", types) }
func Autocomplete(mode string) Attr { return attr("autocomplete", mode) }

// Conditional attributes

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// DatasetEntry is one data-* attribute read with dataset naming.
type DatasetEntry struct {
	Key   string // camelCase key, e.g. "minLength"
	Value string
}

// Dataset returns the node's data-* attributes in declaration order with
// their keys converted the way the DOM dataset does it
// (data-min-length-message becomes minLengthMessage).
func (v *VNode) Dataset() []DatasetEntry {
	if !v.IsElement() {
		return nil
	}
	var out []DatasetEntry
	for _, key := range v.AttrKeys() {
		if !strings.HasPrefix(key, "data-") || len(key) == len("data-") {
			continue
		}
		val, ok := v.AttrString(key)
		if !ok {
			continue
		}
		out = append(out, DatasetEntry{Key: DatasetKey(key), Value: val})
	}
	return out
}

// DatasetKey converts an attribute name such as data-min-length to its
// dataset key (minLength). A dash followed by a lowercase ASCII letter is
// removed and the letter upper-cased; every other character is kept.
func DatasetKey(attrName string) string {
	name := strings.TrimPrefix(attrName, "data-")
	var b strings.Builder
	b.Grow(len(name))
	runes := []rune(name)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '-' && i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ClassList returns the node's classes.
func (v *VNode) ClassList() []string {
	s, _ := v.AttrString("class")
	return strings.Fields(s)
}

// HasClass reports whether the node carries the class.
func (v *VNode) HasClass(class string) bool {
	for _, c := range v.ClassList() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class if it is not already present.
func (v *VNode) AddClass(class string) {
	if !v.IsElement() || class == "" || v.HasClass(class) {
		return
	}
	v.SetAttr("class", strings.Join(append(v.ClassList(), class), " "))
}

// RemoveClass removes a class. The class attribute is dropped when it
// becomes empty.
func (v *VNode) RemoveClass(class string) {
	if !v.IsElement() || !v.HasClass(class) {
		return
	}
	classes := v.ClassList()
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		v.RemoveAttr("class")
		return
	}
	v.SetAttr("class", strings.Join(kept, " "))
}
