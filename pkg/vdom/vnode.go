package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <form>, <input>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper (also the parsed document)
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
//
// Props holds the attribute values. AttrOrder records the order in which
// attributes were declared so that declarative rules can be read back in
// declaration order; keys present in Props but missing from AttrOrder are
// reported after the ordered ones, sorted.
type VNode struct {
	Kind      VKind    // Node type
	Tag       string   // Element tag name (e.g., "input")
	Props     Props    // Attributes
	AttrOrder []string // Attribute declaration order
	Children  []*VNode // Child nodes
	Text      string   // For KindText and KindRaw
}

// Props holds attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// IsElement reports whether v is a non-nil element node.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// SetAttr sets an attribute, recording its position the first time it is seen.
func (v *VNode) SetAttr(key string, value any) {
	if v == nil || key == "" {
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	if _, exists := v.Props[key]; !exists {
		v.AttrOrder = append(v.AttrOrder, key)
	}
	v.Props[key] = value
}

// RemoveAttr deletes an attribute.
func (v *VNode) RemoveAttr(key string) {
	if v == nil || v.Props == nil {
		return
	}
	if _, exists := v.Props[key]; !exists {
		return
	}
	delete(v.Props, key)
	for i, k := range v.AttrOrder {
		if k == key {
			v.AttrOrder = append(v.AttrOrder[:i], v.AttrOrder[i+1:]...)
			break
		}
	}
}

// Attr returns the raw attribute value.
func (v *VNode) Attr(key string) (any, bool) {
	if v == nil || v.Props == nil {
		return nil, false
	}
	val, ok := v.Props[key]
	return val, ok
}

// HasAttr reports whether the attribute is present.
func (v *VNode) HasAttr(key string) bool {
	_, ok := v.Attr(key)
	return ok
}

// AttrString returns the attribute as a string. Boolean attributes set to
// true read as "" (present, no value); false reads as absent.
func (v *VNode) AttrString(key string) (string, bool) {
	val, ok := v.Attr(key)
	if !ok || val == nil {
		return "", false
	}
	switch x := val.(type) {
	case string:
		return x, true
	case bool:
		if !x {
			return "", false
		}
		return "", true
	default:
		return AttrToString(x), true
	}
}

// BoolAttr reports whether a boolean attribute is switched on.
// A string value is "on" unless it is "false".
func (v *VNode) BoolAttr(key string) bool {
	val, ok := v.Attr(key)
	if !ok || val == nil {
		return false
	}
	switch x := val.(type) {
	case bool:
		return x
	case string:
		return x != "false"
	default:
		return true
	}
}

// AttrKeys returns attribute names in declaration order.
func (v *VNode) AttrKeys() []string {
	if v == nil || len(v.Props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.Props))
	seen := make(map[string]bool, len(v.Props))
	for _, k := range v.AttrOrder {
		if _, ok := v.Props[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	if len(keys) == len(v.Props) {
		return keys
	}
	var rest []string
	for k := range v.Props {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// AppendChild adds a child node.
func (v *VNode) AppendChild(child *VNode) {
	if v == nil || child == nil {
		return
	}
	v.Children = append(v.Children, child)
}

// TextContent returns the concatenated text of all descendant text nodes.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for _, c := range v.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetText replaces the children with a single text node.
// An empty string removes all children.
func (v *VNode) SetText(s string) {
	if v == nil {
		return
	}
	if s == "" {
		v.Children = nil
		return
	}
	v.Children = []*VNode{Text(s)}
}

// AttrToString converts an attribute value to its string form.
func AttrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
