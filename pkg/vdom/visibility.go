package vdom

import (
	"strconv"
	"strings"
)

// ParseStyle parses an inline style declaration list into a map keyed by
// lower-cased property name. Later declarations win; !important is dropped.
func ParseStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		out[prop] = value
	}
	return out
}

// StyleValue returns the lower-cased inline value of a style property.
func (v *VNode) StyleValue(prop string) string {
	s, ok := v.AttrString("style")
	if !ok || s == "" {
		return ""
	}
	return strings.ToLower(ParseStyle(s)[strings.ToLower(prop)])
}

// IsVisible reports whether target would be rendered by a browser, judged
// from inline styles and attributes: it must be attached under root, must
// not be display:none (itself or any ancestor), visibility:hidden or
// collapse (nearest declaration wins), fully transparent (itself or any
// ancestor), carry the hidden attribute (itself or any ancestor), or be an
// <input type="hidden">.
func IsVisible(root, target *VNode) bool {
	if !target.IsElement() {
		return false
	}
	path, ok := PathTo(root, target)
	if !ok {
		return false
	}
	if target.Tag == "input" {
		if t, _ := target.AttrString("type"); strings.EqualFold(t, "hidden") {
			return false
		}
	}

	chain := append(path, target)
	for _, n := range chain {
		if n.BoolAttr("hidden") {
			return false
		}
		if n.StyleValue("display") == "none" {
			return false
		}
		if isTransparent(n.StyleValue("opacity")) {
			return false
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		vis := chain[i].StyleValue("visibility")
		if vis == "" {
			continue
		}
		return vis != "hidden" && vis != "collapse"
	}
	return true
}

func isTransparent(opacity string) bool {
	if opacity == "" {
		return false
	}
	if pct, ok := strings.CutSuffix(opacity, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		return err == nil && f <= 0
	}
	f, err := strconv.ParseFloat(opacity, 64)
	return err == nil && f <= 0
}
