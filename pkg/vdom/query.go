package vdom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelector is returned when a selector cannot be parsed.
var ErrInvalidSelector = errors.New("vdom: invalid selector")

// Selector is a parsed CSS selector.
//
// Supported syntax: type selectors and *, #id, .class, [attr], [attr=value]
// (value optionally quoted), descendant (whitespace) and child (>)
// combinators, and selector lists separated by commas.
type Selector struct {
	source string
	groups [][]step
}

type step struct {
	comb byte // 0 for the first step, ' ' descendant, '>' child
	c    compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

// String returns the selector source.
func (s *Selector) String() string {
	return s.source
}

// ParseSelector parses a selector string.
func ParseSelector(source string) (*Selector, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	sel := &Selector{source: src}
	for _, part := range splitSelectorList(src) {
		steps, err := parseComplex(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, src, err)
		}
		sel.groups = append(sel.groups, steps)
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(source string) *Selector {
	sel, err := ParseSelector(source)
	if err != nil {
		panic(err)
	}
	return sel
}

// Match reports whether n matches the selector. ancestors holds the element
// ancestors of n ordered from the outermost to the parent.
func (s *Selector) Match(n *VNode, ancestors []*VNode) bool {
	if !n.IsElement() {
		return false
	}
	for _, steps := range s.groups {
		if steps[len(steps)-1].c.matches(n) && matchAncestors(steps, len(steps)-1, ancestors) {
			return true
		}
	}
	return false
}

func matchAncestors(steps []step, i int, ancestors []*VNode) bool {
	if i == 0 {
		return true
	}
	prev := steps[i-1].c
	if steps[i].comb == '>' {
		if len(ancestors) == 0 {
			return false
		}
		parent := ancestors[len(ancestors)-1]
		return prev.matches(parent) && matchAncestors(steps, i-1, ancestors[:len(ancestors)-1])
	}
	for j := len(ancestors) - 1; j >= 0; j-- {
		if prev.matches(ancestors[j]) && matchAncestors(steps, i-1, ancestors[:j]) {
			return true
		}
	}
	return false
}

func (c compound) matches(n *VNode) bool {
	if !n.IsElement() {
		return false
	}
	if c.tag != "" && !strings.EqualFold(c.tag, n.Tag) {
		return false
	}
	if c.id != "" {
		if id, _ := n.AttrString("id"); id != c.id {
			return false
		}
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		val, ok := n.AttrString(a.name)
		if !ok {
			return false
		}
		if a.hasValue && val != a.value {
			return false
		}
	}
	return true
}

// Walk visits root and its descendants depth-first in document order.
// ancestors holds the element ancestors of the visited node. Returning false
// from fn stops the walk.
func Walk(root *VNode, fn func(n *VNode, ancestors []*VNode) bool) {
	walk(root, nil, fn)
}

func walk(n *VNode, ancestors []*VNode, fn func(*VNode, []*VNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, ancestors) {
		return false
	}
	if len(n.Children) == 0 {
		return true
	}
	childAncestors := ancestors
	if n.Kind == KindElement {
		childAncestors = append(ancestors[:len(ancestors):len(ancestors)], n)
	}
	for _, c := range n.Children {
		if !walk(c, childAncestors, fn) {
			return false
		}
	}
	return true
}

// QuerySelector returns the first descendant of root matching the selector,
// or nil. root itself is not a candidate.
func QuerySelector(root *VNode, selector string) (*VNode, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.First(root), nil
}

// QueryAll returns every descendant of root matching the selector in
// document order. root itself is not a candidate.
func QueryAll(root *VNode, selector string) ([]*VNode, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.All(root), nil
}

// First returns the first descendant of root matching s.
func (s *Selector) First(root *VNode) *VNode {
	var found *VNode
	Walk(root, func(n *VNode, ancestors []*VNode) bool {
		if n != root && s.Match(n, ancestors) {
			found = n
			return false
		}
		return true
	})
	return found
}

// All returns the descendants of root matching s in document order.
func (s *Selector) All(root *VNode) []*VNode {
	var out []*VNode
	Walk(root, func(n *VNode, ancestors []*VNode) bool {
		if n != root && s.Match(n, ancestors) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// PathTo returns the element ancestors of target within root, outermost
// first. ok is false when target is not root and is not found under it.
func PathTo(root, target *VNode) (path []*VNode, ok bool) {
	if root == nil || target == nil {
		return nil, false
	}
	Walk(root, func(n *VNode, ancestors []*VNode) bool {
		if n == target {
			path = append([]*VNode(nil), ancestors...)
			ok = true
			return false
		}
		return true
	})
	return path, ok
}

// Closest returns the nearest element, starting at target and moving up
// through its ancestors within root, that satisfies match.
func Closest(root, target *VNode, match func(*VNode) bool) *VNode {
	if match(target) {
		return target
	}
	path, ok := PathTo(root, target)
	if !ok {
		return nil
	}
	for i := len(path) - 1; i >= 0; i-- {
		if match(path[i]) {
			return path[i]
		}
	}
	return nil
}

// splitSelectorList splits on top-level commas, ignoring commas inside
// brackets or quotes.
func splitSelectorList(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[':
			depth++
		case ch == ']':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseComplex(s string) ([]step, error) {
	if s == "" {
		return nil, errors.New("empty selector in list")
	}
	var steps []step
	var comb byte
	for i := 0; i < len(s); {
		switch ch := s[i]; {
		case isSpace(ch):
			if len(steps) > 0 && comb == 0 {
				comb = ' '
			}
			i++
		case ch == '>':
			if len(steps) == 0 || comb == '>' {
				return nil, errors.New("misplaced '>'")
			}
			comb = '>'
			i++
		default:
			c, n, err := parseCompound(s[i:])
			if err != nil {
				return nil, err
			}
			if len(steps) == 0 {
				comb = 0
			}
			steps = append(steps, step{comb: comb, c: c})
			comb = 0
			i += n
		}
	}
	if comb == '>' {
		return nil, errors.New("dangling '>'")
	}
	return steps, nil
}

func parseCompound(s string) (compound, int, error) {
	var c compound
	i := 0
	if s[0] == '*' {
		i = 1
	} else if j := scanIdent(s, 0); j > 0 {
		c.tag = strings.ToLower(s[:j])
		i = j
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			j := scanIdent(s, i+1)
			if j == i+1 {
				return c, 0, errors.New("empty id")
			}
			c.id = s[i+1 : j]
			i = j
		case '.':
			j := scanIdent(s, i+1)
			if j == i+1 {
				return c, 0, errors.New("empty class")
			}
			c.classes = append(c.classes, s[i+1:j])
			i = j
		case '[':
			end := closingBracket(s, i)
			if end < 0 {
				return c, 0, errors.New("unterminated attribute selector")
			}
			a, err := parseAttrMatch(s[i+1 : end])
			if err != nil {
				return c, 0, err
			}
			c.attrs = append(c.attrs, a)
			i = end + 1
		default:
			if isSpace(s[i]) || s[i] == '>' {
				if i == 0 {
					return c, 0, errors.New("empty compound")
				}
				return c, i, nil
			}
			return c, 0, fmt.Errorf("unexpected %q", s[i])
		}
	}
	if i == 0 {
		return c, 0, errors.New("empty compound")
	}
	return c, i, nil
}

func parseAttrMatch(inner string) (attrMatch, error) {
	inner = strings.TrimSpace(inner)
	name, value, hasValue := strings.Cut(inner, "=")
	name = strings.TrimSpace(name)
	if name == "" || scanIdent(name, 0) != len(name) {
		return attrMatch{}, fmt.Errorf("bad attribute name %q", name)
	}
	a := attrMatch{name: strings.ToLower(name), hasValue: hasValue}
	if hasValue {
		value = strings.TrimSpace(value)
		if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') {
			if value[n-1] != value[0] {
				return attrMatch{}, errors.New("unterminated attribute value")
			}
			value = value[1 : n-1]
		}
		a.value = value
	}
	return a, nil
}

func closingBracket(s string, open int) int {
	var quote byte
	for i := open + 1; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ']':
			return i
		}
	}
	return -1
}

func scanIdent(s string, start int) int {
	i := start
	for i < len(s) {
		ch := s[i]
		if ch == '-' || ch == '_' || ch >= 0x80 ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			i++
			continue
		}
		break
	}
	return i
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}
