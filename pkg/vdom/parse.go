package vdom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// booleanAttributes are parsed into bool props instead of strings.
var booleanAttributes = map[string]bool{
	"autofocus":      true,
	"checked":        true,
	"disabled":       true,
	"formnovalidate": true,
	"hidden":         true,
	"multiple":       true,
	"novalidate":     true,
	"readonly":       true,
	"required":       true,
	"selected":       true,
}

// rawTextElements hold unescaped text content.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// Parse reads an HTML document (or fragment, which the HTML5 algorithm
// wraps in html/body) into a VNode tree rooted at a fragment node.
// Attribute declaration order is preserved. Comments and doctypes are
// dropped.
func Parse(r io.Reader) (*VNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("vdom: parse html: %w", err)
	}
	return convertNode(doc, false), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*VNode, error) {
	return Parse(strings.NewReader(s))
}

func convertNode(n *html.Node, rawText bool) *VNode {
	switch n.Type {
	case html.DocumentNode:
		root := &VNode{Kind: KindFragment}
		convertChildren(root, n, false)
		return root

	case html.ElementNode:
		el := &VNode{Kind: KindElement, Tag: n.Data, Props: make(Props)}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			if booleanAttributes[key] && (a.Val == "" || strings.EqualFold(a.Val, key)) {
				el.SetAttr(key, true)
				continue
			}
			el.SetAttr(key, a.Val)
		}
		convertChildren(el, n, rawTextElements[n.Data])
		return el

	case html.TextNode:
		if rawText {
			return Raw(n.Data)
		}
		return Text(n.Data)

	default:
		return nil
	}
}

func convertChildren(dst *VNode, src *html.Node, rawText bool) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(c, rawText); child != nil {
			dst.Children = append(dst.Children, child)
		}
	}
}
