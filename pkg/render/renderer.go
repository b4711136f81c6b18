package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/formguard/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Text-sensitive content (textarea, pre) is never re-indented.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer writes VNode trees as HTML. Attributes are written in
// declaration order, so a parsed document renders back with its data-*
// rules in the order they were read.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0, false)
}

// renderNode dispatches rendering based on node kind. verbatim disables
// pretty-printing below text-sensitive elements.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int, verbatim bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth, verbatim)
	case vdom.KindText:
		return r.renderText(w, node, verbatim)
	case vdom.KindFragment:
		return r.renderFragment(w, node, depth, verbatim)
	case vdom.KindRaw:
		return r.renderRaw(w, node)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int, verbatim bool) error {
	tag := node.Tag
	pretty := r.config.Pretty && !verbatim

	if pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		if pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	childVerbatim := verbatim || verbatimElements[tag]
	hasBlockChildren := pretty && !childVerbatim && len(node.Children) > 0 && !isInlineElement(tag)
	if hasBlockChildren {
		w.Write([]byte{'\n'})
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1, childVerbatim); err != nil {
			return err
		}
	}

	if hasBlockChildren {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderText renders a text node with HTML escaping. In pretty mode
// whitespace-only text between elements is dropped.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode, verbatim bool) error {
	text := node.Text
	if r.config.Pretty && !verbatim && strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := io.WriteString(w, escapeHTML(text))
	return err
}

// renderFragment renders a fragment's children without a wrapper element.
func (r *Renderer) renderFragment(w io.Writer, node *vdom.VNode, depth int, verbatim bool) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth, verbatim); err != nil {
			return err
		}
	}
	return nil
}

// renderRaw renders raw HTML without escaping.
func (r *Renderer) renderRaw(w io.Writer, node *vdom.VNode) error {
	_, err := io.WriteString(w, node.Text)
	return err
}

// renderAttributes renders the element's attributes in declaration order.
// true renders as a bare attribute, false is omitted and an empty string
// keeps the attribute present with no value (data-required).
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	for _, key := range node.AttrKeys() {
		if !validAttrName(key) {
			continue
		}
		value, _ := node.Attr(key)

		switch v := value.(type) {
		case nil:
			continue
		case bool:
			if !v {
				continue
			}
			if _, err := fmt.Fprintf(w, " %s", key); err != nil {
				return err
			}
			continue
		}

		s := vdom.AttrToString(value)
		if s == "" {
			if _, err := fmt.Fprintf(w, " %s", key); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

// validAttrName rejects names that would break out of the tag.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\r\f\"'<>/=`")
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
