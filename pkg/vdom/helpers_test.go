package vdom

import "testing"

func TestText(t *testing.T) {
	node := Textf("Count: %d", 42)

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
}

func TestFragment(t *testing.T) {
	node := Fragment(Div(), nil, []*VNode{Span(), nil}, "text")
	if node.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", node.Kind)
	}
	if len(node.Children) != 3 {
		t.Errorf("Children len = %v, want 3", len(node.Children))
	}
}

func TestIf(t *testing.T) {
	n := Div()
	if If(true, n) != n {
		t.Error("If(true) should return the node")
	}
	if If(false, n) != nil {
		t.Error("If(false) should return nil")
	}
}

func TestRange(t *testing.T) {
	nodes := Range([]string{"a", "", "c"}, func(s string, _ int) *VNode {
		if s == "" {
			return nil
		}
		return Option(Value(s))
	})
	if len(nodes) != 2 {
		t.Errorf("len = %d, want 2", len(nodes))
	}
}
