package vdom

import "testing"

func TestParseStyle(t *testing.T) {
	got := ParseStyle(" Display : none ; color:red;;opacity: 0 !important; bogus")
	want := map[string]string{"display": "none", "color": "red", "opacity": "0"}
	if len(got) != len(want) {
		t.Fatalf("ParseStyle() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ParseStyle()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestIsVisible(t *testing.T) {
	target := func() *VNode { return Input(ID("t"), Name("t")) }

	tests := []struct {
		name string
		doc  func(*VNode) *VNode
		want bool
	}{
		{"plain", func(n *VNode) *VNode { return Form(Div(n)) }, true},
		{"display none self", func(n *VNode) *VNode {
			n.SetAttr("style", "display:none")
			return Form(n)
		}, false},
		{"display none ancestor", func(n *VNode) *VNode {
			return Form(Div(StyleAttr("display: NONE"), Div(n)))
		}, false},
		{"hidden attribute ancestor", func(n *VNode) *VNode { return Form(Div(Hidden(), n)) }, false},
		{"hidden input", func(n *VNode) *VNode {
			n.SetAttr("type", "hidden")
			return Form(n)
		}, false},
		{"opacity zero", func(n *VNode) *VNode { return Form(Div(StyleAttr("opacity:0"), n)) }, false},
		{"opacity percent", func(n *VNode) *VNode { return Form(Div(StyleAttr("opacity:0%"), n)) }, false},
		{"opacity partial", func(n *VNode) *VNode { return Form(Div(StyleAttr("opacity:0.5"), n)) }, true},
		{"visibility hidden ancestor", func(n *VNode) *VNode {
			return Form(Div(StyleAttr("visibility:hidden"), n))
		}, false},
		{"visibility overridden by child", func(n *VNode) *VNode {
			n.SetAttr("style", "visibility: visible")
			return Form(Div(StyleAttr("visibility:hidden"), n))
		}, true},
		{"visibility collapse", func(n *VNode) *VNode {
			n.SetAttr("style", "visibility:collapse")
			return Form(n)
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := target()
			root := Fragment(tt.doc(n))
			if got := IsVisible(root, n); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVisibleDetached(t *testing.T) {
	root := Fragment(Form())
	if IsVisible(root, Input()) {
		t.Error("detached node should not be visible")
	}
	if IsVisible(root, Text("x")) {
		t.Error("text node should not be visible")
	}
}
