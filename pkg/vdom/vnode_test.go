package vdom

import (
	"reflect"
	"testing"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetAttrRecordsOrder(t *testing.T) {
	n := &VNode{Kind: KindElement, Tag: "input"}
	n.SetAttr("name", "email")
	n.SetAttr("data-required", "")
	n.SetAttr("data-pattern", "@")
	n.SetAttr("name", "mail") // overwrite keeps the original position

	want := []string{"name", "data-required", "data-pattern"}
	if got := n.AttrKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AttrKeys() = %v, want %v", got, want)
	}
	if got, _ := n.AttrString("name"); got != "mail" {
		t.Errorf("name = %q, want %q", got, "mail")
	}
}

func TestAttrKeysUnorderedPropsSortedLast(t *testing.T) {
	n := &VNode{
		Kind:      KindElement,
		Tag:       "input",
		Props:     Props{"name": "x", "zeta": "1", "alpha": "2"},
		AttrOrder: []string{"name"},
	}
	want := []string{"name", "alpha", "zeta"}
	if got := n.AttrKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AttrKeys() = %v, want %v", got, want)
	}
}

func TestRemoveAttr(t *testing.T) {
	n := Input(Name("a"), Type("text"), Value("v"))
	n.RemoveAttr("type")
	n.RemoveAttr("missing")

	if n.HasAttr("type") {
		t.Error("type should be removed")
	}
	want := []string{"name", "value"}
	if got := n.AttrKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AttrKeys() = %v, want %v", got, want)
	}
}

func TestAttrString(t *testing.T) {
	n := Input(Name("a"), Checked(), Data("min", "3"))
	n.SetAttr("disabled", false)
	n.SetAttr("size", 10)

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"name", "a", true},
		{"checked", "", true},
		{"disabled", "", false},
		{"size", "10", true},
		{"data-min", "3", true},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := n.AttrString(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AttrString(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBoolAttr(t *testing.T) {
	n := Input(Disabled())
	n.SetAttr("readonly", "false")
	n.SetAttr("hidden", "")

	if !n.BoolAttr("disabled") {
		t.Error("disabled should be on")
	}
	if n.BoolAttr("readonly") {
		t.Error(`readonly="false" should be off`)
	}
	if !n.BoolAttr("hidden") {
		t.Error(`hidden="" should be on`)
	}
	if n.BoolAttr("checked") {
		t.Error("absent attribute should be off")
	}
}

func TestTextContentAndSetText(t *testing.T) {
	n := Div(Span("Hello, "), "World", Span(Span("!")))
	if got := n.TextContent(); got != "Hello, World!" {
		t.Errorf("TextContent() = %q, want %q", got, "Hello, World!")
	}

	n.SetText("replaced")
	if len(n.Children) != 1 || n.Children[0].Text != "replaced" {
		t.Errorf("SetText did not replace children: %+v", n.Children)
	}

	n.SetText("")
	if len(n.Children) != 0 {
		t.Errorf("SetText(\"\") left %d children", len(n.Children))
	}
}

func TestNilNodeSafety(t *testing.T) {
	var n *VNode
	n.SetAttr("a", "b")
	n.RemoveAttr("a")
	n.SetText("x")
	n.AppendChild(Div())

	if n.HasAttr("a") {
		t.Error("nil node has no attributes")
	}
	if n.TextContent() != "" {
		t.Error("nil node has no text")
	}
	if n.IsElement() {
		t.Error("nil node is not an element")
	}
}

func TestAttrToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		if got := AttrToString(tt.in); got != tt.want {
			t.Errorf("AttrToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
