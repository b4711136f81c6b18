package form

import (
	"sort"
	"strings"

	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// SetOption configures SetValue and Update.
type SetOption func(*setOptions)

type setOptions struct {
	validate bool
}

// ShouldValidate validates each assigned field right away.
func ShouldValidate() SetOption {
	return func(o *setOptions) { o.validate = true }
}

// nodes returns the named controls of the form in document order.
func (f *Form) nodes() []*vdom.VNode {
	return fieldSelector.All(f.root)
}

// Fields returns a descriptor for every named control in document order.
func (f *Form) Fields() []rules.Field {
	nodes := f.nodes()
	group := make([]rules.Field, len(nodes))
	for i, n := range nodes {
		group[i] = f.describe(n)
	}
	return group
}

// describe builds the descriptor of n as the document stands now.
func (f *Form) describe(n *vdom.VNode) rules.Field {
	name, _ := n.AttrString("name")
	fd := rules.Field{
		Name:     name,
		Kind:     kindOf(n),
		Staged:   f.staged[n],
		Checked:  n.BoolAttr("checked"),
		Disabled: n.BoolAttr("disabled"),
		Visible:  vdom.IsVisible(f.root, n),
	}
	fd.Value, fd.HasValue = liveValue(n)
	if fd.Kind == rules.KindFile {
		fd.Files = f.files[n]
	}
	for _, d := range n.Dataset() {
		fd.Declared = append(fd.Declared, rules.Attr{Name: d.Key, Value: d.Value})
		if d.Key == "disabled" && d.Value != "false" {
			fd.DisabledFlag = true
		}
	}
	return fd
}

func kindOf(n *vdom.VNode) rules.FieldKind {
	if n.Tag != "input" {
		return rules.KindText
	}
	t, _ := n.AttrString("type")
	return rules.KindOf(t)
}

// liveValue reads the value a browser would report for n. A select with no
// selected option has no live value.
func liveValue(n *vdom.VNode) (string, bool) {
	switch n.Tag {
	case "textarea":
		return n.TextContent(), true
	case "select":
		for _, opt := range options(n) {
			if opt.BoolAttr("selected") {
				return optionValue(opt), true
			}
		}
		return "", false
	default:
		return n.AttrString("value")
	}
}

func options(sel *vdom.VNode) []*vdom.VNode {
	var out []*vdom.VNode
	vdom.Walk(sel, func(n *vdom.VNode, _ []*vdom.VNode) bool {
		if n.IsElement() && n.Tag == "option" {
			out = append(out, n)
		}
		return true
	})
	return out
}

func optionValue(opt *vdom.VNode) string {
	if v, ok := opt.AttrString("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.TextContent())
}

// GetField returns the first control named name, or nil.
func (f *Form) GetField(name string) *vdom.VNode {
	if name == "" {
		return nil
	}
	for _, n := range f.nodes() {
		if got, _ := n.AttrString("name"); got == name {
			return n
		}
	}
	return nil
}

// contains reports whether n is one of the form's named controls.
func (f *Form) contains(n *vdom.VNode) bool {
	if n == nil {
		return false
	}
	for _, c := range f.nodes() {
		if c == n {
			return true
		}
	}
	return false
}

// GetValue returns the extracted value of the field named name. ok is false
// when no such field exists.
func (f *Form) GetValue(name string) (v rules.Value, ok bool) {
	n := f.GetField(name)
	if n == nil {
		return rules.Absent(), false
	}
	return rules.ExtractValue(f.describe(n), f.Fields())
}

// GetValues returns the extracted value of every named field.
func (f *Form) GetValues() map[string]rules.Value {
	return rules.ExtractAll(f.Fields())
}

// SetValue assigns value to the field named name and stages it. Unknown
// names are ignored.
func (f *Form) SetValue(name, value string, opts ...SetOption) {
	n := f.GetField(name)
	if n == nil {
		return
	}
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	assign(n, value)
	f.staged[n] = value

	if o.validate {
		f.ValidateField(n)
	}
}

// Update calls SetValue for every entry, in name order.
func (f *Form) Update(values map[string]string, opts ...SetOption) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.SetValue(name, values[name], opts...)
	}
}

// SetChecked checks or unchecks the radio or checkbox option of group name
// whose value is value. Checking a radio unchecks the rest of its group.
// It reports whether the option was found.
func (f *Form) SetChecked(name, value string, checked bool) bool {
	var target *vdom.VNode
	var group []*vdom.VNode
	for _, n := range f.nodes() {
		if got, _ := n.AttrString("name"); got != name {
			continue
		}
		group = append(group, n)
		if v, _ := n.AttrString("value"); target == nil && v == value {
			target = n
		}
	}
	if target == nil {
		return false
	}
	if checked && kindOf(target) == rules.KindRadio {
		for _, n := range group {
			if kindOf(n) == rules.KindRadio {
				n.RemoveAttr("checked")
			}
		}
	}
	setChecked(target, checked)
	return true
}

// SetFiles attaches a file selection to the file input named name.
// It reports whether the field was found.
func (f *Form) SetFiles(name string, files rules.FileList) bool {
	n := f.GetField(name)
	if n == nil || kindOf(n) != rules.KindFile {
		return false
	}
	if files == nil {
		delete(f.files, n)
	} else {
		f.files[n] = files
	}
	return true
}

// Reset clears every field's value, selection and error.
func (f *Form) Reset() {
	for _, n := range f.nodes() {
		f.resetNode(n)
	}
	for name := range f.errs {
		f.clearError(name)
	}
}

// ResetField clears the value and error of the field named name.
// Unknown names are ignored.
func (f *Form) ResetField(name string) {
	if n := f.GetField(name); n != nil {
		f.resetNode(n)
	}
}

// ResetFieldNode is ResetField for a control handle. Nodes outside the
// form are ignored.
func (f *Form) ResetFieldNode(n *vdom.VNode) {
	if f.contains(n) {
		f.resetNode(n)
	}
}

func (f *Form) resetNode(n *vdom.VNode) {
	switch kindOf(n) {
	case rules.KindRadio, rules.KindCheckbox:
		n.RemoveAttr("checked")
	case rules.KindFile:
		delete(f.files, n)
		n.SetAttr("value", "")
	default:
		assign(n, "")
	}
	delete(f.staged, n)

	name, _ := n.AttrString("name")
	f.clearError(name)
}

// assign writes value into n the way setting .value in a browser does.
func assign(n *vdom.VNode, value string) {
	switch n.Tag {
	case "textarea":
		n.SetText(value)
	case "select":
		matched := false
		for _, opt := range options(n) {
			on := !matched && optionValue(opt) == value
			matched = matched || on
			setSelected(opt, on)
		}
	default:
		n.SetAttr("value", value)
	}
}

func setSelected(opt *vdom.VNode, on bool) {
	if on {
		opt.SetAttr("selected", true)
	} else {
		opt.RemoveAttr("selected")
	}
}

func setChecked(n *vdom.VNode, on bool) {
	if on {
		n.SetAttr("checked", true)
	} else {
		n.RemoveAttr("checked")
	}
}
