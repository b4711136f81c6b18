package form

import "github.com/vango-dev/formguard/pkg/vdom"

// Presenter renders validation state for a field, addressed by control
// name. Implementations must treat missing markup as a no-op.
type Presenter interface {
	ShowError(name, message string)
	HideError(name string)
	MarkInvalid(name string)
	ClearInvalid(name string)
	IsMarkedInvalid(name string) bool
}

// Markup conventions used by DOMPresenter.
const (
	WrapperClass  = "form-group"
	FeedbackClass = "invalid-feedback"
	InvalidClass  = "is-invalid"
	HasErrorClass = "has-error"
	ErrorForAttr  = "data-error-for"
)

// DOMPresenter presents errors by editing the vdom tree under Root.
//
// A field's wrapper is the nearest ancestor with class form-group. Its error
// container is the element carrying data-error-for=<name> anywhere under
// Root, else the .invalid-feedback element inside the wrapper.
type DOMPresenter struct {
	Root *vdom.VNode
}

// NewDOMPresenter returns a presenter for the form rooted at root.
func NewDOMPresenter(root *vdom.VNode) *DOMPresenter {
	return &DOMPresenter{Root: root}
}

// ShowError writes message into the container and unhides it.
func (p *DOMPresenter) ShowError(name, message string) {
	if c := p.container(name); c != nil {
		c.SetText(message)
		c.RemoveAttr("hidden")
	}
}

// HideError empties the container and hides it.
func (p *DOMPresenter) HideError(name string) {
	if c := p.container(name); c != nil {
		c.SetText("")
		c.SetAttr("hidden", true)
	}
}

// MarkInvalid adds is-invalid to every control named name and has-error
// to the wrapper.
func (p *DOMPresenter) MarkInvalid(name string) {
	for _, el := range p.controls(name) {
		el.AddClass(InvalidClass)
	}
	if w := p.wrapper(name); w != nil {
		w.AddClass(HasErrorClass)
	}
}

// ClearInvalid removes the classes MarkInvalid adds.
func (p *DOMPresenter) ClearInvalid(name string) {
	for _, el := range p.controls(name) {
		el.RemoveClass(InvalidClass)
	}
	if w := p.wrapper(name); w != nil {
		w.RemoveClass(HasErrorClass)
	}
}

// IsMarkedInvalid reports whether any control named name has is-invalid.
func (p *DOMPresenter) IsMarkedInvalid(name string) bool {
	for _, el := range p.controls(name) {
		if el.HasClass(InvalidClass) {
			return true
		}
	}
	return false
}

func (p *DOMPresenter) controls(name string) []*vdom.VNode {
	if name == "" {
		return nil
	}
	var out []*vdom.VNode
	vdom.Walk(p.Root, func(n *vdom.VNode, _ []*vdom.VNode) bool {
		if got, ok := n.AttrString("name"); ok && got == name && n.IsElement() {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (p *DOMPresenter) wrapper(name string) *vdom.VNode {
	controls := p.controls(name)
	if len(controls) == 0 {
		return nil
	}
	return vdom.Closest(p.Root, controls[0], func(n *vdom.VNode) bool {
		return n.HasClass(WrapperClass)
	})
}

func (p *DOMPresenter) container(name string) *vdom.VNode {
	if name == "" {
		return nil
	}
	var found *vdom.VNode
	vdom.Walk(p.Root, func(n *vdom.VNode, _ []*vdom.VNode) bool {
		if got, ok := n.AttrString(ErrorForAttr); ok && got == name {
			found = n
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	w := p.wrapper(name)
	if w == nil {
		return nil
	}
	var feedback *vdom.VNode
	vdom.Walk(w, func(n *vdom.VNode, _ []*vdom.VNode) bool {
		if n != w && n.HasClass(FeedbackClass) {
			feedback = n
			return false
		}
		return true
	})
	return feedback
}
