package form

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/formguard/pkg/vdom"
)

// recordingPresenter keeps presentation state in memory.
type recordingPresenter struct {
	shown  map[string]string
	marked map[string]bool
	calls  []string
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{shown: map[string]string{}, marked: map[string]bool{}}
}

func (p *recordingPresenter) ShowError(name, msg string) {
	p.calls = append(p.calls, "show:"+name)
	p.shown[name] = msg
}

func (p *recordingPresenter) HideError(name string) {
	p.calls = append(p.calls, "hide:"+name)
	delete(p.shown, name)
}

func (p *recordingPresenter) MarkInvalid(name string)          { p.marked[name] = true }
func (p *recordingPresenter) ClearInvalid(name string)         { delete(p.marked, name) }
func (p *recordingPresenter) IsMarkedInvalid(name string) bool { return p.marked[name] }

// panickyPresenter panics on every call.
type panickyPresenter struct{}

func (panickyPresenter) ShowError(string, string)    { panic("show") }
func (panickyPresenter) HideError(string)            { panic("hide") }
func (panickyPresenter) MarkInvalid(string)          { panic("mark") }
func (panickyPresenter) ClearInvalid(string)         { panic("clear") }
func (panickyPresenter) IsMarkedInvalid(string) bool { panic("query") }

func TestCustomPresenter(t *testing.T) {
	p := newRecordingPresenter()
	f := newSignup(t, &Config{Presenter: p})

	f.Validate()
	if p.shown["age"] != "Adults only" {
		t.Errorf("shown[age] = %q", p.shown["age"])
	}
	if !p.marked["email"] {
		t.Error("email should be marked")
	}
	if f.IsValid() {
		t.Error("IsValid() should read the presenter's markers")
	}

	// Skipped fields are cleared, never shown.
	for _, c := range p.calls {
		if c == "show:nickname" || c == "show:code" || c == "show:secret" {
			t.Errorf("skipped field was shown: %s", c)
		}
	}
	hidden := false
	for _, c := range p.calls {
		if c == "hide:nickname" {
			hidden = true
		}
	}
	if !hidden {
		t.Error("skipped field should have its error hidden")
	}
}

func TestPresenterPanicRecovered(t *testing.T) {
	var buf bytes.Buffer
	f := newSignup(t, &Config{
		Presenter: panickyPresenter{},
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
	})

	// Must not panic.
	if !f.Validate() {
		t.Error("IsValid() should be true when the presenter cannot answer")
	}
	f.Reset()

	if !strings.Contains(buf.String(), "presenter panic") {
		t.Errorf("expected logged panic, got %q", buf.String())
	}
	if len(f.Errors()) != 0 {
		t.Errorf("Errors() = %v after Reset", f.Errors())
	}
}

func TestDOMPresenter(t *testing.T) {
	doc, err := vdom.ParseString(`<form>
  <div class="form-group">
    <input name="a">
    <span class="invalid-feedback" hidden></span>
  </div>
  <div class="form-group"><input name="b"></div>
  <input name="c">
  <em data-error-for="c" hidden></em>
</form>`)
	if err != nil {
		t.Fatal(err)
	}
	root, _ := vdom.QuerySelector(doc, "form")
	p := NewDOMPresenter(root)

	tests := []struct {
		name      string
		container string
	}{
		{"a", ".invalid-feedback"},
		{"b", ""},
		{"c", "[data-error-for=c]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.ShowError(tt.name, "bad "+tt.name)
			p.MarkInvalid(tt.name)

			if !p.IsMarkedInvalid(tt.name) {
				t.Error("IsMarkedInvalid() = false after MarkInvalid")
			}
			if tt.container != "" {
				c, _ := vdom.QuerySelector(root, tt.container)
				if c.TextContent() != "bad "+tt.name || c.HasAttr("hidden") {
					t.Errorf("container = %q hidden=%v", c.TextContent(), c.HasAttr("hidden"))
				}
			}

			p.HideError(tt.name)
			p.ClearInvalid(tt.name)
			if p.IsMarkedInvalid(tt.name) {
				t.Error("IsMarkedInvalid() = true after ClearInvalid")
			}
			if tt.container != "" {
				c, _ := vdom.QuerySelector(root, tt.container)
				if c.TextContent() != "" || !c.HasAttr("hidden") {
					t.Errorf("container = %q hidden=%v", c.TextContent(), c.HasAttr("hidden"))
				}
			}
		})
	}

	// Wrapper marker.
	p.MarkInvalid("a")
	wrapper, _ := vdom.QuerySelector(root, ".form-group")
	if !wrapper.HasClass(HasErrorClass) {
		t.Error("wrapper should carry has-error")
	}
	p.ClearInvalid("a")
	if wrapper.HasClass(HasErrorClass) {
		t.Error("has-error should be removed")
	}

	// Missing markup is a no-op.
	p.ShowError("ghost", "x")
	p.MarkInvalid("ghost")
	p.MarkInvalid("")
	if p.IsMarkedInvalid("ghost") {
		t.Error("ghost field cannot be marked")
	}
}
