package formguard

import (
	"errors"
	"strings"
	"testing"
)

const page = `<form id="signup">
  <div class="form-group">
    <input name="username" data-required data-handle>
    <div class="invalid-feedback" hidden></div>
  </div>
  <div class="form-group">
    <input name="role" data-role>
    <div class="invalid-feedback" hidden></div>
  </div>
</form>`

func TestBind(t *testing.T) {
	f, err := Bind(page, "#signup", &Config{
		Validate: map[string]Validator{
			"handle": Matches(`^[a-z]+$`, "Lowercase letters only"),
			"role":   OneOf([]string{"admin", "user"}, ""),
		},
	})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	f.SetValue("username", "Ada!")
	f.SetValue("role", "guest")
	if f.Validate() {
		t.Fatal("Validate() = true, want false")
	}

	errs := f.Errors()
	if got := errs["username"].Message; got != "Lowercase letters only" {
		t.Errorf("username message = %q", got)
	}
	if got := errs["role"].Rule; got != "role" {
		t.Errorf("role rule = %q", got)
	}

	html, err := Render(f)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(html, `<div class="invalid-feedback">Lowercase letters only</div>`) {
		t.Errorf("rendered form missing message:\n%s", html)
	}

	f.SetValue("username", "ada", ShouldValidate())
	f.SetValue("role", "user", ShouldValidate())
	if !f.IsValid() {
		t.Errorf("form should be valid after fixing values, errors: %v", f.Errors())
	}
}

func TestBind_Errors(t *testing.T) {
	if _, err := Bind(page, "#missing", nil); !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Bind() error = %v, want ErrRootNotFound", err)
	}
	if _, err := Bind(page, "form[name", nil); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("Bind() error = %v, want ErrInvalidSelector", err)
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(map[string]Validator{"email": Email("")})
	if err != nil {
		t.Fatal(err)
	}
	if !reg.Has("email") || !reg.Has("required") {
		t.Errorf("registry names = %v", reg.Names())
	}
}
