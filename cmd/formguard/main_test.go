package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/formguard/internal/config"
)

const checkoutHTML = `<!DOCTYPE html>
<html><body>
<form id="checkout">
  <div class="form-group">
    <input name="email" data-required data-email>
    <div class="invalid-feedback" hidden></div>
  </div>
  <div class="form-group">
    <input name="zip" data-zip>
    <div class="invalid-feedback" hidden></div>
  </div>
  <div class="form-group">
    <input type="radio" name="plan" value="free" data-required>
    <input type="radio" name="plan" value="pro">
    <div class="invalid-feedback" hidden></div>
  </div>
</form>
</body></html>`

const checkoutConfig = `{
  "rules": {
    "email": {"type": "email"},
    "zip": {"type": "pattern", "pattern": "^[0-9]{5}$", "message": "Enter a 5 digit ZIP code"}
  }
}
`

// setup writes the fixture page and config into a temp dir.
func setup(t *testing.T) (dir, page string) {
	t.Helper()
	dir = t.TempDir()
	page = filepath.Join(dir, "checkout.html")
	if err := os.WriteFile(page, []byte(checkoutHTML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(checkoutConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, page
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append(args, "--no-color"), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "version", "--short")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "dev\n" {
		t.Errorf("version = %q, want %q", out, "dev\n")
	}
}

func TestCheck_Invalid(t *testing.T) {
	dir, page := setup(t)

	code, out, errOut := runCLI(t, "", "check", page, "-C", dir, "--set", "zip=abc")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1; stderr: %s", code, errOut)
	}
	for _, want := range []string{
		"✗ email: This field is required [required]",
		"✗ zip: Enter a 5 digit ZIP code [zip]",
		"✗ plan: This field is required [required]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "F080") {
		t.Errorf("stderr should report F080: %s", errOut)
	}
	if !strings.Contains(errOut, "3 of 3 fields") {
		t.Errorf("stderr should count failures: %s", errOut)
	}
}

func TestCheck_Valid(t *testing.T) {
	dir, page := setup(t)

	code, out, errOut := runCLI(t, "", "check", page, "-C", dir, "--form", "#checkout",
		"--set", "email=ada@example.com", "--set", "zip=12345", "--check", "plan=pro")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, errOut)
	}
	for _, name := range []string{"email", "zip", "plan"} {
		if !strings.Contains(out, "✓ "+name) {
			t.Errorf("output missing success for %s:\n%s", name, out)
		}
	}
}

func TestCheck_JSON(t *testing.T) {
	dir, page := setup(t)

	code, out, _ := runCLI(t, "", "check", page, "-C", dir, "--json", "--set", "email=ada@example.com")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	var res struct {
		Valid  bool   `json:"valid"`
		Form   string `json:"form"`
		Fields []struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
			Error *struct {
				Rule string `json:"rule"`
			} `json:"error"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if res.Valid {
		t.Error("valid = true, want false")
	}
	if res.Form != "form" {
		t.Errorf("form = %q, want default selector", res.Form)
	}
	if len(res.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(res.Fields))
	}
	if res.Fields[0].Error != nil {
		t.Errorf("email should be valid, got %+v", res.Fields[0].Error)
	}
	if res.Fields[0].Value != "ada@example.com" {
		t.Errorf("email value = %v", res.Fields[0].Value)
	}
	if res.Fields[2].Error == nil || res.Fields[2].Error.Rule != "required" {
		t.Errorf("plan error = %+v", res.Fields[2].Error)
	}
}

func TestCheck_Fields(t *testing.T) {
	dir, page := setup(t)

	code, out, _ := runCLI(t, "", "check", page, "-C", dir, "--fields", "zip,missing", "--set", "zip=12345")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; out: %s", code, out)
	}
	if !strings.Contains(out, `No field named "missing"`) {
		t.Errorf("expected a warning for the unknown field:\n%s", out)
	}
}

func TestCheck_OutAndReport(t *testing.T) {
	dir, page := setup(t)
	annotated := filepath.Join(dir, "annotated.html")
	report := filepath.Join(dir, "report.html")

	code, _, _ := runCLI(t, "", "check", page, "-C", dir, "--out", annotated, "--report", report)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	data, err := os.ReadFile(annotated)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("annotated document should keep the doctype:\n%s", html)
	}
	if !strings.Contains(html, `class="form-group has-error"`) {
		t.Errorf("annotated document missing has-error wrapper:\n%s", html)
	}
	if !strings.Contains(html, `<div class="invalid-feedback">This field is required</div>`) {
		t.Errorf("annotated document missing message:\n%s", html)
	}

	data, err = os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<tr><td>email</td><td>required</td>") {
		t.Errorf("report missing email row:\n%s", data)
	}
}

func TestCheck_Stdin(t *testing.T) {
	dir, _ := setup(t)

	code, out, _ := runCLI(t, checkoutHTML, "check", "-", "-C", dir, "--set", "email=x@y.io", "--set", "zip=12345", "--check", "plan=free")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0:\n%s", code, out)
	}
}

func TestCheck_Errors(t *testing.T) {
	dir, page := setup(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"bad assignment", []string{"check", page, "-C", dir, "--set", "email"}, "F041"},
		{"empty name", []string{"check", page, "-C", dir, "--check", "=pro"}, "F041"},
		{"missing file", []string{"check", filepath.Join(dir, "nope.html"), "-C", dir}, "F040"},
		{"form not found", []string{"check", page, "-C", dir, "--form", "#other"}, "F001"},
		{"bad log level", []string{"check", page, "-C", dir, "--log-level", "loud"}, "F022"},
		{"unwritable out", []string{"check", page, "-C", dir, "--out", filepath.Join(dir, "no", "such", "dir.html")}, "F081"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
			if !strings.Contains(errOut, tt.code) {
				t.Errorf("stderr missing %s: %s", tt.code, errOut)
			}
		})
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in        string
		name, val string
		wantErr   bool
	}{
		{"email=a@b.c", "email", "a@b.c", false},
		{"q=a=b", "q", "a=b", false},
		{"empty=", "empty", "", false},
		{" spaced =v", "spaced", "v", false},
		{"novalue", "", "", true},
		{"=v", "", "", true},
	}
	for _, tt := range tests {
		name, val, err := parseAssignment("--set", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAssignment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if name != tt.name || val != tt.val {
			t.Errorf("parseAssignment(%q) = %q, %q; want %q, %q", tt.in, name, val, tt.name, tt.val)
		}
	}
}

func TestParseMulti(t *testing.T) {
	got, err := parseMulti("--check", []string{"tags=a", "tags=b", "plan=pro"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got["tags"], ",") != "a,b" || strings.Join(got["plan"], ",") != "pro" {
		t.Errorf("parseMulti() = %v", got)
	}
}

func TestRules(t *testing.T) {
	dir, _ := setup(t)

	code, out, errOut := runCLI(t, "", "rules", "-C", dir)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr: %s", code, errOut)
	}
	for _, want := range []string{"NAME", "required", "maxLength", "zip", "^[0-9]{5}$"} {
		if !strings.Contains(out, want) {
			t.Errorf("rules output missing %q:\n%s", want, out)
		}
	}

	code, out, _ = runCLI(t, "", "rules", "-C", dir, "--json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var list []ruleInfo
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list) != 9 {
		t.Errorf("rules = %d, want 7 builtins + 2 configured", len(list))
	}
	if last := list[len(list)-1]; last.Name != "zip" || last.Source != "config" || last.Type != "pattern" {
		t.Errorf("last rule = %+v", last)
	}
}

func TestRules_RejectsReservedName(t *testing.T) {
	dir := t.TempDir()
	bad := `{"rules": {"required": {"type": "email"}}}`
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	code, _, errOut := runCLI(t, "", "rules", "-C", dir)
	if code != 2 || !strings.Contains(errOut, "F025") {
		t.Errorf("code = %d, stderr = %s", code, errOut)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "", "init", "-C", dir)
	if code != 0 {
		t.Fatalf("exit code = %d; stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	if cfg.Rules["zip"].Type != "pattern" {
		t.Errorf("zip rule = %+v", cfg.Rules["zip"])
	}
	if _, err := cfg.Validators(); err != nil {
		t.Errorf("starter rules do not compile: %v", err)
	}

	code, _, errOut = runCLI(t, "", "init", "-C", dir)
	if code != 2 || !strings.Contains(errOut, "already exists") {
		t.Errorf("second init: code = %d, stderr = %s", code, errOut)
	}

	code, _, _ = runCLI(t, "", "init", "-C", dir, "--force", "--format", "yaml")
	if code != 0 {
		t.Errorf("forced init: code = %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "formguard.yaml")); err != nil {
		t.Errorf("yaml config not written: %v", err)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Port = 9191
	cfg.Server.AllowedOrigins = []string{"https://app.example.com"}
	cfg.Rules = map[string]config.RuleConfig{"zip": {Type: "pattern", Pattern: "^[0-9]+$"}}

	scfg, err := serverConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if scfg.Address != "localhost:9191" {
		t.Errorf("Address = %q", scfg.Address)
	}
	if scfg.DefaultSelector != "form" {
		t.Errorf("DefaultSelector = %q", scfg.DefaultSelector)
	}
	if _, ok := scfg.Validators["zip"]; !ok {
		t.Error("zip validator missing")
	}
	if !scfg.Metrics || scfg.MetricsPath != "/metrics" {
		t.Errorf("metrics = %v %q", scfg.Metrics, scfg.MetricsPath)
	}
	if len(scfg.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", scfg.AllowedOrigins)
	}
}
