package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "form error",
			code:    "F001",
			wantMsg: "Form not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "config error",
			code:    "F023",
			wantMsg: "Unknown rule type",
			wantCat: CategoryConfig,
		},
		{
			name:    "protocol error",
			code:    "F060",
			wantMsg: "Invalid request body",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "F999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryInput, "file %q not found", "page.html")
	if err.Message != `file "page.html" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "page.html" not found`)
	}
	if err.Category != CategoryInput {
		t.Errorf("Category = %q, want %q", err.Category, CategoryInput)
	}
}

func TestError_Error(t *testing.T) {
	err := New("F001")
	got := err.Error()
	want := "F001: Form not found"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	// Wrapped cause is appended
	err3 := New("F040").Wrap(fmt.Errorf("unexpected EOF"))
	if err3.Error() != "F040: HTML parse failed: unexpected EOF" {
		t.Errorf("Error() = %q", err3.Error())
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "formguard.json")
	content := `{
  "server": {
    "port": "abc"
  },
  "log": {}
}
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("F021").WithLocation(tmpFile, 3, 13)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 3 {
		t.Errorf("Location.Line = %d, want %d", err.Location.Line, 3)
	}
	if err.Location.Column != 13 {
		t.Errorf("Location.Column = %d, want %d", err.Location.Column, 13)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestError_Builders(t *testing.T) {
	err := New("F022").
		WithSuggestion("Use a port between 1 and 65535").
		WithExample(`{"server": {"port": 8080}}`).
		WithDetailf("server.port %d is out of range", 70000)

	if err.Suggestion != "Use a port between 1 and 65535" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != `{"server": {"port": 8080}}` {
		t.Errorf("Example = %q", err.Example)
	}
	if err.Detail != "server.port 70000 is out of range" {
		t.Errorf("Detail = %q", err.Detail)
	}

	err.WithDetail("Custom detail")
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q, want %q", err.Detail, "Custom detail")
	}
}

func TestError_Wrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	outer := New("F001").Wrap(sentinel)

	if outer.Unwrap() != sentinel {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, sentinel) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
}

func TestFromError(t *testing.T) {
	// nil error
	if FromError(nil, "F001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	// Already an *Error, directly or wrapped
	fe := New("F001")
	if FromError(fe, "F002") != fe {
		t.Error("FromError should return *Error as-is")
	}
	if FromError(fmt.Errorf("ctx: %w", fe), "F002") != fe {
		t.Error("FromError should find *Error in the chain")
	}

	// Standard error
	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "F040")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "F040" {
		t.Errorf("Code = %q, want F040", result.Code)
	}
}

func TestCode(t *testing.T) {
	if got := Code(fmt.Errorf("x: %w", New("F024"))); got != "F024" {
		t.Errorf("Code() = %q, want F024", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{
			name: "nil location",
			loc:  nil,
			want: "",
		},
		{
			name: "with column",
			loc:  &Location{File: "form.html", Line: 10, Column: 5},
			want: "form.html:10:5",
		},
		{
			name: "without column",
			loc:  &Location{File: "form.html", Line: 10, Column: 0},
			want: "form.html:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.loc.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "formguard.yaml")
	content := `rules:
  zip:
    type: pattern
    pattern: "([0-9]"
log:
  level: info
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("F024").
		WithLocation(tmpFile, 4, 14).
		WithSuggestion("Close the group: ([0-9])").
		WithExample("pattern: \"^[0-9]{5}$\"").
		Wrap(fmt.Errorf("missing closing )"))

	formatted := err.Format()

	for _, want := range []string{"F024", "Invalid rule pattern", tmpFile, "→", "^", "Hint:", "Example:", "Cause: missing closing )"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("F021").WithLocation("formguard.json", 10, 5)
	compact := err.FormatCompact()

	want := "formguard.json:10:5: F021: Invalid config file"
	if compact != want {
		t.Errorf("FormatCompact() = %q, want %q", compact, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("F021").WithLocation("formguard.json", 10, 5).Wrap(stderrors.New("bad \"quote\""))
	out := err.FormatJSON()

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(out), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v\n%s", jerr, out)
	}
	if decoded["code"] != "F021" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != "config" {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["message"] != "Invalid config file" {
		t.Errorf("message = %v", decoded["message"])
	}
	if decoded["cause"] != `bad "quote"` {
		t.Errorf("cause = %v", decoded["cause"])
	}
	loc, ok := decoded["location"].(map[string]any)
	if !ok || loc["line"] != float64(10) {
		t.Errorf("location = %v", decoded["location"])
	}
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	FprintError(&buf, fmt.Errorf("load: %w", New("F020")))
	if !strings.Contains(buf.String(), "ERROR F020: Config file not found") {
		t.Errorf("FprintError() = %q", buf.String())
	}

	buf.Reset()
	FprintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("FprintError() = %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	if codes[0] != "F001" {
		t.Errorf("codes[0] = %q, want F001 (sorted)", codes[0])
	}
	for _, code := range codes {
		if tmpl, _ := GetTemplate(code); tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s is incomplete: %+v", code, tmpl)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("F001")
	if !ok {
		t.Error("F001 should exist")
	}
	if template.Message != "Form not found" {
		t.Error("Template message mismatch")
	}

	_, ok = GetTemplate("F999")
	if ok {
		t.Error("F999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("F999", ErrorTemplate{
		Category: CategoryRuntime,
		Message:  "Custom test error",
		Detail:   "This is a test error",
	})

	err := New("F999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}

	// Cleanup
	delete(registry, "F999")
}

func TestWrapText(t *testing.T) {
	// Test short text that doesn't need wrapping
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	// Test text that needs wrapping
	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	// Test empty string returns empty/nil
	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	// With colors enabled
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	// With colors disabled
	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
