package render

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/formguard/pkg/vdom"
)

func sampleReport() Report {
	return Report{
		Source: "signup.html",
		Form: vdom.Form(
			vdom.Div(vdom.Class("form-group", "has-error"),
				vdom.Input(vdom.Name("email"), vdom.Class("is-invalid")),
				vdom.Div(vdom.Class("invalid-feedback"), vdom.Text("This field is required")),
			),
		),
		Entries: []ReportEntry{
			{Field: "email", Rule: "required", Message: "This field is required"},
			{Field: "age", Rule: "min", Message: "Value must be <= 120 & >= 18"},
		},
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderReport(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	html := buf.String()

	checks := []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Validation report</title>",
		"<style>",
		"<code>signup.html</code>",
		`<table class="report-errors">`,
		"<tr><td>email</td><td>required</td><td>This field is required</td></tr>",
		"Value must be &lt;= 120 &amp; &gt;= 18",
		`<input name="email" class="is-invalid">`,
		"</body>\n</html>\n",
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q:\n%s", want, html)
		}
	}
}

func TestRenderReport_AllValid(t *testing.T) {
	rep := Report{
		Title:  "Signup <check>",
		Lang:   "de",
		Form:   vdom.Form(vdom.Input(vdom.Name("email"))),
		Styles: []string{},
	}

	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderReport(&buf, rep); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, `<p class="report-valid">All fields are valid.</p>`) {
		t.Errorf("expected valid banner, got:\n%s", html)
	}
	if strings.Contains(html, "<table") {
		t.Error("valid report should not render an error table")
	}
	if strings.Contains(html, "<style>") {
		t.Error("explicit empty Styles should suppress the default style")
	}
	if !strings.Contains(html, `<html lang="de">`) {
		t.Error("lang attribute not applied")
	}
	if !strings.Contains(html, "<title>Signup &lt;check&gt;</title>") {
		t.Error("title should be escaped")
	}
}

func TestStreamingRenderer_Flushes(t *testing.T) {
	rec := httptest.NewRecorder()
	fw := &flushRecorder{ResponseRecorder: rec}

	sr := NewStreamingRenderer(fw, RendererConfig{})
	if err := sr.RenderReport(sampleReport()); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	if fw.flushes < 3 {
		t.Errorf("flushes = %d, want >= 3", fw.flushes)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Validation report</h1>") {
		t.Errorf("streamed body missing heading:\n%s", rec.Body.String())
	}
}

func TestStreamingRenderer_MatchesBuffered(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := NewStreamingRenderer(rec, RendererConfig{}).RenderReport(sampleReport()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	if rec.Body.String() != buf.String() {
		t.Errorf("streamed and buffered output differ:\nstreamed: %q\nbuffered: %q", rec.Body.String(), buf.String())
	}
}

func TestFlushableWriter(t *testing.T) {
	var buf bytes.Buffer
	fw := &FlushableWriter{Writer: &buf}

	fw.Write([]byte("hello"))
	fw.Flush()
	fw.Flush()

	if fw.FlushCount != 2 {
		t.Errorf("FlushCount = %d, want 2", fw.FlushCount)
	}
	if buf.String() != "hello" {
		t.Errorf("buf = %q, want %q", buf.String(), "hello")
	}
}

// flushRecorder counts flushes on top of an httptest recorder.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }
