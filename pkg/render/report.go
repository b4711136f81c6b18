package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/formguard/pkg/vdom"
)

// DefaultReportStyle highlights the markers the DOM presenter sets.
const DefaultReportStyle = `body{font-family:system-ui,sans-serif;margin:2rem;max-width:60rem}
.is-invalid{border:2px solid #dc3545}
.has-error label{color:#dc3545}
.invalid-feedback,[data-error-for]{color:#dc3545;font-size:.875rem}
table{border-collapse:collapse;margin-bottom:2rem}
th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}`

// Report is a standalone HTML page summarising one validation run: a
// table of surfaced errors followed by the annotated form.
type Report struct {
	// Title is the page title. Defaults to "Validation report".
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Source names the validated document, shown under the title.
	Source string

	// Form is the annotated form element.
	Form *vdom.VNode

	// Entries lists the surfaced errors.
	Entries []ReportEntry

	// Styles contains inline CSS. Defaults to DefaultReportStyle.
	Styles []string
}

// ReportEntry is one row of the error table.
type ReportEntry struct {
	Field   string
	Rule    string
	Message string
}

func (rep *Report) defaults() {
	if rep.Title == "" {
		rep.Title = "Validation report"
	}
	if rep.Lang == "" {
		rep.Lang = "en"
	}
	if rep.Styles == nil {
		rep.Styles = []string{DefaultReportStyle}
	}
}

// RenderReport renders a complete report document to the given writer.
func (r *Renderer) RenderReport(w io.Writer, rep Report) error {
	rep.defaults()

	if err := r.renderReportHead(w, rep); err != nil {
		return err
	}
	if err := r.renderReportBody(w, rep); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// RenderDocument renders a whole parsed document, adding the doctype when
// the tree holds an html element.
func (r *Renderer) RenderDocument(w io.Writer, doc *vdom.VNode) error {
	hasHTML := false
	vdom.Walk(doc, func(n *vdom.VNode, _ []*vdom.VNode) bool {
		hasHTML = n.IsElement() && n.Tag == "html"
		return !hasHTML
	})
	if hasHTML {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
			return err
		}
	}
	return r.RenderToWriter(w, doc)
}

func (r *Renderer) renderReportHead(w io.Writer, rep Report) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(rep.Lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(rep.Title)); err != nil {
		return err
	}
	for _, style := range rep.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

func (r *Renderer) renderReportBody(w io.Writer, rep Report) error {
	if _, err := fmt.Fprintf(w, "<body>\n<h1>%s</h1>\n", escapeHTML(rep.Title)); err != nil {
		return err
	}
	if rep.Source != "" {
		if _, err := fmt.Fprintf(w, "<p><code>%s</code></p>\n", escapeHTML(rep.Source)); err != nil {
			return err
		}
	}

	if len(rep.Entries) == 0 {
		if _, err := io.WriteString(w, "<p class=\"report-valid\">All fields are valid.</p>\n"); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(w, "<table class=\"report-errors\">\n<tr><th>Field</th><th>Rule</th><th>Message</th></tr>\n"); err != nil {
			return err
		}
		for _, e := range rep.Entries {
			if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				escapeHTML(e.Field), escapeHTML(e.Rule), escapeHTML(e.Message)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</table>\n"); err != nil {
			return err
		}
	}

	if err := r.RenderToWriter(w, rep.Form); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
