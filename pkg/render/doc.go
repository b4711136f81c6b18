// Package render writes vdom trees back out as HTML.
//
// Attributes are emitted in declaration order, so a document parsed with
// vdom.Parse, annotated by a form.Form and rendered again keeps its data-*
// rules where the author wrote them. Text and attribute values are escaped;
// void elements get no closing tag; true renders a bare attribute and false
// omits it.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(f.Root())
//
// RenderDocument renders a whole parsed document and prepends a doctype
// when the tree contains an html element.
//
// # Reports
//
// A Report is a standalone page listing the surfaced errors above the
// annotated form:
//
//	err := renderer.RenderReport(w, render.Report{
//	    Source:  "signup.html",
//	    Form:    f.Root(),
//	    Entries: entries,
//	})
//
// StreamingRenderer does the same over an http.ResponseWriter and flushes
// after the head and after the body.
//
// # Pretty Printing
//
// RendererConfig.Pretty indents block elements. Content inside pre,
// textarea, script and style is written verbatim.
package render
