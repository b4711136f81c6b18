// Package formguard validates HTML forms against rules declared in data-*
// attributes.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/formguard"
//
// Usage:
//
//	f, err := formguard.Bind(page, "#signup", nil)
//	f.SetValue("email", "ada@example.com")
//	if !f.Validate() {
//	    html, _ := formguard.Render(f)
//	    ...
//	}
package formguard

import (
	"regexp"

	"github.com/vango-dev/formguard/pkg/form"
	"github.com/vango-dev/formguard/pkg/render"
	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// =============================================================================
// Form controller (re-export from pkg/form)
// =============================================================================

// Form binds validation to one form element of a document.
type Form = form.Form

// Config configures a Form.
type Config = form.Config

// Presenter renders validation state for a field.
type Presenter = form.Presenter

// New binds a Form to the element of doc matched by selector.
var New = form.New

// ShouldValidate makes SetValue and Update validate the assigned fields.
var ShouldValidate = form.ShouldValidate

// Errors returned by New.
var (
	ErrRootNotFound    = form.ErrRootNotFound
	ErrInvalidSelector = form.ErrInvalidSelector
)

// Bind parses html and binds a Form to the element matched by selector.
// A nil cfg uses the defaults.
func Bind(html, selector string, cfg *Config) (*Form, error) {
	doc, err := vdom.ParseString(html)
	if err != nil {
		return nil, err
	}
	return form.New(doc, selector, cfg)
}

// Render returns the form element with its current validation markup.
func Render(f *Form) (string, error) {
	return render.NewRenderer(render.RendererConfig{}).RenderToString(f.Root())
}

// =============================================================================
// Rules (re-export from pkg/rules)
// =============================================================================

// Validator checks a value against a declared parameter.
type Validator = rules.Validator

// ErrorDetail describes one failed rule.
type ErrorDetail = rules.ErrorDetail

// Value is an extracted field value.
type Value = rules.Value

// Registry resolves rule names to validators.
type Registry = rules.Registry

// NewRegistry builds a registry from custom validators. Built-ins shadow
// custom validators of the same name.
var NewRegistry = rules.NewRegistry

// Catalog validators for use in Config.Validate.
var (
	Email        = rules.Email
	URL          = rules.URL
	UUID         = rules.UUID
	Alpha        = rules.Alpha
	AlphaNumeric = rules.AlphaNumeric
	Numeric      = rules.Numeric
	Phone        = rules.Phone
	OneOf        = rules.OneOf
)

// Matches validates that the value matches pattern, which must compile.
func Matches(pattern, msg string) Validator {
	return rules.Matches(regexp.MustCompile(pattern), msg)
}
