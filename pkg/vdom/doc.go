// Package vdom provides the in-memory DOM that formguard validates.
//
// A form is a tree of VNodes, built either with the element constructors or
// parsed from HTML with Parse. The form controller reads control names and
// declarative data-* rules from it and writes error state back into it, and
// pkg/render turns the annotated tree back into HTML.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments and raw HTML. Props holds attribute values; AttrOrder keeps the
// declaration order, which matters because the first failing rule wins.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Form(ID("signup"),
//	    Div(Class("form-group"),
//	        Input(Name("email"), Data("required", ""), Data("pattern", `@`)),
//	        Div(Class("invalid-feedback")),
//	    ),
//	)
//
// # Queries
//
// ParseSelector, QuerySelector and QueryAll implement the subset of CSS
// selectors a form binding needs (type, #id, .class, [attr], [attr=value],
// descendant and child combinators, selector lists). Walk, PathTo and
// Closest expose the traversal directly.
//
// # Visibility
//
// IsVisible approximates layout visibility from inline styles and the
// hidden attribute, walking the ancestor chain.
package vdom
