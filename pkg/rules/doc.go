// Package rules is the validation engine: it extracts a field's logical
// value, looks rule names up in a validator registry and decides which
// single error, if any, a field carries.
//
// Everything here is pure. Nothing touches the DOM; package form adapts the
// virtual DOM into Field descriptors and applies verdicts through a
// presenter.
//
// # Values
//
// A field's Value depends on its kind:
//
//	text-like   String(current value, else staged value, else "")
//	radio       String(value of the checked option, or "")
//	checkbox    Bool(false) when nothing is checked, List of the explicit
//	            values of the checked options, or Bool(true) when none of
//	            them carries a value
//	file        Files(handle), passed through untouched
//
// # Rules
//
// Rules are declared as ordered (name, parameter) pairs. Resolve walks them
// in order and stops at the first failure. The built-ins are
//
//	required      trimmed value empty
//	requiredTrue  value falsy
//	pattern       value does not match the regular expression (unanchored)
//	min, max      number out of bounds (see Coerce)
//	minLength     length below bound
//	maxLength     length above bound
//
// Custom validators are registered by name with NewRegistry and are only
// consulted for names that are not built-ins. A declared <rule>Message
// replaces the message of that rule's failure.
//
// Patterns use Go's RE2 syntax, which rejects backreferences and lookaround.
package rules
