package rules

import "strings"

// FieldKind selects how a field's value is extracted.
type FieldKind uint8

const (
	KindText     FieldKind = iota // text-like inputs, textarea, select
	KindRadio                     // radio-exclusive group
	KindCheckbox                  // checkbox set
	KindFile                      // file input
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRadio:
		return "radio"
	case KindCheckbox:
		return "checkbox"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// KindOf maps an input type attribute to a field kind.
func KindOf(inputType string) FieldKind {
	switch strings.ToLower(strings.TrimSpace(inputType)) {
	case "radio":
		return KindRadio
	case "checkbox":
		return KindCheckbox
	case "file":
		return KindFile
	default:
		return KindText
	}
}

// Attr is one declared attribute of a field: a rule name with its
// parameter, a <rule>Message override or the disabled flag.
type Attr struct {
	Name  string
	Value string
}

// Field describes one logical input as it is at the moment of the scan.
type Field struct {
	Name         string    // control name; empty means the field cannot be validated
	Kind         FieldKind // extraction strategy
	Value        string    // live value
	HasValue     bool      // live value is present (explicit value attribute for options)
	Staged       string    // value staged by the last programmatic assignment
	Checked      bool      // radio/checkbox checked state
	Files        FileList  // file inputs only
	Declared     []Attr    // declared attributes in declaration order
	Disabled     bool      // native disabled state
	DisabledFlag bool      // declarative disabled flag
	Visible      bool      // rendered by the host
}

// Rule returns the parameter declared for name.
func (f Field) Rule(name string) (string, bool) {
	return lookupDeclared(f.Declared, name)
}

// Skipped reports whether validation must not run for the field.
// Skipped fields have their error cleared and are not evaluated.
func (f Field) Skipped() bool {
	return f.Disabled || f.DisabledFlag || !f.Visible
}

func lookupDeclared(declared []Attr, name string) (string, bool) {
	for _, a := range declared {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
