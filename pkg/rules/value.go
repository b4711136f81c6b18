package rules

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValueKind discriminates the shapes a field value can take.
type ValueKind uint8

const (
	ValueAbsent ValueKind = iota // no control name, cannot validate
	ValueString                  // text-like inputs, radio groups
	ValueBool                    // checkbox groups without explicit values
	ValueList                    // checkbox groups with explicit values
	ValueNumber                  // numeric values set programmatically
	ValueFiles                   // file inputs
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "absent"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueNumber:
		return "number"
	case ValueFiles:
		return "files"
	default:
		return "unknown"
	}
}

// FileList is the opaque selected-files handle of a file input.
// Its contents are never inspected beyond the count.
type FileList interface {
	Len() int
}

// FileNames is a FileList holding the names of the selected files.
type FileNames []string

// Len returns the number of selected files.
func (f FileNames) Len() int { return len(f) }

// Value is the resolved logical value of a field.
// The zero Value is absent.
type Value struct {
	kind  ValueKind
	str   string
	b     bool
	list  []string
	num   float64
	files FileList
}

// String creates a string value.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }

// List creates a list value. The slice is copied.
func List(items ...string) Value {
	return Value{kind: ValueList, list: append([]string{}, items...)}
}

// Number creates a numeric value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// Files wraps a selected-files handle. A nil handle is allowed.
func Files(f FileList) Value { return Value{kind: ValueFiles, files: f} }

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Kind returns the value's shape.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == ValueString }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == ValueBool }

// AsList returns a copy of the list payload.
func (v Value) AsList() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == ValueNumber }

// AsFiles returns the file handle.
func (v Value) AsFiles() (FileList, bool) { return v.files, v.kind == ValueFiles }

// String converts the value to text the way a browser would when the value
// is used as a string: lists join with commas, booleans print as
// true/false. Absent values and file handles print as "".
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueList:
		return strings.Join(v.list, ",")
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return ""
	}
}

// Len returns the length used by minLength and maxLength. ok is false for
// shapes that carry no length (booleans, numbers, absent).
func (v Value) Len() (n int, ok bool) {
	switch v.kind {
	case ValueString:
		return utf8.RuneCountInString(v.str), true
	case ValueList:
		return len(v.list), true
	case ValueFiles:
		if v.files == nil {
			return 0, true
		}
		return v.files.Len(), true
	default:
		return 0, false
	}
}

// IsBlank reports whether the value counts as missing for required.
func (v Value) IsBlank() bool {
	switch v.kind {
	case ValueString:
		return strings.TrimSpace(v.str) == ""
	case ValueBool:
		return !v.b
	case ValueList:
		return len(v.list) == 0
	case ValueNumber:
		return false
	case ValueFiles:
		return v.files == nil || v.files.Len() == 0
	default:
		return true
	}
}

// Truthy reports whether the value counts as set for requiredTrue.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueString:
		return v.str != ""
	case ValueBool:
		return v.b
	case ValueList:
		return len(v.list) > 0
	case ValueNumber:
		return v.num != 0 && v.num == v.num
	case ValueFiles:
		return v.files != nil
	default:
		return false
	}
}

// Interface returns the payload as a plain Go value: string, bool,
// []string, float64, the FileList, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueBool:
		return v.b
	case ValueList:
		return append([]string{}, v.list...)
	case ValueNumber:
		return v.num
	case ValueFiles:
		return v.files
	default:
		return nil
	}
}

// Equal reports whether two values have the same shape and payload.
// File handles compare by count.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueBool:
		return v.b == o.b
	case ValueList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case ValueNumber:
		return v.num == o.num
	case ValueFiles:
		vn, _ := v.Len()
		on, _ := o.Len()
		return vn == on
	default:
		return true
	}
}

// MarshalJSON encodes the payload. File handles encode as their count.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == ValueFiles {
		n, _ := v.Len()
		return json.Marshal(map[string]int{"files": n})
	}
	return json.Marshal(v.Interface())
}
