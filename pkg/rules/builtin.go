package rules

import (
	"fmt"
	"regexp"
)

// Builtin identifies one of the built-in validators.
// Built-ins always shadow custom validators of the same name.
type Builtin uint8

const (
	Required Builtin = iota + 1
	RequiredTrue
	Pattern
	Min
	Max
	MinLength
	MaxLength
)

var builtinNames = [...]string{
	Required:     "required",
	RequiredTrue: "requiredTrue",
	Pattern:      "pattern",
	Min:          "min",
	Max:          "max",
	MinLength:    "minLength",
	MaxLength:    "maxLength",
}

// Default messages.
const (
	MsgRequired     = "This field is required"
	MsgRequiredTrue = "This field must be checked"
	MsgPattern      = "Invalid format"
	msgMin          = "Must be at least %v"
	msgMax          = "Must be at most %v"
	msgMinLength    = "Must be at least %d characters"
	msgMaxLength    = "Must be at most %d characters"
)

// Builtins returns every built-in in lookup order.
func Builtins() []Builtin {
	return []Builtin{Required, RequiredTrue, Pattern, Min, Max, MinLength, MaxLength}
}

// ParseBuiltin returns the built-in registered under name.
func ParseBuiltin(name string) (Builtin, bool) {
	for _, b := range Builtins() {
		if builtinNames[b] == name {
			return b, true
		}
	}
	return 0, false
}

// String returns the rule name.
func (b Builtin) String() string {
	if b == 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("Builtin(%d)", uint8(b))
	}
	return builtinNames[b]
}

// Validator returns b as a Validator.
func (b Builtin) Validator() Validator {
	return b.Validate
}

// Validate runs the built-in against value with the declared parameter.
func (b Builtin) Validate(value Value, param string) *ErrorDetail {
	switch b {
	case Required:
		if value.IsBlank() {
			return &ErrorDetail{Rule: b.String(), Message: MsgRequired}
		}

	case RequiredTrue:
		if !value.Truthy() {
			return &ErrorDetail{Rule: b.String(), Message: MsgRequiredTrue}
		}

	case Pattern:
		// An uncompilable pattern matches nothing.
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value.String()) {
			return &ErrorDetail{
				Rule:    b.String(),
				Message: MsgPattern,
				Params:  map[string]any{"pattern": param, "value": value.Interface()},
			}
		}

	case Min:
		bound := ParseBound(param)
		if CoerceValue(value) < bound {
			return &ErrorDetail{
				Rule:    b.String(),
				Message: fmt.Sprintf(msgMin, bound),
				Params:  map[string]any{"min": bound, "value": value.Interface()},
			}
		}

	case Max:
		bound := ParseBound(param)
		if CoerceValue(value) > bound {
			return &ErrorDetail{
				Rule:    b.String(),
				Message: fmt.Sprintf(msgMax, bound),
				Params:  map[string]any{"max": bound, "value": value.Interface()},
			}
		}

	case MinLength:
		bound := int(Coerce(param))
		if n, ok := value.Len(); ok && n < bound {
			return &ErrorDetail{
				Rule:    b.String(),
				Message: fmt.Sprintf(msgMinLength, bound),
				Params:  map[string]any{"minLength": bound, "value": value.Interface()},
			}
		}

	case MaxLength:
		bound := int(Coerce(param))
		if n, ok := value.Len(); ok && n > bound {
			return &ErrorDetail{
				Rule:    b.String(),
				Message: fmt.Sprintf(msgMaxLength, bound),
				Params:  map[string]any{"maxLength": bound, "value": value.Interface()},
			}
		}
	}
	return nil
}
