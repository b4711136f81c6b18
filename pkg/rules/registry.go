package rules

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNilValidator is returned when a custom validator is nil.
var ErrNilValidator = errors.New("rules: nil validator")

// Validator is a pure function of a field value and the declared rule
// parameter. It returns nil when the value passes.
type Validator func(value Value, param string) *ErrorDetail

// ErrorDetail describes a failed rule.
type ErrorDetail struct {
	Rule    string         `json:"rule"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// Error implements error.
func (e *ErrorDetail) Error() string {
	return e.Message
}

// Param returns a validator-specific payload field.
func (e *ErrorDetail) Param(key string) (any, bool) {
	if e == nil || e.Params == nil {
		return nil, false
	}
	v, ok := e.Params[key]
	return v, ok
}

// Clone returns a copy whose Params map can be modified freely.
func (e *ErrorDetail) Clone() *ErrorDetail {
	if e == nil {
		return nil
	}
	c := *e
	if e.Params != nil {
		c.Params = make(map[string]any, len(e.Params))
		for k, v := range e.Params {
			c.Params[k] = v
		}
	}
	return &c
}

// Registry maps rule names to validators: the built-ins first, then the
// custom validators supplied at construction. A Registry is immutable.
type Registry struct {
	custom   map[string]Validator
	shadowed []string
}

var defaultRegistry = &Registry{}

// DefaultRegistry returns a registry holding only the built-ins.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry builds a registry from custom validators. Custom entries named
// like a built-in are kept out of lookup and reported by Shadowed.
func NewRegistry(custom map[string]Validator) (*Registry, error) {
	r := &Registry{custom: make(map[string]Validator, len(custom))}
	for name, fn := range custom {
		if fn == nil {
			return nil, fmt.Errorf("%w: %q", ErrNilValidator, name)
		}
		if _, ok := ParseBuiltin(name); ok {
			r.shadowed = append(r.shadowed, name)
			continue
		}
		r.custom[name] = fn
	}
	sort.Strings(r.shadowed)
	return r, nil
}

// Lookup returns the validator for name. Built-ins take precedence.
func (r *Registry) Lookup(name string) (Validator, bool) {
	if b, ok := ParseBuiltin(name); ok {
		return b.Validator(), true
	}
	if r == nil {
		return nil, false
	}
	fn, ok := r.custom[name]
	return fn, ok
}

// Has reports whether name resolves to a validator.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// IsBuiltin reports whether name is a built-in rule.
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := ParseBuiltin(name)
	return ok
}

// Names returns the built-in names in lookup order followed by the custom
// names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(builtinNames))
	for _, b := range Builtins() {
		names = append(names, b.String())
	}
	if r == nil {
		return names
	}
	custom := make([]string, 0, len(r.custom))
	for name := range r.custom {
		custom = append(custom, name)
	}
	sort.Strings(custom)
	return append(names, custom...)
}

// Shadowed returns the custom names ignored because a built-in owns them.
func (r *Registry) Shadowed() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.shadowed...)
}
