package rules

import "strings"

const (
	messageSuffix = "Message"
	disabledFlag  = "disabled"
)

// MessageKey returns the name of the message override for rule.
func MessageKey(rule string) string {
	return rule + messageSuffix
}

// IsBookkeeping reports whether a declared name configures other rules
// rather than naming one: <rule>Message overrides and the disabled flag.
func IsBookkeeping(name string) bool {
	if name == disabledFlag {
		return true
	}
	return len(name) > len(messageSuffix) && strings.HasSuffix(name, messageSuffix)
}

// Resolve evaluates declared rules against value in declaration order and
// returns the first failure, or nil. Names that are bookkeeping or unknown
// to reg are skipped. A non-empty <rule>Message declaration replaces the
// message of the failure; other payload fields are kept.
//
// A nil reg resolves built-ins only.
func Resolve(declared []Attr, value Value, reg *Registry) *ErrorDetail {
	for _, a := range declared {
		if d := evaluate(a, declared, value, reg); d != nil {
			return d
		}
	}
	return nil
}

// ResolveAll is like Resolve but evaluates every declared rule and returns
// all failures in declaration order.
func ResolveAll(declared []Attr, value Value, reg *Registry) []*ErrorDetail {
	var out []*ErrorDetail
	for _, a := range declared {
		if d := evaluate(a, declared, value, reg); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// ResolveField validates f against reg. Fields without a control name and
// skipped fields never fail.
func ResolveField(f Field, group []Field, reg *Registry) *ErrorDetail {
	if f.Skipped() {
		return nil
	}
	v, ok := ExtractValue(f, group)
	if !ok {
		return nil
	}
	return Resolve(f.Declared, v, reg)
}

func evaluate(a Attr, declared []Attr, value Value, reg *Registry) *ErrorDetail {
	if IsBookkeeping(a.Name) {
		return nil
	}
	if reg == nil {
		reg = defaultRegistry
	}
	fn, ok := reg.Lookup(a.Name)
	if !ok {
		return nil
	}
	d := fn(value, a.Value)
	if d == nil {
		return nil
	}
	d = d.Clone()
	if d.Rule == "" {
		d.Rule = a.Name
	}
	if msg, ok := lookupDeclared(declared, MessageKey(a.Name)); ok && msg != "" {
		d.Message = msg
	}
	return d
}
