package rules

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Ready-made custom validators. Register them under any name that is not a
// built-in:
//
//	reg, _ := rules.NewRegistry(map[string]rules.Validator{
//	    "email": rules.Email(""),
//	    "plan":  rules.OneOf([]string{"free", "pro"}, ""),
//	})
//
// Like browsers' own constraint checks they accept empty values and leave
// emptiness to required.

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	// Matches common phone formats: +1-234-567-8900, (234) 567-8900, 234.567.8900, etc.
	phonePattern = regexp.MustCompile(`^[\+]?[(]?[0-9]{1,4}[)]?[-\s\.]?[(]?[0-9]{1,3}[)]?[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,9}$`)
)

// check builds a validator from a predicate over the value's text. Rule is
// left empty; Resolve fills in the name the validator is registered under.
func check(msg string, ok func(s string) bool) Validator {
	return func(value Value, _ string) *ErrorDetail {
		s := value.String()
		if s == "" || ok(s) {
			return nil
		}
		return &ErrorDetail{Message: msg, Params: map[string]any{"value": value.Interface()}}
	}
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// Email validates that the value is an email address.
func Email(msg string) Validator {
	return check(orDefault(msg, "Invalid email address"), emailPattern.MatchString)
}

// URL validates that the value is an absolute URL.
func URL(msg string) Validator {
	return check(orDefault(msg, "Invalid URL"), func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})
}

// UUID validates that the value is a UUID.
func UUID(msg string) Validator {
	return check(orDefault(msg, "Invalid UUID"), uuidPattern.MatchString)
}

// Alpha validates that the value contains only letters.
func Alpha(msg string) Validator {
	return check(orDefault(msg, "Must contain only letters"), func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
	})
}

// AlphaNumeric validates that the value contains only letters and digits.
func AlphaNumeric(msg string) Validator {
	return check(orDefault(msg, "Must contain only letters and numbers"), func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }) < 0
	})
}

// Numeric validates that the value contains only digits.
func Numeric(msg string) Validator {
	return check(orDefault(msg, "Must contain only numbers"), func(s string) bool {
		return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
	})
}

// Phone validates that the value looks like a phone number.
func Phone(msg string) Validator {
	return check(orDefault(msg, "Invalid phone number"), phonePattern.MatchString)
}

// Matches validates the value against a precompiled regular expression.
func Matches(re *regexp.Regexp, msg string) Validator {
	return check(orDefault(msg, MsgPattern), re.MatchString)
}

// OneOf validates that the value is one of the allowed values. When allowed
// is empty the declared parameter is used as a comma-separated list, so
// data-one-of="a,b" works without configuration. List values pass when every
// item is allowed.
func OneOf(allowed []string, msg string) Validator {
	fixed := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		fixed[a] = true
	}
	return func(value Value, param string) *ErrorDetail {
		set := fixed
		if len(set) == 0 {
			set = make(map[string]bool)
			for _, a := range strings.Split(param, ",") {
				set[strings.TrimSpace(a)] = true
			}
		}
		items, isList := value.AsList()
		if !isList {
			s := value.String()
			if s == "" {
				return nil
			}
			items = []string{s}
		}
		for _, it := range items {
			if !set[it] {
				return &ErrorDetail{
					Message: orDefault(msg, fmt.Sprintf("Must be one of %s", joinSorted(set))),
					Params:  map[string]any{"value": value.Interface()},
				}
			}
		}
		return nil
	}
}

func joinSorted(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
