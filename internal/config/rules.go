package config

import (
	"regexp"
	"sort"

	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/rules"
)

// Validators compiles the declared rules into validators keyed by rule
// name. Names are checked in sorted order so the first reported error is
// stable.
func (c *Config) Validators() (map[string]rules.Validator, error) {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]rules.Validator, len(names))
	for _, name := range names {
		if _, ok := rules.ParseBuiltin(name); ok || rules.IsBookkeeping(name) {
			return nil, errors.New("F025").
				WithDetailf("rules.%s: %q is reserved", name, name)
		}
		v, err := compileRule(name, c.Rules[name])
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Registry builds a rule registry from the declared rules.
func (c *Config) Registry() (*rules.Registry, error) {
	custom, err := c.Validators()
	if err != nil {
		return nil, err
	}
	reg, err := rules.NewRegistry(custom)
	if err != nil {
		return nil, errors.New("F003").Wrap(err)
	}
	return reg, nil
}

func compileRule(name string, rc RuleConfig) (rules.Validator, error) {
	switch rc.Type {
	case "pattern":
		if rc.Pattern == "" {
			return nil, errors.New("F022").
				WithDetailf("rules.%s: pattern rules need a pattern", name)
		}
		re, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, errors.New("F024").
				WithDetailf("rules.%s: %v", name, err).
				Wrap(err)
		}
		return rules.Matches(re, rc.Message), nil
	case "oneOf":
		return rules.OneOf(rc.Values, rc.Message), nil
	case "email":
		return rules.Email(rc.Message), nil
	case "url":
		return rules.URL(rc.Message), nil
	case "uuid":
		return rules.UUID(rc.Message), nil
	case "alpha":
		return rules.Alpha(rc.Message), nil
	case "alphaNumeric":
		return rules.AlphaNumeric(rc.Message), nil
	case "numeric":
		return rules.Numeric(rc.Message), nil
	case "phone":
		return rules.Phone(rc.Message), nil
	default:
		return nil, errors.New("F023").
			WithDetailf("rules.%s: unknown type %q", name, rc.Type)
	}
}
