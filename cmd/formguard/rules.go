package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/formguard/internal/config"
	"github.com/vango-dev/formguard/pkg/rules"
)

// ruleInfo is one row of the rules listing.
type ruleInfo struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Type    string `json:"type,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

func rulesCmd(global *globalOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available validation rules",
		Long: `List the built-in rules and the custom rules declared in the
configuration file. Custom rules are compiled, so invalid definitions are
reported here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			return runRules(cfg, jsonOut, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the rules as JSON")

	return cmd
}

func listRules(cfg *config.Config) ([]ruleInfo, error) {
	if _, err := cfg.Registry(); err != nil {
		return nil, err
	}

	var out []ruleInfo
	for _, b := range rules.Builtins() {
		out = append(out, ruleInfo{Name: b.String(), Source: "builtin", Detail: builtinDetail[b]})
	}

	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rc := cfg.Rules[name]
		ri := ruleInfo{Name: name, Source: "config", Type: rc.Type, Message: rc.Message}
		switch rc.Type {
		case "pattern":
			ri.Detail = rc.Pattern
		case "oneOf":
			ri.Detail = fmt.Sprint(rc.Values)
		}
		out = append(out, ri)
	}
	return out, nil
}

var builtinDetail = map[rules.Builtin]string{
	rules.Required:     "value must not be blank",
	rules.RequiredTrue: "value must be truthy",
	rules.Pattern:      "value must match the regular expression",
	rules.Min:          "numeric value must be >= parameter",
	rules.Max:          "numeric value must be <= parameter",
	rules.MinLength:    "length must be >= parameter",
	rules.MaxLength:    "length must be <= parameter",
}

func runRules(cfg *config.Config, jsonOut bool, w io.Writer) error {
	list, err := listRules(cfg)
	if err != nil {
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tTYPE\tDETAIL")
	for _, r := range list {
		typ := r.Type
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Source, typ, r.Detail)
	}
	return tw.Flush()
}
