package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/form"
	"github.com/vango-dev/formguard/pkg/render"
	"github.com/vango-dev/formguard/pkg/server"
	"github.com/vango-dev/formguard/pkg/vdom"
)

type checkOptions struct {
	selector string
	sets     []string
	checks   []string
	files    []string
	fields   []string
	jsonOut  bool
	out      string
	report   string
	pretty   bool
}

// checkResult is the --json output.
type checkResult struct {
	File   string              `json:"file"`
	Form   string              `json:"form"`
	Valid  bool                `json:"valid"`
	Fields []server.FieldState `json:"fields"`
}

func checkCmd(global *globalOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <file.html>",
		Short: "Validate a form in an HTML file",
		Long: `Validate the form in an HTML file against its data-* rules.

Values can be assigned before validation. The exit status is 1 when any
field is invalid and 2 on other errors. Use "-" to read from stdin.

Examples:
  formguard check signup.html
  formguard check signup.html --form "#signup" --set email=ada@example.com
  formguard check signup.html --check plan=pro --file avatar=me.png
  formguard check signup.html --json
  formguard check signup.html --out annotated.html --report report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), global, opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.selector, "form", "f", "", "Selector of the form element (default from config)")
	cmd.Flags().StringArrayVarP(&opts.sets, "set", "s", nil, "Assign a value: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.checks, "check", nil, "Check a radio or checkbox option: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.files, "file", nil, "Attach a file name to a file input: name=file (repeatable)")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "Validate only these field names")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the annotated document to this file")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write an HTML validation report to this file")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print written HTML")

	return cmd
}

func runCheck(ctx context.Context, global *globalOptions, opts *checkOptions, file string, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	validators, err := cfg.Validators()
	if err != nil {
		return err
	}

	values, err := parseAssignments("--set", opts.sets)
	if err != nil {
		return err
	}
	checked, err := parseMulti("--check", opts.checks)
	if err != nil {
		return err
	}
	files, err := parseMulti("--file", opts.files)
	if err != nil {
		return err
	}

	doc, err := readDocument(file, stdin)
	if err != nil {
		return err
	}

	selector := opts.selector
	if selector == "" {
		selector = cfg.Form.Selector
	}
	f, err := form.New(doc, selector, &form.Config{
		Validate: validators,
		Logger:   cfg.NewLogger(stderr),
	})
	if err != nil {
		return err
	}

	server.ApplyAssignments(f, values, checked, files)

	valid := true
	if len(opts.fields) > 0 {
		for _, name := range opts.fields {
			if f.GetField(name) == nil && !opts.jsonOut {
				warn(stdout, "No field named %q in %s", name, selector)
			}
		}
		f.Trigger(opts.fields...)
		valid = f.IsValid()
	} else if valid, err = f.ValidateContext(ctx); err != nil {
		return err
	}

	renderer := render.NewRenderer(render.RendererConfig{Pretty: opts.pretty})
	if opts.out != "" {
		if err := writeFile(opts.out, func(w io.Writer) error {
			return renderer.RenderDocument(w, doc)
		}); err != nil {
			return err
		}
	}
	if opts.report != "" {
		if err := writeFile(opts.report, func(w io.Writer) error {
			return renderer.RenderReport(w, server.ReportFor(f, file))
		}); err != nil {
			return err
		}
	}

	states := server.FieldStates(f)
	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checkResult{File: file, Form: selector, Valid: valid, Fields: states}); err != nil {
			return err
		}
	} else {
		printStates(stdout, states)
		if opts.out != "" {
			info(stdout, "Annotated document written to %s", opts.out)
		}
		if opts.report != "" {
			info(stdout, "Report written to %s", opts.report)
		}
	}

	if !valid {
		return errors.New("F080").WithDetailf("%d of %d fields failed validation in %s.",
			len(f.Errors()), countActive(states), file)
	}
	return nil
}

// printStates prints one line per field.
func printStates(w io.Writer, states []server.FieldState) {
	for _, st := range states {
		switch {
		case st.Skipped:
			info(w, "%s %s", paint("\033[90m", "-"), paint("\033[90m", st.Name+" (skipped)"))
		case st.Error != nil:
			errorMsg(w, "%s: %s %s", st.Name, st.Error.Message, paint("\033[90m", "["+st.Error.Rule+"]"))
		default:
			success(w, "%s", st.Name)
		}
	}
}

func countActive(states []server.FieldState) int {
	n := 0
	for _, st := range states {
		if !st.Skipped {
			n++
		}
	}
	return n
}

// readDocument parses file, or stdin when file is "-".
func readDocument(file string, stdin io.Reader) (*vdom.VNode, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, errors.New("F040").WithDetailf("Could not read %s.", file).Wrap(err)
	}
	doc, err := vdom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("F040").Wrap(err)
	}
	return doc, nil
}

// parseAssignment splits name=value. The value may be empty and may
// itself contain '='.
func parseAssignment(flag, s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", errors.New("F041").WithDetailf("%s %q is not of the form name=value.", flag, s)
	}
	return strings.TrimSpace(name), value, nil
}

// parseAssignments parses --set flags; a later assignment to the same
// name wins.
func parseAssignments(flag string, list []string) (map[string]string, error) {
	out := make(map[string]string, len(list))
	for _, s := range list {
		name, value, err := parseAssignment(flag, s)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

// parseMulti parses flags that may repeat a name to collect several values.
func parseMulti(flag string, list []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, s := range list {
		name, value, err := parseAssignment(flag, s)
		if err != nil {
			return nil, err
		}
		out[name] = append(out[name], value)
	}
	return out, nil
}

// writeFile creates path and fills it with write. Failures are F081.
func writeFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.New("F081").WithDetailf("Could not create %s.", path).Wrap(err)
	}
	if err := write(fh); err != nil {
		fh.Close()
		return errors.New("F081").Wrap(err)
	}
	if err := fh.Close(); err != nil {
		return errors.New("F081").Wrap(err)
	}
	return nil
}
