package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/formguard/internal/config"
	"github.com/vango-dev/formguard/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬─┐┌┬┐┌─┐┬ ┬┌─┐┬─┐┌┬┐
  ├┤ │ │├┬┘││││ ┬│ │├─┤├┬┘ ││
  └  └─┘┴└─┴ ┴└─┘└─┘┴ ┴┴└──┴┘
`

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configDir string
	logLevel  string
	noColor   bool
}

var colorEnabled = true

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code: 0 on success,
// 1 when a checked form has invalid fields, 2 on any other error.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		errors.FprintError(stderr, err)
		if errors.Code(err) == "F080" {
			return 1
		}
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "formguard",
		Short: "Declarative validation for HTML forms",
		Long: `formguard validates HTML forms against rules declared in data-*
attributes.

  • data-required, data-min, data-max-length, data-pattern ...
  • custom rules from formguard.json (pattern, oneOf, email, ...)
  • annotated output with error messages and invalid markers
  • HTTP and WebSocket API for live validation`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				colorEnabled = false
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "C", ".", "Directory holding formguard.json")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		checkCmd(opts),
		serveCmd(opts),
		rulesCmd(opts),
		initCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration for a command, falling back to the
// defaults when no file exists.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadOptional(opts.configDir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// printBanner prints the formguard ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + "\033[0m"
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[31m", "✗"), fmt.Sprintf(format, args...))
}
