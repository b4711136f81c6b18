package main

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/formguard/internal/config"
	"github.com/vango-dev/formguard/internal/errors"
)

func initCmd(global *globalOptions) *cobra.Command {
	var (
		force  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a starter formguard.json (or formguard.yaml) with example
custom rules to the config directory.

Examples:
  formguard init
  formguard init --format=yaml
  formguard init -C ./site --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(global.configDir, format, force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVar(&format, "format", "json", "File format: json or yaml")

	return cmd
}

// starterConfig is the configuration written by init.
func starterConfig() *config.Config {
	cfg := config.New()
	cfg.Rules = map[string]config.RuleConfig{
		"email": {Type: "email"},
		"zip":   {Type: "pattern", Pattern: `^[0-9]{5}$`, Message: "Enter a 5 digit ZIP code"},
		"plan":  {Type: "oneOf", Values: []string{"free", "pro", "team"}},
	}
	return cfg
}

func runInit(dir, format string, force bool, stdout io.Writer) error {
	var name string
	switch format {
	case "json":
		name = config.ConfigFileName
	case "yaml", "yml":
		name = "formguard.yaml"
	default:
		return errors.New("F022").WithDetailf("--format must be json or yaml, got %q.", format)
	}

	if existing, ok := config.Find(dir); ok && !force {
		return errors.Newf(errors.CategoryCLI, "%s already exists", existing).
			WithSuggestion("Use --force to overwrite it")
	}

	path := filepath.Join(dir, name)
	if err := starterConfig().SaveTo(path); err != nil {
		return err
	}
	success(stdout, "Created %s", path)
	info(stdout, "Declare rules on fields with data-* attributes, e.g. data-zip or data-plan")
	return nil
}
