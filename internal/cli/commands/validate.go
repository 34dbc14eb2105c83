package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsieve/pkg/config"
	"github.com/ccollicutt/logsieve/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logsieve configuration file without parsing any logs.

Checks:
  - YAML syntax
  - Source kinds and output format
  - Stack grammar patterns and order
  - Ignore policy rules
  - Webhook URLs and triggers
  - Source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Sources:       %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(w, "  Output:        %s\n", cfg.Output)
	fmt.Fprintf(w, "  Ignore policy: %d method(s)\n", len(cfg.PolicyTable()))
	fmt.Fprintf(w, "  Webhooks:      %d\n", len(cfg.Webhooks))
	if len(cfg.StopMethods) > 0 {
		fmt.Fprintf(w, "  Stop methods:  %s\n", strings.Join(cfg.StopMethods, ", "))
	}

	if grammars := cfg.CompiledGrammars(); len(grammars) > 0 {
		fmt.Fprintf(w, "\nStack grammars:\n")
		for i, g := range grammars {
			fmt.Fprintf(w, "  %d. %s\n", i+1, g.Name)
		}
	}

	// Source existence is a warning only
	for _, src := range cfg.Sources {
		files, err := parser.ExpandGlobs([]string{src.Path})
		if err != nil {
			fmt.Fprintf(w, "\nWarning: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "\nSource %s (%s):\n", src.Path, src.Kind)
		for _, f := range files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}
