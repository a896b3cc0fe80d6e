package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/specmap/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	rulesPath  string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "specmap",
	Short: "Maintain MDN spec links",
	Long: `specmap keeps the links between browser-compat-data features and
specification fragments up to date.

It harvests anchors from spec documents (anchors), cross-references BCD
spec_url values against them (xref, check), and exposes the URL rewriting
and spec identity rules for inspection (normalize, resolve).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default specmap.toml)")
	flags.StringVar(&rulesPath, "rules", "", "rule set file overriding the embedded defaults")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print notes and progress")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeServices()
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// setup configures logging, then builds the services once.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetColor(!noColor && term.IsTerminal(int(os.Stderr.Fd())))

	if services != nil || factory == nil {
		return nil
	}
	s, err := factory(commandContext(cmd), Options{
		ConfigPath: configPath,
		RulesPath:  rulesPath,
	})
	if err != nil {
		return err
	}
	services = s
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var errNotConfigured = errors.New("service not configured")
