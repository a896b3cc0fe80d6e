package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmap/internal/core/ports/driving"
)

var strictCheck bool

var xrefCmd = &cobra.Command{
	Use:   "xref [subdirectory-or-file.json] [target-file.json]",
	Short: "Link BCD features to spec fragments",
	Long: `Walks browser-compat-data and the local feature tree, validates each
spec_url against SPECURLS.json, and writes one <shortname>.json file per spec
together with the updated SPECMAP.json.

A first argument without ".json" limits the walk to that BCD subdirectory.
An argument ending in ".json" limits output to that one file.`,
	Example: `  specmap xref
  specmap xref api
  specmap xref css css-grid.json
  specmap xref html.json`,
	Args: cobra.MaximumNArgs(2),
	RunE: runXref,
}

var checkCmd = &cobra.Command{
	Use:   "check [subdirectory|all]",
	Short: "Check BCD spec URLs against SPECURLS.json",
	Long: `Reports spec_url values whose fragment is not a known anchor, and
spec_url values on deprecated or non-standard features. Nothing is fetched
and nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&strictCheck, "strict", false, "exit with an error when problems are found")
	rootCmd.AddCommand(xrefCmd)
	rootCmd.AddCommand(checkCmd)
}

// parseXrefArgs splits the positional arguments into a subdirectory and
// an output target. Either position may carry the target.
func parseXrefArgs(args []string) (driving.XrefOptions, error) {
	var opts driving.XrefOptions
	for i, arg := range args {
		if strings.Contains(arg, ".json") {
			if opts.Target == "" {
				opts.Target = arg
			}
			continue
		}
		if i != 0 {
			return opts, fmt.Errorf("second argument %q must be a .json output file", arg)
		}
		opts.Subdirectory = arg
	}
	return opts, nil
}

func runXref(cmd *cobra.Command, args []string) error {
	if services == nil || services.Xref == nil {
		return fmt.Errorf("xref: %w", errNotConfigured)
	}
	opts, err := parseXrefArgs(args)
	if err != nil {
		return err
	}

	report, err := services.Xref.Run(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("xref failed: %w", err)
	}

	printXrefReport(cmd, report)
	cmd.Printf("Files:    %d\n", len(report.Files))
	for _, f := range report.Files {
		cmd.Printf("  %s\n", f)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if services == nil || services.Xref == nil {
		return fmt.Errorf("check: %w", errNotConfigured)
	}
	var opts driving.XrefOptions
	if len(args) == 1 && args[0] != "all" {
		opts.Subdirectory = args[0]
	}

	report, err := services.Xref.Check(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	printXrefReport(cmd, report)
	if strictCheck && report.Errors+report.Warnings > 0 {
		return fmt.Errorf("check found %d errors and %d warnings", report.Errors, report.Warnings)
	}
	return nil
}

func printXrefReport(cmd *cobra.Command, report *driving.XrefReport) {
	cmd.Printf("Features: %d\n", report.Features)
	cmd.Printf("Linked:   %d\n", report.Linked)
	cmd.Printf("Dropped:  %d\n", report.Dropped)
	cmd.Printf("Errors:   %d\n", report.Errors)
	cmd.Printf("Warnings: %d\n", report.Warnings)
}
