package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors",
	Short: "Rebuild SPECURLS.json from spec documents",
	Long: `Fetches every spec listed in SPECMAP.json, collects its id and name
anchors, and writes SPECURLS.json together with the RESPEC_SPECS.txt,
BIKESHED_SPECS.txt and OTHER_SPECS.txt classification lists.

Documents that fail to load are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runAnchors,
}

func init() {
	rootCmd.AddCommand(anchorsCmd)
}

func runAnchors(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Anchors == nil {
		return fmt.Errorf("anchors: %w", errNotConfigured)
	}

	report, err := services.Anchors.Run(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("anchors failed: %w", err)
	}

	cmd.Printf("Specs:   %d (%d stable)\n", report.Specs, report.Stable)
	cmd.Printf("Fetched: %d\n", report.Fetched)
	cmd.Printf("Failed:  %d\n", report.Failed)
	cmd.Printf("Anchors: %d\n", report.Anchors)
	return nil
}
