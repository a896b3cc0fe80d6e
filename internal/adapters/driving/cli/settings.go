package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Prints the settings in effect after applying defaults, the config
file and SPECMAP_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting to the config file",
	Long: `Saves one setting to the config file. Lists such as
paths.bcd_directories are comma-separated; durations accept "30s" or
whole seconds. Environment variables still override saved values.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if services == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}
	s := services.Settings

	cmd.Println("Paths:")
	cmd.Printf("  Work dir:       %s\n", s.Paths.WorkDir)
	cmd.Printf("  Output dir:     %s\n", s.Paths.OutputDir)
	cmd.Printf("  BCD:            %s (%s)\n", s.Paths.BCDDir, strings.Join(s.Paths.BCDDirectories, ", "))
	cmd.Printf("  Local:          %s\n", s.Paths.LocalDir)
	cmd.Printf("  Supplementary:  %s\n", s.Paths.SupplementaryPath())
	cmd.Printf("  Rules:          %s\n", valueOr(s.Paths.Rules, "(embedded)"))
	cmd.Println()
	cmd.Println("Fetch:")
	cmd.Printf("  User agent:     %s\n", s.Fetch.UserAgent)
	cmd.Printf("  Timeout:        %s\n", s.Fetch.Timeout)
	cmd.Printf("  Max attempts:   %d\n", s.Fetch.MaxAttempts)
	cmd.Printf("  Retry delay:    %s (max %s)\n", s.Fetch.RetryDelay, s.Fetch.MaxRetryDelay)
	cmd.Printf("  Rate:           %s\n", rateString(s.Fetch.RequestsPerSecond))
	cmd.Printf("  Cache:          %s\n", valueOr(s.Fetch.CachePath, "(disabled)"))
	cmd.Println()
	cmd.Println("Remote:")
	cmd.Printf("  MDN origin:     %s\n", s.Remote.MDNOrigin)
	cmd.Printf("  caniuse:        %s\n", s.Remote.CaniuseURL)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if services == nil || services.SetSetting == nil {
		return fmt.Errorf("settings set: %w", errNotConfigured)
	}
	if err := services.SetSetting(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Saved %s = %s to %s\n", args[0], args[1], valueOr(services.ConfigPath, "config file"))
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func rateString(rps float64) string {
	if rps <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g req/s", rps)
}
