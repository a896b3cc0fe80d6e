package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <url>...",
	Short: "Print the canonical form of spec URLs",
	Long: `Applies the URL rewrite rules to each argument and prints the result,
flagging obsolete and ignored URLs and any rewrite warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>...",
	Short: "Print the spec identity of spec URLs",
	Long: `Prints the shortname, base URL and location key each argument resolves
to under SPECMAP.json. New base URLs are shown but not saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	if services == nil || services.Normalizer == nil {
		return fmt.Errorf("normalize: %w", errNotConfigured)
	}

	for _, u := range args {
		res := services.Normalizer.Rewrite(u)
		var flags []string
		if res.Obsolete {
			flags = append(flags, "obsolete")
		}
		if res.Ignored {
			flags = append(flags, "ignored")
		}
		line := res.URL
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		cmd.Println(line)
		for _, w := range res.Warnings {
			cmd.Printf("  warning: %s\n", w)
		}
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	if services == nil || services.Resolver == nil || services.Normalizer == nil {
		return fmt.Errorf("resolve: %w", errNotConfigured)
	}
	resolver, err := services.Resolver(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	for _, u := range args {
		id := resolver.Resolve(services.Normalizer.Normalize(u), u)
		cmd.Printf("%s\n", u)
		cmd.Printf("  shortname:    %s\n", id.Shortname)
		cmd.Printf("  base URL:     %s\n", id.BaseURL)
		cmd.Printf("  location key: %s\n", id.LocationKey)
	}
	return nil
}
