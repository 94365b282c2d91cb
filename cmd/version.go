package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// newVersionCmd creates the 'version' subcommand, printing both this
// binary's version and the bird tool's.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "xscrape version %s\n", version)

			a, err := buildApp()
			if err != nil {
				fmt.Fprintln(out, "bird CLI: not installed")
				return nil
			}
			defer a.Close()
			fmt.Fprintf(out, "bird CLI version %s\n", a.Bird().Version(cmd.Context()))
			return nil
		},
	}
}
