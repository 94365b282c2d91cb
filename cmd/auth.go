package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xscrape/xscrape/internal/bird"
	"github.com/xscrape/xscrape/internal/cookies"
)

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// persistCookies saves the pair to path and echoes a .env block the user
// can paste instead of relying on the saved file.
func persistCookies(out io.Writer, c cookies.Cookies, path string) error {
	if err := cookies.SaveFile(path, c); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Cookies saved to %s\n", path)
	fmt.Fprintf(out, "\nReusable .env form:\n\n%s", c.EnvFormat())
	return nil
}

// newCheckAuthCmd creates the 'check-auth' subcommand, which reports
// whether the bird tool is installed and which cookie source works.
func newCheckAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-auth",
		Short: "Check authentication status and available cookies",
		RunE:  runCheckAuth,
	}
	cmd.Flags().Bool("save", false, "persist working cookies to the config dir for later runs")
	return cmd
}

func runCheckAuth(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking authentication...")

	a, err := buildApp()
	if err != nil {
		var birdErr *bird.Error
		if errors.As(err, &birdErr) && birdErr.Kind == bird.KindToolMissing {
			fmt.Fprintln(out, "✗ bird CLI not installed")
			fmt.Fprintln(out, "  Install with: bun install -g @nicepkg/bird")
		}
		return err
	}
	defer a.Close()

	fmt.Fprintf(out, "✓ bird CLI installed (version %s)\n", a.Bird().Version(cmd.Context()))

	c, ok := cookies.Best(cmd.Context(), a.Bird(), a.Logger())
	if !ok {
		fmt.Fprintln(out, "✗ No working cookie source found")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "To fix, either:")
		fmt.Fprintln(out, "1. Login to X in Safari/Chrome/Firefox (bird auto-detects)")
		fmt.Fprintln(out, "2. Set AUTH_TOKEN and CT0 in a .env file or the environment")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Run 'xscrape cookie-help' for detailed instructions")
		return nil
	}

	save, _ := cmd.Flags().GetBool("save")
	if c.Managed() {
		fmt.Fprintln(out, "✓ bird auto-detected browser cookies")
		if save {
			fmt.Fprintln(out, "  Nothing to save: bird keeps the cookie values itself")
		}
	} else {
		fmt.Fprintln(out, "✓ Cookies configured from .env or environment")
		fmt.Fprintf(out, "  AUTH_TOKEN: %s...\n", prefix(c.AuthToken, 10))
		fmt.Fprintf(out, "  CT0: %s...\n", prefix(c.CT0, 10))
		if save {
			path, err := cookies.File()
			if err != nil {
				return err
			}
			if err := persistCookies(out, c, path); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "✓ Ready to scrape!")
	fmt.Fprintln(out, "  Try: xscrape read https://x.com/user/status/123")
	return nil
}

// newCookieHelpCmd creates the 'cookie-help' subcommand. It needs no
// services; it only prints the manual extraction walkthrough.
func newCookieHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cookie-help",
		Short: "Show instructions for extracting cookies manually",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cookies.ManualInstructions())
		},
	}
}
