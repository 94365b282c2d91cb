// Package cmd defines and implements the CLI commands for the xscrape
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xscrape/xscrape/internal/app"
)

var (
	cfgFile string
	verbose bool
)

// newApp is the application factory. It's a variable so tests can swap
// in a factory that skips the bird binary preflight.
var newApp = app.New

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xscrape",
		Short: "Scrape posts from X/Twitter with images and videos",
		Long: `xscrape fetches X/Twitter posts through the bird CLI, running
fetches concurrently with retries and normalizing the tool's output
into a stable record format.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches . and $HOME/.config/xscrape)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newCheckAuthCmd())
	cmd.AddCommand(newCookieHelpCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point. It installs signal handling so an
// interrupt cancels in-flight fetches cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildApp(extra ...func(*app.Options)) (*app.App, error) {
	opts := app.Options{ConfigPath: cfgFile, Verbose: verbose}
	for _, fn := range extra {
		fn(&opts)
	}
	return newApp(opts)
}
