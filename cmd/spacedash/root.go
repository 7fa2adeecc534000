package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spacedash/pkg/config"
	"spacedash/pkg/logger"
	"spacedash/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	apiURL     string
	apiTimeout time.Duration
	minFetch   int
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spacedash",
	Short: "Browse, filter and download space-flight data from Launch Library 2",
	Long: `spacedash is a space-flight data dashboard backed by the Launch Library 2 API.

It browses five categories (celestial_bodies, astronauts, spacecraft,
launchers and launches), filters them, renders them as cards and bundles
their images into zip archives. Launch data can be exported as CSV or Excel.

Features:
  - Per-category filters (agency, status, flight counts, year, ...)
  - Image archives with invalid downloads skipped
  - Interactive terminal card browser
  - HTTP dashboard with JSON, HTML, zip and export endpoints`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		} else if verbose {
			logLevel = "debug"
		}

		// Don't show logo for certain commands
		switch cmd.Name() {
		case "version", "help", "completion", "browse":
			return
		}
		if !quiet && !jsonOutput {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.spacedash.yaml or $HOME/.config/spacedash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Launch Library 2 base URL")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", 0, "API request timeout")
	rootCmd.PersistentFlags().IntVar(&minFetch, "min-fetch", 0, "minimum number of records fetched per request")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetVersionTemplate(`spacedash {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags in the form config.Load expects
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if apiURL != "" {
		flags["api-url"] = apiURL
	}
	if apiTimeout > 0 {
		flags["timeout"] = apiTimeout
	}
	if minFetch > 0 {
		flags["min-fetch"] = minFetch
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// loadConfig loads configuration from every source and initializes logging
func loadConfig(extra map[string]interface{}) (*config.Config, error) {
	flags := globalFlags()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("spacedash starting")

	return cfg, nil
}
