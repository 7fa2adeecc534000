package main

import (
	"github.com/spf13/cobra"

	"spacedash/pkg/logger"
	"spacedash/pkg/storage"
	"spacedash/pkg/ui/tui"
)

var (
	browseQuery     queryFlags
	browseOutputDir string
)

// browseCmd opens the interactive card browser
var browseCmd = &cobra.Command{
	Use:   "browse <category>",
	Short: "Browse a category interactively",
	Long: `Open an interactive terminal browser over the filtered records of a category.

Keys: n/p or arrows to move between cards, r to reload, d to download the
images of the current result as a zip archive, ? for help, q to quit.`,
	Example: `  spacedash browse spacecraft -f status=Active
  spacedash browse launches -f year=2023 -n 20`,
	Args: categoryArg,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseQuery.register(browseCmd)
	browseCmd.Flags().StringVarP(&browseOutputDir, "output-dir", "o", "", "directory for downloaded archives (default from config)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	extra := map[string]interface{}{}
	if browseOutputDir != "" {
		extra["output-dir"] = browseOutputDir
	}
	cfg, err := loadConfig(extra)
	if err != nil {
		return err
	}
	// Console logs would draw over the browser
	if cfg.Logging.File == "" {
		logger.SetLogger(logger.NewNopLogger())
	}

	q, err := browseQuery.build(cfg, args[0], true)
	if err != nil {
		return err
	}
	output, err := storage.NewManager(cfg.Archive.OutputDirectory)
	if err != nil {
		return err
	}

	svc := newServices(cfg)
	terminal := tui.NewTUI(cmd.Context(), tui.Options{
		Pipeline: svc.pipeline,
		Builder:  svc.builder,
		Query:    q,
		Output:   output,
	})
	return terminal.Start()
}
