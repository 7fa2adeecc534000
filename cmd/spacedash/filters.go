package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "spacedash/pkg/errors"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/ui"
)

// filtersCmd lists the filters of a category with their selectable values
var filtersCmd = &cobra.Command{
	Use:   "filters <category>",
	Short: "Show the filters of a category and their available values",
	Long: `Show every filter a category accepts. Values for selectable filters are
discovered from a sample of upstream records.`,
	Example: `  spacedash filters astronauts
  spacedash filters launches --json`,
	Args: categoryArg,
	RunE: runFilters,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
	filtersCmd.Flags().BoolVar(&jsonOutput, "json", false, "print options as JSON")
}

func runFilters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	c, _ := pipeline.LookupCategory(args[0])

	opts, err := newServices(cfg).pipeline.Options(cmd.Context(), c)
	if err != nil {
		if !apperrors.IsFetchError(err) {
			return err
		}
		ui.PrintWarning(c.FailureNotice())
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	}

	out := cmd.OutOrStdout()
	for _, def := range c.Filters {
		fmt.Fprintf(out, "%s (%s, %s)\n", ui.Cyan(def.Label), def.Key, def.Kind)
		switch def.Kind {
		case pipeline.FilterContains:
			fmt.Fprintln(out, "  any text, case-insensitive")
		case pipeline.FilterMin, pipeline.FilterMax:
			fmt.Fprintln(out, "  any whole number")
		default:
			values := opts[def.Key]
			if len(values) == 0 {
				fmt.Fprintln(out, "  (no values available)")
				continue
			}
			fmt.Fprintf(out, "  %s\n", strings.Join(values, ", "))
		}
	}
	return nil
}
