package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"spacedash/pkg/pipeline"
	"spacedash/pkg/render"
)

var (
	listQuery  queryFlags
	listWidth  int
	jsonOutput bool
)

// listCmd prints the cards of one category
var listCmd = &cobra.Command{
	Use:     "list <category>",
	Aliases: []string{"ls"},
	Short:   "List filtered records of a category as cards",
	Long: `List records of a category, filtered and truncated to a limit, as text cards.

Categories: celestial_bodies, astronauts, spacecraft, launchers, launches.
Filters are passed as key=value pairs; the value "All" disables a filter.`,
	Example: `  # Five astronauts from NASA with at least two flights
  spacedash list astronauts -f agency=NASA -f min_flights=2

  # Spacecraft currently in space, as JSON
  spacedash list spacecraft -f in_space=true --json

  # Launches from 2024
  spacedash list launches -f year=2024 -n 10`,
	Args: categoryArg,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listQuery.register(listCmd)
	listCmd.Flags().IntVar(&listWidth, "width", render.DefaultTextWidth, "card width in columns")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "print cards and image references as JSON")
}

type listOutput struct {
	Category string              `json:"category"`
	Notice   string              `json:"notice,omitempty"`
	Cards    []pipeline.Card     `json:"cards"`
	Images   []pipeline.ImageRef `json:"images"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	q, err := listQuery.build(cfg, args[0], true)
	if err != nil {
		return err
	}

	res, err := runQuery(cmd.Context(), newServices(cfg), q)
	if err != nil {
		return err
	}

	if jsonOutput {
		cards := res.Cards
		if cards == nil {
			cards = []pipeline.Card{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listOutput{
			Category: q.Category.Name,
			Notice:   res.Notice,
			Cards:    cards,
			Images:   res.Images,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), render.TextAll(res.Cards, listWidth, res.Notice))
	return nil
}
