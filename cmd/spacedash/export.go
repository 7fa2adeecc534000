package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spacedash/pkg/export"
	"spacedash/pkg/storage"
	"spacedash/pkg/ui"
)

var (
	exportQuery     queryFlags
	exportFormat    string
	exportOutputDir string
)

// exportCmd writes launch data as a spreadsheet
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export launch data as CSV or Excel",
	Long: `Export filtered launches as a table with one row per launch.

Columns: launch_name, provider, rocket_name, mission_name, mission_type,
mission_description, window_start, window_end, pad_name, location_name.
The file is written as launch_data.csv or launch_data.xlsx.`,
	Example: `  # All recent launches as CSV
  spacedash export -n 50

  # SpaceX launches from 2024 as an Excel workbook
  spacedash export --format xlsx -f provider=SpaceX -f year=2024`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportQuery.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: csv or xlsx (default from config)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output-dir", "o", "", "directory for the export file (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	extra := map[string]interface{}{}
	if exportOutputDir != "" {
		extra["output-dir"] = exportOutputDir
	}
	cfg, err := loadConfig(extra)
	if err != nil {
		return err
	}

	name := exportFormat
	if name == "" {
		name = cfg.Export.DefaultFormat
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	q, err := exportQuery.build(cfg, "launches", false)
	if err != nil {
		return err
	}
	res, err := runQuery(cmd.Context(), newServices(cfg), q)
	if err != nil {
		return err
	}
	if res.Failed {
		ui.PrintWarning(res.Notice)
		return nil
	}
	if res.Empty() {
		ui.PrintNotice(res.Notice)
	}

	rows := export.LaunchRows(res.Records)
	body, err := export.Encode(rows, format, cfg.Export.SheetName)
	if err != nil {
		return fmt.Errorf("failed to encode launches: %w", err)
	}

	output, err := storage.NewManager(cfg.Archive.OutputDirectory)
	if err != nil {
		return err
	}
	path, err := output.SaveBytes(format.Filename(), body)
	if err != nil {
		return err
	}

	if !quiet {
		ui.PrintSuccess(fmt.Sprintf("Exported %d launches to %s", len(rows), path))
	}
	return nil
}
