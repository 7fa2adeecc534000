package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"spacedash/internal/downloader"
	"spacedash/pkg/logger"
	"spacedash/pkg/storage"
	"spacedash/pkg/ui"
	"spacedash/pkg/ui/tui"
)

var (
	downloadQuery     queryFlags
	downloadOutputDir string
)

// downloadCmd bundles the images of a category into a zip archive
var downloadCmd = &cobra.Command{
	Use:   "download <category>",
	Short: "Download the images of filtered records into a zip archive",
	Long: `Download the images of the filtered records of a category and bundle them
into a zip archive named after the category (e.g. astronaut_images.zip).

Images are downloaded one after another. Failed downloads and responses that
are not images are skipped. Each entry is named after the record with spaces
replaced by underscores.`,
	Example: `  # Launcher images, flight proven only
  spacedash download launchers -f flight_proven=true

  # Astronaut images into ./downloads
  spacedash download astronauts -n 20 --output-dir ./downloads`,
	Args: categoryArg,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadQuery.register(downloadCmd)
	downloadCmd.Flags().StringVarP(&downloadOutputDir, "output-dir", "o", "", "directory for the archive (default from config)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	extra := map[string]interface{}{}
	if downloadOutputDir != "" {
		extra["output-dir"] = downloadOutputDir
	}
	cfg, err := loadConfig(extra)
	if err != nil {
		return err
	}
	q, err := downloadQuery.build(cfg, args[0], false)
	if err != nil {
		return err
	}

	svc := newServices(cfg)
	res, err := runQuery(cmd.Context(), svc, q)
	if err != nil {
		return err
	}
	if res.Failed {
		ui.PrintWarning(res.Notice)
		return nil
	}
	if len(res.Images) == 0 {
		ui.PrintNotice(q.Category.NoImagesNotice())
		return nil
	}

	output, err := storage.NewManager(cfg.Archive.OutputDirectory)
	if err != nil {
		return err
	}

	var progressOut io.Writer = ui.Output
	if quiet {
		progressOut = nil
	}
	tracker := ui.NewStatusTracker(len(res.Images), progressOut)

	a, err := svc.builder.BuildWithProgress(cmd.Context(), res.Images, func(done, total int, r downloader.Result) {
		tracker.Record(done, total, r.Success)
	})
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}
	logger.LogArchive(logger.GetLogger(), q.Category.Name, a.Len(), len(a.Skipped()), len(a.Bytes()))

	path, err := output.SaveBytes(q.Category.ArchiveName, a.Bytes())
	if err != nil {
		return err
	}

	if !quiet {
		sum := a.Summary()
		ui.PrintSuccess(fmt.Sprintf("Saved %d images (%s downloaded) to %s in %s",
			a.Len(), tui.FormatBytes(int64(sum.Bytes)), path, tracker.GetElapsedTime().Round(100*time.Millisecond)))
		if sum.Failed > 0 {
			ui.PrintNotice(fmt.Sprintf("%d of %d downloads failed", sum.Failed, sum.Total))
		}
		for _, ref := range a.Skipped() {
			ui.PrintWarning("Skipped", ref.Name)
		}
	}
	return nil
}
