package commands

import (
	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/jobs"
	"github.com/maltedev/place-archiver/internal/storage"
)

var photosCmd = &cobra.Command{
	Use:   "photos <spreadsheet>",
	Short: "Create the store folders and download each store's own photos.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		stores, err := loadStores(args[0])
		if err != nil {
			return err
		}
		a.logger.Info("spreadsheet loaded", "path", args[0], "rows", len(stores))

		client, err := a.startScraper()
		if err != nil {
			return err
		}

		job := jobs.NewPhotoJob(storage.NewLayout(a.cfg.Storage.BaseDir), client, a.downloader(), a.metrics, a.logger)
		return a.runBatch(cmd.Context(), stores, job)
	},
}

func init() {
	addBatchFlags(photosCmd)
	rootCmd.AddCommand(photosCmd)
}
