package commands

import (
	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/jobs"
	"github.com/maltedev/place-archiver/internal/storage"
)

var priceCmd = &cobra.Command{
	Use:   "price <spreadsheet>",
	Short: "Save the price table images of each store.",
	Long: `price opens each store's map link, follows the 가격표 link and saves the price table images
as 업체/가격표.<ext> (or 가격표_N.<ext>). Stores that already have a 가격표 file are skipped.`,
	Args: cobra.ExactArgs(1),
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

		job := jobs.NewPriceJob(storage.NewLayout(a.cfg.Storage.BaseDir), client, a.downloader(), a.metrics, a.logger)
		return a.runBatch(cmd.Context(), stores, job)
	},
}

func init() {
	addBatchFlags(priceCmd)
	rootCmd.AddCommand(priceCmd)
}
