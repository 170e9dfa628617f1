package commands

import (
	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/jobs"
	"github.com/maltedev/place-archiver/internal/storage"
)

var captureCmd = &cobra.Command{
	Use:   "capture <spreadsheet>",
	Short: "Screenshot each store's place card from the search result page.",
	Long: `capture searches for "<지역> <지역상세> <매장명>" plus the search suffix and saves the
place card as 업체/네이버플레이스_캡처.png. Stores without a folder are skipped; run photos first.`,
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

		job := jobs.NewCaptureJob(storage.NewLayout(a.cfg.Storage.BaseDir), client, a.cfg.Scraper.SearchSuffix, a.logger)
		return a.runBatch(cmd.Context(), stores, job)
	},
}

func init() {
	addBatchFlags(captureCmd)
	rootCmd.AddCommand(captureCmd)
}
