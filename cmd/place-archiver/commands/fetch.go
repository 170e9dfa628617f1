package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/jobs"
)

var flagFetchDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <map-url>",
	Short: "Download the photos of a single Naver map page.",
	Example: `  place-archiver fetch https://naver.me/FfB3j16z
  place-archiver fetch --out photos https://map.naver.com/p/entry/place/123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		client, err := a.startScraper()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		res, err := client.FetchPhotos(ctx, args[0])
		if err != nil {
			return fmt.Errorf("no photos collected: %w", err)
		}
		a.logger.Info("photos found", "count", len(res.URLs), "final_url", res.FinalURL)

		dir := a.cfg.Storage.FetchDir
		if flagFetchDir != "" {
			dir = flagFetchDir
		}

		saved, err := jobs.SaveFetched(ctx, a.downloader(), res.URLs, dir, a.metrics, a.logger)
		if err != nil {
			return err
		}

		abs, _ := filepath.Abs(dir)
		fmt.Fprintf(os.Stdout, "\n✅ %d/%d개 사진 다운로드 완료! 저장 위치: %s\n", saved, len(res.URLs), abs)
		fmt.Fprintf(os.Stdout, "📝 사진 URL 목록: %s\n", filepath.Join(abs, jobs.FetchURLListFile))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&flagFetchDir, "out", "", "download folder (default from STORAGE_FETCH_DIR)")
	rootCmd.AddCommand(fetchCmd)
}
