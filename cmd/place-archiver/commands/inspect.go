package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/report"
	"github.com/maltedev/place-archiver/internal/scraper"
)

var flagHold time.Duration

var inspectCmd = &cobra.Command{
	Use:   "inspect <map-url>",
	Short: "Print the structure of a map page and save its source and a screenshot.",
	Long: `inspect is a debugging aid for selector work. It prints the short texts, classes, iframes,
photo related elements and images of the page and writes debug_page_source.html and
debug_screenshot.png into the working directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		client, err := a.startScraper()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		res, err := client.Inspect(ctx, args[0], scraper.InspectSourceFile, scraper.InspectScreenshotFile)
		if res != nil {
			report.PrintInspection(os.Stdout, res)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "\n💾 %s, %s 저장 완료\n", scraper.InspectSourceFile, scraper.InspectScreenshotFile)

		hold := flagHold
		if !cmd.Flags().Changed("hold") && a.cfg.Browser.Headless {
			hold = 0
		}
		if hold > 0 {
			fmt.Fprintf(os.Stdout, "⏳ 브라우저를 %s 동안 열어둡니다...\n", hold)
			// Ctrl-C just ends the hold early.
			_ = browser.Sleep(ctx, hold)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().DurationVar(&flagHold, "hold", 30*time.Second, "keep a visible browser open this long after the analysis")
	rootCmd.AddCommand(inspectCmd)
}
