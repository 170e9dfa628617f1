package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maltedev/place-archiver/internal/config"
)

var (
	flagHeaded   bool
	flagHeadless bool
	flagBaseDir  string
	flagLogLevel string
	flagResume   bool
	flagServe    bool
)

var rootCmd = &cobra.Command{
	Use:   "place-archiver",
	Short: "place-archiver collects Naver map photos, place cards and price tables for a store list.",
	Long: `place-archiver reads a store spreadsheet (columns 지역, 지역상세, 매장명, 네이버지도링크)
and stores what it finds on Naver map and search under downloads/<지역>/<지역상세>/<매장명>/업체/.

Run photos first: it creates the store folders that capture and price write into.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagHeaded, "headed", false, "show the browser window")
	pf.BoolVar(&flagHeadless, "headless", false, "hide the browser window")
	pf.StringVar(&flagBaseDir, "base-dir", "", "root folder of the store tree (default from STORAGE_BASE_DIR)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	rootCmd.MarkFlagsMutuallyExclusive("headed", "headless")
}

// addBatchFlags registers the flags shared by the spreadsheet driven modes.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagResume, "resume", false, "skip rows completed by an earlier run")
	cmd.Flags().BoolVar(&flagServe, "serve", false, "expose run status and metrics over HTTP while running")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the global flags.
func loadConfig(defaultHeadless bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cfg.Browser.Headless = cfg.Browser.Headless || defaultHeadless
	switch {
	case flagHeaded:
		cfg.Browser.Headless = false
	case flagHeadless:
		cfg.Browser.Headless = true
	}

	if flagBaseDir != "" {
		cfg.Storage.BaseDir = flagBaseDir
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
