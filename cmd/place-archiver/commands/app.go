package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/place-archiver/internal/api"
	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/config"
	"github.com/maltedev/place-archiver/internal/database"
	"github.com/maltedev/place-archiver/internal/download"
	"github.com/maltedev/place-archiver/internal/events"
	"github.com/maltedev/place-archiver/internal/jobs"
	"github.com/maltedev/place-archiver/internal/metrics"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/report"
	"github.com/maltedev/place-archiver/internal/scraper"
	"github.com/maltedev/place-archiver/internal/spreadsheet"
	"github.com/maltedev/place-archiver/internal/storage"
	"github.com/maltedev/place-archiver/pkg/logger"
)

var (
	_ jobs.Sink = (*database.RunRepository)(nil)
	_ jobs.Sink = (*events.Publisher)(nil)
)

// app holds the process-wide pieces a command needs. close releases them in
// reverse order of acquisition.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	closers []func()
}

func newApp(defaultHeadless bool) (*app, error) {
	cfg, err := loadConfig(defaultHeadless)
	if err != nil {
		return nil, err
	}

	log, logCloser := logger.NewWithFile(cfg.Logging.Level, cfg.Logging.Format,
		cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	slog.SetDefault(log)

	a := &app{
		cfg:     cfg,
		logger:  log,
		metrics: metrics.New(),
	}
	a.onClose(func() { logCloser.Close() })
	return a, nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) browserOptions() *browser.Options {
	b := a.cfg.Browser
	opts := browser.DefaultOptions()
	opts.Headless = b.Headless
	opts.Timeout = b.Timeout
	opts.UserAgent = b.UserAgent
	opts.ViewportWidth = b.ViewportWidth
	opts.ViewportHeight = b.ViewportHeight
	opts.AcceptLanguage = b.AcceptLanguage
	opts.TimezoneID = b.TimezoneID
	opts.Locale = b.Locale
	return opts
}

// startScraper launches the browser and returns a client bound to it.
func (a *app) startScraper() (*scraper.Client, error) {
	b, err := browser.New(a.browserOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	timings := scraper.DefaultTimings()
	s := a.cfg.Scraper
	timings.PageLoad = s.PageLoadWait
	timings.TabWait = s.TabWait
	timings.ScrollPause = s.ScrollPause
	timings.CaptureWait = s.CaptureWait
	timings.CaptureTimeout = s.CaptureTimeout

	client := scraper.NewClient(b, scraper.Options{
		Timings:           timings,
		NavigationRetries: s.NavigationRetries,
		MinPriceImageSize: s.MinPriceImageSize,
		Metrics:           a.metrics,
	}, a.logger)

	a.onClose(func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("failed to close page", "error", err)
		}
		if err := b.Close(); err != nil {
			a.logger.Warn("failed to close browser", "error", err)
		}
	})
	return client, nil
}

func (a *app) downloader() *download.Downloader {
	opts := download.DefaultOptions()
	opts.Timeout = a.cfg.Download.Timeout
	opts.Referer = a.cfg.Download.Referer
	opts.CacheSize = a.cfg.Download.CacheSize
	opts.UserAgent = a.cfg.Browser.UserAgent
	return download.New(opts)
}

// attachSinks connects the optional run history and event stream. Either
// failing to connect only disables that sink.
func (a *app) attachSinks(ctx context.Context, runner *jobs.Runner, mode string) {
	if a.cfg.Database.Enabled {
		dbc := a.cfg.Database
		db, err := database.New(ctx, database.Config{
			Host:     dbc.Host,
			Port:     dbc.Port,
			User:     dbc.User,
			Password: dbc.Password,
			Database: dbc.DBName,
			MaxConns: dbc.MaxConns,
		})
		if err == nil {
			err = db.Migrate(ctx)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			a.logger.Warn("run history disabled", "error", err)
		} else {
			runner.AddSink(database.NewRunRepository(db, a.logger))
			a.onClose(db.Close)
		}
	}

	if a.cfg.Redis.Enabled {
		rc := a.cfg.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			a.logger.Warn("event stream disabled", "error", err)
			client.Close()
		} else {
			publisher := events.NewPublisher(client, rc.Stream, mode, storage.StoreKey, a.logger)
			runner.AddSink(publisher)
			a.onClose(func() { publisher.Close() })
		}
	}
}

// serveStatus runs the status API until the returned stop function is called.
func (a *app) serveStatus(runner *jobs.Runner) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	sc := a.cfg.Server
	handler := api.NewRouter(api.NewHandlers(runner, a.logger), a.metrics.Registry)

	go func() {
		defer close(done)
		err := api.Serve(ctx, api.ServerConfig{
			Addr:            net.JoinHostPort(sc.Host, sc.Port),
			ReadTimeout:     sc.ReadTimeout,
			WriteTimeout:    sc.WriteTimeout,
			ShutdownTimeout: sc.ShutdownTimeout,
		}, handler, a.logger)
		if err != nil {
			a.logger.Error("status server failed", "error", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// loadStores reads the spreadsheet before anything else is started so a bad
// path fails fast.
func loadStores(path string) ([]models.Store, error) {
	stores, err := spreadsheet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", path, err)
	}
	return stores, nil
}

// runBatch drives a spreadsheet mode end to end: run the processor over the
// rows, print the summary and write the failure report.
func (a *app) runBatch(ctx context.Context, stores []models.Store, processor jobs.Processor) error {
	mode := processor.Mode()
	opts := jobs.DefaultRunnerOptions(mode)
	s := a.cfg.Scraper
	if s.BatchEvery > 0 {
		opts.BatchEvery = s.BatchEvery
	}
	if s.BatchPause > 0 {
		opts.BatchPause = s.BatchPause
	}
	opts.MinDelay = s.RateLimitMin
	opts.MaxDelay = s.RateLimitMax
	opts.MaxRetries = s.MaxRetries
	opts.Resume = flagResume

	runner := jobs.NewRunner(processor, opts, a.metrics, a.logger)

	progress, err := storage.NewProgressStore(a.cfg.Storage.ProgressFile)
	if err != nil {
		a.logger.Warn("progress tracking disabled", "error", err)
	} else {
		runner.WithProgress(progress)
	}

	a.attachSinks(ctx, runner, mode)

	if flagServe {
		stop := a.serveStatus(runner)
		defer stop()
	}

	summary := runner.Run(ctx, stores)

	fmt.Fprintln(os.Stdout)
	report.PrintSummary(os.Stdout, summary, a.cfg.Storage.BaseDir)

	reportPath, err := report.WriteFailureReport(a.cfg.Storage.ReportDir, summary, time.Now())
	if err != nil {
		a.logger.Error("failed to write failure report", "error", err)
	} else if reportPath != "" {
		fmt.Fprintf(os.Stdout, "\n📝 실패 목록 저장: %s (%d개 매장)\n", reportPath, len(summary.Failed))
	}

	return nil
}
