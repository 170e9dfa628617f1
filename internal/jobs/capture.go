package jobs

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/scraper"
	"github.com/maltedev/place-archiver/internal/storage"
)

// CaptureJob screenshots the place card from the search result page into an
// existing store folder.
type CaptureJob struct {
	layout   *storage.Layout
	capturer PlaceCapturer
	suffix   string
	logger   *slog.Logger
}

func NewCaptureJob(layout *storage.Layout, capturer PlaceCapturer, suffix string, logger *slog.Logger) *CaptureJob {
	return &CaptureJob{
		layout:   layout,
		capturer: capturer,
		suffix:   suffix,
		logger:   logger.With("component", "capture_job"),
	}
}

func (j *CaptureJob) Mode() string { return ModeCapture }

func (j *CaptureJob) Process(ctx context.Context, store models.Store) models.StoreResult {
	companyDir, err := j.layout.EnsureCompanyDir(store)
	if err != nil {
		if errors.Is(err, storage.ErrNoStoreFolder) {
			j.logger.Warn("store folder missing, run photos first", "store", store.Label())
			return result(store, models.OutcomeNoFolder, errorDetail(err))
		}
		return result(store, models.OutcomeFailed, errorDetail(err))
	}

	query := scraper.BuildSearchQuery(store, j.suffix)
	path := filepath.Join(companyDir, scraper.CaptureFileName)

	size, err := j.capturer.CapturePlace(ctx, query, path)
	if err != nil {
		j.logger.Error("capture failed", "store", store.Label(), "query", query, "error", err)
		res := result(store, models.OutcomeFailed, errorDetail(err))
		res.Query = scraper.PlainQuery(store, j.suffix)
		res.SearchURL = scraper.SearchURL(query)
		return res
	}

	j.logger.Info("place card captured", "store", store.Label(), "path", path, "bytes", size)
	res := result(store, models.OutcomeSuccess, "")
	res.Images = 1
	return res
}
