package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/maltedev/place-archiver/internal/metrics"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/storage"
)

const photoFilePattern = "업체_%03d"

// PhotoJob creates the store folder tree, bookmarks the map link and downloads
// the store's own photos into 업체.
type PhotoJob struct {
	layout  *storage.Layout
	photos  PhotoExtractor
	saver   ImageSaver
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     clock
}

func NewPhotoJob(layout *storage.Layout, photos PhotoExtractor, saver ImageSaver, m *metrics.Metrics, logger *slog.Logger) *PhotoJob {
	return &PhotoJob{
		layout:  layout,
		photos:  photos,
		saver:   saver,
		metrics: m,
		logger:  logger.With("component", "photo_job"),
		now:     time.Now,
	}
}

func (j *PhotoJob) Mode() string { return ModePhotos }

func (j *PhotoJob) Process(ctx context.Context, store models.Store) models.StoreResult {
	if !store.HasMapURL() {
		j.logger.Warn("no map link, skipping", "store", store.Label())
		return result(store, models.OutcomeNoURL, "no map link")
	}

	storeDir, err := j.layout.CreateStoreDir(store)
	if err != nil {
		return result(store, models.OutcomeFailed, errorDetail(err))
	}

	if _, err := storage.WriteLinkFile(storeDir, store.Name, store.MapURL, j.now()); err != nil {
		return result(store, models.OutcomeFailed, errorDetail(err))
	}

	urls, err := j.photos.ExtractPhotos(ctx, store.MapURL)
	if err != nil {
		j.logger.Error("photo extraction failed", "store", store.Label(), "error", err)
		return result(store, models.OutcomeFailed, errorDetail(err))
	}

	res := result(store, models.OutcomeSuccess, "")
	if len(urls) == 0 {
		j.logger.Info("no photos found", "store", store.Label())
		res.Detail = "no photos found"
		return res
	}

	companyDir := filepath.Join(storeDir, storage.CompanyFolder)
	if err := os.MkdirAll(companyDir, 0755); err != nil {
		return result(store, models.OutcomeFailed, fmt.Sprintf("failed to create company folder: %v", err))
	}

	res.Images = saveAll(ctx, j.saver, urls, companyDir, func(i int) string {
		return fmt.Sprintf(photoFilePattern, i+1)
	}, j.metrics, j.logger)

	j.logger.Info("photos downloaded", "store", store.Label(), "found", len(urls), "saved", res.Images)
	return res
}

// saveAll downloads every URL and returns how many were written. Individual
// download failures are logged and skipped.
func saveAll(ctx context.Context, saver ImageSaver, urls []string, dir string, name func(i int) string, m *metrics.Metrics, logger *slog.Logger) int {
	saved := 0
	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}
		path, size, err := saver.Save(ctx, u, dir, name(i))
		if err != nil {
			m.DownloadError()
			logger.Warn("download failed", "index", i+1, "url", u, "error", err)
			continue
		}
		logger.Debug("image saved", "path", path, "bytes", size)
		saved++
	}
	return saved
}
