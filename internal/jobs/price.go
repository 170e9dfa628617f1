package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maltedev/place-archiver/internal/metrics"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/scraper"
	"github.com/maltedev/place-archiver/internal/storage"
)

// PriceJob saves the price table images of a store next to its photos.
type PriceJob struct {
	layout  *storage.Layout
	prices  PriceExtractor
	saver   ImageSaver
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewPriceJob(layout *storage.Layout, prices PriceExtractor, saver ImageSaver, m *metrics.Metrics, logger *slog.Logger) *PriceJob {
	return &PriceJob{
		layout:  layout,
		prices:  prices,
		saver:   saver,
		metrics: m,
		logger:  logger.With("component", "price_job"),
	}
}

func (j *PriceJob) Mode() string { return ModePrice }

func (j *PriceJob) Process(ctx context.Context, store models.Store) models.StoreResult {
	if !store.HasMapURL() {
		j.logger.Warn("no map link, skipping", "store", store.Label())
		return result(store, models.OutcomeNoURL, "no map link")
	}

	companyDir, err := j.layout.EnsureCompanyDir(store)
	if err != nil {
		if errors.Is(err, storage.ErrNoStoreFolder) {
			j.logger.Warn("store folder missing, run photos first", "store", store.Label())
			return result(store, models.OutcomeNoFolder, errorDetail(err))
		}
		return j.failed(store, models.OutcomeFailed, err.Error())
	}

	exists, err := storage.HasFilePrefix(companyDir, scraper.PriceFilePrefix)
	if err != nil {
		return j.failed(store, models.OutcomeFailed, err.Error())
	}
	if exists {
		j.logger.Info("price table already present, skipping", "store", store.Label())
		return result(store, models.OutcomeSuccess, "price table already present")
	}

	urls, err := j.prices.ExtractPriceImages(ctx, store.MapURL)
	switch {
	case errors.Is(err, scraper.ErrPriceLinkNotFound), errors.Is(err, scraper.ErrNotPricePage):
		j.logger.Info("no price table", "store", store.Label(), "reason", err)
		return j.failed(store, models.OutcomeNoPrice, err.Error())
	case err != nil:
		j.logger.Error("price extraction failed", "store", store.Label(), "error", err)
		return j.failed(store, models.OutcomeFailed, err.Error())
	}

	saved := saveAll(ctx, j.saver, urls, companyDir, func(i int) string {
		return PriceFileBase(i, len(urls))
	}, j.metrics, j.logger)
	if saved == 0 {
		return j.failed(store, models.OutcomeFailed, "no price image could be downloaded")
	}

	j.logger.Info("price table saved", "store", store.Label(), "images", saved)
	res := result(store, models.OutcomeSuccess, "")
	res.Images = saved
	return res
}

func (j *PriceJob) failed(store models.Store, outcome models.Outcome, detail string) models.StoreResult {
	res := result(store, outcome, detail)
	res.SearchURL = store.MapURL
	return res
}

// PriceFileBase names the i-th of n price images: 가격표 for a single image,
// 가격표_1..n otherwise.
func PriceFileBase(i, n int) string {
	if n == 1 {
		return scraper.PriceFilePrefix
	}
	return fmt.Sprintf("%s_%d", scraper.PriceFilePrefix, i+1)
}
