package jobs

import (
	"context"
	"time"

	"github.com/maltedev/place-archiver/internal/download"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/scraper"
)

const (
	ModePhotos  = "photos"
	ModeCapture = "capture"
	ModePrice   = "price"
)

// Processor handles one spreadsheet row for a mode. Process never returns an
// error: every row ends with exactly one outcome.
type Processor interface {
	Mode() string
	Process(ctx context.Context, store models.Store) models.StoreResult
}

type PhotoExtractor interface {
	ExtractPhotos(ctx context.Context, mapURL string) ([]string, error)
}

type PlaceCapturer interface {
	CapturePlace(ctx context.Context, query, path string) (int64, error)
}

type PriceExtractor interface {
	ExtractPriceImages(ctx context.Context, mapURL string) ([]string, error)
}

type ImageSaver interface {
	Save(ctx context.Context, url, dir, base string) (string, int, error)
}

var (
	_ PhotoExtractor = (*scraper.Client)(nil)
	_ PlaceCapturer  = (*scraper.Client)(nil)
	_ PriceExtractor = (*scraper.Client)(nil)
	_ ImageSaver     = (*download.Downloader)(nil)
)

func result(store models.Store, outcome models.Outcome, detail string) models.StoreResult {
	return models.StoreResult{Store: store, Outcome: outcome, Detail: detail}
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type clock func() time.Time
