package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/maltedev/place-archiver/internal/metrics"
)

const (
	FetchURLListFile = "photo_urls.txt"
	fetchFilePattern = "photo_%03d"
)

// SaveFetched stores the photos found on a single map page into dir as
// photo_NNN files and writes the URL list next to them. It returns the number
// of saved images.
func SaveFetched(ctx context.Context, saver ImageSaver, urls []string, dir string, m *metrics.Metrics, logger *slog.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create download folder: %w", err)
	}

	list := strings.Join(urls, "\n")
	if len(urls) > 0 {
		list += "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, FetchURLListFile), []byte(list), 0644); err != nil {
		return 0, fmt.Errorf("failed to write url list: %w", err)
	}

	saved := saveAll(ctx, saver, urls, dir, func(i int) string {
		return fmt.Sprintf(fetchFilePattern, i+1)
	}, m, logger)
	return saved, ctx.Err()
}
