package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrBadStatus = errors.New("unexpected response status")

// File is a downloaded image.
type File struct {
	Data        []byte
	ContentType string
	Ext         string
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Referer   string
	// CacheSize bounds the number of image bodies kept for a row that is
	// retried, so it only needs to cover one store's images.
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Timeout:   15 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Referer:   "https://map.naver.com/",
		CacheSize: 32,
		CacheTTL:  10 * time.Minute,
	}
}

// Downloader fetches CDN images with the headers the CDN expects.
type Downloader struct {
	client *resty.Client
	cache  *expirable.LRU[string, *File]
	logger *slog.Logger
}

func New(opts Options) *Downloader {
	if opts.CacheSize < 1 {
		opts.CacheSize = 1
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)
	if opts.Referer != "" {
		client.SetHeader("Referer", opts.Referer)
	}

	return &Downloader{
		client: client,
		cache:  expirable.NewLRU[string, *File](opts.CacheSize, nil, opts.CacheTTL),
		logger: slog.Default().With("component", "downloader"),
	}
}

// WithTransport replaces the HTTP transport.
func (d *Downloader) WithTransport(rt http.RoundTripper) *Downloader {
	d.client.SetTransport(rt)
	return d
}

func (d *Downloader) Fetch(ctx context.Context, url string) (*File, error) {
	if cached, ok := d.cache.Get(url); ok {
		d.logger.Debug("serving image from cache", "url", url)
		return cached, nil
	}

	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %w", url, resp.StatusCode(), ErrBadStatus)
	}

	contentType := resp.Header().Get("Content-Type")
	file := &File{
		Data:        resp.Body(),
		ContentType: contentType,
		Ext:         ExtensionFor(contentType),
	}
	d.cache.Add(url, file)

	return file, nil
}

// Save downloads url into dir as base plus the detected extension and returns
// the written path and size.
func (d *Downloader) Save(ctx context.Context, url, dir, base string) (string, int, error) {
	file, err := d.Fetch(ctx, url)
	if err != nil {
		return "", 0, err
	}

	path := filepath.Join(dir, base+file.Ext)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, len(file.Data), nil
}

// ExtensionFor maps a Content-Type to a file extension. Anything that is
// neither png nor webp is stored as jpg.
func ExtensionFor(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
