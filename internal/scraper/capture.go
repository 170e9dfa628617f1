package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/models"
)

const (
	searchBaseURL    = "https://search.naver.com/search.naver"
	placeRoot        = "#loc-main-section-root"
	placeCardClass   = "api_subject_bx"
	minCaptureBytes  = 1000
	CaptureFileName  = "네이버플레이스_캡처.png"
	DefaultSearchTag = "세신"
)

// BuildSearchQuery quotes the store identity so the search engine does not
// rewrite it, and appends suffix outside the quotes.
func BuildSearchQuery(store models.Store, suffix string) string {
	q := fmt.Sprintf(`"%s"`, joinIdentity(store))
	if suffix != "" {
		q += " " + suffix
	}
	return q
}

// PlainQuery is the unquoted query shown in reports.
func PlainQuery(store models.Store, suffix string) string {
	q := joinIdentity(store)
	if suffix != "" {
		q += " " + suffix
	}
	return q
}

func SearchURL(query string) string {
	return searchBaseURL + "?query=" + url.QueryEscape(query)
}

func joinIdentity(store models.Store) string {
	return strings.Join([]string{
		strings.TrimSpace(store.Region),
		strings.TrimSpace(store.RegionDetail),
		strings.TrimSpace(store.Name),
	}, " ")
}

// CapturePlace searches for query and screenshots the place card to path.
// It returns the size of the written file.
func (c *Client) CapturePlace(ctx context.Context, query, path string) (int64, error) {
	page, err := c.navigate(ctx, SearchURL(query))
	if err != nil {
		return 0, err
	}

	card := page.Locator(placeRoot + " ." + placeCardClass).First()
	err = card.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(c.opts.Timings.CaptureTimeout.Milliseconds())),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPlaceCardNotFound, err)
	}

	if err := browser.Sleep(ctx, c.opts.Timings.CaptureWait); err != nil {
		return 0, err
	}

	root := page.Locator(placeRoot).First()
	inner, err := root.InnerHTML()
	if err != nil {
		return 0, fmt.Errorf("failed to read place section: %w", err)
	}
	if !strings.Contains(inner, placeCardClass) {
		return 0, ErrPlaceCardNotFound
	}

	if _, err := root.Screenshot(playwright.LocatorScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return 0, fmt.Errorf("failed to capture place card: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("capture file missing: %w", err)
	}
	if info.Size() < minCaptureBytes {
		return info.Size(), fmt.Errorf("%d bytes: %w", info.Size(), ErrCaptureTooSmall)
	}

	return info.Size(), nil
}
