package scraper

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/parser"
)

const (
	photoTabText    = "사진"
	companyCategory = "업체"
	maxPhotoScrolls = 10
)

// ExtractPhotos opens a place page, switches to its photo tab and returns the
// original-size URLs of the store's own photos.
func (c *Client) ExtractPhotos(ctx context.Context, mapURL string) ([]string, error) {
	page, err := c.navigate(ctx, mapURL)
	if err != nil {
		return nil, err
	}

	if err := browser.Sleep(ctx, c.opts.Timings.PageLoad); err != nil {
		return nil, err
	}

	_, wasCached := c.photoFrames.Cached()
	frame, idx, err := c.photoFrames.Locate(page, func(f playwright.Frame) bool {
		return c.clickPhotoTab(ctx, f)
	})
	if err != nil {
		return nil, ErrPhotoTabNotFound
	}
	c.logger.Debug("photo tab opened", "frame", idx, "cached", wasCached)

	if err := browser.Sleep(ctx, c.opts.Timings.TabWait); err != nil {
		return nil, err
	}

	if c.clickFirstVisible(ctx, frame, exactText(companyCategory), nil) {
		c.logger.Debug("company category selected")
		if err := browser.Sleep(ctx, c.opts.Timings.CategoryWait); err != nil {
			return nil, err
		}
	}

	if _, err := browser.ScrollToBottom(ctx, frame, maxPhotoScrolls, c.opts.Timings.ScrollPause); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("scrolling photo list failed", "error", err)
	}

	html, err := frame.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read photo frame: %w", err)
	}

	return parser.ExtractImageURLs(html, parser.PhotoDomains)
}

// clickPhotoTab tries the exact tab label first, then any element whose own
// text trims down to the label.
func (c *Client) clickPhotoTab(ctx context.Context, frame playwright.Frame) bool {
	if c.clickFirstVisible(ctx, frame, exactText(photoTabText), nil) {
		return true
	}

	return c.clickFirstVisible(ctx, frame, containsText(photoTabText), func(text string) bool {
		return text == photoTabText
	})
}
