package scraper

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/parser"
)

var fetchTabSelectors = []string{
	"xpath=//a[contains(text(), '사진')]",
	"xpath=//button[contains(text(), '사진')]",
	"xpath=//span[contains(text(), '사진')]",
	"xpath=//*[@class='place_section_content']//a[contains(@class, 'pic')]",
}

// FetchResult is the outcome of the single-URL photo collection.
type FetchResult struct {
	FinalURL string
	URLs     []string
}

// FetchPhotos collects photo URLs from a single place URL, following short
// link redirects.
func (c *Client) FetchPhotos(ctx context.Context, url string) (*FetchResult, error) {
	page, err := c.navigate(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := browser.Sleep(ctx, c.opts.Timings.TabWait); err != nil {
		return nil, err
	}

	result := &FetchResult{FinalURL: page.URL()}
	c.logger.Info("page loaded", "url", result.FinalURL)

	for _, selector := range fetchTabSelectors {
		tab := page.Locator(selector).First()
		err := tab.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(5000),
		})
		if err != nil {
			continue
		}

		if err := tab.Click(); err != nil {
			c.logger.Debug("photo tab click failed", "selector", selector, "error", err)
			continue
		}

		c.logger.Info("photo tab clicked", "selector", selector)
		if err := browser.Sleep(ctx, c.opts.Timings.CategoryWait); err != nil {
			return nil, err
		}
		break
	}

	if _, err := browser.ScrollToBottom(ctx, page, maxPhotoScrolls, c.opts.Timings.ClickSettle); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("scrolling failed", "error", err)
	}

	var lists [][]string
	for _, frame := range page.Frames() {
		html, err := frame.Content()
		if err != nil {
			continue
		}

		urls, err := parser.ExtractImageURLs(html, parser.FetchDomains)
		if err != nil {
			return nil, err
		}
		backgrounds, err := parser.ExtractBackgroundImageURLs(html)
		if err != nil {
			return nil, err
		}
		lists = append(lists, urls, backgrounds)
	}

	result.URLs = parser.MergeURLs(lists...)
	if len(result.URLs) == 0 {
		return result, fmt.Errorf("no photos on %s: %w", result.FinalURL, ErrNoPhotos)
	}

	return result, nil
}
