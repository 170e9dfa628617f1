package scraper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/parser"
)

const (
	maxPriceScrolls = 5
	PriceFilePrefix = "가격표"
)

const collectImagesJS = `() => {
	const out = [];
	for (const el of document.querySelectorAll('img, [data-src]')) {
		const r = el.getBoundingClientRect();
		out.push({
			src: el.tagName === 'IMG' ? (el.src || '') : '',
			dataSrc: el.getAttribute('data-src') || '',
			width: r.width,
			height: r.height,
		});
	}
	return out;
}`

// ExtractPriceImages opens a place page, follows its price table link and
// returns the URLs of the price table images.
func (c *Client) ExtractPriceImages(ctx context.Context, mapURL string) ([]string, error) {
	page, err := c.navigate(ctx, mapURL)
	if err != nil {
		return nil, err
	}

	if err := browser.Sleep(ctx, c.opts.Timings.PriceLoad); err != nil {
		return nil, err
	}

	frame, idx, err := c.priceFrames.Locate(page, isPriceHomeFrame)
	if err != nil {
		c.logger.Debug("home tab frame not found, using main document")
		frame = page.MainFrame()
	} else {
		c.logger.Debug("home tab frame located", "frame", idx)
	}

	if !c.clickPriceLink(ctx, frame) {
		return nil, ErrPriceLinkNotFound
	}

	if err := browser.Sleep(ctx, c.opts.Timings.PriceClickWait); err != nil {
		return nil, err
	}

	html, err := frame.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read price page: %w", err)
	}
	if kind := parser.ClassifyPricePage(html); kind == parser.PagePhotos {
		return nil, ErrNotPricePage
	}

	if _, err := browser.ScrollToBottom(ctx, frame, maxPriceScrolls, c.opts.Timings.ScrollPause); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("scrolling price page failed", "error", err)
	}
	if err := browser.Sleep(ctx, c.opts.Timings.PriceSettle); err != nil {
		return nil, err
	}

	raw, err := frame.Evaluate(collectImagesJS)
	if err != nil {
		return nil, fmt.Errorf("failed to collect images: %w", err)
	}

	candidates, err := parseCandidates(raw)
	if err != nil {
		return nil, err
	}

	urls := parser.FilterPriceImages(candidates, parser.PriceDomain, float64(c.opts.MinPriceImageSize))
	c.logger.Debug("price images filtered", "candidates", len(candidates), "kept", len(urls))
	if len(urls) == 0 {
		return nil, ErrNoPriceImages
	}

	return urls, nil
}

func isPriceHomeFrame(frame playwright.Frame) bool {
	html, err := frame.Content()
	if err != nil {
		return false
	}
	return parser.IsPriceHomeFrame(html)
}

func (c *Client) clickPriceLink(ctx context.Context, frame playwright.Frame) bool {
	elements, err := frame.Locator(containsText(parser.PriceLinkMarker)).All()
	if err != nil {
		return false
	}

	for _, el := range elements {
		text, err := el.InnerText()
		if err != nil || !parser.IsPriceLinkText(text) {
			continue
		}

		if err := browser.ScrollIntoView(el); err != nil {
			c.logger.Debug("scroll to price link failed", "error", err)
		}
		browser.Sleep(ctx, c.opts.Timings.ClickSettle/2)

		if err := browser.JSClick(el); err != nil {
			continue
		}

		c.logger.Debug("price link clicked", "text", text)
		return true
	}

	return false
}

// parseCandidates converts the Evaluate result into typed candidates.
func parseCandidates(raw interface{}) ([]parser.ImageCandidate, error) {
	if raw == nil {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image candidates: %w", err)
	}

	var candidates []parser.ImageCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode image candidates: %w", err)
	}

	return candidates, nil
}
