package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/metrics"
)

var (
	ErrPhotoTabNotFound  = errors.New("photo tab not found")
	ErrPlaceCardNotFound = errors.New("place card not found")
	ErrCaptureTooSmall   = errors.New("capture file too small")
	ErrPriceLinkNotFound = errors.New("price table link not found")
	ErrNotPricePage      = errors.New("price link opened the photo page")
	ErrNoPriceImages     = errors.New("no price table images found")
	ErrNoPhotos          = errors.New("no photos found")
	ErrBlocked           = browser.ErrBlocked
)

// Timings are the fixed waits between browser steps.
type Timings struct {
	PageLoad       time.Duration
	TabWait        time.Duration
	ClickSettle    time.Duration
	CategoryWait   time.Duration
	ScrollPause    time.Duration
	CaptureTimeout time.Duration
	CaptureWait    time.Duration
	PriceLoad      time.Duration
	PriceClickWait time.Duration
	PriceSettle    time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		PageLoad:       5 * time.Second,
		TabWait:        3 * time.Second,
		ClickSettle:    time.Second,
		CategoryWait:   2 * time.Second,
		ScrollPause:    800 * time.Millisecond,
		CaptureTimeout: 10 * time.Second,
		CaptureWait:    3 * time.Second,
		PriceLoad:      4 * time.Second,
		PriceClickWait: 10 * time.Second,
		PriceSettle:    2 * time.Second,
	}
}

type Options struct {
	Timings           Timings
	NavigationRetries int
	MinPriceImageSize int
	Metrics           *metrics.Metrics
}

// Client drives one reused page through the site's heuristics.
type Client struct {
	browser *browser.Browser
	page    playwright.Page

	photoFrames *browser.FrameCache
	priceFrames *browser.FrameCache

	opts    Options
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewClient(b *browser.Browser, opts Options, logger *slog.Logger) *Client {
	if opts.NavigationRetries < 1 {
		opts.NavigationRetries = 1
	}
	if opts.MinPriceImageSize <= 0 {
		opts.MinPriceImageSize = 150
	}

	return &Client{
		browser:     b,
		photoFrames: browser.NewFrameCache(false),
		priceFrames: browser.NewFrameCache(true),
		opts:        opts,
		metrics:     opts.Metrics,
		logger:      logger.With("component", "scraper"),
	}
}

// Page returns the shared page, opening a new one when needed.
func (c *Client) Page() (playwright.Page, error) {
	if c.page != nil && !c.page.IsClosed() {
		return c.page, nil
	}

	page, err := c.browser.NewPage()
	if err != nil {
		return nil, err
	}
	c.page = page
	return page, nil
}

func (c *Client) navigate(ctx context.Context, url string) (playwright.Page, error) {
	page, err := c.Page()
	if err != nil {
		return nil, err
	}

	if err := c.browser.NavigateWithRetry(ctx, page, url, c.opts.NavigationRetries); err != nil {
		c.metrics.NavigationError()
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	return page, nil
}

func (c *Client) Close() error {
	if c.page == nil || c.page.IsClosed() {
		return nil
	}
	return c.page.Close()
}

// clickFirstVisible JS-clicks the first visible element matched by selector
// whose inner text passes accept. A nil accept takes any element.
func (c *Client) clickFirstVisible(ctx context.Context, frame playwright.Frame, selector string, accept func(text string) bool) bool {
	elements, err := frame.Locator(selector).All()
	if err != nil {
		c.logger.Debug("locator failed", "selector", selector, "error", err)
		return false
	}

	for _, el := range elements {
		visible, err := el.IsVisible()
		if err != nil || !visible {
			continue
		}

		if accept != nil {
			text, err := el.InnerText()
			if err != nil || !accept(strings.TrimSpace(text)) {
				continue
			}
		}

		if err := browser.JSClick(el); err != nil {
			c.logger.Debug("click failed", "selector", selector, "error", err)
			continue
		}

		browser.Sleep(ctx, c.opts.Timings.ClickSettle)
		return true
	}

	return false
}

func exactText(text string) string {
	return fmt.Sprintf("xpath=//*[text()='%s']", text)
}

func containsText(text string) string {
	return fmt.Sprintf("xpath=//*[contains(text(), '%s')]", text)
}
