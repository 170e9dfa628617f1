package scraper

import (
	"context"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/place-archiver/internal/browser"
	"github.com/maltedev/place-archiver/internal/parser"
)

const (
	InspectSourceFile     = "debug_page_source.html"
	InspectScreenshotFile = "debug_screenshot.png"
)

type FrameSummary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type InspectResult struct {
	URL    string             `json:"url"`
	Report *parser.PageReport `json:"report"`
	Frames []FrameSummary     `json:"frames"`
}

// Inspect loads url, analyzes its structure and saves the page source and a
// screenshot for manual selector work.
func (c *Client) Inspect(ctx context.Context, url, sourcePath, screenshotPath string) (*InspectResult, error) {
	page, err := c.navigate(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := browser.Sleep(ctx, c.opts.Timings.PageLoad); err != nil {
		return nil, err
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	report, err := parser.AnalyzePage(html)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		URL:    page.URL(),
		Report: report,
		Frames: summarizeFrames(page),
	}

	if err := os.WriteFile(sourcePath, []byte(html), 0644); err != nil {
		return result, fmt.Errorf("failed to save page source: %w", err)
	}

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(screenshotPath),
	}); err != nil {
		return result, fmt.Errorf("failed to save screenshot: %w", err)
	}

	return result, nil
}

func summarizeFrames(src browser.FrameSource) []FrameSummary {
	main := src.MainFrame()
	frames := []FrameSummary{}
	idx := 0
	for _, f := range src.Frames() {
		if f == main {
			continue
		}
		idx++
		frames = append(frames, FrameSummary{Index: idx, Name: f.Name(), URL: f.URL()})
	}
	return frames
}
