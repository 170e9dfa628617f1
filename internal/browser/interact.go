package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Evaluator is implemented by playwright pages and frames.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// ScrollToBottom scrolls the document until its height stops growing or maxScrolls
// is reached, and returns the number of scrolls performed.
func ScrollToBottom(ctx context.Context, target Evaluator, maxScrolls int, pause time.Duration) (int, error) {
	last, err := scrollHeight(target)
	if err != nil {
		return 0, err
	}

	scrolls := 0
	for scrolls < maxScrolls {
		if _, err := target.Evaluate("() => window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return scrolls, fmt.Errorf("failed to scroll: %w", err)
		}
		scrolls++

		if err := Sleep(ctx, pause); err != nil {
			return scrolls, err
		}

		height, err := scrollHeight(target)
		if err != nil {
			return scrolls, err
		}
		if height == last {
			break
		}
		last = height
	}

	return scrolls, nil
}

func scrollHeight(target Evaluator) (int, error) {
	v, err := target.Evaluate("() => document.body.scrollHeight")
	if err != nil {
		return 0, fmt.Errorf("failed to read scroll height: %w", err)
	}
	return ToInt(v), nil
}

// JSClick clicks through the DOM instead of the mouse, which also reaches
// elements covered by overlays.
func JSClick(locator playwright.Locator) error {
	if _, err := locator.Evaluate("el => el.click()", nil); err != nil {
		return fmt.Errorf("js click failed: %w", err)
	}
	return nil
}

func ScrollIntoView(locator playwright.Locator) error {
	if _, err := locator.Evaluate("el => el.scrollIntoView({block: 'center'})", nil); err != nil {
		return fmt.Errorf("scroll into view failed: %w", err)
	}
	return nil
}

// Sleep waits for d unless ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ToInt converts a number returned by Evaluate.
func ToInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}
