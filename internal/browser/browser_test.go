package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.False(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 1920, opts.ViewportWidth)
	assert.Equal(t, 1080, opts.ViewportHeight)
	assert.Equal(t, "ko-KR", opts.Locale)
	assert.Equal(t, "Asia/Seoul", opts.TimezoneID)
}

type staticContent struct {
	html string
	err  error
}

func (s staticContent) Content() (string, error) { return s.html, s.err }

func TestCheckBlocked(t *testing.T) {
	assert.NoError(t, CheckBlocked(staticContent{html: "<div>강남 세신샵</div>"}))

	err := CheckBlocked(staticContent{html: "<p>자동입력 방지 문자를 입력해 주세요</p>"})
	assert.True(t, errors.Is(err, ErrBlocked))

	err = CheckBlocked(staticContent{err: errors.New("target closed")})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBlocked))
}

type heightEvaluator struct {
	heights []int
	reads   int
	scrolls int
}

func (h *heightEvaluator) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if expression == "() => document.body.scrollHeight" {
		v := h.heights[min(h.reads, len(h.heights)-1)]
		h.reads++
		return float64(v), nil
	}
	h.scrolls++
	return nil, nil
}

func TestScrollToBottomStopsWhenHeightSettles(t *testing.T) {
	ev := &heightEvaluator{heights: []int{1000, 1800, 2400, 2400}}

	n, err := ScrollToBottom(context.Background(), ev, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, ev.scrolls)
}

func TestScrollToBottomHonoursLimit(t *testing.T) {
	ev := &heightEvaluator{heights: []int{100, 200, 300, 400, 500, 600, 700}}

	n, err := ScrollToBottom(context.Background(), ev, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, ToInt(3))
	assert.Equal(t, 150, ToInt(150.7))
	assert.Equal(t, 7, ToInt(int64(7)))
	assert.Equal(t, 0, ToInt("x"))
	assert.Equal(t, 0, ToInt(nil))
}

var _ Evaluator = playwright.Frame(nil)
