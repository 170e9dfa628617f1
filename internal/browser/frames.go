package browser

import (
	"errors"
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

var ErrFrameNotFound = errors.New("no frame matched")

// FrameSource is the part of a page the frame cache needs.
type FrameSource interface {
	MainFrame() playwright.Frame
	Frames() []playwright.Frame
}

// FrameProbe reports whether a frame holds what the caller is looking for.
// Probes may interact with the frame (a successful click counts as a match).
type FrameProbe func(frame playwright.Frame) bool

// FrameCache remembers which frame matched last time. Index 0 is the main
// document, index i is the i-th iframe.
type FrameCache struct {
	// Reverse scans iframes from last to first and the main document last.
	Reverse bool

	index  int
	cached bool
	logger *slog.Logger
}

func NewFrameCache(reverse bool) *FrameCache {
	return &FrameCache{
		Reverse: reverse,
		logger:  slog.Default().With("component", "frame_cache"),
	}
}

// Locate returns the first frame accepted by probe, trying the cached index
// before a full scan.
func (c *FrameCache) Locate(src FrameSource, probe FrameProbe) (playwright.Frame, int, error) {
	frames := orderedFrames(src)

	if c.cached {
		if c.index < len(frames) && probe(frames[c.index]) {
			c.logger.Debug("cached frame matched", "index", c.index)
			return frames[c.index], c.index, nil
		}
		c.logger.Debug("cached frame stale, rescanning", "index", c.index, "frames", len(frames))
		c.Reset()
	}

	for _, idx := range c.scanOrder(len(frames)) {
		if probe(frames[idx]) {
			c.index = idx
			c.cached = true
			c.logger.Debug("frame located", "index", idx, "frames", len(frames))
			return frames[idx], idx, nil
		}
	}

	return nil, -1, ErrFrameNotFound
}

// Cached returns the remembered frame index.
func (c *FrameCache) Cached() (int, bool) {
	return c.index, c.cached
}

func (c *FrameCache) Reset() {
	c.index = 0
	c.cached = false
}

func (c *FrameCache) scanOrder(n int) []int {
	order := make([]int, 0, n)
	if !c.Reverse {
		for i := 0; i < n; i++ {
			order = append(order, i)
		}
		return order
	}

	for i := n - 1; i >= 1; i-- {
		order = append(order, i)
	}
	if n > 0 {
		order = append(order, 0)
	}
	return order
}

// orderedFrames returns the main frame followed by every other frame in document order.
func orderedFrames(src FrameSource) []playwright.Frame {
	main := src.MainFrame()
	all := src.Frames()

	frames := make([]playwright.Frame, 0, len(all)+1)
	if main != nil {
		frames = append(frames, main)
	}
	for _, f := range all {
		if f == nil || f == main {
			continue
		}
		frames = append(frames, f)
	}
	return frames
}
