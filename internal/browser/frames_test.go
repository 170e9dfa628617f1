package browser

import (
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	playwright.Frame
	name string
}

type fakeFrames struct {
	main   playwright.Frame
	frames []playwright.Frame
}

func (f *fakeFrames) MainFrame() playwright.Frame { return f.main }
func (f *fakeFrames) Frames() []playwright.Frame { return f.frames }

func newFakeFrames(names ...string) *fakeFrames {
	main := &fakeFrame{name: "main"}
	src := &fakeFrames{main: main, frames: []playwright.Frame{main}}
	for _, n := range names {
		src.frames = append(src.frames, &fakeFrame{name: n})
	}
	return src
}

func nameIs(names ...string) (FrameProbe, *[]string) {
	var visited []string
	return func(f playwright.Frame) bool {
		name := f.(*fakeFrame).name
		visited = append(visited, name)
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}, &visited
}

func TestFrameCacheScansMainFirst(t *testing.T) {
	src := newFakeFrames("search", "entry")
	cache := NewFrameCache(false)

	probe, visited := nameIs("entry")
	frame, idx, err := cache.Locate(src, probe)
	require.NoError(t, err)

	assert.Equal(t, "entry", frame.(*fakeFrame).name)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"main", "search", "entry"}, *visited)

	cached, ok := cache.Cached()
	assert.True(t, ok)
	assert.Equal(t, 2, cached)
}

func TestFrameCacheUsesCachedIndex(t *testing.T) {
	src := newFakeFrames("search", "entry")
	cache := NewFrameCache(false)

	probe, _ := nameIs("entry")
	_, _, err := cache.Locate(src, probe)
	require.NoError(t, err)

	probe, visited := nameIs("entry")
	_, idx, err := cache.Locate(src, probe)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"entry"}, *visited)
}

func TestFrameCacheRescansWhenCachedFrameIsGone(t *testing.T) {
	cache := NewFrameCache(false)

	probe, _ := nameIs("entry")
	_, _, err := cache.Locate(newFakeFrames("search", "entry"), probe)
	require.NoError(t, err)

	probe, visited := nameIs("entry")
	frame, idx, err := cache.Locate(newFakeFrames("entry"), probe)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "entry", frame.(*fakeFrame).name)
	assert.Equal(t, []string{"main", "entry"}, *visited)
}

func TestFrameCacheReverseScansIframesLastToFirstThenMain(t *testing.T) {
	src := newFakeFrames("a", "b", "c")
	cache := NewFrameCache(true)

	probe, visited := nameIs("main")
	_, idx, err := cache.Locate(src, probe)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []string{"c", "b", "a", "main"}, *visited)
}

func TestFrameCacheNotFound(t *testing.T) {
	cache := NewFrameCache(false)

	probe, _ := nameIs("missing")
	_, idx, err := cache.Locate(newFakeFrames("a"), probe)
	assert.True(t, errors.Is(err, ErrFrameNotFound))
	assert.Equal(t, -1, idx)

	_, ok := cache.Cached()
	assert.False(t, ok)
}
