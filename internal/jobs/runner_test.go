package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/place-archiver/internal/metrics"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/queue"
	"github.com/maltedev/place-archiver/internal/storage"
)

// scriptedProcessor returns the outcomes queued per store name, defaulting to success.
type scriptedProcessor struct {
	mu       sync.Mutex
	outcomes map[string][]models.Outcome
	calls    []string
	onCall   func(name string)
}

func (p *scriptedProcessor) Mode() string { return ModeCapture }

func (p *scriptedProcessor) Process(ctx context.Context, store models.Store) models.StoreResult {
	p.mu.Lock()
	p.calls = append(p.calls, store.Name)
	outcome := models.OutcomeSuccess
	if queued := p.outcomes[store.Name]; len(queued) > 0 {
		outcome = queued[0]
		p.outcomes[store.Name] = queued[1:]
	}
	onCall := p.onCall
	p.mu.Unlock()

	if onCall != nil {
		onCall(store.Name)
	}

	res := models.StoreResult{Store: store, Outcome: outcome}
	if outcome == models.OutcomeSuccess {
		res.Images = 1
	}
	if outcome.NeedsFollowUp() {
		res.Detail = "boom"
	}
	return res
}

type recordingSink struct {
	started  []string
	finished []models.StoreResult
	summary  *models.RunSummary
	err      error
}

func (s *recordingSink) RunStarted(ctx context.Context, summary models.RunSummary) error {
	s.started = append(s.started, summary.RunID)
	return s.err
}

func (s *recordingSink) StoreFinished(ctx context.Context, runID string, result models.StoreResult) error {
	s.finished = append(s.finished, result)
	return s.err
}

func (s *recordingSink) RunFinished(ctx context.Context, summary models.RunSummary) error {
	s.summary = &summary
	return s.err
}

func stores(names ...string) []models.Store {
	out := make([]models.Store, 0, len(names))
	for i, name := range names {
		out = append(out, models.Store{Row: i + 2, Region: "서울", RegionDetail: "강남", Name: name})
	}
	return out
}

func TestRunnerCountsEveryRowOnce(t *testing.T) {
	proc := &scriptedProcessor{outcomes: map[string][]models.Outcome{
		"b": {models.OutcomeFailed},
		"c": {models.OutcomeNoFolder},
		"d": {models.OutcomeNoPrice},
		"e": {models.OutcomeNoURL},
	}}
	sink := &recordingSink{}
	m := metrics.New()

	runner := NewRunner(proc, RunnerOptions{}, m, discardLogger())
	runner.AddSink(sink)

	summary := runner.Run(context.Background(), stores("a", "b", "c", "d", "e"))

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, ModeCapture, summary.Mode)
	assert.Equal(t, 5, summary.Planned)
	assert.False(t, summary.Interrupted)
	assert.False(t, summary.FinishedAt.IsZero())

	assert.Equal(t, models.RunStats{Total: 5, Success: 1, Failed: 1, NoFolder: 1, NoURL: 1, NoPrice: 1, Images: 1}, summary.Stats)
	assert.True(t, summary.Stats.Consistent())

	require.Len(t, summary.Failed, 2)
	assert.Equal(t, "b", summary.Failed[0].Store.Name)
	assert.Equal(t, "d", summary.Failed[1].Store.Name)

	assert.Equal(t, []string{summary.RunID}, sink.started)
	assert.Len(t, sink.finished, 5)
	require.NotNil(t, sink.summary)
	assert.Equal(t, summary.Stats, sink.summary.Stats)

	assert.Equal(t, summary, runner.Snapshot())
}

func TestRunnerSinkErrorsDoNotAffectRows(t *testing.T) {
	proc := &scriptedProcessor{}
	runner := NewRunner(proc, RunnerOptions{}, nil, discardLogger())
	runner.AddSink(&recordingSink{err: errors.New("redis down")})

	summary := runner.Run(context.Background(), stores("a", "b"))

	assert.Equal(t, 2, summary.Stats.Success)
	assert.Equal(t, []string{"a", "b"}, proc.calls)
}

func TestRunnerInterruptStopsBeforeNextRow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := &scriptedProcessor{onCall: func(name string) {
		if name == "b" {
			cancel()
		}
	}}
	sink := &recordingSink{}
	runner := NewRunner(proc, RunnerOptions{}, nil, discardLogger())
	runner.AddSink(sink)

	summary := runner.Run(ctx, stores("a", "b", "c"))

	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.Stats.Total)
	assert.True(t, summary.Stats.Consistent())
	assert.Equal(t, []string{"a", "b"}, proc.calls)
	require.NotNil(t, sink.summary)
	assert.True(t, sink.summary.Interrupted)
}

func TestRunnerRetriesFailedRows(t *testing.T) {
	proc := &scriptedProcessor{outcomes: map[string][]models.Outcome{
		"a": {models.OutcomeFailed},
	}}
	runner := NewRunner(proc, RunnerOptions{MaxRetries: 1}, nil, discardLogger())

	summary := runner.Run(context.Background(), stores("a", "b"))

	assert.Equal(t, []string{"a", "b", "a"}, proc.calls)
	assert.Equal(t, 2, summary.Stats.Total)
	assert.Equal(t, 2, summary.Stats.Success)
	assert.Empty(t, summary.Failed)
}

func TestRunnerRequeueOnClosedQueueKeepsRow(t *testing.T) {
	runner := NewRunner(&scriptedProcessor{}, RunnerOptions{MaxRetries: 3}, nil, discardLogger())

	open := queue.NewInMemoryQueue()
	task := &queue.Task{ID: "2", Store: stores("a")[0]}
	require.True(t, runner.requeue(open, task))
	retried, err := open.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retried.Retries)
	assert.Equal(t, -1, retried.Priority)

	closed := queue.NewInMemoryQueue()
	require.NoError(t, closed.Close())
	assert.False(t, runner.requeue(closed, task))
	assert.Equal(t, 0, task.Retries)
}

func TestRunnerResumeSkipsCompletedRows(t *testing.T) {
	ps, err := storage.NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	require.NoError(t, err)

	rows := stores("a", "b", "c")
	require.NoError(t, ps.Record(ModeCapture, models.StoreResult{Store: rows[0], Outcome: models.OutcomeSuccess}))
	require.NoError(t, ps.Record(ModeCapture, models.StoreResult{Store: rows[1], Outcome: models.OutcomeFailed}))

	var logs bytes.Buffer
	proc := &scriptedProcessor{}
	runner := NewRunner(proc, RunnerOptions{Resume: true}, nil, slog.New(slog.NewTextHandler(&logs, nil))).WithProgress(ps)

	summary := runner.Run(context.Background(), rows)

	assert.Contains(t, logs.String(), "resuming from progress file")
	assert.Equal(t, []string{"b", "c"}, proc.calls)
	assert.Equal(t, 3, summary.Stats.Success)
	assert.True(t, ps.IsCompleted(ModeCapture, rows[1]))
	assert.True(t, ps.IsCompleted(ModeCapture, rows[2]))
}

func TestRunnerRecordsProgressWithoutResume(t *testing.T) {
	ps, err := storage.NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	require.NoError(t, err)

	rows := stores("a", "b")
	require.NoError(t, ps.Record(ModeCapture, models.StoreResult{Store: rows[0], Outcome: models.OutcomeSuccess}))

	proc := &scriptedProcessor{outcomes: map[string][]models.Outcome{"b": {models.OutcomeFailed}}}
	runner := NewRunner(proc, RunnerOptions{}, nil, discardLogger()).WithProgress(ps)

	runner.Run(context.Background(), rows)

	assert.Equal(t, []string{"a", "b"}, proc.calls)
	entry, ok := ps.Get(ModeCapture, rows[1])
	require.True(t, ok)
	assert.Equal(t, storage.StatusFailed, entry.Status)
	assert.Equal(t, "boom", entry.Error)
}

func TestDefaultRunnerOptions(t *testing.T) {
	photos := DefaultRunnerOptions(ModePhotos)
	assert.Equal(t, 5, photos.BatchEvery)

	price := DefaultRunnerOptions(ModePrice)
	assert.Equal(t, 3, price.BatchEvery)
	assert.Equal(t, DefaultRunnerOptions(ModeCapture), price)
}
