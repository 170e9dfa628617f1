package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maltedev/place-archiver/internal/metrics"
	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/queue"
	"github.com/maltedev/place-archiver/internal/ratelimit"
	"github.com/maltedev/place-archiver/internal/storage"
)

// Sink receives run lifecycle notifications. Sink errors are logged and never
// change the outcome of a row.
type Sink interface {
	RunStarted(ctx context.Context, summary models.RunSummary) error
	StoreFinished(ctx context.Context, runID string, result models.StoreResult) error
	RunFinished(ctx context.Context, summary models.RunSummary) error
}

type RunnerOptions struct {
	BatchEvery int
	BatchPause time.Duration
	MinDelay   time.Duration
	MaxDelay   time.Duration
	MaxRetries int
	Resume     bool
}

// DefaultRunnerOptions returns the pacing used for a mode: photos rest 3s every
// 5 rows, capture and price rest 2s every 3 rows.
func DefaultRunnerOptions(mode string) RunnerOptions {
	if mode == ModePhotos {
		return RunnerOptions{BatchEvery: 5, BatchPause: 3 * time.Second}
	}
	return RunnerOptions{BatchEvery: 3, BatchPause: 2 * time.Second}
}

type Runner struct {
	processor Processor
	opts      RunnerOptions
	progress  *storage.ProgressStore
	sinks     []Sink
	metrics   *metrics.Metrics
	limiter   *ratelimit.AdaptiveRateLimiter
	logger    *slog.Logger

	mu      sync.RWMutex
	summary models.RunSummary
}

func NewRunner(processor Processor, opts RunnerOptions, m *metrics.Metrics, logger *slog.Logger) *Runner {
	return &Runner{
		processor: processor,
		opts:      opts,
		metrics:   m,
		limiter:   ratelimit.NewAdaptiveRateLimiter(opts.MinDelay, opts.MaxDelay),
		logger:    logger.With("component", "runner", "mode", processor.Mode()),
		summary:   models.RunSummary{Mode: processor.Mode()},
	}
}

// WithProgress records every row in ps and, when resuming, skips rows ps
// already holds as completed.
func (r *Runner) WithProgress(ps *storage.ProgressStore) *Runner {
	r.progress = ps
	return r
}

func (r *Runner) AddSink(s Sink) {
	r.sinks = append(r.sinks, s)
}

// Run processes stores strictly in order. A cancelled context stops the run
// before the next row; the returned summary covers the rows processed so far.
func (r *Runner) Run(ctx context.Context, stores []models.Store) models.RunSummary {
	mode := r.processor.Mode()

	r.mu.Lock()
	r.summary = models.RunSummary{
		RunID:     uuid.New().String(),
		Mode:      mode,
		Planned:   len(stores),
		StartedAt: time.Now(),
	}
	started := r.summary
	r.mu.Unlock()

	r.logger.Info("run started", "run_id", started.RunID, "rows", len(stores))
	r.notify("run_started", func(s Sink) error { return s.RunStarted(ctx, started) })

	if r.opts.Resume && r.progress != nil {
		r.logger.Info("resuming from progress file", "entries", r.progress.GetStats())
	}

	q := queue.NewInMemoryQueue()
	defer q.Close()
	for _, store := range stores {
		q.Push(&queue.Task{ID: strconv.Itoa(store.Row), Store: store})
	}

	pause := ratelimit.NewBatchPause(r.opts.BatchEvery, r.opts.BatchPause)
	interrupted := false
	processed, attempts := 0, 0

	for {
		task, err := q.Pop(ctx)
		if err != nil {
			if !errors.Is(err, queue.ErrQueueEmpty) && !errors.Is(err, queue.ErrQueueClosed) {
				interrupted = true
			}
			break
		}

		if r.completedBefore(task.Store) {
			processed++
			r.logger.Info("already completed, skipping", "store", task.Store.Label())
			r.record(ctx, models.StoreResult{
				Store:   task.Store,
				Outcome: models.OutcomeSuccess,
				Detail:  resumedDetail,
			})
			continue
		}

		if attempts > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				interrupted = true
				break
			}
		}
		attempts++

		res, ok := r.processTask(ctx, task)
		if !ok {
			interrupted = true
			break
		}

		if res.Outcome == models.OutcomeFailed && task.Retries < r.opts.MaxRetries {
			if r.requeue(q, task) {
				continue
			}
		}

		processed++
		r.record(ctx, res)
		r.logger.Info("row finished",
			"store", res.Store.Label(),
			"outcome", res.Outcome,
			"images", res.Images,
			"progress", strconv.Itoa(processed)+"/"+strconv.Itoa(len(stores)),
		)

		if paused, err := pause.After(ctx); err != nil {
			interrupted = true
			break
		} else if paused {
			r.logger.Debug("batch pause", "rows", processed, "pause", r.opts.BatchPause)
		}
	}

	if interrupted {
		r.logger.Warn("run interrupted", "processed", processed, "planned", len(stores))
	}

	r.mu.Lock()
	r.summary.FinishedAt = time.Now()
	r.summary.Interrupted = interrupted
	finished := r.snapshotLocked()
	r.mu.Unlock()

	// The run context may already be cancelled; finishing notifications still go out.
	finishCtx := context.WithoutCancel(ctx)
	r.notify("run_finished", func(s Sink) error { return s.RunFinished(finishCtx, finished) })

	r.logger.Info("run finished",
		"run_id", finished.RunID,
		"total", finished.Stats.Total,
		"success", finished.Stats.Success,
		"failed", finished.Stats.Failed,
		"elapsed", finished.Elapsed().Round(time.Second),
	)
	return finished
}

const resumedDetail = "completed in a previous run"

// requeue schedules another attempt of a failed row. When the queue refuses
// the task the row is recorded with its failed result instead.
func (r *Runner) requeue(q queue.Queue, task *queue.Task) bool {
	retry := *task
	retry.Retries++
	retry.Priority = -retry.Retries
	if err := q.Push(&retry); err != nil {
		r.logger.Warn("failed to queue retry", "store", task.Store.Label(), "error", err)
		return false
	}
	r.logger.Info("row failed, queued for retry", "store", task.Store.Label(), "attempt", retry.Retries)
	return true
}

func (r *Runner) completedBefore(store models.Store) bool {
	return r.opts.Resume && r.progress != nil && r.progress.IsCompleted(r.processor.Mode(), store)
}

// processTask returns false when the row was cut short by cancellation; such a
// row is not counted.
func (r *Runner) processTask(ctx context.Context, task *queue.Task) (models.StoreResult, bool) {
	mode := r.processor.Mode()

	if r.progress != nil {
		if err := r.progress.MarkPending(mode, task.Store); err != nil {
			r.logger.Warn("failed to update progress file", "error", err)
		}
	}

	start := time.Now()
	res := r.processor.Process(ctx, task.Store)
	res.Duration = time.Since(start)

	if ctx.Err() != nil {
		return res, false
	}
	return res, true
}

func (r *Runner) record(ctx context.Context, res models.StoreResult) {
	mode := r.processor.Mode()

	r.mu.Lock()
	r.summary.Stats.Record(res.Outcome, res.Images)
	if res.Outcome.NeedsFollowUp() {
		r.summary.Failed = append(r.summary.Failed, res.FollowUp())
	}
	runID := r.summary.RunID
	r.mu.Unlock()

	if res.Outcome == models.OutcomeFailed {
		r.limiter.RecordError()
	} else {
		r.limiter.RecordSuccess()
	}

	r.metrics.RowProcessed(mode, string(res.Outcome), res.Images, res.Duration)

	if r.progress != nil && res.Detail != resumedDetail {
		if err := r.progress.Record(mode, res); err != nil {
			r.logger.Warn("failed to update progress file", "error", err)
		}
	}

	r.notify("store_finished", func(s Sink) error { return s.StoreFinished(ctx, runID, res) })
}

func (r *Runner) notify(event string, fn func(Sink) error) {
	for _, s := range r.sinks {
		if err := fn(s); err != nil {
			r.logger.Warn("sink failed", "event", event, "error", err)
		}
	}
}

// Snapshot returns a copy of the live run summary.
func (r *Runner) Snapshot() models.RunSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Runner) snapshotLocked() models.RunSummary {
	s := r.summary
	s.Failed = append([]models.FailedStore(nil), r.summary.Failed...)
	return s
}
