package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maltedev/place-archiver/internal/models"
)

// Execer is the subset of DB the run repository needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// RunRepository stores run history: one archive_runs row per run and one
// archive_store_results row per processed store.
type RunRepository struct {
	db     Execer
	logger *slog.Logger
}

func NewRunRepository(db Execer, logger *slog.Logger) *RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger.With("component", "run_repository"),
	}
}

func (r *RunRepository) RunStarted(ctx context.Context, summary models.RunSummary) error {
	query := `
		INSERT INTO archive_runs (id, mode, planned, started_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, summary.RunID, summary.Mode, summary.Planned, summary.StartedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	r.logger.Debug("run stored", "run_id", summary.RunID)
	return nil
}

func (r *RunRepository) StoreFinished(ctx context.Context, runID string, result models.StoreResult) error {
	query := `
		INSERT INTO archive_store_results
		(run_id, row_number, region, region_detail, store_name, map_url, outcome, images, detail, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	s := result.Store
	_, err := r.db.Exec(ctx, query,
		runID, s.Row, s.Region, s.RegionDetail, s.Name, nullable(s.MapURL),
		string(result.Outcome), result.Images, nullable(result.Detail), result.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert store result: %w", err)
	}
	return nil
}

func (r *RunRepository) RunFinished(ctx context.Context, summary models.RunSummary) error {
	query := `
		UPDATE archive_runs
		SET total = $2, success = $3, failed = $4, no_folder = $5, no_url = $6,
		    no_price = $7, images = $8, interrupted = $9, finished_at = $10
		WHERE id = $1
	`

	st := summary.Stats
	tag, err := r.db.Exec(ctx, query,
		summary.RunID, st.Total, st.Success, st.Failed, st.NoFolder, st.NoURL,
		st.NoPrice, st.Images, summary.Interrupted, summary.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run %s not found", summary.RunID)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
