package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/place-archiver/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	EventTypeRunStarted     EventType = "RUN_STARTED"
	EventTypeStoreProcessed EventType = "STORE_PROCESSED"
	EventTypeRunFinished    EventType = "RUN_FINISHED"

	DefaultStream = "stream:place_archive"
	source        = "place-archiver"
)

// RedisClient is the subset of the redis client the publisher needs.
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
	Close() error
}

type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	RunID     string          `json:"run_id"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

type StoreProcessedPayload struct {
	Mode       string         `json:"mode"`
	StoreKey   string         `json:"store_key"`
	Store      models.Store   `json:"store"`
	Outcome    models.Outcome `json:"outcome"`
	Images     int            `json:"images"`
	Detail     string         `json:"detail,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

// Publisher appends run events to a Redis stream.
type Publisher struct {
	redis  RedisClient
	stream string
	mode   string
	keyFn  func(models.Store) string
	logger *slog.Logger
	now    func() time.Time
}

func NewPublisher(client RedisClient, stream, mode string, keyFn func(models.Store) string, logger *slog.Logger) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{
		redis:  client,
		stream: stream,
		mode:   mode,
		keyFn:  keyFn,
		logger: logger.With("component", "event_publisher"),
		now:    time.Now,
	}
}

func (p *Publisher) RunStarted(ctx context.Context, summary models.RunSummary) error {
	return p.publish(ctx, EventTypeRunStarted, summary.RunID, summary)
}

func (p *Publisher) StoreFinished(ctx context.Context, runID string, result models.StoreResult) error {
	payload := StoreProcessedPayload{
		Mode:       p.mode,
		Store:      result.Store,
		Outcome:    result.Outcome,
		Images:     result.Images,
		Detail:     result.Detail,
		DurationMS: result.Duration.Milliseconds(),
	}
	if p.keyFn != nil {
		payload.StoreKey = p.keyFn(result.Store)
	}
	return p.publish(ctx, EventTypeStoreProcessed, runID, payload)
}

func (p *Publisher) RunFinished(ctx context.Context, summary models.RunSummary) error {
	return p.publish(ctx, EventTypeRunFinished, summary.RunID, summary)
}

func (p *Publisher) Close() error {
	return p.redis.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType EventType, runID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		RunID:     runID,
		Timestamp: p.now(),
		Source:    source,
		Payload:   data,
	}

	dataJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":       string(dataJSON),
			"type":       string(eventType),
			"event_id":   event.ID,
			"run_id":     runID,
			"timestamp":  fmt.Sprintf("%d", event.Timestamp.UnixNano()),
			"event_type": string(eventType),
		},
	}

	id, err := p.redis.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Debug("event published",
		"event_id", event.ID,
		"event_type", eventType,
		"stream", p.stream,
		"stream_id", id)
	return nil
}
