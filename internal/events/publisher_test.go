package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/place-archiver/internal/models"
)

// MockRedisClient is a mock for Redis client
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestPublisher(client RedisClient) *Publisher {
	p := NewPublisher(client, "", "price", func(s models.Store) string { return s.Region + "/" + s.Name },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return p
}

func decodeEvent(t *testing.T, args *redis.XAddArgs) Event {
	t.Helper()
	values := args.Values.(map[string]interface{})

	var event Event
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &event))
	return event
}

func TestPublisherStoreFinished(t *testing.T) {
	client := &MockRedisClient{}
	var captured *redis.XAddArgs
	client.On("XAdd", mock.Anything, mock.AnythingOfType("*redis.XAddArgs")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*redis.XAddArgs) }).
		Return(nil)

	p := newTestPublisher(client)
	result := models.StoreResult{
		Store:    models.Store{Region: "서울", Name: "A점", MapURL: "https://naver.me/a"},
		Outcome:  models.OutcomeNoPrice,
		Detail:   "price table link not found",
		Duration: 2 * time.Second,
	}

	require.NoError(t, p.StoreFinished(context.Background(), "run-1", result))
	require.NotNil(t, captured)

	assert.Equal(t, DefaultStream, captured.Stream)
	values := captured.Values.(map[string]interface{})
	assert.Equal(t, "STORE_PROCESSED", values["type"])
	assert.Equal(t, "run-1", values["run_id"])

	event := decodeEvent(t, captured)
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, values["event_id"], event.ID)
	assert.Equal(t, EventTypeStoreProcessed, event.Type)
	assert.Equal(t, "place-archiver", event.Source)

	var payload StoreProcessedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "price", payload.Mode)
	assert.Equal(t, "서울/A점", payload.StoreKey)
	assert.Equal(t, models.OutcomeNoPrice, payload.Outcome)
	assert.Equal(t, int64(2000), payload.DurationMS)

	client.AssertExpectations(t)
}

func TestPublisherRunLifecycle(t *testing.T) {
	client := &MockRedisClient{}
	var types []string
	client.On("XAdd", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			values := args.Get(1).(*redis.XAddArgs).Values.(map[string]interface{})
			types = append(types, values["type"].(string))
		}).
		Return(nil)

	p := newTestPublisher(client)
	summary := models.RunSummary{RunID: "run-2", Mode: "price", Planned: 3}

	require.NoError(t, p.RunStarted(context.Background(), summary))
	summary.Stats = models.RunStats{Total: 3, Success: 3}
	require.NoError(t, p.RunFinished(context.Background(), summary))

	assert.Equal(t, []string{"RUN_STARTED", "RUN_FINISHED"}, types)
}

func TestPublisherRedisError(t *testing.T) {
	client := &MockRedisClient{}
	client.On("XAdd", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	err := newTestPublisher(client).RunStarted(context.Background(), models.RunSummary{RunID: "run-3"})
	assert.ErrorContains(t, err, "failed to publish to redis")
}

func TestPublisherClose(t *testing.T) {
	client := &MockRedisClient{}
	client.On("Close").Return(nil)

	assert.NoError(t, newTestPublisher(client).Close())
	client.AssertExpectations(t)
}
