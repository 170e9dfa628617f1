package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/place-archiver/internal/models"
)

func task(id string, priority int) *Task {
	return &Task{ID: id, Store: models.Store{Name: id}, Priority: priority}
}

func TestInMemoryQueueOrder(t *testing.T) {
	q := NewInMemoryQueue()

	require.NoError(t, q.Push(task("a", 0)))
	require.NoError(t, q.Push(task("b", 0)))
	require.NoError(t, q.Push(task("retry", 1)))
	require.NoError(t, q.Push(task("c", 0)))
	assert.Equal(t, 4, q.Size())

	var order []string
	for {
		tk, err := q.Pop(context.Background())
		if errors.Is(err, ErrQueueEmpty) {
			break
		}
		require.NoError(t, err)
		assert.False(t, tk.CreatedAt.IsZero())
		order = append(order, tk.ID)
	}

	assert.Equal(t, []string{"retry", "a", "b", "c"}, order)
}

func TestInMemoryQueueClosed(t *testing.T) {
	q := NewInMemoryQueue()
	require.NoError(t, q.Push(task("a", 0)))
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Push(task("b", 0)), ErrQueueClosed)

	tk, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", tk.ID)

	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestInMemoryQueueCancelled(t *testing.T) {
	q := NewInMemoryQueue()
	require.NoError(t, q.Push(task("a", 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, q.Size())
}
