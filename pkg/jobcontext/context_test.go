package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin(t *testing.T) {
	cycle := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx, cancel := Begin(context.Background(), "reminder", 42, cycle, time.Second)
	defer cancel()

	item, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "reminder", item.Job)
	assert.Equal(t, int64(42), item.MeetingID)
	assert.Equal(t, cycle, item.Cycle)
	assert.NotZero(t, item.ID)

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.Len(t, Fields(ctx), 5)
}

func TestBeginDefaultTimeout(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "poll", 1, time.Now(), 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
}

func TestRunRecoversPanic(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "poll", 1, time.Now(), time.Second)
	defer cancel()

	err := Run(ctx, func(context.Context) error {
		var m map[string]int
		m["boom"]++
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered")
}

func TestRunSingleAttempt(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "poll", 1, time.Now(), time.Second)
	defer cancel()

	calls := 0
	sentinel := errors.New("service unavailable")
	err := Run(ctx, func(context.Context) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestRunSkipsCancelled(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "nudge", 7, time.Now(), time.Second)
	cancel()

	called := false
	err := Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFieldsOutsideItem(t *testing.T) {
	assert.Nil(t, Fields(context.Background()))
}
