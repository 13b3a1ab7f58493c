package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWatch_RunsJobImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- RunWatch(ctx, "@every 1h", func() { ran <- struct{}{} })
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not run on startup")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunWatch did not stop after cancellation")
	}
}

func TestRunWatch_InvalidCronExpression(t *testing.T) {
	err := RunWatch(context.Background(), "not a schedule", func() {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}
