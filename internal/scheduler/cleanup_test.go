package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/fastreed/internal/tasks"
)

type recordingCleaner struct {
	calls     int
	retention time.Duration
	err       error
}

func (r *recordingCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	r.calls++
	r.retention = retention
	return 2, r.err
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every day"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"))
}

func TestCleanupScheduler_RunNowInline(t *testing.T) {
	cleaner := &recordingCleaner{}
	s := NewCleanupScheduler("0 3 * * *", 14, nil, cleaner, nil)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 14*24*time.Hour, cleaner.retention)
}

func TestCleanupScheduler_RunNowInlineError(t *testing.T) {
	boom := errors.New("disk full")
	s := NewCleanupScheduler("0 3 * * *", 14, nil, &recordingCleaner{err: boom}, nil)

	assert.ErrorIs(t, s.RunNow(context.Background()), boom)
}

func TestCleanupScheduler_RunNowQueued(t *testing.T) {
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "test.db"), tasks.DefaultConfig(), nil)
	require.NoError(t, err)
	defer client.Close()

	cleaner := &recordingCleaner{}
	s := NewCleanupScheduler("0 3 * * *", 14, client, cleaner, nil)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Zero(t, cleaner.calls, "queued cleanup must not run inline")
}

func TestCleanupScheduler_StartStop(t *testing.T) {
	s := NewCleanupScheduler("0 3 * * *", 30, nil, &recordingCleaner{}, nil)

	assert.Nil(t, s.NextRunTime())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Starting twice is a no-op.
	require.NoError(t, s.Start())

	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())

	s.Stop()
}

func TestCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := NewCleanupScheduler("not a schedule", 30, nil, &recordingCleaner{}, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
	assert.False(t, s.IsRunning())
}
