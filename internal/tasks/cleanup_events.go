package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

const defaultRetentionDays = 30

// EventCleaner deletes extraction events older than a retention window.
type EventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupEventsTask removes extraction events older than RetentionDays.
type CleanupEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_extraction_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention converts RetentionDays into a duration, falling back to 30 days.
func (t CleanupEventsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CleanupEventsProcessor creates a processor function for CleanupEventsTask.
func CleanupEventsProcessor(cleaner EventCleaner, logger *zap.Logger) backlite.QueueProcessor[CleanupEventsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task CleanupEventsTask) error {
		if cleaner == nil {
			return errors.New("extraction event cleaner not configured")
		}

		deleted, err := cleaner.DeleteOldEvents(task.Retention())
		if err != nil {
			return err
		}

		logger.Info("cleaned up extraction events",
			zap.Int64("deleted", deleted),
			zap.Duration("retention", task.Retention()))
		return nil
	}
}

// NewCleanupEventsQueue creates a backlite queue for cleanup tasks.
func NewCleanupEventsQueue(cleaner EventCleaner, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupEventsProcessor(cleaner, logger))
}
