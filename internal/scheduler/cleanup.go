// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// CleanupScheduler periodically removes old extraction events. When a task
// queue is configured the job is enqueued there; otherwise it runs inline.
type CleanupScheduler struct {
	schedule      string
	retentionDays int
	queue         *tasks.Client
	cleaner       tasks.EventCleaner
	logger        *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewCleanupScheduler creates a scheduler. queue may be nil.
func NewCleanupScheduler(schedule string, retentionDays int, queue *tasks.Client, cleaner tasks.EventCleaner, logger *zap.Logger) *CleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		queue:         queue,
		cleaner:       cleaner,
		logger:        logger,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the cleanup job and starts the cron loop.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(context.Background()); err != nil {
			s.logger.Error("extraction event cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("cleanup scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("retention_days", s.retentionDays),
		zap.Bool("queued", s.queue != nil))

	return nil
}

// Stop waits for a running job to finish and stops the cron loop.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.logger.Info("cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur, or nil when stopped.
func (s *CleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	t := s.cron.Entry(s.entryID).Next
	return &t
}

// RunNow performs one cleanup immediately.
func (s *CleanupScheduler) RunNow(ctx context.Context) error {
	task := tasks.CleanupEventsTask{RetentionDays: s.retentionDays}

	if s.queue != nil {
		ids, err := s.queue.Add(task).Save()
		if err != nil {
			return fmt.Errorf("enqueue cleanup task: %w", err)
		}
		s.logger.Debug("cleanup task enqueued", zap.Strings("task_ids", ids))
		return nil
	}

	return tasks.CleanupEventsProcessor(s.cleaner, s.logger)(ctx, task)
}
