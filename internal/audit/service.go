// Package audit records extraction attempts in the database. Records hold
// metadata only; uploaded bytes and extracted text are never persisted.
package audit

import (
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/database/audit"
	"github.com/mrlokans/fastreed/internal/document"
	"github.com/mrlokans/fastreed/internal/entities"
	"github.com/mrlokans/fastreed/internal/utils"
)

const maxErrorLen = 500

// Extraction describes one finished upload. Client identity is not part
// of it.
type Extraction struct {
	RequestID  string
	Filename   string
	Format     document.Format
	SizeBytes  int64
	TextLength int
	Duration   time.Duration
	Err        error
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service. A nil logger discards output.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records an event synchronously.
func (s *Service) Log(event *entities.ExtractionEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.ExtractionEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log extraction event",
				zap.String("request_id", event.RequestID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogExtraction converts an extraction outcome into an event and stores it
// asynchronously.
func (s *Service) LogExtraction(x Extraction) {
	s.LogAsync(NewEvent(x))
}

// NewEvent builds the persisted form of an extraction outcome.
func NewEvent(x Extraction) *entities.ExtractionEvent {
	event := &entities.ExtractionEvent{
		RequestID:  x.RequestID,
		Filename:   utils.SanitizeFilename(x.Filename),
		Format:     x.Format.String(),
		SizeBytes:  x.SizeBytes,
		Status:     entities.ExtractionStatusSuccess,
		TextLength: x.TextLength,
		DurationMs: x.Duration.Milliseconds(),
	}

	if x.Err != nil {
		event.Status = entities.ExtractionStatusFailed
		event.ErrorKind = string(document.KindOf(x.Err))
		event.ErrorMsg = truncate(document.Detail(x.Err), maxErrorLen)
		event.TextLength = 0
	}

	return event
}

// GetEvents retrieves paginated extraction events.
func (s *Service) GetEvents(filter audit.Filter, limit, offset int) ([]entities.ExtractionEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to at most maxLen bytes without splitting a
// multi-byte character.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
