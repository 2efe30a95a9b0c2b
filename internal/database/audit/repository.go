package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/fastreed/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows GetEvents. Zero values match everything.
type Filter struct {
	Format string
	Status entities.ExtractionStatus
}

// LogEvent saves an extraction event to the database.
func (r *Repository) LogEvent(event *entities.ExtractionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated extraction events, most recent first.
func (r *Repository) GetEvents(filter Filter, limit, offset int) ([]entities.ExtractionEvent, int64, error) {
	var events []entities.ExtractionEvent
	var total int64

	query := r.db.Model(&entities.ExtractionEvent{})
	if filter.Format != "" {
		query = query.Where("format = ?", filter.Format)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetEventByRequestID returns gorm.ErrRecordNotFound when no event matches.
func (r *Repository) GetEventByRequestID(requestID string) (*entities.ExtractionEvent, error) {
	var event entities.ExtractionEvent
	if err := r.db.Where("request_id = ?", requestID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteOldEvents removes events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.ExtractionEvent{})
	return result.RowsAffected, result.Error
}
