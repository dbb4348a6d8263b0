package repository

import (
	"context"

	"github.com/keremkk/kisalink/internal/app/model"
	"gorm.io/gorm"
)

// ClickEventRepository defines the data access contract for click events.
type ClickEventRepository interface {
	Create(ctx context.Context, event *model.ClickEvent) error
	ListByCode(ctx context.Context, shortCode string, limit int) ([]model.ClickEvent, error)
}

type clickEventRepository struct {
	db *gorm.DB
}

// NewClickEventRepository returns a GORM-backed ClickEventRepository.
func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &clickEventRepository{db: db}
}

func (r *clickEventRepository) Create(ctx context.Context, event *model.ClickEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *clickEventRepository) ListByCode(ctx context.Context, shortCode string, limit int) ([]model.ClickEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var result []model.ClickEvent
	if err := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		Order("timestamp DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
