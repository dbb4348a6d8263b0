package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/keremkk/kisalink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")
)

// LinkRepository defines the data access contract for short links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id string) (*model.Link, error)
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	AllCodes(ctx context.Context) ([]string, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	AllByOwner(ctx context.Context, ownerID string) ([]model.Link, error)
	IncrementClicks(ctx context.Context, id string, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return err
	}
	return nil
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	// First in creation order; tolerates duplicates slipping through the
	// non-atomic reserve window.
	var link model.Link
	if err := r.db.WithContext(ctx).
		Where("short_code = ?", code).
		Order("created_at ASC").
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("short_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *linkRepository) AllCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Pluck("short_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.Link
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *linkRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("created_by = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *linkRepository) AllByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	var result []model.Link
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// IncrementClicks bumps the counter server-side and stamps the click time,
// returning the new total. Single statement, so concurrent clicks never
// lose increments.
func (r *linkRepository) IncrementClicks(ctx context.Context, id string, at time.Time) (int64, error) {
	var clicks int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE links SET clicks = clicks + 1, last_clicked_at = ? WHERE id = ? RETURNING clicks", at, id).
		Scan(&clicks).Error
	if err != nil {
		return 0, err
	}
	if clicks == 0 {
		// RETURNING produced no row: the link vanished under us.
		return 0, ErrLinkNotFound
	}
	return clicks, nil
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Link{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
