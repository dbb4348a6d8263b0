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
	// ErrTokenNotFound signals that no active token matches the credential.
	ErrTokenNotFound = errors.New("api token not found")
)

// TokenRepository defines the data access contract for API tokens and the
// per-call usage ledger.
type TokenRepository interface {
	GetActiveByToken(ctx context.Context, token string) (*model.APIToken, error)
	TouchUsage(ctx context.Context, id string, at time.Time) error
	CountUsageSince(ctx context.Context, tokenID string, since time.Time) (int64, error)
	LogUsage(ctx context.Context, usage *model.APIUsage) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a GORM-backed TokenRepository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetActiveByToken(ctx context.Context, token string) (*model.APIToken, error) {
	var t model.APIToken
	if err := r.db.WithContext(ctx).
		Where("token = ? AND is_active = ?", token, true).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) TouchUsage(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.APIToken{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_used_at": at,
			"usage_count":  gorm.Expr("usage_count + 1"),
		}).Error
}

func (r *tokenRepository) CountUsageSince(ctx context.Context, tokenID string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.APIUsage{}).
		Where("token_id = ? AND timestamp >= ?", tokenID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tokenRepository) LogUsage(ctx context.Context, usage *model.APIUsage) error {
	if usage.ID == "" {
		usage.ID = uuid.New().String()
	}
	if usage.Timestamp.IsZero() {
		usage.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(usage).Error
}
