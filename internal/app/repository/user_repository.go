package repository

import (
	"context"
	"errors"

	"github.com/keremkk/kisalink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound signals that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	SetApproved(ctx context.Context, id string, approved bool) (*model.User, error)
	SetBanned(ctx context.Context, id string, banned bool) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) SetApproved(ctx context.Context, id string, approved bool) (*model.User, error) {
	return r.setFlag(ctx, id, "is_approved", approved)
}

func (r *userRepository) SetBanned(ctx context.Context, id string, banned bool) (*model.User, error) {
	return r.setFlag(ctx, id, "is_banned", banned)
}

func (r *userRepository) setFlag(ctx context.Context, id, column string, value bool) (*model.User, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}
