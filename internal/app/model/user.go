package model

import "time"

// User roles consumed by authorization checks around the core.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an authenticated principal. Session mechanics live in the
// external identity provider; this record only carries the moderation flags.
type User struct {
	ID          string    `db:"id" gorm:"primaryKey;size:64"`
	Email       string    `db:"email" gorm:"uniqueIndex;size:255;not null"`
	DisplayName string    `db:"display_name" gorm:"size:255"`
	Role        string    `db:"role" gorm:"size:16;not null;default:user"`
	IsApproved  bool      `db:"is_approved" gorm:"not null;default:false"`
	IsBanned    bool      `db:"is_banned" gorm:"not null;default:false"`
	CreatedAt   time.Time `db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at" gorm:"autoUpdateTime"`
}
